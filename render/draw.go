package render

// This file contains the two frame modes and the compositing primitives
// they share.

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-retro/quadrant"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
)

// DrawFull repaints the whole frame from scratch: background first, then
// every drawable entity, group by group in the order given.
func (r *Renderer) DrawFull(groups ...[]*things.Thing) error {
	r.fill(r.frame, r.background)
	for _, group := range groups {
		for _, t := range group {
			if r.skippable(t) {
				continue
			}
			if err := r.drawThing(r.frame, t, r.viewport.Left, r.viewport.Top); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawQuadrants repaints only grid cells that are both changed and visible,
// then blits each repainted cell into the frame and clears its flag. With
// no changed cells this runs zero draw operations.
func (r *Renderer) DrawQuadrants() error {
	if r.grid == nil {
		return fmt.Errorf("render: quadrant mode requires a grid")
	}
	for _, row := range r.grid.Rows() {
		for _, q := range row.Quadrants {
			if !q.Changed {
				continue
			}
			if !r.visible(q.Top, q.Right, q.Bottom, q.Left) {
				continue
			}
			if err := r.repaintQuadrant(q); err != nil {
				return err
			}
			r.blitQuadrant(q)
			q.Changed = false
		}
	}
	return nil
}

// repaintQuadrant redraws one cell's surface: background fill, then the
// cell's members in grid group order. Visibility against the viewport is
// not rechecked per member here; the cell itself already passed.
func (r *Renderer) repaintQuadrant(q *quadrant.Quadrant) error {
	r.fill(q.Canvas, r.background)
	for _, group := range r.grid.GroupNames() {
		for _, member := range q.Members(group) {
			t, ok := member.(*things.Thing)
			if !ok {
				glog.Warningf("render: quadrant member %T is not drawable, skipping", member)
				continue
			}
			if t.Hidden || t.Opacity < r.epsilon || t.Width() <= 0 || t.Height() <= 0 {
				continue
			}
			if err := r.drawThing(q.Canvas, t, q.Left, q.Top); err != nil {
				return err
			}
		}
	}
	return nil
}

// blitQuadrant copies a repainted cell surface into the frame at its
// viewport position, clipped by draw.Draw to the frame bounds.
func (r *Renderer) blitQuadrant(q *quadrant.Quadrant) {
	dst := image.Rect(
		int(q.Left-r.viewport.Left),
		int(q.Top-r.viewport.Top),
		int(q.Right-r.viewport.Left),
		int(q.Bottom-r.viewport.Top),
	)
	draw.Draw(r.frame, dst, q.Canvas, q.Canvas.Bounds().Min, draw.Src)
	r.drawOps++
}

// drawThing composites one entity onto dst. originX/originY are the world
// coordinates of dst's top-left pixel.
func (r *Renderer) drawThing(dst *image.RGBA, t *things.Thing, originX, originY float64) error {
	if t.Sprite == nil {
		if err := r.SetThingSprite(t); err != nil {
			return err
		}
	}
	rect := image.Rect(
		int(t.Left-originX),
		int(t.Top-originY),
		int(t.Right-originX),
		int(t.Bottom-originY),
	)
	if rect.Empty() {
		return nil
	}
	switch m := t.Sprite.(type) {
	case *sprite.Sprite:
		if t.Canvas == nil {
			return fmt.Errorf("render: entity %q has no prepared surface", t.Title)
		}
		if t.Repeat {
			r.tile(dst, rect, t.Canvas, t.Opacity)
		} else {
			r.paste(dst, rect, t.Canvas, t.Opacity)
		}
	case *sprite.Multiple:
		return r.drawMultiple(dst, t, m, rect, t.Opacity)
	default:
		return fmt.Errorf("render: entity %q has unsupported sprite %T", t.Title, t.Sprite)
	}
	return nil
}

// drawMultiple composites the parts of a multi-part sprite over rect.
// Vertical sprites place bottom then top, horizontal place right then
// left, and corner sprites place the four corners, then the edges; with a
// target shorter than the summed borders the later placements overwrite
// the earlier ones. Whatever rectangle remains goes to the middle part.
func (r *Renderer) drawMultiple(dst *image.RGBA, t *things.Thing, m *sprite.Multiple, rect image.Rectangle, opacity float64) error {
	scale := r.codec.Scale()
	topH := m.TopHeight * scale
	rightW := m.RightWidth * scale
	bottomH := m.BottomHeight * scale
	leftW := m.LeftWidth * scale

	part := func(name string) (*image.RGBA, error) {
		return r.partImage(t, m, name)
	}
	inner := rect

	place := func(name string, target image.Rectangle, tiled bool) error {
		img, err := part(name)
		if err != nil {
			return err
		}
		if img == nil || target.Empty() {
			return nil
		}
		if tiled {
			r.tile(dst, target, img, opacity)
		} else {
			r.paste(dst, target, img, opacity)
		}
		return nil
	}

	switch m.Direction {
	case sprite.DirVertical:
		if bottomH > 0 {
			if err := place(sprite.PartBottom, image.Rect(rect.Min.X, rect.Max.Y-bottomH, rect.Max.X, rect.Max.Y), true); err != nil {
				return err
			}
			inner.Max.Y = rect.Max.Y - bottomH
		}
		if topH > 0 {
			if err := place(sprite.PartTop, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topH), true); err != nil {
				return err
			}
			inner.Min.Y = rect.Min.Y + topH
		}
	case sprite.DirHorizontal:
		if rightW > 0 {
			if err := place(sprite.PartRight, image.Rect(rect.Max.X-rightW, rect.Min.Y, rect.Max.X, rect.Max.Y), true); err != nil {
				return err
			}
			inner.Max.X = rect.Max.X - rightW
		}
		if leftW > 0 {
			if err := place(sprite.PartLeft, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftW, rect.Max.Y), true); err != nil {
				return err
			}
			inner.Min.X = rect.Min.X + leftW
		}
	case sprite.DirCorners:
		corners := []struct {
			name   string
			target image.Rectangle
		}{
			{sprite.PartTopLeft, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftW, rect.Min.Y+topH)},
			{sprite.PartTopRight, image.Rect(rect.Max.X-rightW, rect.Min.Y, rect.Max.X, rect.Min.Y+topH)},
			{sprite.PartBottomLeft, image.Rect(rect.Min.X, rect.Max.Y-bottomH, rect.Min.X+leftW, rect.Max.Y)},
			{sprite.PartBottomRight, image.Rect(rect.Max.X-rightW, rect.Max.Y-bottomH, rect.Max.X, rect.Max.Y)},
		}
		for _, c := range corners {
			if err := place(c.name, c.target, false); err != nil {
				return err
			}
		}
		edges := []struct {
			name   string
			target image.Rectangle
		}{
			{sprite.PartTop, image.Rect(rect.Min.X+leftW, rect.Min.Y, rect.Max.X-rightW, rect.Min.Y+topH)},
			{sprite.PartLeft, image.Rect(rect.Min.X, rect.Min.Y+topH, rect.Min.X+leftW, rect.Max.Y-bottomH)},
			{sprite.PartRight, image.Rect(rect.Max.X-rightW, rect.Min.Y+topH, rect.Max.X, rect.Max.Y-bottomH)},
			{sprite.PartBottom, image.Rect(rect.Min.X+leftW, rect.Max.Y-bottomH, rect.Max.X-rightW, rect.Max.Y)},
		}
		for _, e := range edges {
			if err := place(e.name, e.target, true); err != nil {
				return err
			}
		}
		inner = image.Rect(rect.Min.X+leftW, rect.Min.Y+topH, rect.Max.X-rightW, rect.Max.Y-bottomH)
	default:
		return fmt.Errorf("render: entity %q has unknown composite direction %q", t.Title, m.Direction)
	}

	if inner.Empty() {
		return nil
	}
	img, err := part(sprite.PartMiddle)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	if m.MiddleStretch {
		r.paste(dst, inner, img, opacity)
	} else {
		r.tile(dst, inner, img, opacity)
	}
	return nil
}

// paste composites src over the target rectangle, pixel-stretching it with
// nearest-neighbor when the dimensions differ. One draw operation.
func (r *Renderer) paste(dst *image.RGBA, rect image.Rectangle, src image.Image, opacity float64) {
	b := src.Bounds()
	if b.Dx() != rect.Dx() || b.Dy() != rect.Dy() {
		src = resize.Resize(uint(rect.Dx()), uint(rect.Dy()), src, resize.NearestNeighbor)
	}
	r.compose(dst, rect, src, opacity)
	r.drawOps++
}

// tile pattern-fills the target rectangle with src at its natural size,
// clipping the last column and row of tiles. One draw operation.
func (r *Renderer) tile(dst *image.RGBA, rect image.Rectangle, src image.Image, opacity float64) {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return
	}
	for y := rect.Min.Y; y < rect.Max.Y; y += sh {
		for x := rect.Min.X; x < rect.Max.X; x += sw {
			target := image.Rect(x, y, min(x+sw, rect.Max.X), min(y+sh, rect.Max.Y))
			r.compose(dst, target, src, opacity)
		}
	}
	r.drawOps++
}

// compose is the single low-level composite: draw.Over, with a uniform
// alpha mask scoped to this one call when the entity is translucent.
func (r *Renderer) compose(dst *image.RGBA, rect image.Rectangle, src image.Image, opacity float64) {
	sp := src.Bounds().Min
	if opacity >= 1 {
		draw.Draw(dst, rect, src, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, rect, src, sp, mask, image.Point{}, draw.Over)
}
