// Package render composes per-frame output onto a display surface.
//
// Two frame modes exist: the full-array mode draws every tracked entity
// straight onto the frame, while the quadrant mode repaints only grid cells
// flagged changed and blits them into place, so redraw cost is proportional
// to the number of changed, visible cells rather than to world size.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/quadrant"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
)

// Viewport is the visible screen rectangle in world coordinates.
type Viewport struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Width and Height of the viewport in pixels.
func (v *Viewport) Width() float64  { return v.Right - v.Left }
func (v *Viewport) Height() float64 { return v.Bottom - v.Top }

// Settings configures a Renderer.
type Settings struct {
	// Codec and Library resolve and size sprites. Both required.
	Codec   *sprite.Codec
	Library *library.Index

	// Grid enables the quadrant (dirty-rectangle) frame mode. Optional.
	Grid *quadrant.Grid

	// Viewport is the visible rectangle. Required; the frame surface is
	// sized from it once, at construction.
	Viewport *Viewport

	// Background refills repainted cells. Transparent black when unset.
	Background color.RGBA

	// KeyFunc generates the library lookup key for an entity. Nil
	// selects Thing.LookupKey.
	KeyFunc func(*things.Thing) string

	// SpriteCacheCutoff is the pixel area above which a composite
	// sprite's parts are drawn live instead of pre-rendered onto
	// per-part surfaces. Zero disables the cutoff.
	SpriteCacheCutoff float64

	// EpsilonOpacity is the opacity below which an entity is treated as
	// invisible. Zero selects 0.007.
	EpsilonOpacity float64
}

// Renderer draws entities onto an owned frame surface.
type Renderer struct {
	codec    *sprite.Codec
	library  *library.Index
	grid     *quadrant.Grid
	viewport *Viewport

	background color.RGBA
	keyFunc    func(*things.Thing) string
	cutoff     float64
	epsilon    float64

	frame   *image.RGBA
	drawOps int
}

// NewRenderer validates the settings and constructs a Renderer.
func NewRenderer(s Settings) (*Renderer, error) {
	if s.Codec == nil {
		return nil, fmt.Errorf("render: a renderer requires a codec")
	}
	if s.Library == nil {
		return nil, fmt.Errorf("render: a renderer requires a library index")
	}
	if s.Viewport == nil {
		return nil, fmt.Errorf("render: a renderer requires a viewport")
	}
	w := int(s.Viewport.Width())
	h := int(s.Viewport.Height())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: viewport must have positive dimensions; got %dx%d", w, h)
	}
	keyFunc := s.KeyFunc
	if keyFunc == nil {
		keyFunc = (*things.Thing).LookupKey
	}
	epsilon := s.EpsilonOpacity
	if epsilon == 0 {
		epsilon = 0.007
	}
	return &Renderer{
		codec:      s.Codec,
		library:    s.Library,
		grid:       s.Grid,
		viewport:   s.Viewport,
		background: s.Background,
		keyFunc:    keyFunc,
		cutoff:     s.SpriteCacheCutoff,
		epsilon:    epsilon,
		frame:      image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// Frame returns the composed frame surface. The renderer keeps ownership.
func (r *Renderer) Frame() *image.RGBA {
	return r.frame
}

// Grid returns the quadrant grid, or nil when the renderer runs in
// full-array mode.
func (r *Renderer) Grid() *quadrant.Grid {
	return r.grid
}

// DrawOps returns how many low-level draw operations ran since the last
// ResetDrawOps. Tests use it to observe the dirty-rectangle property.
func (r *Renderer) DrawOps() int {
	return r.drawOps
}

// ResetDrawOps zeroes the draw-operation counter.
func (r *Renderer) ResetDrawOps() {
	r.drawOps = 0
}

// visible reports whether a world rectangle intersects the viewport.
func (r *Renderer) visible(top, right, bottom, left float64) bool {
	return right > r.viewport.Left && left < r.viewport.Right &&
		bottom > r.viewport.Top && top < r.viewport.Bottom
}

// skippable reports whether an entity needs no drawing at all: hidden,
// under the opacity epsilon, zero sized or fully off screen. This is a
// silent skip, not an error.
func (r *Renderer) skippable(t *things.Thing) bool {
	if t.Hidden {
		return true
	}
	if t.Opacity < r.epsilon {
		return true
	}
	if t.Width() <= 0 || t.Height() <= 0 {
		return true
	}
	return !r.visible(t.Top, t.Right, t.Bottom, t.Left)
}

// fill paints a uniform color over the whole destination.
func (r *Renderer) fill(dst *image.RGBA, c color.RGBA) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	r.drawOps++
}
