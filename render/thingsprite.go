package render

// This file contains per-entity render preparation: resolving the decoded
// sprite for an entity and caching it onto offscreen surfaces.

import (
	"fmt"
	"image"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
)

// SetThingSprite fetches the entity's decoded sprite through the library
// and prepares its offscreen surface(s). It runs lazily the first time an
// entity is drawn, and again whenever the caller invalidates the entity's
// appearance by clearing Thing.Sprite.
//
// A missing sprite for the generated key is a hard failure.
func (r *Renderer) SetThingSprite(t *things.Thing) error {
	key := r.keyFunc(t)
	dec, err := r.library.Lookup(key)
	if err != nil {
		return errors.Wrapf(err, "resolving sprite for %q", key)
	}
	t.Sprite = dec

	switch m := dec.(type) {
	case *sprite.Sprite:
		t.NumSprites = 1
		t.Canvases = nil
		w := r.spriteWidth(t, m)
		if w <= 0 {
			return fmt.Errorf("render: cannot determine sprite width for %q", key)
		}
		buf, err := r.codec.Sized(m, key, sprite.Dims{Width: w})
		if err != nil {
			return errors.Wrapf(err, "sizing sprite for %q", key)
		}
		img, err := sprite.ToImage(buf, w)
		if err != nil {
			return errors.Wrapf(err, "imaging sprite for %q", key)
		}
		t.Canvas = img
	case *sprite.Multiple:
		if err := m.Process(r.codec, key); err != nil {
			return errors.Wrapf(err, "processing composite for %q", key)
		}
		t.NumSprites = len(m.SizedParts)
		t.Canvas = nil
		if r.cutoff > 0 && t.Width()*t.Height() > r.cutoff {
			// Large entities skip pre-rendering: parts get drawn live
			// each frame, trading compositing cost for memory.
			t.Canvases = nil
			return nil
		}
		t.Canvases = make(map[string]*image.RGBA, len(m.SizedParts))
		for name, part := range m.SizedParts {
			img, err := sprite.ToImage(part.Pixels, part.Width)
			if err != nil {
				return errors.Wrapf(err, "imaging part %q for %q", name, key)
			}
			t.Canvases[name] = img
		}
	default:
		return fmt.Errorf("render: unsupported decoded sprite %T for %q", dec, key)
	}
	return nil
}

// spriteWidth picks the pixel width of the entity's sprite surface: the
// declared source width times scale, then a square buffer's own width,
// then the bounding-box width as a last resort.
func (r *Renderer) spriteWidth(t *things.Thing, spr *sprite.Sprite) int {
	if t.SpriteWidth > 0 {
		return int(t.SpriteWidth) * r.codec.Scale()
	}
	if sw := spr.SquareWidth(r.codec.Scale()); sw > 0 {
		return sw
	}
	return int(t.Width())
}

// partImage returns the drawable surface for one composite part: the
// pre-rendered canvas when the entity has one, or a freshly built image in
// live mode.
func (r *Renderer) partImage(t *things.Thing, m *sprite.Multiple, name string) (*image.RGBA, error) {
	if t.Canvases != nil {
		return t.Canvases[name], nil
	}
	part, ok := m.SizedParts[name]
	if !ok {
		return nil, nil
	}
	return sprite.ToImage(part.Pixels, part.Width)
}
