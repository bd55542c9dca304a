package render

// This file contains the one-shot sprite snapshot used by debug tooling and
// the web handlers: a single library key composed onto a fresh surface by
// the regular frame pipeline.

import (
	"fmt"
	"image"

	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
)

// Snapshot renders the sprite behind one library key onto a fresh surface
// of the given size. A zero width or height selects the sprite's natural
// size; targets other than the natural size are nearest-neighbor scaled.
func Snapshot(codec *sprite.Codec, index *library.Index, key string, w, h int) (*image.RGBA, error) {
	dec, err := index.Lookup(key)
	if err != nil {
		return nil, err
	}
	natW, natH, spriteWidth := naturalSize(codec, dec)
	if w == 0 {
		w = natW
	}
	if h == 0 {
		h = natH
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: cannot determine dimensions for %q; pass explicit ones", key)
	}

	r, err := NewRenderer(Settings{
		Codec:    codec,
		Library:  index,
		Viewport: &Viewport{Right: float64(w), Bottom: float64(h)},
	})
	if err != nil {
		return nil, err
	}
	t := &things.Thing{
		Title:       key,
		Right:       float64(w),
		Bottom:      float64(h),
		Opacity:     1,
		SpriteWidth: spriteWidth,
	}
	if err := r.DrawFull([]*things.Thing{t}); err != nil {
		return nil, err
	}
	return r.Frame(), nil
}

// naturalSize guesses display dimensions for a decoded sprite: a square
// single sprite at its own size, a composite at its borders plus two cells
// of middle on each axis.
func naturalSize(codec *sprite.Codec, dec sprite.Decoded) (w, h int, spriteWidth float64) {
	scale := codec.Scale()
	switch m := dec.(type) {
	case *sprite.Sprite:
		sw := m.SquareWidth(scale)
		if sw == 0 {
			return 0, 0, 0
		}
		rows := len(m.Pixels) / 4 / sw
		return sw, rows * scale, float64(sw / scale)
	case *sprite.Multiple:
		const cell = 8
		w = (m.LeftWidth + m.RightWidth + 2*cell) * scale
		h = (m.TopHeight + m.BottomHeight + 2*cell) * scale
		return w, h, 0
	}
	return 0, 0, 0
}
