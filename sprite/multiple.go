package sprite

// This file contains the composite (multi-part) sprite type.

import (
	"fmt"
)

// Direction tags how a Multiple's parts are arranged.
type Direction string

const (
	DirVertical   Direction = "vertical"
	DirHorizontal Direction = "horizontal"
	DirCorners    Direction = "corners"
)

// Part names understood inside a Multiple.
const (
	PartTop         = "top"
	PartRight       = "right"
	PartBottom      = "bottom"
	PartLeft        = "left"
	PartTopLeft     = "topLeft"
	PartTopRight    = "topRight"
	PartBottomLeft  = "bottomLeft"
	PartBottomRight = "bottomRight"
	PartMiddle      = "middle"
)

// Multiple is a composite sprite assembled from named directional parts,
// each a decoded single sprite, with fixed border thicknesses per side and
// a stretch-or-tile middle. Parts keep their natural size; the renderer
// tiles or stretches them over the target rectangle.
type Multiple struct {
	Direction Direction

	// Sprites holds the decoded single sprite per part name.
	Sprites map[string]*Sprite

	// Border thicknesses, in unscaled pixels.
	TopHeight    int
	RightWidth   int
	BottomHeight int
	LeftWidth    int

	// MiddleStretch selects stretching the middle part over the leftover
	// area instead of tiling it.
	MiddleStretch bool

	// SizedParts holds the per-part sized buffers and their pixel widths
	// once Process ran.
	SizedParts map[string]SizedPart

	processed bool
}

// SizedPart is one part's fully sized pixel buffer at its natural
// dimensions.
type SizedPart struct {
	Pixels []uint8
	Width  int
	Height int
}

func (*Multiple) decodedSprite() {}

// Processed reports whether the part buffers have been produced.
func (m *Multiple) Processed() bool {
	return m.processed
}

// Process lazily runs the sizing pipeline on every part and caches the
// buffers on the Multiple itself. The processed flag prevents
// re-processing.
func (m *Multiple) Process(c *Codec, key string) error {
	if m.processed {
		return nil
	}
	sized := make(map[string]SizedPart, len(m.Sprites))
	for part, spr := range m.Sprites {
		w := m.partNaturalWidth(part, c, spr)
		if w <= 0 {
			return fmt.Errorf("part %q of %q has no width", part, key)
		}
		buf, err := c.Sized(spr, key, Dims{Width: w})
		if err != nil {
			return fmt.Errorf("sizing part %q of %q: %v", part, key, err)
		}
		sized[part] = SizedPart{
			Pixels: buf,
			Width:  w,
			Height: len(buf) / 4 / w,
		}
	}
	m.SizedParts = sized
	m.processed = true
	return nil
}

// partNaturalWidth derives the pixel width of a part's decoded buffer from
// the declared border thicknesses. The buffer is already horizontally
// replicated by the codec scale but not yet vertically, so horizontal
// strips divide by the unscaled border height while vertical strips are
// border times scale wide.
func (m *Multiple) partNaturalWidth(part string, c *Codec, spr *Sprite) int {
	scale := c.Scale()
	pixels := len(spr.Pixels) / 4
	switch part {
	case PartTop:
		if m.TopHeight > 0 {
			return pixels / m.TopHeight
		}
	case PartBottom:
		if m.BottomHeight > 0 {
			return pixels / m.BottomHeight
		}
	case PartLeft, PartTopLeft, PartBottomLeft:
		return m.LeftWidth * scale
	case PartRight, PartTopRight, PartBottomRight:
		return m.RightWidth * scale
	case PartMiddle:
		if side := squareSide(pixels / scale); side > 0 {
			return side * scale
		}
	}
	return 0
}

// SquareWidth returns the scaled pixel width of a square sprite buffer, or
// 0 when the buffer is not square. Debug and web tooling use it to guess
// display dimensions when no declared width is available.
func (s *Sprite) SquareWidth(scale int) int {
	if scale <= 0 {
		return 0
	}
	if side := squareSide(len(s.Pixels) / 4 / scale); side > 0 {
		return side * scale
	}
	return 0
}

// squareSide returns s for a buffer of s*s pixels, or 0 when the count is
// not a perfect square.
func squareSide(pixels int) int {
	side := 1
	for side*side < pixels {
		side++
	}
	if side*side != pixels {
		return 0
	}
	return side
}
