package sprite

// This file contains the palette model: an ordered list of RGBA entries
// addressed by fixed-width decimal digit strings.

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
)

// PaletteEntry is a single palette color as R, G, B, A channel values.
type PaletteEntry [4]uint8

// RGBA implements color.Color for a palette entry.
func (e PaletteEntry) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: e[0], G: e[1], B: e[2], A: e[3]}.RGBA()
}

// Palette is an ordered sequence of entries. The position of an entry is its
// index in the sprite text format.
type Palette []PaletteEntry

// DigitSize returns how many characters encode one index of this palette:
// floor(log10(len))+1.
func (p Palette) DigitSize() int {
	size := 1
	for n := len(p); n >= 10; n /= 10 {
		size++
	}
	return size
}

// Color returns the entry at the given index.
func (p Palette) Color(idx int) (PaletteEntry, error) {
	if idx < 0 || idx >= len(p) {
		return PaletteEntry{}, fmt.Errorf("palette index out of range: got %d, want [0,%d)", idx, len(p))
	}
	return p[idx], nil
}

// ClosestIndex returns the palette index whose entry has the minimum summed
// absolute channel difference from the given channels.
//
// The scan runs from the highest index to the lowest and replaces the
// candidate only on a strictly smaller difference, so among equally distant
// entries the lowest index wins.
func (p Palette) ClosestIndex(r, g, b, a uint8) int {
	best := -1
	bestDiff := 0
	for i := len(p) - 1; i >= 0; i-- {
		diff := absDiff(p[i][0], r) + absDiff(p[i][1], g) + absDiff(p[i][2], b) + absDiff(p[i][3], a)
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

// NewPaletteFromJSON reads a palette serialized as [[r,g,b,a], ...].
func NewPaletteFromJSON(r io.Reader) (Palette, error) {
	var raw [][]uint8
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not parse palette json: %v", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("palette json holds no entries")
	}
	p := make(Palette, len(raw))
	for i, e := range raw {
		if len(e) != 4 {
			return nil, fmt.Errorf("palette entry %d: got %d channels, want 4", i, len(e))
		}
		p[i] = PaletteEntry{e[0], e[1], e[2], e[3]}
	}
	return p, nil
}
