package sprite

// This file contains the encode pipeline: turning an image back into the
// sprite text format. It is the inverse utility of the decode pipeline and
// mostly serves the packing tool.

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
)

// imageData extracts the raw RGBA bytes of an image, four per pixel.
func imageData(img image.Image) []uint8 {
	b := img.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out = append(out, uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8))
		}
	}
	return out
}

// mapToPalette maps every pixel of the raw data to its closest default
// palette index.
func (c *Codec) mapToPalette(data []uint8) []int {
	out := make([]int, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, c.palette.ClosestIndex(data[i], data[i+1], data[i+2], data[i+3]))
	}
	return out
}

// runThreshold is the minimum run length worth spending an 'x' run on:
// max(3, round(4/digitsize)).
func (c *Codec) runThreshold() int {
	t := int(math.Round(4 / float64(c.digitSize)))
	if t < 3 {
		return 3
	}
	return t
}

// Encode writes the image as sprite text addressing the codec's default
// palette, using run-length runs whenever a run is long enough to pay for
// its syntax.
func (c *Codec) Encode(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("sprite: cannot encode a nil image")
	}
	indices := c.mapToPalette(imageData(img))
	return c.emit(indices, c.digitSize, nil), nil
}

// EncodeCompact is like Encode but, when the image maps onto at most ten
// distinct palette entries, prefixes a p[...] custom palette declaration so
// the body uses one character per pixel.
func (c *Codec) EncodeCompact(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("sprite: cannot encode a nil image")
	}
	data := imageData(img)
	indices := c.mapToPalette(data)

	working := c.workingPalette(data, indices)
	if len(working) == 0 || len(working) > 10 {
		return c.emit(indices, c.digitSize, nil), nil
	}

	local := make(map[int]int, len(working))
	for li, di := range working {
		local[di] = li
	}
	decl := make([]string, len(working))
	for i, di := range working {
		decl[i] = fmt.Sprintf("%d", di)
	}
	body := c.emit(indices, 1, local)
	return "p[" + strings.Join(decl, ",") + "]" + body, nil
}

// workingPalette builds the frequency-sorted list of used default palette
// indices. If any source pixel is fully transparent, a fully transparent
// entry is forced to the front.
func (c *Codec) workingPalette(data []uint8, indices []int) []int {
	counts := map[int]int{}
	for _, idx := range indices {
		counts[idx]++
	}
	used := make([]int, 0, len(counts))
	for idx := range counts {
		used = append(used, idx)
	}
	sort.Slice(used, func(i, j int) bool {
		if counts[used[i]] != counts[used[j]] {
			return counts[used[i]] > counts[used[j]]
		}
		return used[i] < used[j]
	})

	hasZeroAlpha := false
	for i := 3; i < len(data); i += 4 {
		if data[i] == 0 {
			hasZeroAlpha = true
			break
		}
	}
	if hasZeroAlpha {
		transparent := -1
		for i, e := range c.palette {
			if e[3] == 0 {
				transparent = i
				break
			}
		}
		if transparent >= 0 {
			out := []int{transparent}
			for _, idx := range used {
				if idx != transparent {
					out = append(out, idx)
				}
			}
			return out
		}
	}
	return used
}

// emit serializes palette indices as digit groups with run-length runs.
// When local is non-nil, indices are first translated through it (the
// custom palette case) and digitSize should be 1.
func (c *Codec) emit(indices []int, digitSize int, local map[int]int) string {
	threshold := c.runThreshold()
	var out strings.Builder
	for i := 0; i < len(indices); {
		run := 1
		for i+run < len(indices) && indices[i+run] == indices[i] {
			run++
		}
		idx := indices[i]
		if local != nil {
			idx = local[idx]
		}
		group := fmt.Sprintf("%0*d", digitSize, idx)
		if run > threshold {
			fmt.Fprintf(&out, "x%s%d,", group, run)
		} else {
			for n := 0; n < run; n++ {
				out.WriteString(group)
			}
		}
		i += run
	}
	return out.String()
}
