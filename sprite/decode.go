package sprite

// This file contains the decode pipeline stages (unravel, filter, expand,
// to-RGBA) and the per-request sizing pipeline (row repetition and flips).

import (
	"fmt"
	"strconv"
	"strings"
)

// unravel scans the encoding left to right, resolving run-length runs and
// palette switches, and emits one default-digit-size index group per
// unscaled pixel.
func (c *Codec) unravel(encoding string) (string, error) {
	var out strings.Builder

	// A custom palette, declared with p[...], maps single-character local
	// digits to default palette indices. nil means the default palette is
	// active.
	var custom []int
	digitSize := c.digitSize

	for i := 0; i < len(encoding); {
		switch encoding[i] {
		case 'x':
			// x<colorDigits><decimalCount>,
			if i+1+digitSize > len(encoding) {
				return "", fmt.Errorf("truncated run at offset %d", i)
			}
			group := encoding[i+1 : i+1+digitSize]
			comma := strings.IndexByte(encoding[i+1+digitSize:], ',')
			if comma < 0 {
				return "", fmt.Errorf("run at offset %d misses its comma", i)
			}
			countStr := encoding[i+1+digitSize : i+1+digitSize+comma]
			count, err := strconv.Atoi(countStr)
			if err != nil || count < 1 {
				return "", fmt.Errorf("bad run count %q at offset %d", countStr, i)
			}
			resolved, err := c.resolveGroup(group, custom)
			if err != nil {
				return "", fmt.Errorf("run at offset %d: %v", i, err)
			}
			for n := 0; n < count; n++ {
				out.WriteString(resolved)
			}
			i += 1 + digitSize + comma + 1
		case 'p':
			if i+1 < len(encoding) && encoding[i+1] == '[' {
				end := strings.IndexByte(encoding[i:], ']')
				if end < 0 {
					return "", fmt.Errorf("unterminated palette declaration at offset %d", i)
				}
				list := encoding[i+2 : i+end]
				var err error
				custom, err = parsePaletteList(list)
				if err != nil {
					return "", fmt.Errorf("palette declaration at offset %d: %v", i, err)
				}
				// Custom palettes are addressed with one character
				// per pixel until the next reset.
				digitSize = 1
				i += end + 1
			} else {
				custom = nil
				digitSize = c.digitSize
				i++
			}
		default:
			if i+digitSize > len(encoding) {
				return "", fmt.Errorf("truncated pixel group at offset %d", i)
			}
			resolved, err := c.resolveGroup(encoding[i:i+digitSize], custom)
			if err != nil {
				return "", fmt.Errorf("pixel group at offset %d: %v", i, err)
			}
			out.WriteString(resolved)
			i += digitSize
		}
	}
	return out.String(), nil
}

// resolveGroup translates one encoded digit group (sized for the active
// palette) into a default-digit-size group addressing the default palette.
func (c *Codec) resolveGroup(group string, custom []int) (string, error) {
	n, err := strconv.Atoi(group)
	if err != nil {
		return "", fmt.Errorf("bad digit group %q: %v", group, err)
	}
	if custom != nil {
		if n < 0 || n >= len(custom) {
			return "", fmt.Errorf("custom palette index out of range: got %d, want [0,%d)", n, len(custom))
		}
		n = custom[n]
	}
	return c.formatIndex(n), nil
}

func (c *Codec) formatIndex(n int) string {
	return fmt.Sprintf("%0*d", c.digitSize, n)
}

func parsePaletteList(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	// Custom palette pixels are a single character each, so only indices
	// 0 through 9 are addressable.
	if len(parts) > 10 {
		return nil, fmt.Errorf("custom palette has %d entries; single-character addressing allows at most 10", len(parts))
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad palette index %q: %v", p, err)
		}
		out[i] = n
	}
	return out, nil
}

// applyFilter substitutes palette indices digit group by digit group.
// Filtered values are themselves indices into the default palette.
func (c *Codec) applyFilter(digits string, f *Filter) string {
	if f == nil || len(f.Palette) == 0 {
		return digits
	}
	var out strings.Builder
	out.Grow(len(digits))
	for i := 0; i+c.digitSize <= len(digits); i += c.digitSize {
		group := digits[i : i+c.digitSize]
		n, err := strconv.Atoi(group)
		if err != nil {
			out.WriteString(group)
			continue
		}
		if repl, ok := f.Palette[n]; ok {
			out.WriteString(c.formatIndex(repl))
		} else {
			out.WriteString(group)
		}
	}
	return out.String()
}

// expand repeats every digit group scale times, replicating pixels
// horizontally at the string level.
func (c *Codec) expand(digits string) string {
	if c.scale == 1 {
		return digits
	}
	var out strings.Builder
	out.Grow(len(digits) * c.scale)
	for i := 0; i+c.digitSize <= len(digits); i += c.digitSize {
		group := digits[i : i+c.digitSize]
		for n := 0; n < c.scale; n++ {
			out.WriteString(group)
		}
	}
	return out.String()
}

// toRGBA resolves every digit group against the default palette, four bytes
// per group.
func (c *Codec) toRGBA(digits string) ([]uint8, error) {
	if len(digits)%c.digitSize != 0 {
		return nil, fmt.Errorf("digit string length %d not divisible by digit size %d", len(digits), c.digitSize)
	}
	out := make([]uint8, 0, len(digits)/c.digitSize*4)
	for i := 0; i+c.digitSize <= len(digits); i += c.digitSize {
		n, err := strconv.Atoi(digits[i : i+c.digitSize])
		if err != nil {
			return nil, fmt.Errorf("bad digit group at offset %d: %v", i, err)
		}
		entry, err := c.palette.Color(n)
		if err != nil {
			return nil, err
		}
		out = append(out, entry[0], entry[1], entry[2], entry[3])
	}
	return out, nil
}

// Dims carries the on-surface dimensions a sized sprite must fill, in
// pixels (after scale). Width is required; a non-zero Height is checked
// against the sized result.
type Dims struct {
	Width  int
	Height int
}

// Sized runs the dimension-adjustment pipeline on a decoded sprite: rows
// are repeated vertically by the codec scale, then flips requested by the
// lookup key are applied. The result is not cached by the codec since it
// depends on the requested dimensions.
func (c *Codec) Sized(spr *Sprite, key string, d Dims) ([]uint8, error) {
	if d.Width <= 0 {
		return nil, fmt.Errorf("sized sprite needs a positive width; got %d", d.Width)
	}
	rowBytes := d.Width * 4
	if len(spr.Pixels)%rowBytes != 0 {
		return nil, fmt.Errorf("pixel buffer length %d does not divide into rows of width %d", len(spr.Pixels), d.Width)
	}

	out := c.repeatRows(spr.Pixels, rowBytes)
	if d.Height > 0 {
		if rows := len(out) / rowBytes; rows != d.Height {
			return nil, fmt.Errorf("sized sprite is %d rows tall, want %d", rows, d.Height)
		}
	}

	flipH := c.HasFlipHoriz(key)
	flipV := c.HasFlipVert(key)
	switch {
	case flipH && flipV:
		flipBoth(out)
	case flipH:
		flipRows(out, rowBytes)
	case flipV:
		flipColumns(out, rowBytes)
	}
	return out, nil
}

// repeatRows duplicates every pixel row scale times, mirroring the
// horizontal replication baked in by expand.
func (c *Codec) repeatRows(pixels []uint8, rowBytes int) []uint8 {
	if c.scale == 1 {
		out := make([]uint8, len(pixels))
		copy(out, pixels)
		return out
	}
	rows := len(pixels) / rowBytes
	out := make([]uint8, 0, len(pixels)*c.scale)
	for r := 0; r < rows; r++ {
		row := pixels[r*rowBytes : (r+1)*rowBytes]
		for n := 0; n < c.scale; n++ {
			out = append(out, row...)
		}
	}
	return out
}

// flipRows reverses pixel order within each row (horizontal mirror).
func flipRows(pixels []uint8, rowBytes int) {
	for start := 0; start < len(pixels); start += rowBytes {
		row := pixels[start : start+rowBytes]
		for i, j := 0, rowBytes-4; i < j; i, j = i+4, j-4 {
			for k := 0; k < 4; k++ {
				row[i+k], row[j+k] = row[j+k], row[i+k]
			}
		}
	}
}

// flipColumns reverses row order (vertical mirror).
func flipColumns(pixels []uint8, rowBytes int) {
	tmp := make([]uint8, rowBytes)
	for i, j := 0, len(pixels)-rowBytes; i < j; i, j = i+rowBytes, j-rowBytes {
		copy(tmp, pixels[i:i+rowBytes])
		copy(pixels[i:i+rowBytes], pixels[j:j+rowBytes])
		copy(pixels[j:j+rowBytes], tmp)
	}
}

// flipBoth reverses the whole buffer in 4-byte pixel units, equivalent to
// mirroring in both axes at once.
func flipBoth(pixels []uint8) {
	for i, j := 0, len(pixels)-4; i < j; i, j = i+4, j-4 {
		for k := 0; k < 4; k++ {
			pixels[i+k], pixels[j+k] = pixels[j+k], pixels[i+k]
		}
	}
}
