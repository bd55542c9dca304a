package sprite

// This file bridges decoded pixel buffers to image.Image, which is what the
// renderer and all preview tooling consume.

import (
	"fmt"
	"image"
)

// ToImage wraps a sized pixel buffer as an *image.RGBA of the given width.
// The buffer is copied; the sprite keeps ownership of its own pixels.
func ToImage(pixels []uint8, width int) (*image.RGBA, error) {
	if width <= 0 {
		return nil, fmt.Errorf("sprite: image width must be positive; got %d", width)
	}
	if len(pixels)%(width*4) != 0 {
		return nil, fmt.Errorf("sprite: buffer of %d bytes does not divide into rows of width %d", len(pixels), width)
	}
	height := len(pixels) / (width * 4)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}
