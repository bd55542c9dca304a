package imageprint

import (
	"image"
	"image/gif"
	"io"

	"github.com/andybons/gogif"
)

// WriteAnimation encodes the frames as an animated GIF with the given
// per-frame delay in hundredths of a second. Each frame is quantized to a
// 64-color palette.
func WriteAnimation(w io.Writer, frames []image.Image, delay int) error {
	out := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 64}
	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), nil)
		quantizer.Quantize(paletted, frame.Bounds(), frame, image.Point{})
		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}
