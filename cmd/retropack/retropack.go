// retropack encodes an image file into the sprite text format, optionally
// deriving a palette from the image first.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-retro/paths"
	"badc0de.net/pkg/go-retro/sprite"
)

var (
	input   = flag.String("in", "", "image file to encode (png or gif)")
	compact = flag.Bool("compact", true, "emit a p[...] custom palette when few colors are used")

	derive     = flag.Int("derive_palette", 0, "derive an N-color palette from the image instead of loading palette.json")
	paletteOut = flag.String("palette_out", "", "write the derived palette json to this path")

	palettePath string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("palette.json", "palette_path", &palettePath)
}

func loadPalette() (sprite.Palette, error) {
	f, err := paths.NoFindOpen(palettePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sprite.NewPaletteFromJSON(f)
}

// hasTransparency reports whether any pixel is fully transparent.
func hasTransparency(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				return true
			}
		}
	}
	return false
}

// derivePalette quantizes the image down to at most n colors. A fully
// transparent entry leads the palette when the image needs one.
func derivePalette(img image.Image, n int) sprite.Palette {
	q := quantize.MedianCutQuantizer{}
	quantized := q.Quantize(make(color.Palette, 0, n), img)

	var p sprite.Palette
	if hasTransparency(img) {
		p = append(p, sprite.PaletteEntry{})
	}
	for _, c := range quantized {
		r, g, b, a := c.RGBA()
		p = append(p, sprite.PaletteEntry{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)})
	}
	return p
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()

	if *input == "" {
		glog.Exitf("pass -in with the image to encode")
	}
	f, err := os.Open(*input)
	if err != nil {
		glog.Exitf("opening %q: %v", *input, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		glog.Exitf("decoding %q: %v", *input, err)
	}

	var pal sprite.Palette
	if *derive > 0 {
		pal = derivePalette(img, *derive)
		out, err := json.Marshal(pal)
		if err != nil {
			glog.Exitf("marshaling palette: %v", err)
		}
		if *paletteOut != "" {
			if err := os.WriteFile(*paletteOut, out, 0644); err != nil {
				glog.Exitf("writing %q: %v", *paletteOut, err)
			}
		} else {
			fmt.Printf("%s\n", out)
		}
	} else {
		pal, err = loadPalette()
		if err != nil {
			glog.Exitf("loading palette: %v", err)
		}
	}

	codec, err := sprite.NewCodec(sprite.Settings{Palette: pal})
	if err != nil {
		glog.Exitf("constructing codec: %v", err)
	}

	var encoded string
	if *compact {
		encoded, err = codec.EncodeCompact(img)
	} else {
		encoded, err = codec.Encode(img)
	}
	if err != nil {
		glog.Exitf("encoding %q: %v", *input, err)
	}
	fmt.Println(encoded)
}
