//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"os"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// printGraphics draws an image using terminal graphics protocols, trying
// kitty, then iTerm/WezTerm, then sixel. Returns false when the terminal
// supports none of them.
func printGraphics(i image.Image) bool {
	if rasterm.IsTermKitty() {
		rasterm.Settings{}.KittyWriteImage(os.Stdout, i)
		fmt.Printf("\n")
		return true
	}
	if rasterm.IsTermItermWez() {
		rasterm.Settings{}.ItermWriteImage(os.Stdout, i)
		fmt.Printf("\n")
		return true
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})

		rasterm.Settings{}.SixelWriteImage(os.Stdout, palettedImage)
		fmt.Printf("\n")
		return true
	}
	return false
}
