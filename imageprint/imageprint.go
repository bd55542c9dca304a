// Package imageprint prints frames and sprites on terminal. UNSUPPORTED
// debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"fmt"
	"image"
	ic "image/color"

	"github.com/gookit/color"
)

// Mode selects the terminal capability Print targets.
type Mode int

const (
	// ModeAuto picks graphics escapes when the terminal supports them and
	// falls back to 256-color cells.
	ModeAuto Mode = iota
	// Mode256 approximates pixels with the xterm 256-color palette.
	Mode256
	// ModeTrueColor emits 24-bit background escapes per pixel.
	ModeTrueColor
	// ModeMono uses plain ascii shading with no color escapes.
	ModeMono
	// ModeGraphics forces kitty/iTerm/sixel output.
	ModeGraphics
)

type dumper interface {
	Printf(s string, arg ...interface{})
}

type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

// Print draws an image on stdout in the requested mode. blanks selects
// solid two-space cells instead of ascii shading.
func Print(img image.Image, mode Mode, blanks bool) {
	switch mode {
	case ModeAuto:
		if printGraphics(img) {
			return
		}
		printCells(img, false, blanks, false)
	case Mode256:
		printCells(img, false, blanks, false)
	case ModeTrueColor:
		printCells(img, true, blanks, false)
	case ModeMono:
		printCells(img, false, true, true)
	case ModeGraphics:
		printGraphics(img)
	}
}

// printCells walks the image row by row, two characters per pixel.
func printCells(img image.Image, escapesTrueColor, blanks, noColor bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cell(img.At(x, y), escapesTrueColor, blanks, noColor)
		}
		if !noColor {
			fmt.Printf("\x1b[0m")
		}
		fmt.Printf("\n")
	}
}

func cell(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if noColor {
			fmt.Printf("  ")
		} else {
			fmt.Printf("\x1b[0m  ")
		}
		return
	}

	var d dumper
	if noColor {
		d = &fmtDumper
	} else if escapesTrueColor {
		fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
		d = &fmtDumper
	} else {
		d = color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
	}

	if blanks && !noColor {
		d.Printf("  ")
	} else {
		luma := ((cR + cG + cB) / 3) >> 8
		switch {
		case luma < 32:
			d.Printf("..")
		case luma < 64:
			d.Printf("--")
		case luma < 128:
			d.Printf("==")
		default:
			d.Printf("##")
		}
	}

	if escapesTrueColor {
		fmt.Printf("\x1b[0m")
	}
}
