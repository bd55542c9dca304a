//go:build !go1.13 || windows
// +build !go1.13 windows

package imageprint

import (
	"fmt"
	"image"
)

func printGraphics(i image.Image) bool {
	fmt.Printf("terminal graphics not supported below Go 1.13 or on windows\n")
	return false
}
