// Package sprite decodes the compact textual sprite encoding into raw RGBA
// pixel buffers, and encodes images back into that text format.
//
// The format is digit based: each pixel is a palette index written with a
// fixed number of characters (the "digit size" of the active palette), with
// two control characters, 'x' for run-length runs and 'p' for palette
// switches. See the package tests for concrete examples of the syntax.
package sprite
