//go:build go1.16
// +build go1.16

// Package datafiles embeds the demo palette and sprite library shipped
// with the engine. Tools fall back to these when no external datafiles are
// found.
package datafiles

import "embed" // at least "import _ "embed"" is required

//go:embed palette.json
var PaletteJSON []byte

//go:embed library.json
var LibraryJSON []byte

//go:embed palette.json library.json
var FS embed.FS
