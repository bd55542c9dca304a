package sprite

// This file contains the Codec itself: construction, the decode cache and
// the public entry points. The pipeline stages live in decode.go.

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Filter is a post-decode transformation applied to the unraveled digit
// string. The only kind currently understood is a palette substitution:
// a mapping from source palette index to replacement palette index.
type Filter struct {
	Palette map[int]int
}

// Settings configures a Codec. Palette is required; everything else has a
// usable default.
type Settings struct {
	// Palette is the default palette every encoding resolves against.
	Palette Palette

	// Filters maps filter names (as referenced by library "filter"
	// commands or per-call attributes) to their definitions.
	Filters map[string]*Filter

	// Scale is the integer pixel replication factor baked into decoded
	// buffers. Zero means 1.
	Scale int

	// FlipHoriz and FlipVert are the class tokens that, when present in a
	// lookup key, request horizontal/vertical mirroring during sizing.
	// Empty strings select the defaults "flipped" and "flip-vert".
	FlipHoriz string
	FlipVert  string
}

// stages retains the intermediate artifacts of one decode for diagnostics.
type stages struct {
	unraveled string
	filtered  string
	expanded  string
}

// Codec decodes sprite text into pixel buffers and caches the results by
// descriptor key.
type Codec struct {
	palette   Palette
	digitSize int
	filters   map[string]*Filter
	scale     int
	flipHoriz string
	flipVert  string

	cache  map[string]*Sprite
	stages map[string]stages
}

// Sprite is one decoded single (non-composite) sprite: a flat RGBA buffer,
// already replicated horizontally by the codec scale. Vertical replication
// and flips happen later, per requested size (see Codec.Sized).
type Sprite struct {
	// Pixels holds four bytes per decoded pixel.
	Pixels []uint8
}

func (*Sprite) decodedSprite() {}

// Decoded is either a *Sprite or a *Multiple.
type Decoded interface {
	decodedSprite()
}

// DecodeAttrs carries per-call decode options.
type DecodeAttrs struct {
	// FilterName selects a named filter from the codec settings. An
	// unknown name logs a warning and decodes unfiltered.
	FilterName string

	// Filter, if set, is used directly and FilterName is ignored.
	Filter *Filter
}

// NewCodec validates the settings and constructs a Codec.
func NewCodec(s Settings) (*Codec, error) {
	if len(s.Palette) == 0 {
		return nil, fmt.Errorf("sprite: codec requires a palette")
	}
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("sprite: scale must be a positive integer; got %d", scale)
	}
	flipHoriz := s.FlipHoriz
	if flipHoriz == "" {
		flipHoriz = "flipped"
	}
	flipVert := s.FlipVert
	if flipVert == "" {
		flipVert = "flip-vert"
	}
	return &Codec{
		palette:   s.Palette,
		digitSize: s.Palette.DigitSize(),
		filters:   s.Filters,
		scale:     scale,
		flipHoriz: flipHoriz,
		flipVert:  flipVert,
		cache:     map[string]*Sprite{},
		stages:    map[string]stages{},
	}, nil
}

// Palette returns the codec's default palette.
func (c *Codec) Palette() Palette {
	return c.palette
}

// DigitSize returns the default palette's digit size.
func (c *Codec) DigitSize() int {
	return c.digitSize
}

// Scale returns the integer replication factor.
func (c *Codec) Scale() int {
	return c.scale
}

// Decode runs the full decode pipeline on the given encoding and caches the
// result under key. A repeated Decode for the same key returns the cached
// sprite without looking at the encoding again.
func (c *Codec) Decode(key, encoding string, attrs *DecodeAttrs) (*Sprite, error) {
	if spr, ok := c.cache[key]; ok {
		return spr, nil
	}

	unraveled, err := c.unravel(encoding)
	if err != nil {
		return nil, fmt.Errorf("unraveling %q: %v", key, err)
	}

	filtered := unraveled
	if f := c.resolveFilter(attrs); f != nil {
		filtered = c.applyFilter(unraveled, f)
	}

	expanded := c.expand(filtered)

	pixels, err := c.toRGBA(expanded)
	if err != nil {
		return nil, fmt.Errorf("converting %q to pixels: %v", key, err)
	}

	spr := &Sprite{Pixels: pixels}
	c.cache[key] = spr
	c.stages[key] = stages{unraveled: unraveled, filtered: filtered, expanded: expanded}
	return spr, nil
}

// Cached returns the decoded sprite for key, or an error if the key was
// never decoded.
func (c *Codec) Cached(key string) (*Sprite, error) {
	if spr, ok := c.cache[key]; ok {
		return spr, nil
	}
	return nil, fmt.Errorf("sprite: key not found: %q", key)
}

// LastUnraveled, LastFiltered and LastExpanded return the intermediate
// pipeline artifacts of the decode that populated key. They exist for debug
// tooling; rendering never needs them.
func (c *Codec) LastUnraveled(key string) (string, bool) {
	s, ok := c.stages[key]
	return s.unraveled, ok
}

func (c *Codec) LastFiltered(key string) (string, bool) {
	s, ok := c.stages[key]
	return s.filtered, ok
}

func (c *Codec) LastExpanded(key string) (string, bool) {
	s, ok := c.stages[key]
	return s.expanded, ok
}

// resolveFilter picks the filter requested by attrs, if any. Unknown names
// are warned about and ignored.
func (c *Codec) resolveFilter(attrs *DecodeAttrs) *Filter {
	if attrs == nil {
		return nil
	}
	if attrs.Filter != nil {
		return attrs.Filter
	}
	if attrs.FilterName == "" {
		return nil
	}
	f, ok := c.filters[attrs.FilterName]
	if !ok {
		glog.Warningf("sprite: unknown filter %q; decoding unfiltered", attrs.FilterName)
		return nil
	}
	return f
}

// HasFlipHoriz reports whether the lookup key carries the horizontal flip
// token.
func (c *Codec) HasFlipHoriz(key string) bool {
	return hasToken(key, c.flipHoriz)
}

// HasFlipVert reports whether the lookup key carries the vertical flip
// token.
func (c *Codec) HasFlipVert(key string) bool {
	return hasToken(key, c.flipVert)
}

func hasToken(key, token string) bool {
	for _, t := range strings.Fields(key) {
		if t == token {
			return true
		}
	}
	return false
}
