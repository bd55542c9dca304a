// Package things holds the mutable rectangular entities the grid tracks
// and the renderer draws, plus the type registry they are constructed
// from.
package things

import (
	"image"

	"badc0de.net/pkg/go-retro/quadrant"
	"badc0de.net/pkg/go-retro/sprite"
)

// Thing is one movable entity: a bounding box, a draw/collision group, a
// changed flag, quadrant bookkeeping and the renderer's sprite cache
// fields.
type Thing struct {
	// Title is the registry type name; it leads the sprite lookup key.
	Title string

	// Classes are extra lookup tokens appended to Title, space
	// separated (state markers, flip markers and the like).
	Classes string

	// Group selects the draw/collision layer.
	Group string

	Top    float64
	Right  float64
	Bottom float64
	Left   float64

	// OffsetX and OffsetY adjust the bounds before quadrant range
	// computation (sub-pixel sprite anchoring).
	OffsetX float64
	OffsetY float64

	// Changed marks the entity as needing membership recompute and
	// repaint.
	Changed bool

	Hidden  bool
	Opacity float64

	// Repeat requests pattern-tiling the sprite over the bounds instead
	// of drawing it once.
	Repeat bool

	// SpriteWidth and SpriteHeight are the source sprite dimensions in
	// unscaled pixels. Zero means "same as the bounding box".
	SpriteWidth  float64
	SpriteHeight float64

	// Sprite cache, owned by the renderer.
	Sprite     sprite.Decoded
	Canvas     *image.RGBA
	Canvases   map[string]*image.RGBA
	NumSprites int

	quadrants []*quadrant.Quadrant
}

// Bounds implements quadrant.Thing.
func (t *Thing) Bounds() (top, right, bottom, left float64) {
	return t.Top, t.Right, t.Bottom, t.Left
}

// QuadrantOffset implements quadrant.Thing.
func (t *Thing) QuadrantOffset() (dx, dy float64) {
	return t.OffsetX, t.OffsetY
}

// GroupName implements quadrant.Thing.
func (t *Thing) GroupName() string {
	return t.Group
}

// IsChanged implements quadrant.Thing.
func (t *Thing) IsChanged() bool {
	return t.Changed
}

// MarkChanged implements quadrant.Thing.
func (t *Thing) MarkChanged(changed bool) {
	t.Changed = changed
}

// Quadrants implements quadrant.Thing.
func (t *Thing) Quadrants() []*quadrant.Quadrant {
	return t.quadrants
}

// ClearQuadrants implements quadrant.Thing.
func (t *Thing) ClearQuadrants() {
	t.quadrants = t.quadrants[:0]
}

// AddQuadrant implements quadrant.Thing.
func (t *Thing) AddQuadrant(q *quadrant.Quadrant) {
	t.quadrants = append(t.quadrants, q)
}

// NumQuadrants returns how many cells currently hold a back-reference to
// the entity.
func (t *Thing) NumQuadrants() int {
	return len(t.quadrants)
}

// Width and Height are conveniences over the bounding box.
func (t *Thing) Width() float64  { return t.Right - t.Left }
func (t *Thing) Height() float64 { return t.Bottom - t.Top }

// LookupKey is the whitespace-separated token set the renderer resolves
// the sprite with.
func (t *Thing) LookupKey() string {
	if t.Classes == "" {
		return t.Title
	}
	return t.Title + " " + t.Classes
}
