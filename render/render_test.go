package render

import (
	"image/color"
	"testing"

	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/quadrant"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
	"badc0de.net/pkg/go-retro/ttesting"
)

// Palette: 0 transparent, 1 red, 2 green, 3 blue.
func newTestCodec(t *testing.T) *sprite.Codec {
	t.Helper()
	c, err := sprite.NewCodec(sprite.Settings{
		Palette: sprite.Palette{
			{0, 0, 0, 0},
			{255, 0, 0, 255},
			{0, 255, 0, 255},
			{0, 0, 255, 255},
		},
	})
	if err != nil {
		t.Fatalf("failed to construct codec: %v", err)
	}
	return c
}

func newTestLibrary(t *testing.T, c *sprite.Codec) *library.Index {
	t.Helper()
	x, err := library.NewIndex(library.Settings{
		Codec: c,
		Description: map[string]interface{}{
			// A 2x2 red square.
			"Floor": "1111",
			// Red top (2 rows), green bottom (3 rows), blue middle.
			"Pipe": []interface{}{"multiple", "vertical", map[string]interface{}{
				"top":          "1111",
				"bottom":       "222222",
				"middle":       "3",
				"topheight":    2,
				"bottomheight": 3,
			}},
			// Red left (2 columns), green right (1 column), blue middle.
			"Tube": []interface{}{"multiple", "horizontal", map[string]interface{}{
				"left":       "11",
				"right":      "2",
				"middle":     "3",
				"leftwidth":  2,
				"rightwidth": 1,
			}},
			// Red corners, green edges, blue middle, 1px borders all
			// around.
			"Crate": []interface{}{"multiple", "corners", map[string]interface{}{
				"topLeft":      "1",
				"topRight":     "1",
				"bottomLeft":   "1",
				"bottomRight":  "1",
				"top":          "2",
				"bottom":       "2",
				"left":         "2",
				"right":        "2",
				"middle":       "3",
				"topheight":    1,
				"bottomheight": 1,
				"leftwidth":    1,
				"rightwidth":   1,
			}},
		},
	})
	if err != nil {
		t.Fatalf("failed to construct library: %v", err)
	}
	return x
}

func newTestRenderer(t *testing.T, grid *quadrant.Grid) *Renderer {
	t.Helper()
	c := newTestCodec(t)
	r, err := NewRenderer(Settings{
		Codec:    c,
		Library:  newTestLibrary(t, c),
		Grid:     grid,
		Viewport: &Viewport{Top: 0, Right: 16, Bottom: 16, Left: 0},
	})
	if err != nil {
		t.Fatalf("failed to construct renderer: %v", err)
	}
	return r
}

func floorThing() *things.Thing {
	return &things.Thing{
		Title:       "Floor",
		Top:         0,
		Left:        0,
		Right:       2,
		Bottom:      2,
		Opacity:     1,
		SpriteWidth: 2,
		Changed:     true,
	}
}

func TestDrawFullSingleSprite(t *testing.T) {
	r := newTestRenderer(t, nil)
	if err := r.DrawFull([]*things.Thing{floorThing()}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	px := r.Frame().RGBAAt(0, 0)
	ttesting.AssertEqualInt(t, "red channel", int(px.R), 255)
	ttesting.AssertEqualInt(t, "alpha channel", int(px.A), 255)
	outside := r.Frame().RGBAAt(3, 3)
	ttesting.AssertEqualInt(t, "outside alpha", int(outside.A), 0)
}

func TestDrawFullRepeatTiles(t *testing.T) {
	r := newTestRenderer(t, nil)
	f := floorThing()
	f.Repeat = true
	f.Right = 6
	f.Bottom = 4
	if err := r.DrawFull([]*things.Thing{f}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	// A 2x2 sprite tiled over 6x4 covers every pixel of the bounds.
	px := r.Frame().RGBAAt(5, 3)
	ttesting.AssertEqualInt(t, "tiled red channel", int(px.R), 255)
	ttesting.AssertEqualInt(t, "tiled alpha channel", int(px.A), 255)
}

func TestVerticalMultipleMiddleHeight(t *testing.T) {
	r := newTestRenderer(t, nil)
	pipe := &things.Thing{
		Title:   "Pipe",
		Top:     0,
		Left:    0,
		Right:   2,
		Bottom:  8,
		Opacity: 1,
		Changed: true,
	}
	if err := r.DrawFull([]*things.Thing{pipe}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	// topheight 2 and bottomheight 3 leave exactly 8-2-3 = 3 middle rows.
	frame := r.Frame()
	for y, want := range map[int]color.RGBA{
		0: {R: 255, A: 255},
		1: {R: 255, A: 255},
		2: {B: 255, A: 255},
		3: {B: 255, A: 255},
		4: {B: 255, A: 255},
		5: {G: 255, A: 255},
		7: {G: 255, A: 255},
	} {
		got := frame.RGBAAt(0, y)
		if got != want {
			t.Errorf("row %d: got %v, want %v", y, got, want)
		}
	}
}

func TestHorizontalMultipleMiddleWidth(t *testing.T) {
	r := newTestRenderer(t, nil)
	tube := &things.Thing{
		Title:   "Tube",
		Right:   8,
		Bottom:  1,
		Opacity: 1,
		Changed: true,
	}
	if err := r.DrawFull([]*things.Thing{tube}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	// leftwidth 2 and rightwidth 1 leave exactly 8-2-1 = 5 middle columns.
	frame := r.Frame()
	for x := 0; x < 8; x++ {
		want := color.RGBA{B: 255, A: 255}
		switch {
		case x < 2:
			want = color.RGBA{R: 255, A: 255}
		case x == 7:
			want = color.RGBA{G: 255, A: 255}
		}
		if got := frame.RGBAAt(x, 0); got != want {
			t.Errorf("column %d: got %v, want %v", x, got, want)
		}
	}
}

func TestCornersMultipleLayout(t *testing.T) {
	r := newTestRenderer(t, nil)
	crate := &things.Thing{
		Title:   "Crate",
		Right:   4,
		Bottom:  4,
		Opacity: 1,
		Changed: true,
	}
	if err := r.DrawFull([]*things.Thing{crate}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	frame := r.Frame()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			onXEdge := x == 0 || x == 3
			onYEdge := y == 0 || y == 3
			var want color.RGBA
			switch {
			case onXEdge && onYEdge:
				want = color.RGBA{R: 255, A: 255} // corner
			case onXEdge || onYEdge:
				want = color.RGBA{G: 255, A: 255} // edge
			default:
				want = color.RGBA{B: 255, A: 255} // middle
			}
			if got := frame.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestLargeCompositeDrawsPartsLive(t *testing.T) {
	cached := newTestRenderer(t, nil)
	c := newTestCodec(t)
	live, err := NewRenderer(Settings{
		Codec:             c,
		Library:           newTestLibrary(t, c),
		Viewport:          &Viewport{Right: 16, Bottom: 16},
		SpriteCacheCutoff: 10,
	})
	if err != nil {
		t.Fatalf("failed to construct renderer: %v", err)
	}

	pipe := func() *things.Thing {
		return &things.Thing{
			Title:   "Pipe",
			Right:   2,
			Bottom:  8,
			Opacity: 1,
			Changed: true,
		}
	}

	cachedPipe := pipe()
	if err := cached.DrawFull([]*things.Thing{cachedPipe}); err != nil {
		t.Fatalf("cached draw failed: %v", err)
	}
	livePipe := pipe()
	if err := live.DrawFull([]*things.Thing{livePipe}); err != nil {
		t.Fatalf("live draw failed: %v", err)
	}

	// The 2x8 pipe covers 16 pixels, over the cutoff of 10: no per-part
	// surfaces get cached, yet the output must not change.
	ttesting.AssertEqualBool(t, "cached surfaces present", cachedPipe.Canvases != nil, true)
	ttesting.AssertEqualBool(t, "live surfaces absent", livePipe.Canvases == nil, true)
	for y := 0; y < 8; y++ {
		for x := 0; x < 2; x++ {
			if got, want := live.Frame().RGBAAt(x, y), cached.Frame().RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d): live mode drew %v, cached mode %v", x, y, got, want)
			}
		}
	}
}

func TestDrawFullSkipsInvisibleThings(t *testing.T) {
	r := newTestRenderer(t, nil)
	hidden := floorThing()
	hidden.Hidden = true
	faint := floorThing()
	faint.Opacity = 0.001
	offscreen := floorThing()
	offscreen.Left = 100
	offscreen.Right = 102

	r.ResetDrawOps()
	if err := r.DrawFull([]*things.Thing{hidden, faint, offscreen}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	// Only the background fill ran.
	ttesting.AssertEqualInt(t, "draw operations", r.DrawOps(), 1)
}

func TestHalfOpacityComposite(t *testing.T) {
	r := newTestRenderer(t, nil)
	f := floorThing()
	f.Opacity = 0.5
	if err := r.DrawFull([]*things.Thing{f}); err != nil {
		t.Fatalf("full draw failed: %v", err)
	}
	px := r.Frame().RGBAAt(0, 0)
	ttesting.AssertInRangeInt(t, "half-opacity alpha", int(px.A), 120, 136)
}

func TestSetThingSpriteUnknownKeyFails(t *testing.T) {
	r := newTestRenderer(t, nil)
	unknown := &things.Thing{Title: "Goomba", Right: 2, Bottom: 2, Opacity: 1}
	if err := r.SetThingSprite(unknown); err == nil {
		t.Errorf("preparing a sprite for an unregistered key did not fail")
	}
}

func newTestGrid(t *testing.T) *quadrant.Grid {
	t.Helper()
	g, err := quadrant.NewGrid(quadrant.Settings{
		NumRows:        2,
		NumCols:        2,
		QuadrantWidth:  8,
		QuadrantHeight: 8,
		GroupNames:     []string{"Terrain"},
	})
	if err != nil {
		t.Fatalf("failed to construct grid: %v", err)
	}
	g.Reset()
	return g
}

func clearChangedFlags(g *quadrant.Grid) {
	for _, row := range g.Rows() {
		for _, q := range row.Quadrants {
			q.Changed = false
		}
	}
}

func TestDrawQuadrantsNoChangesNoDraws(t *testing.T) {
	g := newTestGrid(t)
	r := newTestRenderer(t, g)
	clearChangedFlags(g)

	r.ResetDrawOps()
	if err := r.DrawQuadrants(); err != nil {
		t.Fatalf("quadrant draw failed: %v", err)
	}
	ttesting.AssertEqualInt(t, "draw operations", r.DrawOps(), 0)
}

func TestDrawQuadrantsRepaintsOnlyChangedCell(t *testing.T) {
	g := newTestGrid(t)
	r := newTestRenderer(t, g)
	clearChangedFlags(g)

	f := floorThing()
	f.Group = "Terrain"
	g.DetermineThingQuadrants(f)

	r.ResetDrawOps()
	if err := r.DrawQuadrants(); err != nil {
		t.Fatalf("quadrant draw failed: %v", err)
	}
	// One repainted cell: its fill, the entity draw, and its blit.
	ttesting.AssertEqualInt(t, "draw operations", r.DrawOps(), 3)

	px := r.Frame().RGBAAt(0, 0)
	ttesting.AssertEqualInt(t, "red channel", int(px.R), 255)

	q, err := g.QuadrantAt(0, 0)
	if err != nil {
		t.Fatalf("missing cell: %v", err)
	}
	ttesting.AssertEqualBool(t, "cell flag cleared", q.Changed, false)

	// A second pass with nothing changed stays quiet.
	r.ResetDrawOps()
	if err := r.DrawQuadrants(); err != nil {
		t.Fatalf("repeat quadrant draw failed: %v", err)
	}
	ttesting.AssertEqualInt(t, "repeat draw operations", r.DrawOps(), 0)
}
