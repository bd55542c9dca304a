package library

import (
	"strings"
	"testing"

	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/ttesting"
)

func newTestCodec(t *testing.T) *sprite.Codec {
	t.Helper()
	c, err := sprite.NewCodec(sprite.Settings{
		Palette: sprite.Palette{
			{0, 0, 0, 0},
			{255, 0, 0, 255},
			{0, 255, 0, 255},
		},
		Filters: map[string]*sprite.Filter{
			"greenify": {Palette: map[int]int{1: 2}},
		},
	})
	if err != nil {
		t.Fatalf("failed to construct codec: %v", err)
	}
	return c
}

func testDescription() map[string]interface{} {
	return map[string]interface{}{
		"Block": map[string]interface{}{
			"normal": "11",
			"Used":   "22",
		},
		"Shroom": map[string]interface{}{
			"normal": "1",
			"Green":  []interface{}{"filter", []interface{}{"Shroom", "normal"}, "greenify"},
		},
		"Brick": []interface{}{"same", []interface{}{"Block", "normal"}},
		"Pipe": []interface{}{"multiple", "vertical", map[string]interface{}{
			"top":       "11112222",
			"middle":    "1",
			"topheight": float64(2),
		}},
	}
}

func newTestIndex(t *testing.T, strict bool) *Index {
	t.Helper()
	x, err := NewIndex(Settings{
		Codec:       newTestCodec(t),
		Description: testDescription(),
		Strict:      strict,
	})
	if err != nil {
		t.Fatalf("failed to construct index: %v", err)
	}
	return x
}

func singlePixels(t *testing.T, dec sprite.Decoded) []uint8 {
	t.Helper()
	spr, ok := dec.(*sprite.Sprite)
	if !ok {
		t.Fatalf("got %T, want a single sprite", dec)
	}
	return spr.Pixels
}

func TestLookupDescends(t *testing.T) {
	x := newTestIndex(t, false)
	dec, err := x.Lookup("Block Used")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	px := singlePixels(t, dec)
	ttesting.AssertEqualInt(t, "green channel", int(px[1]), 255)
}

func TestLookupOrderIndependent(t *testing.T) {
	x := newTestIndex(t, false)
	a, err := x.Lookup("Block Used")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	b, err := x.Lookup("Used Block")
	if err != nil {
		t.Fatalf("reordered lookup failed: %v", err)
	}
	if a != b {
		t.Errorf("token order changed the lookup result")
	}
}

func TestLookupNormalFallback(t *testing.T) {
	x := newTestIndex(t, false)
	dec, err := x.Lookup("Block something-unknown")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	px := singlePixels(t, dec)
	ttesting.AssertEqualInt(t, "red channel", int(px[0]), 255)
}

func TestLookupUnknownKeyFails(t *testing.T) {
	x := newTestIndex(t, false)
	if _, err := x.Lookup("Goomba"); err == nil {
		t.Errorf("lookup of an unregistered key did not fail")
	}
}

func TestLookupCached(t *testing.T) {
	x := newTestIndex(t, false)
	a, err := x.Lookup("Shroom")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	b, err := x.Lookup("Shroom")
	if err != nil {
		t.Fatalf("repeat lookup failed: %v", err)
	}
	if a != b {
		t.Errorf("cache returned a different object")
	}
}

func TestSameCommand(t *testing.T) {
	x := newTestIndex(t, false)
	brick, err := x.Lookup("Brick")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	block, err := x.Lookup("Block")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if brick != block {
		t.Errorf("same command did not alias the referenced sprite")
	}
}

func TestFilterCommand(t *testing.T) {
	x := newTestIndex(t, false)
	dec, err := x.Lookup("Shroom Green")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	px := singlePixels(t, dec)
	// The filter remaps red (1) to green (2).
	ttesting.AssertEqualInt(t, "red channel", int(px[0]), 0)
	ttesting.AssertEqualInt(t, "green channel", int(px[1]), 255)
}

func TestMultipleCommand(t *testing.T) {
	x := newTestIndex(t, false)
	dec, err := x.Lookup("Pipe")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	m, ok := dec.(*sprite.Multiple)
	if !ok {
		t.Fatalf("got %T, want a composite sprite", dec)
	}
	ttesting.AssertEqualString(t, "direction", string(m.Direction), "vertical")
	ttesting.AssertEqualInt(t, "topheight", m.TopHeight, 2)
	ttesting.AssertEqualInt(t, "parts", len(m.Sprites), 2)
}

func TestStrictModeRejectsMissingNormal(t *testing.T) {
	desc := map[string]interface{}{
		"Block": map[string]interface{}{
			"Used": "22",
		},
	}
	_, err := NewIndex(Settings{
		Codec:       newTestCodec(t),
		Description: desc,
		Strict:      true,
	})
	if err == nil {
		t.Fatalf("strict construction accepted a level without the normal token")
	}
	if !strings.Contains(err.Error(), "normal") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestForwardSameReference(t *testing.T) {
	// "Alias" references "Target" which is itself a command appearing
	// later in traversal order; resolution is deferred, so this works no
	// matter the order commands are seen in.
	desc := map[string]interface{}{
		"Alias":  []interface{}{"same", []interface{}{"Target"}},
		"Target": []interface{}{"same", []interface{}{"Real"}},
		"Real":   "2",
	}
	x, err := NewIndex(Settings{Codec: newTestCodec(t), Description: desc})
	if err != nil {
		t.Fatalf("failed to construct index: %v", err)
	}
	dec, err := x.Lookup("Alias")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	px := singlePixels(t, dec)
	ttesting.AssertEqualInt(t, "green channel", int(px[1]), 255)
}

func TestAliasCycleFails(t *testing.T) {
	desc := map[string]interface{}{
		"A": []interface{}{"same", []interface{}{"B"}},
		"B": []interface{}{"same", []interface{}{"A"}},
	}
	if _, err := NewIndex(Settings{Codec: newTestCodec(t), Description: desc}); err == nil {
		t.Errorf("construction accepted an alias cycle")
	}
}

func TestLoadDescription(t *testing.T) {
	desc, err := LoadDescription(strings.NewReader(`{"Block": {"normal": "11"}}`))
	if err != nil {
		t.Fatalf("failed to load description: %v", err)
	}
	x, err := NewIndex(Settings{Codec: newTestCodec(t), Description: desc})
	if err != nil {
		t.Fatalf("failed to construct index: %v", err)
	}
	if _, err := x.Lookup("Block"); err != nil {
		t.Errorf("lookup failed: %v", err)
	}
}
