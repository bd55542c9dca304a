package main

// The demo scene: a small quadrant-tracked world composed once at startup
// so /frame has something to show.

import (
	"fmt"

	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/quadrant"
	"badc0de.net/pkg/go-retro/render"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/things"
)

const (
	demoWidth  = 256
	demoHeight = 192
	demoCell   = 32
)

// demoScene lays a repeated floor strip under one instance of every other
// library entry, tracks everything in a quadrant grid, and composes the
// first frame.
func demoScene(codec *sprite.Codec, index *library.Index) (*render.Renderer, error) {
	names := index.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("library is empty")
	}

	grid, err := quadrant.NewGrid(quadrant.Settings{
		NumRows:        demoHeight / demoCell,
		NumCols:        demoWidth / demoCell,
		QuadrantWidth:  demoCell,
		QuadrantHeight: demoCell,
		GroupNames:     []string{"Scenery"},
	})
	if err != nil {
		return nil, err
	}
	grid.Reset()

	renderer, err := render.NewRenderer(render.Settings{
		Codec:    codec,
		Library:  index,
		Grid:     grid,
		Viewport: &render.Viewport{Right: demoWidth, Bottom: demoHeight},
	})
	if err != nil {
		return nil, err
	}

	cell := float64(demoCell)
	var scene []*things.Thing
	for i, name := range names {
		t := &things.Thing{
			Title:   name,
			Group:   "Scenery",
			Left:    float64(i) * cell,
			Right:   float64(i)*cell + cell,
			Top:     demoHeight - 2*cell,
			Bottom:  demoHeight - cell,
			Opacity: 1,
			Changed: true,
		}
		if t.Right > demoWidth {
			break
		}
		scene = append(scene, t)
	}
	floor := &things.Thing{
		Title:   names[0],
		Group:   "Scenery",
		Left:    0,
		Right:   demoWidth,
		Top:     demoHeight - cell,
		Bottom:  demoHeight,
		Opacity: 1,
		Repeat:  true,
		Changed: true,
	}
	scene = append(scene, floor)

	for _, t := range scene {
		grid.DetermineThingQuadrants(t)
	}
	if err := renderer.DrawQuadrants(); err != nil {
		return nil, err
	}
	return renderer, nil
}
