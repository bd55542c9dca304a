package quadrant

// This file contains entity-to-cell membership bookkeeping.

import (
	"math"
)

// DetermineAllQuadrants zeroes every cell's member list for the group and
// recomputes membership for all the given entities.
func (g *Grid) DetermineAllQuadrants(group string, things []Thing) {
	for _, row := range g.rows {
		for _, q := range row.Quadrants {
			q.members[group] = nil
		}
	}
	for _, t := range things {
		g.DetermineThingQuadrants(t)
	}
}

// DetermineThingQuadrants recomputes which cells the entity overlaps. Cells
// it used to occupy and cells it now occupies are marked changed when the
// entity itself is marked changed; the entity's changed flag is cleared
// afterwards.
//
// An entity edge exactly on a cell boundary counts toward the lower-index
// cell only.
func (g *Grid) DetermineThingQuadrants(t Thing) {
	changed := t.IsChanged()

	// Detach from the previous cells, marking them for repaint so the
	// entity's old image gets cleared.
	for _, q := range t.Quadrants() {
		if changed {
			q.Changed = true
		}
		q.remove(t)
	}
	t.ClearQuadrants()

	top, right, bottom, left := t.Bounds()
	dx, dy := t.QuadrantOffset()
	top += dy
	bottom += dy
	left += dx
	right += dx

	rowStart := g.clampRow(floorDiv(top-g.top, g.quadH))
	rowEnd := g.clampRow(lastIndex(bottom-g.top, g.quadH))
	colStart := g.clampCol(floorDiv(left-g.left, g.quadW))
	colEnd := g.clampCol(lastIndex(right-g.left, g.quadW))

	for r := rowStart; r <= rowEnd; r++ {
		for c := colStart; c <= colEnd; c++ {
			q := g.rows[r].Quadrants[c]
			q.add(t)
			t.AddQuadrant(q)
			if changed {
				q.Changed = true
			}
		}
	}

	t.MarkChanged(false)
}

// floorDiv computes the cell index containing a minimum edge.
func floorDiv(distance, size float64) int {
	return int(math.Floor(distance / size))
}

// lastIndex computes the highest cell index a maximum edge reaches; an edge
// exactly on a boundary stays in the lower cell.
func lastIndex(distance, size float64) int {
	return int(math.Ceil(distance/size)) - 1
}

func (g *Grid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.numRows {
		return g.numRows - 1
	}
	return r
}

func (g *Grid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.numCols {
		return g.numCols - 1
	}
	return c
}
