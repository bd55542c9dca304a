package quadrant

// This file contains camera-motion handling: translating cell bounds and
// rebalancing rows/columns so the accumulated offset stays under one cell.

import (
	"math"
)

// Shift translates every cell's bounds by the integer-truncated delta,
// accumulates the offset, and rebalances rows and columns until the offset
// is bounded by one cell in each axis.
func (g *Grid) Shift(dx, dy float64) {
	dx = math.Trunc(dx)
	dy = math.Trunc(dy)
	g.offsetX += dx
	g.offsetY += dy

	g.top += dy
	g.bottom += dy
	g.left += dx
	g.right += dx

	for _, row := range g.rows {
		row.Top += dy
	}
	for _, col := range g.cols {
		col.Left += dx
	}
	for _, row := range g.rows {
		for _, q := range row.Quadrants {
			q.Top += dy
			q.Bottom += dy
			q.Left += dx
			q.Right += dx
		}
	}

	g.rebalance()
}

// rebalance restores the bounded-offset invariant: each full cell of
// accumulated travel drops the trailing row/column on the shrinking side
// and appends a fresh one on the growing side.
func (g *Grid) rebalance() {
	for g.offsetX >= g.quadW {
		g.dropLastCol()
		g.prependCol()
		g.offsetX -= g.quadW
	}
	for -g.offsetX >= g.quadW {
		g.dropFirstCol()
		g.appendCol()
		g.offsetX += g.quadW
	}
	for g.offsetY >= g.quadH {
		g.dropLastRow()
		g.prependRow()
		g.offsetY -= g.quadH
	}
	for -g.offsetY >= g.quadH {
		g.dropFirstRow()
		g.appendRow()
		g.offsetY += g.quadH
	}
}

// appendCol creates a column one cell beyond the right edge.
func (g *Grid) appendCol() {
	left := g.right
	col := &Col{Left: left}
	for _, row := range g.rows {
		q := g.createQuadrant(row.Top, left)
		row.Quadrants = append(row.Quadrants, q)
		col.Quadrants = append(col.Quadrants, q)
	}
	g.cols = append(g.cols, col)
	g.right += g.quadW
	if g.onAdd != nil {
		g.onAdd(DirXInc, g.top, g.right, g.bottom, left)
	}
}

// prependCol creates a column one cell before the left edge.
func (g *Grid) prependCol() {
	left := g.left - g.quadW
	col := &Col{Left: left}
	for _, row := range g.rows {
		q := g.createQuadrant(row.Top, left)
		row.Quadrants = append([]*Quadrant{q}, row.Quadrants...)
		col.Quadrants = append(col.Quadrants, q)
	}
	g.cols = append([]*Col{col}, g.cols...)
	g.left = left
	if g.onAdd != nil {
		g.onAdd(DirXDec, g.top, g.left+g.quadW, g.bottom, left)
	}
}

// dropFirstCol pops the leftmost column.
func (g *Grid) dropFirstCol() {
	if len(g.cols) == 0 {
		return
	}
	old := g.cols[0]
	g.cols = g.cols[1:]
	for _, row := range g.rows {
		row.Quadrants = row.Quadrants[1:]
	}
	g.left += g.quadW
	if g.onRemove != nil {
		g.onRemove(DirXInc, g.top, old.Left+g.quadW, g.bottom, old.Left)
	}
}

// dropLastCol pops the rightmost column.
func (g *Grid) dropLastCol() {
	if len(g.cols) == 0 {
		return
	}
	old := g.cols[len(g.cols)-1]
	g.cols = g.cols[:len(g.cols)-1]
	for _, row := range g.rows {
		row.Quadrants = row.Quadrants[:len(row.Quadrants)-1]
	}
	g.right -= g.quadW
	if g.onRemove != nil {
		g.onRemove(DirXDec, g.top, old.Left+g.quadW, g.bottom, old.Left)
	}
}

// appendRow creates a row one cell below the bottom edge.
func (g *Grid) appendRow() {
	top := g.bottom
	row := &Row{Top: top}
	for _, col := range g.cols {
		q := g.createQuadrant(top, col.Left)
		col.Quadrants = append(col.Quadrants, q)
		row.Quadrants = append(row.Quadrants, q)
	}
	g.rows = append(g.rows, row)
	g.bottom += g.quadH
	if g.onAdd != nil {
		g.onAdd(DirYInc, top, g.right, g.bottom, g.left)
	}
}

// prependRow creates a row one cell above the top edge.
func (g *Grid) prependRow() {
	top := g.top - g.quadH
	row := &Row{Top: top}
	for _, col := range g.cols {
		q := g.createQuadrant(top, col.Left)
		col.Quadrants = append([]*Quadrant{q}, col.Quadrants...)
		row.Quadrants = append(row.Quadrants, q)
	}
	g.rows = append([]*Row{row}, g.rows...)
	g.top = top
	if g.onAdd != nil {
		g.onAdd(DirYDec, top, g.right, top+g.quadH, g.left)
	}
}

// dropFirstRow pops the topmost row.
func (g *Grid) dropFirstRow() {
	if len(g.rows) == 0 {
		return
	}
	old := g.rows[0]
	g.rows = g.rows[1:]
	for _, col := range g.cols {
		col.Quadrants = col.Quadrants[1:]
	}
	g.top += g.quadH
	if g.onRemove != nil {
		g.onRemove(DirYInc, old.Top, g.right, old.Top+g.quadH, g.left)
	}
}

// dropLastRow pops the bottommost row.
func (g *Grid) dropLastRow() {
	if len(g.rows) == 0 {
		return
	}
	old := g.rows[len(g.rows)-1]
	g.rows = g.rows[:len(g.rows)-1]
	for _, col := range g.cols {
		col.Quadrants = col.Quadrants[:len(col.Quadrants)-1]
	}
	g.bottom -= g.quadH
	if g.onRemove != nil {
		g.onRemove(DirYDec, old.Top, g.right, old.Top+g.quadH, g.left)
	}
}
