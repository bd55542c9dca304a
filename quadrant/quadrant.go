// Package quadrant partitions the visible world into a camera-aligned grid
// of fixed-size cells and keeps an up-to-date cell-membership index for
// every tracked entity.
//
// Rows and columns stream in and out as the camera moves: the grid drops a
// whole row or column off the shrinking side and creates a fresh one on the
// growing side, so memory stays bounded no matter how far the camera
// travels.
package quadrant

import (
	"fmt"
	"image"
)

// Scroll directions reported to region-change observers.
const (
	DirXInc = "xInc"
	DirXDec = "xDec"
	DirYInc = "yInc"
	DirYDec = "yDec"
)

// RegionFunc observes a structural grid change: the affected rectangle and
// the scroll direction that caused it. External spawn/unspawn logic uses
// these to decide which off-grid entities need activating.
type RegionFunc func(direction string, top, right, bottom, left float64)

// Thing is the subset of an entity the grid tracks. Implemented by
// things.Thing.
type Thing interface {
	Bounds() (top, right, bottom, left float64)
	QuadrantOffset() (dx, dy float64)
	GroupName() string
	IsChanged() bool
	MarkChanged(changed bool)
	Quadrants() []*Quadrant
	ClearQuadrants()
	AddQuadrant(q *Quadrant)
}

// Quadrant is one fixed-size grid cell: its bounds, a changed flag the
// renderer consults, a backing drawable surface, and per-group member
// lists.
type Quadrant struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64

	// Changed marks the cell as needing a repaint.
	Changed bool

	// Canvas is the cell's offscreen surface, owned by the grid.
	Canvas *image.RGBA

	members map[string][]Thing
}

// Members returns the cell's member list for one group, in insertion
// order.
func (q *Quadrant) Members(group string) []Thing {
	return q.members[group]
}

// GroupCount returns how many members of a group the cell holds.
func (q *Quadrant) GroupCount(group string) int {
	return len(q.members[group])
}

func (q *Quadrant) add(t Thing) {
	q.members[t.GroupName()] = append(q.members[t.GroupName()], t)
}

func (q *Quadrant) remove(t Thing) {
	group := t.GroupName()
	list := q.members[group]
	for i := range list {
		if list[i] == t {
			q.members[group] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Row is an ordered run of quadrants sharing a top coordinate, left to
// right.
type Row struct {
	Top       float64
	Quadrants []*Quadrant
}

// Col is an ordered run of quadrants sharing a left coordinate, top to
// bottom.
type Col struct {
	Left      float64
	Quadrants []*Quadrant
}

// Settings configures a Grid. Row/column counts and cell dimensions are
// required.
type Settings struct {
	NumRows int
	NumCols int

	QuadrantWidth  float64
	QuadrantHeight float64

	// StartLeft and StartTop position the first cell of the first row.
	StartLeft float64
	StartTop  float64

	// GroupNames lists the entity groups the grid keeps member lists
	// for, in draw-layer order.
	GroupNames []string

	// OnAdd and OnRemove observe structural changes. Either may be nil.
	OnAdd    RegionFunc
	OnRemove RegionFunc

	// CreateCanvas builds cell surfaces; nil selects image.NewRGBA.
	CreateCanvas func(w, h int) *image.RGBA
}

// Grid is the spatial index itself.
type Grid struct {
	numRows int
	numCols int
	quadW   float64
	quadH   float64

	startLeft float64
	startTop  float64

	groupNames   []string
	onAdd        RegionFunc
	onRemove     RegionFunc
	createCanvas func(w, h int) *image.RGBA

	rows []*Row
	cols []*Col

	top    float64
	right  float64
	bottom float64
	left   float64

	offsetX float64
	offsetY float64
}

// NewGrid validates the settings and constructs a Grid. The grid is empty
// until Reset is called.
func NewGrid(s Settings) (*Grid, error) {
	if s.NumRows <= 0 || s.NumCols <= 0 {
		return nil, fmt.Errorf("quadrant: grid requires positive row and column counts; got %dx%d", s.NumRows, s.NumCols)
	}
	if s.QuadrantWidth <= 0 || s.QuadrantHeight <= 0 {
		return nil, fmt.Errorf("quadrant: grid requires positive cell dimensions; got %gx%g", s.QuadrantWidth, s.QuadrantHeight)
	}
	create := s.CreateCanvas
	if create == nil {
		create = func(w, h int) *image.RGBA {
			return image.NewRGBA(image.Rect(0, 0, w, h))
		}
	}
	return &Grid{
		numRows:      s.NumRows,
		numCols:      s.NumCols,
		quadW:        s.QuadrantWidth,
		quadH:        s.QuadrantHeight,
		startLeft:    s.StartLeft,
		startTop:     s.StartTop,
		groupNames:   append([]string{}, s.GroupNames...),
		onAdd:        s.OnAdd,
		onRemove:     s.OnRemove,
		createCanvas: create,
	}, nil
}

// Reset rebuilds all rows and columns from scratch at the configured start
// coordinates and announces the whole grid as an added region.
func (g *Grid) Reset() {
	g.rows = make([]*Row, 0, g.numRows)
	g.cols = make([]*Col, 0, g.numCols)
	g.offsetX = 0
	g.offsetY = 0

	g.top = g.startTop
	g.left = g.startLeft
	g.bottom = g.startTop + float64(g.numRows)*g.quadH
	g.right = g.startLeft + float64(g.numCols)*g.quadW

	for r := 0; r < g.numRows; r++ {
		g.rows = append(g.rows, &Row{Top: g.startTop + float64(r)*g.quadH})
	}
	for c := 0; c < g.numCols; c++ {
		g.cols = append(g.cols, &Col{Left: g.startLeft + float64(c)*g.quadW})
	}
	for r := 0; r < g.numRows; r++ {
		for c := 0; c < g.numCols; c++ {
			q := g.createQuadrant(g.rows[r].Top, g.cols[c].Left)
			g.rows[r].Quadrants = append(g.rows[r].Quadrants, q)
			g.cols[c].Quadrants = append(g.cols[c].Quadrants, q)
		}
	}

	if g.onAdd != nil {
		g.onAdd(DirXInc, g.top, g.right, g.bottom, g.left)
	}
}

func (g *Grid) createQuadrant(top, left float64) *Quadrant {
	q := &Quadrant{
		Top:     top,
		Left:    left,
		Bottom:  top + g.quadH,
		Right:   left + g.quadW,
		Changed: true,
		Canvas:  g.createCanvas(int(g.quadW), int(g.quadH)),
		members: map[string][]Thing{},
	}
	for _, group := range g.groupNames {
		q.members[group] = nil
	}
	return q
}

// NumRows and NumCols return the fixed grid topology.
func (g *Grid) NumRows() int { return g.numRows }
func (g *Grid) NumCols() int { return g.numCols }

// Rows returns the row containers, top to bottom.
func (g *Grid) Rows() []*Row { return g.rows }

// Cols returns the column containers, left to right.
func (g *Grid) Cols() []*Col { return g.cols }

// QuadrantAt returns the cell at a row/column index pair.
func (g *Grid) QuadrantAt(row, col int) (*Quadrant, error) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.numCols {
		return nil, fmt.Errorf("quadrant: no cell at row %d col %d", row, col)
	}
	return g.rows[row].Quadrants[col], nil
}

// Bounds returns the grid's current outer rectangle.
func (g *Grid) Bounds() (top, right, bottom, left float64) {
	return g.top, g.right, g.bottom, g.left
}

// Offsets returns the accumulated sub-cell scroll offsets.
func (g *Grid) Offsets() (x, y float64) {
	return g.offsetX, g.offsetY
}

// QuadrantWidth and QuadrantHeight return the fixed cell dimensions.
func (g *Grid) QuadrantWidth() float64  { return g.quadW }
func (g *Grid) QuadrantHeight() float64 { return g.quadH }

// GroupNames returns the tracked groups in draw-layer order.
func (g *Grid) GroupNames() []string { return g.groupNames }
