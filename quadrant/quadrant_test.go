package quadrant

import (
	"testing"

	"badc0de.net/pkg/go-retro/ttesting"
)

// gridThing is a minimal Thing for grid tests.
type gridThing struct {
	top, right, bottom, left float64
	offsetX, offsetY         float64
	group                    string
	changed                  bool
	quadrants                []*Quadrant
}

func (t *gridThing) Bounds() (top, right, bottom, left float64) {
	return t.top, t.right, t.bottom, t.left
}
func (t *gridThing) QuadrantOffset() (dx, dy float64) { return t.offsetX, t.offsetY }
func (t *gridThing) GroupName() string                { return t.group }
func (t *gridThing) IsChanged() bool                  { return t.changed }
func (t *gridThing) MarkChanged(changed bool)         { t.changed = changed }
func (t *gridThing) Quadrants() []*Quadrant           { return t.quadrants }
func (t *gridThing) ClearQuadrants()                  { t.quadrants = nil }
func (t *gridThing) AddQuadrant(q *Quadrant)          { t.quadrants = append(t.quadrants, q) }

func newTestGrid(t *testing.T, onAdd, onRemove RegionFunc) *Grid {
	t.Helper()
	g, err := NewGrid(Settings{
		NumRows:        3,
		NumCols:        3,
		QuadrantWidth:  10,
		QuadrantHeight: 10,
		GroupNames:     []string{"Terrain", "Character"},
		OnAdd:          onAdd,
		OnRemove:       onRemove,
	})
	if err != nil {
		t.Fatalf("failed to construct grid: %v", err)
	}
	g.Reset()
	return g
}

func TestNewGridValidates(t *testing.T) {
	if _, err := NewGrid(Settings{NumRows: 0, NumCols: 3, QuadrantWidth: 10, QuadrantHeight: 10}); err == nil {
		t.Errorf("grid without rows constructed")
	}
	if _, err := NewGrid(Settings{NumRows: 3, NumCols: 3, QuadrantWidth: 0, QuadrantHeight: 10}); err == nil {
		t.Errorf("grid without cell width constructed")
	}
}

func TestResetTopology(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	ttesting.AssertEqualInt(t, "rows", len(g.Rows()), 3)
	ttesting.AssertEqualInt(t, "cols", len(g.Cols()), 3)
	for r, row := range g.Rows() {
		ttesting.AssertEqualInt(t, "row width", len(row.Quadrants), 3)
		ttesting.AssertEqualFloat64(t, "row top", row.Top, float64(r)*10)
	}
	top, right, bottom, left := g.Bounds()
	ttesting.AssertEqualFloat64(t, "top", top, 0)
	ttesting.AssertEqualFloat64(t, "right", right, 30)
	ttesting.AssertEqualFloat64(t, "bottom", bottom, 30)
	ttesting.AssertEqualFloat64(t, "left", left, 0)

	q, err := g.QuadrantAt(1, 2)
	if err != nil {
		t.Fatalf("failed to fetch cell: %v", err)
	}
	ttesting.AssertEqualFloat64(t, "cell left", q.Left, 20)
	ttesting.AssertEqualFloat64(t, "cell top", q.Top, 10)
	if q.Canvas == nil {
		t.Errorf("cell has no canvas")
	}
}

func TestResetAnnouncesWholeGrid(t *testing.T) {
	var gotDir string
	var gotRight float64
	newTestGrid(t, func(dir string, top, right, bottom, left float64) {
		gotDir = dir
		gotRight = right
	}, nil)
	ttesting.AssertEqualString(t, "direction", gotDir, DirXInc)
	ttesting.AssertEqualFloat64(t, "right", gotRight, 30)
}

// TestThingOccupiesFourCells places an entity straddling the first four
// cells: bounds {5,5,15,15} on a 3x3 grid of 10x10 cells must occupy
// exactly rows {0,1} x cols {0,1}.
func TestThingOccupiesFourCells(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	thing := &gridThing{top: 5, left: 5, right: 15, bottom: 15, group: "Character", changed: true}
	g.DetermineThingQuadrants(thing)

	ttesting.AssertEqualInt(t, "quadrant count", len(thing.Quadrants()), 4)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			q, _ := g.QuadrantAt(r, c)
			want := 0
			if r < 2 && c < 2 {
				want = 1
			}
			ttesting.AssertEqualInt(t, "membership", q.GroupCount("Character"), want)
		}
	}
	ttesting.AssertEqualBool(t, "changed cleared", thing.IsChanged(), false)
}

// TestBoundaryBelongsToLowerCell checks the edge policy: a right/bottom
// edge exactly on a cell boundary stays in the lower-index cell.
func TestBoundaryBelongsToLowerCell(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	thing := &gridThing{top: 0, left: 0, right: 10, bottom: 10, group: "Terrain"}
	g.DetermineThingQuadrants(thing)
	ttesting.AssertEqualInt(t, "quadrant count", len(thing.Quadrants()), 1)
	q, _ := g.QuadrantAt(0, 0)
	ttesting.AssertEqualInt(t, "cell 0,0", q.GroupCount("Terrain"), 1)
}

func TestQuadrantOffsetShiftsRange(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	// The raw bounds sit inside cell (0,0); the sub-pixel offset pushes
	// the entity across the boundary into cell (0,1).
	thing := &gridThing{top: 2, left: 8, right: 9, bottom: 4, group: "Character", offsetX: 3}
	g.DetermineThingQuadrants(thing)
	ttesting.AssertEqualInt(t, "quadrant count", len(thing.Quadrants()), 1)
	q, _ := g.QuadrantAt(0, 1)
	ttesting.AssertEqualInt(t, "cell 0,1", q.GroupCount("Character"), 1)
}

// TestMembershipInvariant moves an entity and checks the recorded quadrant
// list always equals the set of intersecting cells.
func TestMembershipInvariant(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	thing := &gridThing{top: 5, left: 5, right: 15, bottom: 15, group: "Character", changed: true}
	g.DetermineThingQuadrants(thing)

	// Move fully inside cell (2,2) and recompute.
	thing.top, thing.left, thing.bottom, thing.right = 22, 22, 28, 28
	thing.changed = true
	g.DetermineThingQuadrants(thing)

	ttesting.AssertEqualInt(t, "quadrant count", len(thing.Quadrants()), 1)
	total := 0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			q, _ := g.QuadrantAt(r, c)
			total += q.GroupCount("Character")
		}
	}
	ttesting.AssertEqualInt(t, "total references", total, 1)
	q, _ := g.QuadrantAt(2, 2)
	ttesting.AssertEqualBool(t, "new cell changed", q.Changed, true)
	q00, _ := g.QuadrantAt(0, 0)
	ttesting.AssertEqualBool(t, "old cell changed", q00.Changed, true)
}

func TestDetermineAllQuadrantsZeroesCounts(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	a := &gridThing{top: 1, left: 1, right: 4, bottom: 4, group: "Terrain"}
	b := &gridThing{top: 12, left: 12, right: 14, bottom: 14, group: "Terrain"}
	g.DetermineAllQuadrants("Terrain", []Thing{a, b})
	q00, _ := g.QuadrantAt(0, 0)
	q11, _ := g.QuadrantAt(1, 1)
	ttesting.AssertEqualInt(t, "cell 0,0", q00.GroupCount("Terrain"), 1)
	ttesting.AssertEqualInt(t, "cell 1,1", q11.GroupCount("Terrain"), 1)

	// Recomputing with only one entity forgets the other.
	g.DetermineAllQuadrants("Terrain", []Thing{a})
	ttesting.AssertEqualInt(t, "cell 1,1 cleared", q11.GroupCount("Terrain"), 0)
}

// TestShiftRoundTrip checks that shifting away and back restores the cell
// bounds and topology.
func TestShiftRoundTrip(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	q00Before, _ := g.QuadrantAt(0, 0)
	topBefore, rightBefore, bottomBefore, leftBefore := g.Bounds()

	g.Shift(-25, -7)
	g.Shift(25, 7)

	ttesting.AssertEqualInt(t, "rows", len(g.Rows()), 3)
	ttesting.AssertEqualInt(t, "cols", len(g.Cols()), 3)
	top, right, bottom, left := g.Bounds()
	ttesting.AssertEqualFloat64(t, "top", top, topBefore)
	ttesting.AssertEqualFloat64(t, "right", right, rightBefore)
	ttesting.AssertEqualFloat64(t, "bottom", bottom, bottomBefore)
	ttesting.AssertEqualFloat64(t, "left", left, leftBefore)

	q00, _ := g.QuadrantAt(0, 0)
	ttesting.AssertEqualFloat64(t, "cell top", q00.Top, q00Before.Top)
	ttesting.AssertEqualFloat64(t, "cell left", q00.Left, q00Before.Left)

	x, y := g.Offsets()
	ttesting.AssertEqualFloat64(t, "offset x", x, 0)
	ttesting.AssertEqualFloat64(t, "offset y", y, 0)
}

// TestShiftRebalances checks that more than a cell of travel streams a
// column out on one side and in on the other.
func TestShiftRebalances(t *testing.T) {
	var added, removed []string
	g := newTestGrid(t, func(dir string, top, right, bottom, left float64) {
		added = append(added, dir)
	}, func(dir string, top, right, bottom, left float64) {
		removed = append(removed, dir)
	})
	added = nil // drop the reset announcement

	g.Shift(-15, 0)

	ttesting.AssertEqualInt(t, "cols", len(g.Cols()), 3)
	ttesting.AssertEqualInt(t, "rows", len(g.Rows()), 3)
	ttesting.AssertEqualInt(t, "one column added", len(added), 1)
	ttesting.AssertEqualString(t, "added direction", added[0], DirXInc)
	ttesting.AssertEqualInt(t, "one column removed", len(removed), 1)
	ttesting.AssertEqualString(t, "removed direction", removed[0], DirXInc)

	// After dropping the leftmost column and appending one on the right,
	// the first column starts one cell further along.
	ttesting.AssertEqualFloat64(t, "first col left", g.Cols()[0].Left, -5)
	x, _ := g.Offsets()
	ttesting.AssertEqualFloat64(t, "bounded offset", x, -5)
}

func TestShiftTruncatesFractions(t *testing.T) {
	g := newTestGrid(t, nil, nil)
	g.Shift(1.9, -2.7)
	x, y := g.Offsets()
	ttesting.AssertEqualFloat64(t, "offset x", x, 1)
	ttesting.AssertEqualFloat64(t, "offset y", y, -2)
	q, _ := g.QuadrantAt(0, 0)
	ttesting.AssertEqualFloat64(t, "cell left", q.Left, 1)
	ttesting.AssertEqualFloat64(t, "cell top", q.Top, -2)
}
