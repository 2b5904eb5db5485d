package raster

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

func newTestGrid() *LabelGrid {
	return NewLabelGrid(v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 10}, 1.0)
}

func TestLabelGrid_StartsClear(t *testing.T) {
	g := newTestGrid()
	nx, ny := g.Size()
	if nx < 12 || ny < 12 {
		t.Fatalf("grid too small for padded 10x10 box: %dx%d", nx, ny)
	}
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if g.At(x, y) != NoLabel {
				t.Fatalf("cell (%d,%d) not clear after construction", x, y)
			}
		}
	}
}

func TestLabelGrid_DistributeStampsAlongSegment(t *testing.T) {
	g := newTestGrid()
	g.Distribute(v2.Vec{X: 0.5, Y: 0.5}, v2.Vec{X: 5.5, Y: 0.5}, 3)

	// The sampling walk covers the segment from half a cell in through
	// the endpoint.
	stamped := 0
	nx, ny := g.Size()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if g.At(x, y) == 3 {
				stamped++
				center := g.CellCenter(x, y)
				if center.Y < -0.5 || center.Y > 1.5 {
					t.Errorf("stamp far off the segment row at (%f,%f)", center.X, center.Y)
				}
			}
		}
	}
	if stamped < 5 {
		t.Errorf("expected at least 5 stamped cells along a 5mm segment, got %d", stamped)
	}
}

func TestLabelGrid_LastWriteWins(t *testing.T) {
	g := newTestGrid()
	a := v2.Vec{X: 0.5, Y: 0.5}
	b := v2.Vec{X: 5.5, Y: 0.5}
	g.Distribute(a, b, 3)
	g.Distribute(a, b, 8)

	nx, ny := g.Size()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if g.At(x, y) == 3 {
				t.Fatalf("cell (%d,%d) kept the earlier label", x, y)
			}
		}
	}
}

func TestLabelGrid_ShortSegmentIgnored(t *testing.T) {
	g := newTestGrid()
	g.Distribute(v2.Vec{X: 2, Y: 2}, v2.Vec{X: 2.05, Y: 2}, 1)
	nx, ny := g.Size()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if g.At(x, y) != NoLabel {
				t.Fatalf("sub-threshold segment stamped cell (%d,%d)", x, y)
			}
		}
	}
}

func TestLabelGrid_CellGeometry(t *testing.T) {
	g := newTestGrid()
	if g.CellArea() != 1.0 {
		t.Errorf("expected cell area 1, got %f", g.CellArea())
	}
	// Origin is padded one cell below the box minimum.
	c := g.CellCenter(0, 0)
	if c.X != -0.5 || c.Y != -0.5 {
		t.Errorf("expected first cell center (-0.5,-0.5), got (%f,%f)", c.X, c.Y)
	}
}

func TestLabelGrid_ClearResets(t *testing.T) {
	g := newTestGrid()
	g.Distribute(v2.Vec{X: 1, Y: 1}, v2.Vec{X: 9, Y: 9}, 5)
	g.Clear()
	nx, ny := g.Size()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if g.At(x, y) != NoLabel {
				t.Fatalf("cell (%d,%d) survived Clear", x, y)
			}
		}
	}
}
