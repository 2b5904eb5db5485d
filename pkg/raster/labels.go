// Package raster provides the uniform grids used by the stability
// analysis: a 2D label grid for estimating overlap area between successive
// layers, and a 3D occupancy grid for deduplicating emitted support points.
package raster

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// NoLabel marks an empty grid cell.
const NoLabel = -1

// minStampLength is the shortest segment the stamping pass bothers with.
const minStampLength = 0.1

// LabelGrid is a uniform 2D grid over the object's bounding box. Each cell
// holds the label (island index) of the last segment stamped into it.
// Concurrent stamping races on shared cells are tolerated: either label is
// an acceptable approximation of the overlap, so no synchronization is used.
type LabelGrid struct {
	cellSize float64
	origin   v2.Vec
	nx, ny   int
	cells    []int
}

// NewLabelGrid creates a cleared grid covering [min, max], padded by one
// cell on every side. cellSize is fixed for the lifetime of the grid; the
// analysis derives it once from the active extrusion width so that overlap
// areas stay comparable across layers.
func NewLabelGrid(min, max v2.Vec, cellSize float64) *LabelGrid {
	if cellSize <= 0 {
		cellSize = 1.0
	}
	g := &LabelGrid{
		cellSize: cellSize,
		origin:   min.Sub(v2.Vec{X: cellSize, Y: cellSize}),
	}
	size := max.Sub(g.origin)
	g.nx = int(size.X/cellSize) + 2
	g.ny = int(size.Y/cellSize) + 2
	g.cells = make([]int, g.nx*g.ny)
	g.Clear()
	return g
}

// Clear resets every cell to NoLabel.
func (g *LabelGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = NoLabel
	}
}

// Size returns the cell counts along x and y.
func (g *LabelGrid) Size() (nx, ny int) { return g.nx, g.ny }

// CellArea returns the area of one cell.
func (g *LabelGrid) CellArea() float64 { return g.cellSize * g.cellSize }

// At returns the label stored at cell (ix, iy).
func (g *LabelGrid) At(ix, iy int) int {
	return g.cells[iy*g.nx+ix]
}

// CellCenter returns the world position of the center of cell (ix, iy).
func (g *LabelGrid) CellCenter(ix, iy int) v2.Vec {
	return g.origin.Add(v2.Vec{
		X: (float64(ix) + 0.5) * g.cellSize,
		Y: (float64(iy) + 0.5) * g.cellSize,
	})
}

// Distribute stamps label into every cell along the segment from a to b,
// sampling every half cell width. Later writes win over earlier ones;
// that is the intended approximation, not an error.
func (g *LabelGrid) Distribute(a, b v2.Vec, label int) {
	dir := b.Sub(a)
	length := dir.Length()
	if length < minStampLength {
		return
	}
	step := g.cellSize / 2
	done := 0.0
	for done < length {
		next := done + step
		if next > length {
			next = length
		}
		g.set(a.Add(dir.MulScalar(next/length)), label)
		done = next
	}
}

// set stamps label into the cell containing p. Positions outside the grid
// are clamped to the border cells; the analysis sizes the grid from the
// full object bounding box, so clamping only matters for degenerate input.
func (g *LabelGrid) set(p v2.Vec, label int) {
	ix, iy := g.cellCoords(p)
	g.cells[iy*g.nx+ix] = label
}

func (g *LabelGrid) cellCoords(p v2.Vec) (int, int) {
	rel := p.Sub(g.origin)
	ix := clampInt(int(rel.X/g.cellSize), 0, g.nx-1)
	iy := clampInt(int(rel.Y/g.cellSize), 0, g.ny-1)
	return ix, iy
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
