package raster

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// OccupancyGrid is a sparse 3D voxel grid recording positions already
// claimed by a support point. It keeps the minimum spacing between emitted
// support points by refusing a second point in an occupied cell.
type OccupancyGrid struct {
	cellSize   float64
	origin     v3.Vec
	nx, ny, nz int
	taken      map[int]struct{}
}

// NewOccupancyGrid creates an empty grid covering [min, max], padded by
// one cell on every side. cellSize is the configured minimum support
// spacing and stays fixed for the whole run.
func NewOccupancyGrid(min, max v3.Vec, cellSize float64) *OccupancyGrid {
	if cellSize <= 0 {
		cellSize = 1.0
	}
	g := &OccupancyGrid{
		cellSize: cellSize,
		origin:   min.Sub(v3.Vec{X: cellSize, Y: cellSize, Z: cellSize}),
		taken:    make(map[int]struct{}),
	}
	size := max.Sub(g.origin)
	g.nx = int(size.X/cellSize) + 2
	g.ny = int(size.Y/cellSize) + 2
	g.nz = int(size.Z/cellSize) + 2
	return g
}

// Take marks the cell containing p as occupied.
func (g *OccupancyGrid) Take(p v3.Vec) {
	g.taken[g.cellIndex(p)] = struct{}{}
}

// Taken reports whether the cell containing p is already occupied.
func (g *OccupancyGrid) Taken(p v3.Vec) bool {
	_, ok := g.taken[g.cellIndex(p)]
	return ok
}

func (g *OccupancyGrid) cellIndex(p v3.Vec) int {
	rel := p.Sub(g.origin)
	ix := clampInt(int(rel.X/g.cellSize), 0, g.nx-1)
	iy := clampInt(int(rel.Y/g.cellSize), 0, g.ny-1)
	iz := clampInt(int(rel.Z/g.cellSize), 0, g.nz-1)
	return (iz*g.ny+iy)*g.nx + ix
}
