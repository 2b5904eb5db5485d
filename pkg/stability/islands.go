package stability

import (
	"runtime"
	"sync"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
	"github.com/chazu/buttress/pkg/raster"
)

// noIsland marks segments that ended up outside every island. It only
// happens for degenerate input; such segments still rasterize as empty.
const noIsland = raster.NoLabel

// pathRun is a [start, end) range of contiguous same-path segments.
type pathRun struct {
	start, end int
}

// buildLayerIslands partitions one layer's segments into islands, computes
// their statistics, rasterizes the layer into grid and accumulates the
// overlap with prevGrid into per-island connections.
//
// firstLayer switches the sticking statistic from support-flagged segments
// to full bed contact. cross maps each path to its minimum cross-section.
// grid is cleared and refilled; it becomes the "previous" grid of the next
// layer.
func buildLayerIslands(lines []geom.Segment, z float64, firstLayer bool,
	prevGrid, grid *raster.LabelGrid, cross map[geom.PathID]float64,
	params Params) LayerIslands {

	result := LayerIslands{Z: z}

	// Group contiguous same-path segments into runs.
	var runs []pathRun
	currentPath := geom.NoPath
	for i, line := range lines {
		if len(runs) > 0 && line.Path == currentPath {
			runs[len(runs)-1].end = i + 1
		} else {
			runs = append(runs, pathRun{start: i, end: i + 1})
			currentPath = line.Path
		}
	}

	// Seed one island candidate per outer-wall run; outer boundaries
	// reliably delimit independent regions.
	var candidates []*geom.SegmentIndex
	var candidateRuns [][]int
	for r, run := range runs {
		if lines[run.start].Role == geom.RoleOuterWall {
			candidates = append(candidates, geom.NewSegmentIndex(lines[run.start:run.end]))
			candidateRuns = append(candidateRuns, []int{r})
		}
	}
	// Outer walls may all have been reclassified (e.g. pure overhang
	// perimeters), leaving nothing to seed from. Treat the first run as
	// the sole island: possibly wrong, never fatal.
	if len(candidates) == 0 && len(runs) > 0 {
		candidates = append(candidates, geom.NewSegmentIndex(lines[runs[0].start:runs[0].end]))
		candidateRuns = append(candidateRuns, []int{0})
	}

	// Assign every non-boundary run to the first candidate whose
	// boundary contains its start point. Unassigned runs default to
	// island 0, again favoring progress over geometric certainty.
	for r, run := range runs {
		if lines[run.start].Role == geom.RoleOuterWall {
			continue
		}
		assigned := false
		for c := range candidates {
			if d, _, _ := candidates[c].SignedDistance(lines[run.start].A); d < 0 {
				candidateRuns[c] = append(candidateRuns[c], r)
				assigned = true
				break
			}
		}
		if !assigned && len(candidateRuns) > 0 {
			candidateRuns[0] = append(candidateRuns[0], r)
		}
	}

	// Merge candidates nested inside one another (holes): the inner
	// candidate donates its runs to the outer one. Pairwise containment
	// checks make the result independent of iteration order.
	for i := range candidates {
		if len(candidateRuns[i]) == 0 {
			continue
		}
		for j := range candidates {
			if i == j || len(candidateRuns[j]) == 0 {
				continue
			}
			probe := candidates[j].Segment(0).A
			if d, _, _ := candidates[i].SignedDistance(probe); d < 0 {
				candidateRuns[i] = append(candidateRuns[i], candidateRuns[j]...)
				candidateRuns[j] = candidateRuns[j][:0]
			}
		}
	}

	// Fold surviving candidates into islands with their statistics.
	lineIsland := make([]int, len(lines))
	for i := range lineIsland {
		lineIsland[i] = noIsland
	}
	for _, runIdxs := range candidateRuns {
		if len(runIdxs) == 0 {
			continue
		}
		island := Island{Connections: make(map[int]*IslandConnection)}
		seed := runs[runIdxs[0]]
		island.Boundary = append(island.Boundary, lines[seed.start:seed.end]...)

		for _, r := range runIdxs {
			for li := runs[r].start; li < runs[r].end; li++ {
				lineIsland[li] = len(result.Islands)
				line := lines[li]
				volume := cross[line.Path] * line.Len
				middle := line.A.Add(line.B).DivScalar(2)
				island.Volume += volume
				island.VolumeCentroidAccum = island.VolumeCentroidAccum.Add(
					v3.Vec{X: middle.X, Y: middle.Y, Z: z}.MulScalar(volume))

				switch {
				case firstLayer:
					area := line.Len * params.FlowWidth
					island.StickingArea += area
					island.StickingCentroidAccum = island.StickingCentroidAccum.Add(
						v3.Vec{X: middle.X, Y: middle.Y, Z: z}.MulScalar(area))
					island.StickingSecondMomentAccum = island.StickingSecondMomentAccum.Add(
						v2.Vec{X: middle.X * middle.X, Y: middle.Y * middle.Y}.MulScalar(area))
				case line.SupportGenerated:
					area := line.Len * params.FlowWidth
					island.StickingArea += area
					island.StickingCentroidAccum = island.StickingCentroidAccum.Add(
						v3.Vec{X: line.B.X, Y: line.B.Y, Z: z}.MulScalar(area))
					island.StickingSecondMomentAccum = island.StickingSecondMomentAccum.Add(
						v2.Vec{X: line.B.X * line.B.X, Y: line.B.Y * line.B.Y}.MulScalar(area))
				}
			}
		}
		result.Islands = append(result.Islands, island)
	}

	// Rasterize the layer keyed by island. Segments are partitioned
	// across workers writing the one shared grid without locks; two
	// segments racing on a cell leave either label, which is an accepted
	// approximation of the overlap estimate. Keep it unsynchronized.
	grid.Clear()
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(lines) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers && w*chunk < len(lines); w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(lines))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				grid.Distribute(lines[i].A, lines[i].B, lineIsland[i])
			}
		}(lo, hi)
	}
	wg.Wait()

	// Every cell labeled in both grids contributes its area to the
	// joint between the two islands.
	nx, ny := grid.Size()
	cellArea := grid.CellArea()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			cur := grid.At(x, y)
			prev := prevGrid.At(x, y)
			if cur == raster.NoLabel || prev == raster.NoLabel {
				continue
			}
			center := grid.CellCenter(x, y)
			conn := result.Islands[cur].connection(prev)
			conn.Area += cellArea
			conn.CentroidAccum = conn.CentroidAccum.Add(
				v3.Vec{X: center.X, Y: center.Y, Z: z}.MulScalar(cellArea))
			conn.SecondMomentAccum = conn.SecondMomentAccum.Add(
				v2.Vec{X: center.X * center.X, Y: center.Y * center.Y}.MulScalar(cellArea))
		}
	}

	return result
}
