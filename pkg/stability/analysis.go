package stability

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
	"github.com/chazu/buttress/pkg/raster"
)

// Analyze runs the full stability analysis over the layers of one print,
// bottom to top, and returns the ordered support points together with the
// islands-per-layer graph (useful for diagnostics).
//
// Global-stability supports come first in the result, followed by the
// local bridging supports, each group in emission order. Layers must be
// given in increasing z order; the analysis runs to completion and never
// fails on pathological geometry.
func Analyze(layers []Layer, params Params) (Issues, []LayerIslands) {
	if len(layers) == 0 {
		return Issues{}, nil
	}

	bbMin, bbMax, maxZ := bounds(layers)
	prevGrid := raster.NewLabelGrid(bbMin, bbMax, params.FlowWidth)
	grid := raster.NewLabelGrid(bbMin, bbMax, params.FlowWidth)

	var localIssues Issues
	graph := make([]LayerIslands, 0, len(layers))

	// Base layer: everything sticks to the bed, nothing can bridge, so
	// paths are segmented raw without the local tracker pass.
	var lines []geom.Segment
	cross := make(map[geom.PathID]float64)
	for _, p := range layers[0].Paths {
		cross[p.ID] = p.MinCrossSection
		lines = rawSegments(p, lines)
	}
	graph = append(graph, buildLayerIslands(lines, layers[0].Z, true, prevGrid, grid, cross, params))
	prevIndex := geom.NewSegmentIndex(lines)
	prevGrid, grid = grid, prevGrid

	for li := 1; li < len(layers); li++ {
		layer := layers[li]
		lines = lines[:0]
		clear(cross)
		for _, p := range layer.Paths {
			cross[p.ID] = p.MinCrossSection
			if checkedByTracker(p.Role) {
				lines = append(lines,
					checkPathStability(p, layer.Z, prevIndex, params, &localIssues)...)
			} else {
				lines = rawSegments(p, lines)
			}
		}
		graph = append(graph, buildLayerIslands(lines, layer.Z, false, prevGrid, grid, cross, params))
		prevIndex = geom.NewSegmentIndex(lines)
		prevGrid, grid = grid, prevGrid
	}

	occupancy := raster.NewOccupancyGrid(
		v3.Vec{X: bbMin.X, Y: bbMin.Y, Z: 0},
		v3.Vec{X: bbMax.X, Y: bbMax.Y, Z: maxZ},
		params.MinSupportSpacing)
	issues := evaluateGlobal(graph, occupancy, params)
	issues.SupportPoints = append(issues.SupportPoints, localIssues.SupportPoints...)

	logger().Info("analysis complete",
		"layers", len(layers),
		"support_points", len(issues.SupportPoints))
	return issues, graph
}

// bounds returns the 2D bounding box over every path point and the
// highest layer z.
func bounds(layers []Layer) (v2.Vec, v2.Vec, float64) {
	bbMin := v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	bbMax := v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	maxZ := 0.0
	seen := false
	for _, layer := range layers {
		maxZ = math.Max(maxZ, layer.Z)
		for _, p := range layer.Paths {
			for _, pt := range p.Points {
				bbMin = bbMin.Min(pt)
				bbMax = bbMax.Max(pt)
				seen = true
			}
		}
	}
	if !seen {
		return v2.Vec{}, v2.Vec{}, maxZ
	}
	return bbMin, bbMax, maxZ
}
