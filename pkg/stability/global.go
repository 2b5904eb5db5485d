package stability

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
	"github.com/chazu/buttress/pkg/raster"
)

// pivotSearchReach is how far past a segment's endpoint, along the
// extrusion direction, the pivot-point search probes before snapping back
// to the island's own boundary.
const pivotSearchReach = 300.0

// malformationSkipOverride: boundary segments are normally skipped until
// the minimum support spacing has passed, unless their malformation is
// already this significant.
const malformationSkipOverride = 0.3

// weakestArmFloor keeps the vertical arm estimate of a connection away
// from zero for joints right below the current layer.
const weakestArmFloor = 1.1

// estimateStrength ranks a connection by the ratio of its minimum
// cross-sectional variance to its vertical arm length: the joint with the
// lowest value yields first.
func estimateStrength(conn *IslandConnection, layerZ float64) float64 {
	centroid := conn.Centroid()
	minVariance := math.Min(
		conn.SecondMomentAccum.X/conn.Area-centroid.X*centroid.X,
		conn.SecondMomentAccum.Y/conn.Area-centroid.Y*centroid.Y)
	armLen := math.Max(weakestArmFloor, layerZ-centroid.Z)
	return minVariance / armLen
}

// evaluateGlobal walks the islands-per-layer graph strictly bottom up,
// maintaining object parts through the union-find tracker and each
// island's weakest connection, and evaluates the torque balance along
// every island boundary, emitting support points where the balance tips.
// Emitted supports immediately stiffen both the part and the weakest
// connection, so later segments of the same layer see the reinforcement.
func evaluateGlobal(graph []LayerIslands, occupancy *raster.OccupancyGrid,
	params Params) Issues {

	var issues Issues
	tracker := NewPartTracker()

	// Previous layer state, threaded across iterations: island index to
	// part id, and island index to its weakest connection.
	prevPart := make(map[int]int)
	prevWeakest := make(map[int]*IslandConnection)

	for layerIdx := range graph {
		layer := &graph[layerIdx]
		layerZ := layer.Z
		nextPart := make(map[int]int)
		nextWeakest := make(map[int]*IslandConnection)

		for islandIdx := range layer.Islands {
			island := &layer.Islands[islandIdx]
			if len(island.Connections) == 0 {
				// New object part emerging in mid-air or on the bed.
				partID := tracker.Insert(island)
				nextPart[islandIdx] = partID
				nextWeakest[islandIdx] = &IslandConnection{
					Area:              1.0,
					SecondMomentAccum: v2.Vec{X: math.Inf(1), Y: math.Inf(1)},
				}
				logger().Debug("new object part",
					"layer", layerIdx, "island", islandIdx, "part", partID)
				continue
			}

			// The island bridges one or more existing parts: merge
			// them and fold the island in. Also combine the weakest
			// connections transferred from below with the joints
			// formed on this layer.
			transferred := &IslandConnection{}
			formed := &IslandConnection{}
			partIDs := make(map[int]struct{})
			finalPart := -1
			for prev, conn := range island.Connections {
				id := tracker.Find(prevPart[prev])
				if _, seen := partIDs[id]; !seen {
					partIDs[id] = struct{}{}
					if finalPart == -1 || id < finalPart {
						finalPart = id
					}
				}
				transferred.Add(*prevWeakest[prev])
				formed.Add(*conn)
			}
			for id := range partIDs {
				if id != finalPart {
					logger().Debug("merging object parts",
						"layer", layerIdx, "from", id, "into", finalPart)
					tracker.Merge(id, finalPart)
				}
			}

			weakest := formed
			if estimateStrength(transferred, layerZ) < estimateStrength(formed, layerZ) {
				weakest = transferred
			}
			logger().Debug("weakest connection",
				append([]any{"layer", layerIdx, "island", islandIdx},
					weakest.logAttrs()...)...)
			nextPart[islandIdx] = finalPart
			nextWeakest[islandIdx] = weakest
			tracker.Access(finalPart).Add(newObjectPart(island))
		}

		prevPart = nextPart
		prevWeakest = nextWeakest

		// Parts are up to date for this layer; now check each island's
		// boundary segments against the part's bed joint and its
		// weakest connection.
		for islandIdx := range layer.Islands {
			island := &layer.Islands[islandIdx]
			part := tracker.Access(prevPart[islandIdx])
			weakest := prevWeakest[islandIdx]

			var boundaryIndex *geom.SegmentIndex
			uncheckedDist := params.MinSupportSpacing + 1.0

			for _, line := range island.Boundary {
				if line.Len == 0 ||
					(uncheckedDist+line.Len < params.MinSupportSpacing &&
						line.Malformation < malformationSkipOverride) {
					uncheckedDist += line.Len
					continue
				}
				uncheckedDist = line.Len

				force := part.StableWhileExtruding(weakest, line, layerZ, params)
				if force <= 0 {
					continue
				}

				// Search along the extrusion direction for the
				// nearest point on the island's own boundary: the
				// pivot the part would topple over.
				if boundaryIndex == nil {
					boundaryIndex = geom.NewSegmentIndex(island.Boundary)
				}
				probe := line.B.Add(line.Dir().MulScalar(pivotSearchReach))
				_, _, target := boundaryIndex.SignedDistance(probe)
				support := v3.Vec{X: target.X, Y: target.Y, Z: layerZ}
				if occupancy.Taken(support) {
					continue
				}

				area := params.SupportInterfaceRadius * params.SupportInterfaceRadius * math.Pi
				part.AddSupportPoint(support, area)
				dir := line.Dir()
				issues.add(support, force, v3.Vec{X: dir.X, Y: dir.Y})
				occupancy.Take(support)

				weakest.Area += area
				weakest.CentroidAccum = weakest.CentroidAccum.Add(support.MulScalar(area))
				weakest.SecondMomentAccum = weakest.SecondMomentAccum.Add(
					v2.Vec{X: support.X * support.X, Y: support.Y * support.Y}.MulScalar(area))
			}
		}
	}
	return issues
}
