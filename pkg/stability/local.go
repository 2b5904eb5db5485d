package stability

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
)

// pathAccumulator tracks properties of the extrusion path since its last
// reset: accumulated distance and signed turning, plus the maximum
// absolute turning reached. Used for both bridging detection (distance
// printed into air) and malformation accrual (curving into air).
type pathAccumulator struct {
	distance     float64
	curvature    float64
	maxCurvature float64
}

func (a *pathAccumulator) addDistance(d float64) {
	a.distance += d
}

func (a *pathAccumulator) addAngle(ccw float64) {
	a.curvature += ccw
	a.maxCurvature = math.Max(a.maxCurvature, math.Abs(a.curvature))
}

func (a *pathAccumulator) reset() {
	a.distance = 0
	a.curvature = 0
	a.maxCurvature = 0
}

// subdividePath segments a path into directed lines no longer than maxLen,
// preceded by a zero-length seed line at the start point so that the very
// first endpoint is also distance-checked. Closed paths get a closing edge.
func subdividePath(p Path, maxLen float64) []geom.Segment {
	if len(p.Points) == 0 {
		return nil
	}
	lines := make([]geom.Segment, 0, len(p.Points)*3/2)
	lines = append(lines, geom.NewSegment(p.Points[0], p.Points[0], p.ID, p.Role))
	edge := func(start, next int) {
		a := p.Points[start]
		b := p.Points[next]
		v := b.Sub(a)
		dist := v.Length()
		if dist == 0 {
			return
		}
		n := int(math.Ceil(dist / maxLen))
		step := dist / float64(n)
		dir := v.DivScalar(dist)
		for i := 0; i < n; i++ {
			sa := a.Add(dir.MulScalar(float64(i) * step))
			sb := a.Add(dir.MulScalar(float64(i+1) * step))
			lines = append(lines, geom.NewSegment(sa, sb, p.ID, p.Role))
		}
	}
	for i := 0; i+1 < len(p.Points); i++ {
		edge(i, i+1)
	}
	if p.Closed && len(p.Points) > 1 {
		edge(len(p.Points)-1, 0)
	}
	return lines
}

// checkPathStability walks one path's segments in printing order against
// the previous layer's segment index. It emits a local support point
// whenever the unsupported run exceeds the curvature-tightened bridging
// threshold, and annotates every segment with the malformation it inherits
// and accrues. The annotated segments are returned for island building and
// for the next layer's index.
func checkPathStability(p Path, layerZ float64, prev *geom.SegmentIndex,
	params Params, issues *Issues) []geom.Segment {

	lines := subdividePath(p, params.BridgeDistance)

	var bridging, malformation pathAccumulator
	// Seed the unsupported distance past the threshold so that path
	// starts and short loops extruded into air are supported right away.
	bridging.addDistance(params.BridgeDistance + 1.0)

	flowWidth := params.FlowWidth

	for i := range lines {
		line := &lines[i]
		angle := 0.0
		if i+1 < len(lines) {
			angle = geom.Angle(line.B.Sub(line.A), lines[i+1].B.Sub(lines[i+1].A))
		}
		bridging.addAngle(angle)
		malformation.addAngle(math.Max(0, angle))

		dist, nearest, _ := prev.SignedDistance(line.B)

		if math.Abs(dist) < flowWidth {
			bridging.reset()
		} else {
			bridging.addDistance(line.Len)
			threshold := params.BridgeDistance /
				(1.0 + bridging.maxCurvature*params.BridgeCurvatureDecay/math.Pi)
			if bridging.distance >= threshold {
				issues.add(v3.Vec{X: line.B.X, Y: line.B.Y, Z: layerZ}, 0,
					v3.Vec{Z: -1})
				line.SupportGenerated = true
				bridging.reset()
			}
		}

		// Defects compound upward: a segment printed close over a
		// malformed one inherits most of its severity.
		if math.Abs(dist) < flowWidth*2.0 {
			line.Malformation += 0.9 * prev.Segment(nearest).Malformation
		}
		if dist > flowWidth*0.3 {
			malformation.addDistance(line.Len)
			line.Malformation += 0.15 *
				(0.8 + 0.2*malformation.maxCurvature/(1.0+0.5*malformation.distance))
		} else {
			malformation.reset()
		}
	}
	return lines
}
