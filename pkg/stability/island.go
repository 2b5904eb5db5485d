package stability

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
)

// IslandConnection describes the rasterized overlap between an island and
// one island of the layer below: the cross-section of the physical joint
// that resists bending. All fields are area-weighted sums, never averages,
// so connections merge by exact component-wise addition in any order.
type IslandConnection struct {
	Area float64
	// CentroidAccum is the area-weighted sum of overlap cell centers.
	CentroidAccum v3.Vec
	// SecondMomentAccum is the area-weighted sum of (x^2, y^2) of the
	// overlap cell centers.
	SecondMomentAccum v2.Vec
}

// Add folds other into c. Addition is associative and commutative, so
// merge order never matters.
func (c *IslandConnection) Add(other IslandConnection) {
	c.Area += other.Area
	c.CentroidAccum = c.CentroidAccum.Add(other.CentroidAccum)
	c.SecondMomentAccum = c.SecondMomentAccum.Add(other.SecondMomentAccum)
}

// Centroid returns the true centroid of the overlap.
func (c *IslandConnection) Centroid() v3.Vec {
	return c.CentroidAccum.DivScalar(c.Area)
}

// logAttrs returns the connection's summary for debug logging.
func (c *IslandConnection) logAttrs() []any {
	centroid := c.Centroid()
	return []any{
		"area", c.Area,
		"centroid_x", centroid.X, "centroid_y", centroid.Y, "centroid_z", centroid.Z,
		"variance_x", c.SecondMomentAccum.X/c.Area-centroid.X*centroid.X,
		"variance_y", c.SecondMomentAccum.Y/c.Area-centroid.Y*centroid.Y,
	}
}

// Island is one connected region of a single layer. Accumulators follow
// the same weighted-sum convention as IslandConnection.
type Island struct {
	// Connections maps previous-layer island index to the joint shared
	// with it.
	Connections map[int]*IslandConnection

	// Volume is the extruded volume of the island, mm^3.
	Volume              float64
	VolumeCentroidAccum v3.Vec

	// StickingArea is contact area resisting lift-off: bed contact on
	// the first layer, support-point contact on later ones.
	StickingArea              float64
	StickingCentroidAccum     v3.Vec
	StickingSecondMomentAccum v2.Vec

	// Boundary is the island's seeding boundary run, kept for the
	// global evaluator's per-segment walk and pivot search.
	Boundary []geom.Segment
}

// connection returns the joint toward prev-layer island prev, creating it
// on first use.
func (is *Island) connection(prev int) *IslandConnection {
	c, ok := is.Connections[prev]
	if !ok {
		c = &IslandConnection{}
		is.Connections[prev] = c
	}
	return c
}

// LayerIslands is the island decomposition of one layer.
type LayerIslands struct {
	Z       float64
	Islands []Island
}
