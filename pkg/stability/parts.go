package stability

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
)

// epsilon guards near-zero areas and extreme-fiber distances in the torque
// model. Degenerate joints evaluate as stable instead of propagating
// NaN/Inf into the balance.
const epsilon = 1e-4

// ObjectPart is one rigid, already printed connected volume, grown by
// folding in the islands that extend it layer after layer. Accumulators
// follow the weighted-sum convention, so parts merge by addition.
type ObjectPart struct {
	Volume              float64
	VolumeCentroidAccum v3.Vec

	StickingArea              float64
	StickingCentroidAccum     v3.Vec
	StickingSecondMomentAccum v2.Vec
}

func newObjectPart(island *Island) *ObjectPart {
	return &ObjectPart{
		Volume:                    island.Volume,
		VolumeCentroidAccum:       island.VolumeCentroidAccum,
		StickingArea:              island.StickingArea,
		StickingCentroidAccum:     island.StickingCentroidAccum,
		StickingSecondMomentAccum: island.StickingSecondMomentAccum,
	}
}

// Add folds other into p. Merging parts models permanent physical fusion
// and is never undone.
func (p *ObjectPart) Add(other *ObjectPart) {
	p.Volume += other.Volume
	p.VolumeCentroidAccum = p.VolumeCentroidAccum.Add(other.VolumeCentroidAccum)
	p.StickingArea += other.StickingArea
	p.StickingCentroidAccum = p.StickingCentroidAccum.Add(other.StickingCentroidAccum)
	p.StickingSecondMomentAccum = p.StickingSecondMomentAccum.Add(other.StickingSecondMomentAccum)
}

// AddSupportPoint stiffens the part's sticking statistics with the contact
// patch of a newly emitted support point.
func (p *ObjectPart) AddSupportPoint(pos v3.Vec, area float64) {
	p.StickingArea += area
	p.StickingCentroidAccum = p.StickingCentroidAccum.Add(pos.MulScalar(area))
	p.StickingSecondMomentAccum = p.StickingSecondMomentAccum.Add(
		v2.Vec{X: pos.X * pos.X, Y: pos.Y * pos.Y}.MulScalar(area))
}

// elasticSectionModulus approximates the bending resistance of a joint
// cross-section from its accumulators, projected onto the extrusion
// direction: area times combined variance over the extreme fiber distance.
// ok is false for degenerate or non-finite sections.
func elasticSectionModulus(centroidAccum v3.Vec, secondMomentAccum v2.Vec,
	area float64, lineDir v2.Vec) (float64, bool) {

	centroid := centroidAccum.DivScalar(area)
	variance := v2.Vec{
		X: secondMomentAccum.X/area - centroid.X*centroid.X,
		Y: secondMomentAccum.Y/area - centroid.Y*centroid.Y,
	}
	variance = v2.Vec{
		X: variance.X * math.Abs(lineDir.X),
		Y: variance.Y * math.Abs(lineDir.Y),
	}
	if !isFinite(variance.X) || !isFinite(variance.Y) {
		return 0, false
	}
	extremeFiber := math.Hypot(math.Sqrt(math.Max(variance.X, 0)), math.Sqrt(math.Max(variance.Y, 0)))
	if extremeFiber < epsilon {
		return 0, false
	}
	return area * (variance.X + variance.Y) / extremeFiber, true
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// distanceToLine3 returns the distance from point to the infinite line
// through origin with unit direction dir.
func distanceToLine3(origin, dir, point v3.Vec) float64 {
	d := point.Sub(origin)
	// |d x dir| for unit dir.
	cx := d.Y*dir.Z - d.Z*dir.Y
	cy := d.Z*dir.X - d.X*dir.Z
	cz := d.X*dir.Y - d.Y*dir.X
	return math.Sqrt(cx*cx + cy*cy + cz*cz)
}

// StableWhileExtruding evaluates two torque balances for printing the
// given segment on this part: one pivoting on the part's bed contact, one
// on its weakest inter-layer connection. Each balance sums gravitational,
// inertial and extruder-conflict torques against the joint's yield torque.
// A positive return is the destabilizing severity (net torque over the
// conflict lever arm); zero or negative means stable.
func (p *ObjectPart) StableWhileExtruding(conn *IslandConnection,
	line geom.Segment, layerZ float64, params Params) float64 {

	lineDir := line.Dir()

	mass := p.Volume * params.FilamentDensity
	weight := mass * params.Gravity
	massCentroid := p.VolumeCentroidAccum.DivScalar(p.Volume)
	movementForce := params.MaxAcceleration * mass

	// The extruder drags along the segment direction, biased downward
	// where malformed material curls up into the nozzle's way.
	pressureDir := v3.Vec{X: lineDir.X, Y: lineDir.Y, Z: -line.Malformation * 0.5}
	if l := pressureDir.Length(); l > 0 {
		pressureDir = pressureDir.DivScalar(l)
	}
	endpoint := v3.Vec{X: line.B.X, Y: line.B.Y, Z: layerZ}
	conflictForce := params.ExtruderConflictForce +
		math.Min(line.Malformation, 1.0)*params.MalformationConflictForce

	// Bed balance.
	if p.StickingArea > epsilon {
		bedCentroid := p.StickingCentroidAccum.DivScalar(p.StickingArea)
		modulus, ok := elasticSectionModulus(p.StickingCentroidAccum,
			p.StickingSecondMomentAccum, p.StickingArea, lineDir)
		if !ok {
			return 0
		}
		yieldTorque := modulus * params.BedAdhesionYieldStrength

		weightArm := v2.Vec{X: bedCentroid.X - massCentroid.X, Y: bedCentroid.Y - massCentroid.Y}.Length()
		weightTorque := weightArm * weight

		movementArm := math.Max(0, massCentroid.Z-bedCentroid.Z)
		movementTorque := movementForce * movementArm

		conflictArm := distanceToLine3(endpoint, pressureDir, bedCentroid)
		conflictTorque := conflictForce * conflictArm

		total := movementTorque + conflictTorque + weightTorque - yieldTorque
		logger().Debug("bed torque balance",
			"layer_z", layerZ,
			"yield_torque", yieldTorque,
			"weight_arm", weightArm, "weight_torque", weightTorque,
			"movement_arm", movementArm, "movement_torque", movementTorque,
			"conflict_arm", conflictArm, "conflict_torque", conflictTorque,
			"total_torque", total)

		if total > 0 && conflictArm > epsilon {
			return total / conflictArm
		}
	}

	// Weakest-connection balance.
	if conn == nil || conn.Area < epsilon {
		return 0
	}
	connCentroid := conn.Centroid()
	modulus, ok := elasticSectionModulus(conn.CentroidAccum,
		conn.SecondMomentAccum, conn.Area, lineDir)
	if !ok {
		return 0
	}
	yieldTorque := modulus * params.MaterialYieldStrength

	weightArm := v2.Vec{X: connCentroid.X - massCentroid.X, Y: connCentroid.Y - massCentroid.Y}.Length()
	// Only the mass above the joint loads it; scale by its height share.
	weightTorque := weightArm * weight * (connCentroid.Z / layerZ)

	movementArm := math.Max(0, massCentroid.Z-connCentroid.Z)
	movementTorque := movementForce * movementArm

	conflictArm := distanceToLine3(endpoint, pressureDir, connCentroid)
	conflictTorque := conflictForce * conflictArm

	total := movementTorque + conflictTorque + weightTorque - yieldTorque
	logger().Debug("connection torque balance",
		"layer_z", layerZ,
		"yield_torque", yieldTorque,
		"weight_arm", weightArm, "weight_torque", weightTorque,
		"movement_arm", movementArm, "movement_torque", movementTorque,
		"conflict_arm", conflictArm, "conflict_torque", conflictTorque,
		"total_torque", total)

	if conflictArm < epsilon {
		return 0
	}
	return total / conflictArm
}

// PartTracker is a weighted union-find over object parts keyed by the ids
// handed out by Insert. Merges model permanent fusion and are never
// undone; Find compresses paths iteratively so adversarial merge chains
// cannot grow the walk unboundedly.
type PartTracker struct {
	nextID int
	parts  map[int]*ObjectPart
	parent map[int]int
}

// NewPartTracker returns an empty tracker.
func NewPartTracker() *PartTracker {
	return &PartTracker{
		parts:  make(map[int]*ObjectPart),
		parent: make(map[int]int),
	}
}

// Insert creates a new part seeded from the island's statistics and
// returns its id.
func (t *PartTracker) Insert(island *Island) int {
	id := t.nextID
	t.nextID++
	t.parts[id] = newObjectPart(island)
	t.parent[id] = id
	return id
}

// Find returns the canonical live id for id, compressing the path it
// walked. Find is idempotent: Find(Find(x)) == Find(x).
func (t *PartTracker) Find(id int) int {
	root := t.parent[id]
	for root != t.parent[root] {
		root = t.parent[root]
	}
	for i := id; t.parent[i] != root; {
		next := t.parent[i]
		t.parent[i] = root
		i = next
	}
	return root
}

// Access returns the live part for id.
func (t *PartTracker) Access(id int) *ObjectPart {
	return t.parts[t.Find(id)]
}

// Merge folds part from into part to. The from id keeps resolving to the
// surviving part forever after.
func (t *PartTracker) Merge(from, to int) {
	fromRoot := t.Find(from)
	toRoot := t.Find(to)
	if fromRoot == toRoot {
		return
	}
	t.parts[toRoot].Add(t.parts[fromRoot])
	delete(t.parts, fromRoot)
	t.parent[fromRoot] = toRoot
}
