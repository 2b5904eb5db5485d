// Package geom defines the 2D toolpath primitives the stability analysis
// operates on: directed extrusion segments tagged with an opaque path
// identity and role, plus a spatial index answering signed nearest-distance
// queries against a layer's segments.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// PathID is an opaque identifier of the extrusion path a segment belongs
// to. Segments with equal PathID were printed as one continuous extrusion.
type PathID int

// NoPath marks a segment without an owning path.
const NoPath PathID = -1

// Role describes what an extrusion path is printing.
type Role int

const (
	// RoleOuterWall is an outermost perimeter. Outer walls delimit
	// independent regions and seed island candidates.
	RoleOuterWall Role = iota
	// RoleInnerWall is an internal perimeter.
	RoleInnerWall
	// RoleInfill is sparse internal infill.
	RoleInfill
	// RoleSolidInfill is dense top/bottom or solid infill.
	RoleSolidInfill
	// RoleBridge is infill extruded over air.
	RoleBridge
	// RoleGapFill fills thin gaps between walls.
	RoleGapFill
)

// String returns a short name for the role.
func (r Role) String() string {
	switch r {
	case RoleOuterWall:
		return "outer-wall"
	case RoleInnerWall:
		return "inner-wall"
	case RoleInfill:
		return "infill"
	case RoleSolidInfill:
		return "solid-infill"
	case RoleBridge:
		return "bridge"
	case RoleGapFill:
		return "gap-fill"
	}
	return "unknown"
}

// Segment is one directed piece of an extrusion path within a single layer.
// Malformation and SupportGenerated are annotated by the local stability
// tracker and read back by the island builder and the global evaluator.
type Segment struct {
	A, B v2.Vec
	Len  float64
	Path PathID
	Role Role

	// Malformation accumulates defect severity from unsupported
	// extrusion. It is inherited, damped, from the nearest segment of
	// the layer below.
	Malformation float64
	// SupportGenerated is set when the local tracker emitted a support
	// point at this segment's endpoint.
	SupportGenerated bool
}

// NewSegment returns a segment from a to b owned by the given path.
func NewSegment(a, b v2.Vec, path PathID, role Role) Segment {
	return Segment{A: a, B: b, Len: b.Sub(a).Length(), Path: path, Role: role}
}

// Dir returns the normalized direction of the segment, or the zero vector
// for degenerate segments.
func (s Segment) Dir() v2.Vec {
	if s.Len == 0 {
		return v2.Vec{}
	}
	return s.B.Sub(s.A).DivScalar(s.Len)
}

// Cross2 returns the z component of the cross product a x b.
func Cross2(a, b v2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Angle returns the signed counterclockwise angle between two direction
// vectors, in (-pi, pi].
func Angle(a, b v2.Vec) float64 {
	return math.Atan2(Cross2(a, b), a.Dot(b))
}

// ClosestPointOnSegment returns the point of segment ab nearest to p.
func ClosestPointOnSegment(p, a, b v2.Vec) v2.Vec {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.MulScalar(t))
}
