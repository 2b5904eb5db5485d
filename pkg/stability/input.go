package stability

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/buttress/pkg/geom"
)

// Path is one planned extrusion path of a layer: an ordered point
// sequence with a role tag and the minimum cross-section of material laid
// down per mm of travel. Paths come from the toolpath generation stage,
// which is outside this module.
type Path struct {
	ID     geom.PathID `json:"id"`
	Role   geom.Role   `json:"role"`
	Points []v2.Vec    `json:"points"`
	// Closed marks a loop; a closing segment from the last point back to
	// the first is appended during segmentation.
	Closed bool `json:"closed,omitempty"`
	// MinCrossSection is mm^2 of extruded material per mm of travel.
	MinCrossSection float64 `json:"min_cross_section"`
}

// Layer is the input for one z slice, paths in printing order.
type Layer struct {
	Z     float64 `json:"z"`
	Paths []Path  `json:"paths"`
}

// checkedByTracker reports whether the local stability tracker walks paths
// of this role. Walls are always walked; of the fills only bridges and gap
// fill are, the rest is rasterized for island overlap but printed over
// solid material by construction.
func checkedByTracker(r geom.Role) bool {
	switch r {
	case geom.RoleOuterWall, geom.RoleInnerWall, geom.RoleBridge, geom.RoleGapFill:
		return true
	}
	return false
}

// rawSegments converts a path to segments without subdivision, closing the
// loop when the path is marked Closed.
func rawSegments(p Path, out []geom.Segment) []geom.Segment {
	if len(p.Points) == 0 {
		return out
	}
	for i := 0; i+1 < len(p.Points); i++ {
		out = append(out, geom.NewSegment(p.Points[i], p.Points[i+1], p.ID, p.Role))
	}
	if p.Closed && len(p.Points) > 1 {
		out = append(out, geom.NewSegment(p.Points[len(p.Points)-1], p.Points[0], p.ID, p.Role))
	}
	return out
}
