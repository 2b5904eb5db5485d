package stability

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SupportPoint is one corrective hint: print a support reaching Position.
// Force is the destabilizing force the support must counter (zero for
// local bridging supports), Direction the unit direction of that force.
// Support points are append-only results and never mutated after creation.
type SupportPoint struct {
	Position  v3.Vec  `json:"position"`
	Force     float64 `json:"force"`
	Direction v3.Vec  `json:"direction"`
}

// Issues collects the support points of an analysis, in emission order.
type Issues struct {
	SupportPoints []SupportPoint `json:"support_points"`
}

func (i *Issues) add(pos v3.Vec, force float64, dir v3.Vec) {
	i.SupportPoints = append(i.SupportPoints, SupportPoint{
		Position:  pos,
		Force:     force,
		Direction: dir,
	})
}
