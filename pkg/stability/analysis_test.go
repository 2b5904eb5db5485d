package stability

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/buttress/pkg/geom"
)

func squarePath(id geom.PathID, x0, y0, side float64) Path {
	return Path{
		ID:   id,
		Role: geom.RoleOuterWall,
		Points: []v2.Vec{
			{X: x0, Y: y0},
			{X: x0 + side, Y: y0},
			{X: x0 + side, Y: y0 + side},
			{X: x0, Y: y0 + side},
		},
		Closed:          true,
		MinCrossSection: 0.06,
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	issues, graph := Analyze(nil, DefaultParams())
	if len(issues.SupportPoints) != 0 || graph != nil {
		t.Errorf("empty input should analyze to nothing, got %d points, %d layers",
			len(issues.SupportPoints), len(graph))
	}
}

// A straight vertical wall is the best case the printer ever sees: every
// segment rests on its twin below, the part is glued to the bed. It must
// need no supports under the default parameters.
func TestAnalyze_VerticalWallNeedsNoSupports(t *testing.T) {
	var layers []Layer
	for i := 0; i < 10; i++ {
		layers = append(layers, Layer{
			Z:     0.2 * float64(i+1),
			Paths: []Path{squarePath(1, 0, 0, 20)},
		})
	}

	issues, graph := Analyze(layers, DefaultParams())
	if len(issues.SupportPoints) != 0 {
		t.Errorf("vertical wall produced %d support points, want 0", len(issues.SupportPoints))
	}
	if len(graph) != len(layers) {
		t.Errorf("graph has %d layers, want %d", len(graph), len(layers))
	}
	for i, li := range graph {
		if len(li.Islands) != 1 {
			t.Errorf("layer %d has %d islands, want 1", i, len(li.Islands))
		}
	}
}

// Bed adhesion decides first-layer stability: the same square footprint is
// unstable against the extruder when the contact area is starved and stable
// when it is generous. The parameters below put the yield torque roughly a
// factor of four on either side of the 200 conflict torque.
func TestAnalyze_BedAdhesionMargins(t *testing.T) {
	layers := []Layer{{Z: 0.2, Paths: []Path{squarePath(1, 0, 0, 20)}}}

	params := DefaultParams()
	params.MaxAcceleration = 0
	params.MalformationConflictForce = 0
	params.ExtruderConflictForce = 20
	params.BedAdhesionYieldStrength = 3.0

	params.FlowWidth = 0.04
	issues, _ := Analyze(layers, params)
	if len(issues.SupportPoints) == 0 {
		t.Error("starved bed contact should emit global supports, got none")
	}
	for _, sp := range issues.SupportPoints {
		if sp.Force <= 0 {
			t.Errorf("global support point must carry positive force, got %f", sp.Force)
		}
	}

	params.FlowWidth = 0.4
	issues, _ = Analyze(layers, params)
	if len(issues.SupportPoints) != 0 {
		t.Errorf("generous bed contact emitted %d supports, want 0", len(issues.SupportPoints))
	}
}

// A detached island appearing in mid air must be supported right where it
// starts printing.
func TestAnalyze_FloatingIslandGetsSupported(t *testing.T) {
	layers := []Layer{
		{Z: 0.2, Paths: []Path{squarePath(1, 0, 0, 10)}},
		{Z: 0.4, Paths: []Path{
			squarePath(1, 0, 0, 10),
			squarePath(2, 40, 40, 10),
		}},
	}

	issues, graph := Analyze(layers, DefaultParams())
	if len(graph[1].Islands) != 2 {
		t.Fatalf("second layer should split into 2 islands, got %d", len(graph[1].Islands))
	}
	var near bool
	for _, sp := range issues.SupportPoints {
		if sp.Position.X >= 35 && sp.Position.Y >= 35 {
			near = true
		}
	}
	if !near {
		t.Error("no support point emitted near the floating island")
	}
}

func TestAnalyze_SupportSpacingDeduplicates(t *testing.T) {
	layers := []Layer{{Z: 0.2, Paths: []Path{squarePath(1, 0, 0, 20)}}}

	params := DefaultParams()
	params.MaxAcceleration = 0
	params.MalformationConflictForce = 0
	params.ExtruderConflictForce = 20
	params.BedAdhesionYieldStrength = 3.0
	params.FlowWidth = 0.04

	params.MinSupportSpacing = 3.0
	issues, _ := Analyze(layers, params)
	dense := len(issues.SupportPoints)

	params.MinSupportSpacing = 15.0
	issues, _ = Analyze(layers, params)
	sparse := len(issues.SupportPoints)

	if dense == 0 || sparse == 0 {
		t.Fatalf("expected supports at both spacings, got %d and %d", dense, sparse)
	}
	if sparse > dense {
		t.Errorf("wider spacing emitted more supports (%d) than narrow (%d)", sparse, dense)
	}
}
