package stability

import (
	"strings"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/buttress/pkg/geom"
)

func objLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestWriteSupportsOBJ(t *testing.T) {
	issues := Issues{SupportPoints: []SupportPoint{
		{Position: v3.Vec{X: 1, Y: 2, Z: 3}, Force: 10, Direction: v3.Vec{Z: -1}},
		{Position: v3.Vec{X: 4, Y: 5, Z: 6}},
	}}

	var sb strings.Builder
	if err := WriteSupportsOBJ(&sb, issues); err != nil {
		t.Fatal(err)
	}
	lines := objLines(sb.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 vertex lines, got %d", len(lines))
	}
	want := "v 1.000000 2.000000 3.000000  1.000000 0.000000 1.000000"
	if lines[0] != want {
		t.Errorf("line %q, want %q", lines[0], want)
	}
}

func TestWriteSegmentationOBJ(t *testing.T) {
	graph := []LayerIslands{{
		Z: 0.2,
		Islands: []Island{
			{Boundary: []geom.Segment{
				geom.NewSegment(v2.Vec{}, v2.Vec{X: 1}, 0, geom.RoleOuterWall),
				geom.NewSegment(v2.Vec{X: 1}, v2.Vec{X: 1, Y: 1}, 0, geom.RoleOuterWall),
			}},
			{Boundary: []geom.Segment{
				geom.NewSegment(v2.Vec{X: 5}, v2.Vec{X: 6}, 1, geom.RoleOuterWall),
			}},
		},
	}}

	var sb strings.Builder
	if err := WriteSegmentationOBJ(&sb, graph); err != nil {
		t.Fatal(err)
	}
	lines := objLines(sb.String())
	if len(lines) != 3 {
		t.Fatalf("expected 3 vertex lines, got %d", len(lines))
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "v ") {
			t.Errorf("line %d is not a vertex line: %q", i, l)
		}
	}
	// Islands must not share a color within a layer.
	c0 := strings.Join(strings.Fields(lines[0])[4:], " ")
	c2 := strings.Join(strings.Fields(lines[2])[4:], " ")
	if c0 == c2 {
		t.Errorf("island 0 and island 1 share color %q", c0)
	}
}

func TestWriteMalformationsOBJ(t *testing.T) {
	clean := geom.NewSegment(v2.Vec{}, v2.Vec{X: 1}, 0, geom.RoleOuterWall)
	mild := geom.NewSegment(v2.Vec{X: 1}, v2.Vec{X: 2}, 0, geom.RoleOuterWall)
	mild.Malformation = 0.5
	severe := geom.NewSegment(v2.Vec{X: 2}, v2.Vec{X: 3}, 0, geom.RoleOuterWall)
	severe.Malformation = 4.0

	graph := []LayerIslands{{
		Z:       0.2,
		Islands: []Island{{Boundary: []geom.Segment{clean, mild, severe}}},
	}}

	var sb strings.Builder
	if err := WriteMalformationsOBJ(&sb, graph); err != nil {
		t.Fatal(err)
	}
	lines := objLines(sb.String())
	if len(lines) != 2 {
		t.Fatalf("clean segments must be skipped, want 2 lines, got %d", len(lines))
	}
	if f := strings.Fields(lines[0]); f[4] != "0.500000" || f[5] != "0.500000" {
		t.Errorf("mild segment colored %v, want half green half red", f[4:])
	}
	if f := strings.Fields(lines[1]); f[4] != "1.000000" || f[5] != "0.000000" {
		t.Errorf("severe segment must clamp to full red, got %v", f[4:])
	}
}
