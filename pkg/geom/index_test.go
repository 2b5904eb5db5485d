package geom

import (
	"math"
	"math/rand"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ccwSquare returns the four boundary segments of a counterclockwise
// square with the given half-size, centered at the origin. Interior lies
// on the left of every segment.
func ccwSquare(h float64) []Segment {
	corners := []v2.Vec{
		{X: -h, Y: -h},
		{X: h, Y: -h},
		{X: h, Y: h},
		{X: -h, Y: h},
	}
	segs := make([]Segment, 0, 4)
	for i := range corners {
		segs = append(segs, NewSegment(corners[i], corners[(i+1)%4], 0, RoleOuterWall))
	}
	return segs
}

func TestSegmentIndex_Empty(t *testing.T) {
	ix := NewSegmentIndex(nil)
	d, idx, _ := ix.SignedDistance(v2.Vec{X: 1, Y: 2})
	if !math.IsInf(d, 1) {
		t.Errorf("empty index: expected +Inf, got %f", d)
	}
	if idx != -1 {
		t.Errorf("empty index: expected segment -1, got %d", idx)
	}
}

func TestSegmentIndex_SignConvention(t *testing.T) {
	ix := NewSegmentIndex(ccwSquare(10))

	// Strictly interior: negative, magnitude is distance to the
	// nearest side.
	d, _, _ := ix.SignedDistance(v2.Vec{X: 3, Y: 0})
	if d >= 0 {
		t.Errorf("interior point: expected negative distance, got %f", d)
	}
	if !almostEqual(math.Abs(d), 7) {
		t.Errorf("interior point: expected magnitude 7, got %f", math.Abs(d))
	}

	// Strictly exterior: positive.
	d, _, _ = ix.SignedDistance(v2.Vec{X: 15, Y: 0})
	if d <= 0 {
		t.Errorf("exterior point: expected positive distance, got %f", d)
	}
	if !almostEqual(d, 5) {
		t.Errorf("exterior point: expected magnitude 5, got %f", d)
	}

	// Exterior beyond a corner: Euclidean distance to the corner.
	d, _, _ = ix.SignedDistance(v2.Vec{X: 13, Y: 14})
	if !almostEqual(d, 5) {
		t.Errorf("corner point: expected 5, got %f", d)
	}
}

func TestSegmentIndex_NearestPoint(t *testing.T) {
	ix := NewSegmentIndex(ccwSquare(10))
	_, _, pt := ix.SignedDistance(v2.Vec{X: 15, Y: 3})
	if !almostEqual(pt.X, 10) || !almostEqual(pt.Y, 3) {
		t.Errorf("expected nearest point (10,3), got (%f,%f)", pt.X, pt.Y)
	}
}

// TestSegmentIndex_MatchesBruteForce cross-checks the R-tree query
// against a linear scan on randomized segment soups. The tree ranks by
// bounding box and must still return the exact Euclidean nearest.
func TestSegmentIndex_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		segs := make([]Segment, 0, 200)
		for i := 0; i < 200; i++ {
			a := v2.Vec{X: rng.Float64() * 100, Y: rng.Float64() * 100}
			b := a.Add(v2.Vec{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10})
			segs = append(segs, NewSegment(a, b, PathID(i), RoleInfill))
		}
		ix := NewSegmentIndex(segs)

		for q := 0; q < 50; q++ {
			p := v2.Vec{X: rng.Float64()*120 - 10, Y: rng.Float64()*120 - 10}
			got, _, _ := ix.SignedDistance(p)

			want := math.Inf(1)
			for _, s := range segs {
				d := ClosestPointOnSegment(p, s.A, s.B).Sub(p).Length()
				want = math.Min(want, d)
			}
			if !almostEqual(math.Abs(got), want) {
				t.Fatalf("trial %d query %d: index distance %f, brute force %f",
					trial, q, math.Abs(got), want)
			}
		}
	}
}
