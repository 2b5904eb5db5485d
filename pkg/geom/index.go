package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/dhconnelly/rtreego"
)

// rectEpsilon pads degenerate bounding boxes; rtreego rejects zero-size
// rectangle extents.
const rectEpsilon = 1e-9

// segEntry wraps a segment index for storage in the R-tree.
type segEntry struct {
	rect rtreego.Rect
	idx  int
}

func (e *segEntry) Bounds() rtreego.Rect { return e.rect }

// SegmentIndex is a bounding-box spatial index over one layer's segments.
// It answers signed nearest-distance queries: distance magnitude is the
// Euclidean distance to the closest segment, the sign is negative when the
// query point lies on the interior (left) side of that segment's direction.
// Against a consistently oriented boundary chain this doubles as an
// O(log n) point-in-region test.
type SegmentIndex struct {
	segs []Segment
	tree *rtreego.Rtree
}

// NewSegmentIndex builds an index over a copy of the given segments.
func NewSegmentIndex(segs []Segment) *SegmentIndex {
	ix := &SegmentIndex{
		segs: append([]Segment(nil), segs...),
		tree: rtreego.NewTree(2, 25, 50),
	}
	for i, s := range ix.segs {
		ix.tree.Insert(&segEntry{rect: segmentRect(s, 0), idx: i})
	}
	return ix
}

// Len returns the number of indexed segments.
func (ix *SegmentIndex) Len() int { return len(ix.segs) }

// Segment returns the indexed segment at position i.
func (ix *SegmentIndex) Segment(i int) Segment { return ix.segs[i] }

// Segments returns the indexed segments. The returned slice is owned by
// the index and must not be modified.
func (ix *SegmentIndex) Segments() []Segment { return ix.segs }

// SignedDistance returns the signed distance from p to the nearest indexed
// segment, the index of that segment, and the nearest point on it.
// An empty index returns (+Inf, -1, zero).
func (ix *SegmentIndex) SignedDistance(p v2.Vec) (float64, int, v2.Vec) {
	if len(ix.segs) == 0 {
		return math.Inf(1), -1, v2.Vec{}
	}

	// The R-tree ranks by bounding-box distance, which can misorder
	// nearby slanted segments. Take its candidate for an upper bound,
	// then refine exactly over everything within that radius.
	q := rtreego.Point{p.X, p.Y}
	cand := ix.tree.NearestNeighbor(q).(*segEntry)
	best := cand.idx
	bestPt := ClosestPointOnSegment(p, ix.segs[best].A, ix.segs[best].B)
	bestDist := bestPt.Sub(p).Length()

	if bestDist > 0 {
		query, err := rtreego.NewRect(
			rtreego.Point{p.X - bestDist, p.Y - bestDist},
			[]float64{2 * bestDist, 2 * bestDist})
		if err == nil {
			for _, sp := range ix.tree.SearchIntersect(query) {
				e := sp.(*segEntry)
				pt := ClosestPointOnSegment(p, ix.segs[e.idx].A, ix.segs[e.idx].B)
				if d := pt.Sub(p).Length(); d < bestDist {
					best, bestPt, bestDist = e.idx, pt, d
				}
			}
		}
	}

	seg := ix.segs[best]
	dist := bestDist
	if Cross2(seg.B.Sub(seg.A), p.Sub(seg.A)) > 0 {
		dist = -dist
	}
	return dist, best, bestPt
}

// segmentRect returns the bounding rectangle of a segment, grown by pad on
// every side.
func segmentRect(s Segment, pad float64) rtreego.Rect {
	minX := math.Min(s.A.X, s.B.X) - pad
	minY := math.Min(s.A.Y, s.B.Y) - pad
	dx := math.Abs(s.A.X-s.B.X) + 2*pad
	dy := math.Abs(s.A.Y-s.B.Y) + 2*pad
	if dx < rectEpsilon {
		dx = rectEpsilon
	}
	if dy < rectEpsilon {
		dy = rectEpsilon
	}
	r, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{dx, dy})
	if err != nil {
		// Extents are clamped positive above; this cannot happen.
		panic(err)
	}
	return r
}
