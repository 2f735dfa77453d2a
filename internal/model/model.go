// Package model defines the core value types shared across the contour
// reconstruction pipeline: points, input primitives, contours, segments,
// loops, shapes and the document they assemble into.
package model

import "math"

// Point is a 2D coordinate. Callers at the system boundary (dxfimport,
// normalize) are responsible for rejecting NaN/Inf before a Point enters
// the pipeline; once inside, a Point is trusted to be finite.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite reals.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PrimitiveKind tags the variant held by a Primitive.
type PrimitiveKind int

const (
	KindLine PrimitiveKind = iota
	KindArc
	KindCircle
	KindPolyline
	KindSpline
)

// PolylineVertex is one vertex of a Polyline primitive, with an optional
// bulge encoding a circular arc to the next vertex (DXF bulge convention:
// central angle = 4*atan(bulge)).
type PolylineVertex struct {
	P     Point
	Bulge float64
}

// Primitive is a tagged union of the raw geometric primitives a DXF-style
// tokenizer produces. Exactly one field set is meaningful per Kind; this
// mirrors the tokenizer's untagged objects with optional fields, made
// explicit per spec design note (design notes, "Dynamic vertex structures").
type Primitive struct {
	Kind PrimitiveKind

	// KindLine
	LineA, LineB Point

	// KindArc, KindCircle
	Center           Point
	Radius           float64
	StartDeg, EndDeg float64 // KindArc only

	// KindPolyline
	Vertices   []PolylineVertex
	ClosedFlag bool

	// KindSpline
	ControlPoints []Point
	FitPoints     []Point
	// ClosedFlag is shared with KindPolyline.
}

// Contour is an ordered point sequence produced by the normalizer. If
// Closed, the path implicitly returns from the last point to the first;
// the closing point is never duplicated in Points.
type Contour struct {
	Points []Point
	Closed bool
}

// Len returns the number of points in the contour.
func (c Contour) Len() int { return len(c.Points) }

// Segment is a straight edge between two points, derived from an open
// contour for loop extraction. Segments with endpoints closer than 1e-9
// are not constructed by the cleaner/extractor.
type Segment struct {
	A, B Point
}

// Loop is a closed, simple-ish polygon discovered by the loop extractor
// and owned thereafter by an index-keyed arena (hierarchy.Resolve). It
// is never referenced by pointer across package boundaries; only by its
// index into the owning slice.
type Loop struct {
	// OpenPts is the loop's vertex sequence without the repeated closing
	// point.
	OpenPts []Point

	// Parent is the index of the smallest enclosing loop, or -1 for a
	// root loop. Depth is Parent's depth + 1 (0 for roots).
	Parent int
	Depth  int

	// Skip marks a loop that the pseudo-hole normalizer has flattened;
	// it is excluded from shape assembly but its children still
	// participate (re-parented to Parent).
	Skip bool
}

// ClosedPts returns OpenPts with the first point appended to close the
// path, as spec §3 requires (closedPts = openPts + openPts[0]).
func (l Loop) ClosedPts() []Point {
	if len(l.OpenPts) == 0 {
		return nil
	}
	out := make([]Point, len(l.OpenPts)+1)
	copy(out, l.OpenPts)
	out[len(out)-1] = l.OpenPts[0]
	return out
}

// Shape is a terminal output region: a CCW outer loop with zero or more
// CW hole loops strictly inside it.
type Shape struct {
	Outer []Point
	Holes [][]Point
}

// Document is the ephemeral per-import result: the width and height of
// the normalized, coordinate-shifted contour set plus the shapes
// assembled from it. The contours themselves are not kept.
type Document struct {
	ID     string
	Width  float64
	Height float64
	Shapes []Shape

	// PrimarySelectionLoop is the largest-area shape outline, or the
	// convex hull outline when no shape was produced (spec §6).
	PrimarySelectionLoop []Point
}

// BoundingBox returns the min and max corners of a point sequence. The
// zero value is returned for an empty sequence.
func BoundingBox(pts []Point) (min, max Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts every point of pts by (dx, dy).
func Translate(pts []Point, dx, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}
