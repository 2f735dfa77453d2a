// Package geomutil collects the small geometric primitives shared by
// every stage of the pipeline: signed area, bounding boxes, point-in-
// polygon, and convex hull. The shoelace helper is grounded on the
// teacher's internal/importer/dxf.go (outlineArea); the convex hull is
// grounded on the monotone-chain implementation in
// other_examples/...MeKo-Christian-pogo__internal-utils-polygon.go.go.
package geomutil

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/model"
)

// SignedArea computes the signed polygon area of a closed point
// sequence (points NOT including a repeated closing point) via the
// shoelace formula. Positive is CCW, negative CW.
func SignedArea(pts []model.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// Area is the absolute value of SignedArea.
func Area(pts []model.Point) float64 {
	return math.Abs(SignedArea(pts))
}

// BBoxArea returns the area of the axis-aligned bounding box of pts.
func BBoxArea(pts []model.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	min, max := model.BoundingBox(pts)
	return (max.X - min.X) * (max.Y - min.Y)
}

// PointInPolygon reports whether p lies strictly inside the closed
// polygon pts (ray casting; a point exactly on an edge returns false,
// per spec §4.5's "point-in-polygon with on-edge returning false").
func PointInPolygon(p model.Point, pts []model.Point) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	if onAnyEdge(p, pts) {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func onAnyEdge(p model.Point, pts []model.Point) bool {
	n := len(pts)
	const eps = 1e-9
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		if onSegment(p, a, b, eps) {
			return true
		}
	}
	return false
}

func onSegment(p, a, b model.Point, eps float64) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	segLen := a.Dist(b)
	if segLen < 1e-12 {
		return p.Dist(a) < eps
	}
	if math.Abs(cross)/segLen > eps {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	if dot < -eps {
		return false
	}
	if dot > segLen*segLen+eps {
		return false
	}
	return true
}

// BBoxContains reports whether the bounding box of outer contains the
// bounding box of inner.
func BBoxContains(outer, inner []model.Point) bool {
	if len(outer) == 0 || len(inner) == 0 {
		return false
	}
	omin, omax := model.BoundingBox(outer)
	imin, imax := model.BoundingBox(inner)
	return omin.X <= imin.X && omin.Y <= imin.Y && omax.X >= imax.X && omax.Y >= imax.Y
}

// BBoxOverlapFraction returns the overlap area between the bounding
// boxes of a and b as a fraction of b's bounding box area (0 if b's
// bbox has zero area).
func BBoxOverlapFraction(a, b []model.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	amin, amax := model.BoundingBox(a)
	bmin, bmax := model.BoundingBox(b)
	ix := math.Min(amax.X, bmax.X) - math.Max(amin.X, bmin.X)
	iy := math.Min(amax.Y, bmax.Y) - math.Max(amin.Y, bmin.Y)
	if ix <= 0 || iy <= 0 {
		return 0
	}
	bArea := (bmax.X - bmin.X) * (bmax.Y - bmin.Y)
	if bArea <= 0 {
		return 0
	}
	return (ix * iy) / bArea
}

// ConvexHull computes the convex hull of pts using the monotone chain
// algorithm, returned in CCW order without a repeated closing point.
func ConvexHull(pts []model.Point) []model.Point {
	n := len(pts)
	if n <= 1 {
		return append([]model.Point(nil), pts...)
	}

	p := make([]model.Point, n)
	copy(p, pts)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
	p = dedupPoints(p)
	n = len(p)
	if n <= 2 {
		return p
	}

	lower := buildChain(p, false)
	upper := buildChain(p, true)

	hull := make([]model.Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func dedupPoints(p []model.Point) []model.Point {
	out := p[:0]
	var last model.Point
	hasLast := false
	for _, pt := range p {
		if !hasLast || pt.X != last.X || pt.Y != last.Y {
			out = append(out, pt)
			last = pt
			hasLast = true
		}
	}
	return out
}

// buildChain builds the lower hull chain when reverse is false, or the
// upper hull chain (iterating back to front) when reverse is true.
func buildChain(p []model.Point, reverse bool) []model.Point {
	chain := make([]model.Point, 0, len(p))
	add := func(pt model.Point) {
		for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], pt) <= 0 {
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, pt)
	}
	if reverse {
		for i := len(p) - 1; i >= 0; i-- {
			add(p[i])
		}
	} else {
		for _, pt := range p {
			add(pt)
		}
	}
	return chain
}

func cross(o, a, b model.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Centroid returns the shoelace centroid of a closed polygon (points
// not including a repeated closing point). Falls back to the
// arithmetic mean for near-zero-area polygons.
func Centroid(pts []model.Point) model.Point {
	n := len(pts)
	if n == 0 {
		return model.Point{}
	}
	var area, cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		area += cross
		cx += (pts[i].X + pts[j].X) * cross
		cy += (pts[i].Y + pts[j].Y) * cross
	}
	area /= 2
	if math.Abs(area) < 1e-12 {
		return Mean(pts)
	}
	cx /= 6 * area
	cy /= 6 * area
	return model.Point{X: cx, Y: cy}
}

// Mean returns the arithmetic mean of pts.
func Mean(pts []model.Point) model.Point {
	if len(pts) == 0 {
		return model.Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return model.Point{X: sx / n, Y: sy / n}
}

// Reverse returns a copy of pts in reverse order.
func Reverse(pts []model.Point) []model.Point {
	out := make([]model.Point, len(pts))
	for i, p := range pts {
		out[len(out)-1-i] = p
	}
	return out
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
