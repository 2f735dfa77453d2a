package geomutil

import (
	"testing"

	"github.com/cadkit/contourkit/internal/model"
)

func square(x0, y0, x1, y1 float64) []model.Point {
	return []model.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestSignedAreaCCWPositive(t *testing.T) {
	s := square(0, 0, 10, 10)
	area := SignedArea(s)
	if area <= 0 {
		t.Fatalf("expected positive area for CCW square, got %v", area)
	}
	if Area(s) != 100 {
		t.Errorf("expected area 100, got %v", Area(s))
	}
}

func TestSignedAreaCWNegative(t *testing.T) {
	s := Reverse(square(0, 0, 10, 10))
	if SignedArea(s) >= 0 {
		t.Fatalf("expected negative area for CW square, got %v", SignedArea(s))
	}
}

func TestPointInPolygonInteriorAndEdge(t *testing.T) {
	s := square(0, 0, 10, 10)
	if !PointInPolygon(model.Point{X: 5, Y: 5}, s) {
		t.Error("expected center to be inside")
	}
	if PointInPolygon(model.Point{X: 0, Y: 5}, s) {
		t.Error("expected point on edge to NOT be strictly inside")
	}
	if PointInPolygon(model.Point{X: -1, Y: 5}, s) {
		t.Error("expected point outside to be outside")
	}
}

func TestConvexHullSquareWithInteriorPoints(t *testing.T) {
	pts := append(square(0, 0, 10, 10), model.Point{X: 5, Y: 5}, model.Point{X: 1, Y: 1})
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull vertices, got %d: %v", len(hull), hull)
	}
	if Area(hull) != 100 {
		t.Errorf("expected hull area 100, got %v", Area(hull))
	}
}

func TestBBoxOverlapFraction(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(5, 5, 15, 15)
	frac := BBoxOverlapFraction(a, b)
	if frac <= 0 || frac > 1 {
		t.Errorf("expected overlap fraction in (0,1], got %v", frac)
	}
}

func TestCentroidOfSquare(t *testing.T) {
	c := Centroid(square(0, 0, 10, 10))
	if c.X != 5 || c.Y != 5 {
		t.Errorf("expected centroid (5,5), got %v", c)
	}
}
