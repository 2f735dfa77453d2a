package normalize

import (
	"math"
	"testing"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/model"
)

func TestNormalizeLine(t *testing.T) {
	cfg := config.DefaultConfig()
	prims := []model.Primitive{
		{Kind: model.KindLine, LineA: model.Point{X: 0, Y: 0}, LineB: model.Point{X: 10, Y: 0}},
	}
	contours, errs := Normalize(cfg, prims)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(contours) != 1 || contours[0].Closed {
		t.Fatalf("expected one open contour, got %+v", contours)
	}
	if contours[0].Len() != 2 {
		t.Errorf("expected 2 points, got %d", contours[0].Len())
	}
}

func TestNormalizeCircleProducesClosedPolygon(t *testing.T) {
	cfg := config.DefaultConfig()
	prims := []model.Primitive{
		{Kind: model.KindCircle, Center: model.Point{X: 5, Y: 5}, Radius: 2},
	}
	contours, errs := Normalize(cfg, prims)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !contours[0].Closed {
		t.Fatal("expected circle to be closed")
	}
	if contours[0].Len() < 12 {
		t.Errorf("expected at least 12 vertices, got %d", contours[0].Len())
	}
	for _, p := range contours[0].Points {
		d := math.Hypot(p.X-5, p.Y-5)
		if math.Abs(d-2) > 1e-6 {
			t.Errorf("vertex %v not on circle (dist %v)", p, d)
		}
	}
}

func TestNormalizeDropsInvalidPrimitives(t *testing.T) {
	cfg := config.DefaultConfig()
	prims := []model.Primitive{
		{Kind: model.KindCircle, Center: model.Point{X: 0, Y: 0}, Radius: -1}, // invalid radius
		{Kind: model.KindPolyline, Vertices: []model.PolylineVertex{{P: model.Point{X: 0, Y: 0}}}}, // <2 vertices
	}
	contours, _ := Normalize(cfg, prims)
	if len(contours) != 0 {
		t.Fatalf("expected no contours from invalid primitives, got %d", len(contours))
	}
}

func TestNormalizeBulgeSegmentPreservesEndpoints(t *testing.T) {
	cfg := config.DefaultConfig()
	prims := []model.Primitive{
		{
			Kind: model.KindPolyline,
			Vertices: []model.PolylineVertex{
				{P: model.Point{X: 0, Y: 0}, Bulge: 1}, // semicircle to (10,0)
				{P: model.Point{X: 10, Y: 0}},
			},
			ClosedFlag: false,
		},
	}
	contours, errs := Normalize(cfg, prims)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	pts := contours[0].Points
	if pts[0] != (model.Point{X: 0, Y: 0}) {
		t.Errorf("expected start preserved, got %v", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last.X-10) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Errorf("expected end preserved at (10,0), got %v", last)
	}
}

func TestNormalizePolylineClosedFlagFromCoincidentEndpoints(t *testing.T) {
	cfg := config.DefaultConfig()
	prims := []model.Primitive{
		{
			Kind: model.KindPolyline,
			Vertices: []model.PolylineVertex{
				{P: model.Point{X: 0, Y: 0}},
				{P: model.Point{X: 10, Y: 0}},
				{P: model.Point{X: 10, Y: 10}},
				{P: model.Point{X: 0, Y: 10}},
				{P: model.Point{X: 0, Y: 0}},
			},
			ClosedFlag: false,
		},
	}
	contours, _ := Normalize(cfg, prims)
	if !contours[0].Closed {
		t.Error("expected coincident endpoints to imply closed")
	}
}

func TestNormalizeSplineFallsBackToFitPoints(t *testing.T) {
	prims := []model.Primitive{
		{
			Kind:      model.KindSpline,
			FitPoints: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}},
		},
	}
	contours, errs := Normalize(config.DefaultConfig(), prims)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if contours[0].Len() != 3 {
		t.Errorf("expected 3 points from fit points, got %d", contours[0].Len())
	}
}
