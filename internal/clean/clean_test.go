package clean

import (
	"testing"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/model"
)

func pts(xy ...float64) []model.Point {
	out := make([]model.Point, 0, len(xy)/2)
	for i := 0; i < len(xy); i += 2 {
		out = append(out, model.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestCleanDedupsConsecutivePoints(t *testing.T) {
	cfg := config.DefaultConfig()
	c := model.Contour{
		Points: []model.Point{
			{X: 0, Y: 0}, {X: 0, Y: 0.0000001}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		},
		Closed: true,
	}
	out := Clean(cfg, []model.Contour{c})
	if len(out) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(out))
	}
	if out[0].Len() != 4 {
		t.Errorf("expected 4 deduped points, got %d", out[0].Len())
	}
}

func TestCleanDropsTinyClosedContour(t *testing.T) {
	cfg := config.DefaultConfig()
	c := model.Contour{Points: pts(0, 0, 0.01, 0, 0.01, 0.01), Closed: true}
	out := Clean(cfg, []model.Contour{c})
	if len(out) != 0 {
		t.Fatalf("expected tiny closed contour dropped, got %d", len(out))
	}
}

func TestCleanStitchesTwoOpenContoursIntoClosedSquare(t *testing.T) {
	cfg := config.DefaultConfig()
	half1 := model.Contour{Points: pts(0, 0, 10, 0, 10, 10), Closed: false}
	half2 := model.Contour{Points: pts(10, 10, 0, 10, 0, 0), Closed: false}
	out := Clean(cfg, []model.Contour{half1, half2})
	if len(out) != 1 {
		t.Fatalf("expected 1 stitched contour, got %d", len(out))
	}
	if !out[0].Closed {
		t.Error("expected stitched contour to be closed")
	}
}

func TestCleanStitchesWithGapWithinJoinTol(t *testing.T) {
	cfg := config.DefaultConfig()
	half1 := model.Contour{Points: pts(0, 0, 10, 0, 10, 10), Closed: false}
	// small gap below joinTolMin-derived tolerance for a ~10 unit span
	half2 := model.Contour{Points: pts(10.01, 10, 0, 10, 0, 0.01), Closed: false}
	out := Clean(cfg, []model.Contour{half1, half2})
	if len(out) != 1 {
		t.Fatalf("expected contours to stitch despite small gap, got %d contours", len(out))
	}
}

func TestCleanKeepsDominantClusterAndDropsDetachedArtifact(t *testing.T) {
	cfg := config.DefaultConfig()
	main := model.Contour{Points: pts(0, 0, 100, 0, 100, 100, 0, 100), Closed: true}
	// a tiny detached mark far away from the main shape
	artifact := model.Contour{Points: pts(1000, 1000, 1001, 1000, 1001, 1001), Closed: true}
	out := Clean(cfg, []model.Contour{main, artifact})
	if len(out) != 1 {
		t.Fatalf("expected detached artifact cluster dropped, got %d contours", len(out))
	}
	if model2Area(out[0].Points) <= 9000 {
		t.Errorf("expected the main shape to survive, got area %v", model2Area(out[0].Points))
	}
}

func model2Area(pts []model.Point) float64 {
	n := len(pts)
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}
