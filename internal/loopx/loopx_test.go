package loopx

import (
	"testing"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/model"
)

func square(x0, y0, x1, y1 float64) []model.Point {
	return []model.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestExtractClosedContourIsALoop(t *testing.T) {
	cfg := config.DefaultConfig()
	c := model.Contour{Points: square(0, 0, 10, 10), Closed: true}
	loops, fallback := Extract(cfg, []model.Contour{c})
	if fallback {
		t.Fatal("did not expect fallback for a clean closed contour")
	}
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}
	if len(loops[0].OpenPts) != 4 {
		t.Errorf("expected 4 points, got %d", len(loops[0].OpenPts))
	}
}

func TestExtractFourOpenEdgesFormOneLoop(t *testing.T) {
	cfg := config.DefaultConfig()
	contours := []model.Contour{
		{Points: []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, Closed: false},
		{Points: []model.Point{{X: 10, Y: 0}, {X: 10, Y: 10}}, Closed: false},
		{Points: []model.Point{{X: 10, Y: 10}, {X: 0, Y: 10}}, Closed: false},
		{Points: []model.Point{{X: 0, Y: 10}, {X: 0, Y: 0}}, Closed: false},
	}
	loops, fallback := Extract(cfg, contours)
	if fallback {
		t.Fatal("did not expect fallback since the graph should close directly")
	}
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}
}

func TestExtractFallsBackWhenGraphNeverCloses(t *testing.T) {
	cfg := config.DefaultConfig()
	// A single open polyline on a 100-unit-scale shape whose ends are
	// 0.3 apart on each axis (about 0.42) -- too far to collide in any
	// LoopEpsilon quantization bucket, but within the bbox-scaled
	// fallback tolerance (0.5).
	contours := []model.Contour{
		{Points: []model.Point{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0.3, Y: 100}, {X: 0.3, Y: 0.3},
		}, Closed: false},
	}
	loops, fallback := Extract(cfg, contours)
	if !fallback {
		t.Fatal("expected the fallback stitcher to be used")
	}
	if len(loops) != 1 {
		t.Fatalf("expected fallback to close 1 loop, got %d", len(loops))
	}
}

func TestContoursToSegmentsCountsClosingEdge(t *testing.T) {
	c := model.Contour{Points: square(0, 0, 1, 1), Closed: true}
	segs := ContoursToSegments([]model.Contour{c})
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments (including closing edge), got %d", len(segs))
	}
}
