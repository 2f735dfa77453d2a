package hierarchy

import (
	"testing"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/model"
)

func square(x0, y0, x1, y1 float64) []model.Point {
	return []model.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestInteriorSampleCentroidInsideSquare(t *testing.T) {
	p, ok := InteriorSample(square(0, 0, 10, 10))
	if !ok {
		t.Fatal("expected a valid interior sample")
	}
	if p.X != 5 || p.Y != 5 {
		t.Errorf("expected centroid (5,5), got %v", p)
	}
}

func TestResolveOuterAndHole(t *testing.T) {
	cfg := config.DefaultConfig()
	outer := model.Loop{OpenPts: square(0, 0, 10, 10)}
	hole := model.Loop{OpenPts: square(3, 3, 5, 5)}
	loops := []model.Loop{outer, hole}
	Resolve(cfg, loops)

	if loops[0].Parent != -1 || loops[0].Depth != 0 {
		t.Errorf("expected outer loop as root, got parent=%d depth=%d", loops[0].Parent, loops[0].Depth)
	}
	if loops[1].Parent != 0 || loops[1].Depth != 1 {
		t.Errorf("expected hole parented to outer at depth 1, got parent=%d depth=%d", loops[1].Parent, loops[1].Depth)
	}
}

func TestResolveNestedThreeLevels(t *testing.T) {
	cfg := config.DefaultConfig()
	outer := model.Loop{OpenPts: square(0, 0, 20, 20)}
	hole := model.Loop{OpenPts: square(2, 2, 18, 18)}
	island := model.Loop{OpenPts: square(8, 8, 12, 12)}
	loops := []model.Loop{outer, hole, island}
	Resolve(cfg, loops)

	if loops[0].Depth != 0 {
		t.Errorf("expected outer depth 0, got %d", loops[0].Depth)
	}
	if loops[1].Depth != 1 || loops[1].Parent != 0 {
		t.Errorf("expected hole depth 1 parent 0, got depth=%d parent=%d", loops[1].Depth, loops[1].Parent)
	}
	if loops[2].Depth != 2 || loops[2].Parent != 1 {
		t.Errorf("expected island depth 2 parent 1, got depth=%d parent=%d", loops[2].Depth, loops[2].Parent)
	}
}

func TestNormalizePseudoHolesFlattensBorderOffset(t *testing.T) {
	cfg := config.DefaultConfig()
	outer := model.Loop{OpenPts: square(0, 0, 100, 100)}
	// A near-duplicate of the outer border, inset by 1 unit -- a classic
	// pseudo-hole border offset with many tiny real holes inside it.
	offset := model.Loop{OpenPts: square(1, 1, 99, 99)}
	loops := []model.Loop{outer, offset}
	for i := 0; i < 10; i++ {
		loops = append(loops, model.Loop{OpenPts: square(
			float64(3+i*8), float64(3+i*8),
			float64(3+i*8)+1, float64(3+i*8)+1,
		)})
	}
	Resolve(cfg, loops)
	NormalizePseudoHoles(cfg, loops)

	if !loops[1].Skip {
		t.Error("expected the border-offset loop to be skipped as a pseudo-hole")
	}
	for i := 2; i < len(loops); i++ {
		if loops[i].Parent != 0 {
			t.Errorf("expected tiny hole %d reparented to outer (0), got %d", i, loops[i].Parent)
		}
	}
}
