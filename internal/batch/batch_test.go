package batch

import (
	"testing"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/model"
)

func squareJob(id string, x0, y0, x1, y1 float64) Job {
	line := func(ax, ay, bx, by float64) model.Primitive {
		return model.Primitive{Kind: model.KindLine, LineA: model.Point{X: ax, Y: ay}, LineB: model.Point{X: bx, Y: by}}
	}
	return Job{
		ID: id,
		Primitives: []model.Primitive{
			line(x0, y0, x1, y0),
			line(x1, y0, x1, y1),
			line(x1, y1, x0, y1),
			line(x0, y1, x0, y0),
		},
	}
}

func TestRunProcessesAllJobsInOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	jobs := []Job{
		squareJob("a", 0, 0, 10, 10),
		squareJob("b", 0, 0, 20, 20),
		squareJob("c", 0, 0, 5, 5),
	}
	results := Run(cfg, jobs)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		if r.ID != jobs[i].ID {
			t.Errorf("result %d: expected ID %q, got %q", i, jobs[i].ID, r.ID)
		}
		if r.Err != nil {
			t.Errorf("job %q: unexpected error: %v", r.ID, r.Err)
		}
		if len(r.Document.Shapes) != 1 {
			t.Errorf("job %q: expected 1 shape, got %d", r.ID, len(r.Document.Shapes))
		}
	}
}

func TestRunWithSingleWorker(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxWorkers = 1
	jobs := []Job{squareJob("a", 0, 0, 10, 10), squareJob("b", 0, 0, 10, 10)}
	results := Run(cfg, jobs)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestRunEmptyJobList(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := Run(cfg, nil); got != nil {
		t.Errorf("expected nil results for an empty job list, got %v", got)
	}
}
