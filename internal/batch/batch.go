// Package batch runs the pipeline over independent documents concurrently
// (spec §5: "Batch concurrency is at the orchestrator layer only ...
// independent documents are processed in parallel with a worker count <=
// number of hardware threads"). Grounded on gazed-vu/eg/rt.go's rayTrace
// worker pool: a buffered work channel, one goroutine per worker, a
// sync.WaitGroup, closing the channel to signal completion.
package batch

import (
	"runtime"
	"sync"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/diagnostics"
	"github.com/cadkit/contourkit/internal/model"
	"github.com/cadkit/contourkit/internal/pipeline"
)

// Job is one independent document to reconstruct: an identifier for
// correlating it with its Result, and the raw primitives to run through
// the pipeline.
type Job struct {
	ID         string
	Primitives []model.Primitive
}

// Result pairs a Job's ID with its pipeline outcome.
type Result struct {
	ID       string
	Document model.Document
	Log      *diagnostics.Log
	Err      error
}

// Run processes every job concurrently with a bounded worker pool and
// returns results in the same order as jobs. cfg.MaxWorkers caps worker
// count; 0 means runtime.NumCPU(). Each worker owns its own allocations;
// no state is shared across jobs beyond the read-only cfg (spec §5).
func Run(cfg config.Config, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type indexed struct {
		idx int
		job Job
	}

	work := make(chan indexed, len(jobs))
	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for item := range work {
				doc, log, err := pipeline.Run(cfg, item.job.Primitives)
				results[item.idx] = Result{ID: item.job.ID, Document: doc, Log: log, Err: err}
			}
		}()
	}

	for i, j := range jobs {
		work <- indexed{idx: i, job: j}
	}
	close(work)
	wg.Wait()

	return results
}
