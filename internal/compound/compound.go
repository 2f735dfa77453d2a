// Package compound detects and splits "compound" loops: a single
// closed path that traces the same perimeter twice (or overlaps a
// stray excursion onto itself), which would otherwise paint half a
// hole solid under even-odd fill. Grounded on the cycle-excision idiom
// in junli0411-plot/plotter/contour.go's exciseLoops/exciseQuick
// (detect a repeated vertex, cut the sub-loop between the two
// occurrences out of the path), generalized from "repeated point index"
// to the spec's "feed segments back through the loop extractor, dedupe
// by quantized center" approach (§4.4).
package compound

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/loopx"
	"github.com/cadkit/contourkit/internal/model"
)

// Suspicious reports whether loop looks like it might be a compound
// (self-retracing) loop: either some non-adjacent vertex repeats within
// CompoundRepeatTol, or its fill ratio (|signedArea|/bboxArea) falls
// outside the plausible range for a simple loop.
func Suspicious(cfg config.Config, loop model.Loop) bool {
	pts := loop.OpenPts
	if hasNonAdjacentRepeat(pts, cfg.CompoundRepeatTol) {
		return true
	}
	bboxArea := geomutil.BBoxArea(pts)
	if bboxArea <= 0 {
		return false
	}
	ratio := geomutil.Area(pts) / bboxArea
	return ratio < cfg.CompoundAreaRatioLo || ratio > cfg.CompoundAreaRatioHi
}

func hasNonAdjacentRepeat(pts []model.Point, tol float64) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent via wraparound
			}
			if pts[i].Dist(pts[j]) <= tol {
				return true
			}
		}
	}
	return false
}

// Split returns the deduplicated set of subloops for a suspicious loop,
// sorted by area descending, or the loop unchanged (as a single-element
// slice) if no split is found.
func Split(cfg config.Config, loop model.Loop) []model.Loop {
	if !Suspicious(cfg, loop) {
		return []model.Loop{loop}
	}

	contour := model.Contour{Points: loop.OpenPts, Closed: true}
	sub := loopx.TryEpsilons([]model.Contour{contour}, cfg.CompoundEpsilons)
	if len(sub) == 0 {
		return []model.Loop{loop}
	}

	return dedupByCenter(cfg, sub)
}

// SplitAll applies Split to every loop in loops, flattening the result.
func SplitAll(cfg config.Config, loops []model.Loop) []model.Loop {
	var out []model.Loop
	for _, l := range loops {
		out = append(out, Split(cfg, l)...)
	}
	return out
}

func dedupByCenter(cfg config.Config, loops []model.Loop) []model.Loop {
	type entry struct {
		loop   model.Loop
		center model.Point
		area   float64
	}
	entries := make([]entry, len(loops))
	var minDims []float64
	for i, l := range loops {
		c := geomutil.Centroid(l.OpenPts)
		a := geomutil.Area(l.OpenPts)
		entries[i] = entry{loop: l, center: c, area: a}
		min, max := model.BoundingBox(l.OpenPts)
		minDims = append(minDims, math.Min(max.X-min.X, max.Y-min.Y))
	}
	quant := geomutil.Clamp(median(minDims)*cfg.CompoundQuantFactor, cfg.CompoundQuantMin, cfg.CompoundQuantMax)

	best := make(map[[2]int64]entry)
	for _, e := range entries {
		key := [2]int64{
			int64(math.Round(e.center.X / quant)),
			int64(math.Round(e.center.Y / quant)),
		}
		if cur, ok := best[key]; !ok || e.area > cur.area {
			best[key] = e
		}
	}

	out := make([]entry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].area > out[j].area })

	loopsOut := make([]model.Loop, len(out))
	for i, e := range out {
		loopsOut[i] = e.loop
	}
	return loopsOut
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
