// Package loopx extracts closed loops from a set of segments by
// traversing a quantized-endpoint adjacency graph. Grounded on the
// teacher's internal/importer/dxf.go chainSegments adjacency-walk idiom,
// restructured per the algorithm's own design note into parallel
// edges/used arrays plus a key-to-indices hash map (spec §4.3, §9).
package loopx

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/model"
)

// edgeRef records, for one endpoint key, which edge touches it and
// whether that edge's A-end (rather than its B-end) is the one at this
// key -- the far end is then the walk's next point.
type edgeRef struct {
	edge  int
	fromA bool
}

func quantKey(p model.Point, eps float64) [2]int64 {
	return [2]int64{
		int64(math.Round(p.X / eps)),
		int64(math.Round(p.Y / eps)),
	}
}

// ContoursToSegments flattens a set of contours into their constituent
// edges: consecutive-point segments, plus a closing edge for Closed
// contours. Edges shorter than 1e-9 are skipped.
func ContoursToSegments(contours []model.Contour) []model.Segment {
	var segs []model.Segment
	for _, c := range contours {
		n := len(c.Points)
		if n < 2 {
			continue
		}
		limit := n - 1
		if c.Closed {
			limit = n
		}
		for i := 0; i < limit; i++ {
			a, b := c.Points[i], c.Points[(i+1)%n]
			if a.Dist(b) <= 1e-9 {
				continue
			}
			segs = append(segs, model.Segment{A: a, B: b})
		}
	}
	return segs
}

// Extract tries each epsilon in cfg.LoopEpsilons in order, stopping at
// the first that yields at least one loop. If none of them close a
// single loop, it falls back to the open-contour stitcher over the
// original contours (spec §4.3).
func Extract(cfg config.Config, contours []model.Contour) (loops []model.Loop, usedFallback bool) {
	if found := TryEpsilons(contours, cfg.LoopEpsilons); len(found) > 0 {
		return found, false
	}
	return fallbackStitch(cfg, contours), true
}

// TryEpsilons runs plain graph-based extraction (no stitcher fallback)
// over contours at each epsilon in turn, returning the first non-empty
// result. Used directly by the compound-loop splitter (§4.4), which
// re-feeds a suspicious loop's own segments through this same graph
// walk at its own epsilon list.
func TryEpsilons(contours []model.Contour, epsilons []float64) []model.Loop {
	segs := ContoursToSegments(contours)
	for _, eps := range epsilons {
		if found := extractAtEpsilon(segs, eps); len(found) > 0 {
			return found
		}
	}
	return nil
}

// extractAtEpsilon walks the quantized adjacency graph built at the
// given epsilon, returning every loop of >=3 points it manages to close.
func extractAtEpsilon(segs []model.Segment, eps float64) []model.Loop {
	if len(segs) == 0 {
		return nil
	}
	adj := make(map[[2]int64][]edgeRef)
	for i, s := range segs {
		ka, kb := quantKey(s.A, eps), quantKey(s.B, eps)
		adj[ka] = append(adj[ka], edgeRef{edge: i, fromA: true})
		adj[kb] = append(adj[kb], edgeRef{edge: i, fromA: false})
	}

	used := make([]bool, len(segs))
	var loops []model.Loop

	for i := range segs {
		if used[i] {
			continue
		}
		pts, closed := walkLoop(segs, adj, used, i, eps)
		if closed && len(pts) >= 3 {
			loops = append(loops, model.Loop{OpenPts: pts})
		}
	}
	return loops
}

// walkLoop starts the traversal at segs[start], consuming edges until
// the walk returns to the starting key (closed) or runs out of unused
// adjacent edges (dead end, not emitted as a loop).
func walkLoop(segs []model.Segment, adj map[[2]int64][]edgeRef, used []bool, start int, eps float64) ([]model.Point, bool) {
	s := segs[start]
	used[start] = true
	startKey := quantKey(s.A, eps)
	prevKey := startKey
	curKey := quantKey(s.B, eps)
	pts := []model.Point{s.A, s.B}

	for {
		if curKey == startKey {
			return pts[:len(pts)-1], true
		}
		candidates := adj[curKey]
		if len(candidates) == 0 {
			return pts, false
		}

		sorted := make([]edgeRef, len(candidates))
		copy(sorted, candidates)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].edge < sorted[b].edge })

		// Prefer the first unused candidate whose far end differs from
		// prevKey (avoid immediate backtrack); fall back to the first
		// unused candidate at all otherwise.
		chosenPos := -1
		fallbackPos := -1
		for pos, ref := range sorted {
			if used[ref.edge] {
				continue
			}
			if fallbackPos < 0 {
				fallbackPos = pos
			}
			if farEndKey(segs[ref.edge], ref, eps) != prevKey {
				chosenPos = pos
				break
			}
		}
		if chosenPos < 0 {
			chosenPos = fallbackPos
		}
		if chosenPos < 0 {
			return pts, false
		}

		ref := sorted[chosenPos]
		used[ref.edge] = true
		next := farEndPoint(segs[ref.edge], ref)
		pts = append(pts, next)
		prevKey = curKey
		curKey = quantKey(next, eps)
	}
}

func farEndPoint(s model.Segment, ref edgeRef) model.Point {
	if ref.fromA {
		return s.B
	}
	return s.A
}

func farEndKey(s model.Segment, ref edgeRef, eps float64) [2]int64 {
	return quantKey(farEndPoint(s, ref), eps)
}

// fallbackStitch joins open contours end-to-end within a single
// distance-based tolerance derived from the source bbox, returning
// whichever chains close into loops (spec §4.3's fallback to the
// open-contour stitcher).
func fallbackStitch(cfg config.Config, contours []model.Contour) []model.Loop {
	var all []model.Point
	for _, c := range contours {
		all = append(all, c.Points...)
	}
	if len(all) == 0 {
		return nil
	}
	min, max := model.BoundingBox(all)
	minSide := math.Max(1, math.Min(max.X-min.X, max.Y-min.Y))
	tol := geomutil.Clamp(minSide*cfg.FallbackTolFactor, cfg.FallbackTolMin, cfg.FallbackTolMax)

	var open [][]model.Point
	for _, c := range contours {
		if c.Closed {
			if c.Len() >= 3 {
				continue // already a loop; Extract's caller handles closed contours directly upstream
			}
			continue
		}
		open = append(open, append([]model.Point(nil), c.Points...))
	}
	if len(open) == 0 {
		return nil
	}

	used := make([]bool, len(open))
	var loops []model.Loop
	for i := range open {
		if used[i] {
			continue
		}
		used[i] = true
		chain := append([]model.Point(nil), open[i]...)
		for {
			bestIdx := -1
			bestGap := math.Inf(1)
			bestPrepend := false
			bestReverse := false
			tail, head := chain[len(chain)-1], chain[0]
			for j := range open {
				if used[j] {
					continue
				}
				cand := open[j]
				ch, ct := cand[0], cand[len(cand)-1]
				if d := tail.Dist(ch); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverse = d, j, false, false
				}
				if d := tail.Dist(ct); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverse = d, j, false, true
				}
				if d := head.Dist(ct); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverse = d, j, true, false
				}
				if d := head.Dist(ch); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverse = d, j, true, true
				}
			}
			if bestIdx < 0 || bestGap > tol {
				break
			}
			used[bestIdx] = true
			cand := open[bestIdx]
			if bestReverse {
				cand = geomutil.Reverse(cand)
			}
			if bestPrepend {
				chain = append(append([]model.Point(nil), cand...), chain...)
			} else {
				chain = append(chain, cand...)
			}
		}
		if len(chain) >= 4 && chain[0].Dist(chain[len(chain)-1]) <= tol {
			loops = append(loops, model.Loop{OpenPts: chain[:len(chain)-1]})
		}
	}
	return loops
}

// ErrNoLoops describes the case where no loop was extracted after every
// fallback. No function in this module returns it.
type ErrNoLoops struct{}

func (ErrNoLoops) Error() string { return "loopx: no loops extracted from input segments" }
