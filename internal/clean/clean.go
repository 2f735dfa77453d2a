// Package clean deduplicates and stitches normalized contours into a
// cleaned set of contours, then filters out geometrically detached
// clutter clusters (registration marks, stray dimension artifacts).
// Grounded on the teacher's internal/importer/dxf.go chainSegments:
// a pool of open polylines greedily extended by nearest-endpoint
// matching, generalized from one fixed tolerance to the spec's
// progressive joinTol/closeTol pair and cluster-score filter.
package clean

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/model"
)

// Clean dedups consecutive points, drops degenerate contours, stitches
// open contours that nearly touch end-to-end into longer (possibly
// closed) chains, and filters out detached low-score clusters when
// multiple disjoint clusters remain (spec §4.2).
func Clean(cfg config.Config, contours []model.Contour) []model.Contour {
	stitched := CleanRaw(cfg, contours)
	if stitched == nil {
		return nil
	}
	return filterClusters(cfg, stitched)
}

// CleanRaw runs dedup and stitching but skips the cluster filter. The
// orchestrator's raw-LINE/ARC reparse mode (spec §4.11) uses this
// directly so that a border built entirely of LINE/ARC primitives isn't
// discarded as a detached cluster.
func CleanRaw(cfg config.Config, contours []model.Contour) []model.Contour {
	deduped := make([]model.Contour, 0, len(contours))
	for _, c := range contours {
		if cc, ok := dedupContour(cfg, c); ok {
			deduped = append(deduped, cc)
		}
	}
	if len(deduped) == 0 {
		return nil
	}
	return stitch(cfg, deduped)
}

func dedupContour(cfg config.Config, c model.Contour) (model.Contour, bool) {
	if len(c.Points) == 0 {
		return model.Contour{}, false
	}
	out := make([]model.Point, 0, len(c.Points))
	out = append(out, c.Points[0])
	for _, p := range c.Points[1:] {
		if p.Dist(out[len(out)-1]) > cfg.DedupTol {
			out = append(out, p)
		}
	}
	if c.Closed && len(out) > 1 && out[0].Dist(out[len(out)-1]) <= cfg.DedupTol {
		out = out[:len(out)-1]
	}

	if c.Closed {
		if len(out) < cfg.MinClosedPoints {
			return model.Contour{}, false
		}
		if polylineLength(out, true) <= cfg.MinClosedLength {
			return model.Contour{}, false
		}
	} else if len(out) < 2 {
		return model.Contour{}, false
	}

	return model.Contour{Points: out, Closed: c.Closed}, true
}

func polylineLength(pts []model.Point, closed bool) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	n := len(pts)
	limit := n - 1
	if closed {
		limit = n
	}
	for i := 0; i < limit; i++ {
		total += pts[i].Dist(pts[(i+1)%n])
	}
	return total
}

// overallBBoxSpan returns (spanW, spanH) across all points of all
// contours.
func overallBBoxSpan(contours []model.Contour) (spanW, spanH float64) {
	var all []model.Point
	for _, c := range contours {
		all = append(all, c.Points...)
	}
	if len(all) == 0 {
		return 0, 0
	}
	min, max := model.BoundingBox(all)
	return max.X - min.X, max.Y - min.Y
}

func joinTolerances(cfg config.Config, spanW, spanH float64) (joinTol, closeTol float64) {
	minSide := math.Max(1, math.Min(spanW, spanH))
	joinTol = geomutil.Clamp(minSide*cfg.JoinTolFactor, cfg.JoinTolMin, cfg.JoinTolMax)
	closeTol = math.Max(joinTol*cfg.CloseTolFactor, cfg.CloseTolMin)
	return joinTol, closeTol
}

// stitch greedily extends each open contour by attaching the nearest
// unused open contour end-to-end, trying all four endpoint pairings,
// whenever the gap is within joinTol. A chain whose ends land within
// closeTol becomes closed. Already-closed contours pass through
// unchanged.
func stitch(cfg config.Config, contours []model.Contour) []model.Contour {
	var closedAlready []model.Contour
	var open [][]model.Point
	for _, c := range contours {
		if c.Closed {
			closedAlready = append(closedAlready, c)
		} else {
			open = append(open, append([]model.Point(nil), c.Points...))
		}
	}
	if len(open) < 2 {
		out := closedAlready
		for _, o := range open {
			out = append(out, model.Contour{Points: o, Closed: false})
		}
		return out
	}

	spanW, spanH := overallBBoxSpan(contours)
	joinTol, closeTol := joinTolerances(cfg, spanW, spanH)

	used := make([]bool, len(open))
	var result []model.Contour

	for i := range open {
		if used[i] {
			continue
		}
		used[i] = true
		chain := append([]model.Point(nil), open[i]...)

		for {
			bestIdx := -1
			bestGap := math.Inf(1)
			bestReverseOther := false
			bestPrepend := false

			tail := chain[len(chain)-1]
			head := chain[0]

			for j := range open {
				if used[j] {
					continue
				}
				cand := open[j]
				candHead, candTail := cand[0], cand[len(cand)-1]

				// tail -> candHead (append forward)
				if d := tail.Dist(candHead); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverseOther = d, j, false, false
				}
				// tail -> candTail (append reversed)
				if d := tail.Dist(candTail); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverseOther = d, j, false, true
				}
				// candTail -> head (prepend forward)
				if d := head.Dist(candTail); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverseOther = d, j, true, false
				}
				// candHead -> head (prepend reversed)
				if d := head.Dist(candHead); d < bestGap {
					bestGap, bestIdx, bestPrepend, bestReverseOther = d, j, true, true
				}
			}

			if bestIdx < 0 || bestGap > joinTol {
				break
			}

			used[bestIdx] = true
			cand := open[bestIdx]
			if bestReverseOther {
				cand = geomutil.Reverse(cand)
			}
			if bestPrepend {
				chain = append(append([]model.Point(nil), cand...), chain...)
			} else {
				chain = append(chain, cand...)
			}
		}

		closed := len(chain) >= 3 && chain[0].Dist(chain[len(chain)-1]) <= closeTol
		// Joined ends repeat a vertex, and a closed chain repeats its first
		// point at the end; dedup removes both.
		if cc, ok := dedupContour(cfg, model.Contour{Points: chain, Closed: closed}); ok {
			result = append(result, cc)
		}
	}

	return append(closedAlready, result...)
}

// filterClusters groups contours into connected clusters by proximate
// bounding boxes, scores each cluster, and keeps only the dominant
// cluster when it clearly outweighs the rest (spec §4.2).
func filterClusters(cfg config.Config, contours []model.Contour) []model.Contour {
	if len(contours) <= 1 {
		return contours
	}

	spanW, spanH := overallBBoxSpan(contours)
	minSide := math.Max(1, math.Min(spanW, spanH))
	joinGap := geomutil.Clamp(minSide*cfg.ClusterGapFactor, cfg.ClusterGapMin, cfg.ClusterGapMax)

	clusters := clusterByBBoxProximity(contours, joinGap)
	if len(clusters) <= 1 {
		return contours
	}

	type scored struct {
		idx   int
		score float64
		area  float64
	}
	scores := make([]scored, len(clusters))
	var overallArea float64
	for ci, cl := range clusters {
		var totalLen, area float64
		for _, idx := range cl {
			c := contours[idx]
			totalLen += polylineLength(c.Points, c.Closed)
			area += geomutil.Area(c.Points)
		}
		scores[ci] = scored{idx: ci, score: totalLen * math.Sqrt(area), area: area}
		overallArea += area
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	main := scores[0]
	if len(scores) < 2 {
		return contours
	}
	alt := scores[1]

	dropOthers := (main.score > alt.score*cfg.ClusterScoreRatio && main.area > alt.area*cfg.ClusterAreaRatio) ||
		(overallArea > main.area*cfg.ClusterOverallAreaRatio && main.score > alt.score*cfg.ClusterOverallScoreRatio)

	if !dropOthers {
		return contours
	}

	keep := clusters[main.idx]
	keepSet := make(map[int]bool, len(keep))
	for _, idx := range keep {
		keepSet[idx] = true
	}
	out := make([]model.Contour, 0, len(keep))
	for i, c := range contours {
		if keepSet[i] {
			out = append(out, c)
		}
	}
	return out
}

// clusterByBBoxProximity unions contours whose bounding boxes are
// within joinGap of each other (union-find over pairwise bbox distance).
func clusterByBBoxProximity(contours []model.Contour, joinGap float64) [][]int {
	n := len(contours)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	bboxes := make([][2]model.Point, n)
	for i, c := range contours {
		min, max := model.BoundingBox(c.Points)
		bboxes[i] = [2]model.Point{min, max}
	}

	bboxGap := func(a, b [2]model.Point) float64 {
		dx := math.Max(0, math.Max(a[0].X-b[1].X, b[0].X-a[1].X))
		dy := math.Max(0, math.Max(a[0].Y-b[1].Y, b[0].Y-a[1].Y))
		return math.Hypot(dx, dy)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bboxGap(bboxes[i], bboxes[j]) <= joinGap {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}
	out := make([][]int, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}
