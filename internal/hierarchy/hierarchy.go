// Package hierarchy resolves parent/depth relationships between loops
// (smallest-enclosing-parent, even/odd = outer/hole) and flattens
// "pseudo-holes" -- odd-depth loops that are really a duplicated inset
// border rather than a true cutout. Depths are assigned by memoized
// recursion over parent indices, so the call stack grows with the
// nesting depth; point containment reuses geomutil.PointInPolygon.
package hierarchy

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/model"
)

// InteriorSample picks a point strictly inside loop pts, trying in
// order: shoelace centroid, arithmetic mean, midpoint of the first edge,
// first vertex -- the first candidate that tests strictly inside by the
// on-edge-strict point-in-polygon test (spec §4.5).
func InteriorSample(pts []model.Point) (model.Point, bool) {
	if len(pts) < 3 {
		return model.Point{}, false
	}
	candidates := []model.Point{
		geomutil.Centroid(pts),
		geomutil.Mean(pts),
		{X: (pts[0].X + pts[1].X) / 2, Y: (pts[0].Y + pts[1].Y) / 2},
		pts[0],
	}
	for _, c := range candidates {
		if geomutil.PointInPolygon(c, pts) {
			return c, true
		}
	}
	return model.Point{}, false
}

// Resolve assigns Parent and Depth to every loop in place: for loop i,
// the parent is the smallest-area loop j whose area strictly exceeds
// i's area by MinLoopArea's epsilon, whose bbox contains i's interior
// sample, and whose closed point list strictly contains that sample
// (spec §4.5).
func Resolve(cfg config.Config, loops []model.Loop) {
	n := len(loops)
	samples := make([]model.Point, n)
	hasSample := make([]bool, n)
	areas := make([]float64, n)
	for i, l := range loops {
		areas[i] = geomutil.Area(l.OpenPts)
		samples[i], hasSample[i] = InteriorSample(l.OpenPts)
	}

	for i := range loops {
		loops[i].Parent = -1
		if !hasSample[i] {
			continue
		}
		bestJ := -1
		bestArea := math.Inf(1)
		for j := range loops {
			if i == j || loops[j].Skip {
				continue
			}
			if areas[j] <= areas[i]+cfg.MinLoopArea {
				continue
			}
			if !geomutil.BBoxContains(loops[j].OpenPts, []model.Point{samples[i]}) {
				continue
			}
			if !geomutil.PointInPolygon(samples[i], loops[j].OpenPts) {
				continue
			}
			// Strict < with j ascending: of two equal-area candidates the
			// lower index wins.
			if areas[j] < bestArea {
				bestArea = areas[j]
				bestJ = j
			}
		}
		loops[i].Parent = bestJ
	}

	assignDepths(loops)
}

// assignDepths computes each loop's depth by memoized recursion over the
// parent pointers: each loop is resolved once, and the recursion is as
// deep as the loop's nesting. It is not an iterative traversal.
func assignDepths(loops []model.Loop) {
	n := len(loops)
	depth := make([]int, n)
	resolved := make([]bool, n)

	var resolve func(i int, chain map[int]bool) int
	resolve = func(i int, chain map[int]bool) int {
		if resolved[i] {
			return depth[i]
		}
		if chain[i] {
			// Cycle guard: shouldn't occur given the area-strictness
			// invariant, but breaks an infinite loop defensively.
			resolved[i] = true
			depth[i] = 0
			return 0
		}
		p := loops[i].Parent
		if p < 0 {
			resolved[i] = true
			depth[i] = 0
			return 0
		}
		chain[i] = true
		d := resolve(p, chain) + 1
		delete(chain, i)
		resolved[i] = true
		depth[i] = d
		return d
	}

	for i := 0; i < n; i++ {
		if !resolved[i] {
			resolve(i, make(map[int]bool))
		}
	}
	for i := range loops {
		loops[i].Depth = depth[i]
	}
}

// childrenByParent groups loop indices by their Parent field.
func childrenByParent(loops []model.Loop) map[int][]int {
	out := make(map[int][]int)
	for i, l := range loops {
		out[l.Parent] = append(out[l.Parent], i)
	}
	return out
}

// NormalizePseudoHoles flattens odd-depth loops that are really a
// duplicated border offset of their even-depth parent rather than a true
// cutout, bounded at cfg.PseudoHoleMaxPasses iterations (spec §4.6).
func NormalizePseudoHoles(cfg config.Config, loops []model.Loop) {
	for pass := 0; pass < cfg.PseudoHoleMaxPasses; pass++ {
		byParent := childrenByParent(loops)
		changed := false

		for i := range loops {
			if loops[i].Skip || loops[i].Depth%2 != 0 {
				continue
			}
			for _, ci := range byParent[i] {
				if loops[ci].Skip || loops[ci].Depth%2 == 0 {
					continue
				}
				if !bboxWithinTol(loops[i].OpenPts, loops[ci].OpenPts, cfg.PseudoBBoxTol) {
					continue
				}
				if shouldSkipAsPseudoHole(cfg, loops, byParent, i, ci) {
					reparent(loops, byParent, ci, i)
					loops[ci].Skip = true
					changed = true
				}
			}
		}

		if !changed {
			break
		}
		assignDepths(loops)
	}
}

func bboxWithinTol(parent, child []model.Point, tol float64) bool {
	pmin, pmax := model.BoundingBox(parent)
	cmin, cmax := model.BoundingBox(child)
	return cmin.X >= pmin.X-tol && cmin.Y >= pmin.Y-tol && cmax.X <= pmax.X+tol && cmax.Y <= pmax.Y+tol
}

// shouldSkipAsPseudoHole implements the spec §4.6 predicate.
func shouldSkipAsPseudoHole(cfg config.Config, loops []model.Loop, byParent map[int][]int, parentIdx, childIdx int) bool {
	parentPts := loops[parentIdx].OpenPts
	childPts := loops[childIdx].OpenPts
	parentArea := geomutil.Area(parentPts)
	childArea := geomutil.Area(childPts)
	if parentArea <= 0 {
		return false
	}
	areaRatio := childArea / parentArea

	siblings := byParent[parentIdx]
	tinyCount := 0
	for _, si := range siblings {
		if si == childIdx || loops[si].Skip || loops[si].Depth%2 == 0 {
			continue
		}
		sa := geomutil.Area(loops[si].OpenPts)
		if sa/parentArea < cfg.PseudoTinyAreaRatio {
			tinyCount++
		}
	}

	if areaRatio > cfg.PseudoAreaRatioHi && tinyCount >= cfg.PseudoMinTinySiblingsA {
		return true
	}

	pmin, pmax := model.BoundingBox(parentPts)
	cmin, cmax := model.BoundingBox(childPts)
	leftInset := cmin.X - pmin.X
	rightInset := pmax.X - cmax.X
	bottomInset := cmin.Y - pmin.Y
	topInset := pmax.Y - cmax.Y
	insetCap := math.Max(cfg.PseudoInsetFloor, math.Min(pmax.X-pmin.X, pmax.Y-pmin.Y)*cfg.PseudoInsetFactor)

	isBorderOffset := leftInset >= -1e-4 && leftInset <= insetCap &&
		rightInset >= -1e-4 && rightInset <= insetCap &&
		bottomInset >= -1e-4 && bottomInset <= insetCap &&
		topInset >= -1e-4 && topInset <= insetCap

	if !isBorderOffset {
		return false
	}

	descendants := countDescendants(loops, byParent, childIdx)
	if descendants >= cfg.PseudoMinDescendants {
		return true
	}
	if tinyCount >= cfg.PseudoMinTinySiblingsB {
		return true
	}
	if areaRatio > cfg.PseudoAreaRatioHi+0.12 && tinyCount >= cfg.PseudoMinTinySiblingsC {
		return true
	}
	return false
}

func countDescendants(loops []model.Loop, byParent map[int][]int, idx int) int {
	count := 0
	var walk func(int)
	walk = func(i int) {
		for _, c := range byParent[i] {
			count++
			walk(c)
		}
	}
	walk(idx)
	return count
}

// reparent moves all of child's children up to grandparent and clears
// child's own parent link.
func reparent(loops []model.Loop, byParent map[int][]int, child, grandparent int) {
	for _, gc := range byParent[child] {
		loops[gc].Parent = grandparent
	}
	loops[child].Parent = -1
}

// SortedRootsFirst returns loop indices ordered by depth ascending then
// original index, a convenient traversal order for downstream assembly.
func SortedRootsFirst(loops []model.Loop) []int {
	idx := make([]int, len(loops))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return loops[idx[a]].Depth < loops[idx[b]].Depth })
	return idx
}
