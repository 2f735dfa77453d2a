// Package assemble turns resolved loops into terminal model.Shape
// values: the dense-perforation fast path (§4.7), the hull fallback
// gate (§4.9), the shape assembler proper (§4.10), and the
// post-assembly artifact-overlay filter (§4.8). Orientation logic
// (CCW outer / CW holes) is built directly from the spec's own
// invariants using geomutil's shoelace area -- the teacher never
// orients polygons by winding, only tracks axis-aligned bounding boxes
// for packing, so there is no teacher analogue here.
package assemble

import (
	"math"
	"sort"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/hierarchy"
	"github.com/cadkit/contourkit/internal/model"
)

func orient(pts []model.Point, ccw bool) []model.Point {
	area := geomutil.SignedArea(pts)
	if ccw && area < 0 {
		return geomutil.Reverse(pts)
	}
	if !ccw && area > 0 {
		return geomutil.Reverse(pts)
	}
	return append([]model.Point(nil), pts...)
}

// Assemble builds one Shape per non-skipped even-depth loop, with its
// non-skipped odd-depth direct children as holes (spec §4.10).
func Assemble(loops []model.Loop) []model.Shape {
	var shapes []model.Shape
	for i, l := range loops {
		if l.Skip || l.Depth%2 != 0 {
			continue
		}
		outer := orient(l.OpenPts, true)
		if len(outer) < 3 {
			continue
		}
		shape := model.Shape{Outer: outer}
		for _, c := range loops {
			if c.Skip || c.Depth%2 != 1 || c.Parent != i {
				continue
			}
			hole := orient(c.OpenPts, false)
			if len(hole) < 3 {
				continue
			}
			shape.Holes = append(shape.Holes, hole)
		}
		shapes = append(shapes, shape)
	}
	return shapes
}

// DenseFastPath implements §4.7: when a large perforated pattern is
// detected among the candidate loops, it is emitted directly as a
// single shape, bypassing hierarchy resolution and pseudo-hole
// normalization entirely.
func DenseFastPath(cfg config.Config, loops []model.Loop, sourceBBoxArea float64) (model.Shape, bool) {
	if len(loops) < cfg.DenseMinLoops || sourceBBoxArea <= 0 {
		return model.Shape{}, false
	}

	outerIdx := -1
	outerArea := -1.0
	for i, l := range loops {
		a := geomutil.Area(l.OpenPts)
		if a > outerArea {
			outerArea = a
			outerIdx = i
		}
	}
	if outerIdx < 0 || outerArea < cfg.DenseOuterAreaFrac*sourceBBoxArea {
		return model.Shape{}, false
	}
	outerPts := loops[outerIdx].OpenPts

	type child struct {
		pts    []model.Point
		area   float64
		center model.Point
	}
	var children []child
	for i, l := range loops {
		if i == outerIdx {
			continue
		}
		a := geomutil.Area(l.OpenPts)
		if a > cfg.DenseChildAreaFrac*sourceBBoxArea {
			continue
		}
		sample, ok := hierarchy.InteriorSample(l.OpenPts)
		if !ok || !geomutil.PointInPolygon(sample, outerPts) {
			continue
		}
		children = append(children, child{pts: l.OpenPts, area: a, center: geomutil.Centroid(l.OpenPts)})
	}
	if len(children) < cfg.DenseMinChildren {
		return model.Shape{}, false
	}

	minDims := make([]float64, len(children))
	for i, c := range children {
		min, max := model.BoundingBox(c.pts)
		minDims[i] = math.Min(max.X-min.X, max.Y-min.Y)
	}
	quant := geomutil.Clamp(median(minDims)*cfg.DenseQuantFactor, cfg.DenseQuantMin, cfg.DenseQuantMax)

	best := make(map[[2]int64]child)
	for _, c := range children {
		key := [2]int64{int64(math.Round(c.center.X / quant)), int64(math.Round(c.center.Y / quant))}
		if cur, ok := best[key]; !ok || c.area > cur.area {
			best[key] = c
		}
	}
	if len(best) < cfg.DenseMinDedupHoles {
		return model.Shape{}, false
	}

	shape := model.Shape{Outer: orient(outerPts, true)}
	for _, c := range best {
		shape.Holes = append(shape.Holes, orient(c.pts, false))
	}
	return shape, true
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

// HullGate implements §4.9: optionally injects a convex hull of all
// input points as a synthetic additional loop, or (fragmented-sheet
// case) replaces the loop set outright with the tiny loops plus the
// hull. Returns the loop set to use going forward and whether the
// caller must re-resolve hierarchy.
func HullGate(cfg config.Config, loops []model.Loop, allPoints []model.Point, sourceBBoxArea float64) ([]model.Loop, bool) {
	if sourceBBoxArea <= 0 || len(loops) == 0 {
		return loops, false
	}

	areas := make([]float64, len(loops))
	maxArea, secondArea := 0.0, 0.0
	for i, l := range loops {
		a := geomutil.Area(l.OpenPts)
		areas[i] = a
		if a > maxArea {
			secondArea = maxArea
			maxArea = a
		} else if a > secondArea {
			secondArea = a
		}
	}

	noOuter := maxArea <= cfg.HullNoOuterAreaFrac*sourceBBoxArea
	if noOuter {
		weakMax := maxArea <= cfg.HullWeakMaxAreaFrac*sourceBBoxArea
		strongContainer := hasStrongContainer(cfg, loops, areas, secondArea, sourceBBoxArea)
		if weakMax || !strongContainer {
			hull := geomutil.ConvexHull(allPoints)
			if len(hull) >= 3 {
				return append(append([]model.Loop(nil), loops...), model.Loop{OpenPts: hull}), true
			}
		}
	}

	if fragmented, tiny := fragmentedSheet(cfg, loops, areas, sourceBBoxArea); fragmented {
		hull := geomutil.ConvexHull(allPoints)
		if len(hull) >= 3 {
			return append(tiny, model.Loop{OpenPts: hull}), true
		}
	}

	return loops, false
}

func hasStrongContainer(cfg config.Config, loops []model.Loop, areas []float64, secondArea, sourceBBoxArea float64) bool {
	minOther := cfg.HullContainerMinOther
	if minOther > len(loops)-1 {
		minOther = len(loops) - 1
	}
	for i, l := range loops {
		if areas[i] < cfg.HullContainerAreaMult*secondArea && areas[i] < cfg.HullContainerAreaFrac*sourceBBoxArea {
			continue
		}
		contained := 0
		for j, other := range loops {
			if i == j {
				continue
			}
			sample, ok := hierarchy.InteriorSample(other.OpenPts)
			if ok && geomutil.PointInPolygon(sample, l.OpenPts) {
				contained++
			}
		}
		if contained >= minOther && (areas[i] >= cfg.HullContainerAreaMult*secondArea || areas[i] >= cfg.HullContainerAreaFrac*sourceBBoxArea) {
			return true
		}
	}
	return false
}

func fragmentedSheet(cfg config.Config, loops []model.Loop, areas []float64, sourceBBoxArea float64) (bool, []model.Loop) {
	var all []model.Point
	for _, l := range loops {
		all = append(all, l.OpenPts...)
	}
	if len(all) == 0 {
		return false, nil
	}
	min, max := model.BoundingBox(all)
	minSide := math.Max(1, math.Min(max.X-min.X, max.Y-min.Y))
	touchTol := math.Max(cfg.FragmentBBoxTouchMin, minSide*cfg.FragmentBBoxTouchFactor)

	var roots []int
	for i, l := range loops {
		if l.Depth == 0 {
			roots = append(roots, i)
		}
	}
	if len(roots) == 0 {
		for i := range loops {
			roots = append(roots, i)
		}
	}

	touching := 0
	largestRoot := 0.0
	for _, i := range roots {
		lmin, lmax := model.BoundingBox(loops[i].OpenPts)
		if lmin.X-min.X <= touchTol || lmin.Y-min.Y <= touchTol ||
			max.X-lmax.X <= touchTol || max.Y-lmax.Y <= touchTol {
			touching++
		}
		if areas[i] > largestRoot {
			largestRoot = areas[i]
		}
	}
	if touching < cfg.FragmentMinRoots {
		return false, nil
	}
	if largestRoot >= cfg.FragmentMaxRootFrac*sourceBBoxArea {
		return false, nil
	}

	var tiny []model.Loop
	for i, l := range loops {
		if areas[i] <= cfg.FragmentTinyAreaFrac*sourceBBoxArea {
			tiny = append(tiny, l)
		}
	}
	if len(tiny) < cfg.FragmentMinTiny {
		return false, nil
	}
	return true, tiny
}

// ArtifactFilter implements §4.8: once shapes have been assembled, when
// the dominant (largest-outer-area) shape is itself a dense perforated
// pattern, non-dominant shapes nested inside it are pruned unless they
// pass the spec's overlay-plausibility test, with an optional total
// collapse to the dominant shape alone.
func ArtifactFilter(cfg config.Config, shapes []model.Shape, sourceBBoxArea float64) []model.Shape {
	if len(shapes) <= 1 {
		return shapes
	}

	domIdx := 0
	domArea := geomutil.Area(shapes[0].Outer)
	for i := 1; i < len(shapes); i++ {
		a := geomutil.Area(shapes[i].Outer)
		if a > domArea {
			domArea = a
			domIdx = i
		}
	}
	dominant := shapes[domIdx]
	domHoles := len(dominant.Holes)
	if domHoles < cfg.ArtifactMinHoles || domArea <= 0 || sourceBBoxArea <= 0 ||
		domArea < cfg.ArtifactMinAreaFrac*sourceBBoxArea {
		return shapes
	}

	domDensity := float64(domHoles) / domArea

	kept := []model.Shape{dominant}
	var survivorsInside []model.Shape
	for i, s := range shapes {
		if i == domIdx {
			continue
		}
		sample, ok := hierarchy.InteriorSample(s.Outer)
		inside := ok && geomutil.PointInPolygon(sample, dominant.Outer)
		if !inside {
			kept = append(kept, s)
			continue
		}

		area := geomutil.Area(s.Outer)
		areaRatio := 0.0
		if domArea > 0 {
			areaRatio = area / domArea
		}
		holes := len(s.Holes)
		density := 0.0
		if area > 0 {
			density = float64(holes) / area
		}
		densityRatio := 0.0
		if domDensity > 0 {
			densityRatio = density / domDensity
		}
		bboxOverlap := geomutil.BBoxOverlapFraction(dominant.Outer, s.Outer)

		pass := areaRatio >= cfg.ArtifactAreaRatioLo && areaRatio <= cfg.ArtifactAreaRatioHi &&
			(densityRatio < cfg.ArtifactDensityRatio || holes <= cfg.ArtifactMaxOwnHoles) &&
			(areaRatio >= cfg.ArtifactAreaRatioMid || bboxOverlap >= cfg.ArtifactBBoxOverlap || holes <= 1)

		if pass {
			kept = append(kept, s)
			survivorsInside = append(survivorsInside, s)
		}
		// failed candidates are dropped: not appended to kept
	}

	if len(survivorsInside) > 0 && len(survivorsInside)+1 == len(kept) && domHoles >= cfg.ArtifactCollapseMinHoles {
		for _, s := range survivorsInside {
			area := geomutil.Area(s.Outer)
			areaRatio := area / domArea
			density := float64(len(s.Holes)) / math.Max(area, 1e-12)
			densityRatio := density / math.Max(domDensity, 1e-12)
			if areaRatio >= cfg.ArtifactCollapseAreaRatio && densityRatio < cfg.ArtifactCollapseDensity {
				return []model.Shape{dominant}
			}
		}
	}

	return kept
}
