// Package pipeline wires the normalize -> clean -> loopx -> compound ->
// hierarchy -> assemble stages into the single end-to-end entry point
// (spec §2, §4.11): Run takes raw primitives and returns a Document plus
// a diagnostics log. Grounded on the teacher's top-level ImportDXF
// (internal/importer/dxf.go): one function sequencing sub-steps,
// collecting warnings, and early-returning on an empty result -- the
// only propagated failure here, as in ImportDXF, is "nothing usable was
// found" (diagnostics.EmptyDocument mirrors ImportDXF's "No closed
// shapes found in DXF file" error path).
package pipeline

import (
	"github.com/cadkit/contourkit/internal/assemble"
	"github.com/cadkit/contourkit/internal/clean"
	"github.com/cadkit/contourkit/internal/compound"
	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/diagnostics"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/hierarchy"
	"github.com/cadkit/contourkit/internal/loopx"
	"github.com/cadkit/contourkit/internal/model"
	"github.com/cadkit/contourkit/internal/normalize"

	"github.com/google/uuid"
)

// Run executes the full reconstruction pipeline over a stream of raw
// primitives, returning the assembled Document and a diagnostics log.
// The only propagated error is diagnostics.EmptyDocument (spec §7); all
// other degeneracies are recorded in the log and manifest as a
// possibly-empty Shapes slice.
func Run(cfg config.Config, prims []model.Primitive) (model.Document, *diagnostics.Log, error) {
	log := &diagnostics.Log{}

	contours, normErrs := normalize.Normalize(cfg, prims)
	for _, err := range normErrs {
		log.Add(diagnostics.NoClosedEntity, "%v", err)
	}
	if len(contours) == 0 {
		return model.Document{}, log, &diagnostics.EmptyDocument{Reason: "no valid primitives after normalization"}
	}

	hasClosed := false
	for _, c := range contours {
		if c.Closed {
			hasClosed = true
			break
		}
	}
	if !hasClosed {
		log.Add(diagnostics.NoClosedEntity, "input contains no closed entities; relying on contour stitching")
	}

	sourceMin, sourceMax := contoursBBox(contours)
	sourceBBoxArea := (sourceMax.X - sourceMin.X) * (sourceMax.Y - sourceMin.Y)

	cleaned := clean.Clean(cfg, contours)
	cleaned = applyReparsePolicy(cfg, contours, cleaned, sourceBBoxArea, log)
	if len(cleaned) == 0 {
		return model.Document{}, log, &diagnostics.EmptyDocument{Reason: "no contours survived cleaning"}
	}

	min, max := contoursBBox(cleaned)
	width, height := max.X-min.X, max.Y-min.Y
	if width <= 1e-9 || height <= 1e-9 {
		return model.Document{}, log, &diagnostics.EmptyDocument{Reason: "degenerate bounding box"}
	}
	normalized := translateContours(cleaned, -min.X, -min.Y)
	normSourceArea := width * height

	loops, usedFallback := loopx.Extract(cfg, normalized)
	if usedFallback {
		log.Add(diagnostics.AutoClosedOpenPolylines, "loop extraction fell back to distance-based stitching")
	}
	loops = compound.SplitAll(cfg, loops)

	var shapes []model.Shape
	if dense, ok := assemble.DenseFastPath(cfg, loops, normSourceArea); ok {
		log.Add(diagnostics.DenseFastPathTaken, "dense perforation fast path emitted %d holes", len(dense.Holes))
		shapes = []model.Shape{dense}
	} else {
		hierarchy.Resolve(cfg, loops)
		hierarchy.NormalizePseudoHoles(cfg, loops)

		var allPoints []model.Point
		for _, l := range loops {
			allPoints = append(allPoints, l.OpenPts...)
		}
		if newLoops, triggered := assemble.HullGate(cfg, loops, allPoints, normSourceArea); triggered {
			log.Add(diagnostics.UsedHullFallback, "injected a convex hull boundary")
			loops = newLoops
			hierarchy.Resolve(cfg, loops)
			hierarchy.NormalizePseudoHoles(cfg, loops)
		}

		shapes = assemble.Assemble(loops)
		shapes = assemble.ArtifactFilter(cfg, shapes, normSourceArea)
	}

	if len(shapes) == 0 {
		log.Add(diagnostics.NoClosedEntity, "no loops formed a closed region")
	}

	doc := model.Document{
		ID:                   uuid.New().String()[:8],
		Width:                width,
		Height:               height,
		Shapes:               shapes,
		PrimarySelectionLoop: primarySelectionLoop(shapes, normalized),
	}
	return doc, log, nil
}

// applyReparsePolicy implements spec §4.11: when the cleaned contour set
// has at least ReparseMinOpenContours open contours and no closed
// contour covers a meaningful fraction of the source bounding box, the
// cluster filter is suspected of discarding a LINE/ARC-only border, so
// the cleaner re-runs with the cluster filter skipped.
func applyReparsePolicy(cfg config.Config, raw, cleaned []model.Contour, sourceBBoxArea float64, log *diagnostics.Log) []model.Contour {
	if sourceBBoxArea <= 0 {
		return cleaned
	}
	openCount := 0
	maxClosedArea := 0.0
	for _, c := range cleaned {
		if !c.Closed {
			openCount++
			continue
		}
		if a := geomutil.Area(c.Points); a > maxClosedArea {
			maxClosedArea = a
		}
	}
	if openCount < cfg.ReparseMinOpenContours || maxClosedArea >= cfg.ReparseMaxClosedFrac*sourceBBoxArea {
		return cleaned
	}

	raw2 := clean.CleanRaw(cfg, raw)
	if len(raw2) == 0 {
		return cleaned
	}
	log.Add(diagnostics.ReparsedAsRawLineArc, "reparsed in raw LINE/ARC mode, skipping the cluster filter")
	return raw2
}

func contoursBBox(contours []model.Contour) (min, max model.Point) {
	var all []model.Point
	for _, c := range contours {
		all = append(all, c.Points...)
	}
	return model.BoundingBox(all)
}

func translateContours(contours []model.Contour, dx, dy float64) []model.Contour {
	out := make([]model.Contour, len(contours))
	for i, c := range contours {
		out[i] = model.Contour{Points: model.Translate(c.Points, dx, dy), Closed: c.Closed}
	}
	return out
}

// primarySelectionLoop returns the largest-area shape outline, or the
// convex hull of all contour points when no shape was produced (spec §6).
func primarySelectionLoop(shapes []model.Shape, contours []model.Contour) []model.Point {
	if len(shapes) > 0 {
		bestIdx := 0
		bestArea := geomutil.Area(shapes[0].Outer)
		for i := 1; i < len(shapes); i++ {
			if a := geomutil.Area(shapes[i].Outer); a > bestArea {
				bestArea = a
				bestIdx = i
			}
		}
		return shapes[bestIdx].Outer
	}

	var all []model.Point
	for _, c := range contours {
		all = append(all, c.Points...)
	}
	hull := geomutil.ConvexHull(all)
	if len(hull) < 3 {
		return nil
	}
	return hull
}
