// Package dxfimport adapts a DXF file's ENTITIES section into the
// pipeline's []model.Primitive input contract (spec §6). Ported from
// the teacher's ImportDXF entity type-switch in
// internal/importer/dxf.go, stopping at primitive emission: curvature
// discretization, stitching and cleaning all move downstream into
// normalize/clean/loopx per the spec's own pipeline split.
package dxfimport

import (
	"fmt"

	"github.com/cadkit/contourkit/internal/model"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// Load opens a DXF file and converts every supported ENTITIES-section
// entity into a model.Primitive. Layer, color and style fields are
// ignored, matching the tokenizer contract in spec §6. Unsupported
// entity types are silently skipped, matching ImportDXF's behavior.
func Load(path string) ([]model.Primitive, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dxfimport: open %s: %w", path, err)
	}

	var prims []model.Primitive
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.Line:
			prims = append(prims, model.Primitive{
				Kind:  model.KindLine,
				LineA: model.Point{X: e.Start[0], Y: e.Start[1]},
				LineB: model.Point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle:
			prims = append(prims, model.Primitive{
				Kind:   model.KindCircle,
				Center: model.Point{X: e.Center[0], Y: e.Center[1]},
				Radius: e.Radius,
			})

		case *entity.Arc:
			prims = append(prims, model.Primitive{
				Kind:     model.KindArc,
				Center:   model.Point{X: e.Circle.Center[0], Y: e.Circle.Center[1]},
				Radius:   e.Circle.Radius,
				StartDeg: e.Angle[0],
				EndDeg:   e.Angle[1],
			})

		case *entity.LwPolyline:
			prims = append(prims, lwPolylineToPrimitive(e))

		default:
			// Unsupported entity types (text, dimensions, hatches, ...)
			// are silently skipped; layer/color/style are never read.
		}
	}

	return prims, nil
}

// lwPolylineToPrimitive carries each vertex's bulge through unchanged so
// normalize can discretize it per spec §4.1, rather than pre-expanding
// arcs here the way ImportDXF's lwPolylineToOutline does. The library
// exposes no closed-polyline flag in the form ImportDXF consumes, so
// closure is derived from endpoint coincidence, same as normalize's own
// fallback rule for a missing source flag.
func lwPolylineToPrimitive(lw *entity.LwPolyline) model.Primitive {
	vertices := make([]model.PolylineVertex, len(lw.Vertices))
	for i, v := range lw.Vertices {
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		vertices[i] = model.PolylineVertex{P: model.Point{X: v[0], Y: v[1]}, Bulge: bulge}
	}
	closed := false
	if n := len(vertices); n > 1 {
		closed = vertices[0].P.Dist(vertices[n-1].P) < 1e-6
	}
	return model.Primitive{
		Kind:       model.KindPolyline,
		Vertices:   vertices,
		ClosedFlag: closed,
	}
}
