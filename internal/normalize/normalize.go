// Package normalize converts typed input primitives into a uniform set
// of model.Contour values, discretizing curvature to line segments.
// Grounded on the teacher's internal/importer/dxf.go: bulgeArcPoints,
// circleToOutline and arcToPoints supply the chord/sagitta/radius math;
// here it is driven by the spec's explicit sagitta-tolerance formula
// instead of the teacher's fixed segment counts.
package normalize

import (
	"fmt"
	"math"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/geomutil"
	"github.com/cadkit/contourkit/internal/model"
)

// DegeneratePrimitive is returned when a primitive yields fewer than 2
// valid points (spec §4.1).
type DegeneratePrimitive struct {
	Index int
	Kind  model.PrimitiveKind
}

func (e *DegeneratePrimitive) Error() string {
	return fmt.Sprintf("degenerate primitive at index %d (kind %d)", e.Index, e.Kind)
}

// Normalize discretizes every primitive into a Contour. Primitives that
// are structurally invalid (non-finite coordinates, non-positive
// radius, empty vertex list) are dropped silently, matching spec §7's
// InvalidPrimitive policy; primitives that discretize to <2 points
// produce a DegeneratePrimitive error collected in errs but do not stop
// processing of the rest of the stream.
func Normalize(cfg config.Config, prims []model.Primitive) (contours []model.Contour, errs []error) {
	for i, p := range prims {
		if !primitiveFinite(p) {
			continue
		}
		c, err := normalizeOne(cfg, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("primitive %d: %w", i, err))
			continue
		}
		if c.Len() < 2 {
			errs = append(errs, &DegeneratePrimitive{Index: i, Kind: p.Kind})
			continue
		}
		contours = append(contours, c)
	}
	return contours, errs
}

func primitiveFinite(p model.Primitive) bool {
	switch p.Kind {
	case model.KindLine:
		return p.LineA.IsFinite() && p.LineB.IsFinite()
	case model.KindArc, model.KindCircle:
		return p.Center.IsFinite() && p.Radius > 0 &&
			!math.IsNaN(p.StartDeg) && !math.IsNaN(p.EndDeg)
	case model.KindPolyline:
		if len(p.Vertices) < 2 {
			return false
		}
		for _, v := range p.Vertices {
			if !v.P.IsFinite() {
				return false
			}
		}
		return true
	case model.KindSpline:
		pts := p.ControlPoints
		if len(pts) < 2 {
			pts = p.FitPoints
		}
		if len(pts) < 2 {
			return false
		}
		for _, q := range pts {
			if !q.IsFinite() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func normalizeOne(cfg config.Config, p model.Primitive) (model.Contour, error) {
	switch p.Kind {
	case model.KindLine:
		return model.Contour{Points: []model.Point{p.LineA, p.LineB}, Closed: false}, nil
	case model.KindArc:
		return arcContour(cfg, p), nil
	case model.KindCircle:
		return circleContour(cfg, p), nil
	case model.KindPolyline:
		return polylineContour(cfg, p), nil
	case model.KindSpline:
		return splineContour(p), nil
	default:
		return model.Contour{}, fmt.Errorf("unknown primitive kind %d", p.Kind)
	}
}

// sagitta returns the chord-tolerance cap for a discretization of radius
// r: the larger of MaxSagitta and MinSagitta, capped at r/2 (so below
// MinSagitta when r < 2*MinSagitta), per spec §4.1.
func sagitta(cfg config.Config, r float64) float64 {
	s := math.Min(cfg.MaxSagitta, cfg.MinSagitta)
	// Spec: s = min(max(0.35, 0.05), r*0.5) -- the max(0.35,0.05) term is
	// a fixed constant (0.35); only the r*0.5 bound actually varies.
	fixed := math.Max(cfg.MaxSagitta, cfg.MinSagitta)
	s = math.Min(fixed, r*0.5)
	if s <= 0 {
		s = cfg.MinSagitta
	}
	return s
}

// stepAngleAndCount computes the discretization step angle (radians)
// and step count for an arc of radius r sweeping sweepDeg degrees.
func stepAngleAndCount(cfg config.Config, r, sweepDeg float64) (stepRad float64, steps int) {
	s := sagitta(cfg, r)
	ratio := geomutil.Clamp(1-s/r, -1, 1)
	step := math.Max(2*math.Acos(ratio), cfg.MinStepDeg*math.Pi/180)
	if step <= 0 {
		step = cfg.MinStepDeg * math.Pi / 180
	}
	sweepRad := math.Abs(sweepDeg) * math.Pi / 180
	n := int(math.Ceil(sweepRad / step))
	if n < cfg.MinSteps {
		n = cfg.MinSteps
	}
	if n > cfg.MaxSteps {
		n = cfg.MaxSteps
	}
	return step, n
}

func arcContour(cfg config.Config, p model.Primitive) model.Contour {
	sweep := p.EndDeg - p.StartDeg
	for sweep <= 0 {
		sweep += 360
	}
	_, steps := stepAngleAndCount(cfg, p.Radius, sweep)

	startRad := p.StartDeg * math.Pi / 180
	sweepRad := sweep * math.Pi / 180

	pts := make([]model.Point, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		angle := startRad + t*sweepRad
		pts[i] = model.Point{
			X: p.Center.X + p.Radius*math.Cos(angle),
			Y: p.Center.Y + p.Radius*math.Sin(angle),
		}
	}
	// Full-circle arcs (sweep == 360 after normalization started at 0)
	// close implicitly; otherwise an arc is always open per spec §4.1.
	closed := math.Abs(sweep-360) < 1e-9
	if closed {
		pts = pts[:len(pts)-1]
	}
	return model.Contour{Points: pts, Closed: closed}
}

func circleContour(cfg config.Config, p model.Primitive) model.Contour {
	n := cfg.CircleSegments
	if n < 12 {
		n = 12
	}
	// Tangential chord error check: raise the vertex count until each step
	// angle is at most 2*acos(1-s/r), so the chord sagitta stays <= s
	// (spec §4.1 "tangential chord error <= s").
	s := sagitta(cfg, p.Radius)
	maxStep := 2 * math.Acos(geomutil.Clamp(1-s/p.Radius, -1, 1))
	if maxStep > 0 {
		need := int(math.Ceil(2 * math.Pi / maxStep))
		if need > n {
			n = need
		}
	}
	if n > cfg.MaxSteps {
		n = cfg.MaxSteps
	}
	pts := make([]model.Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = model.Point{
			X: p.Center.X + p.Radius*math.Cos(angle),
			Y: p.Center.Y + p.Radius*math.Sin(angle),
		}
	}
	return model.Contour{Points: pts, Closed: true}
}

// polylineContour discretizes each bulge segment between consecutive
// vertices, per spec §4.1. Straight segments (|bulge| < 1e-12) are
// emitted directly.
func polylineContour(cfg config.Config, p model.Primitive) model.Contour {
	n := len(p.Vertices)
	var pts []model.Point

	segCount := n
	if !p.ClosedFlag {
		segCount = n - 1
	}

	for i := 0; i < segCount; i++ {
		v1 := p.Vertices[i]
		v2 := p.Vertices[(i+1)%n]
		pts = append(pts, v1.P)
		if math.Abs(v1.Bulge) >= 1e-12 {
			pts = append(pts, bulgeArcPoints(cfg, v1.P, v2.P, v1.Bulge)...)
		}
	}
	if !p.ClosedFlag {
		pts = append(pts, p.Vertices[n-1].P)
	}

	closed := p.ClosedFlag
	if !closed && n > 0 {
		first, last := p.Vertices[0].P, p.Vertices[n-1].P
		if first.Dist(last) < 1e-6 {
			closed = true
		}
	}
	if closed && len(pts) > 1 && pts[0].Dist(pts[len(pts)-1]) < 1e-9 {
		pts = pts[:len(pts)-1]
	}
	return model.Contour{Points: pts, Closed: closed}
}

// bulgeArcPoints generates the interior points of a bulge arc between
// p1 and p2 (excluding p1, including p2), following the teacher's
// bulgeArcPoints chord/sagitta/center math (dxf.go), driven by the
// spec's explicit step-count formula.
func bulgeArcPoints(cfg config.Config, p1, p2 model.Point, bulge float64) []model.Point {
	theta := 4 * math.Atan(bulge)
	chord := p1.Dist(p2)
	if chord < 1e-9 {
		return nil
	}

	halfTheta := theta / 2
	sinHalf := math.Sin(halfTheta)
	if math.Abs(sinHalf) < 1e-12 {
		return []model.Point{p2}
	}
	radius := chord / (2 * sinHalf)
	r := math.Abs(radius)

	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	sagittaVal := r - math.Sqrt(math.Max(r*r-(chord/2)*(chord/2), 0))
	perpX := -dy / chord
	perpY := dx / chord
	sign := 1.0
	if bulge < 0 {
		sign = -1.0
	}
	dist := r - sagittaVal
	cx := mx + sign*perpX*dist
	cy := my + sign*perpY*dist
	center := model.Point{X: cx, Y: cy}

	startAngle := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	endAngle := startAngle + theta

	chordTol := 0.05
	steps := int(math.Max(2, math.Ceil(math.Abs(theta)*r/math.Max(chordTol, 0.05))))
	if steps > cfg.MaxSteps {
		steps = cfg.MaxSteps
	}

	pts := make([]model.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Point{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		})
	}
	// Preserve the endpoint exactly, per spec §4.1 "Endpoints preserved
	// exactly".
	pts[len(pts)-1] = p2
	return pts
}

// splineContour polylines through control points, falling back to fit
// points when fewer than 2 control points are given. No knot/weight
// math is performed -- an intentional loss of accuracy kept for
// compatibility per spec §9 / design note D.
func splineContour(p model.Primitive) model.Contour {
	pts := p.ControlPoints
	if len(pts) < 2 {
		pts = p.FitPoints
	}
	closed := p.ClosedFlag
	if !closed && len(pts) > 0 {
		if pts[0].Dist(pts[len(pts)-1]) < 1e-6 {
			closed = true
		}
	}
	cp := append([]model.Point(nil), pts...)
	if closed && len(cp) > 1 && cp[0].Dist(cp[len(cp)-1]) < 1e-9 {
		cp = cp[:len(cp)-1]
	}
	return model.Contour{Points: cp, Closed: closed}
}
