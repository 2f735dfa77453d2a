// Package config holds the tolerances and magic constants used across
// the contour reconstruction pipeline. Every tunable from the algorithm
// design is parameterized here with a default matching the design,
// mirroring the teacher's single CutSettings struct
// (piwi3910/SlabCut/internal/model.CutSettings / DefaultSettings).
package config

// Config bundles every tolerance used by the pipeline stages. Zero value
// is not meaningful; always start from DefaultConfig().
type Config struct {
	// --- normalize (§4.1) ---
	MinSagitta float64 // lower clamp for the arc chord-tolerance sagitta cap
	MaxSagitta float64 // upper clamp for the arc chord-tolerance sagitta cap
	MinStepDeg float64 // minimum arc step angle in degrees
	MinSteps   int     // minimum discretization step count
	MaxSteps   int     // maximum discretization step count
	CircleSegments int // default circle vertex count (approx; sagitta-checked)

	// --- clean (§4.2) ---
	DedupTol          float64 // consecutive-point dedup tolerance
	MinClosedLength    float64 // drop closed contours shorter than this
	MinClosedPoints    int     // drop closed contours with fewer points
	JoinTolMin, JoinTolMax float64
	JoinTolFactor          float64 // joinTol = clamp(minSide*factor, min, max)
	CloseTolFactor         float64 // closeTol = max(joinTol*factor, closeTolMin)
	CloseTolMin            float64
	ClusterGapMin, ClusterGapMax float64
	ClusterGapFactor             float64
	ClusterScoreRatio            float64 // main.score > alt.score * ratio
	ClusterAreaRatio             float64 // main.area  > alt.area  * ratio
	ClusterOverallAreaRatio      float64
	ClusterOverallScoreRatio     float64

	// --- loopx (§4.3) ---
	LoopEpsilons      []float64 // progressive quantization tolerances, tried in order
	FallbackTolMin    float64
	FallbackTolMax    float64
	FallbackTolFactor float64

	// --- compound (§4.4) ---
	CompoundRepeatTol   float64
	CompoundAreaRatioLo float64
	CompoundAreaRatioHi float64
	CompoundEpsilons    []float64
	CompoundQuantMin    float64
	CompoundQuantMax    float64
	CompoundQuantFactor float64

	// --- hierarchy / pseudo-hole (§4.5, §4.6) ---
	MinLoopArea        float64 // margin by which a parent's area must exceed its child's (hierarchy.Resolve); loops are not filtered by area
	PseudoHoleMaxPasses int
	PseudoBBoxTol       float64
	PseudoAreaRatioHi   float64
	PseudoTinyAreaRatio float64
	PseudoMinTinySiblingsA int // >= 6 tiny siblings path
	PseudoMinTinySiblingsB int // >= 8 tiny siblings path
	PseudoMinTinySiblingsC int // >= 4 tiny siblings + high ratio path
	PseudoMinDescendants   int
	PseudoInsetFactor      float64 // max(4, min(w,h)*factor)
	PseudoInsetFloor       float64

	// --- dense fast path (§4.7) ---
	DenseMinLoops     int
	DenseOuterAreaFrac float64
	DenseChildAreaFrac float64
	DenseMinChildren   int
	DenseQuantMin      float64
	DenseQuantMax      float64
	DenseQuantFactor   float64
	DenseMinDedupHoles int

	// --- artifact-overlay filter (§4.8) ---
	ArtifactMinHoles        int
	ArtifactMinAreaFrac     float64
	ArtifactAreaRatioLo     float64
	ArtifactAreaRatioMid    float64 // secondary areaRatio threshold in the final OR clause
	ArtifactAreaRatioHi     float64
	ArtifactDensityRatio    float64
	ArtifactMaxOwnHoles     int
	ArtifactBBoxOverlap     float64
	ArtifactCollapseAreaRatio  float64
	ArtifactCollapseDensity    float64
	ArtifactCollapseMinHoles   int

	// --- hull fallback gate (§4.9) ---
	HullNoOuterAreaFrac    float64
	HullWeakMaxAreaFrac    float64
	HullContainerMinOther  int
	HullContainerAreaMult  float64
	HullContainerAreaFrac  float64
	FragmentMinRoots       int
	FragmentBBoxTouchMin   float64
	FragmentBBoxTouchFactor float64
	FragmentMinTiny        int
	FragmentTinyAreaFrac   float64
	FragmentMaxRootFrac    float64

	// --- reparse policy (§4.11) ---
	ReparseMinOpenContours int
	ReparseMaxClosedFrac   float64

	// --- batch (§5) ---
	MaxWorkers int // 0 = runtime.NumCPU()
}

// DefaultConfig returns the tolerances specified by the algorithm design,
// ready to use as-is or to override selectively.
func DefaultConfig() Config {
	return Config{
		MinSagitta:     0.05,
		MaxSagitta:     0.35,
		MinStepDeg:     3,
		MinSteps:       6,
		MaxSteps:       2048,
		CircleSegments: 72,

		DedupTol:       1e-5,
		MinClosedLength: 0.10,
		MinClosedPoints: 3,
		JoinTolMin:      0.03,
		JoinTolMax:      0.45,
		JoinTolFactor:   0.0018,
		CloseTolFactor:  1.35,
		CloseTolMin:     0.05,

		ClusterGapMin:            0.5,
		ClusterGapMax:            20,
		ClusterGapFactor:         0.05,
		ClusterScoreRatio:        2.4,
		ClusterAreaRatio:         1.8,
		ClusterOverallAreaRatio:  1.45,
		ClusterOverallScoreRatio: 1.6,

		LoopEpsilons:      []float64{1e-4, 1e-2, 5e-2},
		FallbackTolMin:    0.05,
		FallbackTolMax:    0.6,
		FallbackTolFactor: 0.005,

		CompoundRepeatTol:   1e-4,
		CompoundAreaRatioLo: 0.42,
		CompoundAreaRatioHi: 1.08,
		CompoundEpsilons:    []float64{1e-4, 5e-4},
		CompoundQuantMin:    1e-4,
		CompoundQuantMax:    0.5,
		CompoundQuantFactor: 0.15,

		MinLoopArea:            1e-8,
		PseudoHoleMaxPasses:    8,
		PseudoBBoxTol:          1e-4,
		PseudoAreaRatioHi:      0.70,
		PseudoTinyAreaRatio:    0.02,
		PseudoMinTinySiblingsA: 6,
		PseudoMinTinySiblingsB: 8,
		PseudoMinTinySiblingsC: 4,
		PseudoMinDescendants:   6,
		PseudoInsetFactor:      0.06,
		PseudoInsetFloor:       4,

		DenseMinLoops:      220,
		DenseOuterAreaFrac: 0.30,
		DenseChildAreaFrac: 0.02,
		DenseMinChildren:   120,
		DenseQuantMin:      1e-4,
		DenseQuantMax:      0.25,
		DenseQuantFactor:   0.03,
		DenseMinDedupHoles: 90,

		ArtifactMinHoles:          80,
		ArtifactMinAreaFrac:       0.35,
		ArtifactAreaRatioLo:       0.04,
		ArtifactAreaRatioMid:      0.16,
		ArtifactAreaRatioHi:       0.98,
		ArtifactDensityRatio:      0.35,
		ArtifactMaxOwnHoles:       2,
		ArtifactBBoxOverlap:       0.45,
		ArtifactCollapseAreaRatio: 0.10,
		ArtifactCollapseDensity:   0.45,
		ArtifactCollapseMinHoles:  160,

		HullNoOuterAreaFrac:    0.05,
		HullWeakMaxAreaFrac:    0.01,
		HullContainerMinOther:  3,
		HullContainerAreaMult:  6,
		HullContainerAreaFrac:  0.002,
		FragmentMinRoots:       3,
		FragmentBBoxTouchMin:   4,
		FragmentBBoxTouchFactor: 0.06,
		FragmentMinTiny:        6,
		FragmentTinyAreaFrac:   0.002,
		FragmentMaxRootFrac:    0.45,

		ReparseMinOpenContours: 2,
		ReparseMaxClosedFrac:   0.02,

		MaxWorkers: 0,
	}
}
