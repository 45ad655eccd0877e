package schemas

import "math"

// Confidence bounds. Scores are clamped so the system never reports false
// certainty (above ceiling) or false failure (below floor).
const (
	ConfidenceFloor   = 40
	ConfidenceCeiling = 95
)

// ConfidenceBreakdown carries per-dimension confidence scores and the overall
// score derived from them. Overall is always computed from the breakdown;
// an LLM-asserted top-level confidence number is never trusted.
type ConfidenceBreakdown struct {
	Overall   int            `json:"overall"`
	Breakdown map[string]int `json:"breakdown"`
}

// NewConfidence computes the overall score as the clamped mean of the
// breakdown dimensions. Dimension values are individually clamped to [0,100]
// before averaging.
func NewConfidence(breakdown map[string]int) ConfidenceBreakdown {
	clamped := make(map[string]int, len(breakdown))
	sum := 0
	for dim, v := range breakdown {
		cv := ClampScore(v)
		clamped[dim] = cv
		sum += cv
	}

	overall := ConfidenceFloor
	if len(clamped) > 0 {
		overall = ClampConfidence(int(math.Round(float64(sum) / float64(len(clamped)))))
	}

	return ConfidenceBreakdown{
		Overall:   overall,
		Breakdown: clamped,
	}
}

// FloorConfidence returns a breakdown with every dimension at the floor.
// Used by fallback outputs so degraded results are distinguishable by score.
func FloorConfidence(dimensions ...string) ConfidenceBreakdown {
	breakdown := make(map[string]int, len(dimensions))
	for _, dim := range dimensions {
		breakdown[dim] = ConfidenceFloor
	}
	return NewConfidence(breakdown)
}

// ClampConfidence bounds an overall confidence score to [floor,ceiling].
func ClampConfidence(v int) int {
	return clampInt(v, ConfidenceFloor, ConfidenceCeiling)
}

// ClampScore bounds a score to [0,100].
func ClampScore(v int) int {
	return clampInt(v, 0, 100)
}

// ClampRiskScore bounds an overall risk score to [10,95].
func ClampRiskScore(v float64) float64 {
	if v < 10 {
		return 10
	}
	if v > 95 {
		return 95
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
