package signature

import "math"

// Standard aspect ratios used for the regularity component: square, 4:3,
// 3:2 and 16:9.
var standardRatios = []float64{1.0, 1.33, 1.5, 1.78}

// QualityScore combines resolution, aspect-ratio regularity, contrast and
// sharpness into one 0-100 score. Each component is clamped before summation
// and the result is clamped again.
func QualityScore(width, height int, a *Appearance) int {
	if width <= 0 || height <= 0 || a == nil {
		return 0
	}

	score := resolutionScore(width * height)
	score += aspectRatioScore(float64(width) / float64(height))
	score += contrastScore(a.Contrast)
	score += sharpnessScore(a.Sharpness)

	return int(clamp(score, 0, 100))
}

// resolutionScore awards up to 40 points: full marks at 4MP and above,
// 30 at 1MP, and a linear ramp below that.
func resolutionScore(pixels int) float64 {
	switch {
	case pixels >= 4_000_000:
		return 40
	case pixels >= 1_000_000:
		return 30
	default:
		return clamp(float64(pixels)/1_000_000*30, 0, 30)
	}
}

// aspectRatioScore awards 20 points when the ratio sits within 0.1 of the
// nearest standard ratio, 15 otherwise.
func aspectRatioScore(ratio float64) float64 {
	best := math.Inf(1)
	for _, std := range standardRatios {
		if d := math.Abs(ratio - std); d < best {
			best = d
		}
	}
	if best <= 0.1 {
		return 20
	}
	return 15
}

// contrastScore scales the BT.601 luma range fraction onto 0-20.
func contrastScore(contrast float64) float64 {
	return clamp(contrast*20, 0, 20)
}

// sharpnessScore scales the 0-100 sharpness metric onto 0-20.
func sharpnessScore(sharpness int) float64 {
	return clamp(float64(sharpness)*0.2, 0, 20)
}
