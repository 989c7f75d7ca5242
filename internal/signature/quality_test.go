package signature

import (
	"image/color"
	"testing"
)

func TestResolutionScore(t *testing.T) {
	tests := []struct {
		name     string
		pixels   int
		expected float64
	}{
		{"12MP", 12_000_000, 40},
		{"exactly 4MP", 4_000_000, 40},
		{"2MP", 2_000_000, 30},
		{"exactly 1MP", 1_000_000, 30},
		{"half MP", 500_000, 15},
		{"tiny", 100_000, 3},
		{"zero", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := resolutionScore(tc.pixels)
			if result != tc.expected {
				t.Errorf("resolutionScore(%d) = %f; want %f", tc.pixels, result, tc.expected)
			}
		})
	}
}

func TestResolutionScoreMonotonic(t *testing.T) {
	// More pixels never scores lower.
	steps := []int{0, 100_000, 500_000, 999_999, 1_000_000, 2_500_000, 4_000_000, 20_000_000}
	prev := -1.0
	for _, pixels := range steps {
		score := resolutionScore(pixels)
		if score < prev {
			t.Errorf("resolutionScore(%d) = %f dropped below %f", pixels, score, prev)
		}
		prev = score
	}
}

func TestAspectRatioScore(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected float64
	}{
		{"square", 1.0, 20},
		{"4:3", 1.3333, 20},
		{"3:2", 1.5, 20},
		{"16:9", 1.7778, 20},
		{"near 3:2", 1.45, 20},
		{"panorama", 2.5, 15},
		{"odd crop", 1.2, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := aspectRatioScore(tc.ratio)
			if result != tc.expected {
				t.Errorf("aspectRatioScore(%f) = %f; want %f", tc.ratio, result, tc.expected)
			}
		})
	}
}

func TestContrastScore(t *testing.T) {
	tests := []struct {
		name     string
		contrast float64
		expected float64
	}{
		{"full range", 1.0, 20},
		{"half range", 0.5, 10},
		{"flat", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := contrastScore(tc.contrast)
			if result != tc.expected {
				t.Errorf("contrastScore(%f) = %f; want %f", tc.contrast, result, tc.expected)
			}
		})
	}
}

func TestSharpnessScore(t *testing.T) {
	if got := sharpnessScore(100); got != 20 {
		t.Errorf("sharpnessScore(100) = %f; want 20", got)
	}
	if got := sharpnessScore(0); got != 0 {
		t.Errorf("sharpnessScore(0) = %f; want 0", got)
	}
	if got := sharpnessScore(50); got != 10 {
		t.Errorf("sharpnessScore(50) = %f; want 10", got)
	}
}

func TestQualityScoreBounds(t *testing.T) {
	a := &Appearance{Contrast: 1, Sharpness: 100}
	if got := QualityScore(8000, 6000, a); got > 100 || got < 0 {
		t.Errorf("QualityScore out of bounds: %d", got)
	}

	if got := QualityScore(0, 100, a); got != 0 {
		t.Errorf("QualityScore with zero width = %d; want 0", got)
	}
	if got := QualityScore(100, 100, nil); got != 0 {
		t.Errorf("QualityScore with nil appearance = %d; want 0", got)
	}
}

func TestQualityScoreSolidGrayScenario(t *testing.T) {
	// A 4000x3000 solid gray photo: full resolution component, standard 4:3
	// ratio, but no contrast and no sharpness.
	img := solidImage(4000, 3000, color.RGBA{128, 128, 128, 255})

	a, err := ComputeAppearance(img, DefaultSharpnessCalibration)
	if err != nil {
		t.Fatalf("ComputeAppearance failed: %v", err)
	}

	if got := resolutionScore(4000 * 3000); got != 40 {
		t.Errorf("resolution component = %f; want 40", got)
	}
	if got := aspectRatioScore(4000.0 / 3000.0); got != 20 {
		t.Errorf("aspect component = %f; want 20", got)
	}

	quality := QualityScore(4000, 3000, a)
	// 40 resolution + 20 aspect + ~0 contrast + 0 sharpness.
	if quality < 58 || quality > 62 {
		t.Errorf("solid gray quality = %d; want ~60", quality)
	}
}
