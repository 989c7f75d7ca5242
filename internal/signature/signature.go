// Package signature computes per-photo perceptual signatures: a 64-bit
// DCT-based hash for near-duplicate detection, appearance metrics and a
// composite quality score. All computations are pure functions of the pixel
// data - the same bitmap always yields a bit-identical signature.
package signature

import (
	"fmt"
	"image"
)

// Signature is the immutable analysis result for one photo. It is created by
// a single analysis pass and recomputed only when the underlying bytes
// change, which the caller detects.
type Signature struct {
	PhotoID string `json:"photo_id"`

	PHash     string `json:"phash"` // 16 uppercase hex characters
	PHashBits uint64 `json:"-"`     // raw hash for comparison

	DominantColor RGB  `json:"dominant_color"`
	AccentColor   *RGB `json:"accent_color,omitempty"`

	Luminance int `json:"luminance"` // 0-100
	Chroma    int `json:"chroma"`    // 0-100
	Quality   int `json:"quality"`   // 0-100
	Sharpness int `json:"sharpness"` // 0-100

	// SharpnessVariance is the raw Laplacian variance behind the sharpness
	// score, stored so the calibration divisor can change without breaking
	// already persisted scores.
	SharpnessVariance float64 `json:"sharpness_variance"`

	AspectRatio float64 `json:"aspect_ratio"` // width / height
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// Analyzer runs the full analysis pass. The zero value is not usable; use
// NewAnalyzer.
type Analyzer struct {
	calibration float64
}

// NewAnalyzer returns an analyzer with the default sharpness calibration.
func NewAnalyzer() *Analyzer {
	return &Analyzer{calibration: DefaultSharpnessCalibration}
}

// NewAnalyzerWithCalibration returns an analyzer with a custom sharpness
// calibration divisor. Values <= 0 fall back to the default.
func NewAnalyzerWithCalibration(calibration float64) *Analyzer {
	if calibration <= 0 {
		calibration = DefaultSharpnessCalibration
	}
	return &Analyzer{calibration: calibration}
}

// Analyze computes the full signature for one decoded bitmap. A failure
// produces no partial signature.
func (a *Analyzer) Analyze(photoID string, img image.Image) (*Signature, error) {
	if err := validateBitmap(img); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", photoID, err)
	}

	hash, err := ComputePHash(img)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", photoID, err)
	}

	appearance, err := ComputeAppearance(img, a.calibration)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", photoID, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	sig := &Signature{
		PhotoID:           photoID,
		PHash:             FormatHash(hash),
		PHashBits:         hash,
		DominantColor:     appearance.Dominant,
		Luminance:         appearance.Luminance,
		Chroma:            appearance.Chroma,
		Quality:           QualityScore(width, height, appearance),
		Sharpness:         appearance.Sharpness,
		SharpnessVariance: appearance.RawVariance,
		AspectRatio:       float64(width) / float64(height),
		Width:             width,
		Height:            height,
	}
	if appearance.HasAccent {
		accent := appearance.Accent
		sig.AccentColor = &accent
	}

	return sig, nil
}
