package signature

import (
	"errors"
	"image"
	"testing"
)

func TestAnalyzeFullSignature(t *testing.T) {
	analyzer := NewAnalyzer()
	img := gradientImage(400, 300)

	sig, err := analyzer.Analyze("photo-1", img)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if sig.PhotoID != "photo-1" {
		t.Errorf("PhotoID = %q; want photo-1", sig.PhotoID)
	}
	if len(sig.PHash) != 16 {
		t.Errorf("PHash should be 16 hex characters, got %q", sig.PHash)
	}
	if sig.PHash != FormatHash(sig.PHashBits) {
		t.Errorf("PHash %q does not match bits %016X", sig.PHash, sig.PHashBits)
	}
	if sig.Width != 400 || sig.Height != 300 {
		t.Errorf("dimensions = %dx%d; want 400x300", sig.Width, sig.Height)
	}
	if sig.AspectRatio < 1.33 || sig.AspectRatio > 1.34 {
		t.Errorf("aspect ratio = %f; want ~1.333", sig.AspectRatio)
	}
	if sig.Quality < 0 || sig.Quality > 100 {
		t.Errorf("quality out of range: %d", sig.Quality)
	}
	if sig.Luminance < 0 || sig.Luminance > 100 {
		t.Errorf("luminance out of range: %d", sig.Luminance)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	// Recomputing the same photo must yield bit-identical output.
	analyzer := NewAnalyzer()
	img := gradientImage(200, 200)

	first, err := analyzer.Analyze("photo-1", img)
	if err != nil {
		t.Fatalf("first Analyze failed: %v", err)
	}
	second, err := analyzer.Analyze("photo-1", img)
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}

	if first.PHashBits != second.PHashBits ||
		first.Luminance != second.Luminance ||
		first.Chroma != second.Chroma ||
		first.Quality != second.Quality ||
		first.Sharpness != second.Sharpness ||
		first.SharpnessVariance != second.SharpnessVariance ||
		first.DominantColor != second.DominantColor {
		t.Errorf("analysis not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeEmptyBitmap(t *testing.T) {
	analyzer := NewAnalyzer()

	if _, err := analyzer.Analyze("photo-1", nil); !errors.Is(err, ErrEmptyBitmap) {
		t.Errorf("expected ErrEmptyBitmap for nil image, got %v", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := analyzer.Analyze("photo-1", empty); !errors.Is(err, ErrEmptyBitmap) {
		t.Errorf("expected ErrEmptyBitmap for zero-size image, got %v", err)
	}
}

func TestNewAnalyzerWithCalibrationFallback(t *testing.T) {
	a := NewAnalyzerWithCalibration(-1)
	if a.calibration != DefaultSharpnessCalibration {
		t.Errorf("calibration = %f; want default %f", a.calibration, DefaultSharpnessCalibration)
	}
}
