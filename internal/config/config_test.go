package config

import (
	"testing"

	"github.com/tomaskral/photo-engine/internal/faces"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PHOTO_ENGINE_SHARPNESS_CALIBRATION",
		"PHOTO_ENGINE_CONCURRENCY",
		"PHOTO_ENGINE_CHUNK_SIZE",
		"PHOTO_ENGINE_CACHE_SIZE",
		"PHOTO_ENGINE_FACE_PROFILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Analysis.SharpnessCalibration != 500 {
		t.Errorf("SharpnessCalibration = %f; want 500", cfg.Analysis.SharpnessCalibration)
	}
	if cfg.Analysis.Concurrency != 4 {
		t.Errorf("Concurrency = %d; want 4", cfg.Analysis.Concurrency)
	}
	if cfg.Analysis.ChunkSize != 64 {
		t.Errorf("ChunkSize = %d; want 64", cfg.Analysis.ChunkSize)
	}
	if cfg.Analysis.CacheSize != 256 {
		t.Errorf("CacheSize = %d; want 256", cfg.Analysis.CacheSize)
	}
	if cfg.Faces.Profile != faces.ProfileDefault {
		t.Errorf("Profile = %s; want %s", cfg.Faces.Profile, faces.ProfileDefault)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PHOTO_ENGINE_CONCURRENCY", "8")
	t.Setenv("PHOTO_ENGINE_SHARPNESS_CALIBRATION", "250.5")
	t.Setenv("PHOTO_ENGINE_FACE_PROFILE", faces.ProfileFast)

	cfg := Load()

	if cfg.Analysis.Concurrency != 8 {
		t.Errorf("Concurrency = %d; want 8", cfg.Analysis.Concurrency)
	}
	if cfg.Analysis.SharpnessCalibration != 250.5 {
		t.Errorf("SharpnessCalibration = %f; want 250.5", cfg.Analysis.SharpnessCalibration)
	}
	if cfg.Faces.Profile != faces.ProfileFast {
		t.Errorf("Profile = %s; want %s", cfg.Faces.Profile, faces.ProfileFast)
	}
}

func TestEnvParsingRejectsInvalid(t *testing.T) {
	t.Setenv("PHOTO_ENGINE_CONCURRENCY", "not-a-number")
	t.Setenv("PHOTO_ENGINE_CHUNK_SIZE", "-5")
	t.Setenv("PHOTO_ENGINE_SHARPNESS_CALIBRATION", "0")

	cfg := Load()

	if cfg.Analysis.Concurrency != 4 {
		t.Errorf("invalid value should fall back to default, got %d", cfg.Analysis.Concurrency)
	}
	if cfg.Analysis.ChunkSize != 64 {
		t.Errorf("negative value should fall back to default, got %d", cfg.Analysis.ChunkSize)
	}
	if cfg.Analysis.SharpnessCalibration != 500 {
		t.Errorf("zero calibration should fall back to default, got %f", cfg.Analysis.SharpnessCalibration)
	}
}
