package config

import (
	"os"
	"strconv"

	"github.com/tomaskral/photo-engine/internal/faces"
)

// Config collects the host-side engine settings. The engine core consumes
// only the face profile name; the rest tunes the batch driver around it.
type Config struct {
	Analysis AnalysisConfig
	Faces    FacesConfig
}

type AnalysisConfig struct {
	// SharpnessCalibration is the divisor mapping Laplacian variance onto
	// the 0-100 sharpness scale. Changing it does not invalidate stored
	// signatures because the raw variance is persisted alongside.
	SharpnessCalibration float64

	Concurrency int // parallel photo analyses per batch chunk
	ChunkSize   int // photos per cancellation checkpoint
	CacheSize   int // bounded signature cache capacity
}

type FacesConfig struct {
	Profile string // DEFAULT, HIGH_ACCURACY or FAST
}

// envInt reads an environment variable as a positive integer, falling back
// to the default when unset or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a positive float, falling back
// to the default when unset or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SharpnessCalibration: envFloat("PHOTO_ENGINE_SHARPNESS_CALIBRATION", 500),
			Concurrency:          envInt("PHOTO_ENGINE_CONCURRENCY", 4),
			ChunkSize:            envInt("PHOTO_ENGINE_CHUNK_SIZE", 64),
			CacheSize:            envInt("PHOTO_ENGINE_CACHE_SIZE", 256),
		},
		Faces: FacesConfig{
			Profile: envString("PHOTO_ENGINE_FACE_PROFILE", faces.ProfileDefault),
		},
	}
}
