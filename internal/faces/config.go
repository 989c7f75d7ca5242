// Package faces turns externally produced face detections and embeddings
// into person clusters. Detection and embedding generation are collaborators
// outside this package; it only consumes their output: a bounding box, a
// confidence score and an opaque fixed-length embedding vector compared with
// cosine distance.
package faces

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Shipped profile names.
const (
	ProfileDefault      = "DEFAULT"
	ProfileHighAccuracy = "HIGH_ACCURACY"
	ProfileFast         = "FAST"
)

// ErrUnknownProfile is returned when a profile name does not match any
// shipped preset.
var ErrUnknownProfile = errors.New("unknown face profile")

//go:embed profiles.yaml
var profilesYAML []byte

// Config is a named, immutable face processing profile. Profiles are never
// mutated at runtime; switching accuracy mode means swapping the active
// profile reference.
type Config struct {
	Name string `yaml:"name"`

	// MinFaceSize is the minimum bounding-box area in pixels for a detection
	// to participate in clustering.
	MinFaceSize int `yaml:"min_face_size"`

	// MinFaceScore is the minimum detector confidence (0-1).
	MinFaceScore float64 `yaml:"min_face_score"`

	// ClusterDistance is the maximum cosine distance for two unassigned
	// faces to be tentatively the same person during batch clustering.
	ClusterDistance float64 `yaml:"cluster_distance"`

	// MatchDistance is the maximum cosine distance for a new face to join an
	// existing, confirmed person. Must not exceed ClusterDistance: matching
	// an established person is at least as strict as forming a new cluster.
	MatchDistance float64 `yaml:"match_distance"`

	// OverlapThreshold is the IoU above which two detections in the same
	// photo count as duplicates of one physical face.
	OverlapThreshold float64 `yaml:"overlap_threshold"`

	// MinClusterSize is the minimum group size to promote a cluster into a
	// confirmed person.
	MinClusterSize int `yaml:"min_cluster_size"`

	// MaxFacesPerPhoto caps surviving detections per photo.
	MaxFacesPerPhoto int `yaml:"max_faces_per_photo"`

	// Detector hints, passed through to the external detection collaborator.
	UseFastDetection   bool `yaml:"use_fast_detection"`
	DetectionInputSize int  `yaml:"detection_input_size"`
}

// Validate rejects invalid profiles at construction time so threshold
// violations never surface mid-clustering.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("face config: empty profile name")
	}
	if c.MinFaceSize < 0 {
		return fmt.Errorf("face config %s: negative min face size", c.Name)
	}
	if c.MinFaceScore < 0 || c.MinFaceScore > 1 {
		return fmt.Errorf("face config %s: min face score %.2f outside [0,1]", c.Name, c.MinFaceScore)
	}
	if c.ClusterDistance <= 0 {
		return fmt.Errorf("face config %s: cluster distance must be positive", c.Name)
	}
	if c.MatchDistance <= 0 {
		return fmt.Errorf("face config %s: match distance must be positive", c.Name)
	}
	if c.MatchDistance > c.ClusterDistance {
		return fmt.Errorf("face config %s: match distance %.2f exceeds cluster distance %.2f",
			c.Name, c.MatchDistance, c.ClusterDistance)
	}
	if c.OverlapThreshold <= 0 || c.OverlapThreshold >= 1 {
		return fmt.Errorf("face config %s: overlap threshold %.2f outside (0,1)", c.Name, c.OverlapThreshold)
	}
	if c.MinClusterSize < 1 {
		return fmt.Errorf("face config %s: min cluster size must be at least 1", c.Name)
	}
	if c.MaxFacesPerPhoto < 1 {
		return fmt.Errorf("face config %s: max faces per photo must be at least 1", c.Name)
	}
	return nil
}

var profiles = func() map[string]Config {
	var parsed struct {
		Profiles []Config `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(profilesYAML, &parsed); err != nil {
		// Embedded file, so this can only fail on a broken build.
		panic("failed to unmarshal embedded profiles.yaml: " + err.Error())
	}

	m := make(map[string]Config, len(parsed.Profiles))
	for _, p := range parsed.Profiles {
		if err := p.Validate(); err != nil {
			panic("invalid embedded face profile: " + err.Error())
		}
		m[p.Name] = p
	}
	return m
}()

// ProfileByName returns a shipped profile by its name.
func ProfileByName(name string) (Config, error) {
	p, ok := profiles[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists the shipped profile names.
func ProfileNames() []string {
	return []string{ProfileDefault, ProfileHighAccuracy, ProfileFast}
}
