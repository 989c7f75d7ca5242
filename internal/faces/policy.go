package faces

// Policy provides the pure threshold decisions over a Config profile.
// All methods are stateless; the zero value is unusable, construct with
// NewPolicy so the profile invariant is checked up front.
type Policy struct {
	cfg Config
}

// NewPolicy validates the profile and wraps it in a decision policy.
func NewPolicy(cfg Config) (Policy, error) {
	if err := cfg.Validate(); err != nil {
		return Policy{}, err
	}
	return Policy{cfg: cfg}, nil
}

// Config returns the underlying profile.
func (p Policy) Config() Config {
	return p.cfg
}

// IsMatch reports whether a new embedding belongs to an existing, confirmed
// person. Strictly stricter than IsSameCluster by the profile invariant.
func (p Policy) IsMatch(distance float64) bool {
	return distance <= p.cfg.MatchDistance
}

// IsSameCluster reports whether two as-yet-unassigned faces are tentatively
// the same person during batch clustering.
func (p Policy) IsSameCluster(distance float64) bool {
	return distance <= p.cfg.ClusterDistance
}

// IsOverlapDuplicate reports whether two detections in the same photo cover
// the same physical face.
func (p Policy) IsOverlapDuplicate(iou float64) bool {
	return iou > p.cfg.OverlapThreshold
}
