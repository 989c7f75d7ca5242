package faces

// Detection is one face reported by the external detector. The embedding is
// filled in by a later asynchronous pass; until then the detection is in a
// valid transient state and simply skipped by the clusterer. Apart from the
// embedding and the assigned person, a detection is never mutated.
type Detection struct {
	PhotoID string `json:"photo_id"`

	// Box is the bounding box normalized to [0,1].
	Box Rect `json:"box"`

	// Score is the detector confidence in 0-1.
	Score float64 `json:"score"`

	// Embedding is the externally generated face vector, nil until the
	// embedding pass runs.
	Embedding []float32 `json:"embedding,omitempty"`

	// PersonID references the assigned person, empty while unassigned.
	PersonID string `json:"person_id,omitempty"`

	// Photo pixel dimensions, needed to evaluate the minimum face size.
	PhotoWidth  int `json:"photo_width"`
	PhotoHeight int `json:"photo_height"`
}

// HasEmbedding reports whether the embedding pass has run for this
// detection.
func (d *Detection) HasEmbedding() bool {
	return len(d.Embedding) > 0
}
