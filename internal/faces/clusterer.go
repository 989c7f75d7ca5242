package faces

import "sort"

// ClusterResult is the outcome of one batch clustering pass.
type ClusterResult struct {
	// Persons are the promoted clusters, each with at least MinClusterSize
	// members.
	Persons []Person

	// Unassigned are detections that survived filtering but do not belong to
	// any promoted cluster. They stay visible and may be promoted in a later
	// pass once enough similar faces accumulate.
	Unassigned []Detection

	// SkippedNoEmbedding counts detections left out because the embedding
	// pass has not run for them. This is a valid transient state, reported
	// to the caller, never an error.
	SkippedNoEmbedding int

	// FilteredLowQuality counts detections dropped by the confidence and
	// minimum-size filter.
	FilteredLowQuality int

	// SuppressedOverlaps counts same-photo duplicate detections removed by
	// the IoU filter and the per-photo cap.
	SuppressedOverlaps int
}

// Clusterer groups a batch of face detections into persons using density
// clustering over the profile's same-cluster distance. One clustering run
// works on a fixed snapshot of the input slice; embeddings arriving during a
// run belong to the next one.
type Clusterer struct {
	policy Policy
}

// NewClusterer builds a clusterer for the given profile.
func NewClusterer(cfg Config) (*Clusterer, error) {
	policy, err := NewPolicy(cfg)
	if err != nil {
		return nil, err
	}
	return &Clusterer{policy: policy}, nil
}

// Policy exposes the decision policy driving this clusterer.
func (c *Clusterer) Policy() Policy {
	return c.policy
}

// Cluster runs the full batch pass: quality filtering, per-photo overlap
// suppression, density grouping and promotion. Zero or one usable detection
// is a no-op, not an error.
func (c *Clusterer) Cluster(detections []Detection) *ClusterResult {
	cfg := c.policy.Config()
	result := &ClusterResult{}

	// Step 1: drop low-confidence and too-small detections, count the ones
	// still waiting for an embedding.
	usable := make([]Detection, 0, len(detections))
	for _, det := range detections {
		if det.Score < cfg.MinFaceScore || det.Box.PixelArea(det.PhotoWidth, det.PhotoHeight) < float64(cfg.MinFaceSize) {
			result.FilteredLowQuality++
			continue
		}
		if !det.HasEmbedding() {
			result.SkippedNoEmbedding++
			continue
		}
		usable = append(usable, det)
	}

	// Step 2: suppress same-photo overlap duplicates and cap per photo.
	survivors := c.suppressOverlaps(usable, result)

	if len(survivors) < 2 {
		result.Unassigned = survivors
		return result
	}

	// Steps 3-4: group by the same-cluster adjacency and promote groups that
	// reach the minimum size.
	groups := c.densityGroups(survivors)
	for _, group := range groups {
		if len(group) >= cfg.MinClusterSize {
			result.Persons = append(result.Persons, newPerson(group))
		} else {
			result.Unassigned = append(result.Unassigned, group...)
		}
	}

	return result
}

// suppressOverlaps removes duplicate detections of the same physical face
// within each photo, keeping the higher-confidence one of every colliding
// pair, then caps survivors per photo at MaxFacesPerPhoto by confidence.
// Output preserves the input order across photos so clustering stays
// deterministic.
func (c *Clusterer) suppressOverlaps(detections []Detection, result *ClusterResult) []Detection {
	cfg := c.policy.Config()

	byPhoto := make(map[string][]int)
	order := make([]string, 0)
	for i, det := range detections {
		if _, seen := byPhoto[det.PhotoID]; !seen {
			order = append(order, det.PhotoID)
		}
		byPhoto[det.PhotoID] = append(byPhoto[det.PhotoID], i)
	}

	kept := make([]bool, len(detections))
	for _, photoID := range order {
		indices := byPhoto[photoID]

		// Highest confidence first so a kept detection always wins its
		// collisions.
		sort.SliceStable(indices, func(a, b int) bool {
			return detections[indices[a]].Score > detections[indices[b]].Score
		})

		var surviving []int
		for _, idx := range indices {
			collides := false
			for _, keptIdx := range surviving {
				if c.policy.IsOverlapDuplicate(IoU(detections[idx].Box, detections[keptIdx].Box)) {
					collides = true
					break
				}
			}
			if collides || len(surviving) >= cfg.MaxFacesPerPhoto {
				result.SuppressedOverlaps++
				continue
			}
			surviving = append(surviving, idx)
		}
		for _, idx := range surviving {
			kept[idx] = true
		}
	}

	out := make([]Detection, 0, len(detections))
	for i, det := range detections {
		if kept[i] {
			out = append(out, det)
		}
	}
	return out
}

// densityGroups partitions detections into connected components of the
// same-cluster adjacency relation. Components are discovered breadth-first
// in input order, which keeps group membership deterministic for a fixed
// snapshot.
func (c *Clusterer) densityGroups(detections []Detection) [][]Detection {
	n := len(detections)
	assigned := make([]bool, n)
	var groups [][]Detection

	for start := range n {
		if assigned[start] {
			continue
		}

		queue := []int{start}
		assigned[start] = true
		var member []int

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			member = append(member, current)

			for next := range n {
				if assigned[next] {
					continue
				}
				dist := CosineDistance(detections[current].Embedding, detections[next].Embedding)
				if c.policy.IsSameCluster(dist) {
					assigned[next] = true
					queue = append(queue, next)
				}
			}
		}

		sort.Ints(member)
		group := make([]Detection, 0, len(member))
		for _, idx := range member {
			group = append(group, detections[idx])
		}
		groups = append(groups, group)
	}

	return groups
}
