package faces

import (
	"sync"

	"github.com/coder/hnsw"
)

// HNSW graph parameters for person centroid search. Centroid sets are small
// compared to raw face sets, so a modest neighbor count is enough.
const (
	indexMaxNeighbors = 16

	// indexSearchK asks for more candidates than needed so the exact
	// distance check after the approximate search still has choices.
	indexSearchK = 8
)

// Match is the result of an incremental lookup against person centroids.
type Match struct {
	PersonID string
	Distance float64
}

// PersonIndex answers "which existing person does this new embedding belong
// to" without re-running batch clustering. Incremental matching uses the
// profile's match distance, which is strictly stricter than cluster
// formation. Safe for concurrent use.
type PersonIndex struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph[string]
	policy Policy
}

// NewPersonIndex creates an empty index for the given profile.
func NewPersonIndex(cfg Config) (*PersonIndex, error) {
	policy, err := NewPolicy(cfg)
	if err != nil {
		return nil, err
	}
	return &PersonIndex{policy: policy}, nil
}

// Rebuild replaces the index contents with the given persons. Persons
// without a centroid are skipped. Call after a batch clustering pass or
// after centroid updates.
func (ix *PersonIndex) Rebuild(persons []Person) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.CosineDistance

	for i := range persons {
		if len(persons[i].Centroid) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(persons[i].ID, persons[i].Centroid))
	}

	ix.graph = g
}

// Add inserts one newly promoted person into the index.
func (ix *PersonIndex) Add(p Person) {
	if len(p.Centroid) == 0 {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.graph == nil {
		ix.graph = hnsw.NewGraph[string]()
		ix.graph.M = indexMaxNeighbors
		ix.graph.Ml = 1.0 / float64(indexMaxNeighbors)
		ix.graph.Distance = hnsw.CosineDistance
	}
	ix.graph.Add(hnsw.MakeNode(p.ID, p.Centroid))
}

// Len returns the number of indexed persons.
func (ix *PersonIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.graph == nil {
		return 0
	}
	return ix.graph.Len()
}

// Match finds the nearest person centroid within the profile's match
// distance. The approximate search result is verified with the exact cosine
// distance before accepting it.
func (ix *PersonIndex) Match(embedding []float32) (Match, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.graph == nil || len(embedding) == 0 {
		return Match{}, false
	}

	neighbors := ix.graph.Search(embedding, indexSearchK)

	best := Match{Distance: maxCosineDistance}
	found := false
	for _, n := range neighbors {
		dist := CosineDistance(embedding, n.Value)
		if ix.policy.IsMatch(dist) && dist < best.Distance {
			best = Match{PersonID: n.Key, Distance: dist}
			found = true
		}
	}

	return best, found
}
