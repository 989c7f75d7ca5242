package faces

import (
	"math"

	"github.com/google/uuid"
)

// Person is a confirmed cluster of face detections belonging to one
// individual. The centroid is the L2-normalized mean of the member
// embeddings and is used for fast incremental matching.
type Person struct {
	ID       string      `json:"id"`
	Name     string      `json:"name,omitempty"`
	Members  []Detection `json:"members"`
	Centroid []float32   `json:"centroid,omitempty"`
}

func newPerson(members []Detection) Person {
	p := Person{
		ID:      uuid.NewString(),
		Members: members,
	}
	for i := range p.Members {
		p.Members[i].PersonID = p.ID
	}
	p.Centroid = centroidOf(p.Members)
	return p
}

// Add appends a detection to the person and refreshes the centroid.
func (p *Person) Add(det Detection) {
	det.PersonID = p.ID
	p.Members = append(p.Members, det)
	p.Centroid = centroidOf(p.Members)
}

// centroidOf computes the normalized mean embedding over members that have
// one. Returns nil when no member carries an embedding.
func centroidOf(members []Detection) []float32 {
	var dim int
	for i := range members {
		if members[i].HasEmbedding() {
			dim = len(members[i].Embedding)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	count := 0
	for i := range members {
		if len(members[i].Embedding) != dim {
			continue
		}
		for j, v := range members[i].Embedding {
			sum[j] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil
	}

	var norm float64
	for j := range sum {
		sum[j] /= float64(count)
		norm += sum[j] * sum[j]
	}
	norm = math.Sqrt(norm)

	centroid := make([]float32, dim)
	for j := range sum {
		if norm > 0 {
			centroid[j] = float32(sum[j] / norm)
		}
	}
	return centroid
}
