package faces

import "math"

// maxCosineDistance is returned for vectors that cannot be compared
// (mismatched lengths, empty or zero vectors).
const maxCosineDistance = 2.0

// CosineDistance computes 1 - cosine similarity between two embeddings.
// 0 means identical direction, 2 means opposite. This is the distance the
// profile thresholds are calibrated against.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return maxCosineDistance
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return maxCosineDistance
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Guard against floating point drift outside [-1, 1].
	similarity = max(-1, min(1, similarity))

	return 1 - similarity
}
