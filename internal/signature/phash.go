package signature

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Duplicate classification defaults. These are policy constants, not physical
// ones - callers may override them through Thresholds.
const (
	DefaultDuplicateDistance = 10
	DefaultSimilarDistance   = 20
)

// DuplicateClass describes the relationship between two perceptual hashes.
type DuplicateClass int

const (
	// Identical means Hamming distance 0 - the same or a near-identical image.
	Identical DuplicateClass = iota
	// Duplicate means likely the same image under a different encode or size.
	Duplicate
	// Similar means visually similar content, surfaced as a suggestion only.
	Similar
	// Distinct means no meaningful perceptual relationship.
	Distinct
)

func (c DuplicateClass) String() string {
	switch c {
	case Identical:
		return "identical"
	case Duplicate:
		return "duplicate"
	case Similar:
		return "similar"
	default:
		return "distinct"
	}
}

// Thresholds holds the Hamming distance cutoffs for duplicate classification.
type Thresholds struct {
	Duplicate int `json:"duplicate"`
	Similar   int `json:"similar"`
}

// DefaultThresholds returns the standard duplicate classification cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Duplicate: DefaultDuplicateDistance,
		Similar:   DefaultSimilarDistance,
	}
}

// Classify maps a Hamming distance to a duplicate class.
func (t Thresholds) Classify(distance int) DuplicateClass {
	switch {
	case distance == 0:
		return Identical
	case distance <= t.Duplicate:
		return Duplicate
	case distance <= t.Similar:
		return Similar
	default:
		return Distinct
	}
}

// ComputePHash computes a 64-bit DCT-based perceptual hash.
//
// The image is downsampled to 32x32 luma, transformed with an orthonormal
// 2D DCT-II, and the top-left 8x8 block of low-frequency coefficients is
// reduced to one bit per cell against the median of the 63 non-DC
// coefficients. Bits are packed MSB-first in row-major scan order. The DC
// cell participates in bit generation like any other cell; only the median
// excludes it. This layout must not change - stored hashes depend on it.
func ComputePHash(img image.Image) (uint64, error) {
	if err := validateBitmap(img); err != nil {
		return 0, err
	}

	luma := lumaMatrix(img, hashSampleSize)
	coeffs := dct2d(luma)

	// Quantize the block so coefficients that are mathematically zero (all
	// ties on uniform images) compare as exact zeros instead of rounding
	// noise. Luma is in 0-255, so real structure survives far above this
	// granularity.
	block := make([][]float64, 8)
	for u := range 8 {
		block[u] = make([]float64, 8)
		for v := range 8 {
			block[u][v] = math.Round(coeffs[u][v]*1e6) / 1e6
		}
	}

	// Median of the 63 low-frequency coefficients, DC excluded.
	lowFreq := make([]float64, 0, 63)
	for u := range 8 {
		for v := range 8 {
			if u == 0 && v == 0 {
				continue
			}
			lowFreq = append(lowFreq, block[u][v])
		}
	}
	median := medianOf(lowFreq)

	// One bit per cell over the full 8x8 block, DC included. Strict > keeps
	// tie bits at 0 so uniform images hash identically on every run.
	var hash uint64
	bit := 63
	for u := range 8 {
		for v := range 8 {
			if block[u][v] > median {
				hash |= 1 << bit
			}
			bit--
		}
	}

	return hash, nil
}

// FormatHash renders a 64-bit hash as 16 uppercase hex characters.
func FormatHash(hash uint64) string {
	return fmt.Sprintf("%016X", hash)
}

// HammingDistance counts differing bits between two 64-bit hashes.
func HammingDistance(a, b uint64) int {
	xor := a ^ b
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // clear lowest set bit
	}
	return distance
}

// dctBasis holds the precomputed cosine table for the 32-point DCT:
// cos(pi * u * (2x + 1) / 64), indexed [u][x].
var dctBasis = func() [][]float64 {
	n := hashSampleSize
	table := make([][]float64, n)
	for u := range n {
		table[u] = make([]float64, n)
		for x := range n {
			table[u][x] = math.Cos(math.Pi * float64(u) * (2*float64(x) + 1) / (2 * float64(n)))
		}
	}
	return table
}()

// dct2d computes the 2D DCT-II of a square matrix using the separable
// formulation with orthonormal scaling: c(0) = 1/sqrt(2), c(k) = 1 for k > 0,
// each pass scaled by sqrt(2/N).
func dct2d(data [][]float64) [][]float64 {
	n := len(data)
	scale := math.Sqrt(2 / float64(n))
	c0 := 1 / math.Sqrt2

	// Pass 1: DCT along y for every column x.
	rows := make([][]float64, n)
	for x := range n {
		rows[x] = make([]float64, n)
		for v := range n {
			var sum float64
			for y := range n {
				sum += data[x][y] * dctBasis[v][y]
			}
			sum *= scale
			if v == 0 {
				sum *= c0
			}
			rows[x][v] = sum
		}
	}

	// Pass 2: DCT along x for every frequency v.
	out := make([][]float64, n)
	for u := range n {
		out[u] = make([]float64, n)
	}
	for v := range n {
		for u := range n {
			var sum float64
			for x := range n {
				sum += rows[x][v] * dctBasis[u][x]
			}
			sum *= scale
			if u == 0 {
				sum *= c0
			}
			out[u][v] = sum
		}
	}

	return out
}

// medianOf returns the median of a slice without mutating it.
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
