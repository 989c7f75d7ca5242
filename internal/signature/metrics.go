package signature

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultSharpnessCalibration is the empirically chosen divisor that maps
// Laplacian response variance onto the 0-100 sharpness scale. The raw
// variance is kept on the result so stored scores survive recalibration.
const DefaultSharpnessCalibration = 500.0

// colorBucketWidth is the per-channel quantization step for dominant color
// extraction (value - value mod 32).
const colorBucketWidth = 32

// Appearance holds the perceptual metrics of one photo.
type Appearance struct {
	Luminance int  `json:"luminance"` // 0-100, Rec. 709 relative luminance
	Chroma    int  `json:"chroma"`    // 0-100, average saturation
	Sharpness int  `json:"sharpness"` // 0-100, calibrated Laplacian variance
	Dominant  RGB  `json:"dominant_color"`
	Accent    RGB  `json:"accent_color,omitempty"`
	HasAccent bool `json:"has_accent"`

	// RawVariance is the uncalibrated Laplacian response variance.
	RawVariance float64 `json:"raw_variance"`

	// Contrast is the BT.601 luma range over the color sample as a fraction
	// of the full 0-255 range. Note the weights deliberately differ from the
	// Luminance metric above; stored quality scores depend on that split.
	Contrast float64 `json:"contrast"`
}

// ComputeAppearance computes all appearance metrics for an image.
// The calibration divisor normalizes sharpness; pass
// DefaultSharpnessCalibration unless recalibrating.
func ComputeAppearance(img image.Image, calibration float64) (*Appearance, error) {
	if err := validateBitmap(img); err != nil {
		return nil, err
	}
	if calibration <= 0 {
		calibration = DefaultSharpnessCalibration
	}

	sample := rgbSample(img, colorSampleSize)

	a := &Appearance{}
	a.Luminance = relativeLuminance(sample)
	a.Chroma = averageChroma(sample)
	a.Dominant, a.Accent, a.HasAccent = dominantColors(sample)
	a.Contrast = lumaRange(sample)

	variance := laplacianVariance(lumaMatrix(img, sharpnessSampleSize))
	a.RawVariance = variance
	a.Sharpness = int(clamp(variance/calibration*100, 0, 100))

	return a, nil
}

// relativeLuminance averages Rec. 709 relative luminance over the sample,
// scaled to 0-100.
func relativeLuminance(sample [][]RGB) int {
	values := make([]float64, 0, len(sample)*len(sample))
	for x := range sample {
		for y := range sample[x] {
			p := sample[x][y]
			values = append(values, 0.2126*float64(p.R)+0.7152*float64(p.G)+0.0722*float64(p.B))
		}
	}
	return int(clamp(stat.Mean(values, nil)/255*100, 0, 100))
}

// averageChroma averages per-pixel saturation (max-min)/max over the sample,
// scaled to 0-100. Pixels with max 0 (pure black) count as zero chroma.
func averageChroma(sample [][]RGB) int {
	values := make([]float64, 0, len(sample)*len(sample))
	for x := range sample {
		for y := range sample[x] {
			p := sample[x][y]
			maxC := max(p.R, p.G, p.B)
			minC := min(p.R, p.G, p.B)
			if maxC == 0 {
				values = append(values, 0)
				continue
			}
			values = append(values, float64(maxC-minC)/float64(maxC))
		}
	}
	return int(clamp(stat.Mean(values, nil)*100, 0, 100))
}

// dominantColors quantizes each channel to 32-wide buckets and returns the
// most and second-most frequent quantized colors. The accent color is absent
// when fewer than two distinct buckets exist. Ties break on the packed RGB
// value so repeated runs stay deterministic.
func dominantColors(sample [][]RGB) (dominant RGB, accent RGB, hasAccent bool) {
	counts := make(map[RGB]int)
	for x := range sample {
		for y := range sample[x] {
			p := sample[x][y]
			bucket := RGB{
				R: p.R - p.R%colorBucketWidth,
				G: p.G - p.G%colorBucketWidth,
				B: p.B - p.B%colorBucketWidth,
			}
			counts[bucket]++
		}
	}

	buckets := make([]RGB, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if counts[buckets[i]] != counts[buckets[j]] {
			return counts[buckets[i]] > counts[buckets[j]]
		}
		return packRGB(buckets[i]) < packRGB(buckets[j])
	})

	dominant = buckets[0]
	if len(buckets) > 1 {
		return dominant, buckets[1], true
	}
	return dominant, RGB{}, false
}

func packRGB(c RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// lumaRange returns (maxLuma - minLuma) / 255 over the sample using BT.601
// weights.
func lumaRange(sample [][]RGB) float64 {
	minLuma, maxLuma := 255.0, 0.0
	for x := range sample {
		for y := range sample[x] {
			p := sample[x][y]
			luma := 0.299*float64(p.R) + 0.587*float64(p.G) + 0.114*float64(p.B)
			minLuma = min(minLuma, luma)
			maxLuma = max(maxLuma, luma)
		}
	}
	if maxLuma < minLuma {
		return 0
	}
	return (maxLuma - minLuma) / 255
}

// laplacianVariance applies the discrete Laplacian kernel
//
//	 0 -1  0
//	-1  4 -1
//	 0 -1  0
//
// to every interior pixel of the luma matrix and returns the population
// variance of the responses. Borders are excluded. A uniform image yields
// zero variance, not an error.
func laplacianVariance(luma [][]float64) float64 {
	n := len(luma)
	if n < 3 {
		return 0
	}

	responses := make([]float64, 0, (n-2)*(n-2))
	for x := 1; x < n-1; x++ {
		for y := 1; y < n-1; y++ {
			r := 4*luma[x][y] - luma[x-1][y] - luma[x+1][y] - luma[x][y-1] - luma[x][y+1]
			responses = append(responses, r)
		}
	}

	return stat.PopVariance(responses, nil)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
