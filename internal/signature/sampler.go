package signature

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Analysis sample resolutions. Hashing works on a 32x32 luma matrix,
// color metrics on a 50x50 RGB sample and sharpness on a 100x100 luma matrix.
const (
	hashSampleSize      = 32
	colorSampleSize     = 50
	sharpnessSampleSize = 100
)

// ErrEmptyBitmap is returned when the input image is nil or has a
// zero-size dimension.
var ErrEmptyBitmap = errors.New("empty or zero-dimension bitmap")

// RGB is an 8-bit color triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func validateBitmap(img image.Image) error {
	if img == nil {
		return ErrEmptyBitmap
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return ErrEmptyBitmap
	}
	return nil
}

// resample scales an image to the given square size. Inputs smaller than the
// target are upsampled. BiLinear is deterministic for identical input, which
// keeps hashes and metrics reproducible across runs.
func resample(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// lumaMatrix converts an image to a size x size matrix of BT.601 luma
// values (0-255), indexed [x][y].
func lumaMatrix(img image.Image, size int) [][]float64 {
	resized := resample(img, size)

	luma := make([][]float64, size)
	for x := range size {
		luma[x] = make([]float64, size)
		for y := range size {
			r, g, b, _ := resized.At(x, y).RGBA()
			// ITU-R BT.601 luma weights.
			luma[x][y] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}

	return luma
}

// rgbSample downsamples an image to a size x size grid of RGB triples.
func rgbSample(img image.Image, size int) [][]RGB {
	resized := resample(img, size)

	sample := make([][]RGB, size)
	for x := range size {
		sample[x] = make([]RGB, size)
		for y := range size {
			r, g, b, _ := resized.At(x, y).RGBA()
			sample[x][y] = RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		}
	}

	return sample
}
