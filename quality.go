package watermark

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Similarity compares two grayscale images of the same size.
type Similarity struct {
	// NCC is the Pearson correlation of the pixel values, in [-1, 1].
	// It is NaN when either image is constant.
	NCC float64
	// PSNR is the peak signal-to-noise ratio in dB, +Inf for identical images.
	PSNR    float64
	MeanAbs float64
	MaxAbs  float64
}

func (s Similarity) String() string {
	return fmt.Sprintf("ncc=%.4f psnr=%.2fdB mean_abs=%.3f max_abs=%.0f", s.NCC, s.PSNR, s.MeanAbs, s.MaxAbs)
}

// Compare measures how close b is to a. It is used to judge both the visibility
// of an embedded watermark (original vs marked) and the quality of an extracted
// payload (generated vs recovered).
func Compare(a, b *image.Gray) (Similarity, error) {
	if a == nil || b == nil || a.Bounds().Empty() || b.Bounds().Empty() {
		return Similarity{}, fmt.Errorf("%w: empty image", ErrInvalidSize)
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return Similarity{}, fmt.Errorf("%w: %v and %v", ErrDimensionMismatch, a.Bounds().Size(), b.Bounds().Size())
	}
	x, y := samples(a), samples(b)

	diff := make([]float64, len(x))
	floats.SubTo(diff, x, y)
	mse := floats.Dot(diff, diff) / float64(len(diff))
	for i, d := range diff {
		diff[i] = math.Abs(d)
	}

	s := Similarity{
		NCC:     stat.Correlation(x, y, nil),
		PSNR:    math.Inf(1),
		MeanAbs: stat.Mean(diff, nil),
		MaxAbs:  floats.Max(diff),
	}
	if mse > 0 {
		s.PSNR = 10 * math.Log10(255*255/mse)
	}
	return s, nil
}

func samples(img *image.Gray) []float64 {
	b := img.Bounds()
	data := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for _, v := range img.Pix[off : off+b.Dx()] {
			data = append(data, float64(v))
		}
	}
	return data
}
