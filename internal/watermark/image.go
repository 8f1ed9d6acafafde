package watermark

import (
	"fmt"
	"image"
	"math"

	"github.com/yyyoichi/watermark_rdwt/internal/swt"
)

// ImageSource is a grayscale image padded to even dimensions and held as
// float64 samples, ready for decomposition.
type ImageSource struct {
	bounds        image.Rectangle // bounds of the image before padding
	width, height int             // padded dimensions
	pix           []float64
}

// NewImageSource copies src into a padded float buffer. src is not retained.
func NewImageSource(src *image.Gray) (ImageSource, error) {
	if src == nil || src.Bounds().Empty() {
		return ImageSource{}, fmt.Errorf("%w: empty image", ErrInvalidSize)
	}
	padded := Normalize(src)
	s := ImageSource{
		bounds: src.Bounds(),
		width:  padded.Bounds().Dx(),
		height: padded.Bounds().Dy(),
	}
	s.pix = make([]float64, len(padded.Pix))
	for i, v := range padded.Pix {
		s.pix[i] = float64(v)
	}
	return s, nil
}

func (s ImageSource) Width() int  { return s.width }
func (s ImageSource) Height() int { return s.height }

// Bounds returns the bounds of the image before padding.
func (s ImageSource) Bounds() image.Rectangle { return s.bounds }

func (s ImageSource) decompose() (*swt.Subbands, error) {
	return swt.Forward(s.pix, s.width)
}

// Normalize returns a copy of src whose height and width are both even.
// An odd dimension gets one zero row or column appended. The result starts at (0,0).
func Normalize(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w+w%2, h+h%2))
	for y := range h {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[off:off+w])
	}
	return dst
}

// Decompose normalizes src and computes its stationary decomposition.
// Every subband has the shape of the padded image.
func Decompose(src *image.Gray) (*swt.Subbands, error) {
	s, err := NewImageSource(src)
	if err != nil {
		return nil, err
	}
	return s.decompose()
}

// Reconstruct inverts a decomposition and quantizes the result to bytes.
func Reconstruct(bands *swt.Subbands) (*image.Gray, error) {
	data, err := swt.Inverse(bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	return build(data, bands.Width, bands.Height), nil
}

func build(data []float64, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range data {
		dst.Pix[i] = quantize(v)
	}
	return dst
}

// quantize rounds v to the nearest integer and clips it to [0, 255].
func quantize(v float64) uint8 {
	v = math.Round(v)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
