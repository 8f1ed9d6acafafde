package watermark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/yyyoichi/watermark_rdwt/internal/swt"
	"github.com/yyyoichi/watermark_rdwt/internal/watermark"
)

const (
	DefaultWavelet  = swt.Haar
	DefaultStrength = 0.1
)

var DefaultWatermarkSize = Size{Height: 128, Width: 128}

var (
	// ErrInvalidSize reports a watermark that does not fit in the approximation band,
	// or a non-positive watermark size.
	ErrInvalidSize = watermark.ErrInvalidSize
	// ErrDimensionMismatch reports marked and original images of different padded
	// shape, or an extraction region outside the approximation band.
	ErrDimensionMismatch = watermark.ErrDimensionMismatch
	// ErrMissingPosition reports an extraction attempted without a position.
	ErrMissingPosition = watermark.ErrMissingPosition

	ErrUnsupportedWavelet = errors.New("unsupported wavelet basis")
	ErrInvalidStrength    = errors.New("invalid embedding strength")
)

type (
	// Size is the height and width of a watermark payload.
	Size = watermark.Size
	// Position is the offset of the payload inside the approximation band.
	// It must be kept, together with the original image, to extract later.
	Position = watermark.Position
)

// NewSize returns a Size of the given height and width.
func NewSize(height, width int) Size {
	return watermark.NewSize(height, width)
}

// SizeOf returns the size of a payload image.
func SizeOf(img *image.Gray) Size {
	return watermark.SizeOf(img)
}

// ParseSize parses a size written as "HxW".
func ParseSize(s string) (Size, error) {
	return watermark.ParseSize(s)
}

// Embed embeds mark into src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Embed method.
func Embed(ctx context.Context, src, mark *image.Gray, opts ...Option) (*image.Gray, Position, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, Position{}, err
	}
	return w.Embed(ctx, src, mark)
}

// Extract extracts a payload from marked with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Extract method.
func Extract(ctx context.Context, marked, original *image.Gray, size Size, pos *Position, opts ...Option) (*image.Gray, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Extract(ctx, marked, original, size, pos)
}

// Generate returns a payload of uniformly random bytes drawn from a fresh source.
func Generate(size Size) (*image.Gray, error) {
	return watermark.Generate(size, rand.New(rand.NewSource(rand.Int63())))
}

// GenerateWithSeed returns the payload Generate would produce for a source seeded with seed.
// The same seed always gives the same payload.
func GenerateWithSeed(size Size, seed int64) (*image.Gray, error) {
	return watermark.Generate(size, rand.New(rand.NewSource(seed)))
}

type Watermark struct {
	wavelet  string
	strength float64
	size     Size
	seed     *int64
}

// New initializes a watermark processing structure.
// The wavelet basis, embedding strength, default watermark size and random seed
// can be optionally specified. For default values, refer to the init function.
func New(opts ...Option) (*Watermark, error) {
	w := new(Watermark)
	if err := w.init(opts...); err != nil {
		return nil, err
	}
	return w, nil
}

// Embed embeds a payload into a grayscale image.
//
// Process:
//  1. Pads the image to even dimensions.
//  2. Applies a single-level stationary Haar transform.
//  3. Picks a random position where mark fits inside the approximation band (cA).
//  4. Adds mark multiplied by the embedding strength to that region of cA.
//  5. Applies the inverse transform and quantizes to bytes.
//
// The returned image has the padded dimensions of src. The returned position must be
// passed to Extract. src and mark are not modified.
// Returns ErrInvalidSize if mark is larger than the approximation band.
func (w *Watermark) Embed(ctx context.Context, src, mark *image.Gray) (*image.Gray, Position, error) {
	img, err := watermark.NewImageSource(src)
	if err != nil {
		return nil, Position{}, err
	}
	return watermark.Embed(ctx, img, mark, w.strength, w.rand())
}

// Extract recovers a payload of the given size from marked.
//
// Process:
//  1. Applies the stationary Haar transform to marked and original.
//  2. Takes the difference of their approximation bands over the region at pos.
//  3. Divides by the embedding strength and quantizes to bytes.
//
// original must be the image that was passed to Embed, and the options must match
// the ones used for embedding.
// Returns ErrMissingPosition when pos is nil and ErrDimensionMismatch when the
// images differ in shape or the region lies outside the approximation band.
func (w *Watermark) Extract(ctx context.Context, marked, original *image.Gray, size Size, pos *Position) (*image.Gray, error) {
	if pos == nil {
		return nil, ErrMissingPosition
	}
	m, err := watermark.NewImageSource(marked)
	if err != nil {
		return nil, fmt.Errorf("marked image: %w", err)
	}
	o, err := watermark.NewImageSource(original)
	if err != nil {
		return nil, fmt.Errorf("original image: %w", err)
	}
	return watermark.Extract(ctx, m, o, size, pos, w.strength)
}

// Generate returns a random payload of the configured watermark size.
// With WithSeed, the payload is the same on every call.
func (w *Watermark) Generate() (*image.Gray, error) {
	return watermark.Generate(w.size, w.rand())
}

func (w *Watermark) Wavelet() string     { return w.wavelet }
func (w *Watermark) Strength() float64   { return w.strength }
func (w *Watermark) WatermarkSize() Size { return w.size }

// rand returns a source for a single call so that a Watermark can be shared
// between goroutines.
func (w *Watermark) rand() *rand.Rand {
	if w.seed != nil {
		return rand.New(rand.NewSource(*w.seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

func (w *Watermark) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return err
		}
	}
	if w.wavelet == "" {
		w.wavelet = DefaultWavelet
	}
	if w.strength == 0 {
		w.strength = DefaultStrength
	}
	if !w.size.Valid() {
		w.size = DefaultWatermarkSize
	}
	return nil
}
