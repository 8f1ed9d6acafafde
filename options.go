package watermark

import (
	"fmt"
	"math"

	"github.com/yyyoichi/watermark_rdwt/internal/swt"
)

type Option func(*Watermark) error

// WithWavelet selects the decomposition basis. Only "haar" is implemented.
func WithWavelet(name string) Option {
	return func(w *Watermark) error {
		if !swt.Supported(name) {
			return fmt.Errorf("%w: %q", ErrUnsupportedWavelet, name)
		}
		w.wavelet = name
		return nil
	}
}

// WithStrength sets the embedding strength alpha, the factor applied to each payload
// value before it is added to the approximation band. Extraction divides by the same value.
// Smaller values are less visible; larger values survive quantization better.
// alpha must be a positive finite number.
func WithStrength(alpha float64) Option {
	return func(w *Watermark) error {
		if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidStrength, alpha)
		}
		w.strength = alpha
		return nil
	}
}

// WithWatermarkSize sets the payload size used by Generate.
func WithWatermarkSize(height, width int) Option {
	return func(w *Watermark) error {
		size := NewSize(height, width)
		if !size.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidSize, size)
		}
		w.size = size
		return nil
	}
}

// WithSeed makes every random choice reproducible: the embedding position and
// generated payloads are drawn from a source seeded with seed on each call.
func WithSeed(seed int64) Option {
	return func(w *Watermark) error {
		w.seed = &seed
		return nil
	}
}
