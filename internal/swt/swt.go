package swt

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Haar is the name of the only decomposition basis implemented.
const Haar = "haar"

var (
	ErrShape = errors.New("invalid subband shape")
)

// Supported reports whether basis names an implemented decomposition basis.
func Supported(basis string) bool {
	return basis == Haar
}

// Subbands is a single-level stationary decomposition.
// Every band is row-major and has exactly Width*Height coefficients,
// the same shape as the decomposed data.
type Subbands struct {
	Width, Height int

	CA []float64 // approximation
	CH []float64 // horizontal detail
	CV []float64 // vertical detail
	CD []float64 // diagonal detail
}

// Bands returns cA, cH, cV and cD in that order.
func (s *Subbands) Bands() [4][]float64 {
	return [4][]float64{s.CA, s.CH, s.CV, s.CD}
}

// SameShape reports whether s and o were produced from data of the same shape.
func (s *Subbands) SameShape(o *Subbands) bool {
	return s.Width == o.Width && s.Height == o.Height
}

func (s *Subbands) validate() error {
	if err := checkShape(s.Width, s.Height); err != nil {
		return err
	}
	l := s.Width * s.Height
	for i, band := range s.Bands() {
		if len(band) != l {
			return fmt.Errorf("%w: band %d has %d coefficients, want %d", ErrShape, i, len(band), l)
		}
	}
	return nil
}

func checkShape(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty %dx%d", ErrShape, w, h)
	}
	if w%2 != 0 || h%2 != 0 {
		return fmt.Errorf("%w: odd %dx%d", ErrShape, w, h)
	}
	return nil
}

// Forward computes one level of the stationary Haar decomposition of the
// row-major data with the given width. Both dimensions must be even.
// The signal is extended periodically, so no coefficient is dropped.
func Forward(data []float64, w int) (*Subbands, error) {
	if w <= 0 || len(data)%w != 0 {
		return nil, fmt.Errorf("%w: %d values do not form rows of width %d", ErrShape, len(data), w)
	}
	h := len(data) / w
	if err := checkShape(w, h); err != nil {
		return nil, err
	}

	l := w * h
	lo := make([]float64, l)
	hi := make([]float64, l)
	for y := range h {
		analyze(data, lo, hi, w, 1, y*w)
	}

	s := &Subbands{
		Width:  w,
		Height: h,
		CA:     make([]float64, l),
		CH:     make([]float64, l),
		CV:     make([]float64, l),
		CD:     make([]float64, l),
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for x := range w {
			analyze(lo, s.CA, s.CH, h, w, x)
		}
	}()
	go func() {
		defer wg.Done()
		for x := range w {
			analyze(hi, s.CV, s.CD, h, w, x)
		}
	}()
	wg.Wait()
	return s, nil
}

// Inverse reconstructs the row-major data from a decomposition produced by Forward.
func Inverse(s *Subbands) ([]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil subbands", ErrShape)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	w, h := s.Width, s.Height

	l := w * h
	lo := make([]float64, l)
	hi := make([]float64, l)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for x := range w {
			synthesize(s.CA, s.CH, lo, h, w, x)
		}
	}()
	go func() {
		defer wg.Done()
		for x := range w {
			synthesize(s.CV, s.CD, hi, h, w, x)
		}
	}()
	wg.Wait()

	data := make([]float64, l)
	for y := range h {
		synthesize(lo, hi, data, w, 1, y*w)
	}
	return data, nil
}

// analyze splits the n samples of src starting at off with the given stride
// into lowpass and highpass outputs written at the same positions.
func analyze(src, lo, hi []float64, n, stride, off int) {
	for i := range n {
		a := src[off+i*stride]
		b := src[off+((i+1)%n)*stride]
		lo[off+i*stride], hi[off+i*stride] = cacd(a, b)
	}
}

// synthesize averages the two phase reconstructions of every sample.
func synthesize(lo, hi, dst []float64, n, stride, off int) {
	for i := range n {
		cur := off + i*stride
		prev := off + ((i+n-1)%n)*stride
		v, _ := icacd(lo[cur], hi[cur])
		_, u := icacd(lo[prev], hi[prev])
		dst[cur] = (v + u) / 2
	}
}

func cacd(v1, v2 float64) (float64, float64) {
	avr := (v1 + v2) / 2.0
	return avr * math.Sqrt2, (v1 - avr) * math.Sqrt2
}

func icacd(a, d float64) (float64, float64) {
	avr := a / math.Sqrt2
	return avr + d/math.Sqrt2, avr - d/math.Sqrt2
}
