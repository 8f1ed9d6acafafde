// Package mark turns short messages into watermark payloads and back.
//
// A message is error-corrected, then each bit is painted as a square cell of
// black (0) or white (255) in a grayscale payload image. The payload is embedded
// like any other with watermark.Embed, and the image returned by watermark.Extract
// is read back with Decode.
package mark

import (
	"errors"
	"fmt"
	"image"
	"math"

	watermark "github.com/yyyoichi/watermark_rdwt"
	"github.com/yyyoichi/watermark_rdwt/internal/bitconv"
	"github.com/yyyoichi/watermark_rdwt/internal/kmeans"
)

var (
	ErrTooLong         = errors.New("message does not fit in payload")
	ErrInvalidCellSize = errors.New("invalid cell size")
)

const (
	low  = 0
	high = 255
	// cell averages closer than this are treated as one level
	minSpread = 64
)

// Capacity returns the number of message bytes a payload of the given size holds.
func Capacity(size watermark.Size, opts ...Option) int {
	l := newLayout(opts...)
	cells := l.cells(size)
	n := 0
	for l.c.encodedLen((n+1)*8) <= cells {
		n++
	}
	return n
}

// EncodeString is Encode for a string message.
func EncodeString(s string, size watermark.Size, opts ...Option) (*image.Gray, error) {
	return Encode([]byte(s), size, opts...)
}

// Encode paints data into a payload image of the given size.
// Cells not used by the message are left black.
// Returns ErrTooLong if data exceeds Capacity.
func Encode(data []byte, size watermark.Size, opts ...Option) (*image.Gray, error) {
	l := newLayout(opts...)
	if err := l.validate(size); err != nil {
		return nil, err
	}
	bits := l.c.encode(bitconv.BytesToBools(data))
	if cells := l.cells(size); len(bits) > cells {
		return nil, fmt.Errorf("%w: %d bytes need %d cells, have %d", ErrTooLong, len(data), len(bits), cells)
	}

	img := image.NewGray(size.Rect())
	cols := size.Width / l.cell
	for i, bit := range bits {
		if !bit {
			continue
		}
		x0, y0 := (i%cols)*l.cell, (i/cols)*l.cell
		for y := y0; y < y0+l.cell; y++ {
			for x := x0; x < x0+l.cell; x++ {
				img.Pix[y*img.Stride+x] = high
			}
		}
	}
	return img, nil
}

// DecodeString is Decode returning a string.
func DecodeString(payload *image.Gray, n int, opts ...Option) (string, error) {
	b, err := Decode(payload, n, opts...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode reads an n-byte message from a payload, typically one recovered by
// watermark.Extract. The options must match the ones used to Encode it.
func Decode(payload *image.Gray, n int, opts ...Option) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: nil payload", watermark.ErrInvalidSize)
	}
	l := newLayout(opts...)
	size := watermark.SizeOf(payload)
	if err := l.validate(size); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrTooLong, n)
	}
	encoded := l.c.encodedLen(n * 8)
	if cells := l.cells(size); encoded > cells {
		return nil, fmt.Errorf("%w: %d bytes need %d cells, have %d", ErrTooLong, n, encoded, cells)
	}
	if n == 0 {
		return []byte{}, nil
	}

	averages := l.averages(payload, encoded)
	bits := l.c.decode(classify(averages), n*8)
	return bitconv.BoolsToBytes(bits), nil
}

func (l layout) validate(size watermark.Size) error {
	if l.cell < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCellSize, l.cell)
	}
	if !size.Valid() {
		return fmt.Errorf("%w: %s", watermark.ErrInvalidSize, size)
	}
	return nil
}

func (l layout) cells(size watermark.Size) int {
	if l.cell < 1 || !size.Valid() {
		return 0
	}
	return (size.Height / l.cell) * (size.Width / l.cell)
}

// averages returns the mean value of the first n cells of payload.
func (l layout) averages(payload *image.Gray, n int) []float64 {
	b := payload.Bounds()
	cols := b.Dx() / l.cell
	lo, hi := 0, l.cell
	if l.cell >= 3 {
		lo, hi = 1, l.cell-1
	}
	out := make([]float64, n)
	for i := range out {
		x0, y0 := b.Min.X+(i%cols)*l.cell, b.Min.Y+(i/cols)*l.cell
		var sum float64
		for y := y0 + lo; y < y0+hi; y++ {
			off := payload.PixOffset(x0, y)
			for _, v := range payload.Pix[off+lo : off+hi] {
				sum += float64(v)
			}
		}
		out[i] = sum / float64((hi-lo)*(hi-lo))
	}
	return out
}

// classify splits cell averages into white and black cells.
func classify(averages []float64) []bool {
	lo, hi := averages[0], averages[0]
	for _, v := range averages {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo >= minSpread {
		return kmeans.OneDimKmeans(averages)
	}
	// a single level: all black or all white
	bits := make([]bool, len(averages))
	for i, v := range averages {
		bits[i] = v >= (low+high)/2.
	}
	return bits
}
