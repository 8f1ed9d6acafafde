package watermark

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

var (
	ErrInvalidSize       = errors.New("invalid watermark size")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrMissingPosition   = errors.New("missing embedding position")
)

// Size is the shape of a watermark payload in pixels.
type Size struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

func NewSize(height, width int) Size {
	return Size{Height: height, Width: width}
}

// SizeOf returns the shape of img.
func SizeOf(img *image.Gray) Size {
	if img == nil {
		return Size{}
	}
	b := img.Bounds()
	return Size{Height: b.Dy(), Width: b.Dx()}
}

// ParseSize parses "HxW" (for example "128x128").
func ParseSize(s string) (Size, error) {
	hs, ws, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q is not HxW", ErrInvalidSize, s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Size{}, fmt.Errorf("%w: height %q: %w", ErrInvalidSize, hs, err)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Size{}, fmt.Errorf("%w: width %q: %w", ErrInvalidSize, ws, err)
	}
	size := NewSize(h, w)
	if !size.Valid() {
		return Size{}, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	return size, nil
}

func (s Size) Valid() bool {
	return s.Height > 0 && s.Width > 0
}

func (s Size) Area() int {
	return s.Height * s.Width
}

func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Height, s.Width)
}

// Position is the top-left offset of the payload inside the approximation band.
// Row counts down from the top edge, Col counts right from the left edge.
type Position struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Within reports whether a payload of the given size placed at p lies inside
// a band of width w and height h.
func (p Position) Within(size Size, w, h int) bool {
	return p.Row >= 0 && p.Col >= 0 &&
		p.Row+size.Height <= h && p.Col+size.Width <= w
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
