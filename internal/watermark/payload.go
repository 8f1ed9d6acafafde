package watermark

import (
	"fmt"
	"image"
	"math/rand"
)

// Generate draws a payload of independent uniform bytes from rd.
func Generate(size Size, rd *rand.Rand) (*image.Gray, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	img := image.NewGray(size.Rect())
	for i := range img.Pix {
		img.Pix[i] = uint8(rd.Intn(256))
	}
	return img, nil
}
