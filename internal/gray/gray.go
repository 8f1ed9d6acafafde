// Package gray reduces decoded images to the 8-bit luma plane the watermark works on.
package gray

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// BT.601 luma weights.
const (
	yr = 0.299
	yg = 0.587
	yb = 0.114
)

// Luma returns the BT.601 luma of an 8-bit RGB triple, rounded to the nearest level.
func Luma(r, g, b uint8) uint8 {
	y := yr*float64(r) + yg*float64(g) + yb*float64(b)
	return uint8(math.Min(255, math.Round(y)))
}

// ToGray returns the luma plane of img with bounds moved to the origin.
// Alpha is ignored, so transparent pixels keep their color's luma.
// A *image.Gray input is copied.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src := img.(type) {
	case *image.Gray:
		for y := range b.Dy() {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:], src.Pix[off:off+b.Dx()])
		}
		return out
	case *image.NRGBA:
		fromRGB(out, src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y))
		return out
	}

	rgba := image.NewNRGBA(out.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	fromRGB(out, rgba.Pix, rgba.Stride, 0)
	return out
}

func fromRGB(dst *image.Gray, pix []uint8, stride, start int) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		row := pix[start+y*stride:]
		for x := range w {
			dst.Pix[y*dst.Stride+x] = Luma(row[x*4], row[x*4+1], row[x*4+2])
		}
	}
}
