package watermark

import (
	"context"
	"fmt"
	"image"
	"math/rand"

	"github.com/yyyoichi/watermark_rdwt/internal/swt"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Fits reports an error if a payload of the given size has no valid position
// inside the approximation band of src.
func Fits(src ImageSource, size Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	if size.Height > src.height || size.Width > src.width {
		return fmt.Errorf("%w: watermark %s exceeds approximation band %dx%d",
			ErrInvalidSize, size, src.height, src.width)
	}
	return nil
}

// Embed adds mark scaled by alpha to the approximation band of src at a
// position drawn from rd, and returns the reconstructed image with that position.
//
// Process:
//  1. Decomposes the padded image with the stationary Haar transform.
//  2. Picks a position where the whole mark fits inside cA.
//  3. Adds mark*alpha to the cA region.
//  4. Inverts the transform and quantizes to bytes.
func Embed(ctx context.Context, src ImageSource, mark *image.Gray, alpha float64, rd *rand.Rand) (*image.Gray, Position, error) {
	size := SizeOf(mark)
	if err := Fits(src, size); err != nil {
		return nil, Position{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Position{}, err
	}
	bands, err := src.decompose()
	if err != nil {
		return nil, Position{}, err
	}

	pos := Position{
		Row: rd.Intn(src.height - size.Height + 1),
		Col: rd.Intn(src.width - size.Width + 1),
	}
	addMark(bands, mark, pos, alpha)

	if err := ctx.Err(); err != nil {
		return nil, Position{}, err
	}
	dst, err := Reconstruct(bands)
	if err != nil {
		return nil, Position{}, err
	}
	return dst, pos, nil
}

// Extract recovers a payload of the given size at pos from the difference of
// the approximation bands of marked and original, scaled by 1/alpha.
func Extract(ctx context.Context, marked, original ImageSource, size Size, pos *Position, alpha float64) (*image.Gray, error) {
	if pos == nil {
		return nil, ErrMissingPosition
	}
	if marked.width != original.width || marked.height != original.height {
		return nil, fmt.Errorf("%w: marked %dx%d, original %dx%d", ErrDimensionMismatch,
			marked.height, marked.width, original.height, original.width)
	}
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	if !pos.Within(size, marked.width, marked.height) {
		return nil, fmt.Errorf("%w: %s region at %s outside approximation band %dx%d",
			ErrDimensionMismatch, size, pos, marked.height, marked.width)
	}

	var markedBands, originalBands *swt.Subbands
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		markedBands, err = marked.decompose()
		return err
	})
	eg.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		originalBands, err = original.decompose()
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if !markedBands.SameShape(originalBands) {
		return nil, fmt.Errorf("%w: incompatible subbands", ErrDimensionMismatch)
	}

	diff := difference(markedBands, originalBands, size, *pos, alpha)
	dst := image.NewGray(size.Rect())
	for r := range size.Height {
		for c := range size.Width {
			dst.Pix[r*dst.Stride+c] = quantize(diff.At(r, c))
		}
	}
	return dst, nil
}

// region returns a view of the cA coefficients covered by a payload of the
// given size at pos. Writes through the view modify bands.CA.
func region(bands *swt.Subbands, size Size, pos Position) *mat.Dense {
	cA := mat.NewDense(bands.Height, bands.Width, bands.CA)
	return cA.Slice(pos.Row, pos.Row+size.Height, pos.Col, pos.Col+size.Width).(*mat.Dense)
}

// addMark applies cA += mark*alpha over the payload region.
func addMark(bands *swt.Subbands, mark *image.Gray, pos Position, alpha float64) {
	size := SizeOf(mark)
	var scaled mat.Dense
	scaled.Scale(alpha, grayMatrix(mark))
	r := region(bands, size, pos)
	r.Add(r, &scaled)
}

// difference computes (cA_marked - cA_original) / alpha over the payload region.
func difference(marked, original *swt.Subbands, size Size, pos Position, alpha float64) *mat.Dense {
	var diff mat.Dense
	diff.Sub(region(marked, size, pos), region(original, size, pos))
	diff.Scale(1/alpha, &diff)
	return &diff
}

func grayMatrix(img *image.Gray) *mat.Dense {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	data := make([]float64, 0, h*w)
	for y := range h {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for _, v := range img.Pix[off : off+w] {
			data = append(data, float64(v))
		}
	}
	return mat.NewDense(h, w, data)
}
