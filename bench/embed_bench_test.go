package bench_test

import (
	"image"
	"testing"

	watermark "github.com/yyyoichi/watermark_rdwt"
)

func BenchmarkEmbed(b *testing.B) {
	test := []struct {
		name          string
		width, height int
		size          watermark.Size
	}{
		{"360p_64", 640, 360, watermark.NewSize(64, 64)},
		{"HD_128", 1280, 720, watermark.NewSize(128, 128)},
		{"FHD_128", 1920, 1080, watermark.NewSize(128, 128)},
		{"FHD_512", 1920, 1080, watermark.NewSize(512, 512)},
	}
	ctx := b.Context()
	for _, tt := range test {
		img := createImage(tt.width, tt.height)
		mark, err := watermark.GenerateWithSeed(tt.size, 1)
		if err != nil {
			b.Fatalf("Failed to generate payload (%s): %v", tt.name, err)
		}
		w, err := watermark.New(watermark.WithSeed(1))
		if err != nil {
			b.Fatalf("Failed to create Watermark instance (%s): %v", tt.name, err)
		}
		b.Run(tt.name, func(b *testing.B) {
			for b.Loop() {
				if _, _, err := w.Embed(ctx, img, mark); err != nil {
					b.Fatalf("Failed to embed watermark (%s): %v", tt.name, err)
				}
			}
		})
	}
}

func BenchmarkExtract(b *testing.B) {
	test := []struct {
		name          string
		width, height int
	}{
		{"360p", 640, 360},
		{"FHD", 1920, 1080},
	}
	ctx := b.Context()
	size := watermark.NewSize(128, 128)
	for _, tt := range test {
		img := createImage(tt.width, tt.height)
		mark, err := watermark.GenerateWithSeed(size, 1)
		if err != nil {
			b.Fatalf("Failed to generate payload (%s): %v", tt.name, err)
		}
		marked, pos, err := watermark.Embed(ctx, img, mark, watermark.WithSeed(1))
		if err != nil {
			b.Fatalf("Failed to embed watermark (%s): %v", tt.name, err)
		}
		b.Run(tt.name, func(b *testing.B) {
			for b.Loop() {
				if _, err := watermark.Extract(ctx, marked, img, size, &pos); err != nil {
					b.Fatalf("Failed to extract watermark (%s): %v", tt.name, err)
				}
			}
		})
	}
}

// createImage creates a widthxheight test image with gradient pattern
func createImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Pix[y*img.Stride+x] = uint8((x*255/width + y*255/height) / 2)
		}
	}
	return img
}
