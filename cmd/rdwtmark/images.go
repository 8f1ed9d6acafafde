package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"
	"github.com/yyyoichi/httpcache-go"
	"github.com/yyyoichi/watermark_rdwt/internal/gray"
)

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// client fetches remote images through an on-disk cache, so that the same
// original can be fetched again for extraction.
func (a *app) client() (*httpcache.Client, error) {
	dir := a.cfg.CacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache dir: %w", err)
		}
		dir = filepath.Join(base, "rdwtmark")
	}
	return &httpcache.Client{
		Client:  http.DefaultClient,
		Cache:   httpcache.NewStorageCache(dir),
		Handler: httpcache.NewDefaultHandler(),
	}, nil
}

func (a *app) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !isRemote(src) {
		return os.Open(src)
	}
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", src).Msg("fetch")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}

// loadGray decodes an image from a path or URL and reduces it to luma.
func (a *app) loadGray(ctx context.Context, src string) (*image.Gray, error) {
	r, err := a.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	log.Debug().Str("image", src).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).Msg("decoded")
	return gray.ToGray(img), nil
}

// savePNG writes img losslessly. Any lossy format would damage the watermark.
func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
