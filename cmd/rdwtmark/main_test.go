package main

import (
	"bytes"
	"context"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/watermark_rdwt/record"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeOriginal(t *testing.T, dir string) string {
	t.Helper()
	rd := rand.New(rand.NewSource(1))
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for i := range img.Pix {
		img.Pix[i] = uint8(60 + rd.Intn(130))
	}
	path := filepath.Join(dir, "original.png")
	require.NoError(t, savePNG(path, img))
	return path
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	orig := writeOriginal(t, dir)
	wm := filepath.Join(dir, "wm.png")
	marked := filepath.Join(dir, "marked.png")
	recovered := filepath.Join(dir, "recovered.png")
	reg := filepath.Join(dir, "registry.db")

	_, err := run(t, "generate", "--out", wm, "--size", "32x32", "--seed", "1")
	require.NoError(t, err)

	_, err = run(t, "embed", "--in", orig, "--out", marked, "--watermark", wm, "--seed", "2", "--db", reg)
	require.NoError(t, err)
	rec, err := record.ReadFile(record.SidecarPath(marked))
	require.NoError(t, err)
	assert.Equal(t, 32, rec.WatermarkSize.Height)
	assert.Equal(t, record.Dimensions{Width: 128, Height: 128}, rec.Image)

	t.Run("extract with sidecar", func(t *testing.T) {
		_, err := run(t, "extract", "--in", marked, "--original", orig, "--out", recovered)
		require.NoError(t, err)
		assert.FileExists(t, recovered)
	})

	t.Run("extract with registry", func(t *testing.T) {
		out := filepath.Join(dir, "from-db.png")
		_, err := run(t, "extract", "--in", marked, "--original", orig, "--out", out, "--db", reg)
		require.NoError(t, err)
		a, err := os.ReadFile(recovered)
		require.NoError(t, err)
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("verify", func(t *testing.T) {
		chart := filepath.Join(dir, "diff.html")
		out, err := run(t, "verify", "--a", wm, "--b", recovered, "--chart", chart)
		require.NoError(t, err)
		assert.Contains(t, out, "ncc=")
		html, err := os.ReadFile(chart)
		require.NoError(t, err)
		assert.Contains(t, string(html), "echarts")
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, "list", "--db", reg)
		require.NoError(t, err)
		assert.Contains(t, out, marked)
		assert.Contains(t, out, "32x32")
	})
}

func TestMessage(t *testing.T) {
	dir := t.TempDir()
	orig := writeOriginal(t, dir)
	marked := filepath.Join(dir, "marked.png")

	_, err := run(t, "embed", "--in", orig, "--out", marked, "--message", "hello", "--size", "64x64")
	require.NoError(t, err)

	out, err := run(t, "extract", "--in", marked, "--original", orig)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	payload := filepath.Join(dir, "payload.png")
	_, err = run(t, "generate", "--out", payload, "--size", "64x64", "--message", "hello")
	require.NoError(t, err)
	assert.FileExists(t, payload)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	orig := writeOriginal(t, dir)
	marked := filepath.Join(dir, "marked.png")
	wm := filepath.Join(dir, "wm.png")

	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("strength: 0.25\nsize: 16x24\nseed: 3\n"), 0o644))

	_, err := run(t, "--config", cfg, "generate", "--out", wm)
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "embed", "--in", orig, "--out", marked, "--watermark", wm)
	require.NoError(t, err)
	rec, err := record.ReadFile(record.SidecarPath(marked))
	require.NoError(t, err)
	assert.Equal(t, 0.25, rec.Strength)
	assert.Equal(t, 16, rec.WatermarkSize.Height)
	assert.Equal(t, 24, rec.WatermarkSize.Width)

	// flags win over the config
	_, err = run(t, "--config", cfg, "embed", "--in", orig, "--out", marked, "--watermark", wm, "--strength", "0.05")
	require.NoError(t, err)
	rec, err = record.ReadFile(record.SidecarPath(marked))
	require.NoError(t, err)
	assert.Equal(t, 0.05, rec.Strength)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("strenght: 0.2\n"), 0o644))
	_, err = run(t, "--config", bad, "generate", "--out", wm)
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	orig := writeOriginal(t, dir)
	out := filepath.Join(dir, "out.png")

	_, err := run(t, "embed", "--in", orig, "--out", out)
	assert.ErrorIs(t, err, errNoPayload)

	_, err = run(t, "embed", "--in", orig, "--out", out, "--watermark", orig, "--message", "x")
	assert.ErrorIs(t, err, errNoPayload)

	_, err = run(t, "embed", "--in", orig, "--out", out, "--message", "x", "--strength", "-1")
	assert.Error(t, err)

	_, err = run(t, "extract", "--in", orig, "--original", orig)
	assert.Error(t, err, "no record next to the image")

	_, err = run(t, "list")
	assert.Error(t, err)
}
