// Package record persists what extraction needs to know about an embedding.
//
// Embedding picks a random position, so the position has to be kept next to the
// marked image. A Record is written as a YAML sidecar file and can also be kept
// in a registry keyed by the digest of the marked image.
package record

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	watermark "github.com/yyyoichi/watermark_rdwt"
	"gopkg.in/yaml.v3"
)

// Version is the current record format.
const Version = 1

// SidecarExt is appended to an image path to name its record file.
const SidecarExt = ".rdwt.yaml"

var (
	ErrInvalidRecord  = errors.New("invalid record")
	ErrDigestMismatch = errors.New("image digest does not match record")
)

type Record struct {
	Version       int                `yaml:"version"`
	Wavelet       string             `yaml:"wavelet"`
	Strength      float64            `yaml:"strength"`
	Position      watermark.Position `yaml:"position"`
	WatermarkSize watermark.Size     `yaml:"watermark_size"`
	// Image is the shape of the marked image, which is the padded shape of the original.
	Image  Dimensions `yaml:"image"`
	Digest string     `yaml:"digest"`
	// MessageLen is the byte length of a text message carried by the payload, if any.
	MessageLen int `yaml:"message_len,omitempty"`
}

type Dimensions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// New records an embedding made by w that produced marked at pos.
func New(w *watermark.Watermark, marked *image.Gray, size watermark.Size, pos watermark.Position) Record {
	b := marked.Bounds()
	return Record{
		Version:       Version,
		Wavelet:       w.Wavelet(),
		Strength:      w.Strength(),
		Position:      pos,
		WatermarkSize: size,
		Image:         Dimensions{Width: b.Dx(), Height: b.Dy()},
		Digest:        Digest(marked),
	}
}

// Digest returns the hex SHA-256 of the image shape and pixels.
func Digest(img *image.Gray) string {
	h := sha256.New()
	b := img.Bounds()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(b.Dx()))
	binary.BigEndian.PutUint64(dims[8:], uint64(b.Dy()))
	h.Write(dims[:])
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[off : off+b.Dx()])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (r Record) Validate() error {
	if r.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidRecord, r.Version)
	}
	if _, err := watermark.New(r.Options()...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if !r.WatermarkSize.Valid() {
		return fmt.Errorf("%w: watermark size %s", ErrInvalidRecord, r.WatermarkSize)
	}
	if !r.Position.Within(r.WatermarkSize, r.Image.Width, r.Image.Height) {
		return fmt.Errorf("%w: %s payload at %s outside %dx%d image", ErrInvalidRecord,
			r.WatermarkSize, r.Position, r.Image.Height, r.Image.Width)
	}
	if d, err := hex.DecodeString(r.Digest); err != nil || len(d) != sha256.Size {
		return fmt.Errorf("%w: digest %q", ErrInvalidRecord, r.Digest)
	}
	if r.MessageLen < 0 {
		return fmt.Errorf("%w: message length %d", ErrInvalidRecord, r.MessageLen)
	}
	return nil
}

// Options returns the options that reproduce the recorded embedding.
func (r Record) Options() []watermark.Option {
	return []watermark.Option{
		watermark.WithWavelet(r.Wavelet),
		watermark.WithStrength(r.Strength),
	}
}

// Verify reports ErrDigestMismatch when marked is not the image the record was made for.
func (r Record) Verify(marked *image.Gray) error {
	if got := Digest(marked); got != r.Digest {
		return fmt.Errorf("%w: got %.12s, recorded %.12s", ErrDigestMismatch, got, r.Digest)
	}
	return nil
}

func (r Record) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return enc.Close()
}

// Read decodes and validates a record.
func Read(r io.Reader) (Record, error) {
	var rec Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r Record) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open record: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// SidecarPath returns the record path kept next to an image.
func SidecarPath(imagePath string) string {
	return imagePath + SidecarExt
}
