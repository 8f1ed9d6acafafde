package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	watermark "github.com/yyyoichi/watermark_rdwt"
	"gopkg.in/yaml.v3"
)

// Config holds defaults read from the --config file. Flags override them.
type Config struct {
	Debug    bool    `yaml:"debug"`
	Info     bool    `yaml:"info"`
	Human    bool    `yaml:"human"`
	Strength float64 `yaml:"strength"`
	Size     string  `yaml:"size"`
	Seed     *int64  `yaml:"seed"`
	DB       string  `yaml:"db"`
	CacheDir string  `yaml:"cache_dir"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// options returns the watermark options the config selects.
func (c Config) options() ([]watermark.Option, error) {
	var opts []watermark.Option
	if c.Strength != 0 {
		opts = append(opts, watermark.WithStrength(c.Strength))
	}
	if c.Size != "" {
		size, err := watermark.ParseSize(c.Size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, watermark.WithWatermarkSize(size.Height, size.Width))
	}
	if c.Seed != nil {
		opts = append(opts, watermark.WithSeed(*c.Seed))
	}
	return opts, nil
}
