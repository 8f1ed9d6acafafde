package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdwt"
)

type app struct {
	configPath string
	debug      bool
	human      bool
	cfg        Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "rdwtmark",
		Short:         "Embed and extract redundant wavelet watermarks in grayscale images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging level")
	root.PersistentFlags().BoolVar(&a.human, "human", false, "human readable logs")

	root.AddCommand(
		a.generateCmd(),
		a.embedCmd(),
		a.extractCmd(),
		a.verifyCmd(),
		a.listCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if cfg.Info {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if a.debug || cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if a.human || cfg.Human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Debug().Str("config", a.configPath).Msg("setup")
	return nil
}

// options merges config defaults with the flags set on cmd.
func (a *app) options(cmd *cobra.Command) ([]watermark.Option, error) {
	opts, err := a.cfg.options()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("strength") {
		v, _ := flags.GetFloat64("strength")
		opts = append(opts, watermark.WithStrength(v))
	}
	if flags.Changed("size") {
		s, _ := flags.GetString("size")
		size, err := watermark.ParseSize(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, watermark.WithWatermarkSize(size.Height, size.Width))
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		opts = append(opts, watermark.WithSeed(v))
	}
	return opts, nil
}

// dbPath returns the registry path from --db or the config.
func (a *app) dbPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	return a.cfg.DB
}

func elapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
