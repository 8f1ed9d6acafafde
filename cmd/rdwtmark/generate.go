package main

import (
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdwt"
	"github.com/yyyoichi/watermark_rdwt/mark"
)

func (a *app) generateCmd() *cobra.Command {
	var out, message string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a payload image, random or carrying a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}
			w, err := watermark.New(opts...)
			if err != nil {
				return err
			}

			var payload *image.Gray
			if message != "" {
				payload, err = mark.EncodeString(message, w.WatermarkSize())
			} else {
				payload, err = w.Generate()
			}
			if err != nil {
				return err
			}
			if err := savePNG(out, payload); err != nil {
				return err
			}
			log.Info().
				Int64("duration(ms)", elapsed(start)).
				Stringer("size", w.WatermarkSize()).
				Int("message_len", len(message)).
				Str("out", out).
				Msg("generate")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "payload PNG path")
	cmd.Flags().String("size", watermark.DefaultWatermarkSize.String(), "payload size HxW")
	cmd.Flags().Int64("seed", 0, "seed for a reproducible payload")
	cmd.Flags().StringVar(&message, "message", "", "text to encode instead of random noise")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
