package main

import (
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdwt"
	"github.com/yyyoichi/watermark_rdwt/internal/db"
	"github.com/yyyoichi/watermark_rdwt/mark"
	"github.com/yyyoichi/watermark_rdwt/record"
)

var errNoPayload = errors.New("exactly one of --watermark or --message is required")

func (a *app) embedCmd() *cobra.Command {
	var in, out, payloadPath, message, recordPath string
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed a payload into an image",
		Long: "Embed a payload into an image. The marked image is written as PNG and the\n" +
			"embedding record, needed for extraction, is written next to it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Now()
			if (payloadPath == "") == (message == "") {
				return errNoPayload
			}
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}
			w, err := watermark.New(opts...)
			if err != nil {
				return err
			}

			src, err := a.loadGray(ctx, in)
			if err != nil {
				return err
			}
			var payload *image.Gray
			if message != "" {
				payload, err = mark.EncodeString(message, w.WatermarkSize())
			} else {
				payload, err = a.loadGray(ctx, payloadPath)
			}
			if err != nil {
				return err
			}

			marked, pos, err := w.Embed(ctx, src, payload)
			if err != nil {
				return err
			}
			if err := savePNG(out, marked); err != nil {
				return err
			}

			rec := record.New(w, marked, watermark.SizeOf(payload), pos)
			rec.MessageLen = len(message)
			if recordPath == "" {
				recordPath = record.SidecarPath(out)
			}
			if err := rec.WriteFile(recordPath); err != nil {
				return err
			}
			if path := a.dbPath(cmd); path != "" {
				if err := register(path, db.Entry{ImagePath: out, Record: rec, Payload: payload.Pix}); err != nil {
					return err
				}
			}

			ev := log.Info().
				Int64("duration(ms)", elapsed(start)).
				Stringer("position", pos).
				Stringer("size", rec.WatermarkSize).
				Float64("strength", rec.Strength).
				Str("record", recordPath).
				Str("out", out)
			if src.Bounds() == marked.Bounds() {
				if s, err := watermark.Compare(src, marked); err == nil {
					ev = ev.Float64("psnr", s.PSNR).Float64("max_abs", s.MaxAbs)
				}
			}
			ev.Msg("embed")
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "image path or URL")
	cmd.Flags().StringVar(&out, "out", "", "marked PNG path")
	cmd.Flags().StringVar(&payloadPath, "watermark", "", "payload image path or URL")
	cmd.Flags().StringVar(&message, "message", "", "text to embed as a payload")
	cmd.Flags().StringVar(&recordPath, "record", "", "record path (default <out>"+record.SidecarExt+")")
	cmd.Flags().String("size", watermark.DefaultWatermarkSize.String(), "payload size HxW for --message")
	cmd.Flags().Float64("strength", watermark.DefaultStrength, "embedding strength")
	cmd.Flags().Int64("seed", 0, "seed for a reproducible position")
	cmd.Flags().String("db", "", "registry database")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func register(path string, e db.Entry) error {
	d, err := db.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()
	id, err := d.Put(e)
	if err != nil {
		return err
	}
	log.Debug().Int64("id", id).Str("db", path).Str("digest", e.Record.Digest).Msg("registered")
	return nil
}
