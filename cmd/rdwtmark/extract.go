package main

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdwt"
	"github.com/yyyoichi/watermark_rdwt/internal/db"
	"github.com/yyyoichi/watermark_rdwt/mark"
	"github.com/yyyoichi/watermark_rdwt/record"
)

var errNoOutput = errors.New("nothing to extract: set --out or a message length")

func (a *app) extractCmd() *cobra.Command {
	var in, original, out, recordPath string
	var messageLen int
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover a payload from a marked image and its original",
		Long: "Recover a payload from a marked image and its original. The embedding record\n" +
			"is read from --record, else from the --db registry, else from the sidecar file\n" +
			"next to the marked image. A message carried by the payload is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Now()

			marked, err := a.loadGray(ctx, in)
			if err != nil {
				return err
			}
			entry, err := a.lookup(cmd, marked, in, recordPath)
			if err != nil {
				return err
			}
			rec := entry.Record
			if err := rec.Verify(marked); err != nil {
				log.Warn().Err(err).Str("image", in).Msg("extract")
			}
			if cmd.Flags().Changed("message-len") {
				rec.MessageLen = messageLen
			}
			if out == "" && rec.MessageLen == 0 {
				return errNoOutput
			}

			orig, err := a.loadGray(ctx, original)
			if err != nil {
				return err
			}
			recovered, err := watermark.Extract(ctx, marked, orig, rec.WatermarkSize, &rec.Position, rec.Options()...)
			if err != nil {
				return err
			}

			ev := log.Info().
				Int64("duration(ms)", elapsed(start)).
				Stringer("position", rec.Position).
				Stringer("size", rec.WatermarkSize)
			if entry.Payload != nil {
				if s, err := compareStored(entry, recovered); err == nil {
					ev = ev.Float64("ncc", s.NCC).Float64("mean_abs", s.MeanAbs)
				}
			}
			if out != "" {
				if err := savePNG(out, recovered); err != nil {
					return err
				}
				ev = ev.Str("out", out)
			}
			if rec.MessageLen > 0 {
				msg, err := mark.DecodeString(recovered, rec.MessageLen)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			ev.Msg("extract")
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "marked image path or URL")
	cmd.Flags().StringVar(&original, "original", "", "original image path or URL")
	cmd.Flags().StringVar(&out, "out", "", "recovered payload PNG path")
	cmd.Flags().StringVar(&recordPath, "record", "", "embedding record path")
	cmd.Flags().String("db", "", "registry database")
	cmd.Flags().IntVar(&messageLen, "message-len", 0, "byte length of the embedded message")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("original")
	return cmd
}

// lookup finds the embedding record for marked.
func (a *app) lookup(cmd *cobra.Command, marked *image.Gray, in, recordPath string) (db.Entry, error) {
	if recordPath != "" {
		rec, err := record.ReadFile(recordPath)
		return db.Entry{ImagePath: in, Record: rec}, err
	}
	if path := a.dbPath(cmd); path != "" {
		d, err := db.Open(path)
		if err != nil {
			return db.Entry{}, err
		}
		defer d.Close()
		return d.Get(record.Digest(marked))
	}
	if isRemote(in) {
		return db.Entry{}, fmt.Errorf("%s is remote: set --record or --db", in)
	}
	rec, err := record.ReadFile(record.SidecarPath(in))
	return db.Entry{ImagePath: in, Record: rec}, err
}

func compareStored(e db.Entry, recovered *image.Gray) (watermark.Similarity, error) {
	size := e.Record.WatermarkSize
	stored := &image.Gray{Pix: e.Payload, Stride: size.Width, Rect: image.Rect(0, 0, size.Width, size.Height)}
	return watermark.Compare(stored, recovered)
}
