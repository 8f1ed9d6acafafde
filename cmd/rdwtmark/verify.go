package main

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdwt"
)

func (a *app) verifyCmd() *cobra.Command {
	var pathA, pathB, chart string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare two grayscale images of the same size",
		Long: "Compare two grayscale images of the same size: an original and its marked\n" +
			"image for visibility, or a payload and its extraction for recovery.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a1, err := a.loadGray(ctx, pathA)
			if err != nil {
				return err
			}
			b1, err := a.loadGray(ctx, pathB)
			if err != nil {
				return err
			}
			s, err := watermark.Compare(a1, b1)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)

			if chart != "" {
				if err := writeChart(chart, pathA, pathB, diffHistogram(a1, b1)); err != nil {
					return err
				}
				log.Info().Str("chart", chart).Msg("verify")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pathA, "a", "", "reference image")
	cmd.Flags().StringVar(&pathB, "b", "", "compared image")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML histogram of absolute differences")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

const histBins = 32

// diffHistogram counts absolute pixel differences in bins of 8 levels.
// a and b must have the same size.
func diffHistogram(a, b *image.Gray) [histBins]int {
	var hist [histBins]int
	ab, bb := a.Bounds(), b.Bounds()
	for y := range ab.Dy() {
		for x := range ab.Dx() {
			d := math.Abs(float64(a.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y) - float64(b.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y))
			hist[int(d)/(256/histBins)]++
		}
	}
	return hist
}

func writeChart(path, nameA, nameB string, hist [histBins]int) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Absolute pixel difference",
			Subtitle: nameA + " vs " + nameB,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "difference"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pixels"}),
	)
	labels := make([]string, histBins)
	data := make([]opts.BarData, histBins)
	width := 256 / histBins
	for i, n := range hist {
		labels[i] = fmt.Sprintf("%d-%d", i*width, (i+1)*width-1)
		data[i] = opts.BarData{Value: n}
	}
	bar.SetXAxis(labels).AddSeries("pixels", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
