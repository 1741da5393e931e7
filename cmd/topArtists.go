/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/analysis"
	"github.com/ademuri/spotify-plot/internal/export"
	"github.com/ademuri/spotify-plot/internal/history"
	"github.com/ademuri/spotify-plot/internal/logger"
	"github.com/ademuri/spotify-plot/internal/plot"
)

const dateArgsHelp = `Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or relative like '30d', '12w', '6m', '1y'.
With no dates the whole history is used. One date covers that year, month or day (or from then until now).`

// filterFlags are shared by every command that runs the pipeline.
type filterFlags struct {
	number    int
	exclude   []string
	minPlayed time.Duration
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.number, "number", "n", 50, "number of artists to include, 0 for all")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil, "artist to leave out, may be repeated")
	cmd.Flags().DurationVar(&f.minPlayed, "min-played", 0, "ignore plays shorter than this (e.g. 30s)")
}

type PipelineConfig struct {
	DataPath        string
	NumArtists      int
	ExcludedArtists []string
	MinPlayed       time.Duration
	Start           time.Time
	End             time.Time
}

func (f *filterFlags) pipelineConfig(args []string) (PipelineConfig, error) {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return PipelineConfig{}, err
	}
	return PipelineConfig{
		DataPath:        viper.GetString("data"),
		NumArtists:      f.number,
		ExcludedArtists: f.exclude,
		MinPlayed:       f.minPlayed,
		Start:           start,
		End:             end,
	}, nil
}

// runPipeline loads, filters and aggregates the streaming history.
func runPipeline(config PipelineConfig) (*analysis.Report, error) {
	ds, err := history.Load(config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	ds, err = history.Preprocess(ds, history.PreprocessOptions{
		ExcludedArtists: config.ExcludedArtists,
		From:            config.Start,
		To:              config.End,
		MinPlayed:       config.MinPlayed.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("preprocessing: %w", err)
	}

	report, err := analysis.GenerateReport(ds, config.NumArtists)
	if err != nil {
		return nil, err
	}
	if !config.Start.IsZero() || !config.End.IsZero() {
		report.Summary.Period = describeRange(config.Start, config.End)
	}
	return report, nil
}

type TopArtistsConfig struct {
	PipelineConfig
	Output   string
	XLSXPath string
	NoPlot   bool
	Plot     plot.Options
}

var topArtistsFlags filterFlags
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from (optional)] [to (optional)]",
	Short: "Charts the most played artists",
	Long: `Plots total plays per artist as bars, with total listening hours and mean track
duration on a second axis, and prints the same numbers as a table.
` + dateArgsHelp,
	Example: `  spotify-plot top-artists --data MyData -n 50 --exclude "Peppa Pig Hörspiele"
  spotify-plot top-artists 2023 --output top_artists_2023.png`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := topArtistsFlags.pipelineConfig(args)
		if err != nil {
			return err
		}
		config := TopArtistsConfig{
			PipelineConfig: pipeline,
			Output:         viper.GetString("output"),
			XLSXPath:       viper.GetString("xlsx"),
			NoPlot:         viper.GetBool("no-plot"),
			Plot: plot.Options{
				WidthInches:  viper.GetFloat64("width"),
				HeightInches: viper.GetFloat64("height"),
				DPI:          viper.GetFloat64("dpi"),
				Palette:      viper.GetString("palette"),
			},
		}
		return topArtists(os.Stdout, config)
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsFlags.register(topArtistsCmd)

	defaults := plot.DefaultOptions()
	topArtistsCmd.Flags().StringP("output", "o", "top_artists.png", "PNG file to write the chart to")
	viper.BindPFlag("output", topArtistsCmd.Flags().Lookup("output"))

	topArtistsCmd.Flags().String("xlsx", "", "also write the table to this .xlsx file")
	viper.BindPFlag("xlsx", topArtistsCmd.Flags().Lookup("xlsx"))

	topArtistsCmd.Flags().Bool("no-plot", false, "only print the table")
	viper.BindPFlag("no-plot", topArtistsCmd.Flags().Lookup("no-plot"))

	topArtistsCmd.Flags().Float64("width", defaults.WidthInches, "chart width in inches")
	viper.BindPFlag("width", topArtistsCmd.Flags().Lookup("width"))

	topArtistsCmd.Flags().Float64("height", defaults.HeightInches, "chart height in inches")
	viper.BindPFlag("height", topArtistsCmd.Flags().Lookup("height"))

	topArtistsCmd.Flags().Float64("dpi", defaults.DPI, "chart resolution")
	viper.BindPFlag("dpi", topArtistsCmd.Flags().Lookup("dpi"))

	topArtistsCmd.Flags().String("palette", defaults.Palette, fmt.Sprintf("bar colours, one of %v", plot.PaletteNames()))
	viper.BindPFlag("palette", topArtistsCmd.Flags().Lookup("palette"))
}

func topArtists(out io.Writer, config TopArtistsConfig) error {
	report, err := runPipeline(config.PipelineConfig)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, newTopArtistsAnalysis(report))

	if config.XLSXPath != "" {
		if err := export.WriteXLSX(config.XLSXPath, report.TopArtists); err != nil {
			return fmt.Errorf("exporting table: %w", err)
		}
		logger.L().Info("Table saved", zap.String("path", config.XLSXPath))
	}

	if config.NoPlot {
		return nil
	}
	if err := plot.RenderFile(config.Output, report.TopArtists, config.Plot); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	fmt.Fprintf(out, "Plot saved to %s\n", config.Output)
	return nil
}
