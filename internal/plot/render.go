package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/analysis"
	"github.com/ademuri/spotify-plot/internal/logger"
)

var ErrNoData = errors.New("no artists to plot")

type Options struct {
	WidthInches  float64
	HeightInches float64
	DPI          float64
	Palette      string
}

func DefaultOptions() Options {
	return Options{
		WidthInches:  15,
		HeightInches: 10,
		DPI:          300,
		Palette:      "pastel",
	}
}

func (o Options) pixels() (int, int) {
	return int(math.Round(o.WidthInches * o.DPI)), int(math.Round(o.HeightInches * o.DPI))
}

const (
	barAlpha       = 204 // 0.8
	barWidth       = 0.8
	titleFontSize  = 14
	labelFontSize  = 12
	tickFontSize   = 10
	xTickRotation  = 45
	headroomFactor = 1.1
)

var (
	hoursColor   = drawing.ColorFromHex("0000ff")
	minutesColor = drawing.ColorFromHex("ff0000")
)

// Build lays out the top artists chart: plays as bars on the left axis,
// listening hours and mean track minutes as lines on the right axis.
func Build(metrics []analysis.ArtistMetrics, opts Options) (*chart.Chart, error) {
	if len(metrics) == 0 {
		return nil, ErrNoData
	}
	if opts.WidthInches <= 0 || opts.HeightInches <= 0 || opts.DPI <= 0 {
		return nil, fmt.Errorf("invalid plot size %.1fx%.1f at %.0f dpi", opts.WidthInches, opts.HeightInches, opts.DPI)
	}
	palette, err := LookupPalette(opts.Palette, barAlpha)
	if err != nil {
		return nil, err
	}

	n := len(metrics)
	xs := make([]float64, n)
	plays := make([]float64, n)
	hours := make([]float64, n)
	minutes := make([]float64, n)
	ticks := make([]chart.Tick, n)
	var maxPlays, maxValue float64
	for i, m := range metrics {
		xs[i] = float64(i)
		plays[i] = float64(m.Plays)
		hours[i] = m.ListeningHours
		minutes[i] = m.MeanTrackMinutes
		ticks[i] = chart.Tick{Value: float64(i), Label: m.Name}
		maxPlays = math.Max(maxPlays, plays[i])
		maxValue = math.Max(maxValue, math.Max(hours[i], minutes[i]))
	}

	width, height := opts.pixels()
	// Stroke widths are in pixels, so scale them with the resolution.
	lineWidth := 2 * opts.DPI / 72

	graph := &chart.Chart{
		Title:      fmt.Sprintf("Top %d Artists - Spotify", n),
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      width,
		Height:     height,
		DPI:        opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: int(opts.DPI / 2), Left: int(opts.DPI / 4), Right: int(opts.DPI / 4), Bottom: int(opts.DPI / 4)},
		},
		XAxis: chart.XAxis{
			Name:      "Artist",
			NameStyle: chart.Style{FontSize: labelFontSize},
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks:     ticks,
			TickStyle: chart.Style{FontSize: tickFontSize, TextRotationDegrees: xTickRotation},
		},
		YAxis: chart.YAxis{
			Name:      "Total Plays",
			NameStyle: chart.Style{FontSize: labelFontSize},
			Range:     &chart.ContinuousRange{Min: 0, Max: headroom(maxPlays)},
		},
		YAxisSecondary: chart.YAxis{
			Name:      "Value",
			NameStyle: chart.Style{FontSize: labelFontSize},
			Range:     &chart.ContinuousRange{Min: 0, Max: headroom(maxValue)},
		},
		Series: []chart.Series{
			barSeries{name: "Total Plays", values: plays, palette: palette, width: barWidth},
			chart.ContinuousSeries{
				Name:    "Total Listening Hours",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: hours,
				Style:   chart.Style{StrokeColor: hoursColor, StrokeWidth: lineWidth},
			},
			chart.ContinuousSeries{
				Name:    "Mean Track Duration (Minutes)",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: minutes,
				Style:   chart.Style{StrokeColor: minutesColor, StrokeWidth: lineWidth},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// headroom pads an axis maximum so the tallest value is not clipped. An all
// zero series still needs a non-empty range.
func headroom(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max * headroomFactor
}

// Render writes the chart for metrics to w as a PNG.
func Render(w io.Writer, metrics []analysis.ArtistMetrics, opts Options) error {
	graph, err := Build(metrics, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// RenderFile renders the chart to path.
func RenderFile(path string, metrics []analysis.ArtistMetrics, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Render(f, metrics, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	logger.L().Info(fmt.Sprintf("Plot saved to %s", path), zap.String("path", path))
	return nil
}
