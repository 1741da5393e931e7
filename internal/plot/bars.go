package plot

import (
	"errors"

	chart "github.com/wcharczuk/go-chart/v2"
)

// barSeries draws one bar per value at x = 0..n-1, each coloured from the
// palette in turn.
type barSeries struct {
	name    string
	values  []float64
	palette Palette
	// width is the fraction of the slot each bar fills.
	width float64
}

func (b barSeries) GetName() string { return b.name }

func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (b barSeries) GetStyle() chart.Style {
	c := b.palette.At(0)
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 4}
}

func (b barSeries) Len() int { return len(b.values) }

func (b barSeries) GetValues(i int) (float64, float64) {
	return float64(i), b.values[i]
}

func (b barSeries) Validate() error {
	if len(b.values) == 0 {
		return errors.New("bar series must have values")
	}
	if len(b.palette) == 0 {
		return errors.New("bar series must have a palette")
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	slot := xrange.Translate(1) - xrange.Translate(0)
	half := int(float64(slot) * b.width / 2)
	if half < 1 {
		half = 1
	}
	bottom := canvasBox.Bottom - yrange.Translate(0)

	for i, v := range b.values {
		center := canvasBox.Left + xrange.Translate(float64(i))
		top := canvasBox.Bottom - yrange.Translate(v)

		c := b.palette.At(i)
		r.SetFillColor(c)
		r.SetStrokeColor(c)
		r.SetStrokeWidth(0)
		r.MoveTo(center-half, bottom)
		r.LineTo(center-half, top)
		r.LineTo(center+half, top)
		r.LineTo(center+half, bottom)
		r.Close()
		r.Fill()
	}
}
