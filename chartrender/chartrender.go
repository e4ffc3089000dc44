// Package chartrender draws grafer curve segments with go-chart and writes them as PNG or SVG
// images.
package chartrender

import (
	"io"
	"math"

	"github.com/karrick/grafer"
	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the image encoding produced by Render.
type Format int

const (
	PNG Format = iota
	SVG
)

// ErrEmpty is returned by Render when no polyline has been drawn.
var ErrEmpty = errors.New("chartrender: nothing to render")

// Canvas collects polylines in the target coordinate space of a grafer.Extent. Its origin is the
// top left corner, matching the points produced by grafer.
type Canvas struct {
	extent grafer.Extent
	series []chart.Series
}

// New returns an empty Canvas covering extent.
func New(extent grafer.Extent) *Canvas {
	return &Canvas{extent: extent}
}

// DrawPolyline adds points to the canvas as one stroked line.
func (c *Canvas) DrawPolyline(points []grafer.Point, stroke grafer.Stroke) error {
	if len(points) < 2 {
		return errors.Errorf("chartrender: polyline needs at least 2 points; got %d", len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	c.series = append(c.series, chart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: drawing.Color{R: stroke.Color.R, G: stroke.Color.G, B: stroke.Color.B, A: stroke.Color.A},
			StrokeWidth: stroke.Width,
		},
	})
	return nil
}

// Len returns the number of polylines drawn so far.
func (c *Canvas) Len() int { return len(c.series) }

// Render encodes every polyline drawn so far to w.
func (c *Canvas) Render(w io.Writer, format Format) error {
	if len(c.series) == 0 {
		return ErrEmpty
	}
	var provider chart.RendererProvider
	switch format {
	case PNG:
		provider = chart.PNG
	case SVG:
		provider = chart.SVG
	default:
		return errors.Errorf("chartrender: unknown format %d", format)
	}

	ch := chart.Chart{
		Width:  int(math.Ceil(c.extent.Width)),
		Height: int(math.Ceil(c.extent.Height)),
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: c.extent.Width},
		},
		// target space grows downward
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: c.extent.Height, Descending: true},
		},
		Series: c.series,
	}
	if err := ch.Render(provider, w); err != nil {
		return errors.Wrap(err, "chartrender: cannot render")
	}
	return nil
}
