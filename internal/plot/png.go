package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNothingToRender = errors.New("figure has no renderable data")

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainTitle strips the rich-text markup from the figure title.
func PlainTitle(fig *Figure) string {
	if fig.Layout.Title == nil {
		return ""
	}
	text := strings.ReplaceAll(fig.Layout.Title.Text, "<br>", " - ")
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}

// RenderPNG draws a static preview of fig. Bar figures become a bar chart,
// everything else is drawn as series: dated x values as time series, map
// traces as lon/lat lines. Shapes and annotations are not drawn.
func RenderPNG(fig *Figure, theme Theme, w io.Writer, width, height int) error {
	if isBarFigure(fig) {
		return renderBars(fig, theme, w, width, height)
	}
	return renderSeries(fig, theme, w, width, height)
}

func isBarFigure(fig *Figure) bool {
	for _, tr := range fig.Data {
		if tr.Type != "bar" {
			return false
		}
	}
	return len(fig.Data) > 0
}

func renderBars(fig *Figure, theme Theme, w io.Writer, width, height int) error {
	var bars []chart.Value
	for i, tr := range fig.Data {
		for j := range tr.X {
			value, ok := toFloat(tr.X[j])
			if !ok {
				continue
			}
			label := tr.Name
			if j < len(tr.Y) {
				label = fmt.Sprint(tr.Y[j])
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: value,
				Style: chart.Style{
					FillColor:   hexColor(traceColor(tr, theme, i)),
					StrokeColor: hexColor(traceColor(tr, theme, i)),
				},
			})
		}
	}
	if len(bars) == 0 {
		return ErrNothingToRender
	}

	top := 0.0
	for _, b := range bars {
		top = max(top, b.Value)
	}
	if top == 0 {
		top = 1
	}

	barWidth := max(8, width/(2*len(bars)+1))
	bc := chart.BarChart{
		Title:      PlainTitle(fig),
		TitleStyle: chart.Style{FontColor: hexColor(theme.Header)},
		Background: chart.Style{
			FillColor: hexColor(theme.Background),
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas:     chart.Style{FillColor: hexColor(theme.Background)},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		XAxis:      chart.Style{FontColor: hexColor(theme.Text)},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: hexColor(theme.Text)},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	return bc.Render(chart.PNG, w)
}

func renderSeries(fig *Figure, theme Theme, w io.Writer, width, height int) error {
	var series []chart.Series
	hasTime := false
	for i, tr := range fig.Data {
		color := hexColor(traceColor(tr, theme, i))
		switch {
		case len(tr.Lon) > 0:
			series = append(series, lonLatSeries(tr, color)...)
		case len(tr.X) > 0:
			if s, ok := timeSeries(tr, color); ok {
				hasTime = true
				series = append(series, s)
			} else if s, ok := continuousSeries(tr, color); ok {
				series = append(series, s)
			}
		}
	}
	if len(series) == 0 {
		return ErrNothingToRender
	}

	ch := chart.Chart{
		Title:      PlainTitle(fig),
		TitleStyle: chart.Style{FontColor: hexColor(theme.Header)},
		Width:      width,
		Height:     height,
		Background: chart.Style{
			FillColor: hexColor(theme.Background),
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: hexColor(theme.Background)},
		XAxis:  chart.XAxis{Style: chart.Style{FontColor: hexColor(theme.Text)}},
		YAxis:  chart.YAxis{Style: chart.Style{FontColor: hexColor(theme.Text)}},
		Series: series,
	}
	if hasTime {
		ch.XAxis.ValueFormatter = chart.TimeDateValueFormatter
	}
	xr, yr := seriesRanges(series)
	ch.XAxis.Range = xr
	ch.YAxis.Range = yr
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    3,
		DotColor:    col,
	}
}

func timeSeries(tr Trace, color drawing.Color) (chart.Series, bool) {
	xs := make([]time.Time, 0, len(tr.X))
	ys := make([]float64, 0, len(tr.Y))
	for i := range tr.X {
		s, ok := tr.X[i].(string)
		if !ok || i >= len(tr.Y) {
			return nil, false
		}
		t, err := ParseDate(s)
		if err != nil {
			return nil, false
		}
		y, ok := toFloat(tr.Y[i])
		if !ok {
			continue
		}
		xs = append(xs, t)
		ys = append(ys, y)
	}
	return chart.TimeSeries{Name: tr.Name, XValues: xs, YValues: ys, Style: pointStyle(color)}, len(xs) > 0
}

func continuousSeries(tr Trace, color drawing.Color) (chart.Series, bool) {
	xs := make([]float64, 0, len(tr.X))
	ys := make([]float64, 0, len(tr.Y))
	for i := range tr.X {
		x, okX := toFloat(tr.X[i])
		if i >= len(tr.Y) {
			break
		}
		y, okY := toFloat(tr.Y[i])
		if !okX || !okY {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return chart.ContinuousSeries{Name: tr.Name, XValues: xs, YValues: ys, Style: pointStyle(color)}, len(xs) > 0
}

// lonLatSeries splits a map trace at its nil gaps into line series.
func lonLatSeries(tr Trace, color drawing.Color) []chart.Series {
	var out []chart.Series
	var xs, ys []float64
	flush := func() {
		if len(xs) > 1 {
			out = append(out, chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 1},
			})
		}
		xs, ys = nil, nil
	}
	for i := range tr.Lon {
		if i >= len(tr.Lat) {
			break
		}
		lon, okLon := toFloat(tr.Lon[i])
		lat, okLat := toFloat(tr.Lat[i])
		if !okLon || !okLat {
			flush()
			continue
		}
		xs = append(xs, lon)
		ys = append(ys, lat)
	}
	flush()
	return out
}

// seriesRanges returns explicit axis ranges, widened when all values are
// equal; go-chart refuses to render a zero-width range.
func seriesRanges(series []chart.Series) (*chart.ContinuousRange, *chart.ContinuousRange) {
	x := &chart.ContinuousRange{Min: math.Inf(1), Max: math.Inf(-1)}
	y := &chart.ContinuousRange{Min: math.Inf(1), Max: math.Inf(-1)}
	extend := func(r *chart.ContinuousRange, v float64) {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	for _, s := range series {
		switch v := s.(type) {
		case chart.TimeSeries:
			for i := range v.XValues {
				extend(x, float64(v.XValues[i].UnixNano()))
				extend(y, v.YValues[i])
			}
		case chart.ContinuousSeries:
			for i := range v.XValues {
				extend(x, v.XValues[i])
				extend(y, v.YValues[i])
			}
		}
	}
	widen(x, float64(24*time.Hour))
	widen(y, 1)
	return x, y
}

func widen(r *chart.ContinuousRange, pad float64) {
	if r.Min == r.Max {
		r.Min -= pad
		r.Max += pad
	}
}

func traceColor(tr Trace, theme Theme, i int) string {
	if tr.Marker != nil && tr.Marker.Color != "" {
		return tr.Marker.Color
	}
	if tr.Line != nil && tr.Line.Color != "" {
		return tr.Line.Color
	}
	return theme.Color(i)
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
