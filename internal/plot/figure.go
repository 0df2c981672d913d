// Package plot builds plotly-compatible chart documents ({data, layout}) and
// styles them with the site theme. The JSON is rendered by plotly.js on the
// website; this package never draws anything itself except PNG previews.
package plot

import "time"

// dateLayout is the date format plotly parses without timezone shifts.
const dateLayout = "2006-01-02 15:04:05"

// Figure is a chart: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type         string   `json:"type"`
	Name         string   `json:"name,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	X            []any    `json:"x,omitempty"`
	Y            []any    `json:"y,omitempty"`
	Lon          []any    `json:"lon,omitempty"`
	Lat          []any    `json:"lat,omitempty"`
	Orientation  string   `json:"orientation,omitempty"`
	Text         []string `json:"text,omitempty"`
	TextTemplate string   `json:"texttemplate,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	ClipOnAxis   *bool    `json:"cliponaxis,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	Line         *Line    `json:"line,omitempty"`
	ShowLegend   *bool    `json:"showlegend,omitempty"`
	LegendGroup  string   `json:"legendgroup,omitempty"`
	HoverInfo    string   `json:"hoverinfo,omitempty"`
}

type Marker struct {
	Symbol  string   `json:"symbol,omitempty"`
	Size    float64  `json:"size,omitempty"`
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Line    *Line    `json:"line,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Font struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Weight string  `json:"weight,omitempty"`
}

type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	Colorway     []string     `json:"colorway,omitempty"`
	PaperBgColor string       `json:"paper_bgcolor,omitempty"`
	PlotBgColor  string       `json:"plot_bgcolor,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	Shapes       []Shape      `json:"shapes,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	Map          *MapLayout   `json:"map,omitempty"`
	Template     *Template    `json:"template,omitempty"`
}

// Template is the base layout embedded in the figure, like a plotly template.
type Template struct {
	Layout *Layout `json:"layout,omitempty"`
}

type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x,omitempty"`
	XAnchor string  `json:"xanchor,omitempty"`
	Y       float64 `json:"y,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
	Font    *Font   `json:"font,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Legend struct {
	BgColor     string       `json:"bgcolor,omitempty"`
	BorderColor string       `json:"bordercolor,omitempty"`
	BorderWidth float64      `json:"borderwidth,omitempty"`
	Font        *Font        `json:"font,omitempty"`
	Title       *LegendTitle `json:"title,omitempty"`
}

type LegendTitle struct {
	Text string `json:"text,omitempty"`
	Font *Font  `json:"font,omitempty"`
}

type Axis struct {
	Type       string  `json:"type,omitempty"`
	ShowGrid   *bool   `json:"showgrid,omitempty"`
	ZeroLine   *bool   `json:"zeroline,omitempty"`
	ShowLine   *bool   `json:"showline,omitempty"`
	LineColor  string  `json:"linecolor,omitempty"`
	LineWidth  float64 `json:"linewidth,omitempty"`
	Ticks      string  `json:"ticks,omitempty"`
	TickLen    float64 `json:"ticklen,omitempty"`
	TickWidth  float64 `json:"tickwidth,omitempty"`
	TickColor  string  `json:"tickcolor,omitempty"`
	TickFont   *Font   `json:"tickfont,omitempty"`
	TickSuffix string  `json:"ticksuffix,omitempty"`
	Range      []any   `json:"range,omitempty"`
	AutoRange  string  `json:"autorange,omitempty"`
}

type Shape struct {
	Type      string `json:"type"`
	XRef      string `json:"xref,omitempty"`
	YRef      string `json:"yref,omitempty"`
	X0        any    `json:"x0"`
	X1        any    `json:"x1"`
	Y0        any    `json:"y0"`
	Y1        any    `json:"y1"`
	FillColor string `json:"fillcolor,omitempty"`
	Line      *Line  `json:"line,omitempty"`
}

type Annotation struct {
	X           any     `json:"x"`
	Y           any     `json:"y"`
	Text        string  `json:"text"`
	ShowArrow   bool    `json:"showarrow"`
	XShift      float64 `json:"xshift,omitempty"`
	YShift      float64 `json:"yshift,omitempty"`
	Font        *Font   `json:"font,omitempty"`
	BgColor     string  `json:"bgcolor,omitempty"`
	BorderColor string  `json:"bordercolor,omitempty"`
	BorderPad   float64 `json:"borderpad,omitempty"`
}

type MapLayout struct {
	Style  string     `json:"style,omitempty"`
	Center MapCenter  `json:"center"`
	Zoom   float64    `json:"zoom,omitempty"`
	Bounds *MapBounds `json:"bounds,omitempty"`
}

// MapBounds restricts panning to a lon/lat box.
type MapBounds struct {
	West  float64 `json:"west"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	North float64 `json:"north"`
}

type MapCenter struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// AddTrace appends a trace and returns the figure for chaining.
func (f *Figure) AddTrace(t Trace) *Figure {
	f.Data = append(f.Data, t)
	return f
}

// AddShape appends a layout shape.
func (f *Figure) AddShape(s Shape) *Figure {
	f.Layout.Shapes = append(f.Layout.Shapes, s)
	return f
}

// AddAnnotation appends a layout annotation.
func (f *Figure) AddAnnotation(a Annotation) *Figure {
	f.Layout.Annotations = append(f.Layout.Annotations, a)
	return f
}

// Date formats t the way the figure stores date coordinates.
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate is the inverse of Date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}
