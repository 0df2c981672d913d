package plot

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// BarRow is one category of a horizontal bar chart.
type BarRow struct {
	Category string
	Value    float64
}

type BarOptions struct {
	Title string
	// Suffix is appended to the value label outside each bar, e.g. "h".
	Suffix string
}

// Bar builds a horizontal bar chart with one coloured trace per category,
// in the order of rows.
func Bar(rows []BarRow, theme Theme, opts BarOptions) *Figure {
	fig := newFigure(theme, opts.Title)

	textTemplate := "%{x}"
	if opts.Suffix != "" {
		textTemplate = fmt.Sprintf("%%{x} %s", opts.Suffix)
	}

	for i, row := range rows {
		fig.AddTrace(Trace{
			Type:         "bar",
			Name:         row.Category,
			Orientation:  "h",
			X:            []any{row.Value},
			Y:            []any{row.Category},
			Text:         []string{row.Category},
			TextTemplate: textTemplate,
			TextPosition: "outside",
			ClipOnAxis:   boolPtr(false),
			LegendGroup:  row.Category,
			Marker:       &Marker{Color: theme.Color(i)},
		})
	}
	return fig
}

// ScatterPoint is one dated observation of a category.
type ScatterPoint struct {
	Category string
	X        time.Time
	Y        float64
}

type ScatterOptions struct {
	Title   string
	Opacity float64
}

// Scatter builds a date scatter with one marker trace per category, ordered
// by first appearance.
func Scatter(points []ScatterPoint, theme Theme, opts ScatterOptions) *Figure {
	fig := newFigure(theme, opts.Title)

	var order []string
	byCategory := map[string]*Trace{}
	for _, p := range points {
		tr, ok := byCategory[p.Category]
		if !ok {
			tr = &Trace{
				Type:        "scatter",
				Mode:        "markers",
				Name:        p.Category,
				LegendGroup: p.Category,
				Marker:      &Marker{Color: theme.Color(len(order))},
			}
			if opts.Opacity > 0 {
				tr.Opacity = floatPtr(opts.Opacity)
			}
			byCategory[p.Category] = tr
			order = append(order, p.Category)
		}
		tr.X = append(tr.X, Date(p.X))
		tr.Y = append(tr.Y, p.Y)
	}

	for _, c := range order {
		fig.AddTrace(*byCategory[c])
	}
	return fig
}

// Route is one recorded path tagged with its category.
type Route struct {
	Category string
	Path     orb.LineString
}

type MapOptions struct {
	Title  string
	Center MapCenter
	Zoom   float64
	Bounds *MapBounds
}

// RouteMap draws every route as a line on a map, one trace per category.
// Routes of a category are separated by nil coordinates, which plotly
// renders as gaps.
func RouteMap(routes []Route, theme Theme, opts MapOptions) *Figure {
	fig := newFigure(theme, opts.Title)
	fig.Layout.Map = &MapLayout{
		Style:  "carto-darkmatter",
		Center: opts.Center,
		Zoom:   opts.Zoom,
		Bounds: opts.Bounds,
	}

	var order []string
	byCategory := map[string]*Trace{}
	for _, r := range routes {
		if len(r.Path) == 0 {
			continue
		}
		tr, ok := byCategory[r.Category]
		if !ok {
			tr = &Trace{
				Type:    "scattermap",
				Mode:    "lines",
				Name:    r.Category,
				Opacity: floatPtr(0.5),
				Line:    &Line{Color: theme.Color(len(order)), Width: 1},
			}
			byCategory[r.Category] = tr
			order = append(order, r.Category)
		} else {
			tr.Lon = append(tr.Lon, nil)
			tr.Lat = append(tr.Lat, nil)
		}
		for _, p := range r.Path {
			tr.Lon = append(tr.Lon, p.Lon())
			tr.Lat = append(tr.Lat, p.Lat())
		}
	}

	for _, c := range order {
		fig.AddTrace(*byCategory[c])
	}
	return fig
}

func newFigure(theme Theme, title string) *Figure {
	fig := &Figure{
		Data: []Trace{},
		Layout: Layout{
			Template: theme.template(),
		},
	}
	if title != "" {
		fig.Layout.Title = &Title{Text: title}
	}
	return fig
}
