// Package annotate adds fixed call-outs (markers, rectangles and numbered
// badges) for notable sessions onto activity charts.
package annotate

import (
	"time"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/plot"
)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// Contains reports whether t falls in the month, by calendar date.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Period is a date range highlighted with a rectangle.
type Period struct {
	Start   time.Time
	End     time.Time
	Padding time.Duration
	Y0, Y1  float64
	// BadgeY is where the badge sits next to the right edge.
	BadgeY float64
}

// Presets for the Strava duration timeline.
var (
	// LongRideJune2019 is the month of the longest ride on record (about 20 hours).
	LongRideJune2019 = Month{Year: 2019, Month: time.June}

	// Commute2019 is the autumn 2019 daily commute block.
	Commute2019 = Period{
		Start:   time.Date(2019, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2019, time.November, 10, 0, 0, 0, 0, time.UTC),
		Padding: 5 * 24 * time.Hour,
		Y0:      0,
		Y1:      1.5,
		BadgeY:  0.5,
	}
)

// HighlightLongestSession marks the longest activity of the given month
// with a hollow square and a numbered badge. If no activity falls in the
// month the figure is returned unchanged.
func HighlightLongestSession(fig *plot.Figure, theme plot.Theme, activities []domain.Activity, month Month, badge string) *plot.Figure {
	var longest *domain.Activity
	for i := range activities {
		a := &activities[i]
		if !month.Contains(a.Date) {
			continue
		}
		if longest == nil || a.DurationHours > longest.DurationHours {
			longest = a
		}
	}
	if longest == nil {
		return fig
	}

	x := plot.Date(longest.Date)
	fig.AddTrace(plot.Trace{
		Type:       "scatter",
		Mode:       "markers",
		X:          []any{x},
		Y:          []any{longest.DurationHours},
		ShowLegend: boolPtr(false),
		HoverInfo:  "skip",
		Marker: &plot.Marker{
			Symbol: "square-open",
			Size:   24,
			Color:  theme.Primary,
			Line:   &plot.Line{Color: theme.Primary, Width: 3},
		},
	})
	fig.AddAnnotation(badgeAnnotation(theme, x, longest.DurationHours, badge))
	return fig
}

// HighlightPeriod draws a hollow rectangle over the padded period and puts
// a numbered badge at its right edge.
func HighlightPeriod(fig *plot.Figure, theme plot.Theme, period Period, badge string) *plot.Figure {
	x0 := plot.Date(period.Start.Add(-period.Padding))
	x1 := plot.Date(period.End.Add(period.Padding))

	fig.AddShape(plot.Shape{
		Type:      "rect",
		XRef:      "x",
		YRef:      "y",
		X0:        x0,
		X1:        x1,
		Y0:        period.Y0,
		Y1:        period.Y1,
		FillColor: plot.Transparent,
		Line:      &plot.Line{Color: theme.Primary, Width: 3},
	})
	fig.AddAnnotation(badgeAnnotation(theme, x1, period.BadgeY, badge))
	return fig
}

func badgeAnnotation(theme plot.Theme, x any, y float64, text string) plot.Annotation {
	return plot.Annotation{
		X:           x,
		Y:           y,
		Text:        text,
		ShowArrow:   false,
		XShift:      30,
		Font:        &plot.Font{Color: theme.Background, Size: 12, Weight: "bold"},
		BgColor:     theme.Primary,
		BorderColor: theme.Primary,
		BorderPad:   4,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
