package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"zsports/sports-history/internal/annotate"
	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/plot"

	log "github.com/sirupsen/logrus"
)

// Chart is a named figure; Name becomes the artifact file name.
type Chart struct {
	Name   string
	Figure *plot.Figure
}

// Chart names produced by the reports.
const (
	ChartActivityCounts       = "activity_counts"
	ChartActivityCountsMerged = "activity_counts_merged"
	ChartDurationByType       = "activity_duration_by_type"
	ChartActivityDuration     = "activity_duration"
	ChartPolarRoutes          = "polar_routes"
)

// PolarBounds is the area shown on the route map.
var PolarBounds = plot.MapBounds{West: 3, East: 8, South: 51, North: 53}

// StravaReport runs the Strava pipeline: reclassify, count, merge and
// whitelist, sum durations, then the dated duration scatter from
// HistoryStart on with the two call-outs.
func StravaReport(acts []domain.Activity, theme plot.Theme) []Chart {
	acts = Reclassify(acts)
	counts := barChart(CountByType(acts), theme, "Activity counts", "")

	acts = FilterTypes(MergeTypes(acts), Whitelist)
	merged := barChart(CountByType(acts), theme, "Activity counts (after merging)", "")
	duration := barChart(DurationByType(acts), theme, "Total duration by activity type", "h")

	recent := Since(acts, HistoryStart)
	points := make([]plot.ScatterPoint, 0, len(recent))
	for _, a := range recent {
		points = append(points, plot.ScatterPoint{Category: a.Type, X: a.Date, Y: a.DurationHours})
	}
	timeline := plot.Scatter(points, theme, plot.ScatterOptions{Title: "Activity duration", Opacity: 0.4})
	plot.StyleFigure(timeline, theme, plot.StyleOptions{})
	timeline.Layout.YAxis.TickSuffix = " h"
	annotate.HighlightLongestSession(timeline, theme, recent, annotate.LongRideJune2019, "1")
	annotate.HighlightPeriod(timeline, theme, annotate.Commute2019, "2")

	return []Chart{
		{Name: ChartActivityCounts, Figure: counts},
		{Name: ChartActivityCountsMerged, Figure: merged},
		{Name: ChartDurationByType, Figure: duration},
		{Name: ChartActivityDuration, Figure: timeline},
	}
}

func barChart(totals []TypeTotal, theme plot.Theme, title, suffix string) *plot.Figure {
	rows := make([]plot.BarRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, plot.BarRow{Category: t.Type, Value: t.Value})
	}
	fig := plot.Bar(rows, theme, plot.BarOptions{Title: title, Suffix: suffix})
	plot.StyleFigure(fig, theme, plot.StyleOptions{ShowLegend: plot.ShowLegend(false)})
	return fig
}

// PolarReport draws the recorded routes per sport on a map of the
// Netherlands.
func PolarReport(trainings []domain.Training, theme plot.Theme) []Chart {
	var routes []plot.Route
	for _, t := range trainings {
		if !t.HasRoute() {
			continue
		}
		routes = append(routes, plot.Route{Category: string(t.Sport), Path: t.Route})
	}
	bounds := PolarBounds
	fig := plot.RouteMap(routes, theme, plot.MapOptions{
		Center: plot.MapCenter{Lon: 5.5, Lat: 52},
		Zoom:   6.5,
		Bounds: &bounds,
	})
	plot.StyleFigure(fig, theme, plot.StyleOptions{Title: "Polar training activities with routes"})
	return []Chart{{Name: ChartPolarRoutes, Figure: fig}}
}

// PublishOptions control where Publish writes.
type PublishOptions struct {
	Dir string
	// PNG also renders a static preview next to each JSON file.
	PNG    bool
	Width  int
	Height int
}

// Publish writes each chart as <dir>/<name>.json (transparent background)
// and optionally <dir>/<name>.png. It returns the JSON paths in chart order.
func Publish(charts []Chart, theme plot.Theme, opts PublishOptions) ([]string, error) {
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 700
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		dest := filepath.Join(opts.Dir, c.Name+".json")
		if err := plot.SaveJSON(c.Figure, dest); err != nil {
			return paths, err
		}
		log.Infof("analysis: wrote %s", dest)
		paths = append(paths, dest)

		if opts.PNG {
			if err := writePNG(c, theme, filepath.Join(opts.Dir, c.Name+".png"), opts.Width, opts.Height); err != nil {
				return paths, err
			}
		}
	}
	return paths, nil
}

func writePNG(c Chart, theme plot.Theme, dest string, width, height int) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	err = plot.RenderPNG(c.Figure, theme, f, width, height)
	if errors.Is(err, plot.ErrNothingToRender) {
		log.Warnf("analysis: %s has nothing to draw, skipping preview", c.Name)
		f.Close()
		return os.Remove(dest)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", c.Name, err)
	}
	return nil
}
