package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/plot"
	"zsports/sports-history/internal/strava"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = `Activity ID,Activity Date,Activity Name,Activity Type,Elapsed Time,Distance
1,2019-06-15 07:00:00,Core,Workout,1800,0
2,2019-06-16 07:00:00,Zwift,Virtual Ride,3600,30
3,2019-06-17 07:00:00,Long run,Run,9000,25
`

func act(typ string, hours float64, date time.Time) domain.Activity {
	return domain.Activity{Type: typ, DurationHours: hours, ElapsedSeconds: hours * 3600, Date: date}
}

func totals(rows []TypeTotal) map[string]float64 {
	out := map[string]float64{}
	for _, r := range rows {
		out[r.Type] = r.Value
	}
	return out
}

func TestReclassify(t *testing.T) {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Activity{
		act("Run", 2.5, d),
		act("Run", 2.0, d),
		act("Weight Training", 3.5, d),
		act("Weight Training", 1, d),
		act("Swim", 4, d),
	}

	out := Reclassify(in)
	require.Len(t, out, 4)
	assert.Equal(t, "Ride", out[0].Type)
	assert.Equal(t, "Run", out[1].Type)
	assert.Equal(t, "Weight Training", out[2].Type)
	assert.Equal(t, "Swim", out[3].Type)

	// input untouched
	assert.Equal(t, "Run", in[0].Type)

	assert.Equal(t, out, Reclassify(out))
}

func TestMergeAndFilter(t *testing.T) {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	acts := FilterTypes(MergeTypes([]domain.Activity{
		act("Virtual Ride", 1, d),
		act("Workout", 1, d),
		act("Crossfit", 1, d),
		act("Hike", 1, d),
		act("Rowing", 1, d),
	}), Whitelist)

	assert.Equal(t, map[string]float64{"Ride": 1, "Weight Training": 2, "Rowing": 1}, totals(CountByType(acts)))
}

func TestSince(t *testing.T) {
	acts := []domain.Activity{
		act("Ride", 1, HistoryStart),
		act("Ride", 1, HistoryStart.Add(time.Second)),
		act("Ride", 1, HistoryStart.AddDate(-1, 0, 0)),
	}
	out := Since(acts, HistoryStart)
	require.Len(t, out, 1)
	assert.Equal(t, HistoryStart.Add(time.Second), out[0].Date)
}

func TestAggregatesSortedDescending(t *testing.T) {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	acts := []domain.Activity{
		act("Run", 0.9, d), act("Run", 0.9, d), act("Run", 0.9, d),
		act("Ride", 5.5, d),
		act("Swim", 1, d), act("Swim", 1, d),
	}

	counts := CountByType(acts)
	assert.Equal(t, []TypeTotal{{"Run", 3}, {"Swim", 2}, {"Ride", 1}}, counts)

	durations := DurationByType(acts)
	assert.Equal(t, []TypeTotal{{"Ride", 5}, {"Run", 2}, {"Swim", 2}}, durations)
}

func TestStravaReport_EndToEnd(t *testing.T) {
	acts, report, err := strava.ReadActivities(strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	require.True(t, report.OK())

	theme := plot.DefaultTheme()
	charts := StravaReport(acts, theme)
	require.Len(t, charts, 4)

	names := make([]string, 0, len(charts))
	for _, c := range charts {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{ChartActivityCounts, ChartActivityCountsMerged, ChartDurationByType, ChartActivityDuration}, names)

	merged := charts[1].Figure
	got := map[string]any{}
	for _, tr := range merged.Data {
		got[tr.Name] = tr.X[0]
	}
	assert.Equal(t, map[string]any{"Ride": 2.0, "Weight Training": 1.0}, got)
	assert.Equal(t, "Ride", merged.Data[0].Name)
	assert.False(t, *merged.Layout.ShowLegend)

	before := charts[0].Figure
	assert.Len(t, before.Data, 3)

	duration := charts[2].Figure
	assert.Equal(t, "%{x} h", duration.Data[0].TextTemplate)
	assert.Equal(t, []any{3.0}, duration.Data[0].X)

	timeline := charts[3].Figure
	assert.Equal(t, " h", timeline.Layout.YAxis.TickSuffix)
	// two activity types plus the highlight marker
	require.Len(t, timeline.Data, 3)
	assert.Equal(t, []any{2.5}, timeline.Data[2].Y)
	assert.Len(t, timeline.Layout.Shapes, 1)
	assert.Len(t, timeline.Layout.Annotations, 2)
}

func TestStravaReport_Deterministic(t *testing.T) {
	acts, _, err := strava.ReadActivities(strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	theme := plot.DefaultTheme()
	assert.Equal(t, StravaReport(acts, theme), StravaReport(acts, theme))
}

func TestPolarReport(t *testing.T) {
	trainings := []domain.Training{
		{Sport: domain.SportCycling, Route: orb.LineString{{5.1, 52.0}, {5.2, 52.1}}},
		{Sport: domain.SportStrengthTraining},
		{Sport: domain.SportRunning, Route: orb.LineString{{4.9, 52.3}, {4.95, 52.35}}},
	}
	charts := PolarReport(trainings, plot.DefaultTheme())
	require.Len(t, charts, 1)

	fig := charts[0].Figure
	assert.Equal(t, ChartPolarRoutes, charts[0].Name)
	require.Len(t, fig.Data, 2)
	require.NotNil(t, fig.Layout.Map)
	assert.Equal(t, &PolarBounds, fig.Layout.Map.Bounds)
	assert.Equal(t, "Polar training activities with routes", plot.PlainTitle(fig))
}

func TestPublish(t *testing.T) {
	theme := plot.DefaultTheme()
	acts, _, err := strava.ReadActivities(strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	charts := append(StravaReport(acts, theme), PolarReport(nil, theme)...)

	dir := filepath.Join(t.TempDir(), "plots")
	paths, err := Publish(charts, theme, PublishOptions{Dir: dir, PNG: true, Width: 600, Height: 400})
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, filepath.Join(dir, "activity_counts.json"), paths[0])

	fig, err := plot.LoadJSON(paths[3])
	require.NoError(t, err)
	assert.Equal(t, plot.Transparent, fig.Layout.PaperBgColor)

	assert.FileExists(t, filepath.Join(dir, "activity_counts.png"))
	// empty route map gets no preview
	_, err = os.Stat(filepath.Join(dir, ChartPolarRoutes+".png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
