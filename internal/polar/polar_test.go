package polar

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zsports/sports-history/internal/domain"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rideJSON = `{
  "name": "Morning ride",
  "startTime": "2021-05-02T09:15:00.000",
  "duration": "PT7200S",
  "distance": 42195.0,
  "kiloCalories": 1100,
  "averageHeartRate": 131,
  "maximumHeartRate": 171,
  "exercises": [{
    "sport": "CYCLING",
    "samples": {"recordedRoute": [
      {"longitude": 5.1, "latitude": 52.0, "altitude": 2},
      {"longitude": 5.2, "latitude": 52.1, "altitude": 3}
    ]}
  }]
}`

const gymJSON = `{
  "name": "Gym",
  "startTime": "2021-05-03T18:00:00.000",
  "duration": "PT3600S",
  "kiloCalories": 400,
  "exercises": [{"sport": "STRENGTH_TRAINING"}]
}`

const runNoRouteJSON = `{
  "name": "Treadmill-ish",
  "startTime": "2021-05-04T07:00:00",
  "duration": "PT1800S",
  "distance": 5000,
  "kiloCalories": 350,
  "exercises": [{"sport": "RUNNING", "samples": {}}]
}`

func TestParseTraining(t *testing.T) {
	tr, err := ParseTraining([]byte(rideJSON), "training-1.json")
	require.NoError(t, err)

	assert.Equal(t, "training-1.json", tr.Filename)
	assert.Equal(t, "Morning ride", tr.Name)
	assert.Equal(t, domain.SportCycling, tr.Sport)
	assert.Equal(t, time.Date(2021, 5, 2, 9, 15, 0, 0, time.UTC), tr.Date)
	assert.Equal(t, 2.0, tr.DurationHours)
	assert.Equal(t, 42.195, tr.DistanceKm)
	assert.Equal(t, 1100.0, tr.KiloCalories)
	require.NotNil(t, tr.AverageHeartRate)
	assert.Equal(t, 131.0, *tr.AverageHeartRate)
	assert.Equal(t, orb.LineString{{5.1, 52.0}, {5.2, 52.1}}, tr.Route)
}

func TestParseTraining_NoDistance(t *testing.T) {
	tr, err := ParseTraining([]byte(gymJSON), "training-2.json")
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr.DistanceKm)
	assert.Equal(t, 1.0, tr.DurationHours)
	assert.Nil(t, tr.AverageHeartRate)
	assert.False(t, tr.HasRoute())
}

func TestParseTraining_MissingRoute(t *testing.T) {
	tr, err := ParseTraining([]byte(runNoRouteJSON), "training-3.json")
	require.NoError(t, err)
	assert.Equal(t, domain.SportRunning, tr.Sport)
	assert.False(t, tr.HasRoute())
}

func TestParseTraining_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown sport": `{"name":"x","startTime":"2021-05-03T18:00:00","duration":"PT1S","kiloCalories":1,"exercises":[{"sport":"CURLING"}]}`,
		"no exercises":  `{"name":"x","startTime":"2021-05-03T18:00:00","duration":"PT1S","kiloCalories":1}`,
		"bad duration":  `{"name":"x","startTime":"2021-05-03T18:00:00","duration":"1 hour","kiloCalories":1,"exercises":[{"sport":"OTHER"}]}`,
		"no calories":   `{"name":"x","startTime":"2021-05-03T18:00:00","duration":"PT1S","exercises":[{"sport":"OTHER"}]}`,
		"bad json":      `{`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTraining([]byte(raw), "training-x.json")
			assert.Error(t, err)
		})
	}
}

func TestParseDurationHours(t *testing.T) {
	h, err := ParseDurationHours("PT7200S")
	require.NoError(t, err)
	assert.Equal(t, 2.0, h)

	h, err = ParseDurationHours("PT5400.5S")
	require.NoError(t, err)
	assert.InDelta(t, 1.5001388, h, 1e-6)

	_, err = ParseDurationHours("")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = ParseDurationHours("PT1H")
	assert.ErrorIs(t, err, ErrBadDuration)
}

func TestDistanceKm(t *testing.T) {
	m := 1500.0
	assert.Equal(t, 1.5, DistanceKm(&m))
	assert.Equal(t, 0.0, DistanceKm(nil))
}

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"training-b.json":   rideJSON,
		"training-a.json":   gymJSON,
		"training-bad.json": `{"exercises":[{"sport":"CURLING"}]}`,
		"activity-1.json":   `{}`,
		"activity-2.json":   `{}`,
		"account.json":      `{}`,
		"notes.txt":         "ignored",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeExport(t)

	trainings, report, counts, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, FileCounts{Activities: 2, Trainings: 3, Other: 1}, counts)
	require.Len(t, trainings, 2)
	assert.Equal(t, "training-a.json", trainings[0].Filename)
	assert.Equal(t, "training-b.json", trainings[1].Filename)
	assert.Equal(t, 2, report.Parsed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "training-bad.json", report.Failures[0].Source)
}

func TestLoadDir_Missing(t *testing.T) {
	_, _, _, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWriteGeoJSONAndCSV(t *testing.T) {
	trainings, _, _, err := LoadDir(writeExport(t))
	require.NoError(t, err)

	out := t.TempDir()
	geoPath := filepath.Join(out, GeoJSONFileName)
	require.NoError(t, WriteGeoJSON(trainings, geoPath))

	raw, err := os.ReadFile(geoPath)
	require.NoError(t, err)
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry   *struct{ Type string } `json:"geometry"`
			Properties map[string]any         `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "STRENGTH_TRAINING", doc.Features[0].Properties["sport"])
	require.NotNil(t, doc.Features[1].Geometry)
	assert.Equal(t, "LineString", doc.Features[1].Geometry.Type)
	assert.Equal(t, 131.0, doc.Features[1].Properties["average_heart_rate"])

	csvPath := filepath.Join(out, CSVFileName)
	require.NoError(t, WriteCSV(trainings, csvPath))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"training-a.json", "2021-05-03 18:00:00", "Gym", "STRENGTH_TRAINING", "1", "0", "400", "", ""}, rows[1])
}
