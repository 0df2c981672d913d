package polar

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"zsports/sports-history/internal/domain"

	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
)

// Export file names written next to the Polar folder.
const (
	GeoJSONFileName = "polar_trainings.geojson"
	CSVFileName     = "polar_trainings.csv"
)

// FileCounts groups the JSON files of an export folder by prefix.
type FileCounts struct {
	Activities int
	Trainings  int
	Other      int
}

func (c FileCounts) String() string {
	return fmt.Sprintf("Activities: %d, Training: %d, Other: %d", c.Activities, c.Trainings, c.Other)
}

// CountFiles counts the *.json files in dir.
func CountFiles(dir string) (FileCounts, error) {
	var counts FileCounts
	entries, err := os.ReadDir(dir)
	if err != nil {
		return counts, fmt.Errorf("read polar folder: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		switch {
		case strings.HasPrefix(name, "activity-"):
			counts.Activities++
		case strings.HasPrefix(name, "training-"):
			counts.Trainings++
		default:
			counts.Other++
		}
	}
	return counts, nil
}

// LoadDir parses every training-*.json file of dir in name order. Files that
// fail are logged, recorded in the report and skipped.
func LoadDir(dir string) ([]domain.Training, domain.ParseReport, FileCounts, error) {
	var report domain.ParseReport

	counts, err := CountFiles(dir)
	if err != nil {
		return nil, report, counts, err
	}
	log.Infof("polar: %s", counts)

	files, err := filepath.Glob(filepath.Join(dir, "training-*.json"))
	if err != nil {
		return nil, report, counts, err
	}
	sort.Strings(files)

	trainings := make([]domain.Training, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		raw, err := os.ReadFile(path)
		if err != nil {
			report.Fail(name, err)
			continue
		}
		t, err := ParseTraining(raw, name)
		if err != nil {
			log.Warnf("polar: error parsing %s: %v", path, err)
			report.Fail(name, err)
			continue
		}
		trainings = append(trainings, t)
		report.Parsed++
	}
	return trainings, report, counts, nil
}

// FeatureCollection converts trainings to GeoJSON features with WGS84
// lon/lat line geometry. Trainings without a route get a null geometry.
func FeatureCollection(trainings []domain.Training) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range trainings {
		var f *geojson.Feature
		if t.HasRoute() {
			f = geojson.NewFeature(t.Route)
		} else {
			f = &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
		}
		for k, v := range properties(t) {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes the trainings as a GeoJSON feature collection.
func WriteGeoJSON(trainings []domain.Training, path string) error {
	data, err := FeatureCollection(trainings).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var csvHeader = []string{
	"filename", "date", "name", "sport", "duration", "distance",
	"kilo_calories", "average_heart_rate", "max_heart_rate",
}

// WriteCSV writes the trainings without their routes.
func WriteCSV(trainings []domain.Training, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trainings {
		if err := w.Write([]string{
			t.Filename,
			t.Date.Format("2006-01-02 15:04:05"),
			t.Name,
			string(t.Sport),
			formatFloat(t.DurationHours),
			formatFloat(t.DistanceKm),
			formatFloat(t.KiloCalories),
			formatOptional(t.AverageHeartRate),
			formatOptional(t.MaxHeartRate),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func properties(t domain.Training) map[string]any {
	props := map[string]any{
		"filename":      t.Filename,
		"date":          t.Date.Format("2006-01-02 15:04:05"),
		"name":          t.Name,
		"sport":         string(t.Sport),
		"duration":      t.DurationHours,
		"distance":      t.DistanceKm,
		"kilo_calories": t.KiloCalories,
	}
	if t.AverageHeartRate != nil {
		props["average_heart_rate"] = *t.AverageHeartRate
	}
	if t.MaxHeartRate != nil {
		props["max_heart_rate"] = *t.MaxHeartRate
	}
	return props
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
