// Package strava reads the activities.csv file of a Strava bulk export.
package strava

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"zsports/sports-history/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Column names of the export. The export repeats some names (Distance,
// Elapsed Time); the first occurrence is used.
const (
	ColumnID          = "Activity ID"
	ColumnDate        = "Activity Date"
	ColumnName        = "Activity Name"
	ColumnType        = "Activity Type"
	ColumnElapsedTime = "Elapsed Time"
	ColumnDistance    = "Distance"
)

// DateLayouts are tried in order for the Activity Date column.
var DateLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

var ErrMissingColumn = errors.New("missing column")

// ReadFile opens path and reads it with ReadActivities.
func ReadFile(path string) ([]domain.Activity, domain.ParseReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ParseReport{}, fmt.Errorf("open strava export: %w", err)
	}
	defer f.Close()
	return ReadActivities(f)
}

// ReadActivities parses an activities CSV. Rows that fail to parse are
// recorded in the report and skipped. A missing required column, an
// unreadable header or a read error from r fails the whole read.
func ReadActivities(r io.Reader) ([]domain.Activity, domain.ParseReport, error) {
	var report domain.ParseReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	for _, name := range []string{ColumnDate, ColumnType, ColumnElapsedTime} {
		if _, ok := cols[name]; !ok {
			return nil, report, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	var activities []domain.Activity
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		source := fmt.Sprintf("row %d", line)
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return activities, report, fmt.Errorf("read row %d: %w", line, err)
			}
			log.Warnf("strava: skipping %s: %v", source, err)
			report.Fail(source, err)
			continue
		}
		a, err := parseRow(record, cols)
		if err != nil {
			log.Warnf("strava: skipping %s: %v", source, err)
			report.Fail(source, err)
			continue
		}
		activities = append(activities, a)
		report.Parsed++
	}
	return activities, report, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func parseRow(record []string, cols map[string]int) (domain.Activity, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(field(ColumnDate))
	if err != nil {
		return domain.Activity{}, err
	}
	elapsed, err := parseNumber(field(ColumnElapsedTime))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("elapsed time: %w", err)
	}
	distance, err := parseNumber(field(ColumnDistance))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("distance: %w", err)
	}

	return domain.Activity{
		ID:             field(ColumnID),
		Date:           date,
		Name:           field(ColumnName),
		Type:           field(ColumnType),
		ElapsedSeconds: elapsed,
		DurationHours:  elapsed / 3600,
		DistanceKm:     distance,
	}, nil
}

// ParseDate parses an Activity Date value with the first matching layout.
// Values without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised activity date %q", s)
}

// parseNumber reads a number that may carry thousands separators. An empty
// cell is zero.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
