// Package polar parses the training-*.json files of a Polar Flow account
// export into domain trainings.
package polar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"zsports/sports-history/internal/domain"

	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrBadDuration  = errors.New("bad duration")
	ErrNoExercise   = errors.New("training has no exercises")
)

// startTime layouts seen in exports; values carry no zone and are taken as UTC.
var startTimeLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

type trainingDoc struct {
	Name             *string       `json:"name"`
	StartTime        string        `json:"startTime"`
	Duration         string        `json:"duration"`
	Distance         *float64      `json:"distance"`
	KiloCalories     *float64      `json:"kiloCalories"`
	AverageHeartRate *float64      `json:"averageHeartRate"`
	MaximumHeartRate *float64      `json:"maximumHeartRate"`
	Exercises        []exerciseDoc `json:"exercises"`
}

type exerciseDoc struct {
	Sport   string `json:"sport"`
	Samples struct {
		RecordedRoute []routePoint `json:"recordedRoute"`
	} `json:"samples"`
}

type routePoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ParseTraining decodes one training file. The route is only read for
// outdoor sports over domain.MinRouteDistanceKm; if such a session has no
// recorded route a warning is logged and the route stays empty.
func ParseTraining(raw []byte, filename string) (domain.Training, error) {
	var doc trainingDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Training{}, fmt.Errorf("decode %s: %w", filename, err)
	}
	if len(doc.Exercises) == 0 {
		return domain.Training{}, ErrNoExercise
	}
	sport, err := domain.ParseSport(doc.Exercises[0].Sport)
	if err != nil {
		return domain.Training{}, err
	}
	if doc.Name == nil {
		return domain.Training{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	if doc.KiloCalories == nil {
		return domain.Training{}, fmt.Errorf("%w: kiloCalories", ErrMissingField)
	}
	date, err := parseStartTime(doc.StartTime)
	if err != nil {
		return domain.Training{}, err
	}
	duration, err := ParseDurationHours(doc.Duration)
	if err != nil {
		return domain.Training{}, err
	}
	distance := DistanceKm(doc.Distance)

	t := domain.Training{
		Filename:         filename,
		Date:             date,
		Name:             *doc.Name,
		Sport:            sport,
		DurationHours:    duration,
		DistanceKm:       distance,
		KiloCalories:     *doc.KiloCalories,
		AverageHeartRate: doc.AverageHeartRate,
		MaxHeartRate:     doc.MaximumHeartRate,
	}
	if sport.HasRoute() && distance > domain.MinRouteDistanceKm {
		t.Route = extractRoute(doc.Exercises[0], filename, distance, sport)
	}
	return t, nil
}

// ParseDurationHours converts an ISO-8601 seconds duration ("PT7200S") to
// hours.
func ParseDurationHours(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: duration", ErrMissingField)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(s, "PT"), "S"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadDuration, s)
	}
	return seconds / 3600, nil
}

// DistanceKm converts meters to kilometres; a missing distance is zero.
func DistanceKm(meters *float64) float64 {
	if meters == nil {
		return 0
	}
	return *meters / 1000
}

func parseStartTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: startTime", ErrMissingField)
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised startTime %q", s)
}

func extractRoute(ex exerciseDoc, filename string, distance float64, sport domain.Sport) orb.LineString {
	points := ex.Samples.RecordedRoute
	if len(points) == 0 {
		log.Warnf("polar: no recorded route (%s: %.2f km) in %s, leaving route empty", sport, distance, filename)
		return orb.LineString{}
	}
	route := make(orb.LineString, 0, len(points))
	for _, p := range points {
		route = append(route, orb.Point{p.Longitude, p.Latitude})
	}
	return route
}
