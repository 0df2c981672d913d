// Package analysis turns parsed Strava activities and Polar trainings into
// the published charts.
package analysis

import (
	"sort"
	"time"

	"zsports/sports-history/internal/domain"
)

// Classification thresholds in hours.
const (
	// Runs longer than this were bike rides recorded with the wrong type.
	MaxRunHours = 2.0
	// Weight training longer than this is a mislabelled ride; such rows are dropped.
	MaxWeightTrainingHours = 3.0
)

// HistoryStart is the pipeline's lower date bound (exclusive).
var HistoryStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// Merged maps activity types onto the type they are counted as.
var Merged = map[string]string{
	domain.ActivityVirtualRide: domain.ActivityRide,
	domain.ActivityWorkout:     domain.ActivityWeightTraining,
	domain.ActivityCrossfit:    domain.ActivityWeightTraining,
}

// Whitelist is the set of types kept after merging, in display order.
var Whitelist = []string{
	domain.ActivityRide,
	domain.ActivityRun,
	domain.ActivityWeightTraining,
	domain.ActivityRowing,
	domain.ActivitySwim,
}

// Reclassify relabels long runs as rides and drops long weight training
// sessions. The input is not modified. Applying it twice gives the same
// result as applying it once.
func Reclassify(acts []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, 0, len(acts))
	for _, a := range acts {
		if a.Type == domain.ActivityRun && a.DurationHours > MaxRunHours {
			a.Type = domain.ActivityRide
		}
		if a.Type == domain.ActivityWeightTraining && a.DurationHours > MaxWeightTrainingHours {
			continue
		}
		out = append(out, a)
	}
	return out
}

// MergeTypes maps types through Merged.
func MergeTypes(acts []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(acts))
	for i, a := range acts {
		if to, ok := Merged[a.Type]; ok {
			a.Type = to
		}
		out[i] = a
	}
	return out
}

// FilterTypes keeps activities whose type is in types.
func FilterTypes(acts []domain.Activity, types []string) []domain.Activity {
	keep := make(map[string]struct{}, len(types))
	for _, t := range types {
		keep[t] = struct{}{}
	}
	out := make([]domain.Activity, 0, len(acts))
	for _, a := range acts {
		if _, ok := keep[a.Type]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Since keeps activities strictly after t.
func Since(acts []domain.Activity, t time.Time) []domain.Activity {
	out := make([]domain.Activity, 0, len(acts))
	for _, a := range acts {
		if a.Date.After(t) {
			out = append(out, a)
		}
	}
	return out
}

// TypeTotal is an aggregate for one activity type.
type TypeTotal struct {
	Type  string
	Value float64
}

// CountByType counts activities per type, largest first. Ties are ordered
// by type name.
func CountByType(acts []domain.Activity) []TypeTotal {
	return aggregate(acts, func(domain.Activity) float64 { return 1 }, false)
}

// DurationByType sums the duration per type, truncated to whole hours,
// largest first.
func DurationByType(acts []domain.Activity) []TypeTotal {
	return aggregate(acts, func(a domain.Activity) float64 { return a.DurationHours }, true)
}

func aggregate(acts []domain.Activity, value func(domain.Activity) float64, truncate bool) []TypeTotal {
	sums := map[string]float64{}
	for _, a := range acts {
		sums[a.Type] += value(a)
	}
	out := make([]TypeTotal, 0, len(sums))
	for t, v := range sums {
		if truncate {
			v = float64(int(v))
		}
		out = append(out, TypeTotal{Type: t, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Type < out[j].Type
	})
	return out
}
