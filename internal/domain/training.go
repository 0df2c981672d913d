package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// MinRouteDistanceKm is the distance a session must exceed before its
// recorded route is kept.
const MinRouteDistanceKm = 0.5

// Training is one Polar training session. It is built once by the Polar
// parser and not modified afterwards.
type Training struct {
	Filename         string         `bson:"filename" json:"filename"`
	Date             time.Time      `bson:"date" json:"date"`
	Name             string         `bson:"name" json:"name"`
	Sport            Sport          `bson:"sport" json:"sport"`
	DurationHours    float64        `bson:"durationHours" json:"durationHours"`
	DistanceKm       float64        `bson:"distanceKm" json:"distanceKm"`
	KiloCalories     float64        `bson:"kiloCalories" json:"kiloCalories"`
	AverageHeartRate *float64       `bson:"averageHeartRate,omitempty" json:"averageHeartRate,omitempty"`
	MaxHeartRate     *float64       `bson:"maxHeartRate,omitempty" json:"maxHeartRate,omitempty"`
	Route            orb.LineString `bson:"route,omitempty" json:"route,omitempty"` // lon/lat pairs
}

// HasRoute reports whether a route was recorded and kept.
func (t Training) HasRoute() bool {
	return len(t.Route) > 0
}
