package domain

import "time"

// Strava activity types used by the analysis.
const (
	ActivityRide           = "Ride"
	ActivityVirtualRide    = "Virtual Ride"
	ActivityRun            = "Run"
	ActivityWeightTraining = "Weight Training"
	ActivityWorkout        = "Workout"
	ActivityCrossfit       = "Crossfit"
	ActivityRowing         = "Rowing"
	ActivitySwim           = "Swim"
)

// Activity is one row of a Strava activities export.
type Activity struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	DurationHours  float64   `json:"durationHours"`
	DistanceKm     float64   `json:"distanceKm"`
}
