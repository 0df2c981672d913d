package intervals

import (
	"encoding/json"
	"fmt"
)

// Activity is the subset of an intervals.icu activity the toolkit reads.
type Activity struct {
	ID               string   `json:"id"`
	StartDateLocal   string   `json:"start_date_local"`
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	MovingTime       int      `json:"moving_time"`
	ElapsedTime      int      `json:"elapsed_time"`
	Distance         *float64 `json:"distance,omitempty"`
	Calories         *float64 `json:"calories,omitempty"`
	AverageHeartRate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartRate     *float64 `json:"max_heartrate,omitempty"`
}

// Workout is the subset of a library workout the toolkit reads.
type Workout struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	MovingTime  int    `json:"moving_time"`
}

// DecodeActivities decodes the raw activities JSON (cached or fetched).
func DecodeActivities(raw []byte) ([]Activity, error) {
	var activities []Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

// DecodeWorkouts decodes the raw workouts JSON (cached or fetched).
func DecodeWorkouts(raw []byte) ([]Workout, error) {
	var workouts []Workout
	if err := json.Unmarshal(raw, &workouts); err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}
	return workouts, nil
}
