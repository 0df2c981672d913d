package domain

import "fmt"

// Sport is the Polar sport code of a training session.
type Sport string

const (
	SportRunning          Sport = "RUNNING"
	SportCycling          Sport = "CYCLING"
	SportSwimming         Sport = "SWIMMING"
	SportRowing           Sport = "ROWING"
	SportIndoorRowing     Sport = "INDOOR_ROWING"
	SportIndoorCycling    Sport = "INDOOR_CYCLING"
	SportWeightTraining   Sport = "WEIGHT_TRAINING"
	SportOther            Sport = "OTHER"
	SportOtherIndoor      Sport = "OTHER_INDOOR"
	SportStrengthTraining Sport = "STRENGTH_TRAINING"
	SportOtherOutdoor     Sport = "OTHER_OUTDOOR"
	SportHiking           Sport = "HIKING"
)

var sports = map[Sport]struct{}{
	SportRunning:          {},
	SportCycling:          {},
	SportSwimming:         {},
	SportRowing:           {},
	SportIndoorRowing:     {},
	SportIndoorCycling:    {},
	SportWeightTraining:   {},
	SportOther:            {},
	SportOtherIndoor:      {},
	SportStrengthTraining: {},
	SportOtherOutdoor:     {},
	SportHiking:           {},
}

// ParseSport validates a raw sport code.
func ParseSport(code string) (Sport, error) {
	s := Sport(code)
	if _, ok := sports[s]; !ok {
		return "", fmt.Errorf("unknown sport %q", code)
	}
	return s, nil
}

// HasRoute reports whether sessions of this sport are expected to carry a
// recorded GPS route.
func (s Sport) HasRoute() bool {
	switch s {
	case SportRowing, SportCycling, SportOtherOutdoor, SportRunning:
		return true
	}
	return false
}
