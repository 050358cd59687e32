package model

import "time"

type Classification string

const (
	TypeIa      Classification = "Ia"
	TypeII      Classification = "II"
	TypeUnknown Classification = "Unknown"
	TypeOther   Classification = "Other"
)

var Classifications = []Classification{TypeIa, TypeII, TypeUnknown, TypeOther}

// Classify collapses a raw catalog tag into the closed set used for styling.
func Classify(tag string) Classification {
	switch tag {
	case "Ia":
		return TypeIa
	case "II":
		return TypeII
	case "", "nan", "NaN":
		return TypeUnknown
	}
	return TypeOther
}

// Event is one discovery. Lower brightness means brighter (apparent magnitude).
// Lon and Lat are sky angles in radians.
type Event struct {
	Date       time.Time
	Brightness float64
	Lon        float64
	Lat        float64
	Type       Classification
}

// EventIndex points into the master (time sorted) event list.
type EventIndex = int
