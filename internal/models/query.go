package models

import "fmt"

// Query identifies what to look up: a city name or a coordinate pair.
// Lat and Lon keep the caller's spelling so the label echoes it back.
type Query struct {
	City string
	Lat  string
	Lon  string
}

func (q Query) ByCity() bool {
	return q.City != ""
}

// Label is the location shown to the caller, "(lat, lon)" for coordinates.
func (q Query) Label() string {
	if q.ByCity() {
		return q.City
	}
	return fmt.Sprintf("(%s, %s)", q.Lat, q.Lon)
}

// LookupType is a bounded label for metrics and logs.
func (q Query) LookupType() string {
	if q.ByCity() {
		return "city"
	}
	return "coordinates"
}
