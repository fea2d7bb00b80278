package models

import "time"

// GeoPoint is a plain latitude/longitude pair.
// The zero value is the upstream geocoding placeholder and means "unresolved".
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// IsZero reports whether the point was never resolved.
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Overlaps implements the half-open overlap rule: s1 < e2 AND s2 < e1.
// Touching boundaries do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// DurationMinutes returns the window length in whole minutes.
func (w TimeWindow) DurationMinutes() int {
	return int(w.End.Sub(w.Start) / time.Minute)
}

// Valid reports whether the window has positive length.
func (w TimeWindow) Valid() bool {
	return w.End.After(w.Start)
}

// Slot is a free or busy block inside a day window.
type Slot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// NewSlot builds a Slot from a window.
func NewSlot(w TimeWindow) Slot {
	return Slot{Start: w.Start, End: w.End, DurationMinutes: w.DurationMinutes()}
}
