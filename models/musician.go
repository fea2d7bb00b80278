package models

import "time"

// MusicianProfile is the subset of the musician document the engine reads.
type MusicianProfile struct {
	ID                  string    `bson:"id" json:"id"`
	Name                string    `bson:"name" json:"name,omitempty"`
	Instruments         []string  `bson:"instruments" json:"instruments,omitempty"` // lower-case, e.g. "piano"
	EventTypes          []string  `bson:"eventTypes" json:"eventTypes,omitempty"`   // lower-case, e.g. "wedding"
	HourlyRate          float64   `bson:"hourlyRate" json:"hourlyRate,omitempty"`   // 0 means "use instrument default"
	Currency            string    `bson:"currency" json:"currency,omitempty"`
	Rating              float64   `bson:"rating" json:"rating,omitempty"`
	ResponseTimeMinutes float64   `bson:"responseTimeMinutes" json:"responseTimeMinutes,omitempty"`
	TotalEvents         int       `bson:"totalEvents" json:"totalEvents,omitempty"`
	Location            GeoPoint  `bson:"location" json:"location"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// Performance returns the profile's stats in presence form.
func (p MusicianProfile) Performance() Performance {
	return Performance{
		Rating:              p.Rating,
		ResponseTimeMinutes: p.ResponseTimeMinutes,
		TotalEvents:         p.TotalEvents,
	}
}

// PlaysInstrument reports whether the profile lists the instrument (case-insensitive).
func (p MusicianProfile) PlaysInstrument(instrument string) bool {
	return containsFold(p.Instruments, instrument)
}

// AcceptsEventType reports whether the profile lists the event type (case-insensitive).
func (p MusicianProfile) AcceptsEventType(eventType string) bool {
	return containsFold(p.EventTypes, eventType)
}
