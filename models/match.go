package models

import "time"

type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchCriteria is the body of a musician search. Duration is in minutes, Radius in km.
type SearchCriteria struct {
	EventType  string    `json:"eventType"`
	Instrument string    `json:"instrument"`
	Location   *GeoPoint `json:"location"`
	EventDate  time.Time `json:"eventDate"`
	Duration   int       `json:"duration"`
	Budget     *Budget   `json:"budget,omitempty"`
	IsUrgent   bool      `json:"isUrgent"`
	Radius     float64   `json:"radius"`
}

// EventWindow derives [eventDate, eventDate+duration).
func (c SearchCriteria) EventWindow() TimeWindow {
	return TimeWindow{Start: c.EventDate, End: c.EventDate.Add(time.Duration(c.Duration) * time.Minute)}
}

// MatchCandidate is a priced, ranked musician.
type MatchCandidate struct {
	MusicianID      string              `json:"musicianId"`
	Status          PresenceRecord      `json:"status"`
	Rate            float64             `json:"rate"`
	Currency        string              `json:"currency"`
	RateBreakdown   []RateFactor        `json:"rateBreakdown"`
	Recommendations RateRecommendations `json:"recommendations"`
	RelevanceScore  float64             `json:"relevanceScore"`
}

// UnavailableCandidate is an online musician with a conflicting booking.
type UnavailableCandidate struct {
	MusicianID      string             `json:"musicianId"`
	Conflicts       []CommittedBooking `json:"conflicts"`
	AvailableSlots  []Slot             `json:"availableSlots"`
	RecommendedTime *time.Time         `json:"recommendedTime"`
}

type SearchResult struct {
	AvailableMusicians   []MatchCandidate       `json:"availableMusicians"`
	UnavailableMusicians []UnavailableCandidate `json:"unavailableMusicians"`
	SearchCriteria       SearchCriteria         `json:"searchCriteria"`
	TotalFound           int                    `json:"totalFound"`
	AvailableCount       int                    `json:"availableCount"`
	UnavailableCount     int                    `json:"unavailableCount"`
	Message              string                 `json:"message,omitempty"`
}

// AvailabilityRequest is the body of a single-musician availability check.
type AvailabilityRequest struct {
	MusicianID string    `json:"musicianId"`
	EventDate  time.Time `json:"eventDate"`
	Duration   int       `json:"duration"`
	Location   *GeoPoint `json:"location,omitempty"`
	EventType  string    `json:"eventType,omitempty"`
	Instrument string    `json:"instrument,omitempty"`
	IsUrgent   bool      `json:"isUrgent,omitempty"`
}

// Reasons reported when a musician cannot take an event.
const (
	ReasonOffline              = "offline"
	ReasonStale                = "stale"
	ReasonNotAcceptingBookings = "notAcceptingBookings"
	ReasonOutsideWindow        = "outsideAvailabilityWindow"
	ReasonConflict             = "conflict"
)

type AvailabilityResult struct {
	MusicianID      string             `json:"musicianId"`
	IsAvailable     bool               `json:"isAvailable"`
	Reason          string             `json:"reason,omitempty"`
	Status          PresenceRecord     `json:"status"`
	HasConflict     bool               `json:"hasConflict"`
	Conflicts       []CommittedBooking `json:"conflicts,omitempty"`
	AvailableSlots  []Slot             `json:"availableSlots,omitempty"`
	RecommendedTime *time.Time         `json:"recommendedTime,omitempty"`
	Rate            *RateQuote         `json:"rate,omitempty"`
}
