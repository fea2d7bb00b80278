package models

import "time"

// RateRequest is the input of a price quote. Duration is in minutes.
type RateRequest struct {
	MusicianID string    `json:"musicianId"`
	EventType  string    `json:"eventType"`
	Duration   int       `json:"duration"`
	Location   *GeoPoint `json:"location,omitempty"`
	EventDate  time.Time `json:"eventDate"`
	Instrument string    `json:"instrument"`
	IsUrgent   bool      `json:"isUrgent"`
}

// RateFactor is one step of the price computation, in the order it was applied.
type RateFactor struct {
	Factor      string  `json:"factor"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

type RateRecommendations struct {
	SuggestedRate   float64   `json:"suggestedRate"`
	MarketAverage   float64   `json:"marketAverage"`
	ComparableRates []float64 `json:"comparableRates"`
}

// RateQuote is the itemized output of the rate engine.
type RateQuote struct {
	MusicianID      string              `json:"musicianId"`
	Currency        string              `json:"currency"`
	BaseRate        float64             `json:"baseRate"`
	Multipliers     []RateFactor        `json:"multipliers"`
	FinalRate       float64             `json:"finalRate"` // whole currency units, never negative
	Recommendations RateRecommendations `json:"recommendations"`
}
