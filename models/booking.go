package models

import "time"

const (
	BookingStateActive    = "active"
	BookingStateCancelled = "cancelled"
)

// CommittedBooking is a confirmed event assignment on a musician's calendar.
// It is created by the booking flow and only read by the matching engine.
type CommittedBooking struct {
	ID         string    `bson:"id" json:"id"`
	MusicianID string    `bson:"musicianId" json:"musicianId"`
	EventID    string    `bson:"eventId" json:"eventId"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	State      string    `bson:"state" json:"state"` // "active" or "cancelled"
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt,omitzero"`
}

// IsActive reports whether the booking participates in conflict checks.
func (b CommittedBooking) IsActive() bool {
	return b.State == BookingStateActive
}

// Window returns the booking as a half-open interval.
func (b CommittedBooking) Window() TimeWindow {
	return TimeWindow{Start: b.StartTime, End: b.EndTime}
}

// ConflictResult describes how a proposed window relates to a musician's bookings.
type ConflictResult struct {
	HasConflict     bool               `json:"hasConflict"`
	Conflicts       []CommittedBooking `json:"conflicts"`
	AvailableSlots  []Slot             `json:"availableSlots"`
	RecommendedTime *time.Time         `json:"recommendedTime"`
}

// ConflictCheckRequest is the input of a single conflict check.
type ConflictCheckRequest struct {
	MusicianID string    `json:"musicianId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Location   *GeoPoint `json:"location,omitempty"`
}

// BatchAvailabilityRequest is the input of a batch availability check.
type BatchAvailabilityRequest struct {
	MusicianIDs []string  `json:"musicianIds"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// BatchAvailability partitions a candidate set by conflict.
type BatchAvailability struct {
	AvailableMusicians   []string `json:"availableMusicians"`
	UnavailableMusicians []string `json:"unavailableMusicians"`
}

// DailyAvailability lists busy and free blocks for one calendar day.
type DailyAvailability struct {
	MusicianID     string `json:"musicianId"`
	Date           string `json:"date"` // "YYYY-MM-DD"
	BusySlots      []Slot `json:"busySlots"`
	AvailableSlots []Slot `json:"availableSlots"`
}
