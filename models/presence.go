package models

import "time"

// PresenceState is the logical presence of a musician, derived at read time.
type PresenceState string

const (
	PresenceUnknown PresenceState = "unknown"
	PresenceOnline  PresenceState = "online"
	PresenceOffline PresenceState = "offline"
)

type Availability struct {
	IsAvailable   bool       `bson:"isAvailable" json:"isAvailable"`
	AvailableFrom *time.Time `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
	AvailableTo   *time.Time `bson:"availableTo,omitempty" json:"availableTo,omitempty"`
}

// Covers reports whether the window lies inside the declared availability bounds.
// Missing bounds are open.
func (a Availability) Covers(w TimeWindow) bool {
	if a.AvailableFrom != nil && w.Start.Before(*a.AvailableFrom) {
		return false
	}
	if a.AvailableTo != nil && w.End.After(*a.AvailableTo) {
		return false
	}
	return true
}

type Performance struct {
	Rating              float64 `bson:"rating" json:"rating"`                           // 0..5
	ResponseTimeMinutes float64 `bson:"responseTimeMinutes" json:"responseTimeMinutes"` // >= 0
	TotalEvents         int     `bson:"totalEvents" json:"totalEvents"`                 // >= 0
}

// PresenceRecord is the stored live state of a musician. Records are overwritten, never deleted.
type PresenceRecord struct {
	MusicianID      string       `bson:"musicianId" json:"musicianId"`
	IsOnline        bool         `bson:"isOnline" json:"isOnline"`
	LastHeartbeatAt time.Time    `bson:"lastHeartbeatAt" json:"lastHeartbeatAt"`
	// StatusChangedAt is the server time of the last explicit status override.
	StatusChangedAt time.Time    `bson:"statusChangedAt" json:"statusChangedAt"`
	Availability    Availability `bson:"availability" json:"availability"`
	CurrentLocation GeoPoint     `bson:"currentLocation" json:"currentLocation"`
	Performance     Performance  `bson:"performance" json:"performance"`
}

// IsStale reports whether the last heartbeat is older than threshold at now.
func (r PresenceRecord) IsStale(now time.Time, threshold time.Duration) bool {
	return now.Sub(r.LastHeartbeatAt) > threshold
}

// LogicalState reinterprets the stored flag against heartbeat age.
func (r PresenceRecord) LogicalState(now time.Time, threshold time.Duration) PresenceState {
	if !r.IsOnline || r.IsStale(now, threshold) {
		return PresenceOffline
	}
	return PresenceOnline
}

// PresenceUpdate is a partial write. Nil fields are left untouched.
type PresenceUpdate struct {
	HeartbeatAt     *time.Time    `json:"-"`
	StatusChangedAt *time.Time    `json:"-"`
	IsOnline        *bool         `json:"isOnline,omitempty"`
	CurrentLocation *GeoPoint     `json:"currentLocation,omitempty"`
	Availability    *Availability `json:"availability,omitempty"`
	Performance     *Performance  `json:"performance,omitempty"`
}

// Apply merges u into r and returns the result. Heartbeats and explicit
// status overrides resolve last-write-wins on server receipt time:
//   - a heartbeat older than the stored one is ignored together with its location;
//   - a heartbeat older than the last override refreshes the heartbeat time but
//     does not switch the musician back online;
//   - an override older than the stored heartbeat or override leaves IsOnline alone.
//
// A record created by Apply starts out accepting bookings.
func (r PresenceRecord) Apply(musicianID string, u PresenceUpdate) PresenceRecord {
	out := r
	if r.MusicianID == "" {
		out.Availability.IsAvailable = true
	}
	out.MusicianID = musicianID

	overrideWins := u.IsOnline != nil
	if u.StatusChangedAt != nil {
		at := *u.StatusChangedAt
		overrideWins = overrideWins && !at.Before(r.StatusChangedAt) && !at.Before(r.LastHeartbeatAt)
		if at.After(out.StatusChangedAt) {
			out.StatusChangedAt = at
		}
	}

	staleHeartbeat := u.HeartbeatAt != nil && u.HeartbeatAt.Before(r.LastHeartbeatAt)
	if u.HeartbeatAt != nil && !staleHeartbeat {
		out.LastHeartbeatAt = *u.HeartbeatAt
		if !u.HeartbeatAt.Before(out.StatusChangedAt) {
			out.IsOnline = true
		}
	}
	if u.CurrentLocation != nil && !staleHeartbeat {
		out.CurrentLocation = *u.CurrentLocation
	}
	if overrideWins {
		out.IsOnline = *u.IsOnline
	}
	if u.Availability != nil {
		out.Availability = *u.Availability
	}
	if u.Performance != nil {
		out.Performance = *u.Performance
	}
	return out
}

// HeartbeatRequest is the body of a heartbeat. Client timestamps are not accepted.
type HeartbeatRequest struct {
	MusicianID string    `json:"musicianId"`
	Location   *GeoPoint `json:"location,omitempty"`
}

// StatusUpdateRequest is the body of an explicit presence override.
type StatusUpdateRequest struct {
	IsOnline        *bool         `json:"isOnline,omitempty"`
	CurrentLocation *GeoPoint     `json:"currentLocation,omitempty"`
	Availability    *Availability `json:"availability,omitempty"`
}

// OnlineFilter narrows getOnlineMusicians. Zero values disable a criterion.
type OnlineFilter struct {
	Location       *GeoPoint `json:"location,omitempty"`
	LocationRadius float64   `json:"locationRadius,omitempty"` // km
	EventType      string    `json:"eventType,omitempty"`
	Instrument     string    `json:"instrument,omitempty"`
	MinBudget      float64   `json:"minBudget,omitempty"`
	MaxBudget      float64   `json:"maxBudget,omitempty"`
}
