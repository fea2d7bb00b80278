package matching

import (
	"context"

	"gigmatch/models"
)

// MatchService finds, prices and ranks musicians for an event.
type MatchService interface {
	SearchAvailableMusicians(ctx context.Context, criteria models.SearchCriteria) (*models.SearchResult, error)
	CheckMusicianAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResult, error)
}

type Config struct {
	// WorkerLimit bounds concurrent per-candidate pricing and conflict lookups.
	WorkerLimit     int
	DefaultRadiusKm float64
}

const noOnlineMusiciansMessage = "No musicians are online for these criteria right now"
