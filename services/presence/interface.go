package presence

import (
	"context"
	"time"

	"gigmatch/models"
)

// PresenceService tracks which musicians are reachable right now.
type PresenceService interface {
	RegisterHeartbeat(ctx context.Context, musicianID string, location *models.GeoPoint, receivedAt time.Time) error
	UpdateStatus(ctx context.Context, musicianID string, req models.StatusUpdateRequest) (*models.PresenceRecord, error)
	GetStatus(ctx context.Context, musicianID string) (*models.PresenceRecord, error)
	GetOnlineMusicians(ctx context.Context, filter models.OnlineFilter) ([]models.PresenceRecord, error)
	// State reinterprets a stored record against the staleness threshold at the current time.
	State(record models.PresenceRecord) models.PresenceState
}

// Store is the presence persistence contract.
type Store interface {
	ReadPresence(ctx context.Context, musicianID string) (*models.PresenceRecord, error)
	UpsertPresence(ctx context.Context, musicianID string, update models.PresenceUpdate) (*models.PresenceRecord, error)
	ListOnline(ctx context.Context, since time.Time) ([]models.PresenceRecord, error)
}

// ProfileReader supplies the musician data used for filtering and performance snapshots.
type ProfileReader interface {
	GetMusicianProfile(ctx context.Context, musicianID string) (*models.MusicianProfile, error)
	GetMusicianProfiles(ctx context.Context, musicianIDs []string) ([]models.MusicianProfile, error)
}

type Config struct {
	// StalenessThreshold is the heartbeat age after which a record reads as offline.
	StalenessThreshold time.Duration
}
