// File: database/repository/presence/interface.go
package presenceRepo

import (
	"context"
	"errors"
	"time"

	"gigmatch/models"

	"github.com/go-redis/redis/v8"
)

// ErrPresenceNotFound is returned when a musician has never reported presence.
var ErrPresenceNotFound = errors.New("presence record not found")

// PresenceRepository stores one presence record per musician.
type PresenceRepository interface {
	ReadPresence(ctx context.Context, musicianID string) (*models.PresenceRecord, error)
	UpsertPresence(ctx context.Context, musicianID string, update models.PresenceUpdate) (*models.PresenceRecord, error)
	// ListOnline returns records whose last heartbeat is at or after since.
	// Callers still apply isOnline and staleness themselves.
	ListOnline(ctx context.Context, since time.Time) ([]models.PresenceRecord, error)
}

const (
	recordPrefix     = "presence:musician:"
	heartbeatsKey    = "presence:heartbeats"
	maxUpsertRetries = 5
)

type redisPresenceRepo struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisPresenceRepo constructs a PresenceRepository backed by Redis.
// Records live under presence:musician:<id> without TTL; heartbeat times are
// indexed in the presence:heartbeats sorted set (score = unix millis).
func NewRedisPresenceRepo(client *redis.Client, timeout time.Duration) PresenceRepository {
	return &redisPresenceRepo{client: client, timeout: timeout}
}

func recordKey(musicianID string) string {
	return recordPrefix + musicianID
}
