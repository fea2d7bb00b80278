// File: database/repository/musician/interface.go
package musicianRepo

import (
	"context"
	"errors"
	"time"

	"gigmatch/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrMusicianNotFound is returned when no profile exists for an id.
var ErrMusicianNotFound = errors.New("musician not found")

type MusicianRepository interface {
	GetMusicianProfile(ctx context.Context, musicianID string) (*models.MusicianProfile, error)
	GetMusicianProfiles(ctx context.Context, musicianIDs []string) ([]models.MusicianProfile, error)
	ComparableRates(ctx context.Context, instrument, eventType, excludeID string, limit int) ([]float64, error)
	Upsert(ctx context.Context, profile models.MusicianProfile) error
	EnsureIndexes(ctx context.Context) error
}

type mongoMusicianRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoMusicianRepo constructs a MusicianRepository over the "musicians" collection.
func NewMongoMusicianRepo(db *mongo.Database, timeout time.Duration) MusicianRepository {
	return &mongoMusicianRepo{
		coll:    db.Collection("musicians"),
		timeout: timeout,
	}
}
