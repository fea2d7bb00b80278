// File: database/repository/musician/queries.go
package musicianRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoMusicianRepo) GetMusicianProfile(ctx context.Context, musicianID string) (*models.MusicianProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var profile models.MusicianProfile
	err := r.coll.FindOne(ctx, bson.M{"id": musicianID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMusicianNotFound
		}
		return nil, fmt.Errorf("find musician %s: %w", musicianID, err)
	}
	return &profile, nil
}

// GetMusicianProfiles loads every existing profile among musicianIDs. Unknown ids are skipped.
func (r *mongoMusicianRepo) GetMusicianProfiles(ctx context.Context, musicianIDs []string) ([]models.MusicianProfile, error) {
	if len(musicianIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": musicianIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch musicians: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.MusicianProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("error decoding musicians: %w", err)
	}
	return profiles, nil
}

// ComparableRates returns up to limit hourly rates of other musicians with the same
// instrument and event type, ascending.
func (r *mongoMusicianRepo) ComparableRates(ctx context.Context, instrument, eventType, excludeID string, limit int) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, comparablePipeline(instrument, eventType, excludeID, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate comparable rates: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		HourlyRate float64 `bson:"hourlyRate"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	rates := make([]float64, 0, len(rows))
	for _, row := range rows {
		rates = append(rates, row.HourlyRate)
	}
	return rates, nil
}

func comparablePipeline(instrument, eventType, excludeID string, limit int) mongo.Pipeline {
	match := bson.M{
		"hourlyRate": bson.M{"$gt": 0},
		"id":         bson.M{"$ne": excludeID},
	}
	if instrument != "" {
		match["instruments"] = models.NormalizeKey(instrument)
	}
	if eventType != "" {
		match["eventTypes"] = models.NormalizeKey(eventType)
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "hourlyRate", Value: 1}, {Key: "id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$project", Value: bson.M{"_id": 0, "hourlyRate": 1}}},
	}
}

func (r *mongoMusicianRepo) Upsert(ctx context.Context, profile models.MusicianProfile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	for i, v := range profile.Instruments {
		profile.Instruments[i] = models.NormalizeKey(v)
	}
	for i, v := range profile.EventTypes {
		profile.EventTypes[i] = models.NormalizeKey(v)
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": profile.ID}, profile, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert musician %s: %w", profile.ID, err)
	}
	return nil
}
