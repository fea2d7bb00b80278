// FILE: database/repository/musician/indexes.go
package musicianRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the musicians collection.
func (r *mongoMusicianRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Comparable-rate aggregation. Only one array field per compound index.
		{
			Keys:    bson.D{{Key: "instruments", Value: 1}, {Key: "hourlyRate", Value: 1}},
			Options: options.Index().SetName("instrument_rate_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create musician indexes: %w", err)
	}
	return nil
}
