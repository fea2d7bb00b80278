// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"

	"gigmatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeOverlapFilter selects active bookings overlapping window under the
// half-open rule: startTime < window.End AND endTime > window.Start.
func activeOverlapFilter(musicianIDs []string, window models.TimeWindow) bson.M {
	filter := bson.M{
		"state":     models.BookingStateActive,
		"startTime": bson.M{"$lt": window.End},
		"endTime":   bson.M{"$gt": window.Start},
	}
	if len(musicianIDs) == 1 {
		filter["musicianId"] = musicianIDs[0]
	} else {
		filter["musicianId"] = bson.M{"$in": musicianIDs}
	}
	return filter
}

func (r *mongoBookingRepo) ListActiveBookings(ctx context.Context, musicianID string, window models.TimeWindow) ([]models.CommittedBooking, error) {
	return r.find(ctx, activeOverlapFilter([]string{musicianID}, window))
}

func (r *mongoBookingRepo) ListActiveBookingsForMusicians(ctx context.Context, musicianIDs []string, window models.TimeWindow) ([]models.CommittedBooking, error) {
	if len(musicianIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, activeOverlapFilter(musicianIDs, window))
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.CommittedBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.CommittedBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
