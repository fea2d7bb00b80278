// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"time"

	"gigmatch/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) CreateMany(ctx context.Context, bookings []models.CommittedBooking) ([]string, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, len(bookings))
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.State == "" {
			b.State = models.BookingStateActive
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		docs[i] = b
		ids[i] = b.ID
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return ids, nil
}
