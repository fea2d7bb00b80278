// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"gigmatch/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository reads committed bookings. Writes happen in the booking flow;
// CreateMany exists for seeding.
type BookingRepository interface {
	ListActiveBookings(ctx context.Context, musicianID string, window models.TimeWindow) ([]models.CommittedBooking, error)
	ListActiveBookingsForMusicians(ctx context.Context, musicianIDs []string, window models.TimeWindow) ([]models.CommittedBooking, error)
	CreateMany(ctx context.Context, bookings []models.CommittedBooking) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoBookingRepo constructs a BookingRepository over the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database, timeout time.Duration) BookingRepository {
	return &mongoBookingRepo{
		coll:    db.Collection("bookings"),
		timeout: timeout,
	}
}
