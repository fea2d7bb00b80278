package availability

import (
	"context"
	"time"

	"gigmatch/models"
)

// ConflictService answers "is this musician free for this window" against
// committed bookings.
type ConflictService interface {
	CheckConflicts(ctx context.Context, req models.ConflictCheckRequest) (*models.ConflictResult, error)
	CheckMultipleMusiciansAvailability(ctx context.Context, musicianIDs []string, startTime, endTime time.Time) (*models.BatchAvailability, error)
	GetDailyAvailability(ctx context.Context, musicianID, date string) (*models.DailyAvailability, error)
}

// BookingStore is the read side of the committed booking calendar.
type BookingStore interface {
	ListActiveBookings(ctx context.Context, musicianID string, window models.TimeWindow) ([]models.CommittedBooking, error)
	ListActiveBookingsForMusicians(ctx context.Context, musicianIDs []string, window models.TimeWindow) ([]models.CommittedBooking, error)
}

// Config bounds the reference window used for slot computation.
type Config struct {
	DayStartHour int
	DayEndHour   int
}

// DateLayout is the calendar date format accepted by GetDailyAvailability.
const DateLayout = "2006-01-02"
