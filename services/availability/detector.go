package availability

import (
	"context"
	"strings"
	"time"

	"gigmatch/models"
	"gigmatch/utils"

	"go.uber.org/zap"
)

// Detector is the default ConflictService. Any booking store failure fails
// the whole check; it never falls back to "available".
type Detector struct {
	store  BookingStore
	cfg    Config
	logger *zap.Logger
}

func NewDetector(store BookingStore, cfg Config, logger *zap.Logger) *Detector {
	return &Detector{store: store, cfg: cfg, logger: logger}
}

// CheckConflicts reports the active bookings overlapping the requested window,
// plus the free slots of that day and the earliest one long enough for the event.
func (d *Detector) CheckConflicts(ctx context.Context, req models.ConflictCheckRequest) (*models.ConflictResult, error) {
	musicianID := strings.TrimSpace(req.MusicianID)
	window := models.TimeWindow{Start: req.StartTime, End: req.EndTime}
	if err := validateWindow(musicianID != "", window); err != nil {
		return nil, err
	}

	day := d.cfg.dayWindow(window.Start)
	query := models.TimeWindow{Start: earliest(day.Start, window.Start), End: latest(day.End, window.End)}

	bookings, err := d.store.ListActiveBookings(ctx, musicianID, query)
	if err != nil {
		d.logger.Error("conflict check failed",
			zap.String("musicianId", musicianID), zap.Error(err))
		return nil, utils.NewDependencyError("booking store unavailable", err)
	}
	bookings = activeOnly(bookings)

	conflicts := make([]models.CommittedBooking, 0)
	for _, b := range bookings {
		if b.MusicianID == musicianID && b.Window().Overlaps(window) {
			conflicts = append(conflicts, b)
		}
	}

	slots := freeSlots(bookings, day)
	return &models.ConflictResult{
		HasConflict:     len(conflicts) > 0,
		Conflicts:       conflicts,
		AvailableSlots:  slots,
		RecommendedTime: recommendedStart(slots, window.DurationMinutes()),
	}, nil
}

// CheckMultipleMusiciansAvailability partitions musicianIDs by conflict with
// the window using a single store query. Duplicate ids collapse to their first
// occurrence and both partitions keep input order.
func (d *Detector) CheckMultipleMusiciansAvailability(ctx context.Context, musicianIDs []string, startTime, endTime time.Time) (*models.BatchAvailability, error) {
	window := models.TimeWindow{Start: startTime, End: endTime}
	if err := validateWindow(true, window); err != nil {
		return nil, err
	}

	ids := dedupe(musicianIDs)
	result := &models.BatchAvailability{
		AvailableMusicians:   make([]string, 0, len(ids)),
		UnavailableMusicians: make([]string, 0),
	}
	if len(ids) == 0 {
		return result, nil
	}

	bookings, err := d.store.ListActiveBookingsForMusicians(ctx, ids, window)
	if err != nil {
		d.logger.Error("batch availability check failed",
			zap.Int("candidates", len(ids)), zap.Error(err))
		return nil, utils.NewDependencyError("booking store unavailable", err)
	}

	busy := make(map[string]bool, len(bookings))
	for _, b := range activeOnly(bookings) {
		if b.Window().Overlaps(window) {
			busy[b.MusicianID] = true
		}
	}
	for _, id := range ids {
		if busy[id] {
			result.UnavailableMusicians = append(result.UnavailableMusicians, id)
		} else {
			result.AvailableMusicians = append(result.AvailableMusicians, id)
		}
	}
	return result, nil
}

// GetDailyAvailability splits the configured day window of date (YYYY-MM-DD, UTC)
// into busy and free slots.
func (d *Detector) GetDailyAvailability(ctx context.Context, musicianID, date string) (*models.DailyAvailability, error) {
	musicianID = strings.TrimSpace(musicianID)
	if musicianID == "" {
		return nil, utils.NewValidationError("musicianId is required", "musicianId")
	}
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, utils.NewValidationError("date must be formatted as YYYY-MM-DD", "date")
	}

	day := d.cfg.dayWindow(parsed)
	bookings, err := d.store.ListActiveBookings(ctx, musicianID, day)
	if err != nil {
		d.logger.Error("daily availability failed",
			zap.String("musicianId", musicianID), zap.String("date", date), zap.Error(err))
		return nil, utils.NewDependencyError("booking store unavailable", err)
	}
	bookings = activeOnly(bookings)

	return &models.DailyAvailability{
		MusicianID:     musicianID,
		Date:           date,
		BusySlots:      busySlots(bookings, day),
		AvailableSlots: freeSlots(bookings, day),
	}, nil
}

func validateWindow(hasMusician bool, w models.TimeWindow) error {
	var fields []string
	if !hasMusician {
		fields = append(fields, "musicianId")
	}
	if w.Start.IsZero() {
		fields = append(fields, "startTime")
	}
	if w.End.IsZero() {
		fields = append(fields, "endTime")
	}
	if len(fields) > 0 {
		return utils.NewValidationError("missing required fields: "+strings.Join(fields, ", "), fields...)
	}
	if !w.Valid() {
		return utils.NewValidationError("endTime must be after startTime", "endTime")
	}
	return nil
}

func activeOnly(bookings []models.CommittedBooking) []models.CommittedBooking {
	out := bookings[:0:0]
	for _, b := range bookings {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
