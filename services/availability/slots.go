package availability

import (
	"sort"
	"time"

	"gigmatch/models"
)

// dayWindow returns [startHour, endHour) on the calendar day of t, as wall-clock
// hours in t's location. An end hour of 24 is the following midnight.
func (c Config) dayWindow(t time.Time) models.TimeWindow {
	y, m, d := t.Date()
	return models.TimeWindow{
		Start: time.Date(y, m, d, c.DayStartHour, 0, 0, 0, t.Location()),
		End:   time.Date(y, m, d, c.DayEndHour, 0, 0, 0, t.Location()),
	}
}

// clip trims w to bounds. ok is false when nothing of w lies inside bounds.
func clip(w, bounds models.TimeWindow) (models.TimeWindow, bool) {
	if !w.Overlaps(bounds) {
		return models.TimeWindow{}, false
	}
	if w.Start.Before(bounds.Start) {
		w.Start = bounds.Start
	}
	if w.End.After(bounds.End) {
		w.End = bounds.End
	}
	return w, true
}

// busySlots lists the parts of bookings that fall inside day, chronologically.
func busySlots(bookings []models.CommittedBooking, day models.TimeWindow) []models.Slot {
	slots := make([]models.Slot, 0, len(bookings))
	for _, b := range bookings {
		if w, ok := clip(b.Window(), day); ok {
			slots = append(slots, models.NewSlot(w))
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start.Equal(slots[j].Start) {
			return slots[i].End.Before(slots[j].End)
		}
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots
}

// freeSlots subtracts every booking from day. Zero-length gaps are dropped and
// the result is chronological.
func freeSlots(bookings []models.CommittedBooking, day models.TimeWindow) []models.Slot {
	free := []models.TimeWindow{day}
	for _, b := range bookings {
		block := b.Window()
		var updated []models.TimeWindow
		for _, iv := range free {
			if !block.Overlaps(iv) {
				updated = append(updated, iv)
				continue
			}
			if block.Start.After(iv.Start) {
				updated = append(updated, models.TimeWindow{Start: iv.Start, End: block.Start})
			}
			if block.End.Before(iv.End) {
				updated = append(updated, models.TimeWindow{Start: block.End, End: iv.End})
			}
		}
		free = updated
	}

	sort.Slice(free, func(i, j int) bool { return free[i].Start.Before(free[j].Start) })
	slots := make([]models.Slot, 0, len(free))
	for _, iv := range free {
		if iv.Valid() {
			slots = append(slots, models.NewSlot(iv))
		}
	}
	return slots
}

// recommendedStart is the start of the earliest slot that fits durationMinutes.
func recommendedStart(slots []models.Slot, durationMinutes int) *time.Time {
	for _, s := range slots {
		if s.DurationMinutes >= durationMinutes {
			start := s.Start
			return &start
		}
	}
	return nil
}
