package presence

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	musicianRepo "gigmatch/database/repository/musician"
	presenceRepo "gigmatch/database/repository/presence"
	"gigmatch/models"
	"gigmatch/services/geo"
	"gigmatch/utils"

	"go.uber.org/zap"
)

// Tracker is the default PresenceService. Staleness is evaluated lazily on
// every read; nothing sweeps records in the background.
type Tracker struct {
	store    Store
	profiles ProfileReader
	distance geo.DistanceProvider
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewTracker(store Store, profiles ProfileReader, distance geo.DistanceProvider, cfg Config, logger *zap.Logger) *Tracker {
	if distance == nil {
		distance = geo.Unresolved{}
	}
	return &Tracker{
		store:    store,
		profiles: profiles,
		distance: distance,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// RegisterHeartbeat marks the musician online as of receivedAt, which must be
// the server receipt time.
func (t *Tracker) RegisterHeartbeat(ctx context.Context, musicianID string, location *models.GeoPoint, receivedAt time.Time) error {
	musicianID = strings.TrimSpace(musicianID)
	if musicianID == "" {
		return utils.NewValidationError("musicianId is required", "musicianId")
	}
	if receivedAt.IsZero() {
		receivedAt = t.now()
	}
	receivedAt = receivedAt.UTC()

	update := models.PresenceUpdate{
		HeartbeatAt:     &receivedAt,
		CurrentLocation: location,
	}
	if perf, ok := t.performanceSnapshot(ctx, musicianID); ok {
		update.Performance = &perf
	}

	if _, err := t.store.UpsertPresence(ctx, musicianID, update); err != nil {
		return utils.NewDependencyError("presence store unavailable", err)
	}
	return nil
}

func (t *Tracker) performanceSnapshot(ctx context.Context, musicianID string) (models.Performance, bool) {
	if t.profiles == nil {
		return models.Performance{}, false
	}
	profile, err := t.profiles.GetMusicianProfile(ctx, musicianID)
	if err != nil {
		if !errors.Is(err, musicianRepo.ErrMusicianNotFound) {
			t.logger.Warn("keeping previous performance snapshot",
				zap.String("musicianId", musicianID), zap.Error(err))
		}
		return models.Performance{}, false
	}
	return profile.Performance(), true
}

// UpdateStatus applies an explicit override stamped with server time, so a
// heartbeat received before it cannot undo it. Switching a musician online
// counts as a liveness signal and refreshes the heartbeat time.
func (t *Tracker) UpdateStatus(ctx context.Context, musicianID string, req models.StatusUpdateRequest) (*models.PresenceRecord, error) {
	musicianID = strings.TrimSpace(musicianID)
	if musicianID == "" {
		return nil, utils.NewValidationError("musicianId is required", "musicianId")
	}

	now := t.now().UTC()
	update := models.PresenceUpdate{
		IsOnline:        req.IsOnline,
		CurrentLocation: req.CurrentLocation,
		Availability:    req.Availability,
		StatusChangedAt: &now,
	}
	if req.IsOnline != nil && *req.IsOnline {
		update.HeartbeatAt = &now
	}

	record, err := t.store.UpsertPresence(ctx, musicianID, update)
	if err != nil {
		return nil, utils.NewDependencyError("presence store unavailable", err)
	}
	return record, nil
}

func (t *Tracker) GetStatus(ctx context.Context, musicianID string) (*models.PresenceRecord, error) {
	record, err := t.store.ReadPresence(ctx, musicianID)
	if errors.Is(err, presenceRepo.ErrPresenceNotFound) {
		return nil, utils.NewNotFoundError("no presence recorded for musician " + musicianID)
	}
	if err != nil {
		return nil, utils.NewDependencyError("presence store unavailable", err)
	}
	return record, nil
}

func (t *Tracker) State(record models.PresenceRecord) models.PresenceState {
	return record.LogicalState(t.now(), t.cfg.StalenessThreshold)
}

// GetOnlineMusicians returns fresh, online musicians matching filter, ordered by id.
// An empty result is not an error.
func (t *Tracker) GetOnlineMusicians(ctx context.Context, filter models.OnlineFilter) ([]models.PresenceRecord, error) {
	now := t.now()
	records, err := t.store.ListOnline(ctx, now.Add(-t.cfg.StalenessThreshold))
	if err != nil {
		return nil, utils.NewDependencyError("presence store unavailable", err)
	}

	online := make([]models.PresenceRecord, 0, len(records))
	for _, r := range records {
		if r.LogicalState(now, t.cfg.StalenessThreshold) == models.PresenceOnline {
			online = append(online, r)
		}
	}
	if len(online) == 0 {
		return online, nil
	}

	radiusActive := filter.Location != nil && filter.LocationRadius > 0
	needProfiles := filter.Instrument != "" || filter.EventType != "" ||
		filter.MinBudget > 0 || filter.MaxBudget > 0 || radiusActive
	if !needProfiles {
		sortByMusicianID(online)
		return online, nil
	}

	profiles, err := t.loadProfiles(ctx, online)
	if err != nil {
		return nil, err
	}

	matched := make([]models.PresenceRecord, 0, len(online))
	for _, r := range online {
		profile, hasProfile := profiles[r.MusicianID]
		if filter.Instrument != "" && (!hasProfile || !profile.PlaysInstrument(filter.Instrument)) {
			continue
		}
		if filter.EventType != "" && (!hasProfile || !profile.AcceptsEventType(filter.EventType)) {
			continue
		}
		if hasProfile && !withinBudget(profile.HourlyRate, filter.MinBudget, filter.MaxBudget) {
			continue
		}
		if radiusActive {
			loc := r.CurrentLocation
			if loc.IsZero() && hasProfile {
				loc = profile.Location
			}
			if !geo.WithinRadius(t.distance, *filter.Location, loc, filter.LocationRadius) {
				continue
			}
		}
		matched = append(matched, r)
	}

	sortByMusicianID(matched)
	return matched, nil
}

func (t *Tracker) loadProfiles(ctx context.Context, records []models.PresenceRecord) (map[string]models.MusicianProfile, error) {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.MusicianID
	}
	profiles, err := t.profiles.GetMusicianProfiles(ctx, ids)
	if err != nil {
		return nil, utils.NewDependencyError("musician profile store unavailable", err)
	}
	byID := make(map[string]models.MusicianProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID, nil
}

// withinBudget checks an hourly rate against optional bounds. An unset rate is
// priced from instrument defaults later and is not excluded here.
func withinBudget(rate, lo, hi float64) bool {
	if rate <= 0 {
		return true
	}
	if lo > 0 && rate < lo {
		return false
	}
	if hi > 0 && rate > hi {
		return false
	}
	return true
}

func sortByMusicianID(records []models.PresenceRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].MusicianID < records[j].MusicianID
	})
}
