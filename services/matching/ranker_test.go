package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gigmatch/models"
	"gigmatch/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	now       = time.Date(2026, 6, 9, 12, 0, 0, 0, time.UTC)
	eventDate = time.Date(2026, 6, 9, 19, 0, 0, 0, time.UTC)
	venue     = &models.GeoPoint{Lat: -1.2921, Lng: 36.8219}
)

type fakePresence struct {
	online     []models.PresenceRecord
	records    map[string]models.PresenceRecord
	err        error
	calls      int
	lastFilter models.OnlineFilter
}

func (f *fakePresence) RegisterHeartbeat(context.Context, string, *models.GeoPoint, time.Time) error {
	return nil
}

func (f *fakePresence) UpdateStatus(context.Context, string, models.StatusUpdateRequest) (*models.PresenceRecord, error) {
	return nil, nil
}

func (f *fakePresence) GetStatus(_ context.Context, id string) (*models.PresenceRecord, error) {
	f.calls++
	rec, ok := f.records[id]
	if !ok {
		return nil, utils.NewNotFoundError("no presence recorded for musician " + id)
	}
	return &rec, nil
}

func (f *fakePresence) GetOnlineMusicians(_ context.Context, filter models.OnlineFilter) ([]models.PresenceRecord, error) {
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.online, nil
}

func (f *fakePresence) State(r models.PresenceRecord) models.PresenceState {
	return r.LogicalState(now, 5*time.Minute)
}

// inflightGauge records the peak number of concurrent calls into a fake.
type inflightGauge struct {
	current atomic.Int32
	peak    atomic.Int32
	hold    time.Duration
}

func (g *inflightGauge) enter() {
	if g == nil {
		return
	}
	n := g.current.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.hold)
	g.current.Add(-1)
}

type fakeConflicts struct {
	mu          sync.Mutex
	gauge       *inflightGauge
	busy        map[string][]models.CommittedBooking
	batchErr    error
	detailErr   error
	detailCalls int
}

func (f *fakeConflicts) CheckConflicts(_ context.Context, req models.ConflictCheckRequest) (*models.ConflictResult, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	f.gauge.enter()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	conflicts := f.busy[req.MusicianID]
	slot := models.NewSlot(models.TimeWindow{Start: req.EndTime, End: req.EndTime.Add(3 * time.Hour)})
	res := &models.ConflictResult{
		HasConflict:    len(conflicts) > 0,
		Conflicts:      conflicts,
		AvailableSlots: []models.Slot{slot},
	}
	if res.HasConflict {
		res.RecommendedTime = &slot.Start
	}
	return res, nil
}

func (f *fakeConflicts) CheckMultipleMusiciansAvailability(_ context.Context, ids []string, _, _ time.Time) (*models.BatchAvailability, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := &models.BatchAvailability{AvailableMusicians: []string{}, UnavailableMusicians: []string{}}
	for _, id := range ids {
		if len(f.busy[id]) > 0 {
			out.UnavailableMusicians = append(out.UnavailableMusicians, id)
		} else {
			out.AvailableMusicians = append(out.AvailableMusicians, id)
		}
	}
	return out, nil
}

func (f *fakeConflicts) GetDailyAvailability(context.Context, string, string) (*models.DailyAvailability, error) {
	return nil, nil
}

type fakeRates struct {
	mu       sync.Mutex
	gauge    *inflightGauge
	rates    map[string]float64
	fail     map[string]bool
	requests []models.RateRequest
}

func (f *fakeRates) CalculateRate(_ context.Context, req models.RateRequest) (*models.RateQuote, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	f.gauge.enter()
	if f.fail[req.MusicianID] {
		return nil, utils.NewDependencyError("musician profile store unavailable", errors.New("timeout"))
	}
	rate := f.rates[req.MusicianID]
	return &models.RateQuote{
		MusicianID:  req.MusicianID,
		Currency:    "USD",
		BaseRate:    rate,
		Multipliers: []models.RateFactor{{Factor: "baseRate", Value: rate}},
		FinalRate:   rate,
	}, nil
}

func online(id string, perf models.Performance) models.PresenceRecord {
	return models.PresenceRecord{
		MusicianID:      id,
		IsOnline:        true,
		LastHeartbeatAt: now.Add(-time.Minute),
		Availability:    models.Availability{IsAvailable: true},
		Performance:     perf,
	}
}

func validCriteria() models.SearchCriteria {
	return models.SearchCriteria{
		EventType:  "wedding",
		Instrument: "piano",
		Location:   venue,
		EventDate:  eventDate,
		Duration:   180,
	}
}

func newTestRanker(p *fakePresence, c *fakeConflicts, r *fakeRates) *Ranker {
	return NewRanker(p, c, r, Config{WorkerLimit: 3, DefaultRadiusKm: 50}, zap.NewNop())
}

func candidateIDs(cs []models.MatchCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.MusicianID
	}
	return out
}

func TestSearch_NoOnlineMusicians(t *testing.T) {
	presence := &fakePresence{}
	conflicts := &fakeConflicts{}
	ranker := newTestRanker(presence, conflicts, &fakeRates{})

	res, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
	require.NoError(t, err)
	assert.NotNil(t, res.AvailableMusicians)
	assert.NotNil(t, res.UnavailableMusicians)
	assert.Empty(t, res.AvailableMusicians)
	assert.Empty(t, res.UnavailableMusicians)
	assert.Zero(t, res.TotalFound)
	assert.Zero(t, res.AvailableCount)
	assert.Zero(t, res.UnavailableCount)
	assert.NotEmpty(t, res.Message)
	assert.Zero(t, conflicts.detailCalls)
}

func TestSearch_MissingDurationTouchesNoStore(t *testing.T) {
	presence := &fakePresence{}
	ranker := newTestRanker(presence, &fakeConflicts{}, &fakeRates{})
	criteria := validCriteria()
	criteria.Duration = 0

	_, err := ranker.SearchAvailableMusicians(context.Background(), criteria)
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"duration"}, appErr.Fields)
	assert.Zero(t, presence.calls)
}

func TestSearch_ValidationFields(t *testing.T) {
	ranker := newTestRanker(&fakePresence{}, &fakeConflicts{}, &fakeRates{})

	_, err := ranker.SearchAvailableMusicians(context.Background(), models.SearchCriteria{})
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"eventType", "instrument", "location", "eventDate", "duration"}, appErr.Fields)

	criteria := validCriteria()
	criteria.Radius = -1
	criteria.Budget = &models.Budget{Min: 300, Max: 100}
	_, err = ranker.SearchAvailableMusicians(context.Background(), criteria)
	appErr, ok = utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"radius", "budget"}, appErr.Fields)
}

func TestSearch_RanksPartitionsAndDropsFailedQuotes(t *testing.T) {
	strong := models.Performance{Rating: 5, ResponseTimeMinutes: 10, TotalEvents: 80}
	average := models.Performance{Rating: 4, ResponseTimeMinutes: 60, TotalEvents: 20}

	presence := &fakePresence{online: []models.PresenceRecord{
		online("m5", average),
		online("m3", average),
		online("m1", strong),
		online("m4", strong),
		online("m2", strong),
	}}
	conflicts := &fakeConflicts{busy: map[string][]models.CommittedBooking{
		"m4": {{ID: "b1", MusicianID: "m4", StartTime: eventDate, EndTime: eventDate.Add(time.Hour), State: models.BookingStateActive}},
	}}
	rates := &fakeRates{
		rates: map[string]float64{"m1": 150, "m2": 150, "m3": 100, "m5": 100},
		fail:  map[string]bool{"m2": true},
	}
	ranker := newTestRanker(presence, conflicts, rates)

	criteria := validCriteria()
	criteria.Budget = &models.Budget{Min: 50, Max: 400}
	res, err := ranker.SearchAvailableMusicians(context.Background(), criteria)
	require.NoError(t, err)

	// m3 and m5 tie on score and are ordered by id.
	assert.Equal(t, []string{"m1", "m3", "m5"}, candidateIDs(res.AvailableMusicians))
	assert.Greater(t, res.AvailableMusicians[0].RelevanceScore, res.AvailableMusicians[1].RelevanceScore)
	assert.Equal(t, res.AvailableMusicians[1].RelevanceScore, res.AvailableMusicians[2].RelevanceScore)
	assert.Equal(t, 150.0, res.AvailableMusicians[0].Rate)
	assert.Equal(t, strong, res.AvailableMusicians[0].Status.Performance)

	require.Len(t, res.UnavailableMusicians, 1)
	assert.Equal(t, "m4", res.UnavailableMusicians[0].MusicianID)
	assert.Len(t, res.UnavailableMusicians[0].Conflicts, 1)
	assert.NotNil(t, res.UnavailableMusicians[0].RecommendedTime)

	assert.Equal(t, 3, res.AvailableCount)
	assert.Equal(t, 1, res.UnavailableCount)
	assert.Equal(t, 4, res.TotalFound)

	assert.Equal(t, 50.0, presence.lastFilter.LocationRadius)
	assert.Equal(t, 50.0, presence.lastFilter.MinBudget)
	assert.Equal(t, 400.0, presence.lastFilter.MaxBudget)
	assert.Equal(t, 50.0, res.SearchCriteria.Radius)
}

func TestSearch_OrderIndependentOfInputOrder(t *testing.T) {
	perf := models.Performance{Rating: 4, ResponseTimeMinutes: 30, TotalEvents: 10}
	build := func(order []string) []string {
		var recs []models.PresenceRecord
		rates := map[string]float64{}
		for _, id := range order {
			recs = append(recs, online(id, perf))
			rates[id] = 120
		}
		ranker := newTestRanker(&fakePresence{online: recs}, &fakeConflicts{}, &fakeRates{rates: rates})
		res, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
		require.NoError(t, err)
		return candidateIDs(res.AvailableMusicians)
	}

	want := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, want, build([]string{"f", "e", "d", "c", "b", "a"}))
	assert.Equal(t, want, build([]string{"c", "a", "f", "b", "e", "d"}))
}

func TestSearch_BookingStoreDownFailsFast(t *testing.T) {
	presence := &fakePresence{online: []models.PresenceRecord{online("m1", models.Performance{})}}
	conflicts := &fakeConflicts{batchErr: utils.NewDependencyError("booking store unavailable", errors.New("down"))}
	ranker := newTestRanker(presence, conflicts, &fakeRates{})

	res, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
	assert.Nil(t, res)
	assert.True(t, utils.IsKind(err, utils.KindDependencyUnavailable))
}

func TestSearch_ConflictDetailFailureFailsSearch(t *testing.T) {
	presence := &fakePresence{online: []models.PresenceRecord{online("m1", models.Performance{})}}
	conflicts := &fakeConflicts{
		busy:      map[string][]models.CommittedBooking{"m1": {{ID: "b1", MusicianID: "m1"}}},
		detailErr: utils.NewDependencyError("booking store unavailable", errors.New("down")),
	}
	ranker := newTestRanker(presence, conflicts, &fakeRates{})

	_, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
	assert.True(t, utils.IsKind(err, utils.KindDependencyUnavailable))
}

func TestSearch_PresenceStoreDown(t *testing.T) {
	presence := &fakePresence{err: utils.NewDependencyError("presence store unavailable", errors.New("down"))}
	ranker := newTestRanker(presence, &fakeConflicts{}, &fakeRates{})

	_, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
	assert.True(t, utils.IsKind(err, utils.KindDependencyUnavailable))
}

func availabilityRequest(id string) models.AvailabilityRequest {
	return models.AvailabilityRequest{MusicianID: id, EventDate: eventDate, Duration: 120, Location: venue}
}

func TestCheckAvailability_Reasons(t *testing.T) {
	from := eventDate.Add(time.Hour)
	tests := []struct {
		name   string
		record models.PresenceRecord
		reason string
	}{
		{
			name:   "offline",
			record: models.PresenceRecord{MusicianID: "m1", LastHeartbeatAt: now, Availability: models.Availability{IsAvailable: true}},
			reason: models.ReasonOffline,
		},
		{
			name:   "stale",
			record: models.PresenceRecord{MusicianID: "m1", IsOnline: true, LastHeartbeatAt: now.Add(-time.Hour), Availability: models.Availability{IsAvailable: true}},
			reason: models.ReasonStale,
		},
		{
			name:   "not accepting",
			record: models.PresenceRecord{MusicianID: "m1", IsOnline: true, LastHeartbeatAt: now},
			reason: models.ReasonNotAcceptingBookings,
		},
		{
			name: "outside window",
			record: models.PresenceRecord{MusicianID: "m1", IsOnline: true, LastHeartbeatAt: now,
				Availability: models.Availability{IsAvailable: true, AvailableFrom: &from}},
			reason: models.ReasonOutsideWindow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := &fakeConflicts{}
			rates := &fakeRates{}
			presence := &fakePresence{records: map[string]models.PresenceRecord{"m1": tt.record}}
			ranker := newTestRanker(presence, conflicts, rates)

			res, err := ranker.CheckMusicianAvailability(context.Background(), availabilityRequest("m1"))
			require.NoError(t, err)
			assert.False(t, res.IsAvailable)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.record, res.Status)
			assert.Zero(t, conflicts.detailCalls)
			assert.Empty(t, rates.requests)
		})
	}
}

func TestCheckAvailability_NotFound(t *testing.T) {
	ranker := newTestRanker(&fakePresence{}, &fakeConflicts{}, &fakeRates{})

	_, err := ranker.CheckMusicianAvailability(context.Background(), availabilityRequest("ghost"))
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCheckAvailability_Conflict(t *testing.T) {
	presence := &fakePresence{records: map[string]models.PresenceRecord{"m1": online("m1", models.Performance{})}}
	conflicts := &fakeConflicts{busy: map[string][]models.CommittedBooking{
		"m1": {{ID: "b1", MusicianID: "m1", StartTime: eventDate, EndTime: eventDate.Add(time.Hour), State: models.BookingStateActive}},
	}}
	rates := &fakeRates{}
	ranker := newTestRanker(presence, conflicts, rates)

	res, err := ranker.CheckMusicianAvailability(context.Background(), availabilityRequest("m1"))
	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
	assert.True(t, res.HasConflict)
	assert.Equal(t, models.ReasonConflict, res.Reason)
	assert.Len(t, res.Conflicts, 1)
	assert.NotNil(t, res.RecommendedTime)
	assert.Nil(t, res.Rate)
	assert.Empty(t, rates.requests)
}

func TestCheckAvailability_AvailableWithGeneralDefaults(t *testing.T) {
	presence := &fakePresence{records: map[string]models.PresenceRecord{"m1": online("m1", models.Performance{})}}
	rates := &fakeRates{rates: map[string]float64{"m1": 240}}
	ranker := newTestRanker(presence, &fakeConflicts{}, rates)

	res, err := ranker.CheckMusicianAvailability(context.Background(), availabilityRequest("m1"))
	require.NoError(t, err)
	assert.True(t, res.IsAvailable)
	assert.Empty(t, res.Reason)
	require.NotNil(t, res.Rate)
	assert.Equal(t, 240.0, res.Rate.FinalRate)

	require.Len(t, rates.requests, 1)
	assert.Equal(t, "general", rates.requests[0].EventType)
	assert.Equal(t, "general", rates.requests[0].Instrument)
	assert.Equal(t, 120, rates.requests[0].Duration)
}

func TestCheckAvailability_Validation(t *testing.T) {
	presence := &fakePresence{}
	ranker := newTestRanker(presence, &fakeConflicts{}, &fakeRates{})

	_, err := ranker.CheckMusicianAvailability(context.Background(), models.AvailabilityRequest{MusicianID: "m1"})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Zero(t, presence.calls)
}

func TestSearch_FanOutStaysWithinWorkerLimit(t *testing.T) {
	gauge := &inflightGauge{hold: 20 * time.Millisecond}
	presence := &fakePresence{}
	conflicts := &fakeConflicts{gauge: gauge, busy: map[string][]models.CommittedBooking{}}
	rates := &fakeRates{gauge: gauge, rates: map[string]float64{}}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("m%02d", i)
		presence.online = append(presence.online, online(id, models.Performance{Rating: 4}))
		if i%2 == 0 {
			conflicts.busy[id] = []models.CommittedBooking{{ID: "b" + id, MusicianID: id, StartTime: eventDate,
				EndTime: eventDate.Add(time.Hour), State: models.BookingStateActive}}
		} else {
			rates.rates[id] = 200
		}
	}
	ranker := newTestRanker(presence, conflicts, rates)

	res, err := ranker.SearchAvailableMusicians(context.Background(), validCriteria())
	require.NoError(t, err)
	assert.Equal(t, 6, res.AvailableCount)
	assert.Equal(t, 6, res.UnavailableCount)
	assert.LessOrEqual(t, gauge.peak.Load(), int32(3))
	assert.Greater(t, gauge.peak.Load(), int32(1))
}
