package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	musicianRepo "gigmatch/database/repository/musician"
	"gigmatch/models"
	"gigmatch/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	profiles map[string]models.MusicianProfile
	err      error
}

func (f *fakeProfiles) GetMusicianProfile(_ context.Context, id string) (*models.MusicianProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, musicianRepo.ErrMusicianNotFound
	}
	return &p, nil
}

type fakeStats struct {
	rates     []float64
	err       error
	excludeID string
	limit     int
}

func (f *fakeStats) ComparableRates(_ context.Context, _, _ string, excludeID string, limit int) ([]float64, error) {
	f.excludeID = excludeID
	f.limit = limit
	return f.rates, f.err
}

var (
	tuesday = time.Date(2026, 6, 9, 19, 0, 0, 0, time.UTC)
	friday  = time.Date(2026, 6, 12, 19, 0, 0, 0, time.UTC)
)

func newTestEngine(profiles *fakeProfiles, stats *fakeStats) *Engine {
	return NewEngine(profiles, stats, StaticDemand{Factor: 1},
		Config{UrgencyMultiplier: 1.25, DefaultCurrency: "USD"}, zap.NewNop())
}

func pianist() *fakeProfiles {
	return &fakeProfiles{profiles: map[string]models.MusicianProfile{
		"m1": {ID: "m1", Instruments: []string{"piano"}, HourlyRate: 120, Currency: "EUR"},
	}}
}

func factors(q *models.RateQuote) []string {
	out := make([]string, len(q.Multipliers))
	for i, f := range q.Multipliers {
		out[i] = f.Factor
	}
	return out
}

func TestCalculateRate_Chain(t *testing.T) {
	engine := newTestEngine(pianist(), &fakeStats{})

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", EventType: "Wedding", Instrument: "piano", Duration: 180, EventDate: tuesday,
	})
	require.NoError(t, err)

	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, 120.0, quote.BaseRate)
	assert.Equal(t, []string{"baseRate", "eventType", "duration", "demand"}, factors(quote))
	assert.Equal(t, 1.5, quote.Multipliers[1].Value)
	assert.Equal(t, 3.0, quote.Multipliers[2].Value)
	assert.Equal(t, 1.0, quote.Multipliers[3].Value)
	assert.Equal(t, 540.0, quote.FinalRate)
}

func TestCalculateRate_UrgentWeekend(t *testing.T) {
	engine := newTestEngine(pianist(), &fakeStats{})

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", EventType: "wedding", Duration: 180, EventDate: friday, IsUrgent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"baseRate", "eventType", "duration", "urgency", "demand"}, factors(quote))
	assert.Equal(t, 1.25, quote.Multipliers[3].Value)
	assert.Equal(t, 1.15, quote.Multipliers[4].Value)
	// 120 x 1.5 x 3 x 1.25 x 1.15 = 776.25
	assert.Equal(t, 776.0, quote.FinalRate)
}

func TestCalculateRate_BaseRateFallbacks(t *testing.T) {
	engine := newTestEngine(&fakeProfiles{}, &fakeStats{})

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "ghost", Instrument: "Guitar", Duration: 60, EventDate: tuesday,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, quote.BaseRate)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, 90.0, quote.FinalRate)

	quote, err = engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "ghost", Instrument: "theremin", EventType: "unknown", Duration: 60, EventDate: tuesday,
	})
	require.NoError(t, err)
	assert.Equal(t, GenericHourlyRate, quote.BaseRate)
	assert.Equal(t, 1.0, quote.Multipliers[1].Value)
	assert.Equal(t, 100.0, quote.FinalRate)
}

func TestCalculateRate_MinimumOneHour(t *testing.T) {
	engine := newTestEngine(pianist(), &fakeStats{})

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", Duration: 20, EventDate: tuesday,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, quote.Multipliers[2].Value)
	assert.Equal(t, 120.0, quote.FinalRate)
}

func TestCalculateRate_RoundsHalfAwayFromZero(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]models.MusicianProfile{
		"m1": {ID: "m1", HourlyRate: 101},
	}}
	engine := newTestEngine(profiles, &fakeStats{})

	// 101 x 1.5 hours = 151.5
	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", Duration: 90, EventDate: tuesday,
	})
	require.NoError(t, err)
	assert.Equal(t, 152.0, quote.FinalRate)
}

func TestCalculateRate_Recommendations(t *testing.T) {
	stats := &fakeStats{rates: []float64{100, 80, 0}}
	engine := newTestEngine(pianist(), stats)

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", EventType: "wedding", Instrument: "piano", Duration: 180, EventDate: tuesday,
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", stats.excludeID)
	assert.Equal(t, ComparableLimit, stats.limit)
	assert.Equal(t, []float64{360, 450}, quote.Recommendations.ComparableRates)
	assert.Equal(t, 405.0, quote.Recommendations.MarketAverage)
	// midpoint of 540 and 405 is 472.5
	assert.Equal(t, 473.0, quote.Recommendations.SuggestedRate)
}

func TestCalculateRate_StatsFailureDegrades(t *testing.T) {
	engine := newTestEngine(pianist(), &fakeStats{err: errors.New("aggregate timeout")})

	quote, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", Duration: 60, EventDate: tuesday,
	})
	require.NoError(t, err)
	assert.Empty(t, quote.Recommendations.ComparableRates)
	assert.Equal(t, quote.FinalRate, quote.Recommendations.MarketAverage)
	assert.Equal(t, quote.FinalRate, quote.Recommendations.SuggestedRate)
}

func TestCalculateRate_Deterministic(t *testing.T) {
	stats := &fakeStats{rates: []float64{95, 130, 70}}
	req := models.RateRequest{
		MusicianID: "m1", EventType: "corporate", Instrument: "piano", Duration: 135,
		EventDate: friday, IsUrgent: true, Location: &models.GeoPoint{Lat: 1, Lng: 1},
	}

	first, err := newTestEngine(pianist(), stats).CalculateRate(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := newTestEngine(pianist(), stats).CalculateRate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculateRate_Validation(t *testing.T) {
	engine := newTestEngine(pianist(), &fakeStats{})

	_, err := engine.CalculateRate(context.Background(), models.RateRequest{MusicianID: "m1"})
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"eventDate", "duration"}, appErr.Fields)

	_, err = engine.CalculateRate(context.Background(), models.RateRequest{MusicianID: "m1", EventDate: tuesday, Duration: -30})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestCalculateRate_ProfileStoreDown(t *testing.T) {
	engine := newTestEngine(&fakeProfiles{err: errors.New("mongo down")}, &fakeStats{})

	_, err := engine.CalculateRate(context.Background(), models.RateRequest{
		MusicianID: "m1", Duration: 60, EventDate: tuesday,
	})
	assert.True(t, utils.IsKind(err, utils.KindDependencyUnavailable))
}

func TestStaticDemand(t *testing.T) {
	assert.Equal(t, 1.0, StaticDemand{}.LocationFactor(context.Background(), nil))
	assert.Equal(t, 1.2, StaticDemand{Factor: 1.2}.LocationFactor(context.Background(), nil))
}
