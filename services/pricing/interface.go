package pricing

import (
	"context"

	"gigmatch/models"
)

// RateService prices an engagement for one musician.
type RateService interface {
	CalculateRate(ctx context.Context, req models.RateRequest) (*models.RateQuote, error)
}

// ProfileStore supplies the musician's own hourly rate.
type ProfileStore interface {
	GetMusicianProfile(ctx context.Context, musicianID string) (*models.MusicianProfile, error)
}

// StatsProvider returns hourly rates of comparable musicians.
type StatsProvider interface {
	ComparableRates(ctx context.Context, instrument, eventType, excludeID string, limit int) ([]float64, error)
}

// DemandProvider returns a price factor for an event location. Without real
// geocoding the factor is constant.
type DemandProvider interface {
	LocationFactor(ctx context.Context, location *models.GeoPoint) float64
}

type Config struct {
	UrgencyMultiplier float64
	DefaultCurrency   string
}

// StaticDemand is a DemandProvider that applies the same factor everywhere.
type StaticDemand struct {
	Factor float64
}

func (s StaticDemand) LocationFactor(_ context.Context, _ *models.GeoPoint) float64 {
	if s.Factor <= 0 {
		return 1
	}
	return s.Factor
}
