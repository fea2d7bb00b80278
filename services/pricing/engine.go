package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	musicianRepo "gigmatch/database/repository/musician"
	"gigmatch/models"
	"gigmatch/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine is the default RateService. A quote depends only on the request, the
// referenced profile and the comparable stats; it never reads the clock.
type Engine struct {
	profiles ProfileStore
	stats    StatsProvider
	demand   DemandProvider
	cfg      Config
	logger   *zap.Logger
}

func NewEngine(profiles ProfileStore, stats StatsProvider, demand DemandProvider, cfg Config, logger *zap.Logger) *Engine {
	if demand == nil {
		demand = StaticDemand{Factor: 1}
	}
	if cfg.UrgencyMultiplier < 1 {
		cfg.UrgencyMultiplier = 1
	}
	return &Engine{profiles: profiles, stats: stats, demand: demand, cfg: cfg, logger: logger}
}

// multipliers is everything after the base rate in the chain.
type multipliers struct {
	eventType decimal.Decimal
	hours     decimal.Decimal
	urgency   decimal.Decimal
	demand    decimal.Decimal
}

func (m multipliers) apply(base decimal.Decimal) decimal.Decimal {
	return base.Mul(m.eventType).Mul(m.hours).Mul(m.urgency).Mul(m.demand)
}

func (e *Engine) CalculateRate(ctx context.Context, req models.RateRequest) (*models.RateQuote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	musicianID := strings.TrimSpace(req.MusicianID)
	eventType := defaultCategory(req.EventType)
	instrument := defaultCategory(req.Instrument)

	profile, err := e.profiles.GetMusicianProfile(ctx, musicianID)
	if err != nil && !errors.Is(err, musicianRepo.ErrMusicianNotFound) {
		return nil, utils.NewDependencyError("musician profile store unavailable", err)
	}

	currency := e.cfg.DefaultCurrency
	if profile != nil && profile.Currency != "" {
		currency = profile.Currency
	}

	baseRate, baseDescription := resolveBaseRate(profile, instrument)
	base := decimal.NewFromFloat(baseRate)
	breakdown := []models.RateFactor{{
		Factor:      "baseRate",
		Value:       baseRate,
		Description: baseDescription,
	}}

	m := multipliers{
		eventType: decimal.NewFromFloat(eventTypeMultiplier(eventType)),
		hours:     billableHours(req.Duration),
		urgency:   decimal.NewFromInt(1),
		demand:    decimal.NewFromFloat(weekendFactor(req.EventDate)).Mul(decimal.NewFromFloat(e.demand.LocationFactor(ctx, req.Location))),
	}

	breakdown = append(breakdown,
		models.RateFactor{
			Factor:      "eventType",
			Value:       m.eventType.InexactFloat64(),
			Description: fmt.Sprintf("%s event multiplier", eventType),
		},
		models.RateFactor{
			Factor:      "duration",
			Value:       m.hours.InexactFloat64(),
			Description: fmt.Sprintf("%d minutes billed as %s hours (1 hour minimum)", req.Duration, m.hours.StringFixed(2)),
		},
	)
	if req.IsUrgent {
		m.urgency = decimal.NewFromFloat(e.cfg.UrgencyMultiplier)
		breakdown = append(breakdown, models.RateFactor{
			Factor:      "urgency",
			Value:       e.cfg.UrgencyMultiplier,
			Description: "urgent booking surcharge",
		})
	}
	breakdown = append(breakdown, models.RateFactor{
		Factor:      "demand",
		Value:       m.demand.InexactFloat64(),
		Description: demandDescription(req.EventDate),
	})

	finalRate := roundUnits(m.apply(base))
	recs := e.recommend(ctx, musicianID, instrument, eventType, m, finalRate)

	return &models.RateQuote{
		MusicianID:      musicianID,
		Currency:        currency,
		BaseRate:        baseRate,
		Multipliers:     breakdown,
		FinalRate:       finalRate.InexactFloat64(),
		Recommendations: recs,
	}, nil
}

// recommend prices comparable musicians with the same multipliers. Stats
// failures degrade to a recommendation built from finalRate alone.
func (e *Engine) recommend(ctx context.Context, musicianID, instrument, eventType string, m multipliers, finalRate decimal.Decimal) models.RateRecommendations {
	var hourly []float64
	if e.stats != nil {
		rates, err := e.stats.ComparableRates(ctx, instrument, eventType, musicianID, ComparableLimit)
		if err != nil {
			e.logger.Warn("comparable rates unavailable",
				zap.String("musicianId", musicianID), zap.String("instrument", instrument), zap.Error(err))
		} else {
			hourly = rates
		}
	}

	comparable := make([]float64, 0, len(hourly))
	sum := decimal.Zero
	for _, r := range hourly {
		if r <= 0 {
			continue
		}
		priced := roundUnits(m.apply(decimal.NewFromFloat(r)))
		sum = sum.Add(priced)
		comparable = append(comparable, priced.InexactFloat64())
		if len(comparable) == ComparableLimit {
			break
		}
	}
	sort.Float64s(comparable)

	market := finalRate
	if len(comparable) > 0 {
		market = roundUnits(sum.Div(decimal.NewFromInt(int64(len(comparable)))))
	}
	suggested := roundUnits(finalRate.Add(market).Div(decimal.NewFromInt(2)))

	return models.RateRecommendations{
		SuggestedRate:   suggested.InexactFloat64(),
		MarketAverage:   market.InexactFloat64(),
		ComparableRates: comparable,
	}
}

func validateRequest(req models.RateRequest) error {
	var fields []string
	if strings.TrimSpace(req.MusicianID) == "" {
		fields = append(fields, "musicianId")
	}
	if req.EventDate.IsZero() {
		fields = append(fields, "eventDate")
	}
	if req.Duration <= 0 {
		fields = append(fields, "duration")
	}
	if len(fields) > 0 {
		return utils.NewValidationError("missing or invalid fields: "+strings.Join(fields, ", "), fields...)
	}
	return nil
}

func resolveBaseRate(profile *models.MusicianProfile, instrument string) (float64, string) {
	if profile != nil && profile.HourlyRate > 0 {
		return profile.HourlyRate, "musician hourly rate"
	}
	if rate, ok := instrumentRate(instrument); ok {
		return rate, fmt.Sprintf("default hourly rate for %s", instrument)
	}
	return GenericHourlyRate, "generic default hourly rate"
}

func defaultCategory(s string) string {
	if key := models.NormalizeKey(s); key != "" {
		return key
	}
	return GeneralCategory
}

func billableHours(minutes int) decimal.Decimal {
	hours := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
	one := decimal.NewFromInt(1)
	if hours.LessThan(one) {
		return one
	}
	return hours
}

func weekendFactor(eventDate time.Time) float64 {
	switch eventDate.Weekday() {
	case time.Friday, time.Saturday:
		return WeekendSurcharge
	}
	return 1
}

func demandDescription(eventDate time.Time) string {
	if weekendFactor(eventDate) > 1 {
		return fmt.Sprintf("%s demand surcharge and location factor", eventDate.Weekday())
	}
	return "location factor"
}

// roundUnits floors at zero and rounds half away from zero to a whole unit.
func roundUnits(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(0)
}
