package matching

import (
	"context"
	"sort"
	"strings"

	"gigmatch/models"
	"gigmatch/services/availability"
	"gigmatch/services/presence"
	"gigmatch/services/pricing"
	"gigmatch/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ranker orchestrates presence, conflict detection and pricing. It keeps no
// state between calls.
type Ranker struct {
	presence  presence.PresenceService
	conflicts availability.ConflictService
	rates     pricing.RateService
	cfg       Config
	logger    *zap.Logger
}

func NewRanker(presenceSvc presence.PresenceService, conflicts availability.ConflictService, rates pricing.RateService, cfg Config, logger *zap.Logger) *Ranker {
	if cfg.WorkerLimit < 1 {
		cfg.WorkerLimit = 1
	}
	return &Ranker{
		presence:  presenceSvc,
		conflicts: conflicts,
		rates:     rates,
		cfg:       cfg,
		logger:    logger,
	}
}

func (r *Ranker) SearchAvailableMusicians(ctx context.Context, criteria models.SearchCriteria) (*models.SearchResult, error) {
	if criteria.Radius == 0 {
		criteria.Radius = r.cfg.DefaultRadiusKm
	}
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	window := criteria.EventWindow()

	filter := models.OnlineFilter{
		Location:       criteria.Location,
		LocationRadius: criteria.Radius,
		EventType:      criteria.EventType,
		Instrument:     criteria.Instrument,
	}
	if criteria.Budget != nil {
		filter.MinBudget = criteria.Budget.Min
		filter.MaxBudget = criteria.Budget.Max
	}

	online, err := r.presence.GetOnlineMusicians(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := &models.SearchResult{
		AvailableMusicians:   []models.MatchCandidate{},
		UnavailableMusicians: []models.UnavailableCandidate{},
		SearchCriteria:       criteria,
	}
	if len(online) == 0 {
		result.Message = noOnlineMusiciansMessage
		return result, nil
	}

	ids := make([]string, len(online))
	statusByID := make(map[string]models.PresenceRecord, len(online))
	for i, rec := range online {
		ids[i] = rec.MusicianID
		statusByID[rec.MusicianID] = rec
	}

	partition, err := r.conflicts.CheckMultipleMusiciansAvailability(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	priced := make([]*models.MatchCandidate, len(partition.AvailableMusicians))
	blocked := make([]models.UnavailableCandidate, len(partition.UnavailableMusicians))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.WorkerLimit)

	for i, id := range partition.AvailableMusicians {
		g.Go(func() error {
			priced[i] = r.priceCandidate(gctx, id, statusByID[id], criteria)
			return nil
		})
	}
	for i, id := range partition.UnavailableMusicians {
		g.Go(func() error {
			detail, err := r.conflicts.CheckConflicts(gctx, models.ConflictCheckRequest{
				MusicianID: id,
				StartTime:  window.Start,
				EndTime:    window.End,
				Location:   criteria.Location,
			})
			if err != nil {
				return err
			}
			blocked[i] = models.UnavailableCandidate{
				MusicianID:      id,
				Conflicts:       detail.Conflicts,
				AvailableSlots:  detail.AvailableSlots,
				RecommendedTime: detail.RecommendedTime,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range priced {
		if c != nil {
			result.AvailableMusicians = append(result.AvailableMusicians, *c)
		}
	}
	rank(result.AvailableMusicians)
	result.UnavailableMusicians = blocked

	result.AvailableCount = len(result.AvailableMusicians)
	result.UnavailableCount = len(result.UnavailableMusicians)
	result.TotalFound = result.AvailableCount + result.UnavailableCount
	return result, nil
}

// priceCandidate returns nil when the quote fails; the candidate is dropped
// and the rest of the search continues.
func (r *Ranker) priceCandidate(ctx context.Context, musicianID string, status models.PresenceRecord, criteria models.SearchCriteria) *models.MatchCandidate {
	quote, err := r.rates.CalculateRate(ctx, models.RateRequest{
		MusicianID: musicianID,
		EventType:  criteria.EventType,
		Duration:   criteria.Duration,
		Location:   criteria.Location,
		EventDate:  criteria.EventDate,
		Instrument: criteria.Instrument,
		IsUrgent:   criteria.IsUrgent,
	})
	if err != nil {
		r.logger.Warn("dropping candidate from ranking",
			zap.String("musicianId", musicianID),
			zap.Error(utils.NewPartialFailure("rate calculation failed", err)))
		return nil
	}
	return &models.MatchCandidate{
		MusicianID:      musicianID,
		Status:          status,
		Rate:            quote.FinalRate,
		Currency:        quote.Currency,
		RateBreakdown:   quote.Multipliers,
		Recommendations: quote.Recommendations,
		RelevanceScore:  RelevanceScore(status.Performance, quote.FinalRate),
	}
}

// rank orders by relevance descending, then musician id ascending.
func rank(candidates []models.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RelevanceScore != candidates[j].RelevanceScore {
			return candidates[i].RelevanceScore > candidates[j].RelevanceScore
		}
		return candidates[i].MusicianID < candidates[j].MusicianID
	})
}

// CheckMusicianAvailability answers whether one musician can take the event,
// with conflict detail and a quote when they can.
func (r *Ranker) CheckMusicianAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResult, error) {
	if err := validateAvailabilityRequest(req); err != nil {
		return nil, err
	}
	musicianID := strings.TrimSpace(req.MusicianID)
	window := models.SearchCriteria{EventDate: req.EventDate, Duration: req.Duration}.EventWindow()

	status, err := r.presence.GetStatus(ctx, musicianID)
	if err != nil {
		return nil, err
	}
	result := &models.AvailabilityResult{MusicianID: musicianID, Status: *status}

	switch {
	case !status.IsOnline:
		result.Reason = models.ReasonOffline
	case r.presence.State(*status) != models.PresenceOnline:
		result.Reason = models.ReasonStale
	case !status.Availability.IsAvailable:
		result.Reason = models.ReasonNotAcceptingBookings
	case !status.Availability.Covers(window):
		result.Reason = models.ReasonOutsideWindow
	}
	if result.Reason != "" {
		return result, nil
	}

	conflict, err := r.conflicts.CheckConflicts(ctx, models.ConflictCheckRequest{
		MusicianID: musicianID,
		StartTime:  window.Start,
		EndTime:    window.End,
		Location:   req.Location,
	})
	if err != nil {
		return nil, err
	}
	result.HasConflict = conflict.HasConflict
	result.Conflicts = conflict.Conflicts
	result.AvailableSlots = conflict.AvailableSlots
	result.RecommendedTime = conflict.RecommendedTime
	if conflict.HasConflict {
		result.Reason = models.ReasonConflict
		return result, nil
	}

	quote, err := r.rates.CalculateRate(ctx, models.RateRequest{
		MusicianID: musicianID,
		EventType:  orGeneral(req.EventType),
		Duration:   req.Duration,
		Location:   req.Location,
		EventDate:  req.EventDate,
		Instrument: orGeneral(req.Instrument),
		IsUrgent:   req.IsUrgent,
	})
	if err != nil {
		return nil, err
	}
	result.IsAvailable = true
	result.Rate = quote
	return result, nil
}

func validateCriteria(c models.SearchCriteria) error {
	var missing []string
	if strings.TrimSpace(c.EventType) == "" {
		missing = append(missing, "eventType")
	}
	if strings.TrimSpace(c.Instrument) == "" {
		missing = append(missing, "instrument")
	}
	if c.Location == nil {
		missing = append(missing, "location")
	}
	if c.EventDate.IsZero() {
		missing = append(missing, "eventDate")
	}
	if c.Duration == 0 {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return utils.NewValidationError("missing required fields: "+strings.Join(missing, ", "), missing...)
	}

	var invalid []string
	if c.Duration < 0 {
		invalid = append(invalid, "duration")
	}
	if c.Radius < 0 {
		invalid = append(invalid, "radius")
	}
	if c.Budget != nil && (c.Budget.Min < 0 || c.Budget.Max < 0 || (c.Budget.Max > 0 && c.Budget.Min > c.Budget.Max)) {
		invalid = append(invalid, "budget")
	}
	if len(invalid) > 0 {
		return utils.NewValidationError("invalid fields: "+strings.Join(invalid, ", "), invalid...)
	}
	return nil
}

func validateAvailabilityRequest(req models.AvailabilityRequest) error {
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

func orGeneral(s string) string {
	if strings.TrimSpace(s) == "" {
		return pricing.GeneralCategory
	}
	return s
}
