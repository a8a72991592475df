package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
	"github.com/tzsmit/nova-titan-parlay/internal/providers"
)

// QuoteProvider fetches current bookmaker quotes for one sport key.
type QuoteProvider interface {
	FetchEvents(ctx context.Context, sport string) ([]providers.Event, error)
}

// QuoteService serves bookmaker quotes from the cache, re-fetching from the
// provider on a miss. A cron schedule keeps the configured sports warm and
// records per-leg line movements between refreshes.
type QuoteService struct {
	provider QuoteProvider
	cache    *CacheService
	engine   *parlay.Engine
	logger   *logrus.Logger
	cron     *cron.Cron

	sports   []string
	schedule string
	cacheTTL time.Duration
}

func NewQuoteService(provider QuoteProvider, cache *CacheService, engine *parlay.Engine, logger *logrus.Logger, sports []string, schedule string, cacheTTL time.Duration) *QuoteService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &QuoteService{
		provider: provider,
		cache:    cache,
		engine:   engine,
		logger:   logger,
		cron:     cron.New(),
		sports:   sports,
		schedule: schedule,
		cacheTTL: cacheTTL,
	}
}

// Start registers the refresh schedule and runs an initial warm-up fetch.
func (s *QuoteService) Start() error {
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, s.refreshAll); err != nil {
			return fmt.Errorf("failed to schedule quote refresh: %w", err)
		}
		s.cron.Start()
	}

	go s.refreshAll()
	return nil
}

// Stop halts the refresh schedule and waits for a running refresh to finish.
func (s *QuoteService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// EventsForSport returns cached events for a sport, fetching on a miss.
func (s *QuoteService) EventsForSport(ctx context.Context, sport string) ([]providers.Event, error) {
	var events []providers.Event
	err := s.cache.Get(ctx, EventsCacheKey(sport), &events)
	if err == nil {
		return events, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warnf("Cache read failed for %s, falling back to provider: %v", sport, err)
	}

	return s.refreshSport(ctx, sport)
}

// QuotesForEvent returns one event's cross-book quotes.
func (s *QuoteService) QuotesForEvent(ctx context.Context, sport, eventID string) ([]parlay.MarketQuote, error) {
	var quotes []parlay.MarketQuote
	err := s.cache.Get(ctx, QuotesCacheKey(sport, eventID), &quotes)
	if err == nil {
		return quotes, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warnf("Cache read failed for event %s, falling back to provider: %v", eventID, err)
	}

	events, err := s.refreshSport(ctx, sport)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if event.ID == eventID {
			return event.Quotes, nil
		}
	}

	return nil, fmt.Errorf("event %s not found for sport %s", eventID, sport)
}

// QuotesForEvents flattens quotes across the given event IDs, skipping events
// with no cached or fetchable data.
func (s *QuoteService) QuotesForEvents(ctx context.Context, sport string, eventIDs []string) []parlay.MarketQuote {
	var all []parlay.MarketQuote
	for _, id := range eventIDs {
		quotes, err := s.QuotesForEvent(ctx, sport, id)
		if err != nil {
			s.logger.Warnf("No quotes for event %s: %v", id, err)
			continue
		}
		all = append(all, quotes...)
	}
	return all
}

func (s *QuoteService) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, sport := range s.sports {
		if _, err := s.refreshSport(ctx, sport); err != nil {
			s.logger.Errorf("Quote refresh failed for %s: %v", sport, err)
		}
	}
}

func (s *QuoteService) refreshSport(ctx context.Context, sport string) ([]providers.Event, error) {
	events, err := s.provider.FetchEvents(ctx, sport)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWithRetry(ctx, EventsCacheKey(sport), events, s.cacheTTL, 3); err != nil {
		s.logger.Warnf("Failed to cache events for %s: %v", sport, err)
	}

	for _, event := range events {
		s.recordMovements(ctx, sport, event)
		if err := s.cache.Set(ctx, QuotesCacheKey(sport, event.ID), event.Quotes, s.cacheTTL); err != nil {
			s.logger.Warnf("Failed to cache quotes for event %s: %v", event.ID, err)
		}
	}

	s.logger.Infof("Refreshed %d events for %s", len(events), sport)
	return events, nil
}

// recordMovements compares fresh moneyline prices against the previous cached
// quotes and appends one observation per side that we already had a price for.
func (s *QuoteService) recordMovements(ctx context.Context, sport string, event providers.Event) {
	var previous []parlay.MarketQuote
	if err := s.cache.Get(ctx, QuotesCacheKey(sport, event.ID), &previous); err != nil {
		return
	}

	prevByBook := make(map[string]parlay.MarketQuote, len(previous))
	for _, q := range previous {
		prevByBook[q.Bookmaker] = q
	}

	for _, current := range event.Quotes {
		prev, ok := prevByBook[current.Bookmaker]
		if !ok || prev.Moneyline == nil || current.Moneyline == nil {
			continue
		}

		for _, side := range []string{"home", "away"} {
			prevOdds := prev.Moneyline.Home
			currOdds := current.Moneyline.Home
			if side == "away" {
				prevOdds = prev.Moneyline.Away
				currOdds = current.Moneyline.Away
			}

			legID := fmt.Sprintf("%s:%s:moneyline:%s", event.ID, current.Bookmaker, side)
			movement, err := s.engine.TrackLineMovement(legID, prevOdds, currOdds)
			if err != nil {
				continue
			}
			if movement.Direction == parlay.DirectionStable {
				continue
			}
			if err := s.cache.PushMovement(ctx, *movement); err != nil {
				s.logger.Warnf("Failed to record movement for %s: %v", legID, err)
			}
		}
	}
}

// RecordMovement appends one observation to a leg's retained history.
func (s *QuoteService) RecordMovement(ctx context.Context, movement parlay.LineMovement) error {
	return s.cache.PushMovement(ctx, movement)
}

// MovementHistory exposes a leg's retained line-movement observations.
func (s *QuoteService) MovementHistory(ctx context.Context, legID string) ([]parlay.LineMovement, error) {
	return s.cache.MovementHistory(ctx, legID)
}
