// Package providers fetches bookmaker quotes from external odds feeds and
// normalizes them into the engine's market types. Malformed or partial feed
// data is treated as absent rather than fatal.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
)

// Event is one upcoming game with the quotes every book posts for it.
type Event struct {
	ID           string               `json:"id"`
	Sport        string               `json:"sport"`
	HomeTeam     string               `json:"home_team"`
	AwayTeam     string               `json:"away_team"`
	CommenceTime time.Time            `json:"commence_time"`
	Quotes       []parlay.MarketQuote `json:"quotes"`
}

// OddsAPIClient pulls event odds from The Odds API v4. Outbound calls run
// through a circuit breaker and a client-side rate limiter.
type OddsAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

type OddsAPIConfig struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	RequestsPerSec   float64
	FailureThreshold uint32
}

func NewOddsAPIClient(cfg OddsAPIConfig, logger *logrus.Logger) *OddsAPIClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec == 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "odds-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &OddsAPIClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		logger:     logger,
	}
}

// Feed wire types. Field names follow The Odds API v4 response shape.

type feedEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []feedBookmaker `json:"bookmakers"`
}

type feedBookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []feedMarket `json:"markets"`
}

type feedMarket struct {
	Key      string        `json:"key"`
	Outcomes []feedOutcome `json:"outcomes"`
}

type feedOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"` // American
	Point *float64 `json:"point,omitempty"`
}

// FetchEvents fetches moneyline, spread, and total quotes for one sport key.
func (c *OddsAPIClient) FetchEvents(ctx context.Context, sport string) ([]Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sports/%s/odds", c.baseURL, url.PathEscape(sport))
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", "us")
	params.Set("markets", "h2h,spreads,totals")
	params.Set("oddsFormat", "american")

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("odds feed returned status %d", resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds for %s: %w", sport, err)
	}

	var raw []feedEvent
	if err := json.Unmarshal(body.([]byte), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode odds feed: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, fe := range raw {
		events = append(events, Event{
			ID:           fe.ID,
			Sport:        fe.SportKey,
			HomeTeam:     fe.HomeTeam,
			AwayTeam:     fe.AwayTeam,
			CommenceTime: fe.CommenceTime,
			Quotes:       c.normalizeQuotes(fe),
		})
	}

	return events, nil
}

// normalizeQuotes converts one event's bookmaker entries into market quotes.
// Markets that fail price validation are dropped for that book only.
func (c *OddsAPIClient) normalizeQuotes(fe feedEvent) []parlay.MarketQuote {
	quotes := make([]parlay.MarketQuote, 0, len(fe.Bookmakers))

	for _, book := range fe.Bookmakers {
		quote := parlay.MarketQuote{
			EventID:   fe.ID,
			Bookmaker: book.Key,
		}

		for _, market := range book.Markets {
			switch market.Key {
			case "h2h":
				quote.Moneyline = c.moneylineFrom(fe, book.Key, market.Outcomes)
			case "spreads":
				quote.Spread = c.spreadFrom(fe, book.Key, market.Outcomes)
			case "totals":
				quote.Total = c.totalFrom(fe, book.Key, market.Outcomes)
			}
		}

		if quote.Moneyline == nil && quote.Spread == nil && quote.Total == nil {
			continue
		}
		quotes = append(quotes, quote)
	}

	return quotes
}

func (c *OddsAPIClient) moneylineFrom(fe feedEvent, book string, outcomes []feedOutcome) *parlay.MoneylineMarket {
	home, homeOK := c.priceFor(fe, book, outcomes, fe.HomeTeam)
	away, awayOK := c.priceFor(fe, book, outcomes, fe.AwayTeam)
	if !homeOK || !awayOK {
		return nil
	}
	return &parlay.MoneylineMarket{Home: home, Away: away}
}

func (c *OddsAPIClient) spreadFrom(fe feedEvent, book string, outcomes []feedOutcome) *parlay.SpreadMarket {
	home, homeOK := c.priceFor(fe, book, outcomes, fe.HomeTeam)
	away, awayOK := c.priceFor(fe, book, outcomes, fe.AwayTeam)
	if !homeOK || !awayOK {
		return nil
	}

	var point float64
	for _, o := range outcomes {
		if o.Name == fe.HomeTeam && o.Point != nil {
			point = *o.Point
		}
	}

	return &parlay.SpreadMarket{Home: home, Away: away, Point: point}
}

func (c *OddsAPIClient) totalFrom(fe feedEvent, book string, outcomes []feedOutcome) *parlay.TotalMarket {
	over, overOK := c.priceFor(fe, book, outcomes, "Over")
	under, underOK := c.priceFor(fe, book, outcomes, "Under")
	if !overOK || !underOK {
		return nil
	}

	var point float64
	for _, o := range outcomes {
		if o.Name == "Over" && o.Point != nil {
			point = *o.Point
		}
	}

	return &parlay.TotalMarket{Over: over, Under: under, Point: point}
}

func (c *OddsAPIClient) priceFor(fe feedEvent, book string, outcomes []feedOutcome, name string) (odds.Odds, bool) {
	for _, outcome := range outcomes {
		if outcome.Name != name {
			continue
		}
		price, err := odds.American(outcome.Price)
		if err != nil {
			c.logger.Debugf("Dropping %s quote from %s for event %s: %v", name, book, fe.ID, err)
			return odds.Odds{}, false
		}
		return price, true
	}
	return odds.Odds{}, false
}

// BreakerState exposes the circuit breaker state for health reporting.
func (c *OddsAPIClient) BreakerState() string {
	return c.breaker.State().String()
}
