// Package parlay is the wagering optimization engine: multi-book leg
// shopping, live parlay recalculation, line-movement classification, per-leg
// edge detection, and same-game-parlay validation. Every entry point is a
// pure computation over caller-supplied quotes; the engine holds no leg or
// market state between calls.
package parlay

import (
	"time"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// MarketFamily identifies the market a leg or quote belongs to.
type MarketFamily string

const (
	MarketMoneyline  MarketFamily = "moneyline"
	MarketSpread     MarketFamily = "spread"
	MarketTotal      MarketFamily = "total"
	MarketPlayerProp MarketFamily = "player_prop"
)

// MoneylineMarket holds one book's moneyline prices.
type MoneylineMarket struct {
	Home odds.Odds `json:"home"`
	Away odds.Odds `json:"away"`
}

// SpreadMarket holds one book's spread prices and point.
type SpreadMarket struct {
	Home  odds.Odds `json:"home"`
	Away  odds.Odds `json:"away"`
	Point float64   `json:"point"`
}

// TotalMarket holds one book's total prices and point.
type TotalMarket struct {
	Over  odds.Odds `json:"over"`
	Under odds.Odds `json:"under"`
	Point float64   `json:"point"`
}

// MarketQuote is one bookmaker's current lines for one event. Quotes are
// produced by the odds-provider collaborator and are read-only here; a nil
// market family simply means that book does not offer it.
type MarketQuote struct {
	EventID   string           `json:"event_id"`
	Bookmaker string           `json:"bookmaker"`
	Moneyline *MoneylineMarket `json:"moneyline,omitempty"`
	Spread    *SpreadMarket    `json:"spread,omitempty"`
	Total     *TotalMarket     `json:"total,omitempty"`
}

// Leg is a single wager request, passed by value into every entry point.
type Leg struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	Market    MarketFamily `json:"market"`
	Selection string       `json:"selection"` // "home", "away", "over", "under"
	Odds      odds.Odds    `json:"odds"`      // the bettor's currently held price
	Bookmaker string       `json:"bookmaker"`
	PlayerID  string       `json:"player_id,omitempty"` // set for player props
}

// AlternativeQuote is a ranked non-best quote surfaced alongside the chosen
// book.
type AlternativeQuote struct {
	Bookmaker     string    `json:"bookmaker"`
	Odds          odds.Odds `json:"odds"`
	EdgeVsCurrent float64   `json:"edge_vs_current"` // percent vs the bettor's held odds
	EdgeVsAverage float64   `json:"edge_vs_average"` // percent vs the cross-book average
}

// OptimizedLeg is the shopping result for one leg. Created fresh per call and
// never mutated in place.
type OptimizedLeg struct {
	Leg           Leg                `json:"leg"`
	BestOdds      odds.Odds          `json:"best_odds"`
	BestBookmaker string             `json:"best_bookmaker"`
	Alternatives  []AlternativeQuote `json:"alternatives,omitempty"` // up to three, best first
	EdgeVsCurrent float64            `json:"edge_vs_current"`        // best vs the bettor's book, percent
	EdgeVsAverage float64            `json:"edge_vs_average"`        // best vs cross-book average, percent
	Confidence    float64            `json:"confidence"`             // [0,1]; 0 when no quotes resolved
	QuoteCount    int                `json:"quote_count"`
}

// OptimizeResult aggregates the per-leg shopping into parlay-level numbers.
// Payouts are quoted per $100 stake.
type OptimizeResult struct {
	Legs            []OptimizedLeg `json:"legs"`
	OriginalOdds    float64        `json:"original_odds"`  // decimal product over resolved legs
	OptimizedOdds   float64        `json:"optimized_odds"` // decimal product using best quotes
	OriginalPayout  float64        `json:"original_payout"`
	OptimizedPayout float64        `json:"optimized_payout"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
}

// LegChange is one leg's odds movement inside a live recalculation.
type LegChange struct {
	LegID           string  `json:"leg_id"`
	PreviousDecimal float64 `json:"previous_decimal"`
	CurrentDecimal  float64 `json:"current_decimal"`
	ChangePercent   float64 `json:"change_percent"`
	Significant     bool    `json:"significant"`
}

// LiveRecalcResult reports how a parlay's value has moved since it was built.
type LiveRecalcResult struct {
	Changes          []LegChange `json:"changes"`
	PreviousPayout   float64     `json:"previous_payout"`
	CurrentPayout    float64     `json:"current_payout"`
	PayoutChange     float64     `json:"payout_change"`
	ShouldReconsider bool        `json:"should_reconsider"`
	Reasons          []string    `json:"reasons,omitempty"`
}

// Direction classifies a line movement from the bettor's perspective.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionWorsening Direction = "worsening"
	DirectionStable    Direction = "stable"
)

// LineMovement is a single observation of one leg's odds changing. Retention
// of the per-leg history is owned by the caching collaborator; this engine
// only computes the record.
type LineMovement struct {
	LegID         string    `json:"leg_id"`
	PreviousOdds  odds.Odds `json:"previous_odds"`
	CurrentOdds   odds.Odds `json:"current_odds"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
	Timestamp     time.Time `json:"timestamp"`
}

// LegEdge compares the bettor's held odds against the cross-book average.
type LegEdge struct {
	LegID          string  `json:"leg_id"`
	CurrentDecimal float64 `json:"current_decimal"`
	AverageDecimal float64 `json:"average_decimal"`
	EdgePercent    float64 `json:"edge_percent"`
	HasEdge        bool    `json:"has_edge"`
	Note           string  `json:"note,omitempty"`
}

// SGPConflict is one flagged leg pair inside a same-game parlay.
type SGPConflict struct {
	LegA   string `json:"leg_a"`
	LegB   string `json:"leg_b"`
	Reason string `json:"reason"`
}

// SGPValidation is the outcome of same-game-parlay rule checking. A parlay is
// valid when it has no prohibited pairs; warnings alone do not invalidate it.
type SGPValidation struct {
	Valid           bool          `json:"valid"`
	Prohibited      []SGPConflict `json:"prohibited,omitempty"`
	Warnings        []SGPConflict `json:"warnings,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
}
