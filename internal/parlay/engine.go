package parlay

import (
	"fmt"
	"math"
	"sort"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// Thresholds are the shared numeric constants of the engine. They are set
// once from configuration and never re-derived inside the algorithms.
type Thresholds struct {
	// SignificantMovementPct flags a leg's odds change as significant.
	SignificantMovementPct float64 `json:"significant_movement_pct"`

	// MinEdgePct is the minimum edge before a recommendation is emitted.
	MinEdgePct float64 `json:"min_edge_pct"`

	// BookDiscountPct warns when the bettor's book prices a leg this far
	// below the cross-book average.
	BookDiscountPct float64 `json:"book_discount_pct"`
}

// DefaultThresholds returns the canonical engine constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificantMovementPct: 5.0,
		MinEdgePct:             2.0,
		BookDiscountPct:        5.0,
	}
}

// Engine evaluates parlays. It is stateless apart from its thresholds and is
// safe for concurrent use.
type Engine struct {
	thresholds Thresholds
}

// NewEngine builds an engine; zero-valued threshold fields fall back to the
// defaults.
func NewEngine(t Thresholds) *Engine {
	defaults := DefaultThresholds()
	if t.SignificantMovementPct <= 0 {
		t.SignificantMovementPct = defaults.SignificantMovementPct
	}
	if t.MinEdgePct <= 0 {
		t.MinEdgePct = defaults.MinEdgePct
	}
	if t.BookDiscountPct <= 0 {
		t.BookDiscountPct = defaults.BookDiscountPct
	}
	return &Engine{thresholds: t}
}

// Thresholds returns the engine's configured constants.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// candidate is one book's price for a leg's market and selection.
type candidate struct {
	bookmaker string
	odds      odds.Odds
	decimal   float64
}

// OptimizeParlay shops every leg across the supplied quotes and aggregates
// the best combination. Legs with no resolvable market are reported with zero
// confidence and excluded from the parlay products; they never fail the call.
func (e *Engine) OptimizeParlay(legs []Leg, markets []MarketQuote) (*OptimizeResult, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("at least one leg is required")
	}

	byEvent := make(map[string][]MarketQuote)
	for _, quote := range markets {
		byEvent[quote.EventID] = append(byEvent[quote.EventID], quote)
	}

	result := &OptimizeResult{
		Legs:          make([]OptimizedLeg, 0, len(legs)),
		OriginalOdds:  1.0,
		OptimizedOdds: 1.0,
	}
	resolved := 0

	for _, leg := range legs {
		currentDecimal, err := odds.ToDecimal(leg.Odds)
		if err != nil {
			return nil, fmt.Errorf("leg %s: %w", leg.ID, err)
		}

		candidates := collectCandidates(leg, byEvent[leg.EventID])
		if len(candidates) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No market data found for leg %s (%s %s on event %s); leg excluded from parlay odds",
					leg.ID, leg.Market, leg.Selection, leg.EventID))
			result.Legs = append(result.Legs, OptimizedLeg{
				Leg:           leg,
				BestOdds:      leg.Odds,
				BestBookmaker: leg.Bookmaker,
				Confidence:    0,
			})
			continue
		}

		// Best odds first; sort.SliceStable keeps input order on ties.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].decimal > candidates[j].decimal
		})

		best := candidates[0]
		average := meanDecimal(candidates)
		optimized := OptimizedLeg{
			Leg:           leg,
			BestOdds:      best.odds,
			BestBookmaker: best.bookmaker,
			EdgeVsCurrent: pctDiff(best.decimal, currentDecimal),
			EdgeVsAverage: pctDiff(best.decimal, average),
			Confidence:    quoteConfidence(candidates),
			QuoteCount:    len(candidates),
		}
		for _, alt := range candidates[1:] {
			if len(optimized.Alternatives) == 3 {
				break
			}
			optimized.Alternatives = append(optimized.Alternatives, AlternativeQuote{
				Bookmaker:     alt.bookmaker,
				Odds:          alt.odds,
				EdgeVsCurrent: pctDiff(alt.decimal, currentDecimal),
				EdgeVsAverage: pctDiff(alt.decimal, average),
			})
		}
		result.Legs = append(result.Legs, optimized)

		result.OriginalOdds *= currentDecimal
		result.OptimizedOdds *= best.decimal
		resolved++

		if optimized.EdgeVsCurrent > e.thresholds.MinEdgePct {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Move leg %s from %s to %s for %.1f%% better odds",
					leg.ID, leg.Bookmaker, best.bookmaker, optimized.EdgeVsCurrent))
		}
		if pctDiff(currentDecimal, average) < -e.thresholds.BookDiscountPct {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Leg %s at %s is %.1f%% below the market average",
					leg.ID, leg.Bookmaker, -pctDiff(currentDecimal, average)))
		}
	}

	if resolved == 0 {
		result.OriginalOdds = 0
		result.OptimizedOdds = 0
		return result, nil
	}

	result.OriginalPayout = round2((result.OriginalOdds - 1.0) * 100.0)
	result.OptimizedPayout = round2((result.OptimizedOdds - 1.0) * 100.0)
	return result, nil
}

// collectCandidates pulls every quote matching the leg's market family and
// selection. A quote missing the family is absent data, not an error.
func collectCandidates(leg Leg, quotes []MarketQuote) []candidate {
	var candidates []candidate
	for _, quote := range quotes {
		price, ok := selectionOdds(quote, leg.Market, leg.Selection)
		if !ok {
			continue
		}
		decimal, err := odds.ToDecimal(price)
		if err != nil {
			continue // malformed book price: treat as absent
		}
		candidates = append(candidates, candidate{
			bookmaker: quote.Bookmaker,
			odds:      price,
			decimal:   decimal,
		})
	}
	return candidates
}

func selectionOdds(quote MarketQuote, market MarketFamily, selection string) (odds.Odds, bool) {
	switch market {
	case MarketMoneyline:
		if quote.Moneyline == nil {
			return odds.Odds{}, false
		}
		switch selection {
		case "home":
			return quote.Moneyline.Home, true
		case "away":
			return quote.Moneyline.Away, true
		}
	case MarketSpread:
		if quote.Spread == nil {
			return odds.Odds{}, false
		}
		switch selection {
		case "home":
			return quote.Spread.Home, true
		case "away":
			return quote.Spread.Away, true
		}
	case MarketTotal:
		if quote.Total == nil {
			return odds.Odds{}, false
		}
		switch selection {
		case "over":
			return quote.Total.Over, true
		case "under":
			return quote.Total.Under, true
		}
	}
	return odds.Odds{}, false
}

// quoteConfidence scores how much the books agree on a selection's price:
// 1 - 5*(stddev/mean) clamped to [0,1]. A lone quote has nothing to agree
// with and gets a fixed 0.5.
func quoteConfidence(candidates []candidate) float64 {
	if len(candidates) == 1 {
		return 0.5
	}

	mean := meanDecimal(candidates)
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, c := range candidates {
		d := c.decimal - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(candidates)))

	confidence := 1.0 - 5.0*(stdDev/mean)
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func meanDecimal(candidates []candidate) float64 {
	sum := 0.0
	for _, c := range candidates {
		sum += c.decimal
	}
	return sum / float64(len(candidates))
}

func pctDiff(value, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (value - baseline) / baseline * 100.0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
