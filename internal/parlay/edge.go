package parlay

import (
	"fmt"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// DetectEdgePerLeg compares each leg's held odds (not necessarily the best
// available) against the cross-book average. A leg with no market data gets
// an explanatory note instead of failing the call.
func (e *Engine) DetectEdgePerLeg(legs []Leg, markets []MarketQuote) ([]LegEdge, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("at least one leg is required")
	}

	byEvent := make(map[string][]MarketQuote)
	for _, quote := range markets {
		byEvent[quote.EventID] = append(byEvent[quote.EventID], quote)
	}

	edges := make([]LegEdge, 0, len(legs))
	for _, leg := range legs {
		currentDecimal, err := odds.ToDecimal(leg.Odds)
		if err != nil {
			return nil, fmt.Errorf("leg %s: %w", leg.ID, err)
		}

		candidates := collectCandidates(leg, byEvent[leg.EventID])
		if len(candidates) == 0 {
			edges = append(edges, LegEdge{
				LegID:          leg.ID,
				CurrentDecimal: currentDecimal,
				Note:           "No market data available",
			})
			continue
		}

		average := meanDecimal(candidates)
		edgePct := pctDiff(currentDecimal, average)
		edges = append(edges, LegEdge{
			LegID:          leg.ID,
			CurrentDecimal: currentDecimal,
			AverageDecimal: average,
			EdgePercent:    edgePct,
			HasEdge:        edgePct > e.thresholds.MinEdgePct,
		})
	}
	return edges, nil
}
