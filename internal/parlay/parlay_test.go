package parlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

func american(t *testing.T, value int) odds.Odds {
	t.Helper()
	o, err := odds.American(value)
	require.NoError(t, err)
	return o
}

func moneylineQuote(t *testing.T, eventID, book string, home, away int) MarketQuote {
	t.Helper()
	return MarketQuote{
		EventID:   eventID,
		Bookmaker: book,
		Moneyline: &MoneylineMarket{Home: american(t, home), Away: american(t, away)},
	}
}

func TestOptimizeParlayPicksBestBook(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -120), Bookmaker: "betfair"},
	}
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "betfair", -120, 100),
		moneylineQuote(t, "evt1", "pinnacle", -105, -115),
		moneylineQuote(t, "evt1", "draftkings", -110, -110),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)
	require.Len(t, result.Legs, 1)

	best := result.Legs[0]
	assert.Equal(t, "pinnacle", best.BestBookmaker)
	assert.Greater(t, best.EdgeVsCurrent, 0.0)
	assert.Greater(t, best.EdgeVsAverage, 0.0)
	assert.Equal(t, 3, best.QuoteCount)
	assert.Len(t, best.Alternatives, 2)

	// -105 beats -110 beats -120 in decimal terms.
	assert.Equal(t, "draftkings", best.Alternatives[0].Bookmaker)
	assert.Equal(t, "betfair", best.Alternatives[1].Bookmaker)
}

func TestOptimizeParlayStableTieBreak(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -110), Bookmaker: "alpha"},
	}
	// Identical prices: the first book in input order must win.
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "alpha", -110, -110),
		moneylineQuote(t, "evt1", "bravo", -110, -110),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)
	assert.Equal(t, "alpha", result.Legs[0].BestBookmaker)
}

func TestOptimizeParlayPayoutTwoStandardLegs(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -110), Bookmaker: "dk"},
		{ID: "leg2", EventID: "evt2", Market: MarketMoneyline, Selection: "away", Odds: american(t, -110), Bookmaker: "dk"},
	}
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "dk", -110, -110),
		moneylineQuote(t, "evt2", "dk", -110, -110),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)

	// Two -110 legs: 1.9091^2 ≈ 3.645, payout ≈ $264.5 per $100.
	assert.InDelta(t, 3.645, result.OriginalOdds, 0.01)
	assert.InDelta(t, 264.5, result.OriginalPayout, 0.5)
	assert.Equal(t, result.OriginalPayout, result.OptimizedPayout)
}

func TestOptimizeParlayMissingMarketIsWarningNotError(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -110), Bookmaker: "dk"},
		{ID: "leg2", EventID: "evt2", Market: MarketTotal, Selection: "over", Odds: american(t, -110), Bookmaker: "dk"},
	}
	// evt2 has no quotes at all; evt1 resolves normally.
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "dk", -110, -110),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)
	require.Len(t, result.Legs, 2)

	assert.NotEmpty(t, result.Warnings)
	assert.Zero(t, result.Legs[1].Confidence)

	// Only the resolved leg contributes to the product.
	assert.InDelta(t, 1.9091, result.OriginalOdds, 0.001)
}

func TestOptimizeParlaySingleQuoteConfidence(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -110), Bookmaker: "dk"},
	}
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "dk", -110, -110),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Legs[0].Confidence)
}

func TestOptimizeParlayRecommendationThreshold(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "leg1", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, -130), Bookmaker: "softbook"},
	}
	// +100 elsewhere is far more than 2% better than -130.
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "softbook", -130, 110),
		moneylineQuote(t, "evt1", "sharpbook", 100, -120),
	}

	result, err := engine.OptimizeParlay(legs, markets)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "sharpbook")
}

func TestLiveRecalculationPairsByLegID(t *testing.T) {
	engine := NewEngine(Thresholds{})

	original := []Leg{
		{ID: "a", EventID: "evt1", Odds: american(t, -110)},
		{ID: "b", EventID: "evt2", Odds: american(t, -110)},
	}
	// Current legs arrive in reversed order; pairing must still be by id.
	current := []Leg{
		{ID: "b", EventID: "evt2", Odds: american(t, -110)},
		{ID: "a", EventID: "evt1", Odds: american(t, -150)},
	}

	result, err := engine.LiveRecalculation(original, current)
	require.NoError(t, err)
	require.Len(t, result.Changes, 2)

	// Output follows the original leg order.
	assert.Equal(t, "a", result.Changes[0].LegID)
	assert.Negative(t, result.Changes[0].ChangePercent)
	assert.True(t, result.Changes[0].Significant)
	assert.Zero(t, result.Changes[1].ChangePercent)

	assert.True(t, result.ShouldReconsider)
	require.NotEmpty(t, result.Reasons)
	assert.Contains(t, result.Reasons[0], "leg(s) moved")
	assert.Contains(t, result.Reasons[1], "decreased")
}

func TestLiveRecalculationMismatchedLegsIsError(t *testing.T) {
	engine := NewEngine(Thresholds{})

	original := []Leg{{ID: "a", Odds: american(t, -110)}}

	_, err := engine.LiveRecalculation(original, []Leg{{ID: "z", Odds: american(t, -110)}})
	assert.Error(t, err)

	_, err = engine.LiveRecalculation(original, nil)
	assert.Error(t, err)

	_, err = engine.LiveRecalculation(original, []Leg{
		{ID: "a", Odds: american(t, -110)},
		{ID: "b", Odds: american(t, -110)},
	})
	assert.Error(t, err)
}

func TestLiveRecalculationStableParlay(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		{ID: "a", Odds: american(t, -110)},
		{ID: "b", Odds: american(t, -110)},
	}

	result, err := engine.LiveRecalculation(legs, legs)
	require.NoError(t, err)
	assert.False(t, result.ShouldReconsider)
	assert.Empty(t, result.Reasons)
	assert.Zero(t, result.PayoutChange)
}

func TestTrackLineMovementWorsening(t *testing.T) {
	engine := NewEngine(Thresholds{})

	movement, err := engine.TrackLineMovement("leg1", american(t, -110), american(t, -120))
	require.NoError(t, err)

	assert.Negative(t, movement.ChangePercent)
	assert.Equal(t, DirectionWorsening, movement.Direction)
	assert.False(t, movement.Timestamp.IsZero())
}

func TestTrackLineMovementImproving(t *testing.T) {
	engine := NewEngine(Thresholds{})

	movement, err := engine.TrackLineMovement("leg1", american(t, -150), american(t, -110))
	require.NoError(t, err)

	assert.Positive(t, movement.ChangePercent)
	assert.Equal(t, DirectionImproving, movement.Direction)
}

func TestTrackLineMovementStable(t *testing.T) {
	engine := NewEngine(Thresholds{})

	movement, err := engine.TrackLineMovement("leg1", american(t, -110), american(t, -111))
	require.NoError(t, err)
	assert.Equal(t, DirectionStable, movement.Direction)
}

func TestDetectEdgePerLeg(t *testing.T) {
	engine := NewEngine(Thresholds{})

	legs := []Leg{
		// Held at +120 while the market averages around -110: a clear edge.
		{ID: "good", EventID: "evt1", Market: MarketMoneyline, Selection: "home", Odds: american(t, 120), Bookmaker: "dk"},
		{ID: "nodata", EventID: "evt9", Market: MarketMoneyline, Selection: "home", Odds: american(t, -110), Bookmaker: "dk"},
	}
	markets := []MarketQuote{
		moneylineQuote(t, "evt1", "dk", -110, -110),
		moneylineQuote(t, "evt1", "fd", -108, -112),
	}

	edges, err := engine.DetectEdgePerLeg(legs, markets)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.True(t, edges[0].HasEdge)
	assert.Greater(t, edges[0].EdgePercent, 2.0)

	assert.False(t, edges[1].HasEdge)
	assert.Equal(t, "No market data available", edges[1].Note)
}

func TestValidateSGPProhibitsMoneylineSpreadSameSelection(t *testing.T) {
	engine := NewEngine(Thresholds{})

	validation := engine.ValidateSGP([]Leg{
		{ID: "ml", EventID: "evt1", Market: MarketMoneyline, Selection: "home"},
		{ID: "sp", EventID: "evt1", Market: MarketSpread, Selection: "home"},
	})

	assert.False(t, validation.Valid)
	require.Len(t, validation.Prohibited, 1)
	assert.NotEmpty(t, validation.Recommendations)
}

func TestValidateSGPAllowsOppositeSelections(t *testing.T) {
	engine := NewEngine(Thresholds{})

	validation := engine.ValidateSGP([]Leg{
		{ID: "ml", EventID: "evt1", Market: MarketMoneyline, Selection: "home"},
		{ID: "sp", EventID: "evt1", Market: MarketSpread, Selection: "away"},
	})

	assert.True(t, validation.Valid)
	assert.Empty(t, validation.Prohibited)
	assert.Empty(t, validation.Recommendations)
}

func TestValidateSGPSamePlayerPropsWarnOnly(t *testing.T) {
	engine := NewEngine(Thresholds{})

	validation := engine.ValidateSGP([]Leg{
		{ID: "pts", EventID: "evt1", Market: MarketPlayerProp, PlayerID: "p1"},
		{ID: "reb", EventID: "evt1", Market: MarketPlayerProp, PlayerID: "p1"},
	})

	assert.True(t, validation.Valid)
	require.Len(t, validation.Warnings, 1)
	assert.Empty(t, validation.Recommendations)
}

func TestValidateSGPDifferentPlayersClean(t *testing.T) {
	engine := NewEngine(Thresholds{})

	validation := engine.ValidateSGP([]Leg{
		{ID: "pts", EventID: "evt1", Market: MarketPlayerProp, PlayerID: "p1"},
		{ID: "reb", EventID: "evt1", Market: MarketPlayerProp, PlayerID: "p2"},
	})

	assert.True(t, validation.Valid)
	assert.Empty(t, validation.Warnings)
}

func TestValidateSGPLegsAcrossEventsIgnored(t *testing.T) {
	engine := NewEngine(Thresholds{})

	// Same selections but different events: not a same-game parlay.
	validation := engine.ValidateSGP([]Leg{
		{ID: "ml", EventID: "evt1", Market: MarketMoneyline, Selection: "home"},
		{ID: "sp", EventID: "evt2", Market: MarketSpread, Selection: "home"},
	})

	assert.True(t, validation.Valid)
}

func TestThresholdDefaults(t *testing.T) {
	engine := NewEngine(Thresholds{})
	assert.Equal(t, 5.0, engine.Thresholds().SignificantMovementPct)
	assert.Equal(t, 2.0, engine.Thresholds().MinEdgePct)
	assert.Equal(t, 5.0, engine.Thresholds().BookDiscountPct)

	custom := NewEngine(Thresholds{MinEdgePct: 3.5})
	assert.Equal(t, 3.5, custom.Thresholds().MinEdgePct)
	assert.Equal(t, 5.0, custom.Thresholds().SignificantMovementPct)
}
