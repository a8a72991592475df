package kelly

import (
	"fmt"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// RiskLevel classifies a sizing recommendation.
type RiskLevel string

const (
	RiskLevelConservative RiskLevel = "conservative"
	RiskLevelModerate     RiskLevel = "moderate"
	RiskLevelAggressive   RiskLevel = "aggressive"
)

// Recommendation is the parlay-level bet sizing output. It has no persisted
// identity; each call produces a fresh value.
type Recommendation struct {
	MinStake         float64   `json:"min_stake"`
	MaxStake         float64   `json:"max_stake"`
	RecommendedStake float64   `json:"recommended_stake"`
	Confidence       float64   `json:"confidence"`
	RiskLevel        RiskLevel `json:"risk_level"`
	KellyFraction    float64   `json:"kelly_fraction"` // after correlation adjustment
	ExpectedReturn   float64   `json:"expected_return"`
	Reasoning        []string  `json:"reasoning"`
}

// SizingParams configures RecommendBetSize. Zero values fall back to the
// package defaults.
type SizingParams struct {
	BaseFraction float64 // default quarter Kelly
	MaxBetPct    float64 // default 5% of bankroll
	MinStake     float64 // default $10
}

// RecommendBetSize sizes a whole parlay. It starts from quarter Kelly,
// dampens the fraction by the correlation-warning count, classifies risk from
// the expected value, trims confidence for parlays beyond five legs, and
// clamps the final stake to max(minStake, min(kellyStake, bankroll*maxBetPct)).
// Every adjustment that fires appends a human-readable reason.
//
// legCount is the actual number of legs in the parlay; callers must not infer
// it from the warning count.
func RecommendBetSize(parlayOdds odds.Odds, trueProbability, bankroll, expectedValue float64, correlationWarnings, legCount int, params SizingParams) (*Recommendation, error) {
	if bankroll <= 0 {
		return nil, fmt.Errorf("bankroll must be positive, got %g", bankroll)
	}
	if params.BaseFraction <= 0 {
		params.BaseFraction = DefaultFraction
	}
	if params.MaxBetPct <= 0 {
		params.MaxBetPct = DefaultMaxBetPct
	}
	if params.MinStake <= 0 {
		params.MinStake = DefaultMinStake
	}

	base, err := FractionalKelly(trueProbability, parlayOdds, params.BaseFraction)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		MinStake:       params.MinStake,
		MaxStake:       bankroll * params.MaxBetPct,
		ExpectedReturn: expectedValue,
		RiskLevel:      RiskLevelModerate,
		Confidence:     0.7,
	}

	// Correlated legs overstate the parlay's true probability, so back off
	// proportionally to the number of warnings, never below half.
	damping := 1.0 - float64(correlationWarnings)*0.1
	if damping < 0.5 {
		damping = 0.5
	}
	adjusted := base * damping
	if correlationWarnings > 0 {
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("Reduced Kelly fraction by %.0f%% for %d correlation warning(s)", (1.0-damping)*100, correlationWarnings))
	}
	rec.KellyFraction = adjusted

	switch {
	case expectedValue < 0:
		rec.RiskLevel = RiskLevelConservative
		rec.Confidence = 0.2
		rec.Reasoning = append(rec.Reasoning, "Negative expected value: this parlay is not recommended")
	case expectedValue < 0.05:
		rec.RiskLevel = RiskLevelConservative
		rec.Confidence = 0.5
		rec.Reasoning = append(rec.Reasoning, "Thin expected value: sizing conservatively")
	case expectedValue > 0.15:
		rec.RiskLevel = RiskLevelAggressive
		rec.Confidence = 0.9
		rec.Reasoning = append(rec.Reasoning, "Strong expected value supports aggressive sizing")
	}

	if legCount > 5 {
		rec.Confidence *= 0.9
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("Confidence reduced 10%% for a %d-leg parlay", legCount))
	}

	kellyStake := bankroll * adjusted
	recommended := kellyStake
	if recommended > rec.MaxStake {
		recommended = rec.MaxStake
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("Stake capped at %.0f%% of bankroll ($%.2f)", params.MaxBetPct*100, rec.MaxStake))
	}
	if recommended < params.MinStake {
		recommended = params.MinStake
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("Stake raised to the $%.0f minimum", params.MinStake))
	}
	rec.RecommendedStake = recommended

	return rec, nil
}
