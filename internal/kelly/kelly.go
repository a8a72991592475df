// Package kelly sizes wagers with the Kelly criterion: full and fractional
// Kelly fractions, risk-adjusted stakes, and parlay-level bet sizing with
// correlation damping. All computations are pure.
package kelly

import (
	"fmt"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// RiskTolerance selects how much of the full Kelly fraction to put at risk.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative" // quarter Kelly
	RiskModerate     RiskTolerance = "moderate"     // half Kelly
	RiskAggressive   RiskTolerance = "aggressive"   // full Kelly
)

const (
	// DefaultFraction is the canonical quarter-Kelly multiplier.
	DefaultFraction = 0.25

	// DefaultMaxBetPct caps any single recommendation at this share of bankroll.
	DefaultMaxBetPct = 0.05

	// DefaultMinStake is the floor for a recommended stake in dollars.
	DefaultMinStake = 10.0
)

// Fraction returns the full Kelly fraction f = (b*p - q) / b where b is the
// net decimal odds, p the bettor's true win probability, and q = 1-p.
// The result is clamped to [0,1]: a non-positive edge sizes to zero, never to
// a negative stake.
func Fraction(trueProb float64, o odds.Odds) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("true probability must be between 0 and 1, got %g", trueProb)
	}

	decimal, err := odds.ToDecimal(o)
	if err != nil {
		return 0, err
	}

	b := decimal - 1.0
	q := 1.0 - trueProb
	f := (b*trueProb - q) / b

	if f < 0 {
		return 0, nil
	}
	if f > 1 {
		return 1, nil
	}
	return f, nil
}

// FractionalKelly scales the full Kelly fraction by the supplied multiplier
// (0.25 for quarter Kelly) to trade growth rate for variance.
func FractionalKelly(trueProb float64, o odds.Odds, fraction float64) (float64, error) {
	if fraction <= 0 || fraction > 1 {
		return 0, fmt.Errorf("kelly fraction must be in (0,1], got %g", fraction)
	}
	full, err := Fraction(trueProb, o)
	if err != nil {
		return 0, err
	}
	return full * fraction, nil
}

// StakeResult is the output of a single-bet sizing call.
type StakeResult struct {
	Stake      float64 `json:"stake"`
	KellyPct   float64 `json:"kelly_pct"` // fraction of bankroll after risk adjustment
	Edge       float64 `json:"edge"`      // true probability minus implied probability
	Confidence string  `json:"confidence"`
	Capped     bool    `json:"capped"`
}

// Stake sizes a single bet: the full Kelly fraction is scaled by the risk
// tolerance multiplier and then capped at maxBetPct of bankroll. Pass 0 for
// maxBetPct to use the 5% default.
func Stake(trueProb float64, o odds.Odds, bankroll float64, risk RiskTolerance, maxBetPct float64) (*StakeResult, error) {
	if bankroll <= 0 {
		return nil, fmt.Errorf("bankroll must be positive, got %g", bankroll)
	}
	if maxBetPct <= 0 {
		maxBetPct = DefaultMaxBetPct
	}

	full, err := Fraction(trueProb, o)
	if err != nil {
		return nil, err
	}

	implied, err := odds.ImpliedProbability(o)
	if err != nil {
		return nil, err
	}
	edge := trueProb - implied

	adjusted := full * riskMultiplier(risk)
	capped := false
	if adjusted > maxBetPct {
		adjusted = maxBetPct
		capped = true
	}

	return &StakeResult{
		Stake:      bankroll * adjusted,
		KellyPct:   adjusted,
		Edge:       edge,
		Confidence: confidenceLabel(edge),
		Capped:     capped,
	}, nil
}

func riskMultiplier(risk RiskTolerance) float64 {
	switch risk {
	case RiskAggressive:
		return 1.0
	case RiskModerate:
		return 0.5
	default:
		return 0.25
	}
}

// confidenceLabel buckets the absolute edge: below 2% low, 2-5% medium,
// 5% and above high.
func confidenceLabel(edge float64) string {
	abs := edge
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 0.05:
		return "high"
	case abs >= 0.02:
		return "medium"
	default:
		return "low"
	}
}
