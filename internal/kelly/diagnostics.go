package kelly

import (
	"fmt"
	"math"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// RiskOfRuin estimates the probability of losing the whole bankroll using the
// classic gambler's-ruin approximation ((1-p)/p)^units for an even-money
// game, where units is the bankroll expressed in betting units.
//
// The approximation degenerates at p = 0.5: with no edge the random walk hits
// zero with certainty, so the function returns 1 for any p <= 0.5.
func RiskOfRuin(winProb, bankrollUnits float64) float64 {
	if bankrollUnits <= 0 {
		return 1
	}
	if winProb <= 0.5 {
		return 1
	}
	if winProb >= 1 {
		return 0
	}
	return math.Pow((1.0-winProb)/winProb, bankrollUnits)
}

// ExpectedGrowth returns the expected logarithmic bankroll growth rate per
// bet when staking the given fraction:
// g = p*ln(1 + f*b) + (1-p)*ln(1 - f).
func ExpectedGrowth(trueProb float64, o odds.Odds, fraction float64) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("true probability must be between 0 and 1, got %g", trueProb)
	}
	if fraction < 0 || fraction >= 1 {
		return 0, fmt.Errorf("stake fraction must be in [0,1), got %g", fraction)
	}
	if fraction == 0 {
		return 0, nil
	}

	decimal, err := odds.ToDecimal(o)
	if err != nil {
		return 0, err
	}

	b := decimal - 1.0
	return trueProb*math.Log(1.0+fraction*b) + (1.0-trueProb)*math.Log(1.0-fraction), nil
}

// Validate returns advisory warnings about a proposed bet. Warnings are
// informational only; nothing here is a hard failure.
func Validate(trueProb float64, o odds.Odds) ([]string, error) {
	implied, err := odds.ImpliedProbability(o)
	if err != nil {
		return nil, err
	}
	full, err := Fraction(trueProb, o)
	if err != nil {
		return nil, err
	}

	edge := trueProb - implied

	var warnings []string
	if edge <= 0 {
		warnings = append(warnings, "No positive edge at these odds")
	} else if edge < 0.02 {
		warnings = append(warnings, "Edge is below 2% - overconfidence risk")
	}
	if full > 0.20 {
		warnings = append(warnings, "Kelly fraction exceeds 20% - use fractional Kelly")
	}
	if full > 0 && full < 0.01 {
		warnings = append(warnings, "Kelly fraction below 1% - may not be worth betting")
	}
	return warnings, nil
}
