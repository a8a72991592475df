package odds

import "fmt"

// CalculatePayout returns the total return (stake included) for a winning bet.
// A zero or negative stake returns 0 rather than an error so callers can feed
// unsized legs through without special-casing.
func CalculatePayout(stake float64, o Odds) (float64, error) {
	if stake <= 0 {
		return 0, nil
	}
	decimal, err := ToDecimal(o)
	if err != nil {
		return 0, err
	}
	return stake * decimal, nil
}

// CalculateProfit returns the net profit (payout minus stake) for a winning bet.
func CalculateProfit(stake float64, o Odds) (float64, error) {
	payout, err := CalculatePayout(stake, o)
	if err != nil {
		return 0, err
	}
	if payout == 0 {
		return 0, nil
	}
	return payout - stake, nil
}

// ExpectedValue returns the expected dollar value of a bet given the bettor's
// true win probability: EV = p*profit - (1-p)*stake.
func ExpectedValue(trueProb, stake float64, o Odds) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("true probability must be between 0 and 1, got %g", trueProb)
	}
	if stake <= 0 {
		return 0, nil
	}
	profit, err := CalculateProfit(stake, o)
	if err != nil {
		return 0, err
	}
	return trueProb*profit - (1.0-trueProb)*stake, nil
}
