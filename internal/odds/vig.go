package odds

import "fmt"

// RemoveVig normalizes a two-way market back to a fair probability partition.
//
// Both sides' implied probabilities typically sum to more than 1.0; the excess
// is the bookmaker's margin (vig). The margin is assumed to be split
// proportionally, so each probability is divided by the total and the fair
// prices are re-expressed in each side's original format.
//
// Example: -110 / -110 (52.38% each, 4.76% vig) → +100 / +100 (50% each).
func RemoveVig(a, b Odds) (fairA, fairB Odds, err error) {
	probA, err := ImpliedProbability(a)
	if err != nil {
		return Odds{}, Odds{}, fmt.Errorf("side A: %w", err)
	}
	probB, err := ImpliedProbability(b)
	if err != nil {
		return Odds{}, Odds{}, fmt.Errorf("side B: %w", err)
	}

	total := probA + probB
	if total <= 1.0 {
		return Odds{}, Odds{}, fmt.Errorf("no vig detected: implied probabilities sum to %.4f", total)
	}

	fairA, err = fromDecimal(total/probA, a.Format)
	if err != nil {
		return Odds{}, Odds{}, fmt.Errorf("side A: %w", err)
	}
	fairB, err = fromDecimal(total/probB, b.Format)
	if err != nil {
		return Odds{}, Odds{}, fmt.Errorf("side B: %w", err)
	}
	return fairA, fairB, nil
}

// FairProbabilities returns the vig-free probabilities of a two-way market
// without re-expressing them as odds.
func FairProbabilities(a, b Odds) (float64, float64, error) {
	probA, err := ImpliedProbability(a)
	if err != nil {
		return 0, 0, fmt.Errorf("side A: %w", err)
	}
	probB, err := ImpliedProbability(b)
	if err != nil {
		return 0, 0, fmt.Errorf("side B: %w", err)
	}

	total := probA + probB
	if total <= 1.0 {
		return 0, 0, fmt.Errorf("no vig detected: implied probabilities sum to %.4f", total)
	}
	return probA / total, probB / total, nil
}

// VigPercentage returns the market's overround as a percentage.
// -110 / -110 → 4.76.
func VigPercentage(a, b Odds) (float64, error) {
	probA, err := ImpliedProbability(a)
	if err != nil {
		return 0, err
	}
	probB, err := ImpliedProbability(b)
	if err != nil {
		return 0, err
	}

	total := probA + probB
	if total <= 1.0 {
		return 0, nil
	}
	return (total - 1.0) * 100.0, nil
}
