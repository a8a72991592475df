// Package odds provides conversions between American, decimal, and fractional
// sportsbook odds, along with implied probability, vig removal, and payout math.
// All functions are pure; an Odds value is never mutated after construction.
package odds

import (
	"fmt"
	"math"
)

// Format identifies which representation an Odds value carries.
type Format string

const (
	FormatAmerican   Format = "american"
	FormatDecimal    Format = "decimal"
	FormatFractional Format = "fractional"
)

// ProbabilityTolerance is the maximum implied-probability drift allowed when
// round-tripping a value through other representations.
const ProbabilityTolerance = 1e-6

// Odds is a tagged odds value in one of three representations.
// Construct via American, Decimal, or Fractional so invalid values are
// rejected up front; treat constructed values as immutable.
type Odds struct {
	Format      Format  `json:"format"`
	American    int     `json:"american,omitempty"`
	Decimal     float64 `json:"decimal,omitempty"`
	Numerator   int     `json:"numerator,omitempty"`
	Denominator int     `json:"denominator,omitempty"`
}

// String renders the value in its own format: "+150", "2.50", or "3/2".
func (o Odds) String() string {
	switch o.Format {
	case FormatAmerican:
		return fmt.Sprintf("%+d", o.American)
	case FormatDecimal:
		return fmt.Sprintf("%.2f", o.Decimal)
	case FormatFractional:
		return fmt.Sprintf("%d/%d", o.Numerator, o.Denominator)
	}
	return ""
}

// InvalidOddsError reports an odds value outside its format's valid domain.
type InvalidOddsError struct {
	Format Format
	Value  string
	Reason string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid %s odds %s: %s", e.Format, e.Value, e.Reason)
}

// American builds an American-format odds value.
// Magnitude must be at least 100: +150 means $150 profit per $100 staked,
// -150 means $150 staked per $100 profit.
func American(value int) (Odds, error) {
	if value > -100 && value < 100 {
		return Odds{}, &InvalidOddsError{
			Format: FormatAmerican,
			Value:  fmt.Sprintf("%d", value),
			Reason: "magnitude must be at least 100",
		}
	}
	return Odds{Format: FormatAmerican, American: value}, nil
}

// Decimal builds a decimal-format odds value. Decimal odds are the total
// payout multiplier (stake included), so valid values exceed 1.0; exactly 1.0
// implies a certain outcome and is rejected.
func Decimal(value float64) (Odds, error) {
	if value <= 1.0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Odds{}, &InvalidOddsError{
			Format: FormatDecimal,
			Value:  fmt.Sprintf("%g", value),
			Reason: "must be greater than 1.0",
		}
	}
	return Odds{Format: FormatDecimal, Decimal: value}, nil
}

// Fractional builds a fractional-format odds value (profit/stake ratio).
func Fractional(numerator, denominator int) (Odds, error) {
	if numerator <= 0 || denominator <= 0 {
		return Odds{}, &InvalidOddsError{
			Format: FormatFractional,
			Value:  fmt.Sprintf("%d/%d", numerator, denominator),
			Reason: "numerator and denominator must be positive",
		}
	}
	return Odds{Format: FormatFractional, Numerator: numerator, Denominator: denominator}, nil
}

// ToDecimal returns the decimal representation of o.
// American +150 → 2.50, American -150 → 1.667, 3/2 fractional → 2.50.
func ToDecimal(o Odds) (float64, error) {
	switch o.Format {
	case FormatAmerican:
		if o.American > -100 && o.American < 100 {
			return 0, &InvalidOddsError{
				Format: FormatAmerican,
				Value:  fmt.Sprintf("%d", o.American),
				Reason: "magnitude must be at least 100",
			}
		}
		if o.American > 0 {
			return float64(o.American)/100.0 + 1.0, nil
		}
		return 100.0/math.Abs(float64(o.American)) + 1.0, nil
	case FormatDecimal:
		if o.Decimal <= 1.0 {
			return 0, &InvalidOddsError{
				Format: FormatDecimal,
				Value:  fmt.Sprintf("%g", o.Decimal),
				Reason: "must be greater than 1.0",
			}
		}
		return o.Decimal, nil
	case FormatFractional:
		if o.Numerator <= 0 || o.Denominator <= 0 {
			return 0, &InvalidOddsError{
				Format: FormatFractional,
				Value:  fmt.Sprintf("%d/%d", o.Numerator, o.Denominator),
				Reason: "numerator and denominator must be positive",
			}
		}
		return float64(o.Numerator)/float64(o.Denominator) + 1.0, nil
	default:
		return 0, &InvalidOddsError{Format: o.Format, Value: "", Reason: "unknown format"}
	}
}

// ToAmerican returns the American representation of o.
// Decimal 2.50 → +150, decimal 1.67 → -149.
func ToAmerican(o Odds) (int, error) {
	decimal, err := ToDecimal(o)
	if err != nil {
		return 0, err
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ToFractional returns the fractional representation of o, reduced to lowest
// terms. The common half-point prices 1.5, 2.0, and 2.5 map to the
// conventional 1/2, 1/1, and 3/2 quotes.
func ToFractional(o Odds) (numerator, denominator int, err error) {
	decimal, err := ToDecimal(o)
	if err != nil {
		return 0, 0, err
	}

	profit := decimal - 1.0
	switch {
	case math.Abs(profit-0.5) < ProbabilityTolerance:
		return 1, 2, nil
	case math.Abs(profit-1.0) < ProbabilityTolerance:
		return 1, 1, nil
	case math.Abs(profit-1.5) < ProbabilityTolerance:
		return 3, 2, nil
	}

	// Search small denominators for an exact quote (-110 → 10/11) so the
	// fraction round-trips within ProbabilityTolerance, then fall back to
	// hundredths reduced to lowest terms.
	for den := 1; den <= 100; den++ {
		num := int(math.Round(profit * float64(den)))
		if num > 0 && math.Abs(float64(num)/float64(den)-profit) < ProbabilityTolerance {
			g := gcd(num, den)
			return num / g, den / g, nil
		}
	}

	num := int(math.Round(profit * 100.0))
	den := 100
	if num < 1 {
		// Shorter than 1/100: hundredths would round the numerator to zero,
		// which is not a valid fraction. Quote 1/n instead.
		return 1, int(math.Round(1.0 / profit)), nil
	}
	g := gcd(num, den)
	return num / g, den / g, nil
}

// ImpliedProbability returns 1/decimal, the probability the market assigns to
// the outcome before vig removal. Always in (0,1) for valid odds.
func ImpliedProbability(o Odds) (float64, error) {
	decimal, err := ToDecimal(o)
	if err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}

// fromDecimal re-expresses a decimal value in the given format, preserving the
// caller's original representation after vig adjustment.
func fromDecimal(decimal float64, format Format) (Odds, error) {
	base, err := Decimal(decimal)
	if err != nil {
		return Odds{}, err
	}
	switch format {
	case FormatAmerican:
		american, err := ToAmerican(base)
		if err != nil {
			return Odds{}, err
		}
		return Odds{Format: FormatAmerican, American: american}, nil
	case FormatFractional:
		num, den, err := ToFractional(base)
		if err != nil {
			return Odds{}, err
		}
		return Odds{Format: FormatFractional, Numerator: num, Denominator: den}, nil
	default:
		return base, nil
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
