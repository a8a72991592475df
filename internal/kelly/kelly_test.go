package kelly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

func evenMoney(t *testing.T) odds.Odds {
	t.Helper()
	o, err := odds.American(100)
	require.NoError(t, err)
	return o
}

func TestFraction(t *testing.T) {
	o := evenMoney(t)

	// 55% on even money: f = (1*0.55 - 0.45) / 1 = 0.10.
	f, err := Fraction(0.55, o)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, f, 0.0001)
}

func TestFractionClampsNegativeEdge(t *testing.T) {
	o := evenMoney(t)

	f, err := Fraction(0.45, o)
	require.NoError(t, err)
	assert.Zero(t, f)

	f, err = Fraction(0.5, o)
	require.NoError(t, err)
	assert.Zero(t, f)
}

func TestFractionAlwaysInUnitInterval(t *testing.T) {
	decimals := []float64{1.1, 1.5, 1.9091, 2.0, 3.5, 10.0}
	probs := []float64{0.01, 0.2, 0.5, 0.8, 0.99}

	for _, d := range decimals {
		o, err := odds.Decimal(d)
		require.NoError(t, err)
		for _, p := range probs {
			f, err := Fraction(p, o)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, f, 0.0)
			assert.LessOrEqual(t, f, 1.0)
		}
	}
}

func TestFractionRejectsInvalidProbability(t *testing.T) {
	o := evenMoney(t)
	for _, p := range []float64{0, 1, -0.2, 1.5} {
		_, err := Fraction(p, o)
		assert.Error(t, err)
	}
}

func TestFractionalKelly(t *testing.T) {
	o := evenMoney(t)

	quarter, err := FractionalKelly(0.55, o, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, quarter, 0.0001)

	_, err = FractionalKelly(0.55, o, 0)
	assert.Error(t, err)
}

func TestStakeRiskMultipliers(t *testing.T) {
	o := evenMoney(t)
	bankroll := 1000.0

	tests := []struct {
		risk     RiskTolerance
		expected float64
	}{
		{RiskConservative, 25.0}, // 0.10 * 0.25 * 1000
		{RiskModerate, 50.0},     // 0.10 * 0.50 * 1000 = 5% (at the cap)
		{RiskAggressive, 50.0},   // full Kelly would be 10%, capped at 5%
	}

	for _, tt := range tests {
		res, err := Stake(0.55, o, bankroll, tt.risk, 0)
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, res.Stake, 0.01, "risk %s", tt.risk)
	}

	res, err := Stake(0.55, o, bankroll, RiskAggressive, 0)
	require.NoError(t, err)
	assert.True(t, res.Capped)
}

func TestStakeConfidenceLabels(t *testing.T) {
	o := evenMoney(t) // implied 0.50

	tests := []struct {
		trueProb float64
		label    string
	}{
		{0.51, "low"},    // 1% edge
		{0.53, "medium"}, // 3% edge
		{0.57, "high"},   // 7% edge
	}

	for _, tt := range tests {
		res, err := Stake(tt.trueProb, o, 1000, RiskConservative, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.label, res.Confidence, "trueProb %g", tt.trueProb)
	}
}

func TestRecommendBetSize(t *testing.T) {
	parlay, err := odds.Decimal(3.645)
	require.NoError(t, err)

	rec, err := RecommendBetSize(parlay, 0.32, 1000, 0.10, 0, 2, SizingParams{})
	require.NoError(t, err)

	assert.Equal(t, RiskLevelModerate, rec.RiskLevel)
	assert.GreaterOrEqual(t, rec.RecommendedStake, rec.MinStake)
	assert.LessOrEqual(t, rec.RecommendedStake, rec.MaxStake)
	assert.Equal(t, 10.0, rec.MinStake)
	assert.Equal(t, 50.0, rec.MaxStake)
}

func TestRecommendBetSizeNegativeEV(t *testing.T) {
	parlay, err := odds.Decimal(3.645)
	require.NoError(t, err)

	rec, err := RecommendBetSize(parlay, 0.20, 1000, -0.05, 0, 2, SizingParams{})
	require.NoError(t, err)

	assert.Equal(t, RiskLevelConservative, rec.RiskLevel)
	assert.InDelta(t, 0.2, rec.Confidence, 0.0001)
	assert.Contains(t, rec.Reasoning[len(rec.Reasoning)-2], "not recommended")
}

func TestRecommendBetSizeCorrelationDamping(t *testing.T) {
	parlay, err := odds.Decimal(4.0)
	require.NoError(t, err)

	base, err := RecommendBetSize(parlay, 0.35, 10000, 0.08, 0, 3, SizingParams{})
	require.NoError(t, err)

	damped, err := RecommendBetSize(parlay, 0.35, 10000, 0.08, 2, 3, SizingParams{})
	require.NoError(t, err)

	assert.InDelta(t, base.KellyFraction*0.8, damped.KellyFraction, 0.0001)

	// Damping never drops below half regardless of warning count.
	floor, err := RecommendBetSize(parlay, 0.35, 10000, 0.08, 9, 3, SizingParams{})
	require.NoError(t, err)
	assert.InDelta(t, base.KellyFraction*0.5, floor.KellyFraction, 0.0001)
}

func TestRecommendBetSizeLongParlayTrimsConfidence(t *testing.T) {
	parlay, err := odds.Decimal(12.0)
	require.NoError(t, err)

	short, err := RecommendBetSize(parlay, 0.12, 1000, 0.20, 0, 4, SizingParams{})
	require.NoError(t, err)
	long, err := RecommendBetSize(parlay, 0.12, 1000, 0.20, 0, 6, SizingParams{})
	require.NoError(t, err)

	assert.InDelta(t, short.Confidence*0.9, long.Confidence, 0.0001)
	assert.Equal(t, RiskLevelAggressive, long.RiskLevel)
}

func TestRecommendBetSizeMinStakeFloor(t *testing.T) {
	parlay, err := odds.Decimal(2.5)
	require.NoError(t, err)

	// Tiny bankroll: kelly stake lands under $10 and is raised to the floor.
	rec, err := RecommendBetSize(parlay, 0.45, 100, 0.02, 0, 2, SizingParams{})
	require.NoError(t, err)
	assert.Equal(t, 10.0, rec.RecommendedStake)
}

func TestRiskOfRuin(t *testing.T) {
	// No edge means certain ruin.
	assert.Equal(t, 1.0, RiskOfRuin(0.5, 50))
	assert.Equal(t, 1.0, RiskOfRuin(0.4, 50))

	// Positive edge: ruin probability shrinks with bankroll units.
	small := RiskOfRuin(0.55, 10)
	large := RiskOfRuin(0.55, 50)
	assert.Greater(t, small, large)
	assert.Greater(t, small, 0.0)
	assert.Less(t, small, 1.0)
}

func TestExpectedGrowth(t *testing.T) {
	o := evenMoney(t)

	// Full Kelly at 55%/even money: f = 0.10.
	g, err := ExpectedGrowth(0.55, o, 0.10)
	require.NoError(t, err)
	assert.Greater(t, g, 0.0)

	// Overbetting destroys growth.
	over, err := ExpectedGrowth(0.55, o, 0.5)
	require.NoError(t, err)
	assert.Less(t, over, g)

	zero, err := ExpectedGrowth(0.55, o, 0)
	require.NoError(t, err)
	assert.Zero(t, zero)
}

func TestValidateWarnings(t *testing.T) {
	o := evenMoney(t)

	warnings, err := Validate(0.45, o)
	require.NoError(t, err)
	assert.Contains(t, warnings[0], "No positive edge")

	warnings, err = Validate(0.51, o)
	require.NoError(t, err)
	assert.Contains(t, warnings[0], "below 2%")

	// Huge edge: full Kelly over 20%.
	warnings, err = Validate(0.75, o)
	require.NoError(t, err)
	assert.Contains(t, warnings[0], "use fractional Kelly")

	// Healthy medium edge: no warnings at all.
	warnings, err = Validate(0.53, o)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
