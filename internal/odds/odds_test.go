package odds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{"positive underdog", 150, 2.50},
		{"negative favorite", -150, 1.6667},
		{"standard juice", -110, 1.9091},
		{"even money", 100, 2.00},
		{"heavy favorite", -400, 1.25},
		{"longshot", 900, 10.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := American(tt.american)
			require.NoError(t, err)

			decimal, err := ToDecimal(o)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, decimal, 0.0001)
		})
	}
}

func TestAmericanRejectsInvalidMagnitude(t *testing.T) {
	for _, value := range []int{0, 99, -99, 50, -1} {
		_, err := American(value)
		require.Error(t, err, "American(%d) should be rejected", value)

		var invalidErr *InvalidOddsError
		assert.ErrorAs(t, err, &invalidErr)
	}
}

func TestDecimalRejectsBoundary(t *testing.T) {
	for _, value := range []float64{1.0, 0.99, 0, -2.5, math.NaN()} {
		_, err := Decimal(value)
		assert.Error(t, err, "Decimal(%g) should be rejected", value)
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		decimal  float64
		expected int
	}{
		{2.50, 150},
		{2.00, 100},
		{1.9091, -110},
		{1.6667, -150},
		{1.25, -400},
	}

	for _, tt := range tests {
		o, err := Decimal(tt.decimal)
		require.NoError(t, err)

		american, err := ToAmerican(o)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, american)
	}
}

func TestToFractional(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		num     int
		den     int
	}{
		{"half point", 1.5, 1, 2},
		{"evens", 2.0, 1, 1},
		{"three to two", 2.5, 3, 2},
		{"standard juice", 1.9090909091, 10, 11},
		{"four to one", 5.0, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Decimal(tt.decimal)
			require.NoError(t, err)

			num, den, err := ToFractional(o)
			require.NoError(t, err)
			assert.Equal(t, tt.num, num)
			assert.Equal(t, tt.den, den)
		})
	}
}

// Short prices below 1/100 must still produce a positive numerator that the
// Fractional constructor accepts.
func TestToFractionalShortPrice(t *testing.T) {
	tests := []struct {
		name string
		odds func() (Odds, error)
		num  int
		den  int
	}{
		{"decimal 1.004", func() (Odds, error) { return Decimal(1.004) }, 1, 250},
		{"american -30000", func() (Odds, error) { return American(-30000) }, 1, 300},
		{"decimal 1.003", func() (Odds, error) { return Decimal(1.003) }, 1, 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := tt.odds()
			require.NoError(t, err)

			num, den, err := ToFractional(o)
			require.NoError(t, err)
			assert.Equal(t, tt.num, num)
			assert.Equal(t, tt.den, den)

			_, err = Fractional(num, den)
			require.NoError(t, err)
		})
	}
}

// Round-trip: American → decimal → fractional → decimal → American must
// reproduce the original price within rounding.
func TestRoundTrip(t *testing.T) {
	for _, american := range []int{-10000, -500, -150, -110, -105, 100, 110, 150, 250, 900, 10000} {
		o, err := American(american)
		require.NoError(t, err)

		num, den, err := ToFractional(o)
		require.NoError(t, err)

		frac, err := Fractional(num, den)
		require.NoError(t, err)

		back, err := ToAmerican(frac)
		require.NoError(t, err)
		assert.Equal(t, american, back, "round trip for %d", american)

		origProb, err := ImpliedProbability(o)
		require.NoError(t, err)
		fracProb, err := ImpliedProbability(frac)
		require.NoError(t, err)
		assert.InDelta(t, origProb, fracProb, ProbabilityTolerance)
	}
}

func TestImpliedProbabilityMonotonicity(t *testing.T) {
	decimals := []float64{1.05, 1.25, 1.5, 1.9091, 2.0, 2.5, 5.0, 10.0, 100.0}

	prev := 1.1 // above any valid probability
	for _, d := range decimals {
		o, err := Decimal(d)
		require.NoError(t, err)

		prob, err := ImpliedProbability(o)
		require.NoError(t, err)
		assert.Greater(t, prob, 0.0)
		assert.Less(t, prob, 1.0)
		assert.Less(t, prob, prev, "probability must strictly decrease with decimal odds")
		prev = prob
	}
}

func TestRemoveVig(t *testing.T) {
	home, err := American(-110)
	require.NoError(t, err)
	away, err := American(-110)
	require.NoError(t, err)

	fairHome, fairAway, err := RemoveVig(home, away)
	require.NoError(t, err)

	// Symmetric -110 market strips to even money on both sides.
	assert.Equal(t, FormatAmerican, fairHome.Format)
	assert.Equal(t, 100, fairHome.American)
	assert.Equal(t, 100, fairAway.American)

	probHome, probAway, err := FairProbabilities(home, away)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probHome, 0.0001)
	assert.InDelta(t, 1.0, probHome+probAway, ProbabilityTolerance)
}

func TestRemoveVigAsymmetric(t *testing.T) {
	fav, err := American(-200)
	require.NoError(t, err)
	dog, err := American(170)
	require.NoError(t, err)

	probFav, probDog, err := FairProbabilities(fav, dog)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probFav+probDog, ProbabilityTolerance)
	assert.Greater(t, probFav, probDog)
}

func TestRemoveVigRequiresOverround(t *testing.T) {
	a, err := Decimal(3.0)
	require.NoError(t, err)
	b, err := Decimal(3.0)
	require.NoError(t, err)

	_, _, err = RemoveVig(a, b)
	assert.Error(t, err)
}

func TestVigPercentage(t *testing.T) {
	home, err := American(-110)
	require.NoError(t, err)
	away, err := American(-110)
	require.NoError(t, err)

	vig, err := VigPercentage(home, away)
	require.NoError(t, err)
	assert.InDelta(t, 4.7619, vig, 0.001)
}

func TestCalculatePayout(t *testing.T) {
	o, err := American(-110)
	require.NoError(t, err)

	payout, err := CalculatePayout(110, o)
	require.NoError(t, err)
	assert.InDelta(t, 210, payout, 0.01)

	profit, err := CalculateProfit(110, o)
	require.NoError(t, err)
	assert.InDelta(t, 100, profit, 0.01)
}

func TestZeroStakeIsZeroNotError(t *testing.T) {
	o, err := American(150)
	require.NoError(t, err)

	for _, stake := range []float64{0, -5} {
		payout, err := CalculatePayout(stake, o)
		require.NoError(t, err)
		assert.Zero(t, payout)

		profit, err := CalculateProfit(stake, o)
		require.NoError(t, err)
		assert.Zero(t, profit)

		ev, err := ExpectedValue(0.55, stake, o)
		require.NoError(t, err)
		assert.Zero(t, ev)
	}
}

func TestExpectedValue(t *testing.T) {
	o, err := American(100) // even money
	require.NoError(t, err)

	// 55% true probability on even money: EV = 0.55*100 - 0.45*100 = +10.
	ev, err := ExpectedValue(0.55, 100, o)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, ev, 0.0001)

	// Coin flip on even money is zero EV.
	ev, err = ExpectedValue(0.5, 100, o)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ev, 0.0001)

	_, err = ExpectedValue(1.5, 100, o)
	assert.Error(t, err)
}
