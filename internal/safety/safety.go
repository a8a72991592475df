// Package safety scores an individual prop bet for streak-building: how
// consistently the market expects it to hit, how the quoted line compares to a
// fair line, and how favorable the matchup looks. Evaluation is one-shot and
// stateless; no parlay context is involved.
package safety

import (
	"fmt"
	"math"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// PropType identifies the stat market a prop is written on.
type PropType string

const (
	PropPoints     PropType = "points"
	PropRebounds   PropType = "rebounds"
	PropAssists    PropType = "assists"
	PropThrees     PropType = "threes"
	PropTouchdowns PropType = "touchdowns"
	PropYards      PropType = "yards"
)

// Recommendation buckets the composite safety score.
type Recommendation string

const (
	RecommendStrong Recommendation = "STRONG"
	RecommendGood   Recommendation = "GOOD"
	RecommendFair   Recommendation = "FAIR"
	RecommendAvoid  Recommendation = "AVOID"
)

// Prop is a single player/team market to evaluate.
type Prop struct {
	Player   string    `json:"player"`
	PropType PropType  `json:"prop_type"`
	Line     float64   `json:"line"`
	Odds     odds.Odds `json:"odds"`
	Opponent string    `json:"opponent"`
}

// HitRates is the recent-form breakdown used by the composite score.
type HitRates struct {
	Last5    float64 `json:"last_5"`
	Last10   float64 `json:"last_10"`
	Last20   float64 `json:"last_20"`
	Weighted float64 `json:"weighted"`
}

// Analysis is the full scoring output for one prop.
type Analysis struct {
	HitRates       HitRates       `json:"hit_rates"`
	FairLine       float64        `json:"fair_line"`
	LineValue      float64        `json:"line_value"` // quoted line minus fair line
	MatchupRating  float64        `json:"matchup_rating"`
	Volatility     float64        `json:"volatility"`
	SafetyScore    int            `json:"safety_score"` // 0-100
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []string       `json:"reasons"`
}

// Scorer evaluates props. The stats provider supplies historical form and
// opponent strength; the default provider is a deterministic stand-in until a
// real data feed is wired up.
type Scorer struct {
	provider HistoricalStatsProvider
}

// NewScorer returns a Scorer backed by the given provider, or the default
// deterministic provider when nil.
func NewScorer(provider HistoricalStatsProvider) *Scorer {
	if provider == nil {
		provider = NewHashStatsProvider()
	}
	return &Scorer{provider: provider}
}

// Composite weights: recent form dominates, then line value, matchup, and
// inverted volatility.
const (
	weightHitRate    = 0.4
	weightLineValue  = 0.3
	weightMatchup    = 0.2
	weightVolatility = 0.1
)

// Analyze scores one prop.
func (s *Scorer) Analyze(prop Prop) (*Analysis, error) {
	if prop.Line <= 0 {
		return nil, fmt.Errorf("prop line must be positive, got %g", prop.Line)
	}
	implied, err := odds.ImpliedProbability(prop.Odds)
	if err != nil {
		return nil, err
	}

	rates := s.hitRates(prop, implied)
	fairLine := s.estimateFairLine(prop, implied)
	lineValue := prop.Line - fairLine
	matchup := s.matchupRating(prop)
	volatility := s.volatility(prop)

	lineValueScore := normalizeLineValue(lineValue, prop.Line)

	score := weightHitRate*(rates.Weighted*100) +
		weightLineValue*lineValueScore +
		weightMatchup*matchup +
		weightVolatility*(100-volatility)

	rounded := int(math.Round(score))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	analysis := &Analysis{
		HitRates:       rates,
		FairLine:       fairLine,
		LineValue:      lineValue,
		MatchupRating:  matchup,
		Volatility:     volatility,
		SafetyScore:    rounded,
		Recommendation: bucket(rounded),
	}
	analysis.Reasons = s.generateReasons(analysis, prop)
	return analysis, nil
}

// hitRates blends the last-5/10/20 sample rates (0.5/0.3/0.2) seeded from the
// prop type's base rate, then pulls the blend toward the odds-implied
// probability since the market price already encodes recent form.
func (s *Scorer) hitRates(prop Prop, implied float64) HitRates {
	base := baseHitRate(prop.PropType)

	last5 := clamp01(base + s.provider.FormAdjustment(prop.Player, string(prop.PropType), 5))
	last10 := clamp01(base + s.provider.FormAdjustment(prop.Player, string(prop.PropType), 10))
	last20 := clamp01(base + s.provider.FormAdjustment(prop.Player, string(prop.PropType), 20))

	weighted := 0.5*last5 + 0.3*last10 + 0.2*last20
	weighted = clamp01(0.7*weighted + 0.3*implied)

	return HitRates{Last5: last5, Last10: last10, Last20: last20, Weighted: weighted}
}

// estimateFairLine nudges the quoted line toward the vig-adjusted
// probability: a market juiced toward the over implies the true median sits
// above the quote.
func (s *Scorer) estimateFairLine(prop Prop, implied float64) float64 {
	// Approximate the vig share as half the typical two-way overround.
	vigAdjusted := implied / 1.0238
	shift := (vigAdjusted - 0.5) * 0.1
	return round1(prop.Line * (1.0 + shift))
}

func (s *Scorer) matchupRating(prop Prop) float64 {
	strength := s.provider.OpponentStrength(prop.Opponent) // [0,1], higher = tougher
	rating := 50.0 + (0.5-strength)*40.0

	// Some markets are structurally easier to clear than others.
	switch prop.PropType {
	case PropRebounds:
		rating += 10
	case PropTouchdowns:
		rating -= 10
	}
	return clampRange(rating, 0, 100)
}

func (s *Scorer) volatility(prop Prop) float64 {
	vol := baseVolatility(prop.PropType)
	vol += s.provider.FormAdjustment(prop.Player, string(prop.PropType)+":vol", 10) * 20
	return clampRange(vol, 0, 100)
}

// generateReasons assembles the dominant contributing factors in a fixed
// order: hit-rate tier, line value direction, matchup favorability. It never
// returns an empty list; when no factor dominates it falls back to a generic
// profile message.
func (s *Scorer) generateReasons(a *Analysis, prop Prop) []string {
	var reasons []string

	switch {
	case a.HitRates.Weighted >= 0.60:
		reasons = append(reasons, fmt.Sprintf("Strong recent form: hitting at %.0f%%", a.HitRates.Weighted*100))
	case a.HitRates.Weighted < 0.45:
		reasons = append(reasons, fmt.Sprintf("Weak recent form: hitting at only %.0f%%", a.HitRates.Weighted*100))
	}

	if a.LineValue < -0.05*prop.Line {
		reasons = append(reasons, fmt.Sprintf("Quoted line %.1f sits below the estimated fair line %.1f", prop.Line, a.FairLine))
	} else if a.LineValue > 0.05*prop.Line {
		reasons = append(reasons, fmt.Sprintf("Quoted line %.1f sits above the estimated fair line %.1f", prop.Line, a.FairLine))
	}

	if a.MatchupRating >= 60 {
		reasons = append(reasons, fmt.Sprintf("Favorable matchup against %s", prop.Opponent))
	} else if a.MatchupRating <= 40 {
		reasons = append(reasons, fmt.Sprintf("Tough matchup against %s", prop.Opponent))
	}

	if len(reasons) == 0 {
		if a.SafetyScore >= 65 {
			reasons = append(reasons, "Decent overall profile across form, line value, and matchup")
		} else {
			reasons = append(reasons, "Mixed signals across form, line value, and matchup")
		}
	}
	return reasons
}

func bucket(score int) Recommendation {
	switch {
	case score >= 80:
		return RecommendStrong
	case score >= 65:
		return RecommendGood
	case score >= 50:
		return RecommendFair
	default:
		return RecommendAvoid
	}
}

func baseHitRate(propType PropType) float64 {
	switch propType {
	case PropPoints:
		return 0.55
	case PropRebounds:
		return 0.58
	case PropAssists:
		return 0.54
	case PropThrees:
		return 0.50
	case PropTouchdowns:
		return 0.45
	case PropYards:
		return 0.52
	default:
		return 0.50
	}
}

func baseVolatility(propType PropType) float64 {
	switch propType {
	case PropPoints:
		return 25
	case PropRebounds:
		return 30
	case PropAssists:
		return 35
	case PropThrees:
		return 45
	case PropTouchdowns:
		return 55
	case PropYards:
		return 40
	default:
		return 40
	}
}

// normalizeLineValue maps a line's distance from fair value onto [0,100],
// where 50 is a fairly priced line and lower quotes (easier overs) score
// higher.
func normalizeLineValue(lineValue, line float64) float64 {
	if line == 0 {
		return 50
	}
	pct := lineValue / line * 100 // positive = quoted above fair
	return clampRange(50-pct*5, 0, 100)
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
