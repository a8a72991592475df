package parlay

import (
	"fmt"
	"math"
	"time"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// LiveRecalculation recomputes a parlay's value after live odds movement.
// Legs are paired explicitly by leg ID; a current leg without a matching
// original (or vice versa) is an invalid-input error, never a silent
// positional guess.
func (e *Engine) LiveRecalculation(original, current []Leg) (*LiveRecalcResult, error) {
	if len(original) == 0 || len(current) == 0 {
		return nil, fmt.Errorf("original and current legs must be non-empty")
	}
	if len(original) != len(current) {
		return nil, fmt.Errorf("leg count mismatch: %d original vs %d current", len(original), len(current))
	}

	currentByID := make(map[string]Leg, len(current))
	for _, leg := range current {
		if leg.ID == "" {
			return nil, fmt.Errorf("current leg missing id")
		}
		if _, dup := currentByID[leg.ID]; dup {
			return nil, fmt.Errorf("duplicate current leg id %s", leg.ID)
		}
		currentByID[leg.ID] = leg
	}

	result := &LiveRecalcResult{Changes: make([]LegChange, 0, len(original))}
	previousProduct := 1.0
	currentProduct := 1.0
	significant := 0

	for _, origLeg := range original {
		currLeg, ok := currentByID[origLeg.ID]
		if !ok {
			return nil, fmt.Errorf("no current leg matches id %s", origLeg.ID)
		}

		prevDecimal, err := odds.ToDecimal(origLeg.Odds)
		if err != nil {
			return nil, fmt.Errorf("original leg %s: %w", origLeg.ID, err)
		}
		currDecimal, err := odds.ToDecimal(currLeg.Odds)
		if err != nil {
			return nil, fmt.Errorf("current leg %s: %w", currLeg.ID, err)
		}

		changePct := pctDiff(currDecimal, prevDecimal)
		change := LegChange{
			LegID:           origLeg.ID,
			PreviousDecimal: prevDecimal,
			CurrentDecimal:  currDecimal,
			ChangePercent:   changePct,
			Significant:     math.Abs(changePct) > e.thresholds.SignificantMovementPct,
		}
		if change.Significant {
			significant++
		}
		result.Changes = append(result.Changes, change)

		previousProduct *= prevDecimal
		currentProduct *= currDecimal
	}

	result.PreviousPayout = round2((previousProduct - 1.0) * 100.0)
	result.CurrentPayout = round2((currentProduct - 1.0) * 100.0)
	result.PayoutChange = round2(result.CurrentPayout - result.PreviousPayout)

	payoutMoved := math.Abs(result.PayoutChange) > 0.10*math.Abs(result.PreviousPayout)
	result.ShouldReconsider = significant > 0 || payoutMoved

	// Reason ordering: leg-level movement first, then the payout direction.
	if significant > 0 {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("%d leg(s) moved more than %.0f%%", significant, e.thresholds.SignificantMovementPct))
	}
	if result.PayoutChange != 0 {
		direction := "improved"
		if result.PayoutChange < 0 {
			direction = "decreased"
		}
		pct := 0.0
		if result.PreviousPayout != 0 {
			pct = result.PayoutChange / math.Abs(result.PreviousPayout) * 100.0
		}
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Parlay payout %s by $%.2f (%+.1f%%) per $100", direction, math.Abs(result.PayoutChange), pct))
	}

	return result, nil
}

// TrackLineMovement classifies a single leg's odds change. Movement under 1%
// in either direction is stable; a higher decimal price is improving for the
// bettor, a lower one worsening. The record is timestamped at call time;
// history retention belongs to the caller.
func (e *Engine) TrackLineMovement(legID string, previous, current odds.Odds) (*LineMovement, error) {
	prevDecimal, err := odds.ToDecimal(previous)
	if err != nil {
		return nil, fmt.Errorf("previous odds: %w", err)
	}
	currDecimal, err := odds.ToDecimal(current)
	if err != nil {
		return nil, fmt.Errorf("current odds: %w", err)
	}

	changePct := (currDecimal - prevDecimal) / prevDecimal * 100.0

	direction := DirectionStable
	switch {
	case math.Abs(changePct) < 1.0:
		direction = DirectionStable
	case changePct > 0:
		direction = DirectionImproving
	default:
		direction = DirectionWorsening
	}

	return &LineMovement{
		LegID:         legID,
		PreviousOdds:  previous,
		CurrentOdds:   current,
		ChangePercent: changePct,
		Direction:     direction,
		Timestamp:     time.Now().UTC(),
	}, nil
}
