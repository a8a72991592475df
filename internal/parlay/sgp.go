package parlay

import "fmt"

// ValidateSGP checks same-game-parlay rules. Legs sharing an event id form an
// SGP group; within each group every unordered leg pair is checked:
//
//   - prohibited: a moneyline leg and a spread leg on the identical selection
//     (the spread already contains the moneyline outcome for that team)
//   - warning: two player-prop legs on the same player (correlated stat lines)
//
// The parlay is valid when no prohibited pairs exist; recommendations are
// only surfaced alongside prohibitions.
func (e *Engine) ValidateSGP(legs []Leg) *SGPValidation {
	validation := &SGPValidation{Valid: true}

	byEvent := make(map[string][]Leg)
	for _, leg := range legs {
		byEvent[leg.EventID] = append(byEvent[leg.EventID], leg)
	}

	for _, group := range byEvent {
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				checkPair(group[i], group[j], validation)
			}
		}
	}

	if len(validation.Prohibited) > 0 {
		validation.Valid = false
		validation.Recommendations = append(validation.Recommendations,
			fmt.Sprintf("Remove %d conflicting leg pair(s): moneyline and spread on the same team cannot be combined in one parlay",
				len(validation.Prohibited)))
	}
	return validation
}

func checkPair(a, b Leg, validation *SGPValidation) {
	if isMoneylineSpreadPair(a, b) && a.Selection == b.Selection {
		validation.Prohibited = append(validation.Prohibited, SGPConflict{
			LegA:   a.ID,
			LegB:   b.ID,
			Reason: fmt.Sprintf("moneyline and spread on the same selection (%s) for event %s", a.Selection, a.EventID),
		})
		return
	}

	if a.Market == MarketPlayerProp && b.Market == MarketPlayerProp &&
		a.PlayerID != "" && a.PlayerID == b.PlayerID {
		validation.Warnings = append(validation.Warnings, SGPConflict{
			LegA:   a.ID,
			LegB:   b.ID,
			Reason: fmt.Sprintf("both props are on player %s; outcomes are likely correlated", a.PlayerID),
		})
	}
}

func isMoneylineSpreadPair(a, b Leg) bool {
	return (a.Market == MarketMoneyline && b.Market == MarketSpread) ||
		(a.Market == MarketSpread && b.Market == MarketMoneyline)
}
