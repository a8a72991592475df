package safety

import (
	"fmt"

	"github.com/segmentio/fasthash/fnv1a"
)

// HistoricalStatsProvider supplies the historical inputs for safety scoring.
// The scoring formula only sees these two signals, so swapping the default
// deterministic stand-in for a real stats feed requires no scoring changes.
type HistoricalStatsProvider interface {
	// FormAdjustment returns a recent-form delta in [-0.15, 0.15] for the
	// player's last N games on the given market.
	FormAdjustment(player, market string, games int) float64

	// OpponentStrength rates the opponent in [0,1]; higher is tougher.
	OpponentStrength(opponent string) float64
}

// HashStatsProvider is the default provider: a stable hash of the inputs
// stands in for missing historical data, so repeated calls for the same
// player/opponent always agree.
type HashStatsProvider struct{}

func NewHashStatsProvider() *HashStatsProvider {
	return &HashStatsProvider{}
}

func (p *HashStatsProvider) FormAdjustment(player, market string, games int) float64 {
	h := fnv1a.HashString64(fmt.Sprintf("%s|%s|%d", player, market, games))
	// Map onto [-0.15, 0.15].
	return (float64(h%1000)/1000.0 - 0.5) * 0.3
}

func (p *HashStatsProvider) OpponentStrength(opponent string) float64 {
	h := fnv1a.HashString64(opponent)
	return float64(h%1000) / 1000.0
}
