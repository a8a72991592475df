// Package tracker keeps an append-only log of settled prop picks and computes
// performance statistics over it: win rate, ROI, streaks, category and
// safety-bucket breakdowns, and confidence calibration.
//
// The log itself is the only mutable state in the wagering core. Writes are
// mutex-guarded, but concurrent UpdatePickResult calls on the same pick id
// are last-writer-wins: the later call overwrites the earlier result. Hosts
// that need stronger guarantees must serialize updates per pick id.
package tracker

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
)

// Direction is the side of the line a pick takes.
type Direction string

const (
	PickHigher Direction = "HIGHER"
	PickLower  Direction = "LOWER"
)

// Result is a pick's settlement state.
type Result string

const (
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
	ResultPush    Result = "PUSH"
	ResultPending Result = "PENDING"
)

// Pick is one tracked prop pick. Picks are created PENDING and transition to
// a terminal result when the actual value is reported; they are never deleted
// individually.
type Pick struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // ISO date (2006-01-02)
	Player      string    `json:"player"`
	PropType    string    `json:"prop_type"`
	Line        float64   `json:"line"`
	Direction   Direction `json:"direction"`
	ActualValue *float64  `json:"actual_value,omitempty"`
	Result      Result    `json:"result"`
	Confidence  float64   `json:"confidence"` // predicted win probability [0,1]
	SafetyScore int       `json:"safety_score"`
	Odds        odds.Odds `json:"odds"`
	Stake       float64   `json:"stake"`
	Profit      float64   `json:"profit"`
}

// Tracker is the in-memory pick log.
type Tracker struct {
	mu    sync.RWMutex
	picks []Pick
	index map[string]int // pick id -> position in picks
}

func New() *Tracker {
	return &Tracker{index: make(map[string]int)}
}

// AddPick appends a new PENDING pick. A missing id is assigned a UUID;
// duplicate ids are rejected.
func (t *Tracker) AddPick(p Pick) (Pick, error) {
	if p.Date == "" {
		return Pick{}, fmt.Errorf("pick date is required")
	}
	if p.Direction != PickHigher && p.Direction != PickLower {
		return Pick{}, fmt.Errorf("pick direction must be HIGHER or LOWER, got %q", p.Direction)
	}
	if _, err := odds.ToDecimal(p.Odds); err != nil {
		return Pick{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Result = ResultPending
	p.ActualValue = nil
	p.Profit = 0

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.index[p.ID]; exists {
		return Pick{}, fmt.Errorf("pick %s already exists", p.ID)
	}
	t.index[p.ID] = len(t.picks)
	t.picks = append(t.picks, p)
	return p, nil
}

// UpdatePickResult settles a pick against the actual stat value. It is the
// only mutation path; calling it again for the same pick overwrites the
// previous settlement (last writer wins).
func (t *Tracker) UpdatePickResult(id string, actualValue float64) (Pick, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.index[id]
	if !ok {
		return Pick{}, fmt.Errorf("pick %s not found", id)
	}

	p := t.picks[pos]
	p.ActualValue = &actualValue
	p.Result = settle(p.Direction, p.Line, actualValue)

	switch p.Result {
	case ResultWin:
		profit, err := odds.CalculateProfit(p.Stake, p.Odds)
		if err != nil {
			return Pick{}, err
		}
		p.Profit = profit
	case ResultLoss:
		p.Profit = -p.Stake
	case ResultPush:
		p.Profit = 0
	}

	t.picks[pos] = p
	return p, nil
}

// Picks returns a snapshot copy of the log.
func (t *Tracker) Picks() []Pick {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Pick, len(t.picks))
	copy(out, t.picks)
	return out
}

// ClearHistory wipes the whole log. Individual picks cannot be removed.
func (t *Tracker) ClearHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.picks = nil
	t.index = make(map[string]int)
}

// settle resolves a pick: landing exactly on the line is always a push.
func settle(direction Direction, line, actual float64) Result {
	if actual == line {
		return ResultPush
	}
	higherWon := actual > line
	if direction == PickHigher {
		if higherWon {
			return ResultWin
		}
		return ResultLoss
	}
	if higherWon {
		return ResultLoss
	}
	return ResultWin
}
