package tracker

import (
	"fmt"
	"time"
)

// BacktestResult summarizes real historical performance over a trailing
// window. When the window contains no picks the result is zeroed and labeled
// "No data"; fabricating a synthetic sample is never acceptable.
type BacktestResult struct {
	WindowDays    int               `json:"window_days"`
	TotalPicks    int               `json:"total_picks"`
	Wins          int               `json:"wins"`
	Losses        int               `json:"losses"`
	Pushes        int               `json:"pushes"`
	WinRate       float64           `json:"win_rate"`
	TotalProfit   float64           `json:"total_profit"`
	ROI           string            `json:"roi"`
	BestCategory  string            `json:"best_category"`
	WorstCategory string            `json:"worst_category"`
	Stats         *PerformanceStats `json:"stats,omitempty"`
	Note          string            `json:"note,omitempty"`
}

// Backtest filters the log to the trailing window and aggregates it.
func (t *Tracker) Backtest(days int) (*BacktestResult, error) {
	if days <= 0 {
		return nil, fmt.Errorf("backtest window must be positive, got %d days", days)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	var window []Pick
	for _, p := range t.Picks() {
		if p.Date >= cutoff {
			window = append(window, p)
		}
	}

	result := &BacktestResult{
		WindowDays:    days,
		ROI:           "+0.0%",
		BestCategory:  "No data",
		WorstCategory: "No data",
	}

	if len(window) == 0 {
		result.Note = fmt.Sprintf("No historical picks in the last %d days", days)
		return result, nil
	}

	stats := computeStats(window)
	result.TotalPicks = stats.TotalPicks
	result.Wins = stats.Wins
	result.Losses = stats.Losses
	result.Pushes = stats.Pushes
	result.WinRate = stats.WinRate
	result.TotalProfit = round2(stats.TotalProfit)
	result.ROI = stats.ROI
	result.Stats = stats

	result.BestCategory, result.WorstCategory = extremeCategories(stats.ByCategory)
	return result, nil
}

// extremeCategories finds the best and worst prop categories by win rate over
// settled picks. Map iteration order is not stable, so ties are broken by
// name to keep the output deterministic.
func extremeCategories(byCategory map[string]CategoryStats) (best, worst string) {
	best, worst = "No data", "No data"
	bestRate, worstRate := -1.0, 101.0

	for name, entry := range byCategory {
		if entry.Wins+entry.Losses == 0 {
			continue
		}
		if entry.WinRate > bestRate || (entry.WinRate == bestRate && name < best) {
			best, bestRate = name, entry.WinRate
		}
		if entry.WinRate < worstRate || (entry.WinRate == worstRate && name < worst) {
			worst, worstRate = name, entry.WinRate
		}
	}
	return best, worst
}
