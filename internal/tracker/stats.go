package tracker

import (
	"fmt"
	"math"
	"sort"
)

// CategoryStats is a per-group performance breakdown.
type CategoryStats struct {
	Picks   int     `json:"picks"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Pushes  int     `json:"pushes"`
	WinRate float64 `json:"win_rate"` // percent over wins+losses
	Profit  float64 `json:"profit"`
}

// DailyPoint is one day of the performance time series.
type DailyPoint struct {
	Date             string  `json:"date"`
	Picks            int     `json:"picks"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinRate          float64 `json:"win_rate"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}

// CalibrationPoint compares predicted confidence to realized win rate for one
// confidence decile.
type CalibrationPoint struct {
	Bucket       string  `json:"bucket"` // e.g. "60-70%"
	PredictedPct float64 `json:"predicted_pct"`
	ActualPct    float64 `json:"actual_pct"`
	Picks        int     `json:"picks"`
}

// PerformanceStats is the full aggregate over the pick log.
type PerformanceStats struct {
	TotalPicks        int                      `json:"total_picks"`
	Wins              int                      `json:"wins"`
	Losses            int                      `json:"losses"`
	Pushes            int                      `json:"pushes"`
	Pending           int                      `json:"pending"`
	WinRate           float64                  `json:"win_rate"` // percent, pushes excluded
	TotalProfit       float64                  `json:"total_profit"`
	TotalStaked       float64                  `json:"total_staked"`
	ROI               string                   `json:"roi"`            // signed percent, e.g. "+4.2%"
	CurrentStreak     int                      `json:"current_streak"` // >0 wins, <0 losses
	LongestWinStreak  int                      `json:"longest_win_streak"`
	LongestLossStreak int                      `json:"longest_loss_streak"`
	ByCategory        map[string]CategoryStats `json:"by_category"`
	BySafetyBucket    map[string]CategoryStats `json:"by_safety_bucket"`
	Daily             []DailyPoint             `json:"daily"`
	Calibration       []CalibrationPoint       `json:"calibration"`
	CalibrationScore  float64                  `json:"calibration_score"` // max(0, 100 - MAE)
}

// GetPerformanceStats computes the aggregate over the whole log.
func (t *Tracker) GetPerformanceStats() *PerformanceStats {
	return computeStats(t.Picks())
}

func computeStats(picks []Pick) *PerformanceStats {
	stats := &PerformanceStats{
		TotalPicks:     len(picks),
		ROI:            "+0.0%",
		ByCategory:     make(map[string]CategoryStats),
		BySafetyBucket: make(map[string]CategoryStats),
	}

	// Streak and daily computations follow chronological order; the sort is
	// stable so same-day picks keep insertion order.
	ordered := make([]Pick, len(picks))
	copy(ordered, picks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	dailyByDate := make(map[string]*DailyPoint)
	var dates []string
	cumulativeProfit := 0.0

	for _, p := range ordered {
		switch p.Result {
		case ResultWin:
			stats.Wins++
		case ResultLoss:
			stats.Losses++
		case ResultPush:
			stats.Pushes++
		case ResultPending:
			stats.Pending++
		}
		if p.Result == ResultWin || p.Result == ResultLoss || p.Result == ResultPush {
			stats.TotalProfit += p.Profit
			stats.TotalStaked += p.Stake
		}

		addBreakdown(stats.ByCategory, p.PropType, p)
		addBreakdown(stats.BySafetyBucket, safetyBucket(p.SafetyScore), p)

		day, ok := dailyByDate[p.Date]
		if !ok {
			day = &DailyPoint{Date: p.Date}
			dailyByDate[p.Date] = day
			dates = append(dates, p.Date)
		}
		day.Picks++
		switch p.Result {
		case ResultWin:
			day.Wins++
		case ResultLoss:
			day.Losses++
		}
	}

	if settled := stats.Wins + stats.Losses; settled > 0 {
		stats.WinRate = float64(stats.Wins) / float64(settled) * 100.0
	}
	if stats.TotalStaked > 0 {
		stats.ROI = fmt.Sprintf("%+.1f%%", stats.TotalProfit/stats.TotalStaked*100.0)
	}

	stats.CurrentStreak, stats.LongestWinStreak, stats.LongestLossStreak = streaks(ordered)

	sort.Strings(dates)
	for _, date := range dates {
		day := dailyByDate[date]
		if settled := day.Wins + day.Losses; settled > 0 {
			day.WinRate = float64(day.Wins) / float64(settled) * 100.0
		}
		for _, p := range ordered {
			if p.Date == date && p.Result != ResultPending {
				cumulativeProfit += p.Profit
			}
		}
		day.CumulativeProfit = round2(cumulativeProfit)
		stats.Daily = append(stats.Daily, *day)
	}

	stats.Calibration, stats.CalibrationScore = calibration(ordered)

	finalizeBreakdowns(stats.ByCategory)
	finalizeBreakdowns(stats.BySafetyBucket)
	return stats
}

func addBreakdown(m map[string]CategoryStats, key string, p Pick) {
	if key == "" {
		key = "uncategorized"
	}
	entry := m[key]
	entry.Picks++
	switch p.Result {
	case ResultWin:
		entry.Wins++
		entry.Profit += p.Profit
	case ResultLoss:
		entry.Losses++
		entry.Profit += p.Profit
	case ResultPush:
		entry.Pushes++
	}
	m[key] = entry
}

func finalizeBreakdowns(m map[string]CategoryStats) {
	for key, entry := range m {
		if settled := entry.Wins + entry.Losses; settled > 0 {
			entry.WinRate = float64(entry.Wins) / float64(settled) * 100.0
		}
		entry.Profit = round2(entry.Profit)
		m[key] = entry
	}
}

func safetyBucket(score int) string {
	switch {
	case score >= 80:
		return "80+"
	case score >= 65:
		return "65-79"
	case score >= 50:
		return "50-64"
	default:
		return "<50"
	}
}

// streaks walks the settled picks in order. Pushes and pending picks are
// skipped entirely: they neither extend nor break a run.
func streaks(ordered []Pick) (current, longestWin, longestLoss int) {
	winRun, lossRun := 0, 0
	for _, p := range ordered {
		switch p.Result {
		case ResultWin:
			winRun++
			lossRun = 0
			if winRun > longestWin {
				longestWin = winRun
			}
			current = winRun
		case ResultLoss:
			lossRun++
			winRun = 0
			if lossRun > longestLoss {
				longestLoss = lossRun
			}
			current = -lossRun
		}
	}
	return current, longestWin, longestLoss
}

// calibration buckets settled picks by predicted-confidence decile and
// compares the average prediction to the realized win rate. The aggregate
// score is max(0, 100 - mean absolute error).
func calibration(ordered []Pick) ([]CalibrationPoint, float64) {
	type bucket struct {
		confidenceSum float64
		wins, losses  int
		picks         int
	}
	buckets := make([]bucket, 10)

	for _, p := range ordered {
		if p.Result != ResultWin && p.Result != ResultLoss {
			continue
		}
		idx := int(p.Confidence * 10)
		if idx > 9 {
			idx = 9
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].confidenceSum += p.Confidence
		buckets[idx].picks++
		if p.Result == ResultWin {
			buckets[idx].wins++
		} else {
			buckets[idx].losses++
		}
	}

	var points []CalibrationPoint
	totalErr := 0.0
	counted := 0
	for i, b := range buckets {
		if b.picks == 0 {
			continue
		}
		predicted := b.confidenceSum / float64(b.picks) * 100.0
		actual := float64(b.wins) / float64(b.wins+b.losses) * 100.0
		points = append(points, CalibrationPoint{
			Bucket:       fmt.Sprintf("%d-%d%%", i*10, (i+1)*10),
			PredictedPct: round2(predicted),
			ActualPct:    round2(actual),
			Picks:        b.picks,
		})
		totalErr += math.Abs(predicted - actual)
		counted++
	}

	if counted == 0 {
		return points, 0
	}
	score := 100.0 - totalErr/float64(counted)
	if score < 0 {
		score = 0
	}
	return points, round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
