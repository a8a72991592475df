package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
	"github.com/tzsmit/nova-titan-parlay/internal/services"
	"github.com/tzsmit/nova-titan-parlay/internal/tracker"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// TrackerHandler exposes the pick log, performance statistics, and the
// backtester. The in-memory tracker is authoritative; the store mirrors it to
// the database.
type TrackerHandler struct {
	tracker *tracker.Tracker
	store   *services.PickStore
}

func NewTrackerHandler(t *tracker.Tracker, store *services.PickStore) *TrackerHandler {
	return &TrackerHandler{
		tracker: t,
		store:   store,
	}
}

// CreatePick records a new pending pick.
// POST /picks
func (h *TrackerHandler) CreatePick(c *gin.Context) {
	var req struct {
		Player      string  `json:"player" binding:"required"`
		PropType    string  `json:"prop_type" binding:"required"`
		Line        float64 `json:"line" binding:"required,gt=0"`
		Direction   string  `json:"direction" binding:"required,oneof=HIGHER LOWER"`
		Odds        int     `json:"odds" binding:"required"`
		Stake       float64 `json:"stake" binding:"min=0"`
		Confidence  float64 `json:"confidence" binding:"min=0,max=1"`
		SafetyScore int     `json:"safety_score" binding:"min=0,max=100"`
		GameDate    string  `json:"game_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	price, err := odds.American(req.Odds)
	if err != nil {
		utils.SendValidationError(c, "Invalid odds", err.Error())
		return
	}

	pick, err := h.tracker.AddPick(tracker.Pick{
		Date:        req.GameDate,
		Player:      req.Player,
		PropType:    req.PropType,
		Line:        req.Line,
		Direction:   tracker.Direction(req.Direction),
		Confidence:  req.Confidence,
		SafetyScore: req.SafetyScore,
		Odds:        price,
		Stake:       req.Stake,
	})
	if err != nil {
		utils.SendValidationError(c, "Cannot add pick", err.Error())
		return
	}

	h.persist(pick)
	utils.SendSuccess(c, pick)
}

// UpdateResult settles a pick against the actual stat value.
// PUT /picks/:id/result
func (h *TrackerHandler) UpdateResult(c *gin.Context) {
	var req struct {
		ActualValue *float64 `json:"actual_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	pick, err := h.tracker.UpdatePickResult(c.Param("id"), *req.ActualValue)
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}

	h.persist(pick)
	utils.SendSuccess(c, pick)
}

// ListPicks returns every tracked pick.
// GET /picks
func (h *TrackerHandler) ListPicks(c *gin.Context) {
	utils.SendSuccess(c, h.tracker.Picks())
}

// Performance returns the full statistics snapshot.
// GET /performance
func (h *TrackerHandler) Performance(c *gin.Context) {
	utils.SendSuccess(c, h.tracker.GetPerformanceStats())
}

// Backtest replays the settled pick history over a trailing window.
// GET /backtest?days=30
func (h *TrackerHandler) Backtest(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		utils.SendValidationError(c, "Invalid days parameter", err.Error())
		return
	}

	result, err := h.tracker.Backtest(days)
	if err != nil {
		utils.SendValidationError(c, "Cannot run backtest", err.Error())
		return
	}

	utils.SendSuccess(c, result)
}

// ClearHistory wipes the pick log and its persisted copy.
// DELETE /picks
func (h *TrackerHandler) ClearHistory(c *gin.Context) {
	h.tracker.ClearHistory()

	if h.store != nil {
		if err := h.store.DeleteAll(); err != nil {
			logrus.Errorf("Failed to clear persisted picks: %v", err)
			utils.SendInternalError(c, "History cleared in memory but persistence failed")
			return
		}
	}

	utils.SendSuccess(c, gin.H{"cleared": true})
}

func (h *TrackerHandler) persist(pick tracker.Pick) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(pick); err != nil {
		logrus.Errorf("Failed to persist pick %s: %v", pick.ID, err)
	}
}
