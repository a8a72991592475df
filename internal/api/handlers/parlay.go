package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
	"github.com/tzsmit/nova-titan-parlay/internal/services"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// ParlayHandler exposes leg shopping, live recalculation, edge detection,
// line-movement tracking, and same-game-parlay validation.
type ParlayHandler struct {
	engine *parlay.Engine
	quotes *services.QuoteService
	alerts *services.AlertService
}

func NewParlayHandler(engine *parlay.Engine, quotes *services.QuoteService, alerts *services.AlertService) *ParlayHandler {
	return &ParlayHandler{
		engine: engine,
		quotes: quotes,
		alerts: alerts,
	}
}

// marketsFor resolves the quotes to shop against: the caller may inline them,
// otherwise they come from the quote cache for the legs' events.
func (h *ParlayHandler) marketsFor(c *gin.Context, sport string, legs []parlay.Leg, inline []parlay.MarketQuote) []parlay.MarketQuote {
	if len(inline) > 0 {
		return inline
	}
	if h.quotes == nil || sport == "" {
		return nil
	}

	seen := make(map[string]bool, len(legs))
	eventIDs := make([]string, 0, len(legs))
	for _, leg := range legs {
		if !seen[leg.EventID] {
			seen[leg.EventID] = true
			eventIDs = append(eventIDs, leg.EventID)
		}
	}

	return h.quotes.QuotesForEvents(c.Request.Context(), sport, eventIDs)
}

// Optimize shops every leg across books and reprices the parlay.
// POST /parlays/optimize
func (h *ParlayHandler) Optimize(c *gin.Context) {
	var req struct {
		Sport   string               `json:"sport"`
		Legs    []parlay.Leg         `json:"legs" binding:"required,min=1"`
		Markets []parlay.MarketQuote `json:"markets"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	markets := h.marketsFor(c, req.Sport, req.Legs, req.Markets)

	result, err := h.engine.OptimizeParlay(req.Legs, markets)
	if err != nil {
		utils.SendValidationError(c, "Cannot optimize parlay", err.Error())
		return
	}

	utils.SendSuccess(c, result)
}

// Recalculate reprices a held parlay against its current leg odds.
// POST /parlays/recalculate
func (h *ParlayHandler) Recalculate(c *gin.Context) {
	var req struct {
		Original []parlay.Leg `json:"original" binding:"required,min=1"`
		Current  []parlay.Leg `json:"current" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.engine.LiveRecalculation(req.Original, req.Current)
	if err != nil {
		utils.SendValidationError(c, "Cannot recalculate parlay", err.Error())
		return
	}

	utils.SendSuccess(c, result)
}

// Edges compares each leg's held price against the cross-book average and
// optionally texts the bettor about every leg that clears the edge threshold.
// POST /parlays/edges
func (h *ParlayHandler) Edges(c *gin.Context) {
	var req struct {
		Sport       string               `json:"sport"`
		Legs        []parlay.Leg         `json:"legs" binding:"required,min=1"`
		Markets     []parlay.MarketQuote `json:"markets"`
		AlertsPhone string               `json:"alerts_phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	markets := h.marketsFor(c, req.Sport, req.Legs, req.Markets)

	edges, err := h.engine.DetectEdgePerLeg(req.Legs, markets)
	if err != nil {
		utils.SendValidationError(c, "Cannot detect edges", err.Error())
		return
	}

	if req.AlertsPhone != "" && h.alerts != nil {
		for _, edge := range edges {
			if !edge.HasEdge {
				continue
			}
			if err := h.alerts.SendEdgeAlert(req.AlertsPhone, edge); err != nil {
				logrus.Warnf("Edge alert failed for %s: %v", edge.LegID, err)
			}
		}
	}

	utils.SendSuccess(c, edges)
}

// Events lists a sport's upcoming events from the quote cache, fetching from
// the provider on a miss.
// GET /events?sport=basketball_nba
func (h *ParlayHandler) Events(c *gin.Context) {
	sport := c.Query("sport")
	if sport == "" {
		utils.SendValidationError(c, "Invalid request", "sport query parameter is required")
		return
	}
	if h.quotes == nil {
		utils.SendError(c, http.StatusServiceUnavailable,
			utils.NewAppError(utils.ErrCodeOddsProvider, "Quote service unavailable"))
		return
	}

	events, err := h.quotes.EventsForSport(c.Request.Context(), sport)
	if err != nil {
		utils.SendError(c, http.StatusServiceUnavailable,
			utils.NewAppError(utils.ErrCodeOddsProvider, "Failed to load events", err.Error()))
		return
	}

	utils.SendSuccess(c, events)
}

// ValidateSGP checks same-game-parlay legality rules.
// POST /parlays/validate-sgp
func (h *ParlayHandler) ValidateSGP(c *gin.Context) {
	var req struct {
		Legs []parlay.Leg `json:"legs" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	utils.SendSuccess(c, h.engine.ValidateSGP(req.Legs))
}

// TrackMovement records one odds observation for a leg and optionally texts
// the bettor when the move is significant.
// POST /parlays/movements
func (h *ParlayHandler) TrackMovement(c *gin.Context) {
	var req struct {
		LegID       string    `json:"leg_id" binding:"required"`
		Previous    oddsInput `json:"previous" binding:"required"`
		Current     oddsInput `json:"current" binding:"required"`
		AlertsPhone string    `json:"alerts_phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	previous, err := req.Previous.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid previous odds", err.Error())
		return
	}
	current, err := req.Current.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid current odds", err.Error())
		return
	}

	movement, err := h.engine.TrackLineMovement(req.LegID, previous, current)
	if err != nil {
		utils.SendValidationError(c, "Cannot track movement", err.Error())
		return
	}

	if h.quotes != nil {
		if err := h.quotes.RecordMovement(c.Request.Context(), *movement); err != nil {
			logrus.Warnf("Failed to persist movement for %s: %v", req.LegID, err)
		}
	}

	significant := movement.ChangePercent > h.engine.Thresholds().SignificantMovementPct ||
		-movement.ChangePercent > h.engine.Thresholds().SignificantMovementPct
	if significant && req.AlertsPhone != "" && h.alerts != nil {
		if err := h.alerts.SendMovementAlert(req.AlertsPhone, *movement); err != nil {
			logrus.Warnf("Movement alert failed for %s: %v", req.LegID, err)
		}
	}

	utils.SendSuccess(c, movement)
}

// MovementHistory returns a leg's retained movement observations, newest
// first.
// GET /parlays/movements/:legId
func (h *ParlayHandler) MovementHistory(c *gin.Context) {
	legID := c.Param("legId")

	history, err := h.quotes.MovementHistory(c.Request.Context(), legID)
	if err != nil {
		utils.SendInternalError(c, "Failed to load movement history")
		return
	}

	utils.SendSuccess(c, history)
}
