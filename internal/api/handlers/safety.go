package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tzsmit/nova-titan-parlay/internal/safety"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// SafetyHandler exposes prop safety scoring.
type SafetyHandler struct {
	scorer *safety.Scorer
}

func NewSafetyHandler(scorer *safety.Scorer) *SafetyHandler {
	return &SafetyHandler{scorer: scorer}
}

type propRequest struct {
	Player   string    `json:"player" binding:"required"`
	PropType string    `json:"prop_type" binding:"required"`
	Line     float64   `json:"line" binding:"required,gt=0"`
	Odds     oddsInput `json:"odds" binding:"required"`
	Opponent string    `json:"opponent" binding:"required"`
}

func (r propRequest) toProp() (safety.Prop, error) {
	price, err := r.Odds.toOdds()
	if err != nil {
		return safety.Prop{}, err
	}
	return safety.Prop{
		Player:   r.Player,
		PropType: safety.PropType(r.PropType),
		Line:     r.Line,
		Odds:     price,
		Opponent: r.Opponent,
	}, nil
}

// Score analyzes a single prop.
// POST /props/score
func (h *SafetyHandler) Score(c *gin.Context) {
	var req propRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	prop, err := req.toProp()
	if err != nil {
		utils.SendValidationError(c, "Invalid prop", err.Error())
		return
	}

	analysis, err := h.scorer.Analyze(prop)
	if err != nil {
		utils.SendValidationError(c, "Cannot analyze prop", err.Error())
		return
	}

	utils.SendSuccess(c, analysis)
}

// ScoreBatch analyzes several props in one call, keeping request order.
// POST /props/score/batch
func (h *SafetyHandler) ScoreBatch(c *gin.Context) {
	var req struct {
		Props []propRequest `json:"props" binding:"required,min=1,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	type scoredProp struct {
		Player   string           `json:"player"`
		Analysis *safety.Analysis `json:"analysis,omitempty"`
		Error    string           `json:"error,omitempty"`
	}

	results := make([]scoredProp, 0, len(req.Props))
	for _, pr := range req.Props {
		entry := scoredProp{Player: pr.Player}

		prop, err := pr.toProp()
		if err == nil {
			entry.Analysis, err = h.scorer.Analyze(prop)
		}
		if err != nil {
			entry.Error = err.Error()
		}

		results = append(results, entry)
	}

	utils.SendSuccess(c, results)
}
