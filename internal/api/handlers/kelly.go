package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tzsmit/nova-titan-parlay/internal/kelly"
	"github.com/tzsmit/nova-titan-parlay/pkg/config"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// KellyHandler exposes single-bet staking and parlay-level sizing.
type KellyHandler struct {
	config *config.Config
}

func NewKellyHandler(cfg *config.Config) *KellyHandler {
	return &KellyHandler{config: cfg}
}

// Stake sizes a single bet for a given risk tolerance.
// POST /kelly/stake
func (h *KellyHandler) Stake(c *gin.Context) {
	var req struct {
		TrueProbability float64   `json:"true_probability" binding:"required,gt=0,lt=1"`
		Odds            oddsInput `json:"odds" binding:"required"`
		Bankroll        float64   `json:"bankroll" binding:"required,gt=0"`
		RiskTolerance   string    `json:"risk_tolerance" binding:"omitempty,oneof=conservative moderate aggressive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	price, err := req.Odds.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid odds", err.Error())
		return
	}

	risk := kelly.RiskTolerance(req.RiskTolerance)
	if risk == "" {
		risk = kelly.RiskModerate
	}

	result, err := kelly.Stake(req.TrueProbability, price, req.Bankroll, risk, h.config.MaxBetPct)
	if err != nil {
		utils.SendValidationError(c, "Cannot size bet", err.Error())
		return
	}

	warnings, err := kelly.Validate(req.TrueProbability, price)
	if err != nil {
		utils.SendValidationError(c, "Cannot validate bet", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"stake":    result,
		"warnings": warnings,
	})
}

// Recommend sizes an entire parlay with correlation damping.
// POST /kelly/recommend
func (h *KellyHandler) Recommend(c *gin.Context) {
	var req struct {
		ParlayOdds          oddsInput `json:"parlay_odds" binding:"required"`
		TrueProbability     float64   `json:"true_probability" binding:"required,gt=0,lt=1"`
		Bankroll            float64   `json:"bankroll" binding:"required,gt=0"`
		ExpectedValue       float64   `json:"expected_value"`
		CorrelationWarnings int       `json:"correlation_warnings" binding:"min=0"`
		LegCount            int       `json:"leg_count" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	price, err := req.ParlayOdds.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid parlay odds", err.Error())
		return
	}

	params := kelly.SizingParams{
		BaseFraction: h.config.KellyFraction,
		MaxBetPct:    h.config.MaxBetPct,
		MinStake:     h.config.MinStake,
	}

	recommendation, err := kelly.RecommendBetSize(price, req.TrueProbability, req.Bankroll,
		req.ExpectedValue, req.CorrelationWarnings, req.LegCount, params)
	if err != nil {
		utils.SendValidationError(c, "Cannot size parlay", err.Error())
		return
	}

	utils.SendSuccess(c, recommendation)
}

// Diagnostics returns risk-of-ruin and expected log growth for a candidate
// bet.
// POST /kelly/diagnostics
func (h *KellyHandler) Diagnostics(c *gin.Context) {
	var req struct {
		TrueProbability float64   `json:"true_probability" binding:"required,gt=0,lt=1"`
		Odds            oddsInput `json:"odds" binding:"required"`
		Fraction        float64   `json:"fraction" binding:"required,gt=0,lt=1"`
		BankrollUnits   float64   `json:"bankroll_units" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	price, err := req.Odds.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid odds", err.Error())
		return
	}

	growth, err := kelly.ExpectedGrowth(req.TrueProbability, price, req.Fraction)
	if err != nil {
		utils.SendValidationError(c, "Cannot compute growth", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"risk_of_ruin":    kelly.RiskOfRuin(req.TrueProbability, req.BankrollUnits),
		"expected_growth": growth,
	})
}
