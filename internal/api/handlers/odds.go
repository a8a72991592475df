package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// OddsHandler exposes format conversion, implied probability, and vig
// removal.
type OddsHandler struct{}

func NewOddsHandler() *OddsHandler {
	return &OddsHandler{}
}

type oddsInput struct {
	Format      string  `json:"format" binding:"required,oneof=american decimal fractional"`
	American    int     `json:"american,omitempty"`
	Decimal     float64 `json:"decimal,omitempty"`
	Numerator   int     `json:"numerator,omitempty"`
	Denominator int     `json:"denominator,omitempty"`
}

func (in oddsInput) toOdds() (odds.Odds, error) {
	switch odds.Format(in.Format) {
	case odds.FormatDecimal:
		return odds.Decimal(in.Decimal)
	case odds.FormatFractional:
		return odds.Fractional(in.Numerator, in.Denominator)
	default:
		return odds.American(in.American)
	}
}

// Convert returns every representation of a single odds value.
// GET /odds/convert?format=american&value=-110
func (h *OddsHandler) Convert(c *gin.Context) {
	format := c.DefaultQuery("format", "american")
	value := c.Query("value")
	if value == "" {
		utils.SendValidationError(c, "Missing odds value", "provide value query parameter")
		return
	}

	var (
		price odds.Odds
		err   error
	)
	switch odds.Format(format) {
	case odds.FormatAmerican:
		var american int
		american, err = strconv.Atoi(value)
		if err == nil {
			price, err = odds.American(american)
		}
	case odds.FormatDecimal:
		var decimal float64
		decimal, err = strconv.ParseFloat(value, 64)
		if err == nil {
			price, err = odds.Decimal(decimal)
		}
	default:
		utils.SendValidationError(c, "Unknown odds format", format)
		return
	}
	if err != nil {
		utils.SendValidationError(c, "Invalid odds value", err.Error())
		return
	}

	h.sendConversions(c, price)
}

func (h *OddsHandler) sendConversions(c *gin.Context, price odds.Odds) {
	decimal, err := odds.ToDecimal(price)
	if err != nil {
		utils.SendValidationError(c, "Invalid odds value", err.Error())
		return
	}
	american, err := odds.ToAmerican(price)
	if err != nil {
		utils.SendValidationError(c, "Invalid odds value", err.Error())
		return
	}
	numerator, denominator, err := odds.ToFractional(price)
	if err != nil {
		utils.SendValidationError(c, "Invalid odds value", err.Error())
		return
	}
	implied, err := odds.ImpliedProbability(price)
	if err != nil {
		utils.SendValidationError(c, "Invalid odds value", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"american":            american,
		"decimal":             decimal,
		"fractional":          fmt.Sprintf("%d/%d", numerator, denominator),
		"implied_probability": implied,
	})
}

// RemoveVig strips the bookmaker margin from a two-sided market.
// POST /odds/remove-vig
func (h *OddsHandler) RemoveVig(c *gin.Context) {
	var req struct {
		SideA oddsInput `json:"side_a" binding:"required"`
		SideB oddsInput `json:"side_b" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	sideA, err := req.SideA.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid side_a odds", err.Error())
		return
	}
	sideB, err := req.SideB.toOdds()
	if err != nil {
		utils.SendValidationError(c, "Invalid side_b odds", err.Error())
		return
	}

	fairA, fairB, err := odds.RemoveVig(sideA, sideB)
	if err != nil {
		utils.SendValidationError(c, "Cannot remove vig", err.Error())
		return
	}

	vig, err := odds.VigPercentage(sideA, sideB)
	if err != nil {
		utils.SendValidationError(c, "Cannot compute vig", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"fair_a":      fairA,
		"fair_b":      fairB,
		"vig_percent": vig,
	})
}
