package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tzsmit/nova-titan-parlay/internal/models"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
	"github.com/tzsmit/nova-titan-parlay/pkg/utils"
)

// PlayerHandler serves the roster reference data prop quotes point at.
type PlayerHandler struct {
	db *database.DB
}

func NewPlayerHandler(db *database.DB) *PlayerHandler {
	return &PlayerHandler{db: db}
}

// ListPlayers returns active players, optionally filtered by sport and team.
// GET /players?sport=basketball_nba&team=LAL
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	query := h.db.Where("is_active = ?", true)
	if sport := c.Query("sport"); sport != "" {
		query = query.Where("sport = ?", sport)
	}
	if team := c.Query("team"); team != "" {
		query = query.Where("team = ?", team)
	}

	var players []models.Player
	if err := query.Order("name asc").Find(&players).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch players")
		return
	}

	utils.SendSuccess(c, players)
}

// GetPlayer returns one roster entry.
// GET /players/:id
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	var player models.Player
	if err := h.db.First(&player, id).Error; err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	utils.SendSuccess(c, player)
}
