package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tzsmit/nova-titan-parlay/internal/api/handlers"
	"github.com/tzsmit/nova-titan-parlay/internal/api/middleware"
	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
	"github.com/tzsmit/nova-titan-parlay/internal/safety"
	"github.com/tzsmit/nova-titan-parlay/internal/services"
	"github.com/tzsmit/nova-titan-parlay/internal/tracker"
	"github.com/tzsmit/nova-titan-parlay/pkg/config"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
)

// Deps carries the shared collaborators the route handlers need.
type Deps struct {
	DB      *database.DB
	Config  *config.Config
	Engine  *parlay.Engine
	Scorer  *safety.Scorer
	Tracker *tracker.Tracker
	Quotes  *services.QuoteService
	Alerts  *services.AlertService
	Picks   *services.PickStore
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	oddsHandler := handlers.NewOddsHandler()
	kellyHandler := handlers.NewKellyHandler(deps.Config)
	safetyHandler := handlers.NewSafetyHandler(deps.Scorer)
	parlayHandler := handlers.NewParlayHandler(deps.Engine, deps.Quotes, deps.Alerts)
	trackerHandler := handlers.NewTrackerHandler(deps.Tracker, deps.Picks)
	playerHandler := handlers.NewPlayerHandler(deps.DB)

	// Reads are public; a token, when supplied, still attaches the caller's
	// identity. Only pick mutations require one.
	group.Use(middleware.OptionalAuth(deps.Config.JWTSecret))

	// Odds math
	group.GET("/odds/convert", oddsHandler.Convert)
	group.POST("/odds/remove-vig", oddsHandler.RemoveVig)

	// Bet sizing
	group.POST("/kelly/stake", kellyHandler.Stake)
	group.POST("/kelly/recommend", kellyHandler.Recommend)
	group.POST("/kelly/diagnostics", kellyHandler.Diagnostics)

	// Prop safety scoring
	group.POST("/props/score", safetyHandler.Score)
	group.POST("/props/score/batch", safetyHandler.ScoreBatch)

	// Parlay optimization
	group.POST("/parlays/optimize", parlayHandler.Optimize)
	group.POST("/parlays/recalculate", parlayHandler.Recalculate)
	group.POST("/parlays/edges", parlayHandler.Edges)
	group.POST("/parlays/validate-sgp", parlayHandler.ValidateSGP)
	group.POST("/parlays/movements", parlayHandler.TrackMovement)
	group.GET("/parlays/movements/:legId", parlayHandler.MovementHistory)

	// Event schedule from the quote cache
	group.GET("/events", parlayHandler.Events)

	// Roster reference data
	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/players/:id", playerHandler.GetPlayer)

	// Pick tracking: reads are public, mutations require auth
	group.GET("/picks", trackerHandler.ListPicks)
	group.GET("/performance", trackerHandler.Performance)
	group.GET("/backtest", trackerHandler.Backtest)

	auth := group.Group("")
	auth.Use(middleware.AuthRequired(deps.Config.JWTSecret))
	{
		auth.POST("/picks", trackerHandler.CreatePick)
		auth.PUT("/picks/:id/result", trackerHandler.UpdateResult)
		auth.DELETE("/picks", trackerHandler.ClearHistory)
	}
}
