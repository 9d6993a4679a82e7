package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/spinwin/giveaway-backend/internal/config"
	"github.com/spinwin/giveaway-backend/internal/handlers"
	"github.com/spinwin/giveaway-backend/internal/middleware"
)

// HandlerDependencies holds the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ParticipantHandler *handlers.ParticipantHandler
	DrawHandler        *handlers.DrawHandler
	SettingsHandler    *handlers.SettingsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	// Create router
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Self-service registration
		public.POST("/participants/register", deps.ParticipantHandler.Register)
		public.GET("/participants/:id/win-chance", deps.ParticipantHandler.GetWinChance)

		// Countdown and public draw history
		public.GET("/draws/current", deps.DrawHandler.GetCurrent)
		public.GET("/draws/results", deps.DrawHandler.GetResults)
		public.GET("/draws/results/verify", deps.DrawHandler.VerifyLatest)

		// Prize display
		public.GET("/settings", deps.SettingsHandler.GetSettings)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Participant management routes
		participants := protected.Group("/participants")
		{
			participants.GET("", deps.ParticipantHandler.GetParticipants)
			participants.GET("/snapshot", deps.ParticipantHandler.GetSnapshot)
			participants.GET("/:id", deps.ParticipantHandler.GetParticipantByID)
			participants.GET("/:id/history", deps.ParticipantHandler.GetHistory)
			participants.POST("/:id/adjust", deps.ParticipantHandler.AdjustSlots)
			participants.PUT("/:id/slots", deps.ParticipantHandler.SetSlots)
			participants.DELETE("/:id", deps.ParticipantHandler.DeleteParticipant)
			participants.POST("/bulk-adjust", deps.ParticipantHandler.BulkAdjust)
		}

		// Purchase ingestion
		protected.POST("/purchases", deps.ParticipantHandler.RecordPurchase)

		// Draw control routes
		draws := protected.Group("/draws")
		{
			draws.POST("/force", deps.DrawHandler.ForceDraw)
			draws.POST("/reset", deps.DrawHandler.ResetDraw)
		}

		// Dashboard routes
		protected.GET("/stats", deps.ParticipantHandler.GetStats)
		protected.GET("/activity", deps.ParticipantHandler.GetActivity)
		protected.PUT("/settings", deps.SettingsHandler.UpdateSettings)
	}

	return router
}
