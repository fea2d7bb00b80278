package routes

import (
	"time"

	"gigmatch/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPresenceRoutes registers heartbeat and presence endpoints.
func RegisterPresenceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/presence")
	{
		api.POST("/heartbeat", hb.PresenceHandler.HeartbeatHandler)
		api.GET("/online", hb.PresenceHandler.GetOnlineHandler)
		api.GET("/:musicianId", hb.PresenceHandler.GetStatusHandler)
		api.PATCH("/:musicianId", hb.PresenceHandler.UpdateStatusHandler)
	}
}

// RegisterAvailabilityRoutes registers conflict detection endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.POST("/conflicts", hb.AvailabilityHandler.CheckConflictsHandler)
		api.POST("/batch", hb.AvailabilityHandler.BatchAvailabilityHandler)
		api.GET("/:musicianId/daily", hb.AvailabilityHandler.DailyAvailabilityHandler)
	}
}

// RegisterRateRoutes registers pricing endpoints.
func RegisterRateRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rates")
	{
		api.POST("/quote", hb.RateHandler.QuoteHandler)
	}
}

// RegisterMatchingRoutes registers search and single-musician availability endpoints.
func RegisterMatchingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/matching")
	{
		api.POST("/search", hb.MatchingHandler.SearchHandler)
		api.POST("/availability", hb.MatchingHandler.CheckAvailabilityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPresenceRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterRateRoutes(r, hb)
	RegisterMatchingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
