package routes

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	controllers "github.com/alvsuut-buddy/Smart-Charity/controllers"
	metrics "github.com/alvsuut-buddy/Smart-Charity/metrics"
	middleware "github.com/alvsuut-buddy/Smart-Charity/middleware"
)

// Endpoints is what the 404 handler advertises.
var Endpoints = []string{
	"GET /health",
	"GET /metrics",
	"POST /api/donation",
	"GET /api/total",
	"GET /api/history",
	"GET /api/daily-stats",
	"GET /api/stats/:period",
	"GET /api/top-donations",
	"GET /api/lcd-message",
	"POST /api/lcd-message",
	"DELETE /api/reset-donations",
}

// NewRouter builds the engine with the standard middleware chain.
func NewRouter(app *controllers.App, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(app.Log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			app.Log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("unhandled error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}),
		cors.New(corsConfig(app.Cfg.CORSOrigins)),
	)
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	SetupRoutes(r, app, m)
	return r
}

func SetupRoutes(r *gin.Engine, app *controllers.App, m *metrics.Metrics) {
	r.GET("/health", controllers.Health(app))
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	{
		// ESP32 endpoint
		api.POST("/donation", controllers.CreateDonation(app))

		api.GET("/total", controllers.GetTotal(app))
		api.GET("/history", controllers.ListHistory(app))
		api.GET("/daily-stats", controllers.GetDailyStats(app))
		api.GET("/stats/:period", controllers.GetPeriodStats(app))
		api.GET("/top-donations", controllers.ListTopDonations(app))
		api.DELETE("/reset-donations", controllers.ResetDonations(app))

		api.GET("/lcd-message", controllers.GetDisplayMessage(app))
		api.POST("/lcd-message", controllers.UpdateDisplayMessage(app))
	}

	r.NoRoute(controllers.NotFound(Endpoints))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "If-None-Match"},
		ExposeHeaders: []string{"ETag", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
