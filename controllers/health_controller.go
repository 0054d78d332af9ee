package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/alvsuut-buddy/Smart-Charity/config"
)

// Health reports process and storage state. It never writes anything.
func Health(app *App) gin.HandlerFunc {
	dbType := "MongoDB"
	if app.Cfg.StoreBackend == config.BackendMemory {
		dbType = "memory"
	}
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"app":       app.Cfg.AppName,
			"timestamp": time.Now().UTC(),
			"database": gin.H{
				"status": app.Health.Status(ctx),
				"type":   dbType,
			},
			"server": gin.H{
				"port":        app.Cfg.Port,
				"environment": app.Cfg.AppEnv,
			},
		})
	}
}

// NotFound lists the routes a lost client can use.
func NotFound(endpoints []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":            false,
			"message":            "endpoint " + c.Request.Method + " " + c.Request.URL.Path + " not found",
			"availableEndpoints": endpoints,
		})
	}
}
