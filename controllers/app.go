package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "github.com/alvsuut-buddy/Smart-Charity/config"
	middleware "github.com/alvsuut-buddy/Smart-Charity/middleware"
	services "github.com/alvsuut-buddy/Smart-Charity/services"
	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

// App bundles what the handlers need.
type App struct {
	Cfg     *config.Config
	Reports *services.Reports
	Display *services.DisplayBoard
	Health  store.Health
	Log     zerolog.Logger
}

// requestContext bounds store calls made on behalf of one request.
func (a *App) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), a.Cfg.RequestTimeout)
}

// fail maps service errors to responses. Invalid input is the caller's
// problem and is echoed back; anything else becomes a generic 500 whose
// detail is only shown in development.
func (a *App) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, services.ErrInvalidInput) {
		a.Log.Debug().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("rejected request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	_ = c.Error(err)
	ev := a.Log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c))
	if services.IsStorageError(err) {
		ev = ev.Bool("storage", true)
	}
	ev.Msg(msg)

	body := gin.H{"success": false, "message": msg}
	if a.Cfg.IsDevelopment() {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// queryInt returns 0 for missing or malformed values; the services treat
// 0 as "use the default".
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
