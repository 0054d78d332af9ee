package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/alvsuut-buddy/Smart-Charity/services"
)

func GetDisplayMessage(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": app.Display.Get(),
			"info":    fmt.Sprintf("at most %d characters per line on the 16x2 LCD", services.MaxDisplayLine),
		})
	}
}

func UpdateDisplayMessage(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Missing lines clear the row; an empty body clears both.
		var input struct {
			Line1 string `json:"line1"`
			Line2 string `json:"line2"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "invalid message format, line1 and line2 must be strings",
			})
			return
		}

		msg := app.Display.Set(input.Line1, input.Line2)
		app.Log.Info().Str("line1", msg.Line1).Str("line2", msg.Line2).Msg("lcd message updated")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "lcd message updated",
			"data":    msg,
		})
	}
}
