package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/alvsuut-buddy/Smart-Charity/services"
	utils "github.com/alvsuut-buddy/Smart-Charity/utils"
)

// ---------------- INGEST ----------------
func CreateDonation(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Bind body; older firmware sends "nominal" ---
		var input struct {
			Amount   json.RawMessage `json:"amount"`
			Nominal  json.RawMessage `json:"nominal"`
			DeviceID string          `json:"deviceId"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid JSON body"})
			return
		}
		raw := input.Amount
		if len(raw) == 0 {
			raw = input.Nominal
		}

		amount, err := services.ParseAmount(raw)
		if err != nil {
			app.fail(c, err, "invalid donation")
			return
		}

		ctx, cancel := app.requestContext(c)
		defer cancel()

		donation, err := app.Reports.RecordDonation(ctx, amount, input.DeviceID)
		if err != nil {
			app.fail(c, err, "could not save donation")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "donation saved",
			"data": gin.H{
				"id":         donation.ID.Hex(),
				"amount":     donation.Amount,
				"deviceId":   donation.DeviceID,
				"recordedAt": donation.RecordedAt,
			},
		})
	}
}

// ---------------- TOTAL ----------------
func GetTotal(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		rep, err := app.Reports.Total(ctx)
		if err != nil {
			app.fail(c, err, "could not load total")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"total":     rep.Total,
			"count":     rep.Count,
			"formatted": rep.Formatted,
		})
	}
}

// ---------------- HISTORY ----------------
func ListHistory(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		page, err := app.Reports.History(ctx, queryInt(c, "page"), queryInt(c, "limit"))
		if err != nil {
			app.fail(c, err, "could not load history")
			return
		}

		// --- ETag from the newest row on the page plus paging ---
		if len(page.Rows) > 0 {
			latest := page.Rows[0]
			p := page.Pagination
			etag := utils.GenerateETag(latest.ID, latest.RecordedAt, p.Page, p.Limit, p.Total)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
			c.Header("ETag", etag)
			c.Header("Last-Modified", latest.RecordedAt.UTC().Format(http.TimeFormat))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       page.Rows,
			"pagination": page.Pagination,
		})
	}
}

// ---------------- DAILY ----------------
func GetDailyStats(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		rep, err := app.Reports.Daily(ctx)
		if err != nil {
			app.fail(c, err, "could not load daily statistics")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"date":       rep.Date,
			"totalToday": rep.Total,
			"countToday": rep.Count,
			"formatted":  rep.Formatted,
		})
	}
}

// ---------------- PERIOD ----------------
func GetPeriodStats(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		rep, err := app.Reports.Period(ctx, c.Param("period"))
		if err != nil {
			app.fail(c, err, "could not load period statistics")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"period":     rep.Period,
			"periodName": rep.PeriodName,
			"startDate":  rep.StartDate,
			"endDate":    rep.EndDate,
			"stats":      rep.Stats,
			"formatted":  rep.Formatted,
		})
	}
}

// ---------------- TOP ----------------
func ListTopDonations(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		top, err := app.Reports.Top(ctx, queryInt(c, "limit"))
		if err != nil {
			app.fail(c, err, "could not load top donations")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    top.Rows,
			"message": fmt.Sprintf("%d largest donations", top.Limit),
		})
	}
}

// ---------------- RESET ----------------
func ResetDonations(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := app.requestContext(c)
		defer cancel()

		res, err := app.Reports.Reset(ctx)
		if err != nil {
			app.fail(c, err, "could not reset donations")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "all donations were reset",
			"deletedCount": res.DeletedCount,
			"note":         "donation history is kept",
		})
	}
}
