package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
	utils "github.com/alvsuut-buddy/Smart-Charity/utils"
)

// Reports is the operation set consumed by the HTTP layer. It stamps
// "now" and adds the formatted strings the dashboard displays.
type Reports struct {
	ingest *Ingestor
	agg    *Aggregator
	now    Clock
	log    zerolog.Logger
}

func NewReports(ingest *Ingestor, agg *Aggregator, now Clock, log zerolog.Logger) *Reports {
	if now == nil {
		now = time.Now
	}
	return &Reports{ingest: ingest, agg: agg, now: now, log: log}
}

func (r *Reports) RecordDonation(ctx context.Context, amount int64, deviceID string) (models.Donation, error) {
	return r.ingest.Ingest(ctx, amount, deviceID)
}

func (r *Reports) Total(ctx context.Context) (models.TotalReport, error) {
	rep, err := r.agg.Total(ctx)
	if err != nil {
		return rep, err
	}
	rep.Formatted = models.Formatted{
		Total: utils.FormatRupiah(rep.Total),
		Count: utils.FormatCount(rep.Count, "donations"),
	}
	return rep, nil
}

func (r *Reports) History(ctx context.Context, page, limit int) (models.HistoryPage, error) {
	return r.agg.HistoryPage(ctx, page, limit)
}

func (r *Reports) Daily(ctx context.Context) (models.DailyStats, error) {
	rep, err := r.agg.DailyStats(ctx, r.now())
	if err != nil {
		return rep, err
	}
	rep.Formatted = models.Formatted{
		Total: utils.FormatRupiah(rep.Total),
		Count: utils.FormatCount(rep.Count, "donations today"),
	}
	return rep, nil
}

func (r *Reports) Period(ctx context.Context, period string) (models.PeriodStats, error) {
	rep, err := r.agg.PeriodStats(ctx, period, r.now())
	if err != nil {
		return rep, err
	}
	rep.StartDate = rep.StartDate.UTC()
	rep.EndDate = rep.EndDate.UTC()
	rep.Formatted = models.Formatted{
		Total:   utils.FormatRupiah(rep.Stats.Total),
		Count:   utils.FormatCount(rep.Stats.Count, "donations"),
		Average: utils.FormatRupiah(rep.Stats.Average) + " per donation",
	}
	return rep, nil
}

func (r *Reports) Top(ctx context.Context, limit int) (models.TopDonations, error) {
	return r.agg.TopDonations(ctx, limit)
}

func (r *Reports) Reset(ctx context.Context) (models.ResetResult, error) {
	res, err := r.agg.ResetLedger(ctx)
	if err != nil {
		return res, err
	}
	r.log.Info().Int64("deleted", res.DeletedCount).Msg("ledger reset")
	return res, nil
}
