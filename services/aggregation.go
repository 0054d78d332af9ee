package services

import (
	"context"
	"errors"
	"math"
	"time"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
	store "github.com/alvsuut-buddy/Smart-Charity/store"
	utils "github.com/alvsuut-buddy/Smart-Charity/utils"
)

// Paging and ranking limits expected by the dashboard.
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
	DefaultTopLimit     = 5
	MaxTopLimit         = 20
)

// ClampLimit applies the dashboard convention: 0 means "use def",
// negatives become 1, anything above ceiling becomes ceiling.
func ClampLimit(n, def, ceiling int) int {
	switch {
	case n == 0:
		return def
	case n < 1:
		return 1
	case n > ceiling:
		return ceiling
	}
	return n
}

// ClampPage turns anything below 1 into the first page.
func ClampPage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Aggregator answers read queries. Totals, daily and period figures come
// from the resettable ledger; history and rankings come from history, so
// a reset zeroes the former and leaves the latter intact.
type Aggregator struct {
	ledger  store.Ledger
	history store.History
	loc     *time.Location
}

// NewAggregator computes calendar boundaries in loc (nil means UTC).
func NewAggregator(ledger store.Ledger, history store.History, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{ledger: ledger, history: history, loc: loc}
}

func (a *Aggregator) Total(ctx context.Context) (models.TotalReport, error) {
	total, count, err := a.ledger.SumAndCount(ctx, store.Filter{})
	if err != nil {
		return models.TotalReport{}, err
	}
	return models.TotalReport{Total: total, Count: count}, nil
}

// DailyStats sums the ledger over the calendar day containing now.
func (a *Aggregator) DailyStats(ctx context.Context, now time.Time) (models.DailyStats, error) {
	w := utils.Today(now.In(a.loc))
	total, count, err := a.ledger.SumAndCount(ctx, store.Filter{From: w.Start, To: w.End})
	if err != nil {
		return models.DailyStats{}, err
	}
	return models.DailyStats{
		Date:  w.Start.Format("2006-01-02"),
		Total: total,
		Count: count,
	}, nil
}

// PeriodStats sums the ledger from the start of period up to now.
func (a *Aggregator) PeriodStats(ctx context.Context, period string, now time.Time) (models.PeriodStats, error) {
	p, err := utils.ParsePeriod(period)
	if err != nil {
		if errors.Is(err, utils.ErrUnknownPeriod) {
			return models.PeriodStats{}, invalidf("period %q is not valid, use week, month or year", period)
		}
		return models.PeriodStats{}, err
	}
	w, err := utils.PeriodWindow(p, now.In(a.loc))
	if err != nil {
		return models.PeriodStats{}, invalidf("%v", err)
	}

	st, err := a.ledger.SumCountAvg(ctx, store.Filter{From: w.Start, To: w.End, ToInclusive: w.EndInclusive})
	if err != nil {
		return models.PeriodStats{}, err
	}
	return models.PeriodStats{
		Period:     string(p),
		PeriodName: p.Label(),
		StartDate:  w.Start,
		EndDate:    w.End,
		Stats:      models.Stats{Total: st.Total, Count: st.Count, Average: st.Average},
	}, nil
}

// HistoryPage lists history newest first. page and limit are clamped,
// see ClampPage and ClampLimit.
func (a *Aggregator) HistoryPage(ctx context.Context, page, limit int) (models.HistoryPage, error) {
	limit = ClampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit)
	page = ClampPage(page)

	q := store.PageQuery{Sort: store.SortRecordedAtDesc, Limit: int64(limit)}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		// Offset not representable; the page is past any real end.
		q.Offset = -1
	} else {
		q.Offset = int64(page-1) * int64(limit)
	}
	rows, total, err := a.history.FindPage(ctx, q)
	if err != nil {
		return models.HistoryPage{}, err
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return models.HistoryPage{
		Rows: rows,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// TopDonations returns the largest individual donations ever received.
func (a *Aggregator) TopDonations(ctx context.Context, limit int) (models.TopDonations, error) {
	limit = ClampLimit(limit, DefaultTopLimit, MaxTopLimit)
	rows, err := a.history.FindTopN(ctx, store.SortAmountDesc, int64(limit))
	if err != nil {
		return models.TopDonations{}, err
	}
	return models.TopDonations{Rows: rows, Limit: limit}, nil
}

// ResetLedger empties the ledger. History is untouched.
func (a *Aggregator) ResetLedger(ctx context.Context) (models.ResetResult, error) {
	n, err := a.ledger.ClearAll(ctx)
	if err != nil {
		return models.ResetResult{}, err
	}
	return models.ResetResult{DeletedCount: n}, nil
}
