// Package store persists donation records in two independent collections:
// the resettable ledger and the append-only history.
package store

import (
	"context"
	"fmt"
	"math"
	"time"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
)

const (
	LedgerCollection  = "donations"
	HistoryCollection = "histories"
)

// SortKey orders FindPage and FindTopN results. Ties are broken by
// insertion order.
type SortKey int

const (
	SortRecordedAtDesc SortKey = iota
	SortAmountDesc
)

func (k SortKey) String() string {
	switch k {
	case SortRecordedAtDesc:
		return "recordedAt desc"
	case SortAmountDesc:
		return "amount desc"
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// Filter restricts a query to a recordedAt range. A zero bound is open.
// From is inclusive; To is exclusive unless ToInclusive is set.
type Filter struct {
	From        time.Time
	To          time.Time
	ToInclusive bool
}

// Match reports whether t falls inside the filter.
func (f Filter) Match(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() {
		if f.ToInclusive {
			return !t.After(f.To)
		}
		return t.Before(f.To)
	}
	return true
}

// PageQuery selects one page. A negative Offset is past the end and
// yields no rows.
type PageQuery struct {
	Sort   SortKey
	Limit  int64
	Offset int64
}

// Stats is the result of SumCountAvg. Average is rounded to whole units.
type Stats struct {
	Total   int64
	Count   int64
	Average int64
}

// Collection is the query surface shared by ledger and history.
type Collection interface {
	Insert(ctx context.Context, d *models.Donation) error
	SumAndCount(ctx context.Context, f Filter) (total, count int64, err error)
	SumCountAvg(ctx context.Context, f Filter) (Stats, error)
	FindPage(ctx context.Context, q PageQuery) (rows []models.Donation, totalMatching int64, err error)
	FindTopN(ctx context.Context, key SortKey, limit int64) ([]models.Donation, error)
}

// Ledger holds donations since the last reset.
type Ledger interface {
	Collection
	ClearAll(ctx context.Context) (deleted int64, err error)
}

// History is never deleted from, so it exposes no clear operation.
type History interface {
	Collection
}

// Health reports backend connectivity without side effects.
type Health interface {
	Status(ctx context.Context) ConnState
}

type ConnState string

const (
	Connected    ConnState = "connected"
	Disconnected ConnState = "disconnected"
)

// StorageError wraps any backend failure so callers can tell it apart
// from invalid input.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Collection: collection, Err: err}
}

// roundAverage rounds half away from zero.
func roundAverage(avg float64) int64 {
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return int64(math.Round(avg))
}
