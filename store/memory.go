package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
)

// ErrInjected is returned by a memory collection after FailNext.
var ErrInjected = errors.New("injected failure")

type memoryCollection struct {
	name string
	now  func() time.Time

	mu      sync.RWMutex
	rows    []models.Donation
	failOps map[string]error
}

func newMemoryCollection(name string) *memoryCollection {
	return &memoryCollection{name: name, now: time.Now, failOps: map[string]error{}}
}

// FailNext makes the next call of op ("insert", "sum", "find", "top",
// "clear") fail with err. Used by tests exercising partial failures.
func (c *memoryCollection) FailNext(op string, err error) {
	if err == nil {
		err = ErrInjected
	}
	c.mu.Lock()
	c.failOps[op] = err
	c.mu.Unlock()
}

// takeFailure must be called with mu held for writing.
func (c *memoryCollection) takeFailure(op string) error {
	err, ok := c.failOps[op]
	if !ok {
		return nil
	}
	delete(c.failOps, op)
	return storageErr(op, c.name, err)
}

func (c *memoryCollection) Insert(ctx context.Context, d *models.Donation) error {
	if err := ctx.Err(); err != nil {
		return storageErr("insert", c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("insert"); err != nil {
		return err
	}
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	ts := c.now().UTC().Truncate(time.Millisecond)
	d.CreatedAt, d.UpdatedAt = ts, ts
	c.rows = append(c.rows, *d)
	return nil
}

func (c *memoryCollection) SumAndCount(ctx context.Context, f Filter) (int64, int64, error) {
	st, err := c.summarize(ctx, f)
	return st.Total, st.Count, err
}

func (c *memoryCollection) SumCountAvg(ctx context.Context, f Filter) (Stats, error) {
	return c.summarize(ctx, f)
}

func (c *memoryCollection) summarize(ctx context.Context, f Filter) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, storageErr("sum", c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("sum"); err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, r := range c.rows {
		if f.Match(r.RecordedAt) {
			st.Total += r.Amount
			st.Count++
		}
	}
	if st.Count > 0 {
		st.Average = roundAverage(float64(st.Total) / float64(st.Count))
	}
	return st, nil
}

func (c *memoryCollection) FindPage(ctx context.Context, q PageQuery) ([]models.Donation, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, storageErr("find", c.name, err)
	}
	c.mu.Lock()
	if err := c.takeFailure("find"); err != nil {
		c.mu.Unlock()
		return nil, 0, err
	}
	sorted := c.sortedLocked(q.Sort)
	c.mu.Unlock()

	total := int64(len(sorted))
	if q.Offset < 0 || q.Offset >= total || q.Limit <= 0 {
		return []models.Donation{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return sorted[q.Offset:end], total, nil
}

func (c *memoryCollection) FindTopN(ctx context.Context, key SortKey, limit int64) ([]models.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("top", c.name, err)
	}
	c.mu.Lock()
	if err := c.takeFailure("top"); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	sorted := c.sortedLocked(key)
	c.mu.Unlock()

	if limit <= 0 {
		return []models.Donation{}, nil
	}
	if int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// sortedLocked returns a sorted copy; rows are kept in insertion order so a
// stable sort gives insertion-order tie breaking.
func (c *memoryCollection) sortedLocked(key SortKey) []models.Donation {
	out := make([]models.Donation, len(c.rows))
	copy(out, c.rows)
	switch key {
	case SortAmountDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	}
	return out
}

// MemoryLedger is an in-process Ledger for development and tests.
type MemoryLedger struct {
	*memoryCollection
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{newMemoryCollection(LedgerCollection)}
}

func (l *MemoryLedger) ClearAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageErr("clear", l.name, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.takeFailure("clear"); err != nil {
		return 0, err
	}
	n := int64(len(l.rows))
	l.rows = nil
	return n, nil
}

// MemoryHistory is an in-process History for development and tests.
type MemoryHistory struct {
	*memoryCollection
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{newMemoryCollection(HistoryCollection)}
}

// MemoryHealth always reports connected.
type MemoryHealth struct{}

func (MemoryHealth) Status(context.Context) ConnState { return Connected }
