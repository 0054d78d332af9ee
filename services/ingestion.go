package services

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

// IngestObserver is notified after a donation is stored in both collections.
type IngestObserver interface {
	DonationRecorded(d models.Donation)
}

// Ingestor validates sensor events and writes them to ledger and history.
type Ingestor struct {
	ledger   store.Ledger
	history  store.History
	now      Clock
	log      zerolog.Logger
	observer IngestObserver
}

func NewIngestor(ledger store.Ledger, history store.History, now Clock, log zerolog.Logger) *Ingestor {
	if now == nil {
		now = time.Now
	}
	return &Ingestor{ledger: ledger, history: history, now: now, log: log}
}

// Observe registers o for successful ingestions. Nil disables.
func (i *Ingestor) Observe(o IngestObserver) *Ingestor {
	i.observer = o
	return i
}

// ParseAmount validates a raw JSON amount: present, a number literal,
// integral and strictly positive.
func ParseAmount(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, invalidf("amount is required")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, invalidf("amount must be a number")
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, invalidf("amount must be a number")
	}

	amount, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || math.IsInf(f, 0) {
			return 0, invalidf("amount is out of range")
		}
		if f != math.Trunc(f) {
			return 0, invalidf("amount must be a whole number")
		}
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, invalidf("amount is out of range")
		}
		amount = int64(f)
	}
	if amount <= 0 {
		return 0, invalidf("amount must be a positive number")
	}
	return amount, nil
}

// Ingest stores one donation in the ledger and in history. The two inserts
// run concurrently and neither cancels the other; if either fails the
// donation counts as not recorded and the StorageError is returned. The
// returned record is the ledger copy.
func (i *Ingestor) Ingest(ctx context.Context, amount int64, deviceID string) (models.Donation, error) {
	if amount <= 0 {
		return models.Donation{}, invalidf("amount must be a positive number")
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		deviceID = models.DefaultDeviceID
	}

	ledgerRec := models.Donation{
		Amount:     amount,
		DeviceID:   deviceID,
		RecordedAt: i.now().UTC().Truncate(time.Millisecond),
	}
	historyRec := ledgerRec

	var ledgerErr, historyErr error
	var g errgroup.Group
	g.Go(func() error {
		ledgerErr = i.ledger.Insert(ctx, &ledgerRec)
		return ledgerErr
	})
	g.Go(func() error {
		historyErr = i.history.Insert(ctx, &historyRec)
		return historyErr
	})
	if err := g.Wait(); err != nil {
		ev := i.log.Error().Err(err).Int64("amount", amount).Str("device_id", deviceID)
		switch {
		case ledgerErr == nil:
			ev = ev.Str("orphan", store.LedgerCollection).Str("orphan_id", ledgerRec.ID.Hex())
		case historyErr == nil:
			ev = ev.Str("orphan", store.HistoryCollection).Str("orphan_id", historyRec.ID.Hex())
		}
		ev.Msg("donation not recorded")
		return models.Donation{}, err
	}

	i.log.Info().
		Int64("amount", amount).
		Str("device_id", deviceID).
		Str("id", ledgerRec.ID.Hex()).
		Msg("donation recorded")
	if i.observer != nil {
		i.observer.DonationRecorded(ledgerRec)
	}
	return ledgerRec, nil
}
