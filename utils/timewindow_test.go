package utils

import (
	"errors"
	"testing"
	"time"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func TestStartOfDay(t *testing.T) {
	now := time.Date(2025, time.March, 14, 23, 59, 59, 999, jakarta)
	got := StartOfDay(now)
	want := time.Date(2025, time.March, 14, 0, 0, 0, 0, jakarta)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
	if got.Location() != jakarta {
		t.Fatalf("location changed to %v", got.Location())
	}
}

func TestStartOfNextDayCrossesMonthAndYear(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", time.Date(2025, 3, 14, 8, 0, 0, 0, jakarta), time.Date(2025, 3, 15, 0, 0, 0, 0, jakarta)},
		{"end of february", time.Date(2024, 2, 29, 12, 0, 0, 0, jakarta), time.Date(2024, 3, 1, 0, 0, 0, 0, jakarta)},
		{"new year", time.Date(2025, 12, 31, 23, 0, 0, 0, jakarta), time.Date(2026, 1, 1, 0, 0, 0, 0, jakarta)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfNextDay(tt.in); !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, jakarta)
	w := Today(now)
	if !w.Start.Equal(now) {
		t.Fatalf("start = %v, want %v", w.Start, now)
	}
	if w.End.Sub(w.Start) != 24*time.Hour {
		t.Fatalf("window length = %v", w.End.Sub(w.Start))
	}
	if w.EndInclusive {
		t.Fatal("daily window must exclude next midnight")
	}
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2025, 8, 17, 10, 30, 15, 0, jakarta)
	tests := []struct {
		period Period
		start  time.Time
	}{
		{PeriodWeek, now.Add(-7 * 24 * time.Hour)},
		{PeriodMonth, time.Date(2025, 8, 1, 0, 0, 0, 0, jakarta)},
		{PeriodYear, time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w, err := PeriodWindow(tt.period, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !w.Start.Equal(tt.start) {
				t.Fatalf("start = %v, want %v", w.Start, tt.start)
			}
			if !w.End.Equal(now) || !w.EndInclusive {
				t.Fatalf("end = %v inclusive=%v, want now inclusive", w.End, w.EndInclusive)
			}
		})
	}
}

func TestPeriodWindowUnknown(t *testing.T) {
	if _, err := PeriodWindow(Period("decade"), time.Now()); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, in := range []string{"week", "WEEK", " Month ", "year"} {
		if _, err := ParsePeriod(in); err != nil {
			t.Errorf("ParsePeriod(%q): %v", in, err)
		}
	}
	for _, in := range []string{"", "bogus", "weeks"} {
		if _, err := ParsePeriod(in); !errors.Is(err, ErrUnknownPeriod) {
			t.Errorf("ParsePeriod(%q) = %v, want ErrUnknownPeriod", in, err)
		}
	}
}
