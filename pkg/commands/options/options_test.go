package options

import (
	"strings"
	"testing"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

var la, _ = time.LoadLocation("America/Los_Angeles")

func TestParseDay(t *testing.T) {
	now := time.Date(2026, time.March, 8, 9, 0, 0, 0, la)
	tests := []struct {
		in   string
		want string
	}{
		{"", "2026-03-08"},
		{"today", "2026-03-08"},
		{"Yesterday", "2026-03-07"},
		{"tomorrow", "2026-03-09"},
		{"2026-3-1", "2026-03-01"},
		{"2025-12-31", "2025-12-31"},
		{"3/8", "2026-03-08"},
		{"2/28", "2026-02-28"},
		{"12/30", "2025-12-30"},
	}
	for _, tt := range tests {
		got, err := ParseDay(tt.in, now)
		if err != nil {
			t.Errorf("ParseDay(%q): %v", tt.in, err)
			continue
		}
		if k := daykey.DayKey(got, la); k.ISODate != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.in, k.ISODate, tt.want)
		}
	}
	if _, err := ParseDay("someday", now); err == nil {
		t.Error("expected error for unreadable date")
	}
}

func TestDayKeyUsesZone(t *testing.T) {
	now := time.Date(2026, time.March, 8, 3, 0, 0, 0, time.UTC)
	o := DayOptions{TimeZone: "America/Los_Angeles"}
	k, err := o.Key(time.UTC, now)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if k.ISODate != "2026-03-07" || k.TimeZoneID != "America/Los_Angeles" {
		t.Fatalf("unexpected key %v", k)
	}

	o = DayOptions{TimeZone: "Mars/Olympus"}
	if _, err := o.Key(time.UTC, now); err == nil {
		t.Fatal("expected unknown zone to fail")
	}
}

func TestRangeInterval(t *testing.T) {
	now := time.Date(2026, time.March, 8, 9, 0, 0, 0, la)

	var none RangeOptions
	if r, err := none.Interval(la, now); err != nil || r != nil {
		t.Fatalf("expected no range, got %v %v", r, err)
	}

	o := RangeOptions{From: "2026-3-2", To: "2026-3-8"}
	r, err := o.Interval(la, now)
	if err != nil {
		t.Fatalf("interval: %v", err)
	}
	if want := time.Date(2026, time.March, 2, 0, 0, 0, 0, la); !r.Start.Equal(want) {
		t.Errorf("start = %s, want %s", r.Start, want)
	}
	if want := time.Date(2026, time.March, 9, 0, 0, 0, 0, la); !r.End.Equal(want) {
		t.Errorf("end = %s, want %s", r.End, want)
	}

	o = RangeOptions{Last: "1w"}
	r, err = o.Interval(la, now)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if want := time.Date(2026, time.March, 2, 0, 0, 0, 0, la); !r.Start.Equal(want) {
		t.Errorf("last start = %s, want %s", r.Start, want)
	}
	if want := time.Date(2026, time.March, 9, 0, 0, 0, 0, la); !r.End.Equal(want) {
		t.Errorf("last end = %s, want %s", r.End, want)
	}
	if _, err := (&RangeOptions{Last: "1w", From: "3/1"}).Interval(la, now); err == nil {
		t.Fatal("expected --last with --from to fail")
	}

	o = RangeOptions{From: "2026-3-9", To: "2026-3-8"}
	if _, err := o.Interval(la, now); err == nil {
		t.Fatal("expected inverted range to fail")
	}
}

func TestPeriodResolve(t *testing.T) {
	now := time.Date(2026, time.March, 8, 9, 0, 0, 0, la)

	p, key, loc, err := (&PeriodOptions{}).Resolve(la, now)
	if err != nil || p != daykey.Week || key != "2026-W10" || loc != la {
		t.Fatalf("default: %s %s %v %v", p, key, loc, err)
	}
	p, key, _, err = (&PeriodOptions{Month: true}).Resolve(la, now)
	if err != nil || p != daykey.Month || key != "2026-03" {
		t.Fatalf("month: %s %s %v", p, key, err)
	}
	p, key, _, err = (&PeriodOptions{Year: true, Key: "2025"}).Resolve(la, now)
	if err != nil || p != daykey.Year || key != "2025" {
		t.Fatalf("year: %s %s %v", p, key, err)
	}
	if _, _, _, err := (&PeriodOptions{Week: true, Year: true}).Resolve(la, now); err == nil {
		t.Fatal("expected conflicting flags to fail")
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Fatalf("Wrap = %q", got)
	}
	for _, line := range strings.Split(Wrap80(strings.Repeat("word ", 40)), "\n") {
		if len(line) > 80 {
			t.Fatalf("line too long: %d", len(line))
		}
	}
}
