package printers

import (
	"testing"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
)

func TestDaysInAndStartDay(t *testing.T) {
	tests := []struct {
		then  time.Time
		days  int
		start time.Weekday
	}{
		{time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 28, time.Sunday},
		{time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 29, time.Thursday},
		{time.Date(2026, time.March, 31, 23, 30, 0, 0, time.FixedZone("x", -8*3600)), 31, time.Sunday},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.then); got != tt.days {
			t.Errorf("DaysIn(%s) = %d, want %d", tt.then, got, tt.days)
		}
		if got := StartDay(tt.then); got != tt.start {
			t.Errorf("StartDay(%s) = %s, want %s", tt.then, got, tt.start)
		}
	}
}

func TestCountDays(t *testing.T) {
	full := entry.NewDay(daykey.LocalDayKey{ISODate: "2026-03-08", TimeZoneID: "UTC"})
	full.Rose.ShortText = "a"
	full.Bud.ShortText = "b"
	full.Thorn.JournalText = "c"
	partial := entry.NewDay(daykey.LocalDayKey{ISODate: "2026-03-01", TimeZoneID: "UTC"})
	partial.Rose.ShortText = "a"
	other := entry.NewDay(daykey.LocalDayKey{ISODate: "2026-04-01", TimeZoneID: "UTC"})
	other.Rose.ShortText = "a"

	count := countDays(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), []*entry.Day{full, partial, other})
	if len(count) != 31 {
		t.Fatalf("expected 31 slots, got %d", len(count))
	}
	if count[7] != 3 || count[0] != 1 {
		t.Fatalf("unexpected counts %v", count)
	}
	total := 0
	for _, c := range count {
		total += c
	}
	if total != 4 {
		t.Fatalf("april day leaked into march: %v", count)
	}
}

func TestShortAndDayline(t *testing.T) {
	d := entry.NewDay(daykey.LocalDayKey{ISODate: "2026-03-08", TimeZoneID: "UTC"})
	d.Bud.JournalText = "only the journal"
	d.Rose.ShortText = "sun"
	d.Rose.Photos = append(d.Rose.Photos, entry.PhotoRef{RelativePath: "attachments/a.png"})
	mood := 3
	d.Mood = &mood
	d.Tags = []string{"hike", "park"}

	if got := short(&d.Rose); got != "sun [1]" {
		t.Errorf("short(rose) = %q", got)
	}
	if got := short(&d.Bud); got != "…" {
		t.Errorf("short(bud) = %q", got)
	}
	if got := short(&d.Thorn); got != "" {
		t.Errorf("short(thorn) = %q", got)
	}
	if got := dayline(d); got != "mood 3  #hike #park" {
		t.Errorf("dayline = %q", got)
	}
	if got := DayTitle(d.DayKey); got != "Sunday, March 8, 2026" {
		t.Errorf("DayTitle = %q", got)
	}
}
