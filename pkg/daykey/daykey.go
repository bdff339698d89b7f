// Package daykey maps instants onto calendar days and weekly, monthly or yearly
// periods as they are experienced in a particular time zone.
package daykey

import (
	"fmt"
	"strings"
	"time"
)

const layoutISO = "2006-01-02"

// LocalDayKey identifies one civil day in one time zone.
type LocalDayKey struct {
	ISODate    string `json:"isoDate"`
	TimeZoneID string `json:"timeZoneID"`
}

func (k LocalDayKey) String() string {
	return fmt.Sprintf("%s@%s", k.ISODate, k.TimeZoneID)
}

// IsZero reports whether the key carries no date.
func (k LocalDayKey) IsZero() bool {
	return k.ISODate == ""
}

// Compare orders keys by ISODate, then TimeZoneID.
func Compare(a, b LocalDayKey) int {
	if c := strings.Compare(a.ISODate, b.ISODate); c != 0 {
		return c
	}
	return strings.Compare(a.TimeZoneID, b.TimeZoneID)
}

// Zone resolves an IANA zone id. The empty id is rejected rather than mapped to UTC.
func Zone(id string) (*time.Location, bool) {
	if strings.TrimSpace(id) == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// DayKey returns the civil date of t rendered in loc.
func DayKey(t time.Time, loc *time.Location) LocalDayKey {
	if loc == nil {
		loc = time.UTC
	}
	return LocalDayKey{
		ISODate:    t.In(loc).Format(layoutISO),
		TimeZoneID: loc.String(),
	}
}

// ParseISODate validates a YYYY-MM-DD string and returns its components.
func ParseISODate(iso string) (year int, month time.Month, day int, ok bool) {
	t, err := time.Parse(layoutISO, iso)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}

// Date is the inverse of DayKey: the first instant of the key's day in the
// key's own zone. It reports false if the zone or the date is not recognised.
func Date(k LocalDayKey) (time.Time, bool) {
	loc, ok := Zone(k.TimeZoneID)
	if !ok {
		return time.Time{}, false
	}
	y, m, d, ok := ParseISODate(k.ISODate)
	if !ok {
		return time.Time{}, false
	}
	return startOfDay(y, m, d, loc), true
}

// DayInterval spans the whole civil day of k, [start, start of next day).
func DayInterval(k LocalDayKey) (Interval, bool) {
	loc, ok := Zone(k.TimeZoneID)
	if !ok {
		return Interval{}, false
	}
	y, m, d, ok := ParseISODate(k.ISODate)
	if !ok {
		return Interval{}, false
	}
	return Interval{
		Start: startOfDay(y, m, d, loc),
		End:   startOfDay(y, m, d+1, loc),
	}, true
}

// startOfDay normalises through time.Date, so a midnight skipped by a DST
// jump resolves to the first wall-clock instant that exists on that date.
func startOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	want := time.Date(y, m, d, 12, 0, 0, 0, loc)
	// Midnight fell into a gap and was resolved to the previous day.
	for t.Day() != want.Day() {
		t = t.Add(time.Hour)
	}
	return t
}
