package daykey

import "time"

// Interval is a half-open span of instants, [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration is the absolute length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Overlaps reports whether the two intervals share at least one instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Days counts the civil days covered in loc.
func (i Interval) Days(loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	start := i.Start.In(loc)
	end := i.End.In(loc)
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ISODates returns the first and last iso date the interval could touch in
// any zone, used to prefilter storage keys before decoding.
func (i Interval) ISODates() (first, last string) {
	// Zone offsets stay within ±14h, so one day of slack on each side suffices.
	return i.Start.UTC().AddDate(0, 0, -1).Format(layoutISO),
		i.End.UTC().AddDate(0, 0, 1).Format(layoutISO)
}

// Touches reports whether any instant of the key's civil day, in the key's
// own zone, falls inside r. A key with an unknown zone is read as a UTC day.
func Touches(k LocalDayKey, r Interval) bool {
	iv, ok := DayInterval(k)
	if !ok {
		iv, ok = DayInterval(LocalDayKey{ISODate: k.ISODate, TimeZoneID: "UTC"})
		if !ok {
			return false
		}
	}
	return iv.Overlaps(r)
}
