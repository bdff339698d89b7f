package daykey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period selects the granularity of a period key.
type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// AllPeriods returns the supported period kinds.
func AllPeriods() []Period {
	return []Period{Week, Month, Year}
}

// ParsePeriod converts a string to a Period or returns an error for unknown values.
func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range AllPeriods() {
		if candidate == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("daykey: unknown period %q", raw)
}

var (
	weekPattern  = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)
	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	yearPattern  = regexp.MustCompile(`^(\d{4})$`)
)

// Key renders the period of t in loc: "YYYY-Www" using ISO-8601 week
// numbering, "YYYY-MM" or "YYYY".
func Key(t time.Time, p Period, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	switch p {
	case Week:
		y, w := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Month:
		return fmt.Sprintf("%04d-%02d", local.Year(), int(local.Month()))
	case Year:
		return fmt.Sprintf("%04d", local.Year())
	default:
		return ""
	}
}

// Range parses key and returns the half-open interval it covers in loc. The
// bounds are civil dates converted through the zone, so a month that contains
// a DST shift is not a whole number of 24h days. Malformed keys report false.
func Range(p Period, key string, loc *time.Location) (Interval, bool) {
	if loc == nil {
		return Interval{}, false
	}
	key = strings.TrimSpace(key)
	switch p {
	case Week:
		m := weekPattern.FindStringSubmatch(key)
		if m == nil {
			return Interval{}, false
		}
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		return weekRange(year, week, loc)
	case Month:
		m := monthPattern.FindStringSubmatch(key)
		if m == nil {
			return Interval{}, false
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Interval{}, false
		}
		return Interval{
			Start: startOfDay(year, time.Month(month), 1, loc),
			End:   startOfDay(year, time.Month(month)+1, 1, loc),
		}, true
	case Year:
		m := yearPattern.FindStringSubmatch(key)
		if m == nil {
			return Interval{}, false
		}
		year, _ := strconv.Atoi(m[1])
		return Interval{
			Start: startOfDay(year, time.January, 1, loc),
			End:   startOfDay(year+1, time.January, 1, loc),
		}, true
	default:
		return Interval{}, false
	}
}

// weekRange finds the Monday of ISO week 1 (the week holding January 4th) and
// steps forward in civil days.
func weekRange(year, week int, loc *time.Location) (Interval, bool) {
	if week < 1 || week > 53 {
		return Interval{}, false
	}
	jan4 := time.Date(year, time.January, 4, 12, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	day := 4 - offset + (week-1)*7

	monday := time.Date(year, time.January, day, 12, 0, 0, 0, time.UTC)
	if y, w := monday.ISOWeek(); y != year || w != week {
		// Week 53 in a 52-week year.
		return Interval{}, false
	}
	return Interval{
		Start: startOfDay(year, time.January, day, loc),
		End:   startOfDay(year, time.January, day+7, loc),
	}, true
}
