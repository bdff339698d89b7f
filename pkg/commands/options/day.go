package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// DayOptions selects one journal day.
type DayOptions struct {
	Date     string
	TimeZone string
}

func AddDayArgs(cmd *cobra.Command, o *DayOptions) {
	cmd.Flags().StringVarP(&o.Date, "date", "d", "",
		`Specify a day, example: --date="2026-3-8", --date="3/8" or --date=yesterday. Defaults to today.`)
	AddTimeZoneArg(cmd, &o.TimeZone)
}

func AddTimeZoneArg(cmd *cobra.Command, tz *string) {
	cmd.Flags().StringVar(tz, "tz", "",
		`IANA time zone the day is lived in, example: --tz="America/Los_Angeles". Defaults to the configured zone.`)
}

// Location resolves --tz, falling back to def.
func Location(tz string, def *time.Location) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		if def == nil {
			return time.Local, nil
		}
		return def, nil
	}
	loc, ok := daykey.Zone(tz)
	if !ok {
		return nil, fmt.Errorf("unknown time zone %q", tz)
	}
	return loc, nil
}

// Key resolves the flags to a day key. now is used for "today" and for
// the year of the short form.
func (o *DayOptions) Key(def *time.Location, now time.Time) (daykey.LocalDayKey, error) {
	loc, err := Location(o.TimeZone, def)
	if err != nil {
		return daykey.LocalDayKey{}, err
	}
	on, err := ParseDay(o.Date, now.In(loc))
	if err != nil {
		return daykey.LocalDayKey{}, err
	}
	return daykey.DayKey(on, loc), nil
}

// ParseDay reads "today", "yesterday", "2026-3-8" or "3/8". The short form
// takes now's year, or the previous year if that date is still ahead.
func ParseDay(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	loc := now.Location()
	t, err := time.ParseInLocation(layoutISO, s, loc)
	if err == nil {
		return t.Add(12 * time.Hour), nil
	}
	t, err = time.ParseInLocation(layoutISOShort, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("can not read date %q", s)
	}
	t = time.Date(now.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
	// A journal looks back: 12/30 typed on 1/2 means last year.
	if t.After(now) && t.YearDay() != now.YearDay() {
		t = t.AddDate(-1, 0, 0)
	}
	return t, nil
}
