package options

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

// PeriodOptions picks a week, month or year.
type PeriodOptions struct {
	Week     bool
	Month    bool
	Year     bool
	Key      string
	TimeZone string
}

func AddPeriodArgs(cmd *cobra.Command, o *PeriodOptions) {
	cmd.Flags().BoolVarP(&o.Week, "week", "w", false,
		"Use a week period (the default).")
	cmd.Flags().BoolVarP(&o.Month, "month", "m", false,
		"Use a month period.")
	cmd.Flags().BoolVarP(&o.Year, "year", "y", false,
		"Use a year period.")
	cmd.Flags().StringVar(&o.Key, "key", "",
		`Period key, example: --key=2026-W10, --key=2026-03 or --key=2026. Defaults to the current period.`)
	AddTimeZoneArg(cmd, &o.TimeZone)
}

// Resolve returns the period, its key and the zone it is read in.
func (o *PeriodOptions) Resolve(def *time.Location, now time.Time) (daykey.Period, string, *time.Location, error) {
	set := 0
	p := daykey.Week
	for _, c := range []struct {
		on bool
		p  daykey.Period
	}{{o.Week, daykey.Week}, {o.Month, daykey.Month}, {o.Year, daykey.Year}} {
		if c.on {
			set++
			p = c.p
		}
	}
	if set > 1 {
		return "", "", nil, errors.New("choose one of --week, --month or --year")
	}
	loc, err := Location(o.TimeZone, def)
	if err != nil {
		return "", "", nil, err
	}
	key := o.Key
	if key == "" {
		key = daykey.Key(now, p, loc)
	}
	return p, key, loc, nil
}
