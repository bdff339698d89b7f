package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/timeutil"
)

// RangeOptions bounds a listing by day, both ends inclusive.
type RangeOptions struct {
	From     string
	To       string
	Last     string
	TimeZone string
}

func AddRangeArgs(cmd *cobra.Command, o *RangeOptions) {
	cmd.Flags().StringVar(&o.From, "from", "",
		`First day to include, same formats as --date.`)
	cmd.Flags().StringVar(&o.To, "to", "",
		`Last day to include, same formats as --date.`)
	cmd.Flags().StringVar(&o.Last, "last", "",
		`Window ending today, example: --last=10d or --last=2w. Conflicts with --from.`)
	AddTimeZoneArg(cmd, &o.TimeZone)
}

// Interval returns nil when no bound is set. An open end stretches to the
// zero time or far into the future.
func (o *RangeOptions) Interval(def *time.Location, now time.Time) (*daykey.Interval, error) {
	if o.From == "" && o.To == "" && o.Last == "" {
		return nil, nil
	}
	loc, err := Location(o.TimeZone, def)
	if err != nil {
		return nil, err
	}
	from, to := o.From, o.To
	if o.Last != "" {
		if from != "" {
			return nil, fmt.Errorf("--last and --from can not be combined")
		}
		days, _, err := timeutil.ParseWindow(o.Last)
		if err != nil {
			return nil, err
		}
		if to == "" {
			to = "today"
		}
		end, err := ParseDay(to, now.In(loc))
		if err != nil {
			return nil, err
		}
		from = daykey.DayKey(end.AddDate(0, 0, 1-days), loc).ISODate
	}

	r := daykey.Interval{
		Start: time.Time{},
		End:   time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if from != "" {
		t, err := ParseDay(from, now.In(loc))
		if err != nil {
			return nil, err
		}
		day, _ := daykey.DayInterval(daykey.DayKey(t, loc))
		r.Start = day.Start
	}
	if to != "" {
		t, err := ParseDay(to, now.In(loc))
		if err != nil {
			return nil, err
		}
		day, _ := daykey.DayInterval(daykey.DayKey(t, loc))
		r.End = day.End
	}
	if !r.Start.Before(r.End) {
		return nil, fmt.Errorf("--from must not be after --to")
	}
	return &r, nil
}
