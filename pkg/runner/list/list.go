// Package list prints stored days as a table or a calendar.
package list

import (
	"context"
	"errors"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type List struct {
	Service  *app.Service
	Range    *daykey.Interval
	Calendar bool
	Location *time.Location
	JSON     bool
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no service")
	}
	res, err := n.Service.Days(ctx, n.Range)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(res.Days)
	}

	pp := printers.PrettyPrint{}
	if n.Calendar {
		n.calendar(&pp, res.Days)
	} else {
		pp.TitleWithCount("Journal", len(res.Days))
		pp.Days(res.Days)
	}
	pp.Skipped(res.Errors)
	return nil
}

// calendar prints every month the range covers, or the current month.
func (n *List) calendar(pp *printers.PrettyPrint, days []*entry.Day) {
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	first, last := time.Now().In(loc), time.Now().In(loc)
	if n.Range != nil {
		if !n.Range.Start.IsZero() {
			first = n.Range.Start.In(loc)
		} else if len(days) > 0 {
			if t, ok := daykey.Date(days[0].DayKey); ok {
				first = t
			}
		}
		if n.Range.End.Year() < 9999 {
			last = n.Range.End.Add(-time.Nanosecond).In(loc)
		}
	}
	m := time.Date(first.Year(), first.Month(), 1, 12, 0, 0, 0, loc)
	for !m.After(last) {
		pp.Calendar(m, days...)
		m = printers.NextMonth(m)
	}
}
