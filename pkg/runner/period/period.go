// Package period reports on a week, month or year of the journal.
package period

import (
	"context"
	"errors"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type Period struct {
	Service  *app.Service
	Period   daykey.Period
	Key      string
	Location *time.Location
	Calendar bool
	JSON     bool
}

func (n *Period) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	r, err := n.Service.Report(ctx, n.Period, n.Key, n.Location)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(r.Days)
	}

	pp := printers.PrettyPrint{}
	if n.Calendar {
		start := r.Range.Start
		switch n.Period {
		case daykey.Year:
			pp.CalendarYear(start, r.Days...)
		default:
			pp.Calendar(start, r.Days...)
			if end := r.Range.End.Add(-time.Nanosecond); end.Month() != start.Month() {
				pp.Calendar(end, r.Days...)
			}
		}
	}
	pp.Report(r)
	return nil
}
