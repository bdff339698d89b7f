// Package conflicts lists and prints archived versions of a day.
package conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

type Conflicts struct {
	Service *app.Service
	Key     daykey.LocalDayKey
	// Show prints the archived versions themselves instead of the listing.
	Show bool
	JSON bool
}

func (n *Conflicts) Do(ctx context.Context) error {
	if n.Service == nil || n.Service.Persistence == nil {
		return errors.New("can not list conflicts, no persistence")
	}
	cs, err := n.Service.Conflicts(ctx, n.Key)
	if err != nil {
		return err
	}
	if !n.Show {
		if n.JSON {
			return printers.JSON(cs)
		}
		pp := printers.PrettyPrint{}
		pp.Conflicts(n.Key.ISODate, cs)
		return nil
	}

	type version struct {
		store.Conflict
		Day   interface{} `json:"day,omitempty"`
		Error string      `json:"error,omitempty"`
	}
	out := make([]version, 0, len(cs))
	pp := printers.PrettyPrint{ShowID: true}
	for _, c := range cs {
		d, err := n.Service.Persistence.ReadConflict(ctx, c)
		v := version{Conflict: c}
		if err != nil {
			v.Error = err.Error()
		} else {
			v.Day = d
		}
		out = append(out, v)
		if n.JSON {
			continue
		}
		pp.Title(fmt.Sprintf("archived %s", c.ArchivedAt.Local().Format("2006-01-02 15:04:05")))
		if err != nil {
			printers.Warn("%v", err)
			continue
		}
		pp.Day(d)
	}
	if n.JSON {
		return printers.JSON(out)
	}
	return nil
}
