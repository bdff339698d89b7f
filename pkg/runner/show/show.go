// Package show prints a single journal day.
package show

import (
	"context"
	"errors"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type Show struct {
	Service *app.Service
	Key     daykey.LocalDayKey
	ShowID  bool
	JSON    bool
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}
	d, err := n.Service.Day(ctx, n.Key)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(d)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	if d == nil {
		pp.Title(printers.DayTitle(n.Key))
	}
	pp.Day(d)
	return nil
}
