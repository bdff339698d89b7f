// Package set writes the text of one facet of a day.
package set

import (
	"context"
	"errors"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type Set struct {
	Service  *app.Service
	Key      daykey.LocalDayKey
	Category entry.Category
	Update   app.ItemUpdate
	JSON     bool
}

func (n *Set) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not set, no service")
	}
	if n.Update.ShortText == nil && n.Update.JournalText == nil && len(n.Update.Metadata) == 0 {
		return errors.New("nothing to set, give a message, --journal or --meta")
	}
	res, err := n.Service.SetItem(ctx, n.Key, n.Category, n.Update)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(res)
	}
	pp := printers.PrettyPrint{}
	pp.Outcome(string(n.Category), res)
	return nil
}
