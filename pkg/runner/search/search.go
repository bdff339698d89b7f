// Package search runs index queries from the command line.
package search

import (
	"context"
	"errors"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
	idx "github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
)

type Search struct {
	Service *app.Service
	Query   idx.Query
	Full    bool
	JSON    bool
}

func (n *Search) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not search, no service")
	}
	days, err := n.Service.Search(ctx, n.Query)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(days)
	}

	pp := printers.PrettyPrint{}
	pp.TitleWithCount("Matches", len(days))
	if !n.Full {
		pp.Days(days)
		return nil
	}
	pp.NewLine()
	for _, d := range days {
		pp.Day(d)
	}
	return nil
}
