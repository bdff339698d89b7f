// Package reindex rebuilds the search index from the stored days.
package reindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type Reindex struct {
	Service *app.Service
	JSON    bool
}

func (n *Reindex) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not reindex, no service")
	}
	start := time.Now()
	res, err := n.Service.Reindex(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		errs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			errs = append(errs, e.Error())
		}
		return printers.JSON(map[string]interface{}{"days": res.Days, "skipped": errs})
	}
	_, _ = fmt.Fprintf(color.Output, "indexed %d days in %s\n", res.Days, time.Since(start).Round(time.Millisecond))
	pp := printers.PrettyPrint{}
	pp.Skipped(res.Errors)
	return nil
}
