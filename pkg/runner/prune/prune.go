// Package prune removes attachment files no day refers to.
package prune

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/printers"
)

type Prune struct {
	Service *app.Service
	DryRun  bool
	JSON    bool
}

func (n *Prune) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not prune, no service")
	}
	res, err := n.Service.PruneAttachments(ctx, n.DryRun)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(res.Removed)
	}

	verb := "removed"
	if n.DryRun {
		verb = "would remove"
	}
	days := make([]string, 0, len(res.Removed))
	for iso := range res.Removed {
		days = append(days, iso)
	}
	sort.Strings(days)
	total := 0
	for _, iso := range days {
		for _, rel := range res.Removed[iso] {
			_, _ = fmt.Fprintf(color.Output, "%s %s/%s\n", verb, iso, rel)
			total++
		}
	}
	_, _ = fmt.Fprintf(color.Output, "%s %d file(s)\n", verb, total)
	pp := printers.PrettyPrint{}
	pp.Skipped(res.Skipped)
	return nil
}
