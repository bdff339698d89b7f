// Package key provides CLI helpers to display the category legend.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
)

// Key prints what each category of a day is for.
type Key struct{}

// Do renders the legend to color.Output.
func (k *Key) Do(_ context.Context) error {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint("Meaning"))
	for _, c := range entry.Categories() {
		tbl.AddRow(string(c), c.Meaning())
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, "")
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
	return nil
}
