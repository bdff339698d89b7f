package options

import (
	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
)

// CategoryOptions restricts a command to some facets of a day.
type CategoryOptions struct {
	Categories []string
}

func AddCategoryArgs(cmd *cobra.Command, o *CategoryOptions) {
	cmd.Flags().StringSliceVarP(&o.Categories, "category", "c", nil,
		"Limit to rose, bud or thorn. Repeatable.")
	_ = cmd.RegisterFlagCompletionFunc("category", CompleteCategory)
}

// Parse returns the selected categories; none selected means all.
func (o *CategoryOptions) Parse() ([]entry.Category, error) {
	out := make([]entry.Category, 0, len(o.Categories))
	for _, raw := range o.Categories {
		c, err := entry.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func CompleteCategory(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := []string{}
	for _, c := range entry.Categories() {
		out = append(out, string(c)+"\t"+c.Meaning())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
