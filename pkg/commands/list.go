package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	ro := &options.RangeOptions{}
	calendar := false

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded days.",
		Example: `
rbt list
rbt list --from 2026-3-1 --to 2026-3-31
rbt list --from 3/1 --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			r, err := ro.Interval(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			loc, err := options.Location(ro.TimeZone, e.Zone())
			if err != nil {
				return output.HandleError(err)
			}
			s := list.List{
				Service:  e.Service,
				Range:    r,
				Calendar: calendar,
				Location: loc,
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddRangeArgs(cmd, ro)
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Show a month calendar instead of a table.")

	topLevel.AddCommand(cmd)
}
