package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/period"
)

func addPeriod(topLevel *cobra.Command) {
	po := &options.PeriodOptions{}
	calendar := false

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Report a week, month or year grouped by rose, bud and thorn.",
		Example: `
rbt period
rbt period --month --calendar
rbt period --key 2026-W10 --tz America/Los_Angeles
rbt period --year --key 2025
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			p, key, loc, err := po.Resolve(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s := period.Period{
				Service:  e.Service,
				Period:   p,
				Key:      key,
				Location: loc,
				Calendar: calendar,
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddPeriodArgs(cmd, po)
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Also print a calendar of the period.")

	topLevel.AddCommand(cmd)
}
