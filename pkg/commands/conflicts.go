package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/conflicts"
)

func addConflicts(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	showVersions := false

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List versions of a day that lost a concurrent write.",
		Example: `
rbt conflicts --date 2026-3-8
rbt conflicts --date 2026-3-8 --show
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			key, err := do.Key(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s := conflicts.Conflicts{
				Service: e.Service,
				Key:     key,
				Show:    showVersions,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	cmd.Flags().BoolVar(&showVersions, "show", false, "Print each archived version.")

	topLevel.AddCommand(cmd)
}
