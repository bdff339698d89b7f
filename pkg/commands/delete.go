package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	yes := false

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a day and its attachments.",
		Long:  "Delete a day and its attachments. Archived conflicting versions are kept.",
		Example: `
rbt delete --date 2026-3-8 --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !yes {
				return output.HandleError(errors.New("refusing to delete without --yes"))
			}
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			key, err := do.Key(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s := remove.Remove{
				Service: e.Service,
				Key:     key,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion.")

	topLevel.AddCommand(cmd)
}
