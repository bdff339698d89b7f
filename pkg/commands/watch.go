package commands

import (
	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	schedule := "@daily"

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the search index current while days change on disk.",
		Long: `Watch follows changes to the journal directory, for example from a sync
client or another device, and updates the search index as they land. A full
rebuild also runs on the --rebuild cron schedule; pass an empty value to
disable it. Stop with Ctrl-C.`,
		Example: `
rbt watch
rbt watch --rebuild "0 */6 * * *"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := watch.Watch{
				Service:  e.Service,
				Index:    e.Index,
				Schedule: schedule,
				Log:      e.Log.Named("watch"),
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&schedule, "rebuild", schedule, "Cron schedule for full index rebuilds.")

	topLevel.AddCommand(cmd)
}
