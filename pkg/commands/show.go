package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one day.",
		Example: `
rbt show
rbt show --date yesterday
rbt show --date 2026-3-8 --tz America/Los_Angeles --show-id
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
			s := show.Show{
				Service: e.Service,
				Key:     key,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
