package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/summary"
)

func addSummary(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Write or read markdown digests of a period.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addSummaryWrite(cmd)
	addSummaryShow(cmd)

	topLevel.AddCommand(cmd)
}

func addSummaryWrite(parent *cobra.Command) {
	po := &options.PeriodOptions{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Generate and store the digest of a period.",
		Example: `
rbt summary write
rbt summary write --month --key 2026-02
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
			s := summary.Write{
				Service:  e.Service,
				Period:   p,
				Key:      key,
				Location: loc,
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddPeriodArgs(cmd, po)
	parent.AddCommand(cmd)
}

func addSummaryShow(parent *cobra.Command) {
	po := &options.PeriodOptions{}
	list := false

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored digest.",
		Example: `
rbt summary show --key 2026-W10
rbt summary show --month --list
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			p, key, _, err := po.Resolve(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			if list {
				key = ""
			}
			s := summary.Show{
				Summaries: e.Service.Summaries,
				Period:    p,
				Key:       key,
				JSON:      output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddPeriodArgs(cmd, po)
	cmd.Flags().BoolVar(&list, "list", false, "List stored keys for the period kind.")
	parent.AddCommand(cmd)
}
