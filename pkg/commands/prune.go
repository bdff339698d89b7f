package commands

import (
	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/prune"
)

func addPrune(topLevel *cobra.Command) {
	dryRun := false

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete attachment files that no day refers to.",
		Long: `Prune deletes attachment files left behind when a save lost to a newer
version. Files that an archived conflict still refers to are kept.`,
		Example: `
rbt prune --dry-run
rbt prune
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := prune.Prune{
				Service: e.Service,
				DryRun:  dryRun,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report what would be deleted.")

	topLevel.AddCommand(cmd)
}
