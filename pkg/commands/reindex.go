package commands

import (
	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/reindex"
)

func addReindex(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the stored days.",
		Example: `
rbt reindex
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := reindex.Reindex{
				Service: e.Service,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
