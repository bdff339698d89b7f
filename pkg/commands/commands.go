package commands

import (
	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "rbt",
		Short: options.Wrap80("Rose, bud, thorn: a daily reflection journal on the command line."),
		Long: options.Wrap80("Each day holds a rose (something positive), a bud (something you are " +
			"looking forward to) and a thorn (something difficult), with optional photos, videos, " +
			"tags and a mood. Days are plain JSON files under the configured root."),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addKey(topLevel)
	addShow(topLevel)
	addSet(topLevel)
	addTag(topLevel)
	addDelete(topLevel)
	addList(topLevel)
	addSearch(topLevel)
	addAttach(topLevel)
	addDetach(topLevel)
	addConflicts(topLevel)
	addReindex(topLevel)
	addPeriod(topLevel)
	addSummary(topLevel)
	addWatch(topLevel)
	addPrune(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
