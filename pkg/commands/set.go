package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/set"
)

func categoryHelp() string {
	long := strings.Builder{}
	long.WriteString("Categories:\n")
	for _, c := range entry.Categories() {
		long.WriteString(fmt.Sprintf("  %-6s %s\n", c, c.Meaning()))
	}
	return long.String()
}

func categoryArgs() []string {
	out := []string{}
	for _, c := range entry.Categories() {
		out = append(out, string(c))
	}
	return out
}

func addSet(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	var (
		journal string
		meta    map[string]string
	)
	var category entry.Category

	cmd := &cobra.Command{
		Use:   "set <category> [message]",
		Short: "Write the rose, bud or thorn of a day.",
		Long:  "Write the short text, journal text or metadata of one facet of a day.\n\n" + categoryHelp(),
		Example: `
rbt set rose Went hiking with Sam
rbt set thorn "Missed the train" --date yesterday
rbt set bud --journal "Long form notes about the trip." --meta mood=excited
`,
		ValidArgs: categoryArgs(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("requires a category: %s", strings.Join(categoryArgs(), ", "))
			}
			var err error
			category, err = entry.ParseCategory(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
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

			u := app.ItemUpdate{Metadata: meta}
			if len(args) > 1 {
				msg := strings.Join(args[1:], " ")
				u.ShortText = &msg
			}
			if cmd.Flags().Changed("journal") {
				u.JournalText = &journal
			}
			s := set.Set{
				Service:  e.Service,
				Key:      key,
				Category: category,
				Update:   u,
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	cmd.Flags().StringVarP(&journal, "journal", "j", "", "Long form journal text. An empty value clears it.")
	cmd.Flags().StringToStringVar(&meta, "meta", nil, "Metadata key=value pairs. An empty value removes the key.")

	topLevel.AddCommand(cmd)
}
