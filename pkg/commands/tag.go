package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/tag"
)

func addTag(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	var (
		remove     []string
		mood       int
		noMood     bool
		favorite   bool
		unfavorite bool
	)

	cmd := &cobra.Command{
		Use:   "tag [tags...]",
		Short: "Tag a day, rate its mood or mark it as a favorite.",
		Example: `
rbt tag hiking family
rbt tag --remove family --date yesterday
rbt tag --mood 4 --favorite
`,
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
			s := tag.Tag{
				Service:   e.Service,
				Key:       key,
				Add:       args,
				Remove:    remove,
				ClearMood: noMood,
				JSON:      output.JSON,
			}
			if cmd.Flags().Changed("mood") {
				s.Mood = &mood
			}
			switch {
			case favorite:
				s.Favorite = &favorite
			case unfavorite:
				f := false
				s.Favorite = &f
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	cmd.Flags().StringSliceVarP(&remove, "remove", "r", nil, "Tags to remove.")
	cmd.Flags().IntVar(&mood, "mood", 0, "Mood rating for the day.")
	cmd.Flags().BoolVar(&noMood, "no-mood", false, "Clear the mood rating.")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark the day as a favorite.")
	cmd.Flags().BoolVar(&unfavorite, "unfavorite", false, "Unmark the day as a favorite.")

	topLevel.AddCommand(cmd)
}
