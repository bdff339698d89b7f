package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/search"
	idx "github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
)

func addSearch(topLevel *cobra.Command) {
	ro := &options.RangeOptions{}
	co := &options.CategoryOptions{}
	var (
		tags      []string
		photo     bool
		noPhoto   bool
		favorites bool
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Search days by text, category, photos, tags or date.",
		Long: options.Wrap80("Search matches days whose text contains any of the given words. " +
			"Words are matched whole and case-insensitively. Filters narrow the result further."),
		Example: `
rbt search hiking
rbt search rain --category thorn --photo
rbt search --tag family --from 2026-1-1
rbt search --favorites --full
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			r, err := ro.Interval(e.Zone(), time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			cats, err := co.Parse()
			if err != nil {
				return output.HandleError(err)
			}
			q := idx.Query{
				Text:       strings.Join(args, " "),
				Categories: cats,
				DateRange:  r,
				Tags:       tags,
				Favorites:  favorites,
			}
			switch {
			case photo:
				q.HasPhoto = &photo
			case noPhoto:
				has := false
				q.HasPhoto = &has
			}
			s := search.Search{
				Service: e.Service,
				Query:   q,
				Full:    full,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddRangeArgs(cmd, ro)
	options.AddCategoryArgs(cmd, co)
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Require these tags.")
	cmd.Flags().BoolVar(&photo, "photo", false, "Only facets with photos.")
	cmd.Flags().BoolVar(&noPhoto, "no-photo", false, "Only facets without photos.")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite days.")
	cmd.Flags().BoolVar(&full, "full", false, "Print every matching day in full.")

	topLevel.AddCommand(cmd)
}
