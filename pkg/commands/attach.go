package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/commands/options"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/runner/attach"
)

func parseCategoryArg(args []string, c *entry.Category) error {
	if len(args) < 1 {
		return fmt.Errorf("requires a category: %s", strings.Join(categoryArgs(), ", "))
	}
	var err error
	*c, err = entry.ParseCategory(args[0])
	return err
}

func addAttach(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	var category entry.Category

	cmd := &cobra.Command{
		Use:   "attach <category> <file>...",
		Short: "Copy photos or videos into a day.",
		Long: "Copy photos (JPEG, PNG, GIF) or videos (MP4, M4V, MOV) into a day. " +
			"The originals are left in place.\n\n" + categoryHelp(),
		Example: `
rbt attach rose ~/Pictures/summit.jpg
rbt attach bud tickets.png clip.mp4 --date yesterday
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := parseCategoryArg(args, &category); err != nil {
				return err
			}
			if len(args) < 2 {
				return fmt.Errorf("requires at least one file")
			}
			return nil
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
			s := attach.Attach{
				Service:  e.Service,
				Key:      key,
				Category: category,
				Paths:    args[1:],
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)

	topLevel.AddCommand(cmd)
}

func addDetach(topLevel *cobra.Command) {
	do := &options.DayOptions{}
	io := &options.IDOptions{}
	var category entry.Category

	cmd := &cobra.Command{
		Use:   "detach <category> --id <id>",
		Short: "Remove a photo or video from a day.",
		Long:  "Remove a photo or video from a day. Find ids with `rbt show --show-id`.\n\n" + categoryHelp(),
		Example: `
rbt detach rose --id 9b2f6c1e-3f55-4c36-9d0b-0c8f2f1f7a10
`,
		ValidArgs: categoryArgs(),
		Args: func(cmd *cobra.Command, args []string) error {
			return parseCategoryArg(args, &category)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			id, err := io.UUID()
			if err != nil {
				return output.HandleError(err)
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
			s := attach.Detach{
				Service:  e.Service,
				Key:      key,
				Category: category,
				ID:       id,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArgs(cmd, do)
	options.AddIDArgs(cmd, io)
	_ = cmd.MarkFlagRequired("id")

	topLevel.AddCommand(cmd)
}
