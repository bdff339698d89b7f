package options

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each attachment.")
}

func AddIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		"Specify the id of an attachment.")
}

func (o *IDOptions) UUID() (uuid.UUID, error) {
	id, err := uuid.Parse(o.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--id: %w", err)
	}
	return id, nil
}
