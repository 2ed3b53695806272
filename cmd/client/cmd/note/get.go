package note

import (
	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		n, err := app.Notes.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printNote(n)
		return nil
	},
}
