package transcript

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Transcripts.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Deleted transcript", args[0])
		return nil
	},
}
