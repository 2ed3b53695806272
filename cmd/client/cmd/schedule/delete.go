package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a schedule event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Schedules.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Deleted event", args[0])
		return nil
	},
}
