package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var DoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		done, err := app.Tasks.Complete(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Completed %q\n", done.Title)
		return nil
	},
}
