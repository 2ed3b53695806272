package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var LoginCmd = &cobra.Command{
	Use:   "login <login>",
	Short: "Log in to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireTerminal(); err != nil {
			return err
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		if err := app.Login(cmd.Context(), args[0], password); err != nil {
			return err
		}

		fmt.Println("Logged in. Queued offline changes will sync automatically.")
		return nil
	},
}
