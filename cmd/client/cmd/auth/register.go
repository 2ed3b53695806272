package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var RegisterCmd = &cobra.Command{
	Use:   "register <login>",
	Short: "Create an account on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireTerminal(); err != nil {
			return err
		}

		password, err := confirmPassword()
		if err != nil {
			return err
		}

		if err := app.Register(cmd.Context(), args[0], password); err != nil {
			return err
		}

		fmt.Println("Account created. Log in with: heybuddy auth login", args[0])
		return nil
	},
}
