package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Logout(); err != nil {
			return err
		}

		fmt.Println("Logged out.")
		return nil
	},
}
