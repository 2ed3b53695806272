package note

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/note"
)

var (
	createContent  string
	createTags     string
	createColor    string
	createFavorite bool
)

var CreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		var tags []string
		if createTags != "" {
			tags = strings.Split(createTags, ",")
		}

		created, err := app.Notes.Create(cmd.Context(), note.CreateParams{
			Title:      args[0],
			Content:    createContent,
			Tags:       tags,
			Color:      createColor,
			IsFavorite: createFavorite,
		})
		if err != nil {
			return err
		}

		fmt.Println("Created note", created.ID)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createContent, "content", "c", "", "note body")
	CreateCmd.Flags().StringVar(&createTags, "tags", "", "comma-separated tags")
	CreateCmd.Flags().StringVar(&createColor, "color", "", "display color")
	CreateCmd.Flags().BoolVar(&createFavorite, "favorite", false, "mark as favorite")
}
