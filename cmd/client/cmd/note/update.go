package note

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/note"
)

var (
	updateTitle    string
	updateContent  string
	updateTags     string
	updateArchive  bool
	updateRestore  bool
	updateFavorite bool
	updateUnfavor  bool
)

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		var params note.UpdateParams
		if cmd.Flags().Changed("title") {
			params.Title = &updateTitle
		}
		if cmd.Flags().Changed("content") {
			params.Content = &updateContent
		}
		if cmd.Flags().Changed("tags") {
			tags := strings.Split(updateTags, ",")
			if updateTags == "" {
				tags = nil
			}
			params.Tags = &tags
		}
		if updateArchive || updateRestore {
			archived := updateArchive
			params.IsArchived = &archived
		}
		if updateFavorite || updateUnfavor {
			favorite := updateFavorite
			params.IsFavorite = &favorite
		}

		updated, err := app.Notes.Update(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}

		fmt.Println("Updated note", updated.ID)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	UpdateCmd.Flags().StringVarP(&updateContent, "content", "c", "", "new body")
	UpdateCmd.Flags().StringVar(&updateTags, "tags", "", "comma-separated tags")
	UpdateCmd.Flags().BoolVar(&updateArchive, "archive", false, "archive the note")
	UpdateCmd.Flags().BoolVar(&updateRestore, "restore", false, "unarchive the note")
	UpdateCmd.Flags().BoolVar(&updateFavorite, "favorite", false, "mark as favorite")
	UpdateCmd.Flags().BoolVar(&updateUnfavor, "unfavorite", false, "remove favorite mark")
}
