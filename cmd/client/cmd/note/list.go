package note

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/note"
)

var (
	listArchived  bool
	listFavorites bool
	listTag       string
	listSearch    string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		filter := note.Filter{Tag: listTag, Search: listSearch}
		if !listArchived {
			archived := false
			filter.Archived = &archived
		}
		if listFavorites {
			favorite := true
			filter.Favorite = &favorite
		}

		notes, err := app.Notes.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}

		for _, n := range notes {
			printNote(n)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().BoolVar(&listArchived, "archived", false, "include archived notes")
	ListCmd.Flags().BoolVar(&listFavorites, "favorites", false, "favorites only")
	ListCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
	ListCmd.Flags().StringVar(&listSearch, "search", "", "search in title and content")
}
