package note

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"heybuddy/internal/domain/note"
)

var NoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

func printNote(n note.Note) {
	title := color.New(color.Bold).Sprint(n.Title)
	if n.IsFavorite {
		title = color.YellowString("*") + " " + title
	}
	fmt.Printf("%s  %s\n", color.CyanString(n.ID), title)
	if n.Content != "" {
		fmt.Printf("   %s\n", n.Content)
	}
	if len(n.Tags) > 0 {
		fmt.Printf("   tags: %v\n", n.Tags)
	}
	fmt.Printf("   updated %s  %s\n",
		n.UpdatedAt.Local().Format(time.RFC822), syncMark(n))
}

func syncMark(n note.Note) string {
	if n.Synced() {
		return color.GreenString("synced")
	}
	return color.YellowString("pending sync")
}
