package task

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/task"
)

var (
	addDescription string
	addPriority    string
	addDue         string
)

var AddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		params := task.CreateParams{
			Title:       args[0],
			Description: addDescription,
			Priority:    task.Priority(addPriority),
		}
		if addDue != "" {
			due, err := parseDue(addDue)
			if err != nil {
				return err
			}
			params.DueDate = &due
		}

		created, err := app.Tasks.Create(cmd.Context(), params)
		if err != nil {
			return err
		}

		fmt.Println("Added task", created.ID)
		return nil
	},
}

func parseDue(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

func init() {
	AddCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task details")
	AddCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "low, medium or high")
	AddCmd.Flags().StringVar(&addDue, "due", "", "due date")
}
