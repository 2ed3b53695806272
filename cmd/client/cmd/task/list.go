package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/task"
)

var (
	listStatus   string
	listPriority string
	listOverdue  bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		tasks, err := app.Tasks.List(cmd.Context(), task.Filter{
			Status:   task.Status(listStatus),
			Priority: task.Priority(listPriority),
			Overdue:  listOverdue,
		})
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		for _, t := range tasks {
			printTask(t)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVar(&listStatus, "status", "", "pending, in_progress, completed or cancelled")
	ListCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "low, medium or high")
	ListCmd.Flags().BoolVar(&listOverdue, "overdue", false, "overdue tasks only")
}
