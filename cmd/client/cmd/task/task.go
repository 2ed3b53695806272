package task

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"heybuddy/internal/domain/task"
)

var TaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

func printTask(t task.Task) {
	mark := "[ ]"
	switch t.Status {
	case task.StatusCompleted:
		mark = color.GreenString("[x]")
	case task.StatusInProgress:
		mark = color.BlueString("[~]")
	case task.StatusCancelled:
		mark = color.New(color.Faint).Sprint("[-]")
	}

	line := fmt.Sprintf("%s %s  %s", mark, color.CyanString(t.ID), t.Title)
	if t.Priority == task.PriorityHigh {
		line += " " + color.RedString("(high)")
	}
	if t.DueDate != nil {
		due := t.DueDate.Local().Format("2006-01-02 15:04")
		if t.Overdue(time.Now()) {
			due = color.RedString(due + " overdue")
		}
		line += "  due " + due
	}
	fmt.Println(line)
}
