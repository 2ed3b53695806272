package schedule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"heybuddy/internal/domain/schedule"
)

var ScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage schedule events",
}

func printEvent(e schedule.Event) {
	when := e.StartTime.Local().Format("Mon 2006-01-02 15:04")
	if e.AllDay {
		when = e.StartTime.Local().Format("Mon 2006-01-02") + " (all day)"
	} else if e.EndTime != nil {
		when += "-" + e.EndTime.Local().Format("15:04")
	}

	fmt.Printf("%s  %s  %s\n", color.CyanString(e.ID), when, color.New(color.Bold).Sprint(e.Title))
	if e.Location != "" {
		fmt.Printf("   at %s\n", e.Location)
	}
	if e.ReminderMinutes > 0 {
		fmt.Printf("   reminder %d min before\n", e.ReminderMinutes)
	}
}
