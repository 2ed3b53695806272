package schedule

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/schedule"
)

var (
	listDays int
	listAll  bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming events",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		var events []schedule.Event
		if listAll {
			events, err = app.Schedules.ListRange(cmd.Context(), time.Time{}, time.Time{})
		} else {
			events, err = app.Schedules.Upcoming(cmd.Context(), time.Duration(listDays)*24*time.Hour)
		}
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}

		for _, e := range events {
			printEvent(e)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().IntVar(&listDays, "days", 7, "look-ahead window in days")
	ListCmd.Flags().BoolVar(&listAll, "all", false, "list every stored event")
}
