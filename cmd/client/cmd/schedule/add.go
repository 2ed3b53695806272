package schedule

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/schedule"
)

var (
	addDescription string
	addStart       string
	addEnd         string
	addLocation    string
	addAllDay      bool
	addReminder    int
)

var AddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a schedule event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		start, err := parseWhen(addStart)
		if err != nil {
			return err
		}

		params := schedule.CreateParams{
			Title:           args[0],
			Description:     addDescription,
			StartTime:       start,
			Location:        addLocation,
			AllDay:          addAllDay,
			ReminderMinutes: addReminder,
		}
		if addEnd != "" {
			end, err := parseWhen(addEnd)
			if err != nil {
				return err
			}
			params.EndTime = &end
		}

		created, err := app.Schedules.Create(cmd.Context(), params)
		if err != nil {
			return err
		}

		fmt.Println("Added event", created.ID)
		return nil
	},
}

func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

func init() {
	AddCmd.Flags().StringVarP(&addDescription, "description", "d", "", "event details")
	AddCmd.Flags().StringVar(&addStart, "start", "", "start time (required)")
	AddCmd.Flags().StringVar(&addEnd, "end", "", "end time")
	AddCmd.Flags().StringVar(&addLocation, "location", "", "event location")
	AddCmd.Flags().BoolVar(&addAllDay, "all-day", false, "all-day event")
	AddCmd.Flags().IntVar(&addReminder, "reminder", 0, "reminder minutes before start")
	AddCmd.MarkFlagRequired("start")
}
