package sync

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/app/client"
)

var (
	showStatus      bool
	showDeadLetters bool
	fullSync        bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued changes to the server",
	Long: `Drain the outbox queue against the server. With --full the local
dataset is first replaced by the server copy, then the queue is drained.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		if showStatus {
			return printStatus(cmd, app)
		}
		if showDeadLetters {
			return printDeadLetters(cmd, app)
		}

		if !app.IsAuthenticated() && !app.Config.OfflineMode {
			return fmt.Errorf("authentication required, run: heybuddy auth login")
		}

		start := time.Now()
		if fullSync {
			result, err := app.Coordinator.FullSync(cmd.Context(), "")
			if err != nil {
				return err
			}
			fmt.Printf("Pulled %d records from the server\n", result.Pulled)
			if result.Drain != nil {
				printDrain(result.Drain.Attempted, result.Drain.Sent,
					result.Drain.Failed, result.Drain.Dropped)
			}
		} else {
			result, err := app.Coordinator.Drain(cmd.Context())
			if err != nil {
				return err
			}
			printDrain(result.Attempted, result.Sent, result.Failed, result.Dropped)
		}

		fmt.Printf("Done in %v\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func printDrain(attempted, sent, failed, dropped int) {
	if attempted == 0 {
		fmt.Println("Queue is empty, nothing to send.")
		return
	}
	fmt.Printf("Sent %s of %d queued changes\n",
		color.GreenString("%d", sent), attempted)
	if failed > 0 {
		fmt.Printf("%s will be retried on the next sync\n",
			color.YellowString("%d", failed))
	}
	if dropped > 0 {
		fmt.Printf("%s gave up after repeated failures, see: heybuddy sync --dead-letters\n",
			color.RedString("%d", dropped))
	}
}

func printStatus(cmd *cobra.Command, app *client.App) error {
	status, err := app.Coordinator.Status(cmd.Context())
	if err != nil {
		return err
	}

	online := color.RedString("offline")
	if status.Online {
		online = color.GreenString("online")
	}
	fmt.Println("Server:        ", online)
	fmt.Println("Queued changes:", status.Pending)
	fmt.Println("Dead letters:  ", status.DeadLetters)
	if status.LastSync != nil {
		fmt.Println("Last full sync:", status.LastSync.Local().Format(time.RFC822))
	} else {
		fmt.Println("Last full sync: never")
	}
	return nil
}

func printDeadLetters(cmd *cobra.Command, app *client.App) error {
	letters, err := app.Queue.ListDeadLetters(cmd.Context())
	if err != nil {
		return err
	}
	if len(letters) == 0 {
		fmt.Println("No dead letters.")
		return nil
	}

	for _, dl := range letters {
		fmt.Printf("%s %s %s/%s  %s\n",
			color.RedString("dead"), dl.Entry.Operation, dl.Entry.Table,
			dl.Entry.RecordID(), dl.DeadAt.Local().Format(time.RFC822))
		fmt.Printf("   reason: %s\n", dl.Reason)
	}
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "show sync status")
	SyncCmd.Flags().BoolVar(&showDeadLetters, "dead-letters", false, "list permanently failed changes")
	SyncCmd.Flags().BoolVar(&fullSync, "full", false, "pull server state before draining")
}
