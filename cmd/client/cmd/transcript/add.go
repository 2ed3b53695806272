package transcript

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/transcript"
)

var (
	addLanguage string
	addDuration float64
	addSource   string
)

var AddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Store a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		created, err := app.Transcripts.Create(cmd.Context(), transcript.CreateParams{
			Text:            args[0],
			Language:        addLanguage,
			DurationSeconds: addDuration,
			Source:          addSource,
		})
		if err != nil {
			return err
		}

		fmt.Println("Stored transcript", created.ID)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addLanguage, "language", "", "transcript language code")
	AddCmd.Flags().Float64Var(&addDuration, "duration", 0, "recording length in seconds")
	AddCmd.Flags().StringVar(&addSource, "source", "", "where the audio came from")
}
