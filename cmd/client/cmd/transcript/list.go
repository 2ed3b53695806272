package transcript

import (
	"fmt"

	"github.com/spf13/cobra"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/domain/transcript"
)

var (
	listLanguage string
	listSearch   string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transcripts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}

		transcripts, err := app.Transcripts.List(cmd.Context(), transcript.Filter{
			Language: listLanguage,
			Search:   listSearch,
		})
		if err != nil {
			return err
		}
		if len(transcripts) == 0 {
			fmt.Println("No transcripts.")
			return nil
		}

		for _, tr := range transcripts {
			printTranscript(tr)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVar(&listLanguage, "language", "", "filter by language")
	ListCmd.Flags().StringVar(&listSearch, "search", "", "search in transcript text")
}
