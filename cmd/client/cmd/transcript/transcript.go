package transcript

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"heybuddy/internal/domain/transcript"
)

var TranscriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Manage voice transcripts",
}

func printTranscript(tr transcript.Transcript) {
	meta := tr.CreatedAt.Local().Format("2006-01-02 15:04")
	if tr.Language != "" {
		meta += "  " + tr.Language
	}
	if tr.DurationSeconds > 0 {
		meta += fmt.Sprintf("  %.1fs", tr.DurationSeconds)
	}
	fmt.Printf("%s  %s\n   %s\n", color.CyanString(tr.ID), meta, tr.Text)
}
