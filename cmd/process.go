package cmd

import (
	"fmt"

	"github.com/iksnae/ytchat/internal"
	"github.com/spf13/cobra"
)

var processFullID bool

// processCmd submits one video for processing
var processCmd = &cobra.Command{
	Use:   "process <youtube-url>",
	Short: "Send a video to the backend for processing",
	Long: `Validate a YouTube link locally, then ask the backend to process it.

Accepted shapes: youtube.com/watch?v=ID, youtu.be/ID, youtube.com/embed/ID
and youtube.com/v/ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		shell := newShell(newClient(), out, cmd.ErrOrStderr(), nil)

		var outcome internal.SubmitOutcome
		_ = internal.ShowProgress(ctx, "Processing video...", func() error {
			outcome = shell.SubmitVideo(ctx, args[0])
			return outcome.Err
		})
		if outcome.Err != nil {
			return reportedError{err: outcome.Err}
		}

		videoID := outcome.Session.VideoID
		if !processFullID {
			videoID = internal.FormatVideoID(videoID)
		}
		_, _ = fmt.Fprintf(out, "Video ID: %s\n", idStyle.Render(videoID))
		return nil
	},
}

func init() {
	processCmd.Flags().BoolVar(&processFullID, "full-id", false, "Print the video ID without truncation")
	rootCmd.AddCommand(processCmd)
}
