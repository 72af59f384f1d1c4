package cmd

import (
	"fmt"

	"github.com/iksnae/ytchat/internal"
	"github.com/spf13/cobra"
)

var validateFullID bool

// validateCmd checks links locally without contacting the backend
var validateCmd = &cobra.Command{
	Use:   "validate <youtube-url>...",
	Short: "Check YouTube links without contacting the backend",
	Long: `Extract the video ID from each link and report whether it is a YouTube
link ytchat can process. Nothing is sent to the backend.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		invalid := 0
		for _, arg := range args {
			id, ok := internal.ExtractVideoID(arg)
			if !ok {
				invalid++
				_, _ = fmt.Fprintf(out, "%s %s\n", errorStyle.Render("✗"), arg)
				continue
			}
			if !validateFullID {
				id = internal.FormatVideoID(id)
			}
			_, _ = fmt.Fprintf(out, "%s %s %s\n", successStyle.Render("✓"), arg, idStyle.Render(id))
		}

		if invalid > 0 {
			return reportedError{err: fmt.Errorf("%d of %d links are not valid YouTube URLs", invalid, len(args))}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateFullID, "full-id", false, "Print video IDs without truncation")
	rootCmd.AddCommand(validateCmd)
}
