package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/ytchat/internal"
	"github.com/spf13/cobra"
)

var (
	askURL string
	askRaw bool
)

// askCmd processes a video and asks one question about it
var askCmd = &cobra.Command{
	Use:   "ask --url <youtube-url> <question>",
	Short: "Ask one question about a video",
	Long: `Process the video given by --url, then ask a single question and print
the answer. Answers are rendered as Markdown on a terminal; use --raw for
plain text.

The exchange is saved to history unless --no-history is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if internal.QuestionTooShort(question) {
			return &internal.ValidationError{
				Field:   "question",
				Message: fmt.Sprintf("Question must be at least %d characters", internal.MinQuestionLength),
			}
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		store := openArchive()
		shell := newShell(newClient(), out, cmd.ErrOrStderr(), store)
		defer func() { _ = closeShell(shell, store) }()

		var submitted internal.SubmitOutcome
		_ = internal.ShowProgress(ctx, "Processing video...", func() error {
			submitted = shell.SubmitVideo(ctx, askURL)
			return submitted.Err
		})
		if submitted.Err != nil {
			return reportedError{err: submitted.Err}
		}

		var answered internal.AskOutcome
		_ = internal.ShowProgress(ctx, "Thinking...", func() error {
			answered = shell.AskQuestion(ctx, question)
			return answered.Err
		})

		_, _ = fmt.Fprintln(out)
		if answered.Reply.Content != "" {
			renderMarkdown(out, answered.Reply.Content, askRaw)
		}
		if answered.Err != nil {
			return reportedError{err: answered.Err}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askURL, "url", "", "YouTube link to ask about (required)")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the answer without Markdown rendering")
	_ = askCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(askCmd)
}
