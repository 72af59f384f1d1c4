package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/ytchat/internal"
	"github.com/iksnae/ytchat/internal/tui"
	"github.com/spf13/cobra"
)

var chatURL string

// errNoTerminal is returned when the interactive shell cannot take over the screen
var errNoTerminal = errors.New("chat needs an interactive terminal; use `ytchat ask` instead")

// chatCmd opens the interactive two-panel shell
var chatCmd = &cobra.Command{
	Use:   "chat [youtube-url]",
	Short: "Open the interactive chat",
	Long: `Open the two-panel chat. Paste a YouTube link in the video panel, wait
for it to be processed, then ask questions in the chat panel.

Keys: enter submit, tab switch panel, ctrl+r re-check the backend, esc quit.
Logs go to ytchat.log in the cache directory while the chat is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := chatURL
		if len(args) == 1 {
			url = args[0]
		}
		return runChat(cmd, url)
	},
}

func runChat(cmd *cobra.Command, initialURL string) error {
	if !internal.IsTerminal(os.Stdout) {
		return errNoTerminal
	}

	logFile, err := openLogFile()
	if err != nil {
		internal.LogWarn("Logging to stderr: %v", err)
	} else {
		internal.SetLogOutput(logFile)
		defer func() {
			internal.SetLogOutput(os.Stderr)
			_ = logFile.Close()
		}()
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	store := openArchive()
	opts := []internal.ShellOption{}
	if store != nil {
		opts = append(opts, internal.WithArchive(store))
	}
	// the chat is fire-once-await-once: no request timeout
	shell := internal.NewShell(internal.NewAPIClient(cfg.APIURL), cfg.APIURL, opts...)

	var modelOpts []tui.Option
	if initialURL != "" {
		modelOpts = append(modelOpts, tui.WithInitialURL(initialURL))
	}

	program := tea.NewProgram(
		tui.New(ctx, shell, modelOpts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, runErr := program.Run()

	transcript := shell.Transcript()
	saveErr := closeShell(shell, store)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("chat: %w", runErr)
	}
	if store != nil {
		printSaved(cmd.OutOrStdout(), transcript, saveErr)
	}
	return nil
}

func openLogFile() (*os.File, error) {
	dir := internal.DefaultDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "ytchat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func init() {
	chatCmd.Flags().StringVar(&chatURL, "url", "", "Process this YouTube link as soon as the chat opens")
	rootCmd.AddCommand(chatCmd)
}
