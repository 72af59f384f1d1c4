package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/ytchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	apiURL     string
	historyDB  string
	noHistory  bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// cfg is loaded once per invocation in PersistentPreRunE
var cfg *internal.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytchat",
	Short: "Ask questions about YouTube videos from your terminal",
	Long: `ytchat sends a YouTube link to a video Q&A backend, waits for it to be
processed, and then lets you chat about the video.

Running ytchat with no command opens the interactive two-panel chat.

Quick Start:
  ytchat                                   # Interactive chat
  ytchat health                            # Is the backend reachable?
  ytchat ask --url <link> "What is it about?"
  ytchat history list                      # Past conversations

The backend address defaults to http://127.0.0.1:8000. Set it with --api-url,
YTCHAT_API_URL, or api_url in ~/.config/ytchat/config.yaml.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			loaded.APIURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
		}
		if historyDB != "" {
			loaded.History.Path = historyDB
		}
		if noHistory {
			disabled := false
			loaded.History.Enabled = &disabled
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		level, err := internal.ParseLogLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		internal.SetLogLevel(level)
		if verbose {
			internal.SetVerbose(true)
		}

		cfg = loaded
		internal.LogDebug("api_url=%s history=%v (%s)", cfg.APIURL, cfg.HistoryEnabled(), cfg.History.Path)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, "")
	},
}

// reportedError is a failure that has already been shown to the user
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/ytchat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (default http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "Path to the conversation history database")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not save conversations")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
