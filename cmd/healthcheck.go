package cmd

import (
	"errors"
	"fmt"

	"github.com/iksnae/ytchat/internal"
	"github.com/spf13/cobra"
)

// healthcheckCmd represents the health command
var healthcheckCmd = &cobra.Command{
	Use:     "health",
	Aliases: []string{"healthcheck"},
	Short:   "Check that the video Q&A backend is reachable",
	Long: `Probe the backend's /health endpoint once and report whether it is online.

Exits non-zero when the backend cannot be reached, so it can gate scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("Backend Health Check"))
		_, _ = fmt.Fprintln(out, infoStyle.Render("API: "+cfg.APIURL))

		client := newClient()
		var resp *internal.HealthResponse
		err := internal.ShowProgress(ctx, "Checking backend...", func() error {
			var probeErr error
			resp, probeErr = client.CheckHealth(ctx)
			return probeErr
		})
		if err != nil {
			internal.LogDebug("health probe failed: %v", err)
			_, _ = fmt.Fprintln(out, errorStyle.Render("✗ offline"))
			_, _ = fmt.Fprintf(out, "Backend API is not accessible. Please ensure it's running on %s\n", cfg.APIURL)
			var reqErr *internal.RequestError
			if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
				_, _ = fmt.Fprintf(out, "   status %d %s\n", reqErr.StatusCode, reqErr.Detail)
			}
			return reportedError{err: err}
		}

		_, _ = fmt.Fprintln(out, successStyle.Render("✓ online"))
		if resp.Status != "" {
			_, _ = fmt.Fprintf(out, "   status: %s\n", resp.Status)
		}
		if resp.Message != "" {
			_, _ = fmt.Fprintf(out, "   message: %s\n", resp.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
