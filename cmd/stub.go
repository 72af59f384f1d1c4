package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/ytchat/internal/stub"
	"github.com/spf13/cobra"
)

var (
	stubAddr        string
	stubLatency     time.Duration
	stubOmitVideoID bool
)

// stubCmd runs a local stand-in for the video Q&A backend
var stubCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local stand-in backend for development",
	Long: `Serve the backend API (/health, /process-video, /query, /video-info) with
canned answers so the client can be tried without the real service.
Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := stubAddr
		if addr == "" {
			addr = cfg.Stub.Addr
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		server := stub.New(stub.Config{Latency: stubLatency, OmitVideoID: stubOmitVideoID})
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stub backend listening on %s\n", infoStyle.Render("http://"+addr))
		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8000)")
	stubCmd.Flags().DurationVar(&stubLatency, "latency", 0, "Delay every process and query response")
	stubCmd.Flags().BoolVar(&stubOmitVideoID, "omit-video-id", false, "Only report the video ID inside video_info")
	rootCmd.AddCommand(stubCmd)
}
