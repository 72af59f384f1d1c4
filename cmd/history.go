package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/ytchat/internal"
	"github.com/iksnae/ytchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRaw   bool
	exportFormat string
	exportOutput string
	exportID     string
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// historyCmd groups the saved-conversation commands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export saved conversations",
	Long: `Conversations are saved when you switch to another video or leave the
chat. They live in a SQLite database (see --history-db).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.OpenHistory(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		summaries, err := store.ListTranscripts(historyLimit)
		if err != nil {
			return err
		}
		displaySummaries(cmd.OutOrStdout(), summaries)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Show one saved conversation",
	Long:  `Show a saved conversation. The ID may be shortened to any unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.OpenHistory(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		transcript, err := store.LoadTranscript(args[0])
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := (&export.MarkdownExporter{}).Export(transcript, &buf); err != nil {
			return err
		}
		renderMarkdown(cmd.OutOrStdout(), buf.String(), historyRaw)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved conversations to files",
	Long: `Export saved conversations as md, jsonl, json or yaml. Each conversation
is written to <video-id>_<conversation-id>.<ext> in the output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		store, err := internal.OpenHistory(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		var transcripts []*internal.Transcript
		if exportID != "" {
			t, err := store.LoadTranscript(exportID)
			if err != nil {
				return err
			}
			transcripts = []*internal.Transcript{t}
		} else {
			transcripts, err = store.LoadAllTranscripts()
			if err != nil {
				return err
			}
		}

		if err := os.MkdirAll(exportOutput, 0755); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: exportOutput, Err: err}
		}

		out := cmd.OutOrStdout()
		for _, t := range transcripts {
			path := filepath.Join(exportOutput, export.FileName(t, exporter))
			if err := writeExport(exporter, t, path); err != nil {
				return err
			}
			internal.LogDebug("exported %s to %s", t.ID, path)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Exported %d conversation(s) to %s", len(transcripts), exportOutput)))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.OpenHistory(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		transcript, err := store.LoadTranscript(args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteTranscript(transcript.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", idStyle.Render(transcript.ID))
		return nil
	},
}

func writeExport(exporter export.Exporter, t *internal.Transcript, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(t, f); err != nil {
		_ = f.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func displaySummaries(out io.Writer, summaries []internal.TranscriptSummary) {
	if len(summaries) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("No saved conversations"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(summaries))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Video")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")

	for _, sum := range summaries {
		title := sum.Title
		if title == "" {
			title = "—"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(sum.ID),
			internal.FormatVideoID(sum.VideoID),
			internal.FormatVideoIDN(title, 40),
			countStyle.Render(strconv.Itoa(sum.MessageCount)),
			dateStyle.Render(humanize.Time(sum.UpdatedAt)),
		)
	}
	_ = w.Flush()
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum conversations to list (0 for all)")
	historyShowCmd.Flags().BoolVar(&historyRaw, "raw", false, "Print Markdown without rendering")
	historyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: md, jsonl, json, yaml")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "Output directory")
	historyExportCmd.Flags().StringVar(&exportID, "id", "", "Export only this conversation")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
