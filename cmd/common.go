package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ytchat/internal"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

// signalContext is cancelled on interrupt so in-flight requests stop with the process
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newClient builds the backend client for one-shot commands
func newClient() *internal.APIClient {
	return internal.NewAPIClient(cfg.APIURL, internal.WithTimeout(cfg.RequestTimeout))
}

// openArchive opens the history store, or returns nil when history is off
// or unavailable
func openArchive() *internal.HistoryStore {
	if !cfg.HistoryEnabled() {
		return nil
	}
	store, err := internal.OpenHistory(cfg.History.Path)
	if err != nil {
		internal.LogWarn("Conversation history disabled: %v", err)
		return nil
	}
	return store
}

// newShell wires a shell to backend, printing toasts to the command's streams
func newShell(backend internal.Backend, out, errOut io.Writer, store *internal.HistoryStore) *internal.Shell {
	opts := []internal.ShellOption{internal.WithNotifier(internal.NewConsoleNotifier(out, errOut))}
	if store != nil {
		opts = append(opts, internal.WithArchive(store))
	}
	return internal.NewShell(backend, cfg.APIURL, opts...)
}

// closeShell archives the conversation, closes the store and returns the
// archive error, if any
func closeShell(shell *internal.Shell, store *internal.HistoryStore) error {
	saveErr := shell.Close()
	if saveErr != nil {
		internal.LogWarn("Failed to save conversation: %v", saveErr)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			internal.LogDebug("close history: %v", err)
		}
	}
	return saveErr
}

// printSaved confirms an archived conversation; nothing is printed when
// there was nothing to save or saving failed
func printSaved(w io.Writer, transcript *internal.Transcript, saveErr error) {
	if transcript == nil || saveErr != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Conversation saved: %s\n", idStyle.Render(transcript.ID))
}

// renderMarkdown prints content through glamour on a terminal and as-is otherwise
func renderMarkdown(w io.Writer, content string, raw bool) {
	if raw || !internal.IsTerminal(w) {
		_, _ = fmt.Fprintln(w, content)
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(w)),
	)
	if err != nil {
		internal.LogDebug("markdown renderer: %v", err)
		_, _ = fmt.Fprintln(w, content)
		return
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		internal.LogDebug("markdown render: %v", err)
		_, _ = fmt.Fprintln(w, content)
		return
	}
	_, _ = fmt.Fprint(w, rendered)
}

func terminalWidth(w io.Writer) int {
	const fallback = 80
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	if width > 120 {
		return 120
	}
	return width - 4
}
