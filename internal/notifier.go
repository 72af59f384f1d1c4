package internal

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ToastKind is the severity of an ephemeral notification
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}

// ToastTTL is how long a toast stays on screen in the interactive shell
const ToastTTL = 4 * time.Second

// Toast is a short-lived, page-level notification
type Toast struct {
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
}

// NewToast stamps a toast with the current time
func NewToast(kind ToastKind, message string) Toast {
	return Toast{Kind: kind, Message: message, CreatedAt: time.Now()}
}

// Expired reports whether the toast has outlived ToastTTL at now
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= ToastTTL
}

// Notifier displays toasts
type Notifier interface {
	Notify(t Toast)
}

// ConsoleNotifier prints toasts as styled lines, like the progress helpers
type ConsoleNotifier struct {
	out io.Writer
	err io.Writer
}

// NewConsoleNotifier writes success/info toasts to out and errors to errOut
func NewConsoleNotifier(out, errOut io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &ConsoleNotifier{out: out, err: errOut}
}

// Notify prints t
func (n *ConsoleNotifier) Notify(t Toast) {
	switch t.Kind {
	case ToastError:
		printStyled(n.err, errorStyle, "✗", t.Message)
	case ToastSuccess:
		printStyled(n.out, successStyle, "✓", t.Message)
	default:
		printStyled(n.out, progressStyle, "ℹ", t.Message)
	}
}

func printStyled(w io.Writer, style interface{ Render(...string) string }, symbol, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", style.Render(symbol), message)
		return
	}
	fmt.Fprintln(w, message)
}
