package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_MessageIsLiteral(t *testing.T) {
	if isTerminal(os.Stderr) {
		t.Skip("stderr is a terminal; the spinner path is covered separately")
	}
	var buf bytes.Buffer
	originalLevel := logLevel
	SetLogOutput(&buf)
	SetLogLevel(LogLevelInfo)
	defer func() {
		SetLogOutput(os.Stderr)
		SetLogLevel(originalLevel)
	}()

	if err := ShowProgress(context.Background(), "Processing 100% of video %s", func() error { return nil }); err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Processing 100% of video %s") {
		t.Errorf("log output = %q, want the message verbatim", buf.String())
	}
}

func TestShowProgressSpinner_Result(t *testing.T) {
	var buf bytes.Buffer
	err := showProgressSpinner(context.Background(), &buf, "Processing video...", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showProgressSpinner() error = %v", err)
	}
	if !strings.Contains(buf.String(), "✓") || !strings.HasSuffix(buf.String(), "Processing video...\n") {
		t.Errorf("output = %q, want a success line", buf.String())
	}

	buf.Reset()
	want := errors.New("boom")
	err = showProgressSpinner(context.Background(), &buf, "Thinking...", func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("showProgressSpinner() error = %v, want %v", err, want)
	}
	if !strings.Contains(buf.String(), "✗") {
		t.Errorf("output = %q, want a failure line", buf.String())
	}
}

func TestShowProgressSpinner_WaitsForFn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	finished := false

	err := showProgressSpinner(ctx, &buf, "Cancelling", func() error {
		cancel()
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished = true
		return ctx.Err()
	})

	if !finished {
		t.Error("showProgressSpinner() returned before fn finished")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
