// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLineConfirmer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lower y", "y\n", true},
		{"upper Y", "Y\n", true},
		{"crlf", "y\r\n", true},
		{"no newline", "Y", true},
		{"empty line", "\n", false},
		{"eof", "", false},
		{"yes", "yes\n", false},
		{"n", "n\n", false},
		{"only first line counts", "n\ny\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			c := NewLineConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), Prompt("2.3.0"))
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Publishing v2.3.0, do you want to continue? [y/N]: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestLineConfirmerReadError(t *testing.T) {
	t.Parallel()

	c := NewLineConfirmer(errReader{}, io.Discard)
	if _, err := c.Confirm(context.Background(), "? "); err == nil {
		t.Error("Confirm() error = nil")
	}
}

func TestLineConfirmerCancelled(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewLineConfirmer(pr, io.Discard)
	if _, err := c.Confirm(ctx, "? "); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLineConfirmerReusableAfterCancel(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	c := NewLineConfirmer(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Confirm(ctx, "? "); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	go func() { _, _ = io.WriteString(pw, "y\n") }()
	got, err := c.Confirm(context.Background(), "? ")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !got {
		t.Error("Confirm() = false after cancelled prompt, want true")
	}
}

func TestLineConfirmerAfterEOF(t *testing.T) {
	t.Parallel()

	c := NewLineConfirmer(strings.NewReader("y\n"), io.Discard)
	for i, want := range []bool{true, false, false} {
		got, err := c.Confirm(context.Background(), "? ")
		if err != nil {
			t.Fatalf("Confirm() #%d error = %v", i, err)
		}
		if got != want {
			t.Errorf("Confirm() #%d = %v, want %v", i, got, want)
		}
	}
}
