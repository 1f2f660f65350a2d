// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

type (
	// Confirmer asks the operator a yes/no question.
	Confirmer interface {
		Confirm(ctx context.Context, prompt string) (bool, error)
	}

	// LineConfirmer prints the prompt and reads a single line. Only "y" or
	// "Y", ignoring surrounding whitespace, is affirmative. End of input
	// counts as an empty answer.
	LineConfirmer struct {
		in      *bufio.Reader
		out     io.Writer
		once    sync.Once
		answers chan lineAnswer
		readErr error
	}

	lineAnswer struct {
		line string
		err  error
	}

	// ConfirmFunc adapts a function to Confirmer.
	ConfirmFunc func(ctx context.Context, prompt string) (bool, error)
)

// NewLineConfirmer creates a confirmer over in and out.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer. It blocks until a line arrives or ctx is
// done. A line typed after a cancelled prompt answers the next one.
func (c *LineConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.once.Do(c.startReader)

	if _, err := io.WriteString(c.out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-c.answers:
		if !ok {
			// The reader stopped; readErr is set before the channel closes.
			a = lineAnswer{err: c.readErr}
		}
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("read confirmation: %w", a.err)
		}
		return IsAffirmative(a.line), nil
	}
}

// startReader runs the only goroutine that touches in. It delivers one line
// per prompt until a read fails.
func (c *LineConfirmer) startReader() {
	c.answers = make(chan lineAnswer)
	go func() {
		for {
			line, err := c.in.ReadString('\n')
			if err != nil {
				c.readErr = err
				if line != "" {
					c.answers <- lineAnswer{line: line, err: err}
				}
				close(c.answers)
				return
			}
			c.answers <- lineAnswer{line: line}
		}
	}()
}

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// IsAffirmative reports whether answer confirms.
func IsAffirmative(answer string) bool {
	a := strings.TrimSpace(answer)
	return a == "y" || a == "Y"
}

// Prompt returns the confirmation question for version.
func Prompt(version string) string {
	return fmt.Sprintf("Publishing v%s, do you want to continue? [y/N]: ", version)
}
