// Package console implements the interactive collaborators: the
// confirmation gate, the per-package selector, and the report renderer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks yes/no questions on an interactive terminal.
type Confirmer struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConfirmer creates a confirmer on stdin/stdout.
func NewConfirmer() *Confirmer {
	return NewConfirmerWith(os.Stdin, os.Stdout)
}

// NewConfirmerWith creates a confirmer on the given streams. Used in tests.
func NewConfirmerWith(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewScanner(in), out: out}
}

// Confirm prints the prompt and reads one answer. Only "y"/"yes"
// (case-insensitive) count as confirmation; EOF counts as "no".
func (c *Confirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes", nil
}
