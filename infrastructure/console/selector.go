package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rios0rios0/upgradenotes/domain"
)

// Selector interactively picks the packages to update, one prompt per
// candidate.
type Selector struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewSelector creates a selector on stdin/stdout.
func NewSelector() *Selector {
	return NewSelectorWith(os.Stdin, os.Stdout)
}

// NewSelectorWith creates a selector on the given streams. Used in tests.
func NewSelectorWith(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewScanner(in), out: out}
}

// Select asks a yes/no question per candidate and returns the confirmed
// subset, in candidate-list order. EOF stops prompting and keeps what
// was selected so far.
func (s *Selector) Select(
	_ context.Context,
	candidates []*domain.PackageCandidate,
) ([]*domain.PackageCandidate, error) {
	selected := []*domain.PackageCandidate{}

	for _, candidate := range candidates {
		fmt.Fprintf(
			s.out, "Update %s %s -> %s (%s)? [y/N] ",
			candidate.Name,
			candidate.Metadata.Current,
			candidate.Metadata.Latest,
			candidate.Metadata.UpdateType,
		)

		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return nil, fmt.Errorf("failed to read selection: %w", err)
			}
			break
		}

		answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
		if answer == "y" || answer == "yes" {
			selected = append(selected, candidate)
		}
	}

	return selected, nil
}
