package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rios0rios0/upgradenotes/domain"
)

const (
	reportFileMode = 0o644
	reportDirMode  = 0o755
)

// Reporter renders the final upgrade report: a markdown file in the
// prepared output directory plus a summary table on the console.
type Reporter struct {
	dir string
	out io.Writer
	now func() time.Time
}

// NewReporter creates a reporter writing report files under dir.
func NewReporter(dir string) *Reporter {
	return &Reporter{dir: dir, out: os.Stdout, now: time.Now}
}

// NewReporterWith creates a reporter on the given writer. Used in tests.
func NewReporterWith(dir string, out io.Writer) *Reporter {
	return &Reporter{dir: dir, out: out, now: time.Now}
}

// Prepare creates the output directory. A failure here is fatal to the
// run.
func (r *Reporter) Prepare(_ context.Context) (string, error) {
	if err := os.MkdirAll(r.dir, reportDirMode); err != nil {
		return "", fmt.Errorf("failed to create report directory %q: %w", r.dir, err)
	}
	return r.dir, nil
}

// Report writes the markdown report and prints the console summary.
func (r *Reporter) Report(
	_ context.Context,
	candidates []*domain.PackageCandidate,
	enrichment *domain.EnrichmentResult,
) (string, error) {
	path := filepath.Join(r.dir, "upgrade-notes-"+r.now().Format("20060102-150405")+".md")

	content := renderMarkdown(candidates, enrichment)
	if err := os.WriteFile(path, []byte(content), reportFileMode); err != nil {
		return "", fmt.Errorf("failed to write report %q: %w", path, err)
	}

	r.printSummary(candidates)
	return path, nil
}

func (r *Reporter) printSummary(candidates []*domain.PackageCandidate) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tCURRENT\tLATEST\tTYPE\tSOURCE\tBREAKING\tSECURITY")
	for _, c := range candidates {
		fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			c.Name,
			c.Metadata.Current,
			c.Metadata.Latest,
			c.Metadata.UpdateType,
			sourceLabel(c),
			len(c.Notes.Fragments[domain.CategoryBreaking]),
			len(c.Notes.Fragments[domain.CategorySecurity]),
		)
	}
	w.Flush()
}

// sourceLabel renders the source column, substituting the reserved
// sentinel when no source won.
func sourceLabel(c *domain.PackageCandidate) string {
	if c.Source == domain.SourceUnknown {
		return domain.SentinelUnknown
	}
	return string(c.Source)
}

func renderMarkdown(
	candidates []*domain.PackageCandidate,
	enrichment *domain.EnrichmentResult,
) string {
	var sb strings.Builder
	sb.WriteString("# Upgrade notes\n\n")

	for _, c := range candidates {
		fmt.Fprintf(
			&sb, "## %s %s -> %s\n\n",
			c.Name, c.Metadata.Current, c.Metadata.Latest,
		)
		fmt.Fprintf(
			&sb, "Update type: %s (difficulty %d), source: %s\n\n",
			c.Metadata.UpdateType, c.Metadata.Difficulty, sourceLabel(c),
		)

		if c.Source == domain.SourceUnknown {
			sb.WriteString("No upgrade notes could be collected for this package.\n\n")
			continue
		}

		for _, cat := range domain.AllCategories() {
			fragments := c.Notes.Fragments[cat]
			if len(fragments) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "### %s\n\n", cat)
			for _, fragment := range fragments {
				fmt.Fprintf(&sb, "- %s\n", fragment)
			}
			sb.WriteString("\n")
		}

		if len(c.Notes.Terms) > 0 {
			fmt.Fprintf(&sb, "Important terms: %s\n\n", strings.Join(c.Notes.Terms, ", "))
		}
	}

	if enrichment != nil {
		fmt.Fprintf(&sb, "## AI findings (%s)\n\n%s\n", enrichment.Provider, enrichment.Findings)
	}

	return sb.String()
}
