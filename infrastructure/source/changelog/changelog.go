// Package changelog fetches and parses a raw changelog document from the
// candidate's fallback URL. It is the first fallback in the chain.
package changelog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
)

const fetcherName = "changelog"

// fileNames are the changelog document names tried at the repository
// root, in order.
var fileNames = []string{
	"CHANGELOG.md",
	"CHANGELOG.markdown",
	"CHANGES.md",
	"HISTORY.md",
}

// headingPattern matches versioned changelog headings like
// "## [1.2.3] - 2024-01-01", "## v1.2.3" or "# 1.2.3".
var headingPattern = regexp.MustCompile(`^#{1,3}\s*\[?v?(\d+\.\d+\.\d+[0-9A-Za-z.+-]*)\]?`)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Fetcher implements domain.SourceFetcher over raw changelog documents.
type Fetcher struct {
	client *retryablehttp.Client
}

// New creates a changelog fetcher. Retries are disabled: the fallback
// design is fast-fail, one attempt per source.
func New(timeout time.Duration) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	return &Fetcher{client: client}
}

func (f *Fetcher) Name() string                  { return fetcherName }
func (f *Fetcher) Outcome() domain.SourceOutcome { return domain.SourceChangelog }

// Applicable requires the capability flag and a fallback URL that
// resolves to a repository root.
func (f *Fetcher) Applicable(candidate *domain.PackageCandidate) bool {
	if !candidate.Metadata.HasChangelog {
		return false
	}
	return source.RepositoryRoot(candidate.Metadata.FallbackURL) != ""
}

// Fetch downloads the repository's changelog document and extracts the
// sections whose version falls in (current, latest].
func (f *Fetcher) Fetch(
	ctx context.Context,
	candidate *domain.PackageCandidate,
) ([]domain.NormalizedEntry, error) {
	root := source.RepositoryRoot(candidate.Metadata.FallbackURL)
	if root == "" {
		return nil, fmt.Errorf("fallback URL %q has no repository root", candidate.Metadata.FallbackURL)
	}

	document, err := f.download(ctx, root)
	if err != nil {
		return nil, err
	}

	return ParseChangelog(document, candidate.Metadata.Current, candidate.Metadata.Latest), nil
}

// download tries the known changelog file names against the raw-content
// endpoint of the repository root. The first 200 wins.
func (f *Fetcher) download(ctx context.Context, root string) (string, error) {
	var lastErr error
	for _, name := range fileNames {
		body, err := f.get(ctx, rawURL(root, name))
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("no changelog document found at %s: %w", root, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %q: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %q returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", url, err)
	}
	return string(body), nil
}

// rawURL builds the raw-content URL for a file at the repository root.
// GitHub serves raw files from a separate host; other forges expose a
// /raw/<ref> path under the repository.
func rawURL(root, name string) string {
	if strings.HasPrefix(root, "https://github.com/") {
		return strings.Replace(root, "https://github.com/", "https://raw.githubusercontent.com/", 1) +
			"/HEAD/" + name
	}
	return root + "/raw/HEAD/" + name
}

// ParseChangelog splits a Keep-a-Changelog style document into one entry
// per versioned heading, keeping only versions in (current, latest].
// Sections appear in document order.
func ParseChangelog(document, current, latest string) []domain.NormalizedEntry {
	var entries []domain.NormalizedEntry
	var active *domain.NormalizedEntry
	var body []string

	flush := func() {
		if active == nil {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" {
			text = domain.PlaceholderNoteText
		}
		active.Text = text
		entries = append(entries, *active)
		active = nil
		body = nil
	}

	for _, line := range strings.Split(document, "\n") {
		match := headingPattern.FindStringSubmatch(line)
		if match == nil {
			if active != nil {
				body = append(body, line)
			}
			continue
		}

		flush()
		version := match[1]
		if !domain.InRange(current, latest, version) {
			continue
		}

		entry := domain.NormalizedEntry{Version: version}
		if date := datePattern.FindString(line); date != "" {
			if ts, err := time.Parse("2006-01-02", date); err == nil {
				entry.PublishedAt = &ts
			}
		}
		active = &entry
	}
	flush()

	return entries
}
