// Package releasenotes fetches published release notes from the GitHub
// releases API. It is the primary source in the fallback chain.
package releasenotes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
)

const (
	fetcherName = "github-releases"
	perPage     = 100
	maxPages    = 3 // releases past this are older than any sane range
)

// Fetcher implements domain.SourceFetcher over the GitHub releases API.
type Fetcher struct {
	client *gh.Client
}

// New creates a release-notes fetcher. The token may be empty for
// unauthenticated (rate-limited) access.
func New(token string, timeout time.Duration) *Fetcher {
	httpClient := &http.Client{Timeout: timeout}
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{client: client}
}

// NewWithBaseURL creates a fetcher against a custom API endpoint. Used in
// tests.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Fetcher, error) {
	httpClient := &http.Client{Timeout: timeout}
	client, err := gh.NewClient(httpClient).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure base URL: %w", err)
	}
	return &Fetcher{client: client}, nil
}

func (f *Fetcher) Name() string                  { return fetcherName }
func (f *Fetcher) Outcome() domain.SourceOutcome { return domain.SourceReleaseNotes }

// Applicable requires the capability flag and a repository URL with a
// recognized github.com/owner/repo shape.
func (f *Fetcher) Applicable(candidate *domain.PackageCandidate) bool {
	if !candidate.Metadata.HasReleaseNotes {
		return false
	}
	return source.IsGitHub(candidate.Metadata.RepositoryURL)
}

// Fetch lists the repository's releases and keeps the ones whose tag
// falls in (current, latest]. A single attempt is made; any API error is
// returned to the resolver, which degrades it to an empty result.
func (f *Fetcher) Fetch(
	ctx context.Context,
	candidate *domain.PackageCandidate,
) ([]domain.NormalizedEntry, error) {
	owner, repo, ok := source.SplitOwnerRepo(candidate.Metadata.RepositoryURL)
	if !ok {
		return nil, fmt.Errorf("unrecognized repository URL %q", candidate.Metadata.RepositoryURL)
	}

	var entries []domain.NormalizedEntry
	opts := &gh.ListOptions{PerPage: perPage}

	for page := 0; page < maxPages; page++ {
		releases, resp, err := f.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases for %s/%s: %w", owner, repo, err)
		}

		for _, release := range releases {
			entry, keep := normalizeRelease(candidate, release)
			if keep {
				entries = append(entries, entry)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return entries, nil
}

func normalizeRelease(
	candidate *domain.PackageCandidate,
	release *gh.RepositoryRelease,
) (domain.NormalizedEntry, bool) {
	version := release.GetTagName()
	if !domain.InRange(candidate.Metadata.Current, candidate.Metadata.Latest, version) {
		return domain.NormalizedEntry{}, false
	}

	text := release.GetBody()
	if text == "" {
		text = domain.PlaceholderNoteText
	}

	var publishedAt *time.Time
	if ts := release.GetPublishedAt(); !ts.IsZero() {
		published := ts.Time
		publishedAt = &published
	}

	return domain.NormalizedEntry{
		Version:     version,
		PublishedAt: publishedAt,
		Text:        text,
	}, true
}
