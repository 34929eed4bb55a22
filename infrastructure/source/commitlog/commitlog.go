// Package commitlog derives upgrade notes from raw commit history. It is
// the last fallback in the chain: an in-memory clone of the repository
// maps semver tags in range to their commit messages.
package commitlog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
)

const fetcherName = "commit-log"

// Fetcher implements domain.SourceFetcher over a repository's tags and
// commit messages.
type Fetcher struct {
	timeout time.Duration
}

// New creates a commit-log fetcher. The timeout bounds the whole clone.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{timeout: timeout}
}

func (f *Fetcher) Name() string                  { return fetcherName }
func (f *Fetcher) Outcome() domain.SourceOutcome { return domain.SourceCommitLog }

// Applicable requires the capability flag and any URL that resolves to a
// repository root.
func (f *Fetcher) Applicable(candidate *domain.PackageCandidate) bool {
	if !candidate.Metadata.HasCommitLog {
		return false
	}
	return f.cloneURL(candidate) != ""
}

func (f *Fetcher) cloneURL(candidate *domain.PackageCandidate) string {
	root := source.RepositoryRoot(candidate.Metadata.FallbackURL)
	if root == "" {
		root = source.RepositoryRoot(candidate.Metadata.RepositoryURL)
	}
	return root
}

// Fetch clones the repository into memory and collects the commit message
// of every semver tag in (current, latest], newest version first.
func (f *Fetcher) Fetch(
	ctx context.Context,
	candidate *domain.PackageCandidate,
) ([]domain.NormalizedEntry, error) {
	root := f.cloneURL(candidate)
	if root == "" {
		return nil, errors.New("no URL resolves to a repository root")
	}

	cloneCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	repo, err := git.CloneContext(cloneCtx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:  root + ".git",
		Tags: git.AllTags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %q: %w", root, err)
	}

	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var entries []domain.NormalizedEntry
	iterErr := tags.ForEach(func(ref *plumbing.Reference) error {
		version := ref.Name().Short()
		if !domain.InRange(candidate.Metadata.Current, candidate.Metadata.Latest, version) {
			return nil
		}

		commit, commitErr := resolveCommit(repo, ref)
		if commitErr != nil {
			return nil // skip unreadable tags, keep iterating
		}

		text := strings.TrimSpace(commit.Message)
		if text == "" {
			text = domain.PlaceholderNoteText
		}
		committed := commit.Committer.When
		entries = append(entries, domain.NormalizedEntry{
			Version:     version,
			PublishedAt: &committed,
			Text:        text,
		})
		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", iterErr)
	}

	sortByVersionDesc(entries)
	return entries, nil
}

// resolveCommit follows an annotated tag to its commit, or reads the
// commit directly for lightweight tags.
func resolveCommit(repo *git.Repository, ref *plumbing.Reference) (*object.Commit, error) {
	tag, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		return tag.Commit()
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return repo.CommitObject(ref.Hash())
	default:
		return nil, fmt.Errorf("failed to resolve tag %q: %w", ref.Name().Short(), err)
	}
}

func sortByVersionDesc(entries []domain.NormalizedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return semver.Compare(canonical(entries[i].Version), canonical(entries[j].Version)) > 0
	})
}

func canonical(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
