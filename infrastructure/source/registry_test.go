//go:build unit

package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
	doubles "github.com/rios0rios0/upgradenotes/test"
	"github.com/rios0rios0/upgradenotes/test/domain/entitybuilders"
)

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("should pick the highest-priority source that returns entries", func(t *testing.T) {
		// given
		entries := []domain.NormalizedEntry{{Version: "1.5.0", Text: "some change"}}
		first := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			Entries:       entries,
		}
		second := &doubles.SpyFetcher{
			FetcherName:   "changelog",
			SourceOutcome: domain.SourceChangelog,
			Entries:       []domain.NormalizedEntry{{Version: "1.5.0", Text: "other change"}},
		}
		resolver := source.NewResolver(first, second)
		candidate := entitybuilders.NewCandidateBuilder().BuildCandidate()

		// when
		resolver.Resolve(context.Background(), candidate)

		// then
		assert.Equal(t, domain.SourceReleaseNotes, candidate.Source)
		require.True(t, candidate.ReleaseNotes.HasEntries())
		assert.Equal(t, entries, candidate.ReleaseNotes.Entries())
		assert.Equal(t, domain.PayloadSkipped, candidate.Changelog.Kind())
		assert.Empty(t, second.FetchedPackages, "lower-priority fetcher must not run")
	})

	t.Run("should fall through to the next source when the first fails", func(t *testing.T) {
		// given
		entries := []domain.NormalizedEntry{{Version: "1.5.0", Text: "some change"}}
		failing := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			FetchErr:      errors.New("rate limited"),
		}
		fallback := &doubles.SpyFetcher{
			FetcherName:   "changelog",
			SourceOutcome: domain.SourceChangelog,
			Entries:       entries,
		}
		resolver := source.NewResolver(failing, fallback)
		candidate := entitybuilders.NewCandidateBuilder().BuildCandidate()

		// when
		resolver.Resolve(context.Background(), candidate)

		// then
		assert.Equal(t, domain.SourceChangelog, candidate.Source)
		require.True(t, candidate.Changelog.HasEntries())
		// the failed source is superseded, not unavailable
		assert.Equal(t, domain.PayloadSkipped, candidate.ReleaseNotes.Kind())
	})

	t.Run("should fall through when a source returns no in-range entries", func(t *testing.T) {
		// given
		empty := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			Entries:       nil,
		}
		fallback := &doubles.SpyFetcher{
			FetcherName:   "commit-log",
			SourceOutcome: domain.SourceCommitLog,
			Entries:       []domain.NormalizedEntry{{Version: "1.5.0", Text: "some change"}},
		}
		resolver := source.NewResolver(empty, fallback)
		candidate := entitybuilders.NewCandidateBuilder().BuildCandidate()

		// when
		resolver.Resolve(context.Background(), candidate)

		// then
		assert.Equal(t, domain.SourceCommitLog, candidate.Source)
		assert.NotEmpty(t, empty.FetchedPackages, "empty source must still have been tried")
	})

	t.Run("should skip fetchers whose capability flag is off", func(t *testing.T) {
		// given
		gated := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			ApplicableWhen: func(c *domain.PackageCandidate) bool {
				return c.Metadata.HasReleaseNotes
			},
			Entries: []domain.NormalizedEntry{{Version: "1.5.0", Text: "some change"}},
		}
		fallback := &doubles.SpyFetcher{
			FetcherName:   "changelog",
			SourceOutcome: domain.SourceChangelog,
			Entries:       []domain.NormalizedEntry{{Version: "1.5.0", Text: "other change"}},
		}
		resolver := source.NewResolver(gated, fallback)
		candidate := entitybuilders.NewCandidateBuilder().
			WithCapabilities(false, true, true).
			BuildCandidate()

		// when
		resolver.Resolve(context.Background(), candidate)

		// then
		assert.Empty(t, gated.FetchedPackages, "inapplicable fetcher must not be invoked")
		assert.Equal(t, domain.SourceChangelog, candidate.Source)
	})

	t.Run("should record unknown with unavailable slots when every source comes up empty", func(t *testing.T) {
		// given
		first := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			FetchErr:      errors.New("not found"),
		}
		second := &doubles.SpyFetcher{
			FetcherName:   "changelog",
			SourceOutcome: domain.SourceChangelog,
			Entries:       nil,
		}
		third := &doubles.SpyFetcher{
			FetcherName:    "commit-log",
			SourceOutcome:  domain.SourceCommitLog,
			ApplicableWhen: func(*domain.PackageCandidate) bool { return false },
		}
		resolver := source.NewResolver(first, second, third)
		candidate := entitybuilders.NewCandidateBuilder().BuildCandidate()

		// when
		resolver.Resolve(context.Background(), candidate)

		// then
		assert.Equal(t, domain.SourceUnknown, candidate.Source)
		assert.Equal(t, domain.PayloadUnavailable, candidate.ReleaseNotes.Kind())
		assert.Equal(t, domain.PayloadUnavailable, candidate.Changelog.Kind())
		assert.Equal(t, domain.PayloadUnavailable, candidate.CommitLog.Kind())
		assert.False(t, candidate.WinningPayload().HasEntries())
	})

	t.Run("should keep one package's failure from affecting the next", func(t *testing.T) {
		// given
		fetcher := &doubles.SpyFetcher{
			FetcherName:   "release-notes",
			SourceOutcome: domain.SourceReleaseNotes,
			Entries:       []domain.NormalizedEntry{{Version: "1.5.0", Text: "some change"}},
		}
		resolver := source.NewResolver(fetcher)
		broken := entitybuilders.NewCandidateBuilder().
			WithName("broken").
			WithCapabilities(false, false, false).
			BuildCandidate()
		healthy := entitybuilders.NewCandidateBuilder().WithName("healthy").BuildCandidate()

		// when
		resolver.Resolve(context.Background(), broken)
		resolver.Resolve(context.Background(), healthy)

		// then
		assert.Equal(t, domain.SourceUnknown, broken.Source)
		assert.Equal(t, domain.SourceReleaseNotes, healthy.Source)
	})
}
