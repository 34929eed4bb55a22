//go:build unit

package commitlog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source/commitlog"
	"github.com/rios0rios0/upgradenotes/test/domain/entitybuilders"
)

func TestFetcherApplicable(t *testing.T) {
	t.Parallel()

	t.Run("should require the commit-log capability flag", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := commitlog.New(time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithCapabilities(true, true, false).
			BuildCandidate()

		// then
		assert.False(t, fetcher.Applicable(candidate))
	})

	t.Run("should fall back to the repository URL when the fallback URL is unusable", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := commitlog.New(time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithFallbackURL("https://example.com/bugs").
			WithRepositoryURL("https://github.com/org/repo").
			BuildCandidate()

		// then
		assert.True(t, fetcher.Applicable(candidate))
	})

	t.Run("should reject candidates with no resolvable URL at all", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := commitlog.New(time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithFallbackURL("").
			WithRepositoryURL("").
			BuildCandidate()

		// then
		assert.False(t, fetcher.Applicable(candidate))
	})
}

func TestSortByVersionDesc(t *testing.T) {
	t.Parallel()

	t.Run("should order entries newest version first", func(t *testing.T) {
		t.Parallel()

		// given
		entries := []domain.NormalizedEntry{
			{Version: "1.2.0"},
			{Version: "v2.0.0"},
			{Version: "1.10.0"},
		}

		// when
		commitlog.SortByVersionDesc(entries)

		// then
		assert.Equal(t, "v2.0.0", entries[0].Version)
		assert.Equal(t, "1.10.0", entries[1].Version)
		assert.Equal(t, "1.2.0", entries[2].Version)
	})
}
