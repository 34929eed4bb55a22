//go:build unit

package releasenotes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source/releasenotes"
	"github.com/rios0rios0/upgradenotes/test/domain/entitybuilders"
)

const releasesBody = `[
	{"tag_name": "v2.1.0", "body": "too new", "published_at": "2024-07-01T00:00:00Z"},
	{"tag_name": "v2.0.0", "body": "- BREAKING CHANGE: removed the legacy parser", "published_at": "2024-06-01T00:00:00Z"},
	{"tag_name": "v1.5.0", "body": "", "published_at": "2024-03-01T00:00:00Z"},
	{"tag_name": "v1.0.0", "body": "initial release", "published_at": "2023-12-01T00:00:00Z"}
]`

func TestFetcherApplicable(t *testing.T) {
	t.Parallel()

	t.Run("should require the release-notes capability flag", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := releasenotes.New("", time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithCapabilities(false, true, true).
			BuildCandidate()

		// then
		assert.False(t, fetcher.Applicable(candidate))
	})

	t.Run("should require a github.com repository URL", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := releasenotes.New("", time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithRepositoryURL("https://gitlab.com/org/repo").
			BuildCandidate()

		// then
		assert.False(t, fetcher.Applicable(candidate))
	})

	t.Run("should accept a GitHub-hosted candidate with the flag set", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := releasenotes.New("", time.Second)
		candidate := entitybuilders.NewCandidateBuilder().BuildCandidate()

		// then
		assert.True(t, fetcher.Applicable(candidate))
	})
}

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("should keep releases inside the version range and fill empty bodies", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v3/repos/org/repo/releases" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(releasesBody))
		}))
		defer server.Close()

		fetcher, err := releasenotes.NewWithBaseURL(server.URL, time.Second)
		require.NoError(t, err)

		candidate := entitybuilders.NewCandidateBuilder().
			WithVersions("1.0.0", "2.0.0").
			WithRepositoryURL("https://github.com/org/repo").
			BuildCandidate()

		// when
		entries, err := fetcher.Fetch(context.Background(), candidate)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "v2.0.0", entries[0].Version)
		assert.Contains(t, entries[0].Text, "removed the legacy parser")
		require.NotNil(t, entries[0].PublishedAt)
		assert.Equal(t, "v1.5.0", entries[1].Version)
		assert.Equal(t, domain.PlaceholderNoteText, entries[1].Text)
	})

	t.Run("should surface API errors to the caller", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		fetcher, err := releasenotes.NewWithBaseURL(server.URL, time.Second)
		require.NoError(t, err)

		candidate := entitybuilders.NewCandidateBuilder().
			WithRepositoryURL("https://github.com/org/repo").
			BuildCandidate()

		// when
		entries, err := fetcher.Fetch(context.Background(), candidate)

		// then
		require.Error(t, err)
		assert.Empty(t, entries)
	})

	t.Run("should fail fast on repository URLs without owner and name", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := releasenotes.New("", time.Second)
		candidate := entitybuilders.NewCandidateBuilder().
			WithRepositoryURL("https://github.com/").
			BuildCandidate()

		// when
		entries, err := fetcher.Fetch(context.Background(), candidate)

		// then
		require.Error(t, err)
		assert.Empty(t, entries)
	})
}
