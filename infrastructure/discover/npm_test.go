//go:build unit

package discover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/discover"
)

// fakeManager writes an executable that prints the given JSON for any
// invocation, standing in for "npm outdated --json".
func fakeManager(t *testing.T, output string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-npm")
	script := "#!/bin/sh\ncat <<'EOF'\n" + output + "\nEOF\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func registryServer(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEvaluatorEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("should build candidates sorted by name with registry metadata", func(t *testing.T) {
		t.Parallel()

		// given
		manager := fakeManager(t, `{
			"zod": {"current": "3.0.0", "wanted": "3.0.0", "latest": "3.23.0"},
			"express": {"current": "4.18.0", "wanted": "4.18.0", "latest": "5.0.0"}
		}`)
		server := registryServer(t, map[string]string{
			"/express": `{
				"repository": {"url": "git+https://github.com/expressjs/express.git"},
				"bugs": {"url": "https://github.com/expressjs/express/issues"},
				"homepage": "https://expressjs.com"
			}`,
			"/zod": `{
				"repository": {"url": "https://gitlab.com/colinhacks/zod"},
				"homepage": "https://zod.dev"
			}`,
		})
		evaluator := discover.NewEvaluator(manager, server.URL, time.Second)

		// when
		candidates, err := evaluator.Evaluate(context.Background(), t.TempDir())

		// then
		require.NoError(t, err)
		require.Len(t, candidates, 2)

		express := candidates[0]
		assert.Equal(t, "express", express.Name)
		assert.Equal(t, "4.18.0", express.Metadata.Current)
		assert.Equal(t, "5.0.0", express.Metadata.Latest)
		assert.Equal(t, domain.UpdateMajor, express.Metadata.UpdateType)
		assert.Equal(t, "https://github.com/expressjs/express", express.Metadata.RepositoryURL)
		assert.Equal(t, "https://github.com/expressjs/express/issues", express.Metadata.FallbackURL)
		assert.True(t, express.Metadata.HasReleaseNotes)
		assert.True(t, express.Metadata.HasChangelog)
		assert.True(t, express.Metadata.HasCommitLog)

		zod := candidates[1]
		assert.Equal(t, "zod", zod.Name)
		assert.False(t, zod.Metadata.HasReleaseNotes, "non-GitHub repositories have no release notes")
		assert.True(t, zod.Metadata.HasCommitLog)
	})

	t.Run("should skip packages with unparseable versions", func(t *testing.T) {
		t.Parallel()

		// given
		manager := fakeManager(t, `{
			"linked": {"current": "linked", "wanted": "linked", "latest": "2.0.0"},
			"express": {"current": "4.18.0", "wanted": "4.18.0", "latest": "5.0.0"}
		}`)
		server := registryServer(t, map[string]string{})
		evaluator := discover.NewEvaluator(manager, server.URL, time.Second)

		// when
		candidates, err := evaluator.Evaluate(context.Background(), t.TempDir())

		// then
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "express", candidates[0].Name)
	})

	t.Run("should degrade to bare metadata when the registry lookup fails", func(t *testing.T) {
		t.Parallel()

		// given
		manager := fakeManager(t, `{
			"express": {"current": "4.18.0", "wanted": "4.18.0", "latest": "5.0.0"}
		}`)
		server := registryServer(t, map[string]string{})
		evaluator := discover.NewEvaluator(manager, server.URL, time.Second)

		// when
		candidates, err := evaluator.Evaluate(context.Background(), t.TempDir())

		// then
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		meta := candidates[0].Metadata
		assert.Empty(t, meta.RepositoryURL)
		assert.False(t, meta.HasReleaseNotes)
		assert.False(t, meta.HasChangelog)
		assert.False(t, meta.HasCommitLog)
	})

	t.Run("should return no candidates when everything is up to date", func(t *testing.T) {
		t.Parallel()

		// given
		manager := fakeManager(t, "{}")
		server := registryServer(t, map[string]string{})
		evaluator := discover.NewEvaluator(manager, server.URL, time.Second)

		// when
		candidates, err := evaluator.Evaluate(context.Background(), t.TempDir())

		// then
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("should fail when the manager cannot run", func(t *testing.T) {
		t.Parallel()

		// given
		evaluator := discover.NewEvaluator(
			filepath.Join(t.TempDir(), "missing-binary"), "http://127.0.0.1:0", time.Second,
		)

		// when
		_, err := evaluator.Evaluate(context.Background(), t.TempDir())

		// then
		require.Error(t, err)
	})
}
