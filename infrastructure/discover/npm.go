// Package discover evaluates which dependencies of a project are
// outdated and builds the candidate list the pipeline consumes.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sort"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
)

const defaultRegistryURL = "https://registry.npmjs.org"

// Evaluator lists outdated npm packages and enriches each with registry
// metadata (repository and bug-tracker URLs, capability flags).
type Evaluator struct {
	manager     string
	registryURL string
	client      *retryablehttp.Client
}

// NewEvaluator creates an evaluator using the given package manager
// binary. registryURL may be empty to use the public npm registry.
func NewEvaluator(manager, registryURL string, timeout time.Duration) *Evaluator {
	if registryURL == "" {
		registryURL = defaultRegistryURL
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	return &Evaluator{manager: manager, registryURL: registryURL, client: client}
}

// outdatedEntry mirrors one value of `npm outdated --json`.
type outdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// registryDocument is the subset of a registry package document we need.
type registryDocument struct {
	Repository struct {
		URL string `json:"url"`
	} `json:"repository"`
	Bugs struct {
		URL string `json:"url"`
	} `json:"bugs"`
	Homepage string `json:"homepage"`
}

// Evaluate runs "<manager> outdated --json" in dir and returns one
// candidate per outdated package, sorted by name.
// Packages with unparseable versions are skipped with a warning.
func (e *Evaluator) Evaluate(ctx context.Context, dir string) ([]*domain.PackageCandidate, error) {
	outdated, err := e.listOutdated(ctx, dir)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.PackageCandidate, 0, len(outdated))
	for _, name := range sortedNames(outdated) {
		entry := outdated[name]
		if !domain.ValidRange(entry.Current, entry.Latest) {
			logger.Warnf(
				"[discover] Skipping %s: cannot compare %q with %q",
				name, entry.Current, entry.Latest,
			)
			continue
		}

		meta := e.buildMetadata(ctx, name, entry)
		candidates = append(candidates, domain.NewPackageCandidate(name, meta))
	}

	logger.Infof("[discover] Found %d outdated packages", len(candidates))
	return candidates, nil
}

// listOutdated parses the manager's outdated output. The command exits
// non-zero when outdated packages exist, so the exit code is ignored as
// long as the output parses.
func (e *Evaluator) listOutdated(ctx context.Context, dir string) (map[string]outdatedEntry, error) {
	cmd := exec.CommandContext(ctx, e.manager, "outdated", "--json")
	cmd.Dir = dir

	output, runErr := cmd.Output()
	if len(output) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%s outdated failed: %w", e.manager, runErr)
		}
		return map[string]outdatedEntry{}, nil
	}

	var outdated map[string]outdatedEntry
	if err := json.Unmarshal(output, &outdated); err != nil {
		return nil, fmt.Errorf("failed to parse %s outdated output: %w", e.manager, err)
	}
	return outdated, nil
}

// buildMetadata fills URLs and capability flags from the registry
// document. Lookup failures degrade to metadata without URLs; the
// fallback chain then records the unknown outcome for that package.
func (e *Evaluator) buildMetadata(
	ctx context.Context,
	name string,
	entry outdatedEntry,
) domain.PackageMetadata {
	updateType := domain.ClassifyUpdate(entry.Current, entry.Latest)
	meta := domain.PackageMetadata{
		Current:    entry.Current,
		Latest:     entry.Latest,
		UpdateType: updateType,
		Difficulty: domain.DifficultyScore(updateType),
	}

	doc, err := e.lookup(ctx, name)
	if err != nil {
		logger.Warnf("[discover] Registry lookup for %s failed: %v", name, err)
		return meta
	}

	meta.RepositoryURL = source.RepositoryRoot(doc.Repository.URL)
	meta.FallbackURL = firstNonEmpty(doc.Bugs.URL, doc.Homepage, meta.RepositoryURL)

	meta.HasReleaseNotes = source.IsGitHub(meta.RepositoryURL)
	meta.HasChangelog = source.RepositoryRoot(meta.FallbackURL) != ""
	meta.HasCommitLog = meta.RepositoryURL != "" || meta.HasChangelog

	return meta
}

func (e *Evaluator) lookup(ctx context.Context, name string) (*registryDocument, error) {
	url := e.registryURL + "/" + name
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", url, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %q", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	var doc registryDocument
	if unmarshalErr := json.Unmarshal(body, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid registry document for %q: %w", name, unmarshalErr)
	}
	return &doc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func sortedNames(outdated map[string]outdatedEntry) []string {
	names := make([]string, 0, len(outdated))
	for name := range outdated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
