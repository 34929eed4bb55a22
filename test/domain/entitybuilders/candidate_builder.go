//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/upgradenotes/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CandidateBuilder helps create test candidates with a fluent interface.
type CandidateBuilder struct {
	*testkit.BaseBuilder
	name            string
	current         string
	latest          string
	repositoryURL   string
	fallbackURL     string
	hasReleaseNotes bool
	hasChangelog    bool
	hasCommitLog    bool
}

// NewCandidateBuilder creates a new candidate builder with sensible defaults.
func NewCandidateBuilder() *CandidateBuilder {
	return &CandidateBuilder{
		BaseBuilder:     testkit.NewBaseBuilder(),
		name:            "test-package",
		current:         "1.0.0",
		latest:          "2.0.0",
		repositoryURL:   "https://github.com/test/package",
		fallbackURL:     "https://github.com/test/package/issues",
		hasReleaseNotes: true,
		hasChangelog:    true,
		hasCommitLog:    true,
	}
}

// WithName sets the package name.
func (b *CandidateBuilder) WithName(name string) *CandidateBuilder {
	b.name = name
	return b
}

// WithVersions sets the current and latest versions.
func (b *CandidateBuilder) WithVersions(current, latest string) *CandidateBuilder {
	b.current = current
	b.latest = latest
	return b
}

// WithRepositoryURL sets the source repository URL.
func (b *CandidateBuilder) WithRepositoryURL(url string) *CandidateBuilder {
	b.repositoryURL = url
	return b
}

// WithFallbackURL sets the fallback URL.
func (b *CandidateBuilder) WithFallbackURL(url string) *CandidateBuilder {
	b.fallbackURL = url
	return b
}

// WithCapabilities sets the three capability flags.
func (b *CandidateBuilder) WithCapabilities(releaseNotes, changelog, commitLog bool) *CandidateBuilder {
	b.hasReleaseNotes = releaseNotes
	b.hasChangelog = changelog
	b.hasCommitLog = commitLog
	return b
}

// Build creates the candidate (satisfies testkit.Builder interface).
func (b *CandidateBuilder) Build() interface{} {
	return b.BuildCandidate()
}

// BuildCandidate creates the candidate with a concrete return type.
func (b *CandidateBuilder) BuildCandidate() *domain.PackageCandidate {
	return domain.NewPackageCandidate(b.name, domain.PackageMetadata{
		Current:         b.current,
		Latest:          b.latest,
		RepositoryURL:   b.repositoryURL,
		FallbackURL:     b.fallbackURL,
		HasReleaseNotes: b.hasReleaseNotes,
		HasChangelog:    b.hasChangelog,
		HasCommitLog:    b.hasCommitLog,
		UpdateType:      domain.ClassifyUpdate(b.current, b.latest),
		Difficulty:      domain.DifficultyScore(domain.ClassifyUpdate(b.current, b.latest)),
	})
}

// Reset clears the builder state, allowing it to be reused.
func (b *CandidateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.current = "1.0.0"
	b.latest = "2.0.0"
	b.repositoryURL = "https://github.com/test/package"
	b.fallbackURL = "https://github.com/test/package/issues"
	b.hasReleaseNotes = true
	b.hasChangelog = true
	b.hasCommitLog = true
	return b
}

// Clone creates a deep copy of the CandidateBuilder.
func (b *CandidateBuilder) Clone() testkit.Builder {
	return &CandidateBuilder{
		BaseBuilder:     b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:            b.name,
		current:         b.current,
		latest:          b.latest,
		repositoryURL:   b.repositoryURL,
		fallbackURL:     b.fallbackURL,
		hasReleaseNotes: b.hasReleaseNotes,
		hasChangelog:    b.hasChangelog,
		hasCommitLog:    b.hasCommitLog,
	}
}
