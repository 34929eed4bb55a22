package domain

import "context"

// Confirmer asks the operator a single yes/no question. This is the only
// point after fetch where a user decision can halt the whole pipeline.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Selector lets the operator pick which candidates to actually update.
type Selector interface {
	Select(ctx context.Context, candidates []*PackageCandidate) ([]*PackageCandidate, error)
}

// ManifestWriter writes the selected latest versions back into the
// project's manifest file.
type ManifestWriter interface {
	Write(ctx context.Context, selected []*PackageCandidate) error
}

// Installer invokes the package manager's install command.
type Installer interface {
	Install(ctx context.Context) error
}

// Reporter owns the report output location and renders the final report.
type Reporter interface {
	// Prepare establishes the output location; failures are fatal to
	// the run.
	Prepare(ctx context.Context) (string, error)

	// Report renders the categorized candidates (plus optional
	// enrichment) and returns the path of the written report.
	Report(ctx context.Context, candidates []*PackageCandidate, enrichment *EnrichmentResult) (string, error)
}

// EnrichmentOptions configures the optional AI summarization step.
type EnrichmentOptions struct {
	Enabled    bool
	Provider   string // "auto" or a specific provider name
	FocusAreas []Category
}

// EnrichmentResult is the opaque findings object an enrichment provider
// returns, tagged with the provider that produced it.
type EnrichmentResult struct {
	Provider string
	Findings string
}

// Enricher is one concrete enrichment provider.
type Enricher interface {
	Name() string

	// Available reports whether the provider's credentials are configured.
	Available() bool

	Enrich(ctx context.Context, candidates []*PackageCandidate, opts EnrichmentOptions) (*EnrichmentResult, error)
}

// EnrichmentService selects a provider and runs the enrichment call.
// Any failure it returns is recoverable: the pipeline logs it and
// continues without enrichment.
type EnrichmentService interface {
	Enrich(ctx context.Context, candidates []*PackageCandidate, opts EnrichmentOptions) (*EnrichmentResult, error)
}

// focusAreaNames maps the externally-configured focus area names to
// category labels.
var focusAreaNames = map[string]Category{
	"breaking":    CategoryBreaking,
	"security":    CategorySecurity,
	"deprecation": CategoryDeprecation,
	"performance": CategoryPerformance,
	"migration":   CategoryMigration,
}

// FocusAreaCategory resolves a configured focus area name to its
// category label.
func FocusAreaCategory(name string) (Category, bool) {
	cat, ok := focusAreaNames[name]
	return cat, ok
}
