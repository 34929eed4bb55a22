//go:build integration || unit || test

// Package testdoubles provides test doubles (spies, stubs, dummies) for
// domain interfaces. These are hand-crafted implementations, no mock
// frameworks.
package testdoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/upgradenotes/domain"
)

// ---------------------------------------------------------------------------
// SpyFetcher
// ---------------------------------------------------------------------------

// SpyFetcher implements domain.SourceFetcher as a configurable spy.
// Configure the response fields, then inspect the call-tracking fields.
type SpyFetcher struct {
	FetcherName    string
	SourceOutcome  domain.SourceOutcome
	ApplicableWhen func(*domain.PackageCandidate) bool
	Entries        []domain.NormalizedEntry
	FetchErr       error

	// spy: packages this fetcher was invoked for
	FetchedPackages []string
}

func (s *SpyFetcher) Name() string                  { return s.FetcherName }
func (s *SpyFetcher) Outcome() domain.SourceOutcome { return s.SourceOutcome }

func (s *SpyFetcher) Applicable(candidate *domain.PackageCandidate) bool {
	if s.ApplicableWhen == nil {
		return true
	}
	return s.ApplicableWhen(candidate)
}

func (s *SpyFetcher) Fetch(
	_ context.Context,
	candidate *domain.PackageCandidate,
) ([]domain.NormalizedEntry, error) {
	s.FetchedPackages = append(s.FetchedPackages, candidate.Name)
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return s.Entries, nil
}

// ---------------------------------------------------------------------------
// SpyResolver
// ---------------------------------------------------------------------------

// SpyResolver implements domain.NotesResolver. Outcomes maps package
// names to the source each should resolve to; unlisted packages resolve
// to unknown.
type SpyResolver struct {
	Outcomes map[string]domain.SourceOutcome
	Entries  []domain.NormalizedEntry

	// spy: package names in resolution order
	ResolvedPackages []string
}

func (s *SpyResolver) Resolve(_ context.Context, candidate *domain.PackageCandidate) {
	s.ResolvedPackages = append(s.ResolvedPackages, candidate.Name)

	outcome, ok := s.Outcomes[candidate.Name]
	if !ok || outcome == domain.SourceUnknown {
		candidate.Source = domain.SourceUnknown
		return
	}

	candidate.Source = outcome
	entries := s.Entries
	if entries == nil {
		entries = []domain.NormalizedEntry{{Version: "1.1.0", Text: "some change"}}
	}
	candidate.SetPayload(outcome, domain.FoundPayload(entries))
}

// ---------------------------------------------------------------------------
// SpyConfirmer
// ---------------------------------------------------------------------------

// SpyConfirmer implements domain.Confirmer with a fixed answer.
type SpyConfirmer struct {
	Answer     bool
	ConfirmErr error

	// spy: prompts received
	Prompts []string
}

func (s *SpyConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	s.Prompts = append(s.Prompts, prompt)
	return s.Answer, s.ConfirmErr
}

// ---------------------------------------------------------------------------
// SpySelector
// ---------------------------------------------------------------------------

// SpySelector implements domain.Selector. When Selection is nil, it
// selects everything it is given.
type SpySelector struct {
	Selection []*domain.PackageCandidate
	SelectErr error

	// spy: number of Select calls
	SelectCalls int
}

func (s *SpySelector) Select(
	_ context.Context,
	candidates []*domain.PackageCandidate,
) ([]*domain.PackageCandidate, error) {
	s.SelectCalls++
	if s.SelectErr != nil {
		return nil, s.SelectErr
	}
	if s.Selection != nil {
		return s.Selection, nil
	}
	return candidates, nil
}

// ---------------------------------------------------------------------------
// SpyManifestWriter
// ---------------------------------------------------------------------------

// SpyManifestWriter implements domain.ManifestWriter.
type SpyManifestWriter struct {
	WriteErr error

	// spy: packages written per call
	Written [][]*domain.PackageCandidate
}

func (s *SpyManifestWriter) Write(
	_ context.Context,
	selected []*domain.PackageCandidate,
) error {
	s.Written = append(s.Written, selected)
	return s.WriteErr
}

// ---------------------------------------------------------------------------
// SpyInstaller
// ---------------------------------------------------------------------------

// SpyInstaller implements domain.Installer.
type SpyInstaller struct {
	InstallErr error

	// spy: number of Install calls
	InstallCalls int
}

func (s *SpyInstaller) Install(_ context.Context) error {
	s.InstallCalls++
	return s.InstallErr
}

// ---------------------------------------------------------------------------
// SpyReporter
// ---------------------------------------------------------------------------

// SpyReporter implements domain.Reporter.
type SpyReporter struct {
	Dir        string
	PrepareErr error
	ReportPath string
	ReportErr  error

	// spy: inputs of the Report call
	ReportedCandidates []*domain.PackageCandidate
	ReportedEnrichment *domain.EnrichmentResult
	PrepareCalls       int
	ReportCalls        int
}

func (s *SpyReporter) Prepare(_ context.Context) (string, error) {
	s.PrepareCalls++
	return s.Dir, s.PrepareErr
}

func (s *SpyReporter) Report(
	_ context.Context,
	candidates []*domain.PackageCandidate,
	enrichment *domain.EnrichmentResult,
) (string, error) {
	s.ReportCalls++
	s.ReportedCandidates = candidates
	s.ReportedEnrichment = enrichment
	return s.ReportPath, s.ReportErr
}

// ---------------------------------------------------------------------------
// SpyEnrichmentService
// ---------------------------------------------------------------------------

// SpyEnrichmentService implements domain.EnrichmentService.
type SpyEnrichmentService struct {
	Result    *domain.EnrichmentResult
	EnrichErr error

	// spy: options of each Enrich call
	EnrichOpts []domain.EnrichmentOptions
}

func (s *SpyEnrichmentService) Enrich(
	_ context.Context,
	_ []*domain.PackageCandidate,
	opts domain.EnrichmentOptions,
) (*domain.EnrichmentResult, error) {
	s.EnrichOpts = append(s.EnrichOpts, opts)
	return s.Result, s.EnrichErr
}

// ---------------------------------------------------------------------------
// SpyEnricher
// ---------------------------------------------------------------------------

// SpyEnricher implements domain.Enricher for registry tests.
type SpyEnricher struct {
	ProviderName string
	IsAvailable  bool
	Result       *domain.EnrichmentResult
	EnrichErr    error

	// spy: number of Enrich calls
	EnrichCalls int
}

func (s *SpyEnricher) Name() string    { return s.ProviderName }
func (s *SpyEnricher) Available() bool { return s.IsAvailable }

func (s *SpyEnricher) Enrich(
	_ context.Context,
	_ []*domain.PackageCandidate,
	_ domain.EnrichmentOptions,
) (*domain.EnrichmentResult, error) {
	s.EnrichCalls++
	if s.EnrichErr != nil {
		return nil, s.EnrichErr
	}
	return s.Result, nil
}
