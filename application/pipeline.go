package application

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/domain"
)

// ErrRunCancelled is returned when the operator answers "no" at the
// confirmation gate. Everything downstream of the gate is skipped.
var ErrRunCancelled = errors.New("run cancelled by user")

// RunOptions holds runtime options for a single pipeline run.
type RunOptions struct {
	// ReportOnly skips the select/write/install tail; the run ends with
	// the report.
	ReportOnly bool
	// DryRun is forwarded to the manifest writer and installer.
	DryRun  bool
	Verbose bool
}

// PipelineService drives the full flow across the candidate set, stage
// by stage: prepare -> fetch -> confirm -> categorize -> enrich ->
// select -> write -> install -> report. Per-package failures inside the
// fetch and categorize stages are isolated; only the confirmation gate
// and downstream write/install errors abort the run.
type PipelineService struct {
	resolver   domain.NotesResolver
	confirmer  domain.Confirmer
	enrichment domain.EnrichmentService
	selector   domain.Selector
	manifest   domain.ManifestWriter
	installer  domain.Installer
	reporter   domain.Reporter
}

// NewPipelineService wires the pipeline with its collaborators.
func NewPipelineService(
	resolver domain.NotesResolver,
	confirmer domain.Confirmer,
	enrichment domain.EnrichmentService,
	selector domain.Selector,
	manifest domain.ManifestWriter,
	installer domain.Installer,
	reporter domain.Reporter,
) *PipelineService {
	return &PipelineService{
		resolver:   resolver,
		confirmer:  confirmer,
		enrichment: enrichment,
		selector:   selector,
		manifest:   manifest,
		installer:  installer,
		reporter:   reporter,
	}
}

// Run executes the pipeline over the given candidates. The candidate
// list, the selected subset and the enrichment result are owned here;
// fetchers and the categorizer only ever see the single candidate passed
// to them.
func (s *PipelineService) Run(
	ctx context.Context,
	candidates []*domain.PackageCandidate,
	enrichOpts domain.EnrichmentOptions,
	opts RunOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	outputDir, err := s.reporter.Prepare(ctx)
	if err != nil {
		return fmt.Errorf("failed to prepare output location: %w", err)
	}
	logger.Debugf("[pipeline] Report output location: %s", outputDir)

	s.fetchAll(ctx, candidates)

	if confirmErr := s.confirm(ctx, candidates); confirmErr != nil {
		return confirmErr
	}

	s.categorizeAll(candidates)

	enrichment := s.enrich(ctx, candidates, enrichOpts)

	if !opts.ReportOnly {
		if tailErr := s.applyUpdates(ctx, candidates); tailErr != nil {
			return tailErr
		}
	}

	reportPath, reportErr := s.reporter.Report(ctx, candidates, enrichment)
	if reportErr != nil {
		return fmt.Errorf("failed to write report: %w", reportErr)
	}
	logger.Infof("[pipeline] Report written to %s", reportPath)

	return nil
}

// fetchAll resolves upgrade notes for every candidate sequentially, in
// list order. A single package's failure never aborts the stage; the
// resolver records the unknown outcome for that package and the loop
// moves on. The stage is a no-op for an empty candidate list.
func (s *PipelineService) fetchAll(ctx context.Context, candidates []*domain.PackageCandidate) {
	if len(candidates) == 0 {
		logger.Info("[fetch] No outdated packages, nothing to fetch")
		return
	}

	logger.Infof("[fetch] Collecting upgrade notes for %d packages...", len(candidates))
	for _, candidate := range candidates {
		s.resolver.Resolve(ctx, candidate)
	}
}

// confirm presents the aggregate fetch summary and requires one yes/no
// decision. A "no" aborts the whole run; this is the only point after
// fetch where the operator can halt the pipeline.
func (s *PipelineService) confirm(ctx context.Context, candidates []*domain.PackageCandidate) error {
	fetched := 0
	for _, candidate := range candidates {
		if candidate.Source != domain.SourceUnknown {
			fetched++
		}
	}

	prompt := fmt.Sprintf(
		"Collected upgrade notes for %d of %d packages. Continue?",
		fetched, len(candidates),
	)
	confirmed, err := s.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !confirmed {
		return ErrRunCancelled
	}
	return nil
}

// categorizeAll runs the categorization engine on every candidate with a
// usable payload. Sentinel payloads are skipped per package with a
// reason, never treated as errors.
func (s *PipelineService) categorizeAll(candidates []*domain.PackageCandidate) {
	for _, candidate := range candidates {
		payload := candidate.WinningPayload()
		if !payload.HasEntries() {
			logger.Infof(
				"[categorize] %s: no usable notes (%s), leaving categories empty",
				candidate.Name, payload.Sentinel(),
			)
			continue
		}
		candidate.Notes = domain.Categorize(payload.Entries())
		logger.Debugf("[categorize] %s: %d terms extracted", candidate.Name, len(candidate.Notes.Terms))
	}
}

// enrich hands the categorized set to the enrichment service when
// enabled. Any failure, including quota or billing errors, degrades to
// "no enrichment" with an operator warning.
func (s *PipelineService) enrich(
	ctx context.Context,
	candidates []*domain.PackageCandidate,
	opts domain.EnrichmentOptions,
) *domain.EnrichmentResult {
	if !opts.Enabled {
		logger.Debug("[enrich] Disabled, skipping")
		return nil
	}

	result, err := s.enrichment.Enrich(ctx, candidates, opts)
	if err != nil {
		logger.Warnf(
			"[enrich] Skipping enrichment: %v (check provider credentials and quota in the config file)",
			err,
		)
		return nil
	}

	logger.Infof("[enrich] Findings produced by %s", result.Provider)
	return result
}

// applyUpdates runs the select -> write -> install tail. Errors from
// these collaborators invalidate the remainder of the run and propagate
// unchanged.
func (s *PipelineService) applyUpdates(ctx context.Context, candidates []*domain.PackageCandidate) error {
	selected, err := s.selector.Select(ctx, candidates)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}
	if len(selected) == 0 {
		logger.Info("[pipeline] Nothing selected, skipping write and install")
		return nil
	}

	if writeErr := s.manifest.Write(ctx, selected); writeErr != nil {
		return fmt.Errorf("failed to write manifest: %w", writeErr)
	}

	if installErr := s.installer.Install(ctx); installErr != nil {
		return fmt.Errorf("install failed: %w", installErr)
	}

	logger.Infof("[pipeline] Updated %d packages", len(selected))
	return nil
}
