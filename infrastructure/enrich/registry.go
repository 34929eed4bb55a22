// Package enrich implements the optional AI summarization step: a
// registry of providers selected by name or by credential availability.
package enrich

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/domain"
)

// ErrNoProvider is returned when enrichment is requested but no provider
// has credentials configured.
var ErrNoProvider = errors.New("no enrichment provider has credentials configured")

// Registry manages the registered enrichment providers and implements
// domain.EnrichmentService. Order matters for "auto" selection.
type Registry struct {
	providers []domain.Enricher
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...domain.Enricher) *Registry {
	return &Registry{providers: providers}
}

// Enrich selects a provider per the options and runs the enrichment
// call. All errors are recoverable for the caller.
func (r *Registry) Enrich(
	ctx context.Context,
	candidates []*domain.PackageCandidate,
	opts domain.EnrichmentOptions,
) (*domain.EnrichmentResult, error) {
	provider, err := r.selectProvider(opts.Provider)
	if err != nil {
		return nil, err
	}

	logger.Debugf("[enrich] Using provider %s", provider.Name())

	result, enrichErr := provider.Enrich(ctx, candidates, opts)
	if enrichErr != nil {
		return nil, fmt.Errorf("provider %s failed: %w", provider.Name(), enrichErr)
	}
	return result, nil
}

// selectProvider resolves "auto" to the first provider with credentials,
// or a specific name to that provider if its credentials are present.
func (r *Registry) selectProvider(name string) (domain.Enricher, error) {
	if name == "" || name == "auto" {
		for _, provider := range r.providers {
			if provider.Available() {
				return provider, nil
			}
		}
		return nil, ErrNoProvider
	}

	for _, provider := range r.providers {
		if provider.Name() != name {
			continue
		}
		if !provider.Available() {
			return nil, fmt.Errorf(
				"provider %q selected but its credentials are not configured: %w",
				name, ErrNoProvider,
			)
		}
		return provider, nil
	}

	return nil, fmt.Errorf("unknown enrichment provider %q", name)
}
