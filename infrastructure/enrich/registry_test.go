//go:build unit

package enrich_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upgradenotes/domain"
	"github.com/rios0rios0/upgradenotes/infrastructure/enrich"
	doubles "github.com/rios0rios0/upgradenotes/test"
)

func TestRegistryEnrich(t *testing.T) {
	t.Parallel()

	t.Run("should pick the first available provider in auto mode", func(t *testing.T) {
		t.Parallel()

		// given
		unavailable := &doubles.SpyEnricher{ProviderName: "openai", IsAvailable: false}
		available := &doubles.SpyEnricher{
			ProviderName: "anthropic",
			IsAvailable:  true,
			Result:       &domain.EnrichmentResult{Provider: "anthropic", Findings: "looks safe"},
		}
		registry := enrich.NewRegistry(unavailable, available)

		// when
		result, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{Provider: "auto"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "anthropic", result.Provider)
		assert.Equal(t, 0, unavailable.EnrichCalls)
		assert.Equal(t, 1, available.EnrichCalls)
	})

	t.Run("should honor an explicit provider name", func(t *testing.T) {
		t.Parallel()

		// given
		first := &doubles.SpyEnricher{
			ProviderName: "openai",
			IsAvailable:  true,
			Result:       &domain.EnrichmentResult{Provider: "openai"},
		}
		second := &doubles.SpyEnricher{
			ProviderName: "anthropic",
			IsAvailable:  true,
			Result:       &domain.EnrichmentResult{Provider: "anthropic"},
		}
		registry := enrich.NewRegistry(first, second)

		// when
		result, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{Provider: "anthropic"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "anthropic", result.Provider)
		assert.Equal(t, 0, first.EnrichCalls)
	})

	t.Run("should fail when no provider has credentials", func(t *testing.T) {
		t.Parallel()

		// given
		registry := enrich.NewRegistry(
			&doubles.SpyEnricher{ProviderName: "openai", IsAvailable: false},
		)

		// when
		_, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{})

		// then
		require.ErrorIs(t, err, enrich.ErrNoProvider)
	})

	t.Run("should fail when the named provider lacks credentials", func(t *testing.T) {
		t.Parallel()

		// given
		registry := enrich.NewRegistry(
			&doubles.SpyEnricher{ProviderName: "openai", IsAvailable: false},
		)

		// when
		_, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{Provider: "openai"})

		// then
		require.ErrorIs(t, err, enrich.ErrNoProvider)
	})

	t.Run("should fail for an unknown provider name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := enrich.NewRegistry()

		// when
		_, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{Provider: "gemini"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown enrichment provider")
	})

	t.Run("should wrap provider call failures", func(t *testing.T) {
		t.Parallel()

		// given
		failing := &doubles.SpyEnricher{
			ProviderName: "openai",
			IsAvailable:  true,
			EnrichErr:    errors.New("insufficient quota"),
		}
		registry := enrich.NewRegistry(failing)

		// when
		_, err := registry.Enrich(context.Background(), nil, domain.EnrichmentOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient quota")
	})
}
