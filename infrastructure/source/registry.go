package source

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/domain"
)

// Resolver tries fetchers in fixed priority order and short-circuits on
// the first non-empty result. Resolution is idempotent and stateless
// across packages; one package's outcome never influences another's.
type Resolver struct {
	fetchers []domain.SourceFetcher
}

// NewResolver creates a resolver over the given fetchers. Order matters:
// earlier fetchers have higher priority.
func NewResolver(fetchers ...domain.SourceFetcher) *Resolver {
	return &Resolver{fetchers: fetchers}
}

// Resolve runs the fallback chain for one candidate, storing the winning
// payload, the no-data states of the other slots, and the source outcome.
// Fetcher errors are logged and degrade to "no entries from this source".
func (r *Resolver) Resolve(ctx context.Context, candidate *domain.PackageCandidate) {
	winner := domain.SourceUnknown
	var winning []domain.NormalizedEntry

	for _, fetcher := range r.fetchers {
		result := r.attempt(ctx, fetcher, candidate)
		if result.Status == domain.FetchFound {
			winner = fetcher.Outcome()
			winning = result.Entries
			break
		}
	}

	candidate.Source = winner
	for _, fetcher := range r.fetchers {
		switch {
		case fetcher.Outcome() == winner:
			candidate.SetPayload(winner, domain.FoundPayload(winning))
		case winner != domain.SourceUnknown:
			// A higher- or lower-priority source satisfied the package.
			candidate.SetPayload(fetcher.Outcome(), domain.SkippedPayload())
		default:
			candidate.SetPayload(fetcher.Outcome(), domain.UnavailablePayload())
		}
	}

	if winner == domain.SourceUnknown {
		logger.Warnf(
			"[fetch] %s: no upgrade notes from any source, recording %s",
			candidate.Name, domain.SentinelUnknown,
		)
	} else {
		logger.Debugf("[fetch] %s: resolved via %s", candidate.Name, winner)
	}
}

// attempt runs one capability-gated fetcher and tags the result.
func (r *Resolver) attempt(
	ctx context.Context,
	fetcher domain.SourceFetcher,
	candidate *domain.PackageCandidate,
) domain.FetchResult {
	if !fetcher.Applicable(candidate) {
		logger.Debugf("[fetch] %s: %s not applicable", candidate.Name, fetcher.Name())
		return domain.FetchResult{Status: domain.FetchNotApplicable}
	}

	entries, err := fetcher.Fetch(ctx, candidate)
	if err != nil {
		logger.Warnf(
			"[fetch] %s: %s failed, trying next source: %v",
			candidate.Name, fetcher.Name(), err,
		)
		return domain.FetchResult{Status: domain.FetchFailed, Err: err}
	}
	if len(entries) == 0 {
		logger.Debugf("[fetch] %s: %s returned no in-range entries", candidate.Name, fetcher.Name())
		return domain.FetchResult{Status: domain.FetchEmpty}
	}

	return domain.FetchResult{Status: domain.FetchFound, Entries: entries}
}
