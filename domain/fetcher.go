package domain

import "context"

// FetchStatus tags the result of a single fetcher attempt in the
// fallback chain.
type FetchStatus int

const (
	// FetchNotApplicable means the candidate's capability flag for this
	// source is off, so the fetcher was never invoked.
	FetchNotApplicable FetchStatus = iota
	// FetchEmpty means the fetcher ran but produced no in-range entries.
	FetchEmpty
	// FetchFailed means the fetcher hit a network or parse error.
	FetchFailed
	// FetchFound means the fetcher produced entries and wins the chain.
	FetchFound
)

// FetchResult is the tagged outcome of one fetcher attempt.
type FetchResult struct {
	Status  FetchStatus
	Entries []NormalizedEntry
	Err     error
}

// SourceFetcher retrieves raw upgrade text for one package from one data
// source. Implementations make a single attempt per call, without
// retries, and apply the version-range filter before returning entries.
// Entries are returned in whatever order the source provides.
type SourceFetcher interface {
	// Name identifies the fetcher in logs (e.g. "github-releases").
	Name() string

	// Outcome is the SourceOutcome this fetcher claims when it wins.
	Outcome() SourceOutcome

	// Applicable reports whether this fetcher can serve the candidate,
	// based on its capability flag and metadata URLs.
	Applicable(candidate *PackageCandidate) bool

	// Fetch retrieves and normalizes in-range entries for the candidate.
	// An error means the source failed; the caller degrades it to
	// "no entries from this source", never aborts the run.
	Fetch(ctx context.Context, candidate *PackageCandidate) ([]NormalizedEntry, error)
}

// NotesResolver runs the fallback chain for one candidate and records the
// outcome on it. Resolution is stateless across packages.
type NotesResolver interface {
	Resolve(ctx context.Context, candidate *PackageCandidate)
}
