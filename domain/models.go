package domain

import "time"

// UpdateType classifies how far apart the current and latest versions are.
type UpdateType string

const (
	UpdatePatch   UpdateType = "patch"
	UpdateMinor   UpdateType = "minor"
	UpdateMajor   UpdateType = "major"
	UpdateUnknown UpdateType = "unknown"
)

// SourceOutcome records which upgrade-note source won for a package.
// Exactly one value is assigned per package per run.
type SourceOutcome string

const (
	SourceReleaseNotes SourceOutcome = "release-notes"
	SourceChangelog    SourceOutcome = "changelog"
	SourceCommitLog    SourceOutcome = "commit-log"
	SourceUnknown      SourceOutcome = "unknown"
)

// Reserved sentinel labels used when rendering payloads that carry no
// entries. They are display markers only; the payload state itself is
// tracked by PayloadKind, so real note text can never collide with them.
const (
	SentinelSkipped = "[skipped]"
	SentinelUnknown = "[unknown]"
)

// PlaceholderNoteText is stored on entries whose source provided no body.
const PlaceholderNoteText = "no notes available"

// PackageMetadata describes one outdated dependency as supplied by the
// discovery step.
type PackageMetadata struct {
	Current       string
	Latest        string
	RepositoryURL string
	FallbackURL   string

	// Capability flags: whether each fetcher applies to this package.
	HasReleaseNotes bool
	HasChangelog    bool
	HasCommitLog    bool

	UpdateType UpdateType
	Difficulty int
}

// NormalizedEntry is one upgrade-note record extracted from any source.
type NormalizedEntry struct {
	Version     string
	PublishedAt *time.Time
	Text        string
}

// PayloadKind tags the state of a NotePayload.
type PayloadKind int

const (
	// PayloadUnavailable means every attempted or applicable source
	// failed or returned nothing.
	PayloadUnavailable PayloadKind = iota
	// PayloadSkipped means a higher-priority source already satisfied
	// the package, so this one was not needed.
	PayloadSkipped
	// PayloadFound means this source produced the winning entries.
	PayloadFound
)

// NotePayload is a tagged variant holding either real entries or one of
// the two no-data states. The two states are distinct on purpose:
// "skipped" and "unknown" mean different things in the final report.
type NotePayload struct {
	kind    PayloadKind
	entries []NormalizedEntry
}

// FoundPayload wraps the entries a winning source produced.
func FoundPayload(entries []NormalizedEntry) NotePayload {
	return NotePayload{kind: PayloadFound, entries: entries}
}

// SkippedPayload marks a source that was superseded by a higher-priority one.
func SkippedPayload() NotePayload {
	return NotePayload{kind: PayloadSkipped}
}

// UnavailablePayload marks a source that was attempted (or inapplicable)
// and yielded nothing.
func UnavailablePayload() NotePayload {
	return NotePayload{kind: PayloadUnavailable}
}

func (p NotePayload) Kind() PayloadKind          { return p.kind }
func (p NotePayload) Entries() []NormalizedEntry { return p.entries }

func (p NotePayload) HasEntries() bool {
	return p.kind == PayloadFound && len(p.entries) > 0
}

// Sentinel returns the display marker for a no-data payload, or the empty
// string when real entries are present.
func (p NotePayload) Sentinel() string {
	switch p.kind {
	case PayloadSkipped:
		return SentinelSkipped
	case PayloadUnavailable:
		return SentinelUnknown
	default:
		return ""
	}
}

// PackageCandidate is one outdated dependency under evaluation. It is
// constructed once per run and mutated in place as fetch and
// categorization results arrive; it is never persisted beyond the run.
type PackageCandidate struct {
	Name     string
	Metadata PackageMetadata

	// One payload slot per source; after resolution, exactly one holds
	// Found entries (or all hold a no-data state).
	ReleaseNotes NotePayload
	Changelog    NotePayload
	CommitLog    NotePayload

	// Source is tracked per candidate, never in shared run state, so
	// resolution stays correct if fetching is ever parallelized.
	Source SourceOutcome

	Notes CategorizedNotes
}

// NewPackageCandidate creates a candidate with all payload slots
// unavailable and empty category buckets.
func NewPackageCandidate(name string, meta PackageMetadata) *PackageCandidate {
	return &PackageCandidate{
		Name:         name,
		Metadata:     meta,
		ReleaseNotes: UnavailablePayload(),
		Changelog:    UnavailablePayload(),
		CommitLog:    UnavailablePayload(),
		Source:       SourceUnknown,
		Notes:        NewCategorizedNotes(),
	}
}

// SetPayload stores a payload in the slot belonging to the given source.
func (c *PackageCandidate) SetPayload(source SourceOutcome, payload NotePayload) {
	switch source {
	case SourceReleaseNotes:
		c.ReleaseNotes = payload
	case SourceChangelog:
		c.Changelog = payload
	case SourceCommitLog:
		c.CommitLog = payload
	case SourceUnknown:
		// The unknown outcome has no slot.
	}
}

// WinningPayload returns the payload of the source that won, or an
// unavailable payload when no source did.
func (c *PackageCandidate) WinningPayload() NotePayload {
	switch c.Source {
	case SourceReleaseNotes:
		return c.ReleaseNotes
	case SourceChangelog:
		return c.Changelog
	case SourceCommitLog:
		return c.CommitLog
	default:
		return UnavailablePayload()
	}
}
