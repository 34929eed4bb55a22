package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Difficulty scores per update type, used for report ordering. Larger
// means a riskier upgrade.
const (
	difficultyPatch   = 1
	difficultyMinor   = 4
	difficultyUnknown = 5
	difficultyMajor   = 8
)

// ParseVersion parses a version string, tolerating a leading "v".
// Returns nil when the string is not a valid semantic version.
func ParseVersion(raw string) *semver.Version {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil
	}
	return v
}

// InRange reports whether candidate lies in the open-closed interval
// (current, latest]. Invalid version strings never pass.
func InRange(current, latest, candidate string) bool {
	cur := ParseVersion(current)
	lat := ParseVersion(latest)
	cand := ParseVersion(candidate)
	if cur == nil || lat == nil || cand == nil {
		return false
	}
	return cand.GreaterThan(cur) && !cand.GreaterThan(lat)
}

// ValidRange reports whether current and latest are both valid versions
// with current preceding or equal to latest.
func ValidRange(current, latest string) bool {
	cur := ParseVersion(current)
	lat := ParseVersion(latest)
	if cur == nil || lat == nil {
		return false
	}
	return !cur.GreaterThan(lat)
}

// ClassifyUpdate determines which version component changes between
// current and latest.
func ClassifyUpdate(current, latest string) UpdateType {
	cur := ParseVersion(current)
	lat := ParseVersion(latest)
	if cur == nil || lat == nil {
		return UpdateUnknown
	}
	switch {
	case lat.Major() != cur.Major():
		return UpdateMajor
	case lat.Minor() != cur.Minor():
		return UpdateMinor
	case lat.Patch() != cur.Patch():
		return UpdatePatch
	default:
		return UpdateUnknown
	}
}

// DifficultyScore maps an update type to its numeric difficulty.
func DifficultyScore(t UpdateType) int {
	switch t {
	case UpdatePatch:
		return difficultyPatch
	case UpdateMinor:
		return difficultyMinor
	case UpdateMajor:
		return difficultyMajor
	default:
		return difficultyUnknown
	}
}
