package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Category labels a bucket of upgrade-note fragments.
type Category string

const (
	CategoryBreaking      Category = "breakingChange"
	CategorySecurity      Category = "security"
	CategoryDeprecation   Category = "deprecation"
	CategoryPerformance   Category = "performance"
	CategoryMigration     Category = "migration"
	CategoryUncategorized Category = "uncategorized"
)

// AllCategories returns the five named categories in their fixed order.
// The uncategorized bucket is implicit and always present as well.
func AllCategories() []Category {
	return []Category{
		CategoryBreaking,
		CategorySecurity,
		CategoryDeprecation,
		CategoryPerformance,
		CategoryMigration,
	}
}

// CategorizedNotes maps every category to an ordered list of matched
// fragments, plus a flat ordered list of extracted important terms.
// Empty categories are empty lists, never missing keys, so consumers can
// query any key safely.
type CategorizedNotes struct {
	Fragments map[Category][]string
	Terms     []string
}

// NewCategorizedNotes returns all-empty buckets for every category,
// including the uncategorized one.
func NewCategorizedNotes() CategorizedNotes {
	fragments := make(map[Category][]string, len(AllCategories())+1)
	for _, cat := range AllCategories() {
		fragments[cat] = []string{}
	}
	fragments[CategoryUncategorized] = []string{}
	return CategorizedNotes{Fragments: fragments, Terms: []string{}}
}

// categoryPatterns is the ordered table of (category, pattern) pairs the
// engine evaluates against case-folded text. All matching categories are
// collected, not just the first, so one fragment may land in several
// buckets.
var categoryPatterns = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategoryBreaking, regexp.MustCompile(
		`breaking[ -]change|backwards?[ -]incompatible|incompatible change|` +
			`no longer support|dropp?ed support|\bremoved\b|\brenamed\b|` +
			`behaviou?r (has )?changed`)},
	{CategorySecurity, regexp.MustCompile(
		`cve-\d{4}-\d+|vulnerab|security (fix|patch|advisory|issue|release)|` +
			`\bxss\b|\bcsrf\b|remote code execution|denial of service|prototype pollution`)},
	{CategoryDeprecation, regexp.MustCompile(
		`deprecat|will be removed|scheduled for removal|\bobsolete\b`)},
	{CategoryPerformance, regexp.MustCompile(
		`performance|\bfaster\b|speed[ -]?up|optimi[sz]|` +
			`reduced? (memory|allocations?)|\blatency\b`)},
	{CategoryMigration, regexp.MustCompile(
		`migrat|upgrade guide|upgrading from|how to upgrade|update your (code|config)`)},
}

// termPatterns extract display-worthy tokens for the important-terms list.
// They run against the original (non-folded) text so case is preserved.
var termPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bCVE-\d{4}-\d+\b`),
	regexp.MustCompile("`[^`\n]+`"),
	regexp.MustCompile(`(?i)\bBREAKING(?: CHANGE)?\b`),
	regexp.MustCompile(`(?i)\bdeprecated\b`),
	regexp.MustCompile(`(?i)\bvulnerabilit(?:y|ies)\b`),
	regexp.MustCompile(`(?i)\bend[ -]of[ -]life\b|\bEOL\b`),
}

var bulletTrim = regexp.MustCompile(`^[-*+>\s]+`)

// Categorize scans the given entries and buckets every matched line under
// its categories. Duplicate fragments across entries are preserved: two
// releases both mentioning a breaking change yield two fragments.
// Malformed or empty input yields all-empty output; this never fails.
func Categorize(entries []NormalizedEntry) CategorizedNotes {
	notes := NewCategorizedNotes()

	var full strings.Builder
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" || text == PlaceholderNoteText {
			continue
		}
		full.WriteString(entry.Text)
		full.WriteString("\n")

		for _, line := range strings.Split(entry.Text, "\n") {
			categorizeLine(&notes, line)
		}
	}

	notes.Terms = ExtractTerms(full.String())
	return notes
}

func categorizeLine(notes *CategorizedNotes, line string) {
	isBullet := strings.HasPrefix(strings.TrimSpace(line), "-") ||
		strings.HasPrefix(strings.TrimSpace(line), "*") ||
		strings.HasPrefix(strings.TrimSpace(line), "+")

	fragment := strings.TrimSpace(bulletTrim.ReplaceAllString(line, ""))
	if fragment == "" || fragment == PlaceholderNoteText {
		return
	}

	folded := strings.ToLower(fragment)
	matched := false
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(folded) {
			notes.Fragments[cp.category] = append(notes.Fragments[cp.category], fragment)
			matched = true
		}
	}

	// Only actual change items (list bullets) fall through to the
	// uncategorized bucket; prose and headings are dropped.
	if !matched && isBullet {
		notes.Fragments[CategoryUncategorized] = append(
			notes.Fragments[CategoryUncategorized], fragment,
		)
	}
}

// ExtractTerms returns important terms in order of discovery, case
// preserved. Exact duplicates are collapsed, keeping the first occurrence.
func ExtractTerms(text string) []string {
	type located struct {
		pos  int
		term string
	}

	var found []located
	for _, pattern := range termPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			found = append(found, located{pos: loc[0], term: text[loc[0]:loc[1]]})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	terms := []string{}
	seen := make(map[string]bool, len(found))
	for _, f := range found {
		if seen[f.term] {
			continue
		}
		seen[f.term] = true
		terms = append(terms, f.term)
	}
	return terms
}
