package enrich

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/upgradenotes/domain"
)

const maxFragmentsPerCategory = 10

// BuildPrompt assembles the summarization prompt from the categorized
// candidate list. When focus areas are configured, only those categories
// are included; otherwise all five are.
func BuildPrompt(candidates []*domain.PackageCandidate, focusAreas []domain.Category) string {
	categories := focusAreas
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}

	var sb strings.Builder
	sb.WriteString(
		"You are reviewing dependency upgrades. For each package below, " +
			"summarize the risk and the concrete actions the maintainer must take. " +
			"Be brief and specific.\n\n",
	)

	for _, c := range candidates {
		if c.Source == domain.SourceUnknown {
			continue
		}

		fmt.Fprintf(&sb, "Package %s: %s -> %s (%s update)\n",
			c.Name, c.Metadata.Current, c.Metadata.Latest, c.Metadata.UpdateType)

		for _, cat := range categories {
			fragments := c.Notes.Fragments[cat]
			if len(fragments) == 0 {
				continue
			}
			if len(fragments) > maxFragmentsPerCategory {
				fragments = fragments[:maxFragmentsPerCategory]
			}
			fmt.Fprintf(&sb, "  %s:\n", cat)
			for _, fragment := range fragments {
				fmt.Fprintf(&sb, "  - %s\n", fragment)
			}
		}

		if len(c.Notes.Terms) > 0 {
			fmt.Fprintf(&sb, "  terms: %s\n", strings.Join(c.Notes.Terms, ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
