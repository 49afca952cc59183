package innovation

import (
	"fmt"
	"strings"
	"time"

	"github.com/todmy/insight-engine/pkg/models"
)

// BuildReport renders a markdown report for the generated ideas.
func BuildReport(ideas []models.Idea, query string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research & Innovation Report for: '%s'\n\n", query)
	fmt.Fprintf(&b, "**Date:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("--- \n\n")

	if len(ideas) == 0 {
		b.WriteString("No innovative ideas or proposals were generated based on the current analysis.\n")
		return b.String()
	}

	b.WriteString("## Generated Ideas & Proposals:\n\n")

	for i, idea := range ideas {
		title := idea.Title
		if title == "" {
			title = "Untitled Idea"
		}
		description := idea.BriefDescription
		if description == "" {
			description = "No description provided."
		}
		impact := idea.PotentialImpact
		if impact == "" {
			impact = "No impact assessment provided."
		}

		fmt.Fprintf(&b, "### %d. %s\n", i+1, title)
		fmt.Fprintf(&b, "**Description:** %s\n\n", description)
		fmt.Fprintf(&b, "**Potential Impact:** %s\n\n", impact)
		b.WriteString("---\n\n")
	}

	b.WriteString("## Next Steps:\n")
	b.WriteString("- Further validation and feasibility studies for promising ideas.\n")
	b.WriteString("- Detailed market research.\n")
	b.WriteString("- Exploration of required resources and technologies.\n")
	b.WriteString("\n*This report was generated by the innovation engine.*")

	return b.String()
}
