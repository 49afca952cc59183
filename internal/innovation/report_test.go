package innovation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/todmy/insight-engine/pkg/models"
)

func TestBuildReport(t *testing.T) {
	ideas := []models.Idea{
		{Title: "Idea one", BriefDescription: "First description.", PotentialImpact: "Big."},
		{Title: "Idea two", BriefDescription: "Second description.", PotentialImpact: "Bigger."},
	}
	now := time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)

	report := BuildReport(ideas, "carbon capture", now)

	assert.Contains(t, report, "# Research & Innovation Report for: 'carbon capture'")
	assert.Contains(t, report, "**Date:** 2026-08-30 10:15:00")
	assert.Contains(t, report, "### 1. Idea one")
	assert.Contains(t, report, "### 2. Idea two")
	assert.Contains(t, report, "**Description:** First description.")
	assert.Contains(t, report, "**Potential Impact:** Bigger.")
	assert.Contains(t, report, "## Next Steps:")
	assert.True(t, strings.HasSuffix(report, "*This report was generated by the innovation engine.*"))
}

func TestBuildReportNoIdeas(t *testing.T) {
	report := BuildReport(nil, "obscure topic", time.Now())

	assert.Contains(t, report, "No innovative ideas or proposals were generated")
	assert.NotContains(t, report, "## Generated Ideas")
}

func TestBuildReportFillsMissingFields(t *testing.T) {
	report := BuildReport([]models.Idea{{}}, "topic", time.Now())

	assert.Contains(t, report, "### 1. Untitled Idea")
	assert.Contains(t, report, "No description provided.")
	assert.Contains(t, report, "No impact assessment provided.")
}
