package analysis

import (
	"github.com/todmy/insight-engine/pkg/models"
)

const summaryPreviewLen = 150

// compileInput bundles everything the compiler needs from the earlier
// pipeline stages.
type compileInput struct {
	Documents   []models.Document
	KeywordSets [][]string
	Relevance   []float64
	Assignment  *ClusterAssignment
	TopTerms    []string
	Quality     float64
	KeywordsCap int
}

// CompileInsights assembles the insight set: one per-item insight per
// input document, in input order, followed by exactly one overall_trend
// insight carrying the aggregate fields. A document whose tokenization
// produced nothing still yields an insight with an empty keyword set;
// documents are never dropped.
func CompileInsights(in compileInput) []models.Insight {
	insights := make([]models.Insight, 0, len(in.Documents)+1)

	for i, doc := range in.Documents {
		keywords := []string{}
		if i < len(in.KeywordSets) && in.KeywordSets[i] != nil {
			keywords = in.KeywordSets[i]
		}
		if in.KeywordsCap > 0 && len(keywords) > in.KeywordsCap {
			keywords = keywords[:in.KeywordsCap]
		}

		relevance := 0.5
		if i < len(in.Relevance) {
			relevance = 1.0 - in.Relevance[i]
		}

		insights = append(insights, models.Insight{
			Type:          models.InsightPerItem,
			SourceID:      doc.SourceID,
			Title:         doc.Title,
			Summary:       preview(doc.Summary),
			URL:           doc.URL,
			Keywords:      keywords,
			NamedEntities: []string{},
			Relevance:     relevance,
		})
	}

	numClusters := 0
	if in.Assignment != nil {
		numClusters = in.Assignment.K
	}

	uniqueKeywords := len(countUniqueKeywords(in.KeywordSets))

	overall := models.Insight{
		Type:           models.InsightOverallTrend,
		Keywords:       []string{},
		NamedEntities:  []string{},
		TopTerms:       in.TopTerms,
		NumClusters:    numClusters,
		QualityScore:   in.Quality,
		CorpusSize:     len(in.Documents),
		UniqueKeywords: uniqueKeywords,
	}

	return append(insights, overall)
}

func preview(s string) string {
	if len(s) <= summaryPreviewLen {
		return s
	}
	return s[:summaryPreviewLen] + "..."
}

func countUniqueKeywords(sets [][]string) map[string]bool {
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, kw := range set {
			seen[kw] = true
		}
	}
	return seen
}
