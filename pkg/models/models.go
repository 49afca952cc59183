package models

import (
	"time"
)

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Document represents a normalized record fetched from an external source.
// Immutable once handed to the analysis pipeline; the URL acts as the
// natural key.
type Document struct {
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	BodyText    string    `json:"body_text"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Authors     []string  `json:"authors"`
}

// Text concatenates the document fields used for analysis.
func (d Document) Text() string {
	return d.Title + " " + d.Summary + " " + d.BodyText
}

// InsightType distinguishes per-document insights from the aggregate one.
type InsightType string

const (
	InsightPerItem      InsightType = "per_item"
	InsightOverallTrend InsightType = "overall_trend"
)

// Insight is a structured summary record derived from the corpus.
// Per-item insights reference a document; the single overall_trend
// insight carries the aggregate fields instead.
type Insight struct {
	Type          InsightType `json:"type"`
	SourceID      string      `json:"source_id,omitempty"`
	Title         string      `json:"title,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	URL           string      `json:"url,omitempty"`
	Keywords      []string    `json:"keywords"`
	NamedEntities []string    `json:"named_entities"`
	Relevance     float64     `json:"relevance"`

	// Aggregate fields, set only on the overall_trend insight.
	TopTerms       []string `json:"top_terms,omitempty"`
	NumClusters    int      `json:"num_clusters_identified,omitempty"`
	QualityScore   float64  `json:"insight_quality_score"`
	CorpusSize     int      `json:"corpus_size,omitempty"`
	UniqueKeywords int      `json:"unique_keywords,omitempty"`
}

// Idea is an innovation proposal produced from an insight set.
type Idea struct {
	Title            string `json:"title"`
	BriefDescription string `json:"brief_description"`
	PotentialImpact  string `json:"potential_impact"`
}

// ThemeCluster describes one theme identified by the clusterer.
type ThemeCluster struct {
	Label    int       `json:"label"`
	Size     int       `json:"size"`
	TopTerms []string  `json:"top_terms"`
	Centroid []float32 `json:"-"`
}

// Report is a persisted outcome of one orchestration run.
type Report struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Query          string         `json:"query"`
	QualityScore   float64        `json:"quality_score"`
	IterationsUsed int            `json:"iterations_used"`
	Insights       []Insight      `json:"insights"`
	Clusters       []ThemeCluster `json:"clusters"`
	Markdown       string         `json:"markdown,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
