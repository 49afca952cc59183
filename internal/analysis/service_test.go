package analysis

import (
	"errors"
	"testing"

	"github.com/todmy/insight-engine/pkg/models"
)

func testDocs() []models.Document {
	return []models.Document{
		{SourceID: "newsapi", Title: "Solid-state batteries near production", BodyText: "Solid state battery cells promise higher density and faster charging for electric vehicles"},
		{SourceID: "newsapi", Title: "Grid storage deployments accelerate", BodyText: "Utility scale battery storage installations grew as grid operators balance renewable generation"},
		{SourceID: "arxiv", Title: "Electrolyte materials survey", BodyText: "Survey of solid electrolyte materials for lithium battery chemistry and interface stability"},
		{SourceID: "arxiv", Title: "Transformer inference optimization", BodyText: "Techniques for reducing transformer model inference latency on commodity hardware"},
	}
}

func TestServiceAnalyzeEmptyCorpus(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	_, err := svc.Analyze(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestServiceAnalyzeStopWordOnlyCorpus(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	_, err := svc.Analyze([]models.Document{
		{Title: "The", BodyText: "and or but the is was"},
	})
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for stop-word-only corpus, got %v", err)
	}
}

func TestServiceAnalyze(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	docs := testDocs()

	result, err := svc.Analyze(docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CorpusSize != len(docs) {
		t.Errorf("CorpusSize = %d, want %d", result.CorpusSize, len(docs))
	}
	if len(result.Insights) != len(docs)+1 {
		t.Fatalf("got %d insights, want %d per-item + 1 overall", len(result.Insights), len(docs))
	}
	if !result.Clustered {
		t.Error("four distinct documents should cluster")
	}
	if result.QualityScore <= 0 || result.QualityScore > 1 {
		t.Errorf("QualityScore = %v outside (0,1]", result.QualityScore)
	}

	overall := result.Insights[len(result.Insights)-1]
	if overall.Type != models.InsightOverallTrend {
		t.Fatalf("last insight type = %q, want overall_trend", overall.Type)
	}
	if overall.CorpusSize != len(docs) {
		t.Errorf("overall CorpusSize = %d, want %d", overall.CorpusSize, len(docs))
	}
	if overall.NumClusters < 1 {
		t.Errorf("overall NumClusters = %d, want >= 1", overall.NumClusters)
	}
	if len(overall.TopTerms) == 0 {
		t.Error("overall insight has no top terms")
	}

	if len(result.Clusters) != overall.NumClusters {
		t.Errorf("got %d clusters, overall insight reports %d", len(result.Clusters), overall.NumClusters)
	}
	total := 0
	for _, cluster := range result.Clusters {
		total += cluster.Size
	}
	if total != len(docs) {
		t.Errorf("cluster sizes sum to %d, want %d", total, len(docs))
	}
}

func TestServiceAnalyzeSingleDocDegenerate(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	result, err := svc.Analyze(testDocs()[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Clustered {
		t.Error("single document cannot produce a real partitioning")
	}
	if len(result.Clusters) != 1 {
		t.Errorf("got %d clusters, want 1 degenerate cluster", len(result.Clusters))
	}
	if len(result.Insights) != 2 {
		t.Errorf("got %d insights, want 1 per-item + 1 overall", len(result.Insights))
	}
}

func TestServiceAnalyzeDuplicateCorpus(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	doc := testDocs()[0]
	result, err := svc.Analyze([]models.Document{doc, doc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cluster := range result.Clusters {
		if cluster.Size == 0 && len(cluster.TopTerms) != 0 {
			t.Errorf("empty cluster %d carries top terms %v", cluster.Label, cluster.TopTerms)
		}
	}
}

func TestServiceAnalyzeDeterministic(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	docs := testDocs()

	first, err := svc.Analyze(docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		result, err := svc.Analyze(docs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.QualityScore != first.QualityScore {
			t.Fatalf("quality score changed between runs: %v vs %v", result.QualityScore, first.QualityScore)
		}
		for j := range result.Insights {
			if result.Insights[j].Type != first.Insights[j].Type ||
				result.Insights[j].Title != first.Insights[j].Title {
				t.Fatalf("insight %d differs between runs", j)
			}
		}
	}
}

func TestNewServiceDefaultsZeroQualityConfig(t *testing.T) {
	svc := NewService(Config{MaxClusters: 3}, nil)

	if svc.config.Quality != DefaultQualityConfig() {
		t.Errorf("Quality = %+v, want defaults", svc.config.Quality)
	}

	result, err := svc.Analyze(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.QualityScore <= 0 {
		t.Errorf("QualityScore = %v, want positive for a usable corpus", result.QualityScore)
	}
}

func TestNewServiceKeepsExplicitQualityConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quality.SizeWeight = 0.5
	cfg.Quality.DiversityWeight = 0.5
	cfg.Quality.ClusterWeight = 0

	svc := NewService(cfg, nil)
	if svc.config.Quality != cfg.Quality {
		t.Errorf("Quality = %+v, want the configured %+v", svc.config.Quality, cfg.Quality)
	}
}

func TestServiceAnalyzeKeywordsCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeywordsPerItem = 2
	svc := NewService(cfg, nil)

	result, err := svc.Analyze(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, insight := range result.Insights {
		if insight.Type != models.InsightPerItem {
			continue
		}
		if len(insight.Keywords) > 2 {
			t.Errorf("insight %d carries %d keywords, want at most 2", i, len(insight.Keywords))
		}
	}
}
