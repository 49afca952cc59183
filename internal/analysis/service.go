package analysis

import (
	"log/slog"

	"github.com/todmy/insight-engine/pkg/models"
)

// Service runs the corpus analysis pipeline: tokenization, TF-IDF
// fitting, theme clustering, quality scoring and insight compilation.
type Service struct {
	extractor *KeywordExtractor
	config    Config
	logger    *slog.Logger
}

// Config holds analysis pipeline configuration
type Config struct {
	MaxClusters     int
	TopTermCount    int
	KeywordsPerItem int
	Quality         QualityConfig
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxClusters:     3,
		TopTermCount:    10,
		KeywordsPerItem: 5,
		Quality:         DefaultQualityConfig(),
	}
}

// NewService creates a new analysis service
func NewService(config Config, logger *slog.Logger) *Service {
	if config.MaxClusters <= 0 {
		config.MaxClusters = DefaultConfig().MaxClusters
	}
	if config.TopTermCount <= 0 {
		config.TopTermCount = DefaultConfig().TopTermCount
	}
	if config.KeywordsPerItem <= 0 {
		config.KeywordsPerItem = DefaultConfig().KeywordsPerItem
	}
	q := config.Quality
	if q.SizeWeight == 0 && q.DiversityWeight == 0 && q.ClusterWeight == 0 {
		// A zero-value QualityConfig would score every corpus 0.
		config.Quality = DefaultQualityConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		extractor: NewKeywordExtractor(),
		config:    config,
		logger:    logger,
	}
}

// Result holds the outcome of one analysis pass.
type Result struct {
	Insights       []models.Insight
	Clusters       []models.ThemeCluster
	QualityScore   float64
	CorpusSize     int
	UniqueKeywords int
	Clustered      bool
}

// Analyze runs one full pipeline pass over the corpus. The fitted
// vector space model lives only for the duration of this call; it is
// not reused across refinement iterations since the corpus changes.
// Returns ErrInsufficientData for an empty or unusable corpus.
func (s *Service) Analyze(docs []models.Document) (*Result, error) {
	if len(docs) == 0 {
		return nil, ErrInsufficientData
	}

	s.logger.Debug("analyzing corpus", "documents", len(docs))

	// Per-document tokenization; a document that produces no tokens
	// keeps its slot so insights stay 1:1 with documents.
	tokens := make([][]string, len(docs))
	keywordSets := make([][]string, len(docs))
	for i, doc := range docs {
		tokens[i] = s.extractor.Tokenize(doc.Text())
		keywordSets[i] = UniqueTokens(tokens[i])
	}

	vs, err := BuildVectorSpace(tokens)
	if err != nil {
		return nil, err
	}

	assignment := Cluster(vs, s.config.MaxClusters)
	if assignment.Degenerate {
		s.logger.Debug("corpus too small to cluster, using single-cluster assignment",
			"documents", len(docs))
	}

	topTerms := vs.TopTerms(nil, s.config.TopTermCount)
	relevance := OutlierScores(vs)

	quality := QualityScore(len(docs), len(vs.Terms), !assignment.Degenerate, s.config.Quality)

	insights := CompileInsights(compileInput{
		Documents:   docs,
		KeywordSets: keywordSets,
		Relevance:   relevance,
		Assignment:  assignment,
		TopTerms:    topTerms,
		Quality:     quality,
		KeywordsCap: s.config.KeywordsPerItem,
	})

	clusters := s.buildClusters(vs, assignment)

	s.logger.Info("analysis pass complete",
		"documents", len(docs),
		"unique_keywords", len(vs.Terms),
		"clusters", assignment.K,
		"quality_score", quality)

	return &Result{
		Insights:       insights,
		Clusters:       clusters,
		QualityScore:   quality,
		CorpusSize:     len(docs),
		UniqueKeywords: len(vs.Terms),
		Clustered:      !assignment.Degenerate,
	}, nil
}

func (s *Service) buildClusters(vs *VectorSpace, assignment *ClusterAssignment) []models.ThemeCluster {
	clusters := make([]models.ThemeCluster, assignment.K)
	for label := 0; label < assignment.K; label++ {
		members := assignment.Members(label)
		clusters[label] = models.ThemeCluster{
			Label:    label,
			Size:     len(members),
			TopTerms: vs.TopTerms(members, s.config.TopTermCount),
			Centroid: centroidAsFloat32(assignment, label),
		}
	}
	return clusters
}

func centroidAsFloat32(assignment *ClusterAssignment, label int) []float32 {
	if label >= len(assignment.Centroids) {
		return nil
	}
	c := assignment.Centroids[label]
	out := make([]float32, len(c))
	for i, v := range c {
		out[i] = float32(v)
	}
	return out
}
