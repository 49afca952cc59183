package analysis

// QualityConfig holds the targets and weights behind the quality score.
// The constants are heuristic, not derived from data; treat them as
// tunables.
type QualityConfig struct {
	TargetCorpusSize   int
	TargetKeywordCount int
	SizeWeight         float64
	DiversityWeight    float64
	ClusterWeight      float64
}

// DefaultQualityConfig returns the default targets and weights.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		TargetCorpusSize:   10,
		TargetKeywordCount: 20,
		SizeWeight:         0.4,
		DiversityWeight:    0.4,
		ClusterWeight:      0.2,
	}
}

// QualityScore combines corpus size, keyword diversity and clustering
// success into a single score in [0,1]. It is the control signal for
// the refinement loop: pure, deterministic, and monotonic non-decreasing
// in each input.
func QualityScore(corpusSize, uniqueKeywords int, clustered bool, cfg QualityConfig) float64 {
	sizeScore := ratioScore(corpusSize, cfg.TargetCorpusSize)
	diversityScore := ratioScore(uniqueKeywords, cfg.TargetKeywordCount)

	clusterScore := 0.0
	if clustered {
		clusterScore = 1.0
	}

	score := cfg.SizeWeight*sizeScore +
		cfg.DiversityWeight*diversityScore +
		cfg.ClusterWeight*clusterScore

	return clamp01(score)
}

func ratioScore(value, target int) float64 {
	if target <= 0 {
		return 1.0
	}
	if value <= 0 {
		return 0.0
	}
	return clamp01(float64(value) / float64(target))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
