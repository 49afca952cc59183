package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// OutlierScores rates how far each document sits from the corpus center
// in vector space, as cosine distance to the mean vector, min-max
// normalized to [0,1]. Higher score = more atypical for the corpus.
// Used to derive per-item relevance; a single-document corpus gets a
// neutral 0.5.
func OutlierScores(vs *VectorSpace) []float64 {
	n := vs.NumDocs()
	if n == 0 {
		return []float64{}
	}

	dim := len(vs.Terms)
	mean := make([]float64, dim)
	for _, row := range vs.Matrix {
		floats.Add(mean, row)
	}
	floats.Scale(1.0/float64(n), mean)

	scores := make([]float64, n)
	for i, row := range vs.Matrix {
		scores[i] = cosineDistance(row, mean)
	}

	return normalizeScores(scores)
}

// cosineDistance is 1 - cosine similarity; zero vectors are treated as
// maximally distant from any non-zero vector.
func cosineDistance(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	magA := math.Sqrt(floats.Dot(a, a))
	magB := math.Sqrt(floats.Dot(b, b))

	if magA == 0 || magB == 0 {
		return 1.0
	}

	return 1.0 - dot/(magA*magB)
}

// normalizeScores min-max normalizes scores to the 0-1 range.
func normalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}

	minScore := scores[0]
	maxScore := scores[0]
	for _, score := range scores {
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	normalized := make([]float64, len(scores))
	scoreRange := maxScore - minScore

	if scoreRange == 0 {
		// All documents are equally typical
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}

	for i, score := range scores {
		normalized[i] = (score - minScore) / scoreRange
	}

	return normalized
}
