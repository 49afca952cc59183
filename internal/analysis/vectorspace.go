package analysis

import (
	"errors"
	"math"
	"sort"
)

// ErrInsufficientData signals that the corpus is empty or has no usable
// terms after tokenization. Whether this aborts the request is decided
// by the refinement orchestrator, not here.
var ErrInsufficientData = errors.New("insufficient data: corpus has no usable terms")

// VectorSpace is a fitted TF-IDF model over one corpus: a document x term
// weight matrix with a stable, sorted vocabulary. It is owned by a single
// analysis pass and discarded afterwards.
type VectorSpace struct {
	Terms  []string       // sorted vocabulary
	Index  map[string]int // term -> column
	Matrix [][]float64    // one weighted row per document
}

// BuildVectorSpace fits a TF-IDF model over tokenized documents.
// Term frequency is normalized by document length; document frequency is
// down-weighted with a smoothed logarithm so corpus-wide terms score low
// and distinctive terms score high. Documents with no tokens produce a
// zero row rather than being dropped.
func BuildVectorSpace(docs [][]string) (*VectorSpace, error) {
	n := len(docs)
	if n == 0 {
		return nil, ErrInsufficientData
	}

	// Document frequency per term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, word := range doc {
			if !seen[word] {
				df[word]++
				seen[word] = true
			}
		}
	}

	if len(df) == 0 {
		return nil, ErrInsufficientData
	}

	// Stable column order for reproducible matrices
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+float64(n))/(1+float64(df[term]))) + 1.0
	}

	matrix := make([][]float64, n)
	for i, doc := range docs {
		row := make([]float64, len(terms))
		matrix[i] = row

		if len(doc) == 0 {
			continue
		}

		tf := make(map[string]int)
		for _, word := range doc {
			tf[word]++
		}

		docLen := float64(len(doc))
		for word, count := range tf {
			col := index[word]
			row[col] = (float64(count) / docLen) * idf[col]
		}
	}

	return &VectorSpace{
		Terms:  terms,
		Index:  index,
		Matrix: matrix,
	}, nil
}

// NumDocs returns the number of documents the model was fitted on.
func (vs *VectorSpace) NumDocs() int {
	return len(vs.Matrix)
}

// TopTerms returns the topK terms with the highest aggregate weight over
// the given document rows. A nil rows slice aggregates the whole corpus.
func (vs *VectorSpace) TopTerms(rows []int, topK int) []string {
	sums := make([]float64, len(vs.Terms))
	if rows == nil {
		for _, row := range vs.Matrix {
			for j, w := range row {
				sums[j] += w
			}
		}
	} else {
		for _, i := range rows {
			if i < 0 || i >= len(vs.Matrix) {
				continue
			}
			for j, w := range vs.Matrix[i] {
				sums[j] += w
			}
		}
	}

	order := make([]int, len(sums))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if sums[order[a]] != sums[order[b]] {
			return sums[order[a]] > sums[order[b]]
		}
		return vs.Terms[order[a]] < vs.Terms[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	top := make([]string, 0, topK)
	for _, idx := range order[:topK] {
		if sums[idx] <= 0 {
			break
		}
		top = append(top, vs.Terms[idx])
	}
	return top
}
