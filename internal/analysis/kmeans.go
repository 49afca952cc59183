package analysis

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// KMeans performs k-means clustering on document vectors
type KMeans struct {
	K         int     // Number of clusters
	MaxIter   int     // Maximum iterations
	Tolerance float64 // Convergence tolerance
	Centroids [][]float64
	Labels    []int
	Inertia   float64
}

// NewKMeans creates a new K-means clusterer
func NewKMeans(k int) *KMeans {
	return &KMeans{
		K:         k,
		MaxIter:   100,
		Tolerance: 1e-4,
	}
}

// ClusterAssignment maps each document row to a theme cluster.
// A degenerate assignment (single cluster, no partitioning) is produced
// for corpora too small to cluster; that is a policy decision, not a
// failure.
type ClusterAssignment struct {
	Labels     []int
	K          int
	Degenerate bool
	Centroids  [][]float64
	Inertia    float64
}

// Members returns the row indices assigned to the given cluster.
// Always non-nil: an empty cluster yields an empty slice, which keeps
// it distinct from the nil "whole corpus" selection in TopTerms.
func (ca *ClusterAssignment) Members(cluster int) []int {
	rows := []int{}
	for i, label := range ca.Labels {
		if label == cluster {
			rows = append(rows, i)
		}
	}
	return rows
}

// Cluster partitions the vector space rows into at most maxClusters
// themes. k is capped by the corpus size; a corpus of fewer than two
// documents cannot be partitioned and yields a single-cluster
// assignment without running k-means.
func Cluster(vs *VectorSpace, maxClusters int) *ClusterAssignment {
	n := vs.NumDocs()

	if n < 2 || maxClusters < 2 {
		return &ClusterAssignment{
			Labels:     make([]int, n),
			K:          1,
			Degenerate: true,
		}
	}

	k := maxClusters
	if k > n {
		k = n
	}

	km := NewKMeans(k)
	labels := km.Fit(vs.Matrix)

	return &ClusterAssignment{
		Labels:    labels,
		K:         k,
		Centroids: km.Centroids,
		Inertia:   km.Inertia,
	}
}

// Fit clusters the vectors and returns cluster assignments.
// Ties in nearest-centroid distance are broken by the lowest cluster
// index, since only a strictly smaller distance moves the assignment.
func (km *KMeans) Fit(data [][]float64) []int {
	n := len(data)
	if n == 0 || km.K <= 0 {
		return []int{}
	}

	k := km.K
	if k > n {
		k = n
	}

	dim := len(data[0])

	// Initialize centroids using k-means++ with a data-derived seed so
	// identical corpora always produce identical clusterings.
	km.Centroids = kMeansPlusPlusInit(data, k)

	km.Labels = make([]int, n)
	var prevInertia float64

	for iter := 0; iter < km.MaxIter; iter++ {
		// Assign points to nearest centroid
		km.Inertia = 0
		for i, point := range data {
			minDist := math.MaxFloat64
			minIdx := 0
			for j, centroid := range km.Centroids {
				dist := squaredEuclideanDistance(point, centroid)
				if dist < minDist {
					minDist = dist
					minIdx = j
				}
			}
			km.Labels[i] = minIdx
			km.Inertia += minDist
		}

		// Check convergence
		if iter > 0 && math.Abs(prevInertia-km.Inertia) < km.Tolerance {
			break
		}
		prevInertia = km.Inertia

		// Update centroids
		counts := make([]int, k)
		newCentroids := make([][]float64, k)
		for i := range newCentroids {
			newCentroids[i] = make([]float64, dim)
		}

		for i, label := range km.Labels {
			counts[label]++
			floats.Add(newCentroids[label], data[i])
		}

		for i := range newCentroids {
			if counts[i] > 0 {
				floats.Scale(1.0/float64(counts[i]), newCentroids[i])
			}
		}
		km.Centroids = newCentroids
	}

	return km.Labels
}

// kMeansPlusPlusInit initializes centroids using the k-means++ algorithm
func kMeansPlusPlusInit(data [][]float64, k int) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)

	seed := computeDataSeed(data)
	rng := rand.New(rand.NewSource(seed))

	// Choose first centroid randomly
	firstIdx := rng.Intn(n)
	centroids = append(centroids, copySlice(data[firstIdx]))

	// Choose remaining centroids with probability proportional to distance squared
	distances := make([]float64, n)
	for i := 1; i < k; i++ {
		totalDist := 0.0
		for j, point := range data {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				dist := squaredEuclideanDistance(point, centroid)
				if dist < minDist {
					minDist = dist
				}
			}
			distances[j] = minDist
			totalDist += minDist
		}

		if totalDist == 0 {
			// All remaining points coincide with a centroid
			centroids = append(centroids, copySlice(data[i%n]))
			continue
		}

		r := rng.Float64() * totalDist
		cumSum := 0.0
		for j, d := range distances {
			cumSum += d
			if cumSum >= r {
				centroids = append(centroids, copySlice(data[j]))
				break
			}
		}
	}

	return centroids
}

// computeDataSeed creates a deterministic seed from the data
func computeDataSeed(data [][]float64) int64 {
	if len(data) == 0 {
		return 42
	}
	seed := int64(len(data))
	if len(data[0]) > 0 {
		seed += int64(len(data[0])) * 1000
		seed += int64(data[0][0] * 1000000)
		if len(data) > 1 {
			seed += int64(data[len(data)/2][0] * 1000000)
		}
		if len(data) > 2 {
			seed += int64(data[len(data)-1][0] * 1000000)
		}
	}
	return seed
}

func squaredEuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func copySlice(s []float64) []float64 {
	result := make([]float64, len(s))
	copy(result, s)
	return result
}
