package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Defaults mirror the clustering setup used for speaker grouping: a pinned
// seed so repeated runs label identically, and several restarts keeping the
// lowest-inertia partition.
const (
	DefaultSeed    = 0
	DefaultRuns    = 10
	DefaultMaxIter = 300
)

// KMeans is a deterministic Lloyd's k-means clusterer with k-means++
// seeding. The zero value uses the package defaults.
type KMeans struct {
	Seed    int64
	Runs    int
	MaxIter int
}

// Cluster partitions vectors into k groups and returns one cluster index per
// vector. k must be in [1, len(vectors)] and all vectors must share one
// dimension.
func (km KMeans) Cluster(vectors [][]float64, k int) ([]int, error) {
	n := len(vectors)
	if n == 0 {
		return nil, errors.New("kmeans: no vectors")
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("kmeans: k=%d out of range [1, %d]", k, n)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("kmeans: zero-dimensional vectors")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("kmeans: vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	if k == 1 {
		return make([]int, n), nil
	}

	runs := km.Runs
	if runs <= 0 {
		runs = DefaultRuns
	}
	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	rng := rand.New(rand.NewSource(km.Seed))

	bestInertia := math.Inf(1)
	var bestLabels []int
	for run := 0; run < runs; run++ {
		labels, inertia := lloyd(vectors, k, maxIter, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels, nil
}

func lloyd(vectors [][]float64, k, maxIter int, rng *rand.Rand) ([]int, float64) {
	centroids := seedPlusPlus(vectors, k, rng)
	labels := make([]int, len(vectors))
	dim := len(vectors[0])

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, v := range vectors {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				if d := sqDist(v, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			counts[labels[i]]++
			for d, x := range v {
				sums[labels[i]][d] += x
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Re-seed an emptied centroid at the point farthest from its
				// current assignment to keep k clusters alive.
				centroids[c] = vectors[farthestPoint(vectors, centroids, labels)]
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, v := range vectors {
		inertia += sqDist(v, centroids[labels[i]])
	}
	return labels, inertia
}

func seedPlusPlus(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVec(vectors[rng.Intn(n)]))

	dists := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(v, c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// Every remaining point coincides with a centroid; pick any.
			centroids = append(centroids, cloneVec(vectors[rng.Intn(n)]))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		pick := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, cloneVec(vectors[pick]))
	}
	return centroids
}

func farthestPoint(vectors, centroids [][]float64, labels []int) int {
	best, bestDist := 0, -1.0
	for i, v := range vectors {
		if d := sqDist(v, centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Silhouette computes the mean silhouette coefficient of a labeled
// partition, in [-1, 1]. It needs at least 2 distinct clusters and 2 points;
// singleton clusters contribute a zero coefficient, matching the common
// convention.
func Silhouette(vectors [][]float64, labels []int) (float64, error) {
	n := len(vectors)
	if n != len(labels) {
		return 0, fmt.Errorf("silhouette: %d vectors vs %d labels", n, len(labels))
	}
	if n < 2 {
		return 0, errors.New("silhouette: need at least 2 points")
	}
	clusterSizes := make(map[int]int)
	for _, l := range labels {
		clusterSizes[l]++
	}
	if len(clusterSizes) < 2 {
		return 0, errors.New("silhouette: need at least 2 clusters")
	}

	var total float64
	for i, v := range vectors {
		if clusterSizes[labels[i]] <= 1 {
			continue // defined as 0
		}
		// Mean distance to own cluster (a) and to the nearest other
		// cluster (b).
		sums := make(map[int]float64)
		for j, w := range vectors {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(v, w))
		}
		a := sums[labels[i]] / float64(clusterSizes[labels[i]]-1)
		b := math.Inf(1)
		for c, s := range sums {
			if c == labels[i] {
				continue
			}
			if mean := s / float64(clusterSizes[c]); mean < b {
				b = mean
			}
		}
		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n), nil
}
