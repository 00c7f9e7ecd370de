//go:build !mpatch_sequential

package patch

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// findBestFuzzySequential scans every candidate window in a single
// goroutine. It backs findBestFuzzy directly for small targets (below
// ParallelFuzzyThreshold), where worker dispatch overhead would dominate
// the scan itself.
func findBestFuzzySequential(target, old []string) (int, float64) {
	bestStart, bestScore := 0, -1.0
	for start := 0; start+len(old) <= len(target); start++ {
		score := windowSimilarity(target, old, start)
		if score > bestScore {
			bestStart, bestScore = start, score
		}
	}
	return bestStart, bestScore
}

// findBestFuzzyParallel distributes the candidate-window scan across a
// worker pool and reduces to the single best-scoring window. Grounded on
// the errgroup.Group worker-pairing pattern used for paired goroutine work
// in the example pack's pkg/serve/odb/unpack.go: each worker claims a
// contiguous slice of start indices, scores them sequentially, and reports
// its local best; the parent reduces the per-worker bests once every
// worker finishes.
func findBestFuzzyParallel(target, old []string) (int, float64) {
	total := len(target) - len(old) + 1

	workers := runtime.GOMAXPROCS(0)
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	type partial struct {
		start int
		score float64
	}
	results := make([]partial, workers)

	g := new(errgroup.Group)
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		if lo >= hi {
			results[w] = partial{start: 0, score: -1}
			continue
		}
		g.Go(func() error {
			bestStart, bestScore := lo, -1.0
			for start := lo; start < hi; start++ {
				score := windowSimilarity(target, old, start)
				if score > bestScore {
					bestStart, bestScore = start, score
				}
			}
			results[w] = partial{start: bestStart, score: bestScore}
			return nil
		})
	}
	_ = g.Wait()

	bestStart, bestScore := 0, -1.0
	for _, r := range results {
		if r.score > bestScore {
			bestStart, bestScore = r.start, r.score
		}
	}
	return bestStart, bestScore
}
