//go:build mpatch_sequential

package patch

// findBestFuzzySequential scans every candidate window in a single
// goroutine. Selected at build time via the "mpatch_sequential" tag, for
// environments (WASM, constrained containers) where spinning up a worker
// pool for a fuzzy search isn't worth it.
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

// findBestFuzzyParallel runs the sequential scan under this build tag; it
// exists so locate.go's findBestFuzzy compiles regardless of which file the
// sequential/parallel choice resolves to, and is what its
// ParallelFuzzyThreshold branch calls.
func findBestFuzzyParallel(target, old []string) (int, float64) {
	return findBestFuzzySequential(target, old)
}
