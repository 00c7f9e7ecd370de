package patch

import "strings"

// LocateHunk finds where a hunk's OldBlock lives inside target's lines,
// trying three stages in order: exact match, whitespace-insensitive match,
// and (if fuzzFactor > 0) fuzzy match by bigram Dice similarity. Within a
// stage, multiple candidates are disambiguated by distance to the hunk's
// header hint (header_old_start - 1); only when two or more candidates tie
// for nearest does the stage report AmbiguousMatch instead of falling
// through to a looser stage (spec invariant: looser stages never override a
// tie at a stricter stage).
//
// An empty old block (a pure-addition hunk applied against a file that
// already has other content) needs no search at all: its Location is the
// header hint line, clamped to the target's bounds.
//
// Grounded on the example pack's internal/edit/match.go FindMatch staging
// (Exact -> Stripped -> Fuzzy), generalized from single-line search needles
// to multi-line hunk blocks and switched to bigram Dice similarity per the
// fuzzy-matching algorithm this system specifies.
func LocateHunk(target []string, hunk Hunk, fuzzFactor float64) (Location, *HunkApplyStatus) {
	old := hunk.OldBlock()
	hint := hunk.HeaderOldStart - 1

	if len(old) == 0 {
		return Location{StartIndex: clampIndex(hint, len(target)), MatchType: MatchExact}, nil
	}

	if loc, found, ambiguous := findExact(target, old, equalLine, hint); found {
		return loc, nil
	} else if ambiguous {
		return Location{}, &HunkApplyStatus{FailureKind: AmbiguousMatch, Detail: "multiple exact matches equidistant from the header hint"}
	}

	if loc, found, ambiguous := findExact(target, old, equalLineTrimmed, hint); found {
		loc.MatchType = MatchWhitespaceInsensitive
		return loc, nil
	} else if ambiguous {
		return Location{}, &HunkApplyStatus{FailureKind: AmbiguousMatch, Detail: "multiple whitespace-insensitive matches equidistant from the header hint"}
	}

	if fuzzFactor <= 0 {
		return Location{}, &HunkApplyStatus{FailureKind: ContextNotFound, Detail: "no exact or whitespace-insensitive match; fuzzy matching disabled"}
	}

	best, bestScore := findBestFuzzy(target, old)
	if bestScore >= fuzzFactor {
		return Location{StartIndex: best, MatchType: MatchFuzzy, Score: bestScore}, nil
	}
	return Location{}, &HunkApplyStatus{
		FailureKind:  FuzzyBelowThreshold,
		Detail:       "best fuzzy candidate fell below the fuzz factor",
		BestLocation: &Location{StartIndex: best, MatchType: MatchFuzzy, Score: bestScore},
		BestScore:    bestScore,
	}
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func equalLine(a, b string) bool { return a == b }

func equalLineTrimmed(a, b string) bool { return strings.TrimSpace(a) == strings.TrimSpace(b) }

// findExact scans target for every window matching old under cmp. With
// zero matches it reports not-found; with exactly one it reports that
// match; with more than one it picks the candidate nearest to hint (the
// 0-based line the hunk header claims this block starts at) and reports it
// as found only if that candidate is a strict nearest — if two or more
// candidates tie for closest to hint, the stage is ambiguous rather than
// picking one arbitrarily.
func findExact(target, old []string, cmp func(a, b string) bool, hint int) (loc Location, found, ambiguous bool) {
	if len(old) > len(target) {
		return Location{}, false, false
	}

	var starts []int
	for start := 0; start+len(old) <= len(target); start++ {
		if windowMatches(target, old, start, cmp) {
			starts = append(starts, start)
		}
	}

	switch len(starts) {
	case 0:
		return Location{}, false, false
	case 1:
		return Location{StartIndex: starts[0], MatchType: MatchExact}, true, false
	}

	best, tied := nearestToHint(starts, hint)
	if tied {
		return Location{}, false, true
	}
	return Location{StartIndex: best, MatchType: MatchExact}, true, false
}

// nearestToHint returns the element of starts with the smallest distance to
// hint, and whether two or more elements tie for that smallest distance.
func nearestToHint(starts []int, hint int) (best int, tied bool) {
	bestDist := -1
	tieCount := 0
	for _, s := range starts {
		d := s - hint
		if d < 0 {
			d = -d
		}
		switch {
		case bestDist == -1 || d < bestDist:
			bestDist, best, tieCount = d, s, 1
		case d == bestDist:
			tieCount++
		}
	}
	return best, tieCount > 1
}

func windowMatches(target, old []string, start int, cmp func(a, b string) bool) bool {
	for i, line := range old {
		if !cmp(target[start+i], line) {
			return false
		}
	}
	return true
}

// findBestFuzzy scans every window of target the same size as old and
// returns the start index and score of the highest-scoring window. The
// actual per-window scoring implementation is provided by either
// locate_parallel.go or locate_sequential.go, selected at build time by the
// "mpatch_sequential" build tag.
func findBestFuzzy(target, old []string) (int, float64) {
	if len(old) > len(target) || len(old) == 0 {
		return 0, 0
	}
	if len(target) >= ParallelFuzzyThreshold {
		return findBestFuzzyParallel(target, old)
	}
	return findBestFuzzySequential(target, old)
}

// windowSimilarity scores one candidate window of target against old by
// averaging each line pair's similarity score.
func windowSimilarity(target, old []string, start int) float64 {
	total := 0.0
	for i, line := range old {
		total += lineSimilarity(target[start+i], line)
	}
	return total / float64(len(old))
}

// lineSimilarity scores a single line pair: 1.0 if the raw lines are
// identical; otherwise 0.9 times 1.0 if the trimmed lines are identical, or
// 0.9 times the character-bigram Dice coefficient of the trimmed lines.
// Trimming before the bigram comparison means a line that is fuzzy-similar
// in its non-whitespace content doesn't get penalized for indentation drift
// twice (once here, once by the Hunk Applier's own re-indentation pass).
func lineSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ta, tb := strings.TrimSpace(a), strings.TrimSpace(b)
	if ta == tb {
		return 0.9
	}
	return 0.9 * diceSimilarity(ta, tb)
}

// diceSimilarity is the Sorensen-Dice coefficient over character bigrams of
// a and b, the fuzzy-matching algorithm this system specifies (chosen over
// the example pack's Levenshtein-based line similarity in
// internal/edit/match.go, which scores single lines rather than windows and
// penalizes length differences more harshly than bigram overlap does).
func diceSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 && len(bb) == 0 {
		return 1
	}
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	matches := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len(ba)+len(bb))
}

func bigrams(s string) []string {
	r := []rune(s)
	if len(r) < 2 {
		if len(r) == 1 {
			return []string{string(r)}
		}
		return nil
	}
	out := make([]string, 0, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		out = append(out, string(r[i:i+2]))
	}
	return out
}
