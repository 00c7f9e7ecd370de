package patch

import "testing"

func TestLocateHunkExact(t *testing.T) {
	target := []string{"fn main() {", "    println!(\"Old\");", "}"}
	hunk := Hunk{Lines: []HunkLine{
		{Kind: Context, Content: "fn main() {"},
		{Kind: Deletion, Content: "    println!(\"Old\");"},
		{Kind: Addition, Content: "    println!(\"New\");"},
		{Kind: Context, Content: "}"},
	}}

	loc, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if loc.MatchType != MatchExact || loc.StartIndex != 0 {
		t.Fatalf("loc = %+v, want exact match at 0", loc)
	}
}

// TestLocateHunkWhitespaceDrift is scenario 2 (§8).
func TestLocateHunkWhitespaceDrift(t *testing.T) {
	target := []string{"fn main() {", "        println!(\"Old\");", "}"}
	hunk := Hunk{Lines: []HunkLine{
		{Kind: Context, Content: "fn main() {"},
		{Kind: Deletion, Content: "    println!(\"Old\");"},
		{Kind: Addition, Content: "    println!(\"New\");"},
		{Kind: Context, Content: "}"},
	}}

	loc, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if loc.MatchType != MatchWhitespaceInsensitive {
		t.Fatalf("match type = %s, want WhitespaceInsensitive", loc.MatchType)
	}
}

// TestLocateHunkAmbiguous is scenario 5 (§8): two exact matches equidistant
// from the header hint (header_old_start - 1) are genuinely ambiguous. The
// matches sit at indices 0 and 4; HeaderOldStart of 3 puts the hint at 2,
// exactly between them, so neither can win on proximity.
func TestLocateHunkAmbiguous(t *testing.T) {
	target := []string{"a", "b", "c", "x", "a", "b", "c"}
	hunk := Hunk{
		HeaderOldStart: 3,
		Lines: []HunkLine{
			{Kind: Context, Content: "a"},
			{Kind: Context, Content: "b"},
			{Kind: Deletion, Content: "c"},
			{Kind: Addition, Content: "d"},
		},
	}

	_, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail == nil {
		t.Fatalf("expected AmbiguousMatch failure")
	}
	if fail.FailureKind != AmbiguousMatch {
		t.Fatalf("FailureKind = %s, want AmbiguousMatch", fail.FailureKind)
	}
}

// TestLocateHunkHintDisambiguates verifies that when the header hint clearly
// picks a nearest candidate among several exact matches, LocateHunk resolves
// to that candidate instead of reporting AmbiguousMatch: the same repeated
// block as above, but with a header hint that lands closer to the second
// occurrence (start index 4) than the first (start index 0).
func TestLocateHunkHintDisambiguates(t *testing.T) {
	target := []string{"a", "b", "c", "x", "a", "b", "c"}
	hunk := Hunk{
		HeaderOldStart: 5,
		Lines: []HunkLine{
			{Kind: Context, Content: "a"},
			{Kind: Context, Content: "b"},
			{Kind: Deletion, Content: "c"},
			{Kind: Addition, Content: "d"},
		},
	}

	loc, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if loc.StartIndex != 4 {
		t.Fatalf("StartIndex = %d, want 4 (nearest to the header hint)", loc.StartIndex)
	}
}

// TestFuzzyBound is property 5 (§8): every Fuzzy match scores >= fuzzFactor,
// every FuzzyBelowThreshold scores < fuzzFactor.
func TestFuzzyBound(t *testing.T) {
	target := []string{"totally unrelated line one", "totally unrelated line two"}
	hunk := Hunk{Lines: []HunkLine{
		{Kind: Context, Content: "fn main() {"},
		{Kind: Deletion, Content: "old"},
		{Kind: Addition, Content: "new"},
	}}

	_, fail := LocateHunk(target, hunk, 0.99)
	if fail == nil || fail.FailureKind != FuzzyBelowThreshold {
		t.Fatalf("expected FuzzyBelowThreshold, got %+v", fail)
	}
	if fail.BestScore >= 0.99 {
		t.Fatalf("BestScore = %v, should be < threshold 0.99", fail.BestScore)
	}

	similar := []string{"fn main() {", "oldx", "neww"}
	loc, fail2 := LocateHunk(similar, hunk, 0.3)
	if fail2 != nil {
		t.Fatalf("expected a fuzzy match at low threshold, got failure %+v", fail2)
	}
	if loc.MatchType == MatchFuzzy && loc.Score < 0.3 {
		t.Fatalf("fuzzy match score %v below threshold 0.3", loc.Score)
	}
}

func TestDiceSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"", "", 1},
		{"a", "", 0},
		{"night", "nacht", 0.25},
	}
	for _, tt := range tests {
		if got := diceSimilarity(tt.a, tt.b); got != tt.want {
			t.Fatalf("diceSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindBestFuzzyParallelMatchesSequential(t *testing.T) {
	target := make([]string, 0, 400)
	for i := 0; i < 400; i++ {
		target = append(target, "line number filler text")
	}
	target[250] = "the target line"
	old := []string{"the target lime"}

	seqStart, seqScore := findBestFuzzySequential(target, old)
	parStart, parScore := findBestFuzzyParallel(target, old)

	if seqStart != parStart {
		t.Fatalf("sequential start = %d, parallel start = %d", seqStart, parStart)
	}
	if seqScore != parScore {
		t.Fatalf("sequential score = %v, parallel score = %v", seqScore, parScore)
	}
}
