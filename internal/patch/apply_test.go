package patch

import (
	"strings"
	"testing"
)

func hunkFromDiffLines(lines ...string) Hunk {
	h := Hunk{}
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			h.Lines = append(h.Lines, HunkLine{Kind: Addition, Content: l[1:]})
		case strings.HasPrefix(l, "-"):
			h.Lines = append(h.Lines, HunkLine{Kind: Deletion, Content: l[1:]})
		default:
			h.Lines = append(h.Lines, HunkLine{Kind: Context, Content: strings.TrimPrefix(l, " ")})
		}
	}
	return h
}

// TestApplyHunkScenario1 is scenario 1 (§8): exact match, no drift.
func TestApplyHunkScenario1(t *testing.T) {
	target := []string{"fn main() {", "    println!(\"Old\");", "}"}
	hunk := hunkFromDiffLines("fn main() {", "-    println!(\"Old\");", "+    println!(\"New\");", "}")

	loc, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	got := ApplyHunk(target, hunk, loc)
	want := []string{"fn main() {", "    println!(\"New\");", "}"}
	if !stringsEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestApplyHunkScenario2 is scenario 2 (§8): whitespace-insensitive match
// must re-indent the added line to the target's own indentation, while
// leaving untouched context lines byte-for-byte identical to the target
// (property 6).
func TestApplyHunkScenario2(t *testing.T) {
	target := []string{"fn main() {", "        println!(\"Old\");", "}"}
	hunk := hunkFromDiffLines("fn main() {", "-    println!(\"Old\");", "+    println!(\"New\");", "}")

	loc, fail := LocateHunk(target, hunk, DefaultFuzzFactor)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	got := ApplyHunk(target, hunk, loc)
	want := []string{"fn main() {", "        println!(\"New\");", "}"}
	if !stringsEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyPatchToLinesIdempotence(t *testing.T) {
	target := []string{"fn main() {", "    println!(\"Old\");", "}"}
	patch := Patch{Hunks: []Hunk{hunkFromDiffLines("fn main() {", "-    println!(\"Old\");", "+    println!(\"New\");", "}")}}
	opts := NewApplyOptions()

	once, statuses := ApplyPatchToLines(target, patch, opts)
	if !statuses[0].Applied {
		t.Fatalf("first apply should succeed: %+v", statuses[0])
	}

	_, statuses2 := ApplyPatchToLines(once, patch, opts)
	if statuses2[0].Applied {
		t.Fatalf("reapplying the same patch to the already-patched target should fail (old block is gone), got Applied=true")
	}
	if statuses2[0].FailureKind != ContextNotFound {
		t.Fatalf("FailureKind = %s, want ContextNotFound", statuses2[0].FailureKind)
	}
}

// TestApplyPatchToLinesPureAdditionIntoExistingFile verifies a pure-addition
// hunk (empty old block) applied against a file that already has other
// content: per spec §4.E edge cases, LocateHunk derives the insertion point
// from the header hint with no search, and ApplyPatchToLines must route
// there rather than failing with HunkMalformed.
func TestApplyPatchToLinesPureAdditionIntoExistingFile(t *testing.T) {
	target := []string{"line one", "line two", "line three"}
	hunk := Hunk{
		HeaderOldStart: 2,
		Lines: []HunkLine{
			{Kind: Addition, Content: "inserted line"},
		},
	}
	patch := Patch{Hunks: []Hunk{hunk}}

	got, statuses := ApplyPatchToLines(target, patch, NewApplyOptions())
	if !statuses[0].Applied {
		t.Fatalf("expected pure-addition hunk to apply, got %+v", statuses[0])
	}
	want := []string{"line one", "inserted line", "line two", "line three"}
	if !stringsEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyCreation(t *testing.T) {
	hunk := Hunk{Lines: []HunkLine{
		{Kind: Addition, Content: "line one"},
		{Kind: Addition, Content: "line two"},
	}}
	got := ApplyCreation(hunk)
	want := []string{"line one", "line two"}
	if !stringsEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
