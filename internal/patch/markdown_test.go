package patch

import "testing"

// TestExtractUnifiedPatchesScenario1 is scenario 1 (§8): a diff fence with
// no drift between patch and target.
func TestExtractUnifiedPatchesScenario1(t *testing.T) {
	input := "Apply this change:\n\n```diff\n--- a/x\n+++ b/x\n@@ -1,3 +1,3 @@\n fn main() {\n-    println!(\"Old\");\n+    println!(\"New\");\n }\n```\n"

	patches, err := ExtractUnifiedPatches(input)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(patches))
	}
	if patches[0].OldPath != "x" {
		t.Fatalf("OldPath = %q, want x", patches[0].OldPath)
	}
}

func TestExtractUnifiedPatchesSkipsNonDiffFences(t *testing.T) {
	input := "```go\nfunc main() {}\n```\n\n```diff\n--- a/x\n+++ b/x\n@@ -1,1 +1,1 @@\n-old\n+new\n```\n"

	patches, err := ExtractUnifiedPatches(input)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1 (go fence must be skipped)", len(patches))
	}
}

// TestExtractUnifiedPatchesNestedFence is scenario 4 (§8): an outer fence of
// more backticks containing an inner, shorter fence run; only the outer
// fence is a diff candidate.
func TestExtractUnifiedPatchesNestedFence(t *testing.T) {
	// The inner ``` run is encoded as a unified-diff context line (leading
	// space), since within the diff body every line must carry a +/-/space
	// prefix; the outer four-backtick fence is what goldmark treats as the
	// actual code block boundary.
	input := "````diff\n--- a/x\n+++ b/x\n@@ -1,2 +1,2 @@\n ```\n-old\n+new\n````\n"

	patches, err := ExtractUnifiedPatches(input)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(patches))
	}
	h := patches[0].Hunks[0]
	if h.Lines[0].Content != "```" {
		t.Fatalf("expected the nested fence line preserved as context content, got %q", h.Lines[0].Content)
	}
}

func TestExtractUnifiedPatchesNoFences(t *testing.T) {
	patches, err := ExtractUnifiedPatches("just prose, no fences at all\n")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(patches) != 0 {
		t.Fatalf("got %d patches, want 0", len(patches))
	}
}
