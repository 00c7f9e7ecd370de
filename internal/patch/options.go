package patch

// DefaultFuzzFactor is the similarity threshold below which a fuzzy match is
// reported as FuzzyBelowThreshold rather than accepted.
const DefaultFuzzFactor = 0.7

// ParallelFuzzyThreshold is the target-file line count at or above which the
// fuzzy search stage distributes window scoring across worker goroutines
// instead of scanning sequentially (spec §4.E, §5).
const ParallelFuzzyThreshold = 200

// ApplyOptions configures patch application. The zero value is not usable
// directly for FuzzFactor (0.0 is a valid, meaningful setting — "disable
// fuzzy matching" — so callers should start from NewApplyOptions).
type ApplyOptions struct {
	// DryRun skips file writes; results still report what would happen.
	DryRun bool

	// FuzzFactor is the minimum similarity in [0, 1] to accept a
	// WhitespaceInsensitive-failed hunk via fuzzy matching. 0.0 disables
	// fuzzy matching entirely (only exact + whitespace-insensitive run).
	FuzzFactor float64

	// Strict converts any hunk failure into a patch-level error and leaves
	// the target file untouched.
	Strict bool

	// IgnoreGlobs are doublestar patterns matched against the
	// root-relative, lexically-normalized candidate path; a match is
	// rejected by the Safe-Path Guard even though it doesn't escape Root.
	IgnoreGlobs []string
}

// NewApplyOptions returns the spec-mandated defaults: fuzzy matching on at
// the default threshold, writes enabled, strict mode off.
func NewApplyOptions() ApplyOptions {
	return ApplyOptions{
		DryRun:     false,
		FuzzFactor: DefaultFuzzFactor,
		Strict:     false,
	}
}
