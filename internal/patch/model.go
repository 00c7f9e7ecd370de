// Package patch implements a context-aware patch engine: it detects the
// format of arbitrary diff-bearing text, parses it into a canonical list of
// Patches and Hunks, locates each hunk's old block inside a drifted target
// file, and splices the hunk's changes in with a granular merge that keeps
// the target's own context rather than the patch's stale copy of it.
package patch

// LineKind tags a HunkLine by how it participates in a hunk's old/new block.
type LineKind int

const (
	Context LineKind = iota
	Addition
	Deletion
)

func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// HunkLine is a single tagged line of a hunk body, stripped of its leading
// kind prefix and any trailing newline.
type HunkLine struct {
	Kind    LineKind
	Content string
}

// Hunk is one contiguous edit within a file. HeaderOld*/HeaderNew* are the
// @@ header's advertised range; they are hints for locating the hunk, never
// authoritative.
type Hunk struct {
	HeaderOldStart int
	HeaderOldCount int
	HeaderNewStart int
	HeaderNewCount int
	Lines          []HunkLine

	// NoNewlineAtEOF records a trailing "\ No newline at end of file" marker.
	NoNewlineAtEOF bool
}

// OldBlock returns the Context+Deletion line contents, in order: the text
// that must be located in the target.
func (h Hunk) OldBlock() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Deletion {
			out = append(out, l.Content)
		}
	}
	return out
}

// NewBlock returns the Context+Addition line contents, in order: what the
// target region becomes.
func (h Hunk) NewBlock() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Addition {
			out = append(out, l.Content)
		}
	}
	return out
}

// IsPureAddition reports whether the hunk has no Deletion and no Context
// lines (the shape required of a creation patch's single hunk).
func (h Hunk) IsPureAddition() bool {
	for _, l := range h.Lines {
		if l.Kind != Addition {
			return false
		}
	}
	return len(h.Lines) > 0
}

// Patch is one file's set of changes, in source order.
type Patch struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// IsCreation reports whether this patch creates NewPath from nothing.
func (p Patch) IsCreation() bool { return p.OldPath == "/dev/null" }

// IsDeletion reports whether this patch removes OldPath entirely.
func (p Patch) IsDeletion() bool { return p.NewPath == "/dev/null" }

// TargetPath returns the path the patch should be applied to: NewPath,
// unless this is a pure deletion, in which case OldPath names the file.
func (p Patch) TargetPath() string {
	if p.IsDeletion() {
		return p.OldPath
	}
	return p.NewPath
}

// MatchType records which Hunk Finder stage located a hunk.
type MatchType int

const (
	MatchExact MatchType = iota
	MatchWhitespaceInsensitive
	MatchFuzzy
)

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchWhitespaceInsensitive:
		return "whitespace-insensitive"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Location is where a hunk's old block was found in the target.
type Location struct {
	StartIndex int
	MatchType  MatchType
	// Score is only meaningful when MatchType is MatchFuzzy: the similarity
	// in [0, 1] that won the window scan.
	Score float64
}

// FailureKind tags why a hunk could not be located.
type FailureKind int

const (
	ContextNotFound FailureKind = iota
	AmbiguousMatch
	FuzzyBelowThreshold
	HunkMalformed
)

func (k FailureKind) String() string {
	switch k {
	case ContextNotFound:
		return "context_not_found"
	case AmbiguousMatch:
		return "ambiguous_match"
	case FuzzyBelowThreshold:
		return "fuzzy_below_threshold"
	case HunkMalformed:
		return "hunk_malformed"
	default:
		return "unknown"
	}
}

// HunkApplyStatus is the outcome of locating and applying a single hunk.
type HunkApplyStatus struct {
	Applied bool

	// Populated when Applied is true.
	Location      Location
	ReplacedLines int

	// Populated when Applied is false.
	FailureKind FailureKind
	Detail      string

	// Populated only for FuzzyBelowThreshold, for diagnostics.
	BestLocation *Location
	BestScore    float64
}

// PatchReport aggregates the per-hunk outcomes of applying one Patch.
type PatchReport struct {
	Path         string
	HunkStatuses []HunkApplyStatus

	// FatalError is set when the whole patch failed before or during
	// per-hunk processing (unsafe path, I/O failure, strict-mode rollback).
	FatalError error
}

// AllAppliedCleanly reports whether every hunk in the patch applied.
func (r PatchReport) AllAppliedCleanly() bool {
	if r.FatalError != nil {
		return false
	}
	for _, s := range r.HunkStatuses {
		if !s.Applied {
			return false
		}
	}
	return true
}

// SuccessCount returns the number of hunks that applied.
func (r PatchReport) SuccessCount() int {
	n := 0
	for _, s := range r.HunkStatuses {
		if s.Applied {
			n++
		}
	}
	return n
}

// FailureCount returns the number of hunks that failed to locate or apply.
func (r PatchReport) FailureCount() int {
	return len(r.HunkStatuses) - r.SuccessCount()
}
