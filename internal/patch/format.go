package patch

import "strings"

// Format classifies a blob of text so ParseAuto knows which parser to run.
type Format int

const (
	FormatUnknown Format = iota
	FormatUnified
	FormatMarkdown
	FormatConflictMarkers
)

func (f Format) String() string {
	switch f {
	case FormatUnified:
		return "unified"
	case FormatMarkdown:
		return "markdown"
	case FormatConflictMarkers:
		return "conflict-markers"
	default:
		return "unknown"
	}
}

// unifiedHeaderWindow bounds how many lines below a "--- " header we'll
// look for its matching "+++ " header before giving up on this candidate.
const unifiedHeaderWindow = 5

// DetectFormat classifies input text. It is total: every input yields
// exactly one Format, and Unknown is a valid classification rather than an
// error.
//
// Rules are evaluated in order: a fenced code block anywhere promotes the
// whole input to Markdown (its diff content, if any, lives inside the
// fence); failing that, a complete run of conflict markers promotes it to
// ConflictMarkers; failing that, a "--- "/"+++ " header pair promotes it to
// Unified; otherwise Unknown.
func DetectFormat(input string) Format {
	lines := strings.Split(input, "\n")

	for _, line := range lines {
		if isFenceLine(line) {
			return FormatMarkdown
		}
	}

	if hasConflictMarkerRun(lines) {
		return FormatConflictMarkers
	}

	if hasUnifiedHeaderPair(lines) {
		return FormatUnified
	}

	return FormatUnknown
}

// ParseAuto detects the format of input and dispatches to the matching
// parser. On FormatUnknown it returns an empty list rather than an error,
// so junk input reads as "no patches found".
func ParseAuto(input string) ([]Patch, error) {
	switch DetectFormat(input) {
	case FormatMarkdown:
		return ExtractUnifiedPatches(input)
	case FormatConflictMarkers:
		return ParseConflictMarkers(input), nil
	case FormatUnified:
		return ParseUnified(input)
	default:
		return nil, nil
	}
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return runLength(trimmed, '`') >= 3
}

func hasConflictMarkerRun(lines []string) bool {
	sawStart, sawMiddle := false, false
	for _, line := range lines {
		switch {
		case !sawStart && isStartDelim(line):
			sawStart = true
		case sawStart && !sawMiddle && isExactDelim(line, '='):
			sawMiddle = true
		case sawStart && sawMiddle && isEndDelim(line):
			return true
		}
	}
	return false
}

func hasUnifiedHeaderPair(lines []string) bool {
	for i, line := range lines {
		if !strings.HasPrefix(line, "--- ") {
			continue
		}
		limit := i + unifiedHeaderWindow
		if limit >= len(lines) {
			limit = len(lines) - 1
		}
		for j := i + 1; j <= limit; j++ {
			if strings.HasPrefix(lines[j], "+++ ") {
				return true
			}
		}
	}
	return false
}
