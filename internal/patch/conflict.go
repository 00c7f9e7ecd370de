package patch

import "strings"

// Conflict-marker delimiters: four or more of the same character at the
// start of a line. The middle delimiter stands on a line by itself; the
// start and end delimiters may be followed by a label (as git emits for
// "<<<<<<< HEAD" and ">>>>>>> branch"). Grounded on the example pack's regex-based
// conflictParser in its gitutils conflict parser, reworked as byte scanning
// since the run-length check here is simpler than a regex and the label
// suffix on the start delimiter is free-form anyway.
const minDelimRun = 4

const (
	delimStart  = '<'
	delimMiddle = '='
	delimEnd    = '>'
)

// runLength returns how many leading bytes of s equal b.
func runLength(s string, b byte) int {
	n := 0
	for n < len(s) && s[n] == b {
		n++
	}
	return n
}

// isExactDelim reports whether line is a run of at least minDelimRun copies
// of b with nothing but whitespace after it.
func isExactDelim(line string, b byte) bool {
	n := runLength(line, b)
	return n >= minDelimRun && strings.TrimSpace(line[n:]) == ""
}

// isStartDelim reports whether line opens a conflict hunk: a run of at
// least minDelimRun '<' optionally followed by a label.
func isStartDelim(line string) bool {
	return runLength(line, delimStart) >= minDelimRun
}

// isEndDelim reports whether line closes a conflict hunk.
func isEndDelim(line string) bool {
	return runLength(line, delimEnd) >= minDelimRun
}

// isMiddleDelim reports whether line is the "====" separator between the
// old and new sides.
func isMiddleDelim(line string) bool {
	return isExactDelim(line, delimMiddle)
}

// ParseConflictMarkers scans input for conflict-marker runs and converts
// each into its own Patch: a single Hunk whose old-side lines are Deletion
// and new-side lines are Addition, with no Context lines.
//
// This format carries no file path, so every returned Patch has OldPath and
// NewPath left empty; the caller (Patch Driver) must supply a target path
// explicitly via Driver.ApplyToPath (spec open question, resolved in favor
// of an explicit-path API rather than inferring one from working-tree
// state).
//
// A malformed or unterminated run is skipped rather than erroring: only
// that run is dropped, and the scan resumes on the very next line looking
// for further runs, so one bad run in a document doesn't hide well-formed
// runs elsewhere in it. Zero complete runs yields a nil slice.
func ParseConflictMarkers(input string) []Patch {
	lines := strings.Split(input, "\n")

	var patches []Patch
	i := 0
	for i < len(lines) {
		if !isStartDelim(lines[i]) {
			i++
			continue
		}

		hunk, next, ok := parseConflictRun(lines, i)
		if !ok {
			i++
			continue
		}
		patches = append(patches, Patch{Hunks: []Hunk{hunk}})
		i = next
	}

	return patches
}

// parseConflictRun parses one conflict marker run starting at lines[start]
// (which must satisfy isStartDelim). It returns the resulting Hunk, the
// index just past the run's end delimiter, and whether the run was
// well-formed (reached a middle and an end delimiter before EOF, with no
// nested start/end in between).
func parseConflictRun(lines []string, start int) (Hunk, int, bool) {
	var oldLines []string
	i := start + 1
	for i < len(lines) && !isMiddleDelim(lines[i]) {
		if isStartDelim(lines[i]) || isEndDelim(lines[i]) {
			return Hunk{}, 0, false
		}
		oldLines = append(oldLines, lines[i])
		i++
	}
	if i >= len(lines) {
		return Hunk{}, 0, false
	}

	i++ // past the middle delimiter
	var newLines []string
	for i < len(lines) && !isEndDelim(lines[i]) {
		if isStartDelim(lines[i]) || isMiddleDelim(lines[i]) {
			return Hunk{}, 0, false
		}
		newLines = append(newLines, lines[i])
		i++
	}
	if i >= len(lines) {
		return Hunk{}, 0, false
	}

	hunk := Hunk{}
	for _, l := range oldLines {
		hunk.Lines = append(hunk.Lines, HunkLine{Kind: Deletion, Content: l})
	}
	for _, l := range newLines {
		hunk.Lines = append(hunk.Lines, HunkLine{Kind: Addition, Content: l})
	}
	return hunk, i + 1, true
}
