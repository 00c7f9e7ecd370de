package patch

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// unifiedState names the states of the unified-diff parser's line-by-line
// state machine, grounded on the example pack's udiff Parse scanner
// (cmd/udiff/parser.go) but extended with git extended-header handling and
// multi-file-per-input support.
type unifiedState int

const (
	stateSeekHeader unifiedState = iota
	stateSeekNewHeader
	stateInHunk
)

const noNewlineMarker = "\\ No newline at end of file"

// ParseUnified parses one or more concatenated unified diffs (as produced
// by `diff -u` or `git diff`) into a list of Patches, one per "--- "/"+++ "
// header pair.
//
// Git extended headers ("diff --git", "index ...", "new file mode", "old
// file mode", "deleted file mode", "similarity index", "rename from/to")
// are recognized and skipped; they carry no information this parser needs
// beyond the fact that a new file's header block is starting.
//
// Hunk header (@@ -a,b +c,d @@) counts are advisory only: ParseUnified logs
// a warning when the header counts disagree with the hunk's actual line
// counts via log/slog rather than failing, since a hand-edited or
// partially-applied diff commonly has stale counts and the Hunk Finder
// doesn't trust them anyway.
func ParseUnified(input string) ([]Patch, error) {
	// A final newline terminates the last line; it does not start an
	// empty one that would be read as a blank context line.
	lines := strings.Split(strings.TrimSuffix(input, "\n"), "\n")

	var patches []Patch
	var cur *Patch
	var hunk *Hunk
	state := stateSeekHeader

	flushHunk := func() {
		if hunk != nil && cur != nil {
			validateCounts(*hunk)
			cur.Hunks = append(cur.Hunks, *hunk)
			hunk = nil
		}
	}
	flushPatch := func() {
		flushHunk()
		if cur != nil {
			patches = append(patches, *cur)
			cur = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		if isGitExtendedHeader(line) {
			continue
		}

		switch state {
		case stateSeekHeader:
			if strings.HasPrefix(line, "--- ") {
				flushPatch()
				cur = &Patch{OldPath: extractPath(line)}
				state = stateSeekNewHeader
			}
			// Anything else before the first header (prose, a commit
			// message, trailing blank lines) is ignored.

		case stateSeekNewHeader:
			if !strings.HasPrefix(line, "+++ ") {
				return nil, &ParseError{
					Kind: "MissingPlusHeader",
					Line: lineNo,
					Msg:  "expected '+++ ' header immediately after '--- ' header",
				}
			}
			cur.NewPath = extractPath(line)
			state = stateInHunk

		case stateInHunk:
			switch {
			case strings.HasPrefix(line, "@@"):
				flushHunk()
				h, err := parseHunkHeaderLine(line, lineNo)
				if err != nil {
					return nil, err
				}
				hunk = h

			case strings.HasPrefix(line, "--- ") && looksLikeNewFileHeader(lines, i):
				flushPatch()
				cur = &Patch{OldPath: extractPath(line)}
				state = stateSeekNewHeader

			case line == noNewlineMarker:
				if hunk != nil {
					hunk.NoNewlineAtEOF = true
				}

			case hunk == nil:
				// Trailing blank lines or stray text between hunks; ignore.

			case strings.HasPrefix(line, "+"):
				hunk.Lines = append(hunk.Lines, HunkLine{Kind: Addition, Content: line[1:]})
			case strings.HasPrefix(line, "-"):
				hunk.Lines = append(hunk.Lines, HunkLine{Kind: Deletion, Content: line[1:]})
			case strings.HasPrefix(line, " "):
				hunk.Lines = append(hunk.Lines, HunkLine{Kind: Context, Content: line[1:]})
			case line == "":
				hunk.Lines = append(hunk.Lines, HunkLine{Kind: Context, Content: ""})
			default:
				return nil, &ParseError{
					Kind: "MalformedHunkLine",
					Line: lineNo,
					Msg:  fmt.Sprintf("hunk line has no +/-/space prefix: %q", line),
				}
			}
		}
	}

	if state == stateSeekNewHeader {
		return nil, &ParseError{
			Kind: "MissingPlusHeader",
			Line: len(lines),
			Msg:  "input ended while waiting for '+++ ' header",
		}
	}
	flushPatch()
	return patches, nil
}

// looksLikeNewFileHeader disambiguates a "--- " line appearing inside a
// hunk body (impossible in a well-formed diff, since hunk lines are
// prefixed) from the start of the next file's header block: it checks that
// the very next line starts with "+++ ".
func looksLikeNewFileHeader(lines []string, i int) bool {
	return i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ")
}

// extractPath strips the "--- "/"+++ " prefix and any trailing tab-preceded
// timestamp, and normalizes away a leading "a/" or "b/" prefix as used by
// `git diff`.
func extractPath(line string) string {
	path := line[4:]
	if tab := strings.IndexByte(path, '\t'); tab >= 0 {
		path = path[:tab]
	}
	path = strings.TrimSpace(path)
	if path == "/dev/null" {
		return path
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		path = path[2:]
	}
	return path
}

func isGitExtendedHeader(line string) bool {
	prefixes := []string{
		"diff --git ", "index ", "new file mode ", "old file mode ",
		"deleted file mode ", "similarity index ", "dissimilarity index ",
		"rename from ", "rename to ", "copy from ", "copy to ", "Binary files ",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// parseHunkHeaderLine parses an "@@ -oldStart,oldCount +newStart,newCount @@"
// line. Count fields are optional in the unified-diff grammar and default
// to 1.
func parseHunkHeaderLine(line string, lineNo int) (*Hunk, error) {
	body := strings.TrimPrefix(line, "@@")
	if end := strings.Index(body, "@@"); end >= 0 {
		body = body[:end]
	}
	fields := strings.Fields(body)
	if len(fields) < 2 {
		return nil, &ParseError{Kind: "MalformedHunkHeader", Line: lineNo, Msg: "expected '-old +new' ranges"}
	}

	oldStart, oldCount, err := parseRange(fields[0], '-')
	if err != nil {
		return nil, &ParseError{Kind: "MalformedHunkHeader", Line: lineNo, Msg: err.Error()}
	}
	newStart, newCount, err := parseRange(fields[1], '+')
	if err != nil {
		return nil, &ParseError{Kind: "MalformedHunkHeader", Line: lineNo, Msg: err.Error()}
	}

	return &Hunk{
		HeaderOldStart: oldStart,
		HeaderOldCount: oldCount,
		HeaderNewStart: newStart,
		HeaderNewCount: newCount,
	}, nil
}

func parseRange(field string, want byte) (start, count int, err error) {
	if len(field) == 0 || field[0] != want {
		return 0, 0, fmt.Errorf("expected range to start with %q, got %q", want, field)
	}
	field = field[1:]
	parts := strings.SplitN(field, ",", 2)
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q: %w", parts[0], err)
	}
	count = 1
	if len(parts) == 2 {
		count, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range count %q: %w", parts[1], err)
		}
	}
	return start, count, nil
}

// validateCounts logs a warning when a hunk header's advertised counts
// disagree with its actual body; it never fails the parse.
func validateCounts(h Hunk) {
	oldCount, newCount := 0, 0
	for _, l := range h.Lines {
		switch l.Kind {
		case Context:
			oldCount++
			newCount++
		case Deletion:
			oldCount++
		case Addition:
			newCount++
		}
	}
	if oldCount != h.HeaderOldCount || newCount != h.HeaderNewCount {
		slog.Warn("hunk header count mismatch",
			"header_old", h.HeaderOldCount, "actual_old", oldCount,
			"header_new", h.HeaderNewCount, "actual_new", newCount)
	}
}
