package patch

import (
	"log/slog"
	"strings"
)

// ApplyHunk splices hunk into target at the given Location, returning the
// resulting lines. It performs a granular merge rather than a wholesale
// block replace: Context lines immediately bordering the change keep the
// target's own text (and, for a whitespace-insensitive or fuzzy match,
// the target's own indentation), while only the Deletion lines are removed
// and only the Addition lines are inserted, re-indented to match the
// surrounding target content when the match required whitespace tolerance.
func ApplyHunk(target []string, hunk Hunk, loc Location) []string {
	old := hunk.OldBlock()
	reindent := loc.MatchType != MatchExact

	out := make([]string, 0, len(target)+len(hunk.Lines))
	out = append(out, target[:loc.StartIndex]...)

	// currentIndent tracks the target's own leading whitespace at the most
	// recently consumed Context or Deletion line; inserted lines borrow it
	// so a run of additions lands at the indentation the target actually
	// has here, not the stale indentation the patch was generated against.
	currentIndent := ""
	haveIndent := false

	oldIdx := 0
	for _, l := range hunk.Lines {
		switch l.Kind {
		case Context:
			// Prefer the target's own text for context so a drifted
			// whitespace-insensitive match doesn't clobber formatting the
			// hunk never intended to touch.
			targetLine := target[loc.StartIndex+oldIdx]
			out = append(out, targetLine)
			if reindent {
				currentIndent, haveIndent = leadingWhitespace(targetLine), true
			}
			oldIdx++
		case Deletion:
			targetLine := target[loc.StartIndex+oldIdx]
			if strings.TrimSpace(targetLine) != strings.TrimSpace(l.Content) {
				slog.Warn("deletion line does not match target; removing the target line anyway",
					"target", targetLine, "deletion", l.Content)
			}
			if reindent {
				currentIndent, haveIndent = leadingWhitespace(targetLine), true
			}
			oldIdx++
		case Addition:
			if haveIndent {
				out = append(out, applyIndent(l.Content, currentIndent))
			} else {
				out = append(out, l.Content)
			}
		}
	}

	out = append(out, target[loc.StartIndex+len(old):]...)
	return out
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// applyIndent re-anchors line's leading whitespace to indent. A line with
// no leading whitespace of its own (a deliberately unindented blank line,
// or a closing brace at column 0) is left alone.
func applyIndent(line, indent string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || leadingWhitespace(line) == "" {
		return line
	}
	return indent + trimmed
}

// ApplyCreation returns the contents of a creation patch's single hunk: the
// Addition lines in order, with no location search (there is no existing
// target content for a creation patch to locate against).
func ApplyCreation(hunk Hunk) []string {
	var out []string
	for _, l := range hunk.Lines {
		if l.Kind == Addition {
			out = append(out, l.Content)
		}
	}
	return out
}

// ApplyPatchToLines applies every hunk of patch to target's lines in turn,
// locating and applying later hunks against the progressively-edited
// result so that earlier insertions/deletions shift later hunks' line
// numbers correctly. It returns the final lines and one HunkApplyStatus per
// hunk, in hunk order.
//
// When opts.Strict is false, a hunk that fails to locate is skipped (target
// left unchanged at that point) and processing continues with the next
// hunk; when true, the caller (Patch Driver) is expected to discard the
// whole result on any failure, but ApplyPatchToLines itself always runs to
// completion so the full PatchReport is available either way.
func ApplyPatchToLines(target []string, patch Patch, opts ApplyOptions) ([]string, []HunkApplyStatus) {
	statuses := make([]HunkApplyStatus, len(patch.Hunks))
	lines := target

	for i, hunk := range patch.Hunks {
		// LocateHunk derives a hint-based Location directly for a hunk
		// with an empty old block (a pure-addition hunk, whether the
		// target is empty or already has other content); no special
		// case is needed here.
		loc, failStatus := LocateHunk(lines, hunk, opts.FuzzFactor)
		if failStatus != nil {
			statuses[i] = *failStatus
			continue
		}

		lines = ApplyHunk(lines, hunk, loc)
		statuses[i] = HunkApplyStatus{
			Applied:       true,
			Location:      loc,
			ReplacedLines: len(hunk.OldBlock()),
		}
	}

	return lines, statuses
}
