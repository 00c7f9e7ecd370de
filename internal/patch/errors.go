package patch

import "fmt"

// ParseError is a hard parse failure: the unified-diff state machine could
// not make sense of the input. It always carries the 1-based line number in
// the text that was handed to ParseUnified (for Markdown-embedded diffs,
// the Markdown Extractor rebases this to the absolute line in the original
// input before propagating it).
type ParseError struct {
	Kind string // "MissingPlusHeader", "MalformedHunkHeader", "MalformedHunkLine"; an unterminated Markdown fence is not reported as an error
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Msg)
}

// PathUnsafeError is returned by the Patch Driver when the Safe-Path Guard
// rejects a patch's target path.
type PathUnsafeError struct {
	Path string
	Root string
}

func (e *PathUnsafeError) Error() string {
	return fmt.Sprintf("path %q escapes root %q", e.Path, e.Root)
}

// FileExistsError is returned when a creation patch targets a path that
// already has content.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

// TargetIsDirectoryError is returned when a patch's target path names a
// directory rather than a regular file.
type TargetIsDirectoryError struct {
	Path string
}

func (e *TargetIsDirectoryError) Error() string {
	return fmt.Sprintf("target is a directory: %s", e.Path)
}

// PartialApplyError is the strict-mode conversion of a non-clean
// PatchReport into a patch-level error; the driver discards its in-memory
// edits for that patch rather than writing a partially-applied file.
type PartialApplyError struct {
	Report PatchReport
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("strict mode: %d of %d hunks failed to apply to %s",
		e.Report.FailureCount(), len(e.Report.HunkStatuses), e.Report.Path)
}
