package patch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// FileSystem is the small slice of filesystem behavior the Patch Driver
// needs, so callers can substitute an in-memory fake in tests without the
// driver importing "testing" or an afero-style dependency of its own.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Remove(path string) error
	Exists(path string) bool
	IsDir(path string) bool
	// ListFiles returns every regular file path under root, relative to
	// root, for fuzzy path resolution.
	ListFiles(root string) ([]string, error)
}

// OSFileSystem implements FileSystem against the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (OSFileSystem) Remove(path string) error { return os.Remove(path) }

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFileSystem) ListFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// Driver applies Patches against a root directory on a FileSystem.
// Grounded on the example pack's StreamEditExecutor: a thin orchestrator
// around path resolution, content loading and the actual edit, with
// structured logging of each step rather than silent side effects.
type Driver struct {
	FS     FileSystem
	Root   string
	Logger *slog.Logger
}

// NewDriver returns a Driver rooted at root, using the real filesystem and
// the default slog logger.
func NewDriver(root string) *Driver {
	return &Driver{FS: OSFileSystem{}, Root: root, Logger: slog.Default()}
}

// ApplyAll applies every patch in patches against d.Root and returns one
// PatchReport per patch, in order. Processing of one patch continues even
// if an earlier patch failed fatally.
func (d *Driver) ApplyAll(patches []Patch, opts ApplyOptions) []PatchReport {
	reports := make([]PatchReport, len(patches))
	for i, p := range patches {
		reports[i] = d.Apply(p, opts)
	}
	return reports
}

// Apply applies a single patch against d.Root.
func (d *Driver) Apply(p Patch, opts ApplyOptions) PatchReport {
	return d.ApplyToPath(p, "", opts)
}

// ApplyToPath applies a single patch, using explicitPath as the target
// instead of the path embedded in the patch when explicitPath is non-empty.
// This is required for conflict-marker patches, which carry no path at all
// (spec open question, resolved in favor of this explicit-path API rather
// than inferring a target from working-tree state).
func (d *Driver) ApplyToPath(p Patch, explicitPath string, opts ApplyOptions) PatchReport {
	target := explicitPath
	if target == "" {
		target = p.TargetPath()
	}
	if target == "" {
		return PatchReport{FatalError: fmt.Errorf("patch has no target path and none was supplied")}
	}

	resolved, err := d.resolvePath(target, opts)
	if err != nil {
		d.Logger.Warn("rejected unsafe patch target", "path", target, "error", err)
		return PatchReport{Path: target, FatalError: err}
	}

	if p.IsDeletion() {
		return d.applyDeletion(p, target, resolved, opts)
	}
	if p.IsCreation() {
		return d.applyCreation(p, target, resolved, opts)
	}
	return d.applyEdit(p, target, resolved, opts)
}

// resolvePath runs the Safe-Path Guard and, if the exact path doesn't exist
// under Root, falls back to a fuzzy best match among the files that do
// exist (the patch's own path may itself have drifted, e.g. a rename
// upstream that the patch predates).
func (d *Driver) resolvePath(target string, opts ApplyOptions) (string, error) {
	clean, err := ResolveSafePath(d.Root, target, opts.IgnoreGlobs)
	if err != nil {
		return "", err
	}
	if d.FS.Exists(clean) || target == "/dev/null" {
		return clean, nil
	}

	candidates, listErr := d.FS.ListFiles(d.Root)
	if listErr != nil || len(candidates) == 0 {
		return clean, nil
	}
	matches := fuzzy.Find(filepath.Base(target), candidates)
	if len(matches) == 0 {
		return clean, nil
	}
	best := candidates[matches[0].Index]
	bestResolved, err := ResolveSafePath(d.Root, best, opts.IgnoreGlobs)
	if err != nil {
		return clean, nil
	}
	d.Logger.Debug("resolved patch target by fuzzy path match", "requested", target, "resolved", best)
	return bestResolved, nil
}

func (d *Driver) applyCreation(p Patch, displayPath, resolved string, opts ApplyOptions) PatchReport {
	if d.FS.Exists(resolved) {
		return PatchReport{Path: displayPath, FatalError: &FileExistsError{Path: displayPath}}
	}
	if len(p.Hunks) != 1 {
		return PatchReport{Path: displayPath, FatalError: fmt.Errorf("creation patch must have exactly one hunk, got %d", len(p.Hunks))}
	}

	lines := ApplyCreation(p.Hunks[0])
	status := HunkApplyStatus{Applied: true, Location: Location{MatchType: MatchExact}}

	if !opts.DryRun {
		if err := d.FS.WriteFile(resolved, joinLines(lines, "\n", true)); err != nil {
			return PatchReport{Path: displayPath, FatalError: err}
		}
	}
	return PatchReport{Path: displayPath, HunkStatuses: []HunkApplyStatus{status}}
}

func (d *Driver) applyDeletion(p Patch, displayPath, resolved string, opts ApplyOptions) PatchReport {
	if !d.FS.Exists(resolved) {
		return PatchReport{Path: displayPath, FatalError: fmt.Errorf("cannot delete %s: file does not exist", displayPath)}
	}
	if d.FS.IsDir(resolved) {
		return PatchReport{Path: displayPath, FatalError: &TargetIsDirectoryError{Path: displayPath}}
	}

	status := HunkApplyStatus{Applied: true, Location: Location{MatchType: MatchExact}}
	if !opts.DryRun {
		if err := d.FS.Remove(resolved); err != nil {
			return PatchReport{Path: displayPath, FatalError: err}
		}
	}
	return PatchReport{Path: displayPath, HunkStatuses: []HunkApplyStatus{status}}
}

func (d *Driver) applyEdit(p Patch, displayPath, resolved string, opts ApplyOptions) PatchReport {
	if d.FS.IsDir(resolved) {
		return PatchReport{Path: displayPath, FatalError: &TargetIsDirectoryError{Path: displayPath}}
	}
	if !d.FS.Exists(resolved) {
		return PatchReport{Path: displayPath, FatalError: fmt.Errorf("target %s does not exist", displayPath)}
	}

	raw, err := d.FS.ReadFile(resolved)
	if err != nil {
		return PatchReport{Path: displayPath, FatalError: err}
	}

	content, hadCRLF := normalizeLineEndings(string(raw))
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	newLines, statuses := ApplyPatchToLines(lines, p, opts)
	report := PatchReport{Path: displayPath, HunkStatuses: statuses}

	if opts.Strict && !report.AllAppliedCleanly() {
		report.FatalError = &PartialApplyError{Report: report}
		return report
	}

	if opts.DryRun {
		return report
	}

	out := joinLines(newLines, "\n", trailingNewline)
	if hadCRLF {
		out = []byte(strings.ReplaceAll(string(out), "\n", "\r\n"))
	}
	if err := d.FS.WriteFile(resolved, out); err != nil {
		report.FatalError = err
	}
	return report
}

// normalizeLineEndings converts CRLF to LF and reports whether any CRLF was
// present, so the driver can restore the original convention on write
// (spec open question: mixed line endings are normalized on read and
// restored on write, rather than rejected or left mixed).
func normalizeLineEndings(s string) (normalized string, hadCRLF bool) {
	if !strings.Contains(s, "\r\n") {
		return s, false
	}
	return strings.ReplaceAll(s, "\r\n", "\n"), true
}

func joinLines(lines []string, sep string, trailingNewline bool) []byte {
	out := strings.Join(lines, sep)
	if trailingNewline {
		out += sep
	}
	return []byte(out)
}
