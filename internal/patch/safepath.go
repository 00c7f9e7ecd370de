package patch

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveSafePath lexically normalizes candidate relative to root and
// verifies the result stays within root, without touching the filesystem
// (candidate's target need not exist yet, as for a creation patch). It then
// rejects the path if it matches any of ignoreGlobs.
//
// An absolute candidate path is rejected outright: a patch has no business
// naming an absolute path, since that's never what a relative diff header
// produces and accepting it would let a crafted patch target anything on
// disk.
func ResolveSafePath(root, candidate string, ignoreGlobs []string) (string, error) {
	if path.IsAbs(candidate) || strings.HasPrefix(candidate, "/") {
		return "", &PathUnsafeError{Path: candidate, Root: root}
	}

	clean := path.Clean(strings.ReplaceAll(candidate, "\\", "/"))
	if clean == "." || clean == "" {
		return "", &PathUnsafeError{Path: candidate, Root: root}
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &PathUnsafeError{Path: candidate, Root: root}
	}

	for _, glob := range ignoreGlobs {
		ok, err := doublestar.Match(glob, clean)
		if err == nil && ok {
			return "", &PathUnsafeError{Path: candidate, Root: root}
		}
	}

	return path.Join(root, clean), nil
}
