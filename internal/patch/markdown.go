package patch

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractUnifiedPatches finds every fenced code block in input, whatever
// its info string, and for each fence whose content has a "--- "/"+++ "
// header pair, parses it and collects the resulting Patches. Fences without
// such a pair are skipped. A parse error inside a fence tagged "diff" or
// "patch" is returned; inside any other fence it only causes that fence to
// be skipped, since a Markdown document legitimately mixes diff fences with
// prose and other code samples.
//
// Parsing is delegated to goldmark's CommonMark block parser rather than
// the line-scanning fence counter used elsewhere in mpatch, so that nested
// fences (a fence-of-backticks containing a fence-of-tildes, or vice versa)
// follow CommonMark's actual precedence rules instead of a naive counter.
//
// ParseError line numbers produced for content inside a fence are rebased
// to the fence's position in the original input, so callers see line
// numbers that make sense against the Markdown source they passed in.
func ExtractUnifiedPatches(input string) ([]Patch, error) {
	src := []byte(input)
	lineStarts := computeLineStarts(src)

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var patches []Patch
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		content, offset := fenceContent(fence, src)
		if !hasUnifiedHeaderPair(splitLinesKeepEmpty(content)) {
			return ast.WalkSkipChildren, nil
		}

		fp, err := ParseUnified(content)
		if err != nil {
			if lang := string(fence.Language(src)); lang != "diff" && lang != "patch" {
				return ast.WalkSkipChildren, nil
			}
			if pe, ok := err.(*ParseError); ok {
				pe.Line = lineNumberForOffset(lineStarts, offset) + pe.Line - 1
			}
			return ast.WalkStop, err
		}
		patches = append(patches, fp...)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return patches, nil
}

// fenceContent reassembles a fenced code block's text from goldmark's line
// segments, and returns the byte offset of its first line within src.
func fenceContent(fence *ast.FencedCodeBlock, src []byte) (string, int) {
	lines := fence.Lines()
	var buf bytes.Buffer
	offset := -1
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if offset < 0 {
			offset = seg.Start
		}
		buf.Write(seg.Value(src))
	}
	return buf.String(), offset
}

func splitLinesKeepEmpty(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func computeLineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineNumberForOffset returns the 1-based line number containing offset,
// given the byte offsets (0-based) at which each line starts.
func lineNumberForOffset(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
