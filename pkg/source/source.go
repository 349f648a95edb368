// Package source provides a line index over raw document content.
// The lexer uses it to split input into physical lines and reporters use it
// to print the offending line under a diagnostic.
package source

import "sort"

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// File is an immutable view of a document's bytes plus its line index.
type File struct {
	// Path is the file path (may be empty or "-" for stdin).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo
}

// NewFile builds the line index for content.
func NewFile(path string, content []byte) *File {
	return &File{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from file content.
// LF, CRLF and lone CR all terminate a line.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\n':
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}
			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		case '\r':
			if idx+1 < len(content) && content[idx+1] == '\n' {
				continue
			}
			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: idx,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line (may not have trailing newline).
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// SplitLines returns the text of every line without its terminator.
func SplitLines(content []byte) []string {
	infos := BuildLines(content)
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, string(content[info.StartOffset:info.NewlineStart]))
	}
	// A trailing terminator yields an empty final line that is not part of the document.
	if len(out) > 0 && len(content) > 0 && out[len(out)-1] == "" {
		last := content[len(content)-1]
		if last == '\n' || last == '\r' {
			out = out[:len(out)-1]
		}
	}
	return out
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (f *File) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(f.Content) {
		lastLine := f.Lines[len(f.Lines)-1]
		return len(f.Lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(f.Lines) {
		lineIdx = len(f.Lines) - 1
	}

	lineInfo := f.Lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - lineInfo.StartOffset + 1
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (f *File) LineContent(line int) []byte {
	if f == nil || line < 1 || line > len(f.Lines) {
		return nil
	}

	lineInfo := f.Lines[line-1]
	return f.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}
