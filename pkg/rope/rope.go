// Package rope implements the text storage used by Document: one
// contiguous byte slice plus an index of line start offsets.
//
// A true balanced-tree rope is out of scope for the editor core (the
// grammar/rendering layers that would justify one live outside this
// module); no rope library appears anywhere in the retrieval pack this
// module was built against, so this is hand-written. It supports byte,
// rune (char), and UTF-16 code-unit indexing because Document needs byte
// offsets for edits, char offsets for cursor/selection math, and UTF-16
// offsets for LSP position conversion (see pkg/lsp).
package rope

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Rope is a mutable, line-indexed text buffer. The zero value is an empty
// rope ready to use.
type Rope struct {
	text []byte
	lines []int // byte offset of the start of each line; lines[0] == 0
}

// New builds a Rope from the given initial content.
func New(content string) *Rope {
	r := &Rope{text: []byte(content)}
	r.reindex()
	return r
}

func (r *Rope) reindex() {
	r.lines = r.lines[:0]
	r.lines = append(r.lines, 0)
	for i, b := range r.text {
		if b == '\n' {
			r.lines = append(r.lines, i+1)
		}
	}
}

// String returns the full text.
func (r *Rope) String() string { return string(r.text) }

// Len returns the length in bytes.
func (r *Rope) Len() int { return len(r.text) }

// LenChars returns the length in runes (Unicode scalar values).
func (r *Rope) LenChars() int { return utf8.RuneCount(r.text) }

// LineCount returns the number of lines (a trailing newline starts a new,
// possibly empty, final line — matching how editors count lines).
func (r *Rope) LineCount() int { return len(r.lines) }

// LineStartByte returns the byte offset at which line (0-indexed) starts.
func (r *Rope) LineStartByte(line int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(r.lines) {
		return len(r.text)
	}
	return r.lines[line]
}

// LineEndByte returns the byte offset of the line terminator (or EOF) for
// the given line, excluding the terminator itself.
func (r *Rope) LineEndByte(line int) int {
	start := r.LineStartByte(line)
	idx := strings.IndexByte(string(r.text[start:]), '\n')
	if idx < 0 {
		return len(r.text)
	}
	return start + idx
}

// LineText returns the content of a line (0-indexed), excluding the
// terminator.
func (r *Rope) LineText(line int) string {
	return string(r.text[r.LineStartByte(line):r.LineEndByte(line)])
}

// ByteToLine returns the 0-indexed line containing the given byte offset.
func (r *Rope) ByteToLine(byteOff int) int {
	// Binary search over line starts.
	lo, hi := 0, len(r.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if r.lines[mid] <= byteOff {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// ByteToChar converts a byte offset to a char (rune) index.
func (r *Rope) ByteToChar(byteOff int) int {
	if byteOff > len(r.text) {
		byteOff = len(r.text)
	}
	return utf8.RuneCount(r.text[:byteOff])
}

// CharToByte converts a char (rune) index to a byte offset.
func (r *Rope) CharToByte(charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	n := 0
	for i := range string(r.text) {
		if n == charIdx {
			return i
		}
		n++
	}
	return len(r.text)
}

// ClampChar clamps a char index to [0, LenChars()].
func (r *Rope) ClampChar(charIdx int) int {
	if charIdx < 0 {
		return 0
	}
	if n := r.LenChars(); charIdx > n {
		return n
	}
	return charIdx
}

// Splice replaces the byte range [startByte, endByte) with replacement,
// mutating the rope in place and reindexing line starts. Callers are
// responsible for clamping startByte/endByte to [0, Len()].
func (r *Rope) Splice(startByte, endByte int, replacement string) {
	if startByte < 0 {
		startByte = 0
	}
	if endByte > len(r.text) {
		endByte = len(r.text)
	}
	if endByte < startByte {
		endByte = startByte
	}
	next := make([]byte, 0, startByte+len(replacement)+(len(r.text)-endByte))
	next = append(next, r.text[:startByte]...)
	next = append(next, replacement...)
	next = append(next, r.text[endByte:]...)
	r.text = next
	r.reindex()
}

// Slice returns the text in the byte range [startByte, endByte).
func (r *Rope) Slice(startByte, endByte int) string {
	if startByte < 0 {
		startByte = 0
	}
	if endByte > len(r.text) {
		endByte = len(r.text)
	}
	if endByte < startByte {
		return ""
	}
	return string(r.text[startByte:endByte])
}

// LineColToChar converts a 0-indexed (line, column-in-runes) pair to a
// char index, clamping the column to the line's end (including its
// terminator position), matching how LSP position mapping expects
// out-of-range columns to be handled.
func (r *Rope) LineColToChar(line, col int) (int, bool) {
	if line < 0 || line >= len(r.lines) {
		return 0, false
	}
	lineStart := r.LineStartByte(line)
	lineEnd := r.LineEndByte(line)
	lineRunes := utf8.RuneCount(r.text[lineStart:lineEnd])
	if col > lineRunes {
		col = lineRunes
	}
	byteOff := lineStart
	n := 0
	for i := range string(r.text[lineStart:lineEnd]) {
		if n == col {
			byteOff = lineStart + i
			return r.ByteToChar(byteOff), true
		}
		n++
	}
	return r.ByteToChar(lineEnd), true
}

// CharToLineCol converts a char index to a 0-indexed (line, column-in-runes).
func (r *Rope) CharToLineCol(charIdx int) (line, col int) {
	byteOff := r.CharToByte(charIdx)
	line = r.ByteToLine(byteOff)
	lineStart := r.LineStartByte(line)
	col = utf8.RuneCount(r.text[lineStart:byteOff])
	return line, col
}

// LineUTF16Units returns the number of UTF-16 code units in a line — the
// unit LSP's "utf-16" offset encoding counts in.
func (r *Rope) LineUTF16Units(line int) int {
	start, end := r.LineStartByte(line), r.LineEndByte(line)
	n := 0
	for _, ru := range string(r.text[start:end]) {
		n += len(utf16.Encode([]rune{ru}))
	}
	return n
}

// LineColUTF16ToChar converts a 0-indexed (line, utf16Unit) pair to a char
// index, clamping utf16Unit past end-of-line to the line terminator.
func (r *Rope) LineColUTF16ToChar(line, utf16Unit int) (int, bool) {
	if line < 0 || line >= len(r.lines) {
		return 0, false
	}
	start, end := r.LineStartByte(line), r.LineEndByte(line)
	units := 0
	byteOff := start
	for i, ru := range string(r.text[start:end]) {
		if units >= utf16Unit {
			byteOff = start + i
			return r.ByteToChar(byteOff), true
		}
		units += len(utf16.Encode([]rune{ru}))
	}
	return r.ByteToChar(end), true
}

// CharToLineColUTF16 converts a char index to a 0-indexed (line, utf16Unit).
func (r *Rope) CharToLineColUTF16(charIdx int) (line, unit int) {
	byteOff := r.CharToByte(charIdx)
	line = r.ByteToLine(byteOff)
	start := r.LineStartByte(line)
	for _, ru := range string(r.text[start:byteOff]) {
		unit += len(utf16.Encode([]rune{ru}))
	}
	return line, unit
}
