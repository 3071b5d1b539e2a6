// Package lsp implements document synchronization with language
// servers: offset-encoding-correct position mapping, change coalescing,
// generation-gated barrier acks, and server process supervision.
//
// Grounded on original_source/crates/lsp/src/sync (DocumentStateManager,
// barrier generation-gating) and
// brennhill-gasoline-mcp-ai-devtools/internal/mcp/protocol.go for the
// JSON-RPC 2.0 envelope shape.
package lsp

import (
	"fmt"

	"gitlab.com/tinyland/lab/xeno/pkg/rope"
)

// Encoding is a language server's advertised position encoding.
type Encoding int

const (
	EncodingUTF16 Encoding = iota
	EncodingUTF8
	EncodingUTF32
)

// Position is an LSP (line, character) pair, in the units implied by an
// Encoding.
type Position struct {
	Line int
	Character int
}

// ErrLineOutOfBounds is returned when Position.Line exceeds the
// document's line count.
type ErrLineOutOfBounds struct{ Line, LineCount int }

func (e ErrLineOutOfBounds) Error() string {
	return fmt.Sprintf("lsp: line %d out of bounds (document has %d lines)", e.Line, e.LineCount)
}

// PositionToChar converts an LSP position to a char index, per the
// encoding's unit : rejects an out-of-bounds line, clamps
// character past end-of-line to the line terminator.
func PositionToChar(r *rope.Rope, pos Position, enc Encoding) (int, error) {
	if pos.Line < 0 || pos.Line >= r.LineCount() {
		return 0, ErrLineOutOfBounds{Line: pos.Line, LineCount: r.LineCount()}
	}
	switch enc {
	case EncodingUTF16:
		idx, ok := r.LineColUTF16ToChar(pos.Line, pos.Character)
		if !ok {
			return 0, ErrLineOutOfBounds{Line: pos.Line, LineCount: r.LineCount()}
		}
		return idx, nil
	case EncodingUTF32:
		idx, ok := r.LineColToChar(pos.Line, pos.Character)
		if !ok {
			return 0, ErrLineOutOfBounds{Line: pos.Line, LineCount: r.LineCount()}
		}
		return idx, nil
	default: // EncodingUTF8: character counts bytes within the line
		lineStartByte := r.LineStartByte(pos.Line)
		lineEndByte := r.LineEndByte(pos.Line)
		byteOff := lineStartByte + pos.Character
		if byteOff > lineEndByte {
			byteOff = lineEndByte
		}
		return r.ByteToChar(byteOff), nil
	}
}

// CharToPosition is PositionToChar's exact inverse.
func CharToPosition(r *rope.Rope, charIdx int, enc Encoding) Position {
	switch enc {
	case EncodingUTF16:
		line, unit := r.CharToLineColUTF16(charIdx)
		return Position{Line: line, Character: unit}
	case EncodingUTF32:
		line, col := r.CharToLineCol(charIdx)
		return Position{Line: line, Character: col}
	default: // EncodingUTF8
		byteOff := r.CharToByte(charIdx)
		line := r.ByteToLine(byteOff)
		return Position{Line: line, Character: byteOff - r.LineStartByte(line)}
	}
}
