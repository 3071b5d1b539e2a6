// Package document implements the authoritative shared text model: a
// Document holds a rope, a monotonically increasing version, and an undo
// tree of transaction groups. Buffers (pkg/buffer) hold view-local state
// over a shared *Document.
//
// Grounded on other_examples/keystorm's engine package (thread-safe
// facade over a rope + history) and original_source's
// crates/editor/src/buffer/mod.rs and core/undo_store.
package document

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/xeno/pkg/rope"
	"gitlab.com/tinyland/lab/xeno/pkg/xerr"
)

// Id identifies a Document. The zero value is invalid.
type Id uint32

// FileType tags a document with its language/filetype for syntax and LSP
// purposes (e.g. "go", "python").
type FileType string

// Change is one (start, end, replacement) edit, in char offsets, applied
// left to right within a Transaction.
type Change struct {
	Start int
	End int
	Replacement string
	HasReplace bool // distinguishes a pure deletion from replacement with ""
}

// Policy controls how an applied Transaction is recorded in the undo
// store.
type Policy int

const (
	// Record appends to (or starts) an undo group.
	Record Policy = iota
	// NoUndo applies the edit without touching the undo store.
	NoUndo
	// NoUndoClearRedo applies the edit, clears the redo stack, but does
	// not itself become undoable.
	NoUndoClearRedo
)

// Transaction is a total, ordered edit plus whether it continues the
// current undo group (e.g. consecutive inserted characters).
type Transaction struct {
	Changes []Change
	Continuation bool
	Policy Policy
}

// ViewState is the cursor/selection snapshot an undo group restores on
// undo (pre-edit) or redo (post-edit). It is opaque to Document — buffers
// populate and consume it.
type ViewState struct {
	Primary int
	Selections []Range
}

// Range is a half-open char range; Anchor/Head give selection direction.
type Range struct {
	Anchor int
	Head int
}

// Document is the authoritative shared text plus version and undo
// history. All exported methods are safe for concurrent use.
type Document struct {
	id Id
	fileType FileType

	mu sync.RWMutex
	lockTry sync.Mutex // detects re-entrant Apply from the same call stack
	rope *rope.Rope
	version uint64

	undo *UndoStore

	dirtySyntax atomic.Bool
}

// New creates a Document with the given id, file type and initial content.
func New(id Id, fileType FileType, content string) *Document {
	return &Document{
		id: id,
		fileType: fileType,
		rope: rope.New(content),
		undo: newUndoStore(),
	}
}

// Id returns the document's identity.
func (d *Document) Id() Id { return d.id }

// FileType returns the document's file-type tag.
func (d *Document) FileType() FileType { return d.fileType }

// Version returns the current version. Strictly increases across every
// successful Apply/Undo/Redo.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Text returns the full document text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rope.String()
}

// LenChars returns the document length in chars.
func (d *Document) LenChars() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rope.LenChars()
}

// Rope returns the underlying rope under the read lock's protection; the
// returned pointer must not be mutated by callers (used by pkg/syntax and
// pkg/render for read-only traversal — they call this while holding no
// lock of their own and must finish before the next Apply).
func (d *Document) Rope() *rope.Rope {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rope
}

// DirtySyntax reports (and does not clear) whether the last edit flagged
// the syntax tree as stale.
func (d *Document) DirtySyntax() bool { return d.dirtySyntax.Load() }

// ClearDirtySyntax clears the syntax-dirty flag (called by pkg/syntax once
// it has installed a tree covering the current version).
func (d *Document) ClearDirtySyntax() { d.dirtySyntax.Store(false) }

// Apply validates readonly, applies the transaction's changes to the
// rope, bumps the version, and records the transaction (per Policy) in
// the undo store. The write lock is held only across the rope mutation
// and version bump — never across a hook call or channel send.
//
// A re-entrant Apply from the same goroutine (detected via a non-blocking
// inner lock) is a programming error and panics — it should never be
// reachable through the public API, only through a bug in a handler
// that calls back into Apply while already applying one.
func (d *Document) Apply(readonly bool, pre ViewState, tx Transaction) (post ViewState, err error) {
	if readonly && tx.Policy == Record {
		return ViewState{}, xerr.ErrReadonly
	}
	if !d.lockTry.TryLock() {
		panic("document: re-entrant Apply detected — handler called Apply while already applying one")
	}
	defer d.lockTry.Unlock()

	d.mu.Lock()
	inverse, applyErr := d.applyLocked(tx)
	newVersion := d.version
	d.mu.Unlock()

	if applyErr != nil {
		return ViewState{}, applyErr
	}

	d.dirtySyntax.Store(true)

	switch tx.Policy {
	case Record:
		d.undo.record(tx, inverse, pre, newVersion, tx.Continuation)
	case NoUndoClearRedo:
		d.undo.clearRedo()
	case NoUndo:
		// nothing recorded
	}

	return pre, nil
}

// applyLocked performs the rope mutation under d.mu and returns the
// inverse transaction (computed from the pre-image) for exact undo.
func (d *Document) applyLocked(tx Transaction) (Transaction, error) {
	n := d.rope.LenChars()
	inverse := Transaction{Changes: make([]Change, 0, len(tx.Changes))}

	// Changes apply left to right: each Start/End below is validated
	// against the rope as the previous change left it (n is refreshed
	// after every splice), not against the pre-transaction text.
	for _, c := range tx.Changes {
		if c.Start < 0 || c.End > n || c.Start > c.End {
			return Transaction{}, xerr.ErrInvalidRange
		}
		before := d.rope.Slice(d.rope.CharToByte(c.Start), d.rope.CharToByte(c.End))
		startByte := d.rope.CharToByte(c.Start)
		endByte := d.rope.CharToByte(c.End)
		d.rope.Splice(startByte, endByte, c.Replacement)

		newEnd := c.Start + d.rope.ByteToChar(startByte+len(c.Replacement)) - d.rope.ByteToChar(startByte)
		inverse.Changes = append(inverse.Changes, Change{
			Start: c.Start,
			End: newEnd,
			Replacement: before,
			HasReplace: true,
		})
		n = d.rope.LenChars()
	}

	d.version++
	return invertOrder(inverse), nil
}

// invertOrder reverses change order so the inverse transaction, applied
// left-to-right, undoes the original left-to-right application exactly.
func invertOrder(tx Transaction) Transaction {
	out := Transaction{Changes: make([]Change, len(tx.Changes))}
	for i, c := range tx.Changes {
		out.Changes[len(tx.Changes)-1-i] = c
	}
	return out
}

// Undo consumes one group from the undo store, applies its inverse, and
// restores the pre-edit view state. Returns xerr.ErrNothingToUndo if the
// store is empty.
func (d *Document) Undo() (ViewState, error) {
	group, ok := d.undo.popUndo()
	if !ok {
		return ViewState{}, xerr.ErrNothingToUndo
	}
	d.mu.Lock()
	for i := len(group.entries) - 1; i >= 0; i-- {
		if _, err := d.applyLocked(group.entries[i].inverse); err != nil {
			d.mu.Unlock()
			return ViewState{}, fmt.Errorf("undo: %w", err)
		}
	}
	d.mu.Unlock()
	d.dirtySyntax.Store(true)
	return group.pre, nil
}

// Redo re-applies one previously undone group and restores its post-edit
// view state.
func (d *Document) Redo() (ViewState, error) {
	group, ok := d.undo.popRedo()
	if !ok {
		return ViewState{}, xerr.ErrNothingToRedo
	}
	d.mu.Lock()
	for _, e := range group.entries {
		if _, err := d.applyLocked(e.forward); err != nil {
			d.mu.Unlock()
			return ViewState{}, fmt.Errorf("redo: %w", err)
		}
	}
	d.mu.Unlock()
	d.dirtySyntax.Store(true)
	return group.post, nil
}

// ClampRange clamps a Range's endpoints to [0, LenChars()]; it does not
// collapse or reorder the range (callers collapse carets explicitly;
// Document only clamps bounds).
func (d *Document) ClampRange(r Range) Range {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Range{Anchor: d.rope.ClampChar(r.Anchor), Head: d.rope.ClampChar(r.Head)}
}
