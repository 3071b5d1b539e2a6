// Package buffer implements the view-local layer over a shared
// *document.Document: cursor, selection, scroll, modal input state, and
// buffer-scoped options. Multiple buffers may reference the same
// document; view state moves independently.
//
// Grounded on other_examples/keystorm engine package (view wraps a
// shared buffer handle) and original_source/crates/editor/src/buffer/mod.rs
// for clone_for_split and selection-clamping semantics.
package buffer

import (
	"sort"

	"gitlab.com/tinyland/lab/xeno/pkg/document"
)

// Id identifies a Buffer.
type Id uint32

// Mode is the modal input state (Normal, Insert, Visual, ...). The
// registry domain (pkg/registry) owns the canonical set of mode names;
// Mode here is just the buffer's current selection into that set.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeInsert Mode = "insert"
	ModeVisual Mode = "visual"
)

// InputState is the pending-keys/count/search state a modal dispatcher
// accumulates between keystrokes.
type InputState struct {
	Mode Mode
	Pending []rune
	Count int
	LastSearch string
}

// Selection is an ordered, non-empty set of ranges with one designated
// primary. Ranges never overlap after Normalize.
type Selection struct {
	Ranges []document.Range
	Primary int // index into Ranges
}

// PrimaryRange returns the selection's primary range.
func (s Selection) PrimaryRange() document.Range {
	return s.Ranges[s.Primary]
}

// Normalize sorts ranges by start offset, merges overlaps, and relocates
// Primary to the range nearest the old primary's head.
func (s *Selection) Normalize() {
	if len(s.Ranges) == 0 {
		s.Ranges = []document.Range{{Anchor: 0, Head: 0}}
		s.Primary = 0
		return
	}
	oldHead := s.Ranges[s.Primary].Head

	sort.Slice(s.Ranges, func(i, j int) bool {
		return lo(s.Ranges[i]) < lo(s.Ranges[j])
	})

	merged := s.Ranges[:0:0]
	for _, r := range s.Ranges {
		if len(merged) == 0 {
			merged = append(merged, r)
			continue
		}
		last := &merged[len(merged)-1]
		if lo(r) <= hi(*last) {
			if hi(r) > hi(*last) {
				*last = growTo(*last, hi(r))
			}
			continue
		}
		merged = append(merged, r)
	}
	s.Ranges = merged

	best, bestDist := 0, abs(merged[0].Head-oldHead)
	for i, r := range merged {
		if d := abs(r.Head - oldHead); d < bestDist {
			best, bestDist = i, d
		}
	}
	s.Primary = best
}

func lo(r document.Range) int {
	if r.Anchor < r.Head {
		return r.Anchor
	}
	return r.Head
}

func hi(r document.Range) int {
	if r.Anchor > r.Head {
		return r.Anchor
	}
	return r.Head
}

func growTo(r document.Range, newHi int) document.Range {
	if r.Anchor > r.Head {
		r.Anchor = newHi
	} else {
		r.Head = newHi
	}
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Buffer is one editor window over a document.
type Buffer struct {
	id Id
	doc *document.Document
	sel Selection
	scroll int
	goalCol int
	input InputState
	readonly bool // view-local override; true forces readonly regardless of doc
	options map[string]any
}

// New creates a buffer with a single collapsed cursor at offset 0.
func New(id Id, doc *document.Document) *Buffer {
	return &Buffer{
		id: id,
		doc: doc,
		sel: Selection{Ranges: []document.Range{{Anchor: 0, Head: 0}}},
		input: InputState{Mode: ModeNormal},
		options: make(map[string]any),
	}
}

func (b *Buffer) Id() Id { return b.id }
func (b *Buffer) Document() *document.Document { return b.doc }
func (b *Buffer) Selection() Selection { return b.sel }
func (b *Buffer) Scroll() int { return b.scroll }
func (b *Buffer) SetScroll(line int) { b.scroll = line }
func (b *Buffer) GoalColumn() int { return b.goalCol }
func (b *Buffer) SetGoalColumn(col int) { b.goalCol = col }
func (b *Buffer) Input() InputState { return b.input }
func (b *Buffer) SetInput(s InputState) { b.input = s }

// Readonly reports whether edits through this buffer are rejected: its
// own override, or (if unset) nothing from Document — the document
// itself does not carry a readonly flag; that lives at the editor/config
// layer and is passed into Apply by callers.
func (b *Buffer) Readonly() bool { return b.readonly }
func (b *Buffer) SetReadonly(v bool) { b.readonly = v }

// Option returns a buffer-scoped option value.
func (b *Buffer) Option(name string) (any, bool) {
	v, ok := b.options[name]
	return v, ok
}

// SetOption sets a buffer-scoped option value.
func (b *Buffer) SetOption(name string, v any) { b.options[name] = v }

// SetSelection replaces the selection wholesale, normalizing it first.
func (b *Buffer) SetSelection(sel Selection) {
	sel.Normalize()
	b.sel = sel
}

// CollapseToPrimary discards all ranges but the primary, collapsing it
// to its head (the common "Escape" behavior in modal editors).
func (b *Buffer) CollapseToPrimary() {
	r := b.sel.PrimaryRange()
	b.sel = Selection{Ranges: []document.Range{{Anchor: r.Head, Head: r.Head}}}
}

// snapshot captures the view state an undo group restores, in
// document.ViewState form.
func (b *Buffer) snapshot() document.ViewState {
	return document.ViewState{Primary: b.sel.PrimaryRange().Head, Selections: append([]document.Range(nil), b.sel.Ranges...)}
}

func (b *Buffer) restore(vs document.ViewState) {
	if len(vs.Selections) == 0 {
		b.CollapseToPrimary()
		return
	}
	b.sel = Selection{Ranges: vs.Selections}
	b.clampAndNormalize()
}

// clampAndNormalize clamps every range to the document's current bounds
// and re-normalizes — called after any edit, since the cursor and every
// selection range must stay within [0, doc.len_chars()].
func (b *Buffer) clampAndNormalize() {
	for i, r := range b.sel.Ranges {
		b.sel.Ranges[i] = b.doc.ClampRange(r)
	}
	b.sel.Normalize()
}

// Apply runs a transaction through the shared document, using this
// buffer's current selection as the pre-edit view state, then clamps and
// restores the resulting view state.
func (b *Buffer) Apply(tx document.Transaction) error {
	pre := b.snapshot()
	post, err := b.doc.Apply(b.readonly, pre, tx)
	if err != nil {
		return err
	}
	b.restore(post)
	return nil
}

// Undo pops one undo group from the shared document and restores this
// buffer's view state to the group's pre-edit snapshot.
func (b *Buffer) Undo() error {
	vs, err := b.doc.Undo()
	if err != nil {
		return err
	}
	b.restore(vs)
	return nil
}

// Redo re-applies one previously undone group and restores this
// buffer's view state to the group's post-edit snapshot.
func (b *Buffer) Redo() error {
	vs, err := b.doc.Redo()
	if err != nil {
		return err
	}
	b.restore(vs)
	return nil
}

// CloneForSplit creates a new buffer with the given id, sharing this
// buffer's document and a deep copy of its view state; independent
// scroll and cursor thereafter.
func (b *Buffer) CloneForSplit(newID Id) *Buffer {
	nb := &Buffer{
		id: newID,
		doc: b.doc,
		sel: Selection{Ranges: append([]document.Range(nil), b.sel.Ranges...), Primary: b.sel.Primary},
		scroll: b.scroll,
		goalCol: b.goalCol,
		input: b.input,
		options: make(map[string]any, len(b.options)),
	}
	for k, v := range b.options {
		nb.options[k] = v
	}
	return nb
}
