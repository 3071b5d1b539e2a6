package lsp

// Change is one pending text-document/didChange edit, in char offsets
// (mirrors document.Change but kept independent — LSP sync coalesces
// before handing changes to the transport, not after).
type Change struct {
	Start, End int
	Replacement string
}

// Coalesce merges adjacent queued changes: insert+insert at adjacent
// offsets, delete+delete at the
// same start, delete-then-insert at the delete start becomes a replace,
// insert-then-delete at the insert position becomes the insert's
// residual. Non-adjacent changes remain separate. Only directly
// adjacent pairs coalesce; the result is built by folding left to
// right.
func Coalesce(changes []Change) []Change {
	if len(changes) == 0 {
		return nil
	}
	out := []Change{changes[0]}
	for _, c := range changes[1:] {
		last := &out[len(out)-1]
		if merged, ok := tryMerge(*last, c); ok {
			*last = merged
			continue
		}
		out = append(out, c)
	}
	return out
}

func tryMerge(a, b Change) (Change, bool) {
	aIsInsert := a.Start == a.End
	bIsInsert := b.Start == b.End

	switch {
	case aIsInsert && bIsInsert && a.Start+len([]rune(a.Replacement)) == b.Start:
		// Insert+insert at adjacent offsets (b starts where a's inserted
		// text ends) -> one insert, concatenated.
		return Change{Start: a.Start, End: a.Start, Replacement: a.Replacement + b.Replacement}, true

	case !aIsInsert && !bIsInsert && a.Start == b.Start && a.Replacement == "" && b.Replacement == "":
		// Delete+delete at the same start -> widened delete.
		end := a.End
		if b.End > end {
			end = b.End
		}
		return Change{Start: a.Start, End: end, Replacement: ""}, true

	case !aIsInsert && a.Replacement == "" && bIsInsert && b.Start == a.Start:
		// Delete followed by insert at the delete start -> single replace.
		return Change{Start: a.Start, End: a.End, Replacement: b.Replacement}, true

	case aIsInsert && !bIsInsert && b.Start == a.Start:
		// Insert followed by delete at the insert position -> residual of
		// the insert (possibly empty): the delete consumes len(b.End-b.Start)
		// characters of what was just inserted.
		deleted := b.End - b.Start
		inserted := []rune(a.Replacement)
		if deleted >= len(inserted) {
			return Change{Start: a.Start, End: a.Start, Replacement: ""}, true
		}
		return Change{Start: a.Start, End: a.Start, Replacement: string(inserted[deleted:])}, true

	default:
		return Change{}, false
	}
}

// Generation bumps on open/reopen; a barrier is tagged with the
// generation active when it was queued.
type Generation uint64

// DocState tracks one open document's sync bookkeeping: current
// generation, queued (uncoalesced) changes, and the force-full-sync
// flag.
type DocState struct {
	generation Generation
	pending []Change
	forceFullSync bool
}

// NewDocState creates state for a freshly opened document at generation
// 1 (0 is reserved for "never opened").
func NewDocState() *DocState {
	return &DocState{generation: 1}
}

// Generation returns the document's current open generation.
func (d *DocState) Generation() Generation { return d.generation }

// Reopen bumps the generation, clearing pending changes from the
// previous session.
func (d *DocState) Reopen() {
	d.generation++
	d.pending = nil
	d.forceFullSync = false
}

// QueueChange appends c to the pending (uncoalesced) list and returns
// the generation it was queued at, for barrier tagging.
func (d *DocState) QueueChange(c Change) Generation {
	d.pending = append(d.pending, c)
	return d.generation
}

// PendingChangeCount returns the number of queued changes (pre-coalesce
// count, matching the original's pending_change_count semantics).
func (d *DocState) PendingChangeCount() int { return len(d.pending) }

// TakeForceFullSync reads and clears the force-full-sync flag.
func (d *DocState) TakeForceFullSync() bool {
	v := d.forceFullSync
	d.forceFullSync = false
	return v
}

// SetForceFullSync sets the flag, called on a coalescing or delivery
// error that leaves the server's view of the document in doubt.
func (d *DocState) SetForceFullSync() { d.forceFullSync = true }

// AckBarrier resolves a barrier queued at queuedGen. If the document's
// generation has since changed (close+reopen happened before the ack
// arrived), the ack is silently dropped: the pending count is not
// decremented and force_full_sync is not touched, matching the three
// barrier tests in original_source/crates/lsp/src/sync/tests/barriers.rs.
func (d *DocState) AckBarrier(queuedGen Generation, ok bool, n int) {
	if queuedGen != d.generation {
		return
	}
	if ok {
		if n > len(d.pending) {
			n = len(d.pending)
		}
		d.pending = d.pending[n:]
	} else {
		d.forceFullSync = true
	}
}
