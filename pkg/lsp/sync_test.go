package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoalesceInsertInsertAdjacent(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 5, End: 5, Replacement: "ab"},
		{Start: 7, End: 7, Replacement: "cd"},
	})
	require.Equal(t, []Change{{Start: 5, End: 5, Replacement: "abcd"}}, out)
}

func TestCoalesceDeleteDeleteSameStart(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 3, End: 5},
		{Start: 3, End: 8},
	})
	require.Equal(t, []Change{{Start: 3, End: 8}}, out)
}

func TestCoalesceDeleteThenInsertBecomesReplace(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 2, End: 6},
		{Start: 2, End: 2, Replacement: "xyz"},
	})
	require.Equal(t, []Change{{Start: 2, End: 6, Replacement: "xyz"}}, out)
}

func TestCoalesceInsertThenDeleteLeavesResidual(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 4, End: 4, Replacement: "hello"},
		{Start: 4, End: 6}, // deletes first 2 chars of what was just inserted
	})
	require.Equal(t, []Change{{Start: 4, End: 4, Replacement: "llo"}}, out)
}

func TestCoalesceInsertThenDeleteConsumingWholeInsertCollapses(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 4, End: 4, Replacement: "ab"},
		{Start: 4, End: 10}, // deletes more than was inserted
	})
	require.Equal(t, []Change{{Start: 4, End: 4, Replacement: ""}}, out)
}

func TestCoalesceNonAdjacentChangesStaySeparate(t *testing.T) {
	out := Coalesce([]Change{
		{Start: 0, End: 0, Replacement: "a"},
		{Start: 50, End: 50, Replacement: "b"},
	})
	require.Len(t, out, 2)
}

// The following three mirror original_source/crates/lsp/src/sync/tests/barriers.rs.

func TestBarrierIgnoredAfterDocClose(t *testing.T) {
	d := NewDocState()
	gen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "x"})
	d.Reopen() // close+reopen bumps generation before the ack arrives
	d.AckBarrier(gen, true, 1)
	require.Equal(t, 0, d.PendingChangeCount(), "reopen already cleared pending; a stale ack must not resurrect or double-clear it")
}

func TestBarrierIgnoredAfterDocReopen(t *testing.T) {
	d := NewDocState()
	gen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "x"})
	d.Reopen()
	newGen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "y"})
	require.NotEqual(t, gen, newGen)

	d.AckBarrier(gen, true, 1)
	require.Equal(t, 1, d.PendingChangeCount(), "the stale-generation ack must not consume the new generation's pending change")
}

func TestBarrierErrorIgnoredAfterDocReopen(t *testing.T) {
	d := NewDocState()
	gen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "x"})
	d.Reopen()
	d.AckBarrier(gen, false, 0)
	require.False(t, d.TakeForceFullSync(), "an error ack tagged with a stale generation must not force a full resync of the new generation")
}

func TestBarrierAppliedWhenGenerationMatches(t *testing.T) {
	d := NewDocState()
	gen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "x"})
	d.QueueChange(Change{Start: 1, End: 1, Replacement: "y"})
	d.AckBarrier(gen, true, 1)
	require.Equal(t, 1, d.PendingChangeCount())
}

func TestBarrierErrorSetsForceFullSyncWhenGenerationMatches(t *testing.T) {
	d := NewDocState()
	gen := d.QueueChange(Change{Start: 0, End: 0, Replacement: "x"})
	d.AckBarrier(gen, false, 0)
	require.True(t, d.TakeForceFullSync())
}
