package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func insertTx(at int, s string) Transaction {
	return Transaction{Changes: []Change{{Start: at, End: at, Replacement: s}}, Policy: Record}
}

func TestVersionStrictlyIncreases(t *testing.T) {
	d := New(1, "go", "hello")
	v0 := d.Version()
	_, err := d.Apply(false, ViewState{}, insertTx(5, " world"))
	require.NoError(t, err)
	require.Greater(t, d.Version(), v0)
	require.Equal(t, "hello world", d.Text())
}

func TestApplyInvertRoundTrip(t *testing.T) {
	d := New(1, "go", "hello world")
	pre := ViewState{Primary: 0}
	_, err := d.Apply(false, pre, Transaction{
		Changes: []Change{{Start: 6, End: 11, Replacement: "there"}},
		Policy:  Record,
	})
	require.NoError(t, err)
	require.Equal(t, "hello there", d.Text())

	restored, err := d.Undo()
	require.NoError(t, err)
	require.Equal(t, "hello world", d.Text())
	require.Equal(t, pre, restored)
}

func TestUndoRedoRestoresExactText(t *testing.T) {
	d := New(1, "go", "abc")
	_, err := d.Apply(false, ViewState{}, insertTx(3, "def"))
	require.NoError(t, err)
	require.Equal(t, "abcdef", d.Text())

	_, err = d.Undo()
	require.NoError(t, err)
	require.Equal(t, "abc", d.Text())

	_, err = d.Redo()
	require.NoError(t, err)
	require.Equal(t, "abcdef", d.Text())
}

func TestReadonlyDeniesRecordedEdits(t *testing.T) {
	d := New(1, "go", "abc")
	_, err := d.Apply(true, ViewState{}, insertTx(0, "x"))
	require.Error(t, err)
	require.Equal(t, "abc", d.Text())
}

func TestUndoEmptyStoreErrors(t *testing.T) {
	d := New(1, "go", "abc")
	_, err := d.Undo()
	require.Error(t, err)
}

func TestContinuationGroupsUndoAsOneUnit(t *testing.T) {
	d := New(1, "go", "")
	_, err := d.Apply(false, ViewState{}, Transaction{Changes: []Change{{Start: 0, End: 0, Replacement: "a"}}, Policy: Record})
	require.NoError(t, err)
	_, err = d.Apply(false, ViewState{}, Transaction{Changes: []Change{{Start: 1, End: 1, Replacement: "b"}}, Policy: Record, Continuation: true})
	require.NoError(t, err)
	_, err = d.Apply(false, ViewState{}, Transaction{Changes: []Change{{Start: 2, End: 2, Replacement: "c"}}, Policy: Record, Continuation: true})
	require.NoError(t, err)
	require.Equal(t, "abc", d.Text())

	_, err = d.Undo()
	require.NoError(t, err)
	require.Equal(t, "", d.Text(), "continuation group undoes as a single unit")
}

func TestInvalidRangeRejected(t *testing.T) {
	d := New(1, "go", "abc")
	_, err := d.Apply(false, ViewState{}, Transaction{
		Changes: []Change{{Start: 5, End: 10, Replacement: "x"}},
		Policy:  Record,
	})
	require.Error(t, err)
}

func TestClampRange(t *testing.T) {
	d := New(1, "go", "abc")
	r := d.ClampRange(Range{Anchor: -5, Head: 100})
	require.Equal(t, Range{Anchor: 0, Head: 3}, r)
}
