package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/xeno/pkg/document"
)

func TestNewBufferCollapsedAtZero(t *testing.T) {
	doc := document.New(1, "go", "hello world")
	b := New(1, doc)
	require.Equal(t, document.Range{Anchor: 0, Head: 0}, b.Selection().PrimaryRange())
}

func TestApplyClampsSelectionAfterEdit(t *testing.T) {
	doc := document.New(1, "go", "hello world")
	b := New(1, doc)
	b.SetSelection(Selection{Ranges: []document.Range{{Anchor: 11, Head: 11}}})

	err := b.Apply(document.Transaction{
		Changes: []document.Change{{Start: 5, End: 11, Replacement: ""}},
		Policy:  document.Record,
	})
	require.NoError(t, err)
	require.Equal(t, "hello", doc.Text())
	require.LessOrEqual(t, b.Selection().PrimaryRange().Head, doc.LenChars())
}

func TestCloneForSplitIndependentScroll(t *testing.T) {
	doc := document.New(1, "go", "hello world")
	a := New(1, doc)
	a.SetScroll(3)
	bcopy := a.CloneForSplit(2)
	bcopy.SetScroll(9)

	require.Equal(t, 3, a.Scroll())
	require.Equal(t, 9, bcopy.Scroll())
	require.Same(t, doc, bcopy.Document())
}

func TestSelectionNormalizeMergesOverlapsAndMigratesPrimary(t *testing.T) {
	sel := Selection{
		Ranges:  []document.Range{{Anchor: 10, Head: 12}, {Anchor: 0, Head: 5}, {Anchor: 4, Head: 8}},
		Primary: 0, // the (10,12) range
	}
	sel.Normalize()
	require.Len(t, sel.Ranges, 2) // (0,5)+(4,8) merge into (0,8); (10,12) stands alone
	require.Equal(t, 12, sel.Ranges[sel.Primary].Head, "primary migrates to nearest remaining range by head position")
}

func TestReadonlyBufferRejectsRecordedEdit(t *testing.T) {
	doc := document.New(1, "go", "abc")
	b := New(1, doc)
	b.SetReadonly(true)

	err := b.Apply(document.Transaction{
		Changes: []document.Change{{Start: 0, End: 0, Replacement: "x"}},
		Policy:  document.Record,
	})
	require.Error(t, err)
	require.Equal(t, "abc", doc.Text())
}

func TestUndoRedoThroughBufferRestoresSelection(t *testing.T) {
	doc := document.New(1, "go", "abc")
	b := New(1, doc)
	b.SetSelection(Selection{Ranges: []document.Range{{Anchor: 3, Head: 3}}})

	err := b.Apply(document.Transaction{
		Changes: []document.Change{{Start: 3, End: 3, Replacement: "def"}},
		Policy:  document.Record,
	})
	require.NoError(t, err)
	require.Equal(t, "abcdef", doc.Text())

	require.NoError(t, b.Undo())
	require.Equal(t, "abc", doc.Text())
	require.Equal(t, 3, b.Selection().PrimaryRange().Head)

	require.NoError(t, b.Redo())
	require.Equal(t, "abcdef", doc.Text())
}
