package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/xeno/pkg/layout"
)

func TestGetReturnsFalseAfterGenerationBump(t *testing.T) {
	m := NewManager()
	id, ok := m.OpenFloat(Float{Kind: KindInfoPopup, Rect: layout.Rect{Width: 10, Height: 1}})
	require.True(t, ok)

	_, _, ok = m.Get(id)
	require.True(t, ok)

	m.Close(id, ReasonCancel)
	_, _, ok = m.Get(id)
	require.False(t, ok, "stale LayerId must not resolve after the layer is cleared")
}

func TestOnlyOneModalInteractionOverlayAtATime(t *testing.T) {
	m := NewManager()
	id1, ok := m.OpenFloat(Float{Kind: KindCommandPalette})
	require.True(t, ok)

	_, ok = m.OpenFloat(Float{Kind: KindSearchPrompt})
	require.True(t, ok)

	// Opening the second modal overlay must force-close the first.
	_, _, stillOpen := m.Get(id1)
	require.False(t, stillOpen)
}

func TestPassiveOverlaysDoNotContendForModalSlot(t *testing.T) {
	m := NewManager()
	_, ok := m.OpenFloat(Float{Kind: KindCommandPalette})
	require.True(t, ok)
	idInfo, ok := m.OpenFloat(Float{Kind: KindInfoPopup})
	require.True(t, ok)

	_, _, stillOpen := m.Get(idInfo)
	require.True(t, stillOpen, "a passive info popup must not be closed by the modal rule")
}

func TestRectPolicyZeroDivisionSafety(t *testing.T) {
	p := RectPolicy{Kind: "top_center_pct", Pct: 50}
	r := p.Resolve(layout.Rect{Width: 0, Height: 0}, 0, 0)
	require.Equal(t, layout.Rect{}, r)
}

func TestRectPolicySwapsInvertedMinMax(t *testing.T) {
	p := RectPolicy{Kind: "top_center_pct", Pct: 100, MinWidth: 50, MaxWidth: 10}
	r := p.Resolve(layout.Rect{X: 0, Y: 0, Width: 100, Height: 10}, 0, 0)
	require.GreaterOrEqual(t, r.Width, 10)
}

func TestRectPolicyClampsToScreenBounds(t *testing.T) {
	p := RectPolicy{Kind: "cursor_relative", MinWidth: 5, MaxWidth: 20}
	r := p.Resolve(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24}, 78, 23)
	require.LessOrEqual(t, r.X+r.Width, 80)
}
