package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushAndVisibleOldestFirst(t *testing.T) {
	m := NewManager(10, OverflowDiscardOldest)
	now := time.Now()
	m.Push(AnchorBottomRight, LevelInfo, "a", "", DefaultAutoDismiss(), now)
	m.Push(AnchorBottomRight, LevelInfo, "b", "", DefaultAutoDismiss(), now)

	vis := m.Visible(AnchorBottomRight)
	require.Len(t, vis, 2)
	require.Equal(t, "a", vis[0].Title)
	require.Equal(t, "b", vis[1].Title)
}

func TestOverflowDiscardOldestEvictsFrontOnPush(t *testing.T) {
	m := NewManager(2, OverflowDiscardOldest)
	now := time.Now()
	m.Push(AnchorTopLeft, LevelInfo, "first", "", DefaultAutoDismiss(), now)
	m.Push(AnchorTopLeft, LevelInfo, "second", "", DefaultAutoDismiss(), now)
	m.Push(AnchorTopLeft, LevelInfo, "third", "", DefaultAutoDismiss(), now)

	vis := m.Visible(AnchorTopLeft)
	require.Len(t, vis, 2)
	require.Equal(t, "second", vis[0].Title)
	require.Equal(t, "third", vis[1].Title)
}

func TestOverflowDiscardNewestKeepsExisting(t *testing.T) {
	m := NewManager(1, OverflowDiscardNewest)
	now := time.Now()
	m.Push(AnchorTopLeft, LevelInfo, "first", "", DefaultAutoDismiss(), now)
	m.Push(AnchorTopLeft, LevelInfo, "second", "", DefaultAutoDismiss(), now)

	vis := m.Visible(AnchorTopLeft)
	require.Len(t, vis, 1)
	require.Equal(t, "first", vis[0].Title)
}

func TestAnchorsAreIndependentCapacity(t *testing.T) {
	m := NewManager(1, OverflowDiscardOldest)
	now := time.Now()
	m.Push(AnchorTopLeft, LevelInfo, "a", "", DefaultAutoDismiss(), now)
	m.Push(AnchorBottomRight, LevelInfo, "b", "", DefaultAutoDismiss(), now)

	require.Len(t, m.Visible(AnchorTopLeft), 1)
	require.Len(t, m.Visible(AnchorBottomRight), 1)
	require.Equal(t, 2, m.Count())
}

func TestSweepRemovesExpiredNotifications(t *testing.T) {
	m := NewManager(10, OverflowDiscardOldest)
	now := time.Now()
	id := m.Push(AnchorBottomRight, LevelWarn, "expiring", "", AutoDismiss{After: time.Second}, now)
	m.Push(AnchorBottomRight, LevelInfo, "sticky", "", AutoDismiss{Never: true}, now)

	removed := m.Sweep(now.Add(2 * time.Second))
	require.Equal(t, []Id{id}, removed)

	vis := m.Visible(AnchorBottomRight)
	require.Len(t, vis, 1)
	require.Equal(t, "sticky", vis[0].Title)
}

func TestSweepNoOpBeforeDeadline(t *testing.T) {
	m := NewManager(10, OverflowDiscardOldest)
	now := time.Now()
	m.Push(AnchorBottomRight, LevelInfo, "a", "", AutoDismiss{After: time.Hour}, now)

	removed := m.Sweep(now.Add(time.Second))
	require.Empty(t, removed)
	require.Len(t, m.Visible(AnchorBottomRight), 1)
}

func TestDismissRemovesById(t *testing.T) {
	m := NewManager(10, OverflowDiscardOldest)
	id := m.Push(AnchorTopRight, LevelError, "oops", "", DefaultAutoDismiss(), time.Now())
	require.True(t, m.Dismiss(id))
	require.Empty(t, m.Visible(AnchorTopRight))
	require.False(t, m.Dismiss(id), "dismissing twice is a no-op, not an error")
}
