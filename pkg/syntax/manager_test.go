package syntax

import (
	"testing"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"
)

// sentinelNonNilTree stands in for "some tree installed" in unit tests
// that only need a non-nil *sitter.Tree to exercise the manager's
// bookkeeping; a real tree requires an actual cgo tree-sitter parse.
var sentinelNonNilTree sitter.Tree

func TestClassifyTierBoundaries(t *testing.T) {
	require.Equal(t, TierS, ClassifyTier(100))
	require.Equal(t, TierM, ClassifyTier(300*1024))
	require.Equal(t, TierL, ClassifyTier(2*1024*1024))
}

func TestEnsureNoLanguageDropsTree(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	result := m.Ensure(1, EnsureContext{Now: time.Now()})
	require.Equal(t, ResultNoLanguage, result)
}

func TestEnsureDisabledSkipsScheduling(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	m.SetLanguage(1, "go")
	m.SetWorkDisabled(1, true)
	result := m.Ensure(1, EnsureContext{Now: time.Now()})
	require.Equal(t, ResultDisabled, result)
}

func TestEnsureScheduledWhenNoTreeYet(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	m.SetLanguage(1, "go")
	result := m.Ensure(1, EnsureContext{DocVersion: 1, Now: time.Now()})
	require.Equal(t, ResultScheduled, result)
}

func TestEnsureReadyFastPathAfterTreeInstalled(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	m.SetLanguage(1, "go")
	m.InstallRestoredTree(1, &sentinelNonNilTree, 1)
	result := m.Ensure(1, EnsureContext{DocVersion: 1, Now: time.Now()})
	require.Equal(t, ResultReady, result, "a clean, non-dirty installed tree with no viewport pressure takes the ready fast path")
}

func TestEnsureDebouncesImmediatelyAfterEdit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debounce = time.Hour
	m := NewManager(cfg, nil)
	m.SetLanguage(1, "go")
	now := time.Now()

	e := m.entry(1)
	e.mu.Lock()
	e.fullTree = &sentinelNonNilTree
	e.mu.Unlock()

	m.NoteEdit(1, now)
	result := m.Ensure(1, EnsureContext{DocVersion: 2, Now: now.Add(time.Millisecond)})
	require.Equal(t, ResultPending, result)
}

func TestPlanWorkSchedulesBackgroundWhenNoFullTree(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	m.SetLanguage(1, "go")
	lane, ok := m.PlanWork(1, EnsureContext{Now: time.Now()})
	require.True(t, ok)
	require.Equal(t, LaneBackground, lane)
}

func TestPlanWorkOnlyOneLaneInFlightAtATime(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)
	m.SetLanguage(1, "go")
	_, ok := m.PlanWork(1, EnsureContext{Now: time.Now()})
	require.True(t, ok)
	_, ok = m.PlanWork(1, EnsureContext{Now: time.Now()})
	require.False(t, ok, "background lane already active; a second plan in the same cycle must not double-submit")
}

func TestViewportCacheMRUEviction(t *testing.T) {
	c := NewViewportCache(2)
	c.Put(ViewportKey{AlignedStart: 0}, 0, 100, 1)
	c.Put(ViewportKey{AlignedStart: 100}, 100, 200, 1)
	c.Put(ViewportKey{AlignedStart: 200}, 200, 300, 1)
	require.Equal(t, 2, c.Len())
	require.False(t, c.Contains(ViewportKey{AlignedStart: 0}), "oldest window should have been evicted")
}

func TestViewportCacheCoveringKey(t *testing.T) {
	c := NewViewportCache(4)
	c.Put(ViewportKey{AlignedStart: 0}, 0, 500, 1)
	key, ok := c.CoveringKey(Viewport{Start: 100, End: 200})
	require.True(t, ok)
	require.Equal(t, ViewportKey{AlignedStart: 0}, key)
}
