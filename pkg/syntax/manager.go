package syntax

import (
	"context"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/semaphore"

	"gitlab.com/tinyland/lab/xeno/pkg/document"
)

// PollResult is the outcome of one ensure_syntax call.
type PollResult int

const (
	ResultReady PollResult = iota
	ResultPending
	ResultDisabled
	ResultNoLanguage
	ResultScheduled
)

// Config bounds the manager's scheduling behavior.
type Config struct {
	Debounce time.Duration
	ViewportWindow int
	ViewportStageBMinPolls int
	StageBBudgetMs float64 // 0 disables Stage B entirely
	TimeoutMinMs float64
	TimeoutMaxMs float64
	MaxInFlightPerDoc int64
}

// DefaultConfig returns sane defaults grounded on the original's
// syntax_manager config constants.
func DefaultConfig() Config {
	return Config{
		Debounce: 80 * time.Millisecond,
		ViewportWindow: 4096,
		ViewportStageBMinPolls: 3,
		StageBBudgetMs: 40,
		TimeoutMinMs: 10,
		TimeoutMaxMs: 2000,
		MaxInFlightPerDoc: 2,
	}
}

// docEntry is the per-document scheduling + tree state.
type docEntry struct {
	mu sync.Mutex

	languageID document.FileType
	tier Tier
	hasLanguage bool

	fullTree *sitter.Tree
	fullVersion uint64
	dirty bool

	viewportCache *ViewportCache

	lastEditAt time.Time
	forceNoDebounce bool

	laneCooldownUntil [3]time.Time
	laneActive [3]bool

	lastFocusKey ViewportKey
	stablePolls int
	workDisabled bool

	sem *semaphore.Weighted
}

func newDocEntry(cfg Config) *docEntry {
	return &docEntry{
		viewportCache: NewViewportCache(16),
		sem: semaphore.NewWeighted(cfg.MaxInFlightPerDoc),
	}
}

// Manager implements the tiered, lane-scheduled incremental syntax
// pipeline.
type Manager struct {
	cfg Config
	parsers *ParserPool
	metrics *Metrics

	mu sync.Mutex
	docs map[document.Id]*docEntry
}

// NewManager creates a syntax manager. metrics may be nil to disable
// EMA tracking (e.g. in unit tests that don't care about adaptive
// timeouts).
func NewManager(cfg Config, metrics *Metrics) *Manager {
	return &Manager{cfg: cfg, parsers: &ParserPool{}, metrics: metrics, docs: make(map[document.Id]*docEntry)}
}

func (m *Manager) entry(id document.Id) *docEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.docs[id]
	if !ok {
		e = newDocEntry(m.cfg)
		m.docs[id] = e
	}
	return e
}

// NoteEdit records that an edit just landed on id, marking its tree
// dirty and resetting the debounce clock.
func (m *Manager) NoteEdit(id document.Id, now time.Time) {
	e := m.entry(id)
	e.mu.Lock()
	e.dirty = true
	e.lastEditAt = now
	e.mu.Unlock()
}

// InstallRestoredTree installs a tree known to be valid at docVersion
// immediately (no scheduling round-trip): after an undo that restores a
// document to a version with a cached tree, the next render's highlight
// spans must be non-empty on the first frame rather than waiting for a
// background parse to catch up. Callers look the tree up from whatever
// cache keyed trees by version (a thin wrapper the render layer
// maintains) and hand it here.
func (m *Manager) InstallRestoredTree(id document.Id, tree *sitter.Tree, docVersion uint64) {
	e := m.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fullTree = tree
	e.fullVersion = docVersion
	e.dirty = false
	e.forceNoDebounce = true
}

// SetLanguage sets or clears (empty ft) the document's language.
func (m *Manager) SetLanguage(id document.Id, ft document.FileType) {
	e := m.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.languageID = ft
	e.hasLanguage = ft != "" && m.parsers.Supported(ft)
}

// SetWorkDisabled toggles the per-document disable gate (e.g. huge
// binary-looking file, or a user setting).
func (m *Manager) SetWorkDisabled(id document.Id, disabled bool) {
	e := m.entry(id)
	e.mu.Lock()
	e.workDisabled = disabled
	e.mu.Unlock()
}

// EnsureContext carries the per-call inputs to Ensure.
type EnsureContext struct {
	DocVersion uint64
	ByteLen int
	Viewport *Viewport
	Hotness Hotness
	Now time.Time
}

// Ensure runs the gate pipeline for one redraw cycle, in the exact
// order from original_source/.../ensure/gate.rs: language check → work
// disabled → viewport stability/MRU touch → ready fast-path → debounce
// → (stage planning happens in PlanWork, called by the caller after a
// non-terminal PollResult, to keep parse submission async).
func (m *Manager) Ensure(id document.Id, ctx EnsureContext) PollResult {
	e := m.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tier = ClassifyTier(ctx.ByteLen)

	// 1. Language check.
	if !e.hasLanguage {
		e.fullTree = nil
		e.dirty = false
		for i := range e.laneCooldownUntil {
			e.laneCooldownUntil[i] = time.Time{}
		}
		return ResultNoLanguage
	}

	// Work-disabled gate.
	if e.workDisabled {
		for i := range e.laneActive {
			e.laneActive[i] = false
		}
		return ResultDisabled
	}

	// Viewport stability tracking + MRU touch.
	var viewportUncovered bool
	var wantEnrich bool
	if ctx.Viewport != nil {
		focusKey, covered := e.viewportCache.CoveringKey(*ctx.Viewport)
		if !covered {
			focusKey = ComputeViewportKey(ctx.Viewport.Start, m.cfg.ViewportWindow)
		}
		if focusKey == e.lastFocusKey {
			e.stablePolls++
		} else {
			e.stablePolls = 1
			e.lastFocusKey = focusKey
		}
		if covered {
			e.viewportCache.Touch(focusKey)
		}

		wantEnrich = e.tier == TierL && ctx.Hotness == HotnessVisible && m.cfg.StageBBudgetMs > 0 &&
			!e.viewportCache.HasStageBCoverage(focusKey, ctx.DocVersion)
		viewportUncovered = e.tier == TierL && e.fullTree == nil && !covered
	}

	// Ready fast path.
	if e.fullTree != nil && !e.dirty && !wantEnrich && !viewportUncovered {
		e.forceNoDebounce = false
		return ResultReady
	}

	// Debounce gate.
	if e.fullTree != nil && !e.forceNoDebounce && ctx.Now.Sub(e.lastEditAt) < m.cfg.Debounce {
		return ResultPending
	}

	return ResultScheduled
}

// PlanWork decides which lane (if any) to submit for this cycle:
// Stage B only for tier L + visible + stable + within budget; else
// viewport urgent if uncovered; else background
// full if the full tree is missing. Only one
// lane may be in flight per document at a time per lane (enforced via
// laneActive), and submission itself is capped by e.sem
// (MaxInFlightPerDoc) to bound total concurrent parse goroutines.
func (m *Manager) PlanWork(id document.Id, ctx EnsureContext) (Lane, bool) {
	e := m.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := ctx.Now
	key := metricsKey{Language: string(e.languageID), Tier: e.tier, InjectionPolicy: "none"}

	if e.tier == TierL && ctx.Hotness == HotnessVisible && ctx.Viewport != nil &&
		m.cfg.StageBBudgetMs > 0 && e.stablePolls >= m.cfg.ViewportStageBMinPolls &&
		!e.laneActive[LaneViewportEnrich] && now.After(e.laneCooldownUntil[LaneViewportEnrich]) {
		k2 := key
		k2.TaskClass = LaneViewportEnrich
		predicted := 0.0
		if m.metrics != nil {
			predicted = m.metrics.PredictedDuration(k2)
		}
		if predicted <= m.cfg.StageBBudgetMs {
			e.laneActive[LaneViewportEnrich] = true
			e.laneCooldownUntil[LaneViewportEnrich] = now.Add(m.cfg.Debounce)
			return LaneViewportEnrich, true
		}
	}

	if ctx.Viewport != nil && !e.viewportCache.Covers(*ctx.Viewport) &&
		!e.laneActive[LaneViewportUrgent] && now.After(e.laneCooldownUntil[LaneViewportUrgent]) {
		e.laneActive[LaneViewportUrgent] = true
		e.laneCooldownUntil[LaneViewportUrgent] = now.Add(m.cfg.Debounce)
		return LaneViewportUrgent, true
	}

	if e.fullTree == nil && !e.laneActive[LaneBackground] && now.After(e.laneCooldownUntil[LaneBackground]) {
		e.laneActive[LaneBackground] = true
		e.laneCooldownUntil[LaneBackground] = now.Add(m.cfg.Debounce)
		return LaneBackground, true
	}

	return 0, false
}

// RunTask executes a parse for the given lane under the adaptive
// timeout, using the document's e.sem to cap concurrent in-flight parses,
// records the outcome to Metrics, and clears the lane's active flag on
// completion (success or failure).
func (m *Manager) RunTask(ctx context.Context, id document.Id, lane Lane, ft document.FileType, src []byte, tier Tier) (*sitter.Tree, error) {
	e := m.entry(id)

	key := metricsKey{Language: string(ft), Tier: tier, TaskClass: lane, InjectionPolicy: "none"}
	timeoutMs := m.cfg.TimeoutMaxMs
	if m.metrics != nil {
		timeoutMs = m.metrics.Timeout(key, m.cfg.TimeoutMinMs, m.cfg.TimeoutMaxMs)
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)

	tctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	tree, err := m.parsers.Parse(tctx, ft, src, nil)
	elapsed := float64(time.Since(start).Milliseconds())

	timedOut := tctx.Err() == context.DeadlineExceeded
	errored := err != nil
	installed := err == nil && tree != nil

	if m.metrics != nil {
		m.metrics.Observe(key, elapsed, timedOut, errored, installed)
	}

	e.mu.Lock()
	e.laneActive[lane] = false
	if installed {
		if lane != LaneViewportUrgent {
			e.fullTree = tree
		}
		e.dirty = false
	}
	e.mu.Unlock()

	return tree, err
}
