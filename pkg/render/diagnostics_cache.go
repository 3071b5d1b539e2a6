package render

import "container/list"

// DocumentId identifies a document for cache keying (kept independent
// of pkg/document.Id to avoid this package importing buffer/document
// internals beyond what BuildDocumentViewPlans already needs).
type DocumentId uint64

// DiagEpoch bumps whenever a document's diagnostics set is replaced
// (e.g. a fresh textDocument/publishDiagnostics).
type DiagEpoch uint64

// LineMap maps a line number to the diagnostics severities present on
// it (frontend-facing summary, e.g. for gutter markers).
type LineMap map[int][]int

// RangeMap maps a byte range key to its full diagnostic detail index
// (kept opaque here — `any` so this package doesn't need to know the
// LSP diagnostic schema, only that it's cached per epoch).
type RangeMap map[string]any

type diagKey struct {
	doc DocumentId
	epoch DiagEpoch
}

type diagEntry struct {
	key diagKey
	lineMap LineMap
	rangeMap RangeMap
}

// DiagnosticsCache caches (LineMap, RangeMap) pairs keyed by
// (DocumentId, diag_epoch), rebuilt only on an epoch change.
type DiagnosticsCache struct {
	capacity int
	byKey map[diagKey]*list.Element
	order *list.List // most-recently-used at Front
}

// NewDiagnosticsCache creates a cache holding at most capacity entries.
func NewDiagnosticsCache(capacity int) *DiagnosticsCache {
	return &DiagnosticsCache{capacity: capacity, byKey: make(map[diagKey]*list.Element), order: list.New()}
}

// Get returns the cached pair for (doc, epoch), if present, marking it
// most-recently-used.
func (c *DiagnosticsCache) Get(doc DocumentId, epoch DiagEpoch) (LineMap, RangeMap, bool) {
	key := diagKey{doc: doc, epoch: epoch}
	el, ok := c.byKey[key]
	if !ok {
		return nil, nil, false
	}
	c.order.MoveToFront(el)
	e := el.Value.(*diagEntry)
	return e.lineMap, e.rangeMap, true
}

// Put stores (lineMap, rangeMap) for (doc, epoch), evicting the
// least-recently-used entry if over capacity.
func (c *DiagnosticsCache) Put(doc DocumentId, epoch DiagEpoch, lineMap LineMap, rangeMap RangeMap) {
	key := diagKey{doc: doc, epoch: epoch}
	if el, ok := c.byKey[key]; ok {
		el.Value.(*diagEntry).lineMap = lineMap
		el.Value.(*diagEntry).rangeMap = rangeMap
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&diagEntry{key: key, lineMap: lineMap, rangeMap: rangeMap})
	c.byKey[key] = el
	for c.capacity > 0 && c.order.Len() > c.capacity {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.order.Remove(back)
		delete(c.byKey, back.Value.(*diagEntry).key)
	}
}

// InvalidateDocument drops every cached epoch for doc.
func (c *DiagnosticsCache) InvalidateDocument(doc DocumentId) {
	for key, el := range c.byKey {
		if key.doc == doc {
			c.order.Remove(el)
			delete(c.byKey, key)
		}
	}
}

// Len reports the number of cached entries.
func (c *DiagnosticsCache) Len() int { return c.order.Len() }
