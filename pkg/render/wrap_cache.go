package render

import "container/list"

// WrapKey identifies one wrap bucket: a document's line-wrap layout is
// only valid for a specific (viewport width, tab width) pair, so
// buckets are keyed per-document by that pair.
type WrapKey struct {
	Doc DocumentId
	ViewportWidth int
	TabWidth int
}

// WrapSegment is one visual row produced by wrapping a logical line:
// [StartCol, EndCol) in the source line.
type WrapSegment struct {
	StartCol, EndCol int
}

type wrapEntry struct {
	key WrapKey
	version uint64
	perLine map[int][]WrapSegment
	indexAlive bool // false once InvalidateDocument has dropped this entry's index slot
}

// WrapCache holds per-document wrap buckets under one global
// LRU, each bucket valid only at the doc version recorded when it was
// built. Invalidation (InvalidateDocument) removes a bucket from the
// index immediately but leaves its *list.Element in the LRU order
// list until eviction reaches it naturally — the order list and the
// index map are deliberately allowed to disagree for a dead entry
// in between, so eviction must check indexAlive before touching the
// index again rather than assuming the element it just popped is
// still present there (an unconditional delete would also drop a live
// bucket that a later Put installed under the same key).
type WrapCache struct {
	capacity int
	index map[WrapKey]*list.Element
	order *list.List
}

// NewWrapCache creates a wrap cache holding at most capacity buckets
// across all documents.
func NewWrapCache(capacity int) *WrapCache {
	return &WrapCache{capacity: capacity, index: make(map[WrapKey]*list.Element), order: list.New()}
}

// Get returns the bucket for key if present and valid at docVersion;
// a version mismatch is treated as a miss (the bucket is stale, not
// evicted — the caller is expected to Put a fresh one).
func (c *WrapCache) Get(key WrapKey, docVersion uint64) (map[int][]WrapSegment, bool) {
	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*wrapEntry)
	if !e.indexAlive || e.version != docVersion {
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.perLine, true
}

// Put installs or refreshes key's bucket at docVersion.
func (c *WrapCache) Put(key WrapKey, docVersion uint64, perLine map[int][]WrapSegment) {
	if el, ok := c.index[key]; ok {
		e := el.Value.(*wrapEntry)
		e.version = docVersion
		e.perLine = perLine
		e.indexAlive = true
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&wrapEntry{key: key, version: docVersion, perLine: perLine, indexAlive: true})
	c.index[key] = el
	c.evictOverflow()
}

func (c *WrapCache) evictOverflow() {
	for c.capacity > 0 && c.order.Len() > c.capacity {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.order.Remove(back)
		e := back.Value.(*wrapEntry)
		if e.indexAlive {
			delete(c.index, e.key)
		}
	}
}

// InvalidateDocument drops every bucket belonging to doc from the
// index immediately (buckets become misses right away); the
// now-orphaned list elements are reclaimed the next time eviction
// walks past them, at which point indexAlive is already false and no
// second index delete is attempted.
func (c *WrapCache) InvalidateDocument(doc DocumentId) {
	for key, el := range c.index {
		if key.Doc == doc {
			el.Value.(*wrapEntry).indexAlive = false
			delete(c.index, key)
		}
	}
}

// Len reports how many buckets are currently tracked in the LRU order
// (including any not-yet-evicted dead entries).
func (c *WrapCache) Len() int { return c.order.Len() }

// LiveLen reports how many buckets are both in the order list and
// still indexed.
func (c *WrapCache) LiveLen() int {
	n := 0
	for e := c.order.Front(); e != nil; e = e.Next() {
		if e.Value.(*wrapEntry).indexAlive {
			n++
		}
	}
	return n
}
