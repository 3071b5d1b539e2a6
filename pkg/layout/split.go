// Split-tree layout: binary tree of Horizontal/Vertical splits and view
// leaves, a monotonic revision counter, two-phase split operations, and
// the separator drag state machine. Built on the constraint-based
// Layout/Rect geometry engine in layout.go.
//
// Grounded on original_source/crates/editor/src/layout/{manager,drag}.rs
// and crates/editor/src/layout/split.rs for the tree shape, two-phase
// split preflight/apply, and the drag-staleness state machine exactly as
// described there (start_drag/is_drag_stale/cancel_if_stale/end_drag).
package layout

// ViewId identifies a leaf's editor window. It mirrors buffer.Id but is
// declared independently here to avoid a layout<->buffer import cycle
// (pkg/buffer never needs to know about layout).
type ViewId uint32

// nodeKind distinguishes a split node from a leaf.
type nodeKind int

const (
	nodeLeaf nodeKind = iota
	nodeSplit
)

// node is one binary-tree node: either a leaf wrapping a ViewId, or a
// split with a direction, a ratio (first child's share, 0..1), and two
// children.
type node struct {
	kind nodeKind
	view ViewId
	direction Direction
	ratio float64
	first *node
	second *node
}

// Path identifies a node by the sequence of child indices (0=first,
// 1=second) from the root. A Path is valid only against the revision it
// was recorded at.
type Path []int

// Tree is the split-tree layout for one window/tab: a binary tree of
// splits and view leaves, plus a monotonic revision bumped on every
// structural change.
type Tree struct {
	root *node
	revision uint64
	cache *LayoutCache

	// Drag state machine.
	dragging *dragState
	hovered *hoverState
}

type dragState struct {
	path Path
	revision uint64
}

type hoverState struct {
	path Path
	rect Rect
}

// NewTree creates a single-leaf tree over the given view.
func NewTree(root ViewId) *Tree {
	return &Tree{root: &node{kind: nodeLeaf, view: root}, cache: NewLayoutCache()}
}

// Revision returns the current structural revision.
func (t *Tree) Revision() uint64 { return t.revision }

// LeafCount returns the number of view leaves in the tree.
func (t *Tree) LeafCount() int {
	return countLeaves(t.root)
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.kind == nodeLeaf {
		return 1
	}
	return countLeaves(n.first) + countLeaves(n.second)
}

func findLeaf(n *node, path Path, target ViewId) (Path, *node) {
	if n == nil {
		return nil, nil
	}
	if n.kind == nodeLeaf {
		if n.view == target {
			return path, n
		}
		return nil, nil
	}
	if p, f := findLeaf(n.first, append(append(Path{}, path...), 0), target); f != nil {
		return p, f
	}
	return findLeaf(n.second, append(append(Path{}, path...), 1), target)
}

// PreflightSplit reports whether splitting a leaf in direction dir would
// leave both halves at or above minWidth x minHeight, without mutating
// the tree. area is the leaf's current on-screen rect; no view is
// looked up.
func (t *Tree) PreflightSplit(dir Direction, area Rect, minWidth, minHeight int) bool {
	half := NewLayout(dir, Fill{Weight: 1}, Fill{Weight: 1}).Split(area)
	if len(half) != 2 {
		return false
	}
	for _, r := range half {
		if r.Width < minWidth || r.Height < minHeight {
			return false
		}
	}
	return true
}

// SplitHorizontal splits the leaf holding `view` into two side-by-side
// leaves, the new one holding newView. Returns false (no mutation) if
// PreflightSplit would fail for the given area — orphan views are
// impossible because newView is only inserted into the tree after this
// check passes.
func (t *Tree) SplitHorizontal(target ViewId, newView ViewId, area Rect, minW, minH int) bool {
	return t.split(Horizontal, target, newView, area, minW, minH)
}

// SplitVertical is SplitHorizontal's vertical counterpart.
func (t *Tree) SplitVertical(target ViewId, newView ViewId, area Rect, minW, minH int) bool {
	return t.split(Vertical, target, newView, area, minW, minH)
}

func (t *Tree) split(dir Direction, target, newView ViewId, area Rect, minW, minH int) bool {
	if !t.PreflightSplit(dir, area, minW, minH) {
		return false
	}
	_, leaf := findLeaf(t.root, nil, target)
	if leaf == nil {
		return false
	}
	leaf.kind = nodeSplit
	leaf.direction = dir
	leaf.ratio = 0.5
	leaf.first = &node{kind: nodeLeaf, view: target}
	leaf.second = &node{kind: nodeLeaf, view: newView}
	t.revision++
	t.cache.Invalidate()
	return true
}

// RemoveView removes the leaf holding `view`, collapsing its parent
// split into the surviving sibling, and returns a deterministic focus
// suggestion: the first remaining leaf in tree order. The position or
// area of the removed leaf is not taken into account.
func (t *Tree) RemoveView(target ViewId) (ViewId, bool) {
	if t.root.kind == nodeLeaf {
		if t.root.view == target {
			return 0, false // removing the last view: caller handles tree teardown
		}
		return 0, false
	}
	removed, newRoot := removeFrom(t.root, target)
	if !removed {
		return 0, false
	}
	t.root = newRoot
	t.revision++
	t.cache.Invalidate()
	leaves := leavesOf(t.root)
	if len(leaves) == 0 {
		return 0, false
	}
	return leaves[0], true
}

func removeFrom(n *node, target ViewId) (bool, *node) {
	if n.kind == nodeLeaf {
		return false, n
	}
	if n.first.kind == nodeLeaf && n.first.view == target {
		return true, n.second
	}
	if n.second.kind == nodeLeaf && n.second.view == target {
		return true, n.first
	}
	if ok, replaced := removeFrom(n.first, target); ok {
		n.first = replaced
		return true, n
	}
	if ok, replaced := removeFrom(n.second, target); ok {
		n.second = replaced
		return true, n
	}
	return false, n
}

func leavesOf(n *node) []ViewId {
	if n == nil {
		return nil
	}
	if n.kind == nodeLeaf {
		return []ViewId{n.view}
	}
	return append(leavesOf(n.first), leavesOf(n.second)...)
}

// SplitArea is one leaf's resolved on-screen rect.
type SplitArea struct {
	View ViewId
	Rect Rect
}

// ComputeSplitAreas resolves the full tree's geometry against area,
// applying each split's stored ratio, truncated to a whole percentage.
// minW and minH are not applied: each split divides its area by the
// ratio alone, so a pane can resolve to zero cells in a small area.
func (t *Tree) ComputeSplitAreas(area Rect, minW, minH int) []SplitArea {
	var out []SplitArea
	t.walk(t.root, area, minW, minH, &out)
	return out
}

// walk recurses the tree, resolving each split node's geometry through
// t.cache (SplitCached) so repeated frames with an unchanged tree and
// area skip the constraint solver entirely — cleared whenever a
// structural change bumps the revision.
func (t *Tree) walk(n *node, area Rect, minW, minH int, out *[]SplitArea) {
	if n == nil {
		return
	}
	if n.kind == nodeLeaf {
		*out = append(*out, SplitArea{View: n.view, Rect: area})
		return
	}
	// Percentage-ratio split: the first child gets the stored ratio as a
	// whole percentage and the second fills the rest; minW/minH are
	// passed down unchanged and do not affect the split.
	firstPct := int(n.ratio * 100)
	l := NewLayout(n.direction, Percentage{Value: firstPct}, Fill{Weight: 1})
	rects := t.cache.SplitCached(l, area)
	if len(rects) == 2 {
		t.walk(n.first, rects[0], minW, minH, out)
		t.walk(n.second, rects[1], minW, minH, out)
	}
}

// SeparatorRect returns the on-screen rect of the separator at path, or
// false if the path no longer resolves to a split node (the tree
// structure changed since the path was recorded).
func (t *Tree) SeparatorRect(area Rect, path Path, minW, minH int) (Rect, bool) {
	n := t.root
	cur := area
	for _, step := range path {
		if n.kind != nodeSplit {
			return Rect{}, false
		}
		firstPct := int(n.ratio * 100)
		rects := NewLayout(n.direction, Percentage{Value: firstPct}, Fill{Weight: 1}).Split(cur)
		if len(rects) != 2 {
			return Rect{}, false
		}
		if step == 0 {
			n, cur = n.first, rects[0]
		} else {
			n, cur = n.second, rects[1]
		}
	}
	if n.kind != nodeSplit {
		return Rect{}, false
	}
	if n.direction == Horizontal {
		return Rect{X: cur.X + cur.Width/2, Y: cur.Y, Width: 1, Height: cur.Height}, true
	}
	return Rect{X: cur.X, Y: cur.Y + cur.Height/2, Width: cur.Width, Height: 1}, true
}

// --- Drag state machine ---

// StartDrag begins dragging the separator at path, capturing the
// current revision for later staleness checks, and updates hover state.
func (t *Tree) StartDrag(path Path, rect Rect) {
	t.dragging = &dragState{path: append(Path(nil), path...), revision: t.revision}
	t.hovered = &hoverState{path: append(Path(nil), path...), rect: rect}
}

// Hover records a new hovered separator without starting a drag. A
// different separator than the currently-hovered one creates a fresh
// hover.
func (t *Tree) Hover(path Path, rect Rect) {
	t.hovered = &hoverState{path: append(Path(nil), path...), rect: rect}
}

// ClearHover ends hover tracking (mouse left all separators).
func (t *Tree) ClearHover() { t.hovered = nil }

// IsDragging reports whether a drag is in progress.
func (t *Tree) IsDragging() bool { return t.dragging != nil }

// IsDragStale reports whether the active drag's captured revision no
// longer matches the tree's current revision.
func (t *Tree) IsDragStale() bool {
	return t.dragging != nil && t.dragging.revision != t.revision
}

// CancelIfStale ends the drag if it is stale, returning true if it did.
func (t *Tree) CancelIfStale() bool {
	if t.IsDragStale() {
		t.EndDrag()
		return true
	}
	return false
}

// EndDrag clears drag and hover state (Dragging -> Idle transition).
func (t *Tree) EndDrag() {
	t.dragging = nil
	t.hovered = nil
}

// ApplyDrag adjusts the ratio of the split at the drag's recorded path
// by delta (in -1..1 units of the split's axis), a no-op if the drag is
// stale or inactive.
func (t *Tree) ApplyDrag(delta float64) bool {
	if t.dragging == nil || t.IsDragStale() {
		return false
	}
	n := t.root
	for _, step := range t.dragging.path {
		if n.kind != nodeSplit {
			return false
		}
		if step == 0 {
			n = n.first
		} else {
			n = n.second
		}
	}
	if n.kind != nodeSplit {
		return false
	}
	n.ratio = clampRatio(n.ratio + delta)
	return true
}

func clampRatio(r float64) float64 {
	if r < 0.05 {
		return 0.05
	}
	if r > 0.95 {
		return 0.95
	}
	return r
}
