// Package overlay implements the fixed stacked layer system above the
// base split layout: dockable sub-layouts, floating windows, and the
// single-modal-interaction-overlay rule.
//
// Grounded on original_source/crates/editor/src/overlay's layer-stack
// shape and other_examples/keystorm's generation-gated handle pattern
// (engine buffer ids carry a generation to detect stale references —
// applied here to LayerId).
package overlay

import "gitlab.com/tinyland/lab/xeno/pkg/layout"

// Kind names the overlay controller occupying a layer.
type Kind string

const (
	KindCommandPalette Kind = "command_palette"
	KindSearchPrompt Kind = "search_prompt"
	KindRenamePrompt Kind = "rename_prompt"
	KindInfoPopup Kind = "info_popup"
	KindSnippetChoice Kind = "snippet_choice"
	KindCompletionMenu Kind = "completion_menu"
)

// interactionKinds are modal: only one may be open at a time.
var interactionKinds = map[Kind]bool{
	KindCommandPalette: true,
	KindSearchPrompt: true,
	KindRenamePrompt: true,
}

// CloseReason tags why an overlay was closed.
type CloseReason string

const (
	ReasonCancel CloseReason = "cancel"
	ReasonCommit CloseReason = "commit"
	ReasonBlur CloseReason = "blur"
	ReasonForced CloseReason = "forced"
)

// LayerId pairs a stack index with a generation; any reference holding a
// stale generation resolves to nothing after the layer is cleared.
type LayerId struct {
	Index int
	Generation uint64
}

// RectPolicy describes how a floating window's screen rect is derived.
type RectPolicy struct {
	Kind string // "top_center_pct" | "below_role" | "cursor_relative"
	Pct int // for top_center_pct: width percentage of the anchor area
	MinWidth int
	MaxWidth int
	Role string // for below_role: the anchor role name
}

// Resolve computes a floating window's Rect within anchor, clamping to
// bounds and handling zero-division/inverted-bounds safely : zero-width anchors produce a zero Rect rather than
// dividing by zero, and a MaxWidth < MinWidth is treated as MinWidth by
// swapping them.
func (p RectPolicy) Resolve(anchor layout.Rect, cursorX, cursorY int) layout.Rect {
	minW, maxW := p.MinWidth, p.MaxWidth
	if maxW > 0 && maxW < minW {
		minW, maxW = maxW, minW
	}

	switch p.Kind {
	case "cursor_relative":
		w := clampWidth(minW, maxW, anchor.Width/3)
		return clampRect(layout.Rect{X: cursorX, Y: cursorY + 1, Width: w, Height: 1}, anchor)
	case "below_role":
		w := clampWidth(minW, maxW, anchor.Width)
		return clampRect(layout.Rect{X: anchor.X, Y: anchor.Bottom(), Width: w, Height: 1}, anchor)
	default: // top_center_pct
		if anchor.Width <= 0 {
			return layout.Rect{}
		}
		pct := p.Pct
		if pct <= 0 {
			pct = 50
		}
		w := clampWidth(minW, maxW, anchor.Width*pct/100)
		x := anchor.X + (anchor.Width-w)/2
		return clampRect(layout.Rect{X: x, Y: anchor.Y, Width: w, Height: 1}, anchor)
	}
}

func clampWidth(minW, maxW, w int) int {
	if w < minW {
		w = minW
	}
	if maxW > 0 && w > maxW {
		w = maxW
	}
	if w < 0 {
		w = 0
	}
	return w
}

func clampRect(r, bounds layout.Rect) layout.Rect {
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.X+r.Width > bounds.Right() {
		r.Width = bounds.Right() - r.X
	}
	if r.Width < 0 {
		r.Width = 0
	}
	return r
}

// Float is a floating-window overlay record.
type Float struct {
	Kind Kind
	Rect layout.Rect
	Sticky bool
	DismissOnBlur bool
	GutterDisabled bool
}

// Dock is a dockable overlay with its own sub-layout tree (e.g. a file
// tree or terminal panel).
type Dock struct {
	Kind Kind
	Tree *layout.Tree
}

// layerSlot is one stacked layer: at most one of float/dock is set.
type layerSlot struct {
	generation uint64
	float *Float
	dock *Dock
}

// Manager owns the fixed stack of overlay layers.
type Manager struct {
	layers []layerSlot
	modalLayer int // index of the current modal interaction overlay, -1 if none
}

// NumLayers is the fixed number of stacked layers.
const NumLayers = 8

// NewManager creates a manager with NumLayers empty layers.
func NewManager() *Manager {
	return &Manager{layers: make([]layerSlot, NumLayers), modalLayer: -1}
}

// OpenFloat opens a floating overlay at the first empty layer (or fails
// if all layers are occupied), enforcing the single-modal-interaction
// rule for interaction kinds.
func (m *Manager) OpenFloat(f Float) (LayerId, bool) {
	if interactionKinds[f.Kind] && m.modalLayer != -1 {
		m.CloseByIndex(m.modalLayer, ReasonForced)
	}
	for i := range m.layers {
		if m.layers[i].float == nil && m.layers[i].dock == nil {
			m.layers[i].float = &f
			m.layers[i].generation++
			if interactionKinds[f.Kind] {
				m.modalLayer = i
			}
			return LayerId{Index: i, Generation: m.layers[i].generation}, true
		}
	}
	return LayerId{}, false
}

// OpenDock opens a dockable overlay the same way OpenFloat does.
func (m *Manager) OpenDock(d Dock) (LayerId, bool) {
	for i := range m.layers {
		if m.layers[i].float == nil && m.layers[i].dock == nil {
			m.layers[i].dock = &d
			m.layers[i].generation++
			return LayerId{Index: i, Generation: m.layers[i].generation}, true
		}
	}
	return LayerId{}, false
}

// Get resolves a LayerId, returning (nil, nil, false) if the generation
// no longer matches.
func (m *Manager) Get(id LayerId) (*Float, *Dock, bool) {
	if id.Index < 0 || id.Index >= len(m.layers) {
		return nil, nil, false
	}
	slot := m.layers[id.Index]
	if slot.generation != id.Generation {
		return nil, nil, false
	}
	return slot.float, slot.dock, true
}

// Close clears the layer referenced by id, bumping its generation so any
// stale LayerId held elsewhere stops resolving. No-op if the generation
// doesn't match (already closed/replaced).
func (m *Manager) Close(id LayerId, reason CloseReason) bool {
	if id.Index < 0 || id.Index >= len(m.layers) || m.layers[id.Index].generation != id.Generation {
		return false
	}
	m.CloseByIndex(id.Index, reason)
	return true
}

// CloseByIndex clears a layer unconditionally.
func (m *Manager) CloseByIndex(index int, reason CloseReason) {
	_ = reason // reason is surfaced to the closed controller via pkg/effects by the caller
	m.layers[index] = layerSlot{generation: m.layers[index].generation + 1}
	if m.modalLayer == index {
		m.modalLayer = -1
	}
}

// ModalOpen reports whether a modal interaction overlay currently
// occupies a layer.
func (m *Manager) ModalOpen() bool { return m.modalLayer != -1 }
