package render

import (
	"gitlab.com/tinyland/lab/xeno/pkg/buffer"
	"gitlab.com/tinyland/lab/xeno/pkg/layout"
	"gitlab.com/tinyland/lab/xeno/pkg/overlay"
)

// StyledLine is one line of text with a parallel per-column style
// slice (one CellStyle per rune column); Styles may be shorter than
// Text's column count, in which case the last entry repeats.
type StyledLine struct {
	Text string
	Styles []CellStyle
}

// DocumentViewPlan is one visible leaf's complete render data.
type DocumentViewPlan struct {
	ViewID layout.ViewId
	Role string
	OuterRect layout.Rect
	ContentRect layout.Rect
	GutterRect layout.Rect
	GutterWidth int
	Lines []StyledLine
	GutterLines []StyledLine
}

// OverlayPaneViewPlan renders one passive-layer overlay.
type OverlayPaneViewPlan struct {
	LayerID layout.Path
	Kind overlay.Kind
	Rect layout.Rect
	Lines []StyledLine
}

// InfoPopupViewPlan renders one info popup.
type InfoPopupViewPlan struct {
	Rect layout.Rect
	InnerRect layout.Rect
	Lines []StyledLine
}

// CompletionMenuTarget is the completion menu's render geometry plus
// selection/visibility state.
type CompletionMenuTarget struct {
	Rect layout.Rect
	Rows []string
	Selected int
	DetailColumnHidden bool
	KindColumnHidden bool
}

// SegmentAlign is a statusline segment's horizontal group.
type SegmentAlign int

const (
	AlignLeft SegmentAlign = iota
	AlignCenter
	AlignRight
)

// StatuslineSegment is one styled piece of the statusline.
type StatuslineSegment struct {
	Text string
	Style CellStyle
	Align SegmentAlign
}

// StatuslineRenderPlan is the full ordered segment list for one frame.
type StatuslineRenderPlan struct {
	Segments []StatuslineSegment
}

// SeparatorTarget is one drag-handle-bearing separator's render rect.
type SeparatorTarget struct {
	Path layout.Path
	Rect layout.Rect
}

// BuildDocumentViewPlans produces one DocumentViewPlan per visible
// leaf in tree, given a lookup from ViewId to its Buffer and a style
// resolver for gutter width/line numbering. styleLine is injected
// rather than hardcoded so callers can thread syntax highlight spans
// and selection/cursor state through Cascade without this function
// needing to know about syntax.Manager or action.Context.
func BuildDocumentViewPlans(
	area layout.Rect,
	tree *layout.Tree,
	bufferFor func(layout.ViewId) (*buffer.Buffer, bool),
	gutterWidth func(*buffer.Buffer) int,
	styleLine func(b *buffer.Buffer, lineIdx int, width int) StyledLine,
	gutterLine func(b *buffer.Buffer, lineIdx int, width int) StyledLine,
) []DocumentViewPlan {
	areas := tree.ComputeSplitAreas(area, 1, 1)
	plans := make([]DocumentViewPlan, 0, len(areas))

	for _, sa := range areas {
		buf, ok := bufferFor(sa.View)
		if !ok {
			continue
		}
		gw := gutterWidth(buf)
		gutterRect := layout.Rect{X: sa.Rect.X, Y: sa.Rect.Y, Width: gw, Height: sa.Rect.Height}
		contentRect := layout.Rect{X: sa.Rect.X + gw, Y: sa.Rect.Y, Width: sa.Rect.Width - gw, Height: sa.Rect.Height}
		if contentRect.Width < 0 {
			contentRect.Width = 0
		}

		first := buf.Scroll()
		lines := make([]StyledLine, 0, contentRect.Height)
		gutterLines := make([]StyledLine, 0, contentRect.Height)
		for row := 0; row < contentRect.Height; row++ {
			lineIdx := first + row
			lines = append(lines, styleLine(buf, lineIdx, contentRect.Width))
			gutterLines = append(gutterLines, gutterLine(buf, lineIdx, gw))
		}

		plans = append(plans, DocumentViewPlan{
			ViewID: sa.View,
			OuterRect: sa.Rect,
			ContentRect: contentRect,
			GutterRect: gutterRect,
			GutterWidth: gw,
			Lines: lines,
			GutterLines: gutterLines,
		})
	}
	return plans
}

// BuildSeparatorRenderTargets walks tree's internal split boundaries
// and returns one SeparatorTarget per draggable separator.
func BuildSeparatorRenderTargets(area layout.Rect, tree *layout.Tree, minW, minH int) []SeparatorTarget {
	var targets []SeparatorTarget
	var walk func(path layout.Path)
	walk = func(path layout.Path) {
		rect, ok := tree.SeparatorRect(area, path, minW, minH)
		if !ok {
			return
		}
		targets = append(targets, SeparatorTarget{Path: append(layout.Path{}, path...), Rect: rect})
		walk(append(append(layout.Path{}, path...), 0))
		walk(append(append(layout.Path{}, path...), 1))
	}
	walk(nil)
	return targets
}

// BuildStatuslineRenderPlan assembles left/center/right segment groups
// into one ordered plan, left-to-right, center, then right — the
// frontend lays these out across the statusline width; this package
// only orders and styles them.
func BuildStatuslineRenderPlan(left, center, right []StatuslineSegment) StatuslineRenderPlan {
	segs := make([]StatuslineSegment, 0, len(left)+len(center)+len(right))
	segs = append(segs, left...)
	segs = append(segs, center...)
	segs = append(segs, right...)
	return StatuslineRenderPlan{Segments: segs}
}
