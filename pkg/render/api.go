package render

// This file is the seam: pkg/tui (the frontend) may reference these
// names, plus the cascade names from style.go listed in seam_test.go,
// and nothing else from this package. seam_test.go enforces that by
// scanning pkg/tui's source for forbidden imports and substrings and
// for render.* selectors outside that list; a violation fails the test.
//
// Everything below is a type alias or a thin re-export; there is no
// behavior in this file, only the whitelist.

type (
	Style                = CellStyle
	DocPlan              = DocumentViewPlan
	OverlayPlan          = OverlayPaneViewPlan
	PopupPlan            = InfoPopupViewPlan
	CompletionTarget     = CompletionMenuTarget
	StatuslinePlan       = StatuslineRenderPlan
	StatuslineSeg        = StatuslineSegment
	Separator            = SeparatorTarget
	Line                 = StyledLine
	Align                = SegmentAlign
)

const (
	SegAlignLeft   = AlignLeft
	SegAlignCenter = AlignCenter
	SegAlignRight  = AlignRight
)
