// Package render builds the data-only "view plans" the frontend
// draws from — document/overlay/popup/completion/statusline/separator
// geometry plus per-cell styling — and owns the caches (diagnostics,
// wrap) and the cell style cascade that produce them. Nothing in this
// package or its callers may reach into xeno_editor-internal state
// directly; pkg/tui (the frontend) may only consume the re-exports in
// api.go (enforced by seam_test.go).
package render

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// CellStyle is the fully-resolved style for one terminal cell: a
// plain data struct (hex colors + attribute flags), not a lipgloss.Style,
// so it can cross the render/frontend seam as data.
type CellStyle struct {
	FG string // hex, e.g. "#c0caf5"; empty means "inherit terminal default"
	BG string
	Bold bool
	Italic bool
	Underline bool
}

// Lipgloss converts s to a renderable lipgloss.Style — a frontend-side
// convenience, grounded on pkg/app.PlaceholderWidget's
// lipgloss.NewStyle().Foreground(...) usage.
func (s CellStyle) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.FG != "" {
		st = st.Foreground(lipgloss.Color(s.FG))
	}
	if s.BG != "" {
		st = st.Background(lipgloss.Color(s.BG))
	}
	return st.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
}

// CursorKind distinguishes how a cursor overlay should render.
type CursorKind int

const (
	CursorNone CursorKind = iota
	CursorPrimary
	CursorSecondary
	CursorUnfocused
)

// MinContrastRatio is the minimum WCAG-style contrast ratio enforced
// between a selection's blended foreground and background.
const MinContrastRatio = 2.5

// CascadeInput carries every layer the cell style cascade composes,
// in application order : base →
// syntax highlight → cursorline bg → selection (blend with mode tint,
// enforce contrast) → cursor → style overlays.
type CascadeInput struct {
	Base CellStyle
	Syntax *CellStyle
	CursorlineBG string // "" if this cell's line isn't the cursor line
	Selected bool
	ModeTint string // bg tint color associated with the active mode
	Cursor CursorKind
	CursorFG string
	CursorBG string
	StyleOverlays []CellStyle // extension-contributed, applied last, in order
}

// Cascade resolves CascadeInput into one final CellStyle, applying
// each layer in a fixed order: base, syntax, cursorline background,
// selection (blended with the mode tint, contrast enforced), cursor,
// then extension overlays.
func Cascade(in CascadeInput) CellStyle {
	out := in.Base

	if in.Syntax != nil {
		if in.Syntax.FG != "" {
			out.FG = in.Syntax.FG
		}
		if in.Syntax.BG != "" {
			out.BG = in.Syntax.BG
		}
		out.Bold = out.Bold || in.Syntax.Bold
		out.Italic = out.Italic || in.Syntax.Italic
		out.Underline = out.Underline || in.Syntax.Underline
	}

	if in.CursorlineBG != "" {
		out.BG = in.CursorlineBG
	}

	if in.Selected {
		blended := blendHex(out.BG, in.ModeTint, 0.5)
		out.BG = blended
		out.FG = ensureContrast(out.FG, blended)
	}

	switch in.Cursor {
	case CursorPrimary:
		out.FG, out.BG = in.CursorFG, in.CursorBG
	case CursorSecondary:
		out.BG = blendHex(out.BG, in.CursorBG, 0.6)
	case CursorUnfocused:
		out.BG = blendHex(out.BG, in.CursorBG, 0.25)
	}

	for _, ov := range in.StyleOverlays {
		if ov.FG != "" {
			out.FG = ov.FG
		}
		if ov.BG != "" {
			out.BG = ov.BG
		}
		out.Bold = out.Bold || ov.Bold
		out.Italic = out.Italic || ov.Italic
		out.Underline = out.Underline || ov.Underline
	}

	return out
}

func parseHex(hex string) (r, g, b int, ok bool) {
	hex = trimHash(hex)
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseInt(hex[0:2], 16, 32)
	gv, err2 := strconv.ParseInt(hex[2:4], 16, 32)
	bv, err3 := strconv.ParseInt(hex[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}

func toHex(r, g, b int) string {
	return "#" + hex2(r) + hex2(g) + hex2(b)
}

func hex2(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	s := strconv.FormatInt(int64(v), 16)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// blendHex linearly interpolates a into b by t (0 = all a, 1 = all b).
// Either color may be empty, in which case the other is returned
// unchanged (there is nothing to blend against).
func blendHex(a, b string, t float64) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	ar, ag, ab, ok1 := parseHex(a)
	br, bg, bb, ok2 := parseHex(b)
	if !ok1 || !ok2 {
		return a
	}
	lerp := func(x, y int) int { return x + int(float64(y-x)*t) }
	return toHex(lerp(ar, br), lerp(ag, bg), lerp(ab, bb))
}

// relativeLuminance approximates WCAG relative luminance from sRGB.
func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return 0
	}
	lin := func(c int) float64 {
		v := float64(c) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)
}

func contrastRatio(a, b string) float64 {
	la, lb := relativeLuminance(a), relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// ensureContrast returns fg unchanged if it already meets
// MinContrastRatio against bg, otherwise substitutes pure white or
// black, whichever contrasts more — the simplest correction that
// guarantees the floor without a full color-adjustment search.
func ensureContrast(fg, bg string) string {
	if fg == "" || bg == "" {
		return fg
	}
	if contrastRatio(fg, bg) >= MinContrastRatio {
		return fg
	}
	if contrastRatio("#ffffff", bg) >= contrastRatio("#000000", bg) {
		return "#ffffff"
	}
	return "#000000"
}
