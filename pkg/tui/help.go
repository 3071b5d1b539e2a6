package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/xeno/pkg/components"
)

// tuiHelpEntries lists the key bindings shown in the help overlay.
var tuiHelpEntries = []string{
	"Tab / Shift+Tab   cycle focus",
	"Enter             expand/collapse focused pane",
	"Escape            collapse, close help, or exit search",
	"/                 search panes",
	"?                 toggle this help",
	"q / Ctrl+C        quit",
}

// tuiRenderHelp renders a bordered help panel centered within a
// width x height frame.
func tuiRenderHelp(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	panelWidth := width * 3 / 4
	if panelWidth < 24 {
		panelWidth = width
	}
	if panelWidth > width {
		panelWidth = width
	}

	panelHeight := len(tuiHelpEntries) + 2
	if panelHeight > height {
		panelHeight = height
	}

	content := strings.Join(tuiHelpEntries, "\n")

	style := components.BoxStyle{
		Border:     components.BorderRounded,
		Title:      "Help",
		TitleAlign: components.AlignCenter,
		Padding:    components.Padding{Left: 1, Right: 1},
	}

	panel := components.RenderBox(content, panelWidth, panelHeight, style)

	leftMargin := (width - panelWidth) / 2
	if leftMargin <= 0 {
		return panel
	}

	indent := strings.Repeat(" ", leftMargin)
	lines := strings.Split(panel, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
