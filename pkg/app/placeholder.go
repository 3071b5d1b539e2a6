package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/xeno/pkg/theme"
)

// PlaceholderWidget stands in for a pane slot before it is wired to a
// real document/overlay view: it renders its title, the dimensions it
// was asked to fill, and a one-line hint about what will eventually
// occupy the slot. Colors track theme.Current so a preset built from
// placeholders previews correctly under the active theme rather than
// a single hardcoded palette.
type PlaceholderWidget struct {
	id    string
	title string
	hint  string
}

// NewPlaceholder creates a new PlaceholderWidget with the given id and
// title and a hint derived from well-known pane ids (see
// placeholderHints); unrecognized ids get no hint line.
func NewPlaceholder(id, title string) *PlaceholderWidget {
	return &PlaceholderWidget{id: id, title: title, hint: placeholderHints[id]}
}

// placeholderHints documents, per builtin pane id (pkg/preset's
// builtin presets), what eventually replaces the placeholder.
var placeholderHints = map[string]string{
	"editor":      "awaiting buffer attachment",
	"outline":     "awaiting symbol index",
	"terminal":    "awaiting PTY attachment",
	"diagnostics": "awaiting LSP diagnostics",
	"search":      "awaiting query",
}

// ID returns the widget's unique identifier.
func (w *PlaceholderWidget) ID() string {
	return w.id
}

// Title returns the widget's display title.
func (w *PlaceholderWidget) Title() string {
	return w.title
}

// Update is a no-op for the placeholder widget.
func (w *PlaceholderWidget) Update(_ tea.Msg) tea.Cmd {
	return nil
}

// View renders a simple box showing the widget's title, the
// dimensions it was asked to render at, and its hint line if one is
// set, themed against theme.Current.
func (w *PlaceholderWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	t := theme.Current
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Dim))

	titleLine := titleStyle.Render(w.title)
	dimLine := dimStyle.Render(fmt.Sprintf("%dx%d", width, height))
	hintLine := ""
	if w.hint != "" {
		hintLine = dimStyle.Render(w.hint)
	}

	content := []string{titleLine}
	if height > 1 {
		content = append(content, dimLine)
	}
	if hintLine != "" && height > 2 {
		content = append(content, hintLine)
	}

	// Center the content vertically within the available height.
	var lines []string

	topPad := (height - len(content)) / 2
	if topPad < 0 {
		topPad = 0
	}
	for i := 0; i < topPad; i++ {
		lines = append(lines, "")
	}

	lines = append(lines, content...)

	// Pad bottom to fill height.
	for len(lines) < height {
		lines = append(lines, "")
	}

	// Truncate if we somehow exceed height.
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// MinSize returns the minimum dimensions for the placeholder widget.
func (w *PlaceholderWidget) MinSize() (int, int) {
	return 10, 3
}

// HandleKey is a no-op for the placeholder widget.
func (w *PlaceholderWidget) HandleKey(_ tea.KeyMsg) tea.Cmd {
	return nil
}
