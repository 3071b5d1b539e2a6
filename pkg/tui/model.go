package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/xeno/pkg/app"
)

// tuiStatusBarHeight is the number of rows the bottom status/search bar
// reserves out of the terminal height.
const tuiStatusBarHeight = 1

// tuiCell positions one widget's view within the grid and records
// whether it currently holds focus (for border highlighting).
type tuiCell struct {
	X, Y, W, H int
	Widget     app.Widget
	Focused    bool
}

// Model is the standalone grid/focus/search model over a plain
// []app.Widget, independent of AppModel's tick-driven data store.
// cmd/xeno runs it as the Bubbletea root model; tests drive it directly.
type Model struct {
	widgets []app.Widget

	focused  int
	expanded int // -1 means nothing expanded

	showHelp    bool
	searchMode  bool
	searchQuery string

	width, height int
	ready         bool
}

// New constructs a Model over widgets, focused on the first one.
func New(widgets []app.Widget) Model {
	return Model{
		widgets:  widgets,
		focused:  0,
		expanded: -1,
	}
}

func (m Model) Focused() int         { return m.focused }
func (m Model) Expanded() int        { return m.expanded }
func (m Model) ShowHelp() bool       { return m.showHelp }
func (m Model) SearchMode() bool     { return m.searchMode }
func (m Model) SearchQuery() string  { return m.searchQuery }
func (m Model) Ready() bool          { return m.ready }
func (m Model) Width() int           { return m.width }
func (m Model) Height() int          { return m.height }

// Init schedules no tick; Model redraws only when a window-size or key
// message arrives.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.searchMode {
		switch msg.Type {
		case tea.KeyEscape:
			m.searchMode = false
			m.searchQuery = ""
		case tea.KeyRunes:
			m.searchQuery += string(msg.Runes)
		}
		return m, nil
	}

	if len(m.widgets) == 0 {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.focused = (m.focused + 1) % len(m.widgets)
		return m, nil
	case tea.KeyShiftTab:
		m.focused = (m.focused - 1 + len(m.widgets)) % len(m.widgets)
		return m, nil
	case tea.KeyEnter:
		if m.expanded == m.focused {
			m.expanded = -1
		} else {
			m.expanded = m.focused
		}
		return m, nil
	case tea.KeyEscape:
		if m.showHelp {
			m.showHelp = false
		} else {
			m.expanded = -1
		}
		return m, nil
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'q':
				return m, tea.Quit
			case '?':
				m.showHelp = !m.showHelp
				return m, nil
			case '/':
				m.searchMode = true
				m.searchQuery = ""
				return m, nil
			}
		}
	}

	cmd := m.widgets[m.focused].HandleKey(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return tuiRenderHelp(m.width, m.height-tuiStatusBarHeight) + "\n" + m.bottomBar()
	}

	if m.expanded >= 0 && m.expanded < len(m.widgets) {
		body := tuiRenderExpanded(m.widgets[m.expanded], m.width, m.height-tuiStatusBarHeight)
		return body + "\n" + m.bottomBar()
	}

	visible := tuiFilterWidgets(m.widgets, m.searchQuery)
	cells := tuiComputeGrid(m.widgets, m.width, m.height, visible, m.focused)
	grid := tuiRenderGrid(cells, m.width, m.height-tuiStatusBarHeight)
	return grid + "\n" + m.bottomBar()
}

func (m Model) bottomBar() string {
	if m.searchMode {
		return tuiRenderSearchBar(m.searchQuery, m.width)
	}
	return tuiRenderStatusBar("", m.width)
}

// tuiComputeGrid lays visible widgets out in a roughly square grid
// within width x (height - tuiStatusBarHeight), marking the cell at
// index focused (into widgets, not visible) as the focused one.
func tuiComputeGrid(widgets []app.Widget, width, height int, visible []int, focused int) []tuiCell {
	if len(visible) == 0 {
		return nil
	}

	usableH := height - tuiStatusBarHeight
	if usableH < 0 {
		usableH = 0
	}

	cols := tuiCeilSqrt(len(visible))
	rows := (len(visible) + cols - 1) / cols

	colWidths := tuiDistribute(width, cols)
	rowHeights := tuiDistribute(usableH, rows)

	colX := make([]int, cols)
	for c := 1; c < cols; c++ {
		colX[c] = colX[c-1] + colWidths[c-1]
	}
	rowY := make([]int, rows)
	for r := 1; r < rows; r++ {
		rowY[r] = rowY[r-1] + rowHeights[r-1]
	}

	cells := make([]tuiCell, 0, len(visible))
	for i, idx := range visible {
		r := i / cols
		c := i % cols
		cells = append(cells, tuiCell{
			X:       colX[c],
			Y:       rowY[r],
			W:       colWidths[c],
			H:       rowHeights[r],
			Widget:  widgets[idx],
			Focused: idx == focused,
		})
	}
	return cells
}

// tuiCeilSqrt returns the smallest column count that keeps the grid
// roughly square for n cells.
func tuiCeilSqrt(n int) int {
	if n <= 1 {
		return 1
	}
	c := 1
	for c*c < n {
		c++
	}
	return c
}

// tuiDistribute splits total into n parts as evenly as possible,
// handing any remainder to the earliest parts.
func tuiDistribute(total, n int) []int {
	if n <= 0 {
		return nil
	}
	base := total / n
	rem := total % n
	parts := make([]int, n)
	for i := range parts {
		parts[i] = base
		if i < rem {
			parts[i]++
		}
	}
	return parts
}
