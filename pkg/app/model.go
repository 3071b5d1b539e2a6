package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/xeno/pkg/render"
)

// Widget is anything AppModel can arrange, focus, and expand: a pane
// that knows how to render itself at a given size and handle its own
// keys when focused. pkg/tui's document, overlay, and popup panes
// each implement this by wrapping a render.* view plan.
type Widget interface {
	ID() string
	Title() string
	Update(tea.Msg) tea.Cmd
	View(width, height int) string
	MinSize() (int, int)
	HandleKey(tea.KeyMsg) tea.Cmd
}

// Config seeds AppModel's timing behavior.
type Config struct {
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible AppModel timing defaults.
func DefaultConfig() *Config {
	return &Config{RefreshInterval: 250 * time.Millisecond}
}

// AppModel is the root Bubbletea model: an ordered set of widgets, one
// of which may be focused and at most one of which may be expanded to
// fill the frame. It owns no document state itself — that lives in
// pkg/document/pkg/buffer and reaches AppModel only as render.* plans
// threaded through each Widget.
type AppModel struct {
	cfg *Config

	widgets map[string]Widget
	widgetOrder []string

	focusedWidget string
	expandedWidget string

	width, height int
	layoutDirty bool

	dataStore map[string]interface{}

	help bool
	quitting bool
}

// NewAppModel constructs a model with the given widgets, focused on
// the first one. A nil cfg falls back to DefaultConfig().
func NewAppModel(cfg *Config, widgets ...Widget) AppModel {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	m := AppModel{
		cfg: cfg,
		widgets: make(map[string]Widget, len(widgets)),
		widgetOrder: make([]string, 0, len(widgets)),
		dataStore: make(map[string]interface{}),
		layoutDirty: true,
	}
	for _, w := range widgets {
		m.widgets[w.ID()] = w
		m.widgetOrder = append(m.widgetOrder, w.ID())
	}
	if len(m.widgetOrder) > 0 {
		m.focusedWidget = m.widgetOrder[0]
	}
	return m
}

// Init kicks off the periodic tick that drives redraws.
func (m AppModel) Init() tea.Cmd {
	return TickCmd(m.cfg.RefreshInterval)
}

// Update handles window resizes, global key bindings, data updates,
// and ticks, then forwards anything unrecognized to the focused
// widget.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutDirty = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickEvent:
		return m, TickCmd(m.cfg.RefreshInterval)

	case DataUpdateEvent:
		if msg.Err == nil {
			m.dataStore[msg.Source] = msg.Data
		}
		return m, nil

	case WidgetFocusEvent:
		m.FocusWidget(msg.WidgetID)
		return m, nil

	case WidgetExpandEvent:
		if _, ok := m.widgets[msg.WidgetID]; ok {
			if m.expandedWidget == msg.WidgetID {
				m.expandedWidget = ""
			} else {
				m.expandedWidget = msg.WidgetID
			}
		}
		return m, nil
	}

	if w, ok := m.widgets[m.focusedWidget]; ok {
		cmd := w.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab:
		m.CycleFocusForward()
		return m, nil
	case tea.KeyShiftTab:
		m.CycleFocusBackward()
		return m, nil
	case tea.KeyEnter:
		m.ToggleExpand()
		return m, nil
	case tea.KeyEscape:
		m.expandedWidget = ""
		return m, nil
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'q':
				m.quitting = true
				return m, tea.Quit
			case '?':
				m.help = !m.help
				return m, nil
			}
		}
	}

	if w, ok := m.widgets[m.focusedWidget]; ok {
		cmd := w.HandleKey(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the focused/expanded widget set. Before the first
// WindowSizeMsg there is no known terminal size to render into.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.expandedWidget != "" {
		if w, ok := m.widgets[m.expandedWidget]; ok {
			view := w.View(m.width, m.height)
			if m.help {
				view += "\n" + m.helpLine()
			}
			return view
		}
	}

	var out string
	for _, id := range m.widgetOrder {
		out += m.widgets[id].View(m.width, m.height/max1(len(m.widgetOrder)))
	}
	if m.help {
		out += "\n" + m.helpLine()
	}
	return out
}

func (m AppModel) helpLine() string {
	return "Tab:focus Enter:expand ?:help q:quit"
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Width returns the last known terminal width.
func (m AppModel) Width() int { return m.width }

// Height returns the last known terminal height.
func (m AppModel) Height() int { return m.height }

// LayoutDirty reports whether the layout must be recomputed before
// the next render.
func (m AppModel) LayoutDirty() bool { return m.layoutDirty }

// FocusedWidgetID returns the currently focused widget's ID, or "" if
// there are no widgets.
func (m AppModel) FocusedWidgetID() string { return m.focusedWidget }

// ExpandedWidgetID returns the currently expanded widget's ID, or ""
// if none is expanded.
func (m AppModel) ExpandedWidgetID() string { return m.expandedWidget }

// Quitting reports whether the model has requested program exit.
func (m AppModel) Quitting() bool { return m.quitting }

// HelpVisible reports whether the help overlay is toggled on.
func (m AppModel) HelpVisible() bool { return m.help }

// DataStore exposes the raw per-source data map accumulated from
// DataUpdateEvents.
func (m AppModel) DataStore() map[string]interface{} { return m.dataStore }

// documentPlanWidget adapts a render.DocPlan into a Widget so
// AppModel can arrange and focus document panes without knowing
// anything about buffers, documents, or layout trees.
type documentPlanWidget struct {
	id string
	plan render.DocPlan
}

// NewDocumentPlanWidget wraps plan as a focusable, resizable Widget
// keyed by id (typically the pane's layout.ViewId formatted as a
// string).
func NewDocumentPlanWidget(id string, plan render.DocPlan) Widget {
	return &documentPlanWidget{id: id, plan: plan}
}

func (w *documentPlanWidget) ID() string { return w.id }
func (w *documentPlanWidget) Title() string { return w.plan.Role }

func (w *documentPlanWidget) Update(tea.Msg) tea.Cmd { return nil }

func (w *documentPlanWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	var out string
	for i, line := range w.plan.Lines {
		if i >= height {
			break
		}
		out += line.Text + "\n"
	}
	return out
}

func (w *documentPlanWidget) MinSize() (int, int) { return 10, 3 }

func (w *documentPlanWidget) HandleKey(tea.KeyMsg) tea.Cmd { return nil }
