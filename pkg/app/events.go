// Package app provides the core Bubbletea application framework for
// the editor frontend. It defines the event types, root model, widget
// interface, and navigation logic that form the Elm-architecture
// skeleton pkg/tui's panes run inside.
//
// This package is designed against bubbletea v1.3.x but architected so that
// migrating to v2 requires only import-path changes and minor API adjustments.
package app

import "time"

// DataUpdateEvent carries new data from a background goroutine (an
// LSP request, a search sweep) back into the bubbletea update loop.
// Receivers type-assert Data based on Source.
type DataUpdateEvent struct {
	Source    string      // origin, e.g. "lsp/gopls", "workspace_search"
	Data     interface{} // Type-asserted by the receiver
	Err      error       // Non-nil if the fetch failed
	Timestamp time.Time
}

// TickEvent is sent by TickCmd at the refresh interval. AppModel.Update
// answers each one only by scheduling the next tick; it runs no
// stale-data check.
type TickEvent struct {
	Time time.Time
}

// WidgetFocusEvent requests that focus move to a specific widget.
type WidgetFocusEvent struct {
	WidgetID string
}

// WidgetExpandEvent toggles a widget between normal and fullscreen mode.
type WidgetExpandEvent struct {
	WidgetID string
}

// ThemeChangeEvent carries the name of a color theme. No Update in this
// module handles it, so sending one does not change the active theme.
type ThemeChangeEvent struct {
	Theme string
}

// LayoutPresetEvent carries the name of a layout preset (e.g., "single",
// "ide", "diff"). No Update in this module handles it, so sending one
// does not switch the preset.
type LayoutPresetEvent struct {
	Preset string
}
