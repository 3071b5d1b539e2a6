package preset

// prSinglePreset returns one full-width editor pane.
func prSinglePreset() LayoutPreset {
	return LayoutPreset{
		Name:        "single",
		Description: "One editor pane filling the whole workspace",
		Columns:     1,
		Widgets: []WidgetSlot{
			{WidgetID: "editor", Column: 0, Row: 0, ColSpan: 1, RowSpan: 1, Priority: 100},
		},
	}
}

// prIdePreset returns an editor and outline pane side by side with a
// terminal pane below, and a diagnostics strip along the bottom.
func prIdePreset() LayoutPreset {
	return LayoutPreset{
		Name:        "ide",
		Description: "Editor and outline side by side with a terminal and diagnostics below",
		Columns:     2,
		Widgets: []WidgetSlot{
			{WidgetID: "editor", Column: 0, Row: 0, ColSpan: 1, RowSpan: 3, Priority: 90},
			{WidgetID: "outline", Column: 1, Row: 0, ColSpan: 1, RowSpan: 2, Priority: 50},
			{WidgetID: "terminal", Column: 1, Row: 2, ColSpan: 1, RowSpan: 1, Priority: 40},
			{WidgetID: "diagnostics", Column: 0, Row: 3, ColSpan: 2, RowSpan: 1, Priority: 30},
		},
	}
}

// prDiffPreset returns two editor panes side by side for comparing
// two buffers, with a terminal pane reachable below.
func prDiffPreset() LayoutPreset {
	return LayoutPreset{
		Name:        "diff",
		Description: "Two editor panes side by side for comparing buffers",
		Columns:     2,
		Widgets: []WidgetSlot{
			{WidgetID: "editor", Column: 0, Row: 0, ColSpan: 1, RowSpan: 3, Priority: 100},
			{WidgetID: "editor", Column: 1, Row: 0, ColSpan: 1, RowSpan: 3, Priority: 100},
			{WidgetID: "terminal", Column: 0, Row: 3, ColSpan: 2, RowSpan: 1, Priority: 20},
		},
	}
}

// prSearchPreset returns an editor pane with dedicated search-results
// and diagnostics panes for workspace-wide search sessions.
func prSearchPreset() LayoutPreset {
	return LayoutPreset{
		Name:        "search",
		Description: "Editor with dedicated search-results and diagnostics panes",
		Columns:     2,
		Widgets: []WidgetSlot{
			{WidgetID: "editor", Column: 0, Row: 0, ColSpan: 1, RowSpan: 4, Priority: 90},
			{WidgetID: "search", Column: 1, Row: 0, ColSpan: 1, RowSpan: 2, Priority: 70},
			{WidgetID: "diagnostics", Column: 1, Row: 2, ColSpan: 1, RowSpan: 2, Priority: 60},
		},
	}
}
