package config

// PaneSpec is one leaf of a layout preset: a role name the caller
// maps to an initial view (e.g. "editor" -> the active document,
// "outline" -> a symbol-tree overlay pane) plus its relative size
// within the row.
type PaneSpec struct {
	Role  string
	Ratio int
}

// RowConfig is one horizontal row of panes within a layout preset,
// itself weighted against sibling rows by Ratio.
type RowConfig struct {
	Ratio    int
	Children []PaneSpec
}

// LayoutConfig names a layout preset and (for "custom") the row/pane
// tree used to seed the initial split-tree on startup.
type LayoutConfig struct {
	Preset string
	Rows   []RowConfig
}

// LayoutPreset returns the layout configuration for a named preset.
// If the name is not recognized, the "single" preset is returned.
func LayoutPreset(name string) LayoutConfig {
	switch name {
	case "single":
		return singlePreset()
	case "ide":
		return idePreset()
	case "diff":
		return diffPreset()
	default:
		return singlePreset()
	}
}

// singlePreset returns one full-width editor pane.
//
//	Row 1 (ratio 1): [editor:1]
func singlePreset() LayoutConfig {
	return LayoutConfig{
		Preset: "single",
		Rows: []RowConfig{
			{
				Ratio: 1,
				Children: []PaneSpec{
					{Role: "editor", Ratio: 1},
				},
			},
		},
	}
}

// idePreset returns an editor and outline pane side by side with a
// terminal pane below.
//
//	Row 1 (ratio 3): [editor:3] [outline:1]
//	Row 2 (ratio 1): [terminal:1]
func idePreset() LayoutConfig {
	return LayoutConfig{
		Preset: "ide",
		Rows: []RowConfig{
			{
				Ratio: 3,
				Children: []PaneSpec{
					{Role: "editor", Ratio: 3},
					{Role: "outline", Ratio: 1},
				},
			},
			{
				Ratio: 1,
				Children: []PaneSpec{
					{Role: "terminal", Ratio: 1},
				},
			},
		},
	}
}

// diffPreset returns two editor panes side by side, for comparing two
// buffers.
//
//	Row 1 (ratio 1): [editor:1] [editor:1]
func diffPreset() LayoutConfig {
	return LayoutConfig{
		Preset: "diff",
		Rows: []RowConfig{
			{
				Ratio: 1,
				Children: []PaneSpec{
					{Role: "editor", Ratio: 1},
					{Role: "editor", Ratio: 1},
				},
			},
		},
	}
}
