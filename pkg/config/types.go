package config

// Config is the full editor configuration, loaded from a single TOML
// file and layered over DefaultConfig via toml.Decoder (missing keys
// keep their default value).
type Config struct {
	General GeneralConfig
	Editor  EditorConfig
	Layout  LayoutConfig
	LSP     LSPConfig
	Theme   ThemeConfig
	Notify  NotifyConfig
	Script  ScriptConfig
}

// GeneralConfig holds process-wide settings that don't belong to any
// one subsystem.
type GeneralConfig struct {
	LogLevel         string
	CacheDir         string
	AutosaveInterval Duration
	UndoHistoryLimit int
}

// EditorConfig controls buffer/view defaults applied to newly opened
// documents.
type EditorConfig struct {
	TabWidth        int
	ExpandTabs      bool
	WrapMode        string // "none", "char", "word"
	ShowLineNumbers bool
	ShowGutter      bool
}

// LSPServerConfig is one language server's launch command plus the
// restart policy applied when pkg/lsp's ServerProcess observes it
// exit.
type LSPServerConfig struct {
	Enabled        bool
	Command        string
	Args           []string
	RestartBackoff Duration
}

// LSPConfig maps a language id (e.g. "go", "rust") to the server
// configured to handle it.
type LSPConfig struct {
	Servers map[string]LSPServerConfig
}

// ThemeConfig selects the active color theme by name (pkg/theme.Get).
type ThemeConfig struct {
	Name string
}

// NotifyConfig seeds the defaults pkg/notify.Manager is constructed
// with.
type NotifyConfig struct {
	DefaultAnchor string
	AutoDismiss   Duration
	CapacityPerAnchor int
}

// ScriptConfig bounds the pkg/script sandbox.
type ScriptConfig struct {
	MacroTimeout Duration
}
