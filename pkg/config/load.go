package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/xeno/config.toml
//  2. ~/.config/xeno/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	paths := configSearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), "xeno")

	return &Config{
		General: GeneralConfig{
			LogLevel:         "info",
			CacheDir:         cacheDir,
			AutosaveInterval: Duration{30 * time.Second},
			UndoHistoryLimit: 1000,
		},
		Editor: EditorConfig{
			TabWidth:        4,
			ExpandTabs:      true,
			WrapMode:        "none",
			ShowLineNumbers: true,
			ShowGutter:      true,
		},
		Layout: LayoutConfig{
			Preset: "single",
		},
		LSP: LSPConfig{
			Servers: map[string]LSPServerConfig{
				"go": {
					Enabled:        true,
					Command:        "gopls",
					RestartBackoff: Duration{2 * time.Second},
				},
			},
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Notify: NotifyConfig{
			DefaultAnchor:     "bottom_right",
			AutoDismiss:       Duration{4 * time.Second},
			CapacityPerAnchor: 5,
		},
		Script: ScriptConfig{
			MacroTimeout: Duration{2 * time.Second},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("XENO_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("XENO_LAYOUT"); v != "" {
		cfg.Layout.Preset = v
	}
	if v := os.Getenv("XENO_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "xeno", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "xeno", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
