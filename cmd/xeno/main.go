// Command xeno is a modal, multi-pane terminal text editor.
//
// Usage:
//
//	xeno [flags] [file...]
//
// Flags:
//
//	--config string Path to configuration file (default: $XDG_CONFIG_HOME/xeno/config.toml)
//	--preset string Force a named layout preset (single|ide|diff|search)
//	--daemon Run the background autosave/health daemon instead of the TUI
//	--verbose Enable debug logging
//	--version Print version and exit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"gitlab.com/tinyland/lab/xeno/pkg/app"
	"gitlab.com/tinyland/lab/xeno/pkg/config"
	"gitlab.com/tinyland/lab/xeno/pkg/daemon"
	"gitlab.com/tinyland/lab/xeno/pkg/layout"
	"gitlab.com/tinyland/lab/xeno/pkg/preset"
	"gitlab.com/tinyland/lab/xeno/pkg/terminal"
	"gitlab.com/tinyland/lab/xeno/pkg/theme"
	"gitlab.com/tinyland/lab/xeno/pkg/tui"
	"gitlab.com/tinyland/lab/xeno/pkg/xlog"
)

var (
	version = "0.1.0"
	commit = "dev"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to configuration file")
		presetName = flag.String("preset", "", "force a named layout preset (single|ide|diff|search)")
		runDaemon = flag.Bool("daemon", false, "run the background autosave/health daemon")
		verbose = flag.Bool("verbose", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("xeno %s (%s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeno: %v\n", err)
		os.Exit(1)
	}

	logger := xlog.New(xlog.Options{Verbose: *verbose})
	theme.SetCurrent(cfg.Theme.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	if *runDaemon {
		runDaemonMode(ctx, cfg)
		return
	}

	runTUI(cfg, *presetName, flag.Args(), logger)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func runDaemonMode(ctx context.Context, cfg *config.Config) {
	logger := xlog.New(xlog.Options{})
	d := daemon.New(cfg.General.CacheDir, cfg.General.AutosaveInterval.Duration, logger, daemon.Deps{
		AutosaveDirty: func() (int, error) { return 0, nil },
	})
	logger.Info("starting xeno daemon", "cache_dir", cfg.General.CacheDir)
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "xeno daemon: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config, presetOverride string, files []string, logger *slog.Logger) {
	name := presetOverride
	if name == "" {
		name = preset.SelectByConfig(*cfg)
	}
	layoutPreset := preset.Get(name)

	caps := terminal.DetectCapabilities()
	logger.Info("detected terminal",
		"term", caps.Term.String(), "protocol", caps.Protocol.String(),
		"true_color", caps.TrueColor, "tmux", caps.Tmux, "ssh", caps.SSH)

	var sess *app.Session
	if len(files) > 0 {
		sess = app.NewSession(logger, files)
	}

	model := tui.New(buildWidgets(layoutPreset, sess, initialFrameArea(caps.Size)))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui error", "error", err)
		os.Exit(1)
	}
}

// initialFrameArea seeds the area a Session's document panes are
// rendered against before the TUI's first tea.WindowSizeMsg arrives,
// from the real terminal size queried at startup. Panes are re-laid-out
// to the live size on the next resize through the normal layout-dirty
// path; this only avoids a visible first-frame flash at a wrong size.
func initialFrameArea(size terminal.Size) layout.Rect {
	cols, rows := size.Cols, size.Rows
	if cols <= 0 {
		cols = 120
	}
	if rows <= 0 {
		rows = 40
	}
	return layout.Rect{X: 0, Y: 0, Width: cols, Height: rows}
}

// buildWidgets creates one Widget per slot in the resolved layout
// preset. When sess is non-nil, "editor" slots are backed by its real
// document panes laid out against frameArea; every other slot,
// and every editor slot when no files were opened, falls back to a
// PlaceholderWidget so the frame still has something to lay out and
// focus-cycle.
func buildWidgets(lp preset.LayoutPreset, sess *app.Session, frameArea layout.Rect) []app.Widget {
	var editorWidgets []app.Widget
	if sess != nil {
		editorWidgets = sess.Widgets(frameArea)
	}

	widgets := make([]app.Widget, 0, len(lp.Widgets))
	seen := make(map[string]int)
	editorIdx := 0
	for _, slot := range lp.Widgets {
		n := seen[slot.WidgetID]
		seen[slot.WidgetID] = n + 1
		id := slot.WidgetID
		if n > 0 {
			id = fmt.Sprintf("%s-%d", slot.WidgetID, n)
		}
		if slot.WidgetID == "editor" && editorIdx < len(editorWidgets) {
			widgets = append(widgets, editorWidgets[editorIdx])
			editorIdx++
			continue
		}
		widgets = append(widgets, app.NewPlaceholder(id, slot.WidgetID))
	}
	return widgets
}

