package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"
)

// HealthStatus is the point-in-time snapshot written to the health file
// and returned by the HEALTH IPC command.
type HealthStatus struct {
	PID         int       `json:"pid"`
	StartedAt   time.Time `json:"started_at"`
	LastTick    time.Time `json:"last_tick"`
	OpenBuffers int       `json:"open_buffers"`
}

// Deps are the callbacks the daemon drives. They are supplied by the
// caller rather than imported directly, so this package has no
// dependency on pkg/buffer, pkg/document, or pkg/lsp.
type Deps struct {
	// AutosaveDirty persists every dirty buffer and returns how many
	// buffers are currently open (for HealthStatus.OpenBuffers).
	AutosaveDirty func() (openBuffers int, err error)
}

// Daemon is the background process a detached xeno session leaves
// running: it autosaves dirty buffers on a fixed interval, answers
// HEALTH/SNAPSHOT/REFRESH/QUIT over a Unix socket, and maintains a PID
// file so a second instance can detect it.
type Daemon struct {
	dir              string
	autosaveInterval time.Duration
	logger           *slog.Logger
	deps             Deps

	pidPath    string
	healthPath string
	sockPath   string

	ipc       *IPCServer
	snapshots *SnapshotCache

	startedAt time.Time
}

// New builds a Daemon rooted at dir (typically GeneralConfig.CacheDir).
func New(dir string, autosaveInterval time.Duration, logger *slog.Logger, deps Deps) *Daemon {
	if autosaveInterval <= 0 {
		autosaveInterval = 30 * time.Second
	}
	d := &Daemon{
		dir:              dir,
		autosaveInterval: autosaveInterval,
		logger:           logger,
		deps:             deps,
		pidPath:          filepath.Join(dir, "xeno.pid"),
		healthPath:       filepath.Join(dir, "health.json"),
		sockPath:         filepath.Join(dir, "xeno.sock"),
		snapshots:        NewSnapshotCache(filepath.Join(dir, "snapshots.json")),
	}
	d.ipc = NewIPCServer(d.sockPath, d)
	return d
}

// Run acquires the PID lock, starts the IPC listener, and autosaves on
// a fixed tick until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := AcquirePID(d.pidPath); err != nil {
		return err
	}
	defer ReleasePID(d.pidPath)

	if err := d.ipc.Start(); err != nil {
		return err
	}
	defer d.ipc.Stop()

	d.startedAt = time.Now()

	ticker := time.NewTicker(d.autosaveInterval)
	defer ticker.Stop()

	d.tick()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Daemon) tick() {
	open := 0
	if d.deps.AutosaveDirty != nil {
		n, err := d.deps.AutosaveDirty()
		if err != nil && d.logger != nil {
			d.logger.Warn("autosave failed", "error", err)
		}
		open = n
	}

	status := &HealthStatus{
		PID:         -1,
		StartedAt:   d.startedAt,
		LastTick:    time.Now(),
		OpenBuffers: open,
	}
	if err := WriteHealthFile(d.healthPath, status); err != nil && d.logger != nil {
		d.logger.Warn("write health file failed", "error", err)
	}
}

// HandleCommand implements IPCHandler.
func (d *Daemon) HandleCommand(cmd string, args map[string]string) (string, error) {
	switch cmd {
	case "HEALTH":
		status, err := ReadHealthFile(d.healthPath)
		if err != nil {
			return "", err
		}
		return healthStatusToJSON(status)
	case "SNAPSHOT":
		width, werr := strconv.Atoi(args["width"])
		height, herr := strconv.Atoi(args["height"])
		if werr != nil || herr != nil {
			return "", daemonError("SNAPSHOT requires numeric width and height")
		}
		gen, _ := strconv.ParseUint(args["generation"], 10, 64)
		entry, ok := d.snapshots.Get(width, height, args["theme"], gen)
		if !ok {
			return "", daemonError("no current-generation snapshot for " + snapshotKey(width, height, args["theme"]))
		}
		return snapshotEntryToJSON(entry)
	case "REFRESH":
		d.tick()
		return `{"ok":true}`, nil
	case "QUIT":
		return `{"ok":true}`, nil
	default:
		return "", errUnknownCommand(cmd)
	}
}

type errUnknownCommand string

func (e errUnknownCommand) Error() string { return "unknown daemon command: " + string(e) }

type daemonError string

func (e daemonError) Error() string { return string(e) }
