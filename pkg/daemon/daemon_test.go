package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestDaemonTickWritesHealthFile(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, 10*time.Millisecond, nil, Deps{
		AutosaveDirty: func() (int, error) { return 2, nil },
	})

	d.tick()

	status, err := ReadHealthFile(d.healthPath)
	if err != nil {
		t.Fatalf("ReadHealthFile: %v", err)
	}
	if status.OpenBuffers != 2 {
		t.Errorf("expected OpenBuffers=2, got %d", status.OpenBuffers)
	}
}

func TestDaemonHandleCommandHealth(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, time.Second, nil, Deps{})
	d.tick()

	resp, err := d.HandleCommand("HEALTH", nil)
	if err != nil {
		t.Fatalf("HandleCommand(HEALTH): %v", err)
	}
	if resp == "" {
		t.Error("expected non-empty HEALTH response")
	}
}

func TestDaemonHandleCommandSnapshot(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, time.Second, nil, Deps{})

	if err := d.snapshots.Put(&SnapshotEntry{
		Rendered:   "main.go | 1:1",
		Width:      80,
		Height:     24,
		Theme:      "default",
		Generation: 3,
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	resp, err := d.HandleCommand("SNAPSHOT", map[string]string{
		"width": "80", "height": "24", "theme": "default", "generation": "3",
	})
	if err != nil {
		t.Fatalf("HandleCommand(SNAPSHOT): %v", err)
	}
	if resp == "" {
		t.Error("expected non-empty SNAPSHOT response")
	}
}

func TestDaemonHandleCommandSnapshotMiss(t *testing.T) {
	d := New(t.TempDir(), time.Second, nil, Deps{})
	if _, err := d.HandleCommand("SNAPSHOT", map[string]string{
		"width": "80", "height": "24", "theme": "default",
	}); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestDaemonHandleCommandUnknown(t *testing.T) {
	d := New(t.TempDir(), time.Second, nil, Deps{})
	if _, err := d.HandleCommand("BOGUS", nil); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDaemonRunRespectsCancellation(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, 5*time.Millisecond, nil, Deps{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Run(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestDaemonRunRefusesSecondInstance(t *testing.T) {
	dir := t.TempDir()
	d1 := New(dir, time.Second, nil, Deps{})

	if err := AcquirePID(filepath.Join(dir, "xeno.pid")); err != nil {
		t.Fatalf("AcquirePID: %v", err)
	}
	defer ReleasePID(filepath.Join(dir, "xeno.pid"))

	d2 := New(dir, time.Second, nil, Deps{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d2.Run(ctx); err == nil {
		t.Error("expected second daemon instance to fail acquiring the PID lock")
	}
	_ = d1
}

func TestSnapshotCachePutGet(t *testing.T) {
	dir := t.TempDir()
	sc := NewSnapshotCache(filepath.Join(dir, "snapshots.json"))

	entry := &SnapshotEntry{
		Rendered:  "main.go | 42:7 | UTF-8",
		Width:     120,
		Height:    40,
		Theme:     "dracula",
		Timestamp: time.Now(),
	}
	if err := sc.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := sc.Get(120, 40, "dracula", 0)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Rendered != entry.Rendered {
		t.Errorf("rendered mismatch: got %q", got.Rendered)
	}
	if got.Hash == "" {
		t.Error("expected hash to be computed")
	}
}

func TestSnapshotCacheMiss(t *testing.T) {
	sc := NewSnapshotCache(filepath.Join(t.TempDir(), "snapshots.json"))
	if _, ok := sc.Get(80, 24, "default", 0); ok {
		t.Error("expected miss on empty cache")
	}
}

func TestSnapshotCacheStaleGenerationIsAMiss(t *testing.T) {
	sc := NewSnapshotCache(filepath.Join(t.TempDir(), "snapshots.json"))
	sc.Put(&SnapshotEntry{Width: 80, Height: 24, Theme: "default", Generation: 5, Timestamp: time.Now()})

	if _, ok := sc.Get(80, 24, "default", 5); !ok {
		t.Error("expected hit for the current generation")
	}
	if _, ok := sc.Get(80, 24, "default", 6); ok {
		t.Error("expected a stale generation to miss even though the entry exists and isn't time-expired")
	}
}

func TestSnapshotCacheEvictsOldestOverCapacity(t *testing.T) {
	dir := t.TempDir()
	sc := NewSnapshotCache(filepath.Join(dir, "snapshots.json"))

	base := time.Now()
	for i := 0; i < maxSnapshotEntries+5; i++ {
		sc.Put(&SnapshotEntry{
			Width:     80,
			Height:    24,
			Theme:     fmt.Sprintf("theme-%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	cf, err := sc.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cf.Entries) != maxSnapshotEntries {
		t.Errorf("expected eviction to cap entries at %d, got %d", maxSnapshotEntries, len(cf.Entries))
	}
	if _, ok := sc.Get(80, 24, "theme-0", 0); ok {
		t.Error("expected the oldest entry to have been evicted")
	}
	if _, ok := sc.Get(80, 24, fmt.Sprintf("theme-%d", maxSnapshotEntries+4), 0); !ok {
		t.Error("expected the newest entry to survive eviction")
	}
}

func TestSnapshotCacheIsStale(t *testing.T) {
	sc := NewSnapshotCache(filepath.Join(t.TempDir(), "snapshots.json"))
	if !sc.IsStale(time.Hour) {
		t.Error("expected stale when no cache file exists")
	}

	sc.Put(&SnapshotEntry{Width: 80, Height: 24, Theme: "default", Timestamp: time.Now()})
	if sc.IsStale(time.Hour) {
		t.Error("expected fresh immediately after Put")
	}
}
