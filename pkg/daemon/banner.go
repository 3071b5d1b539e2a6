package daemon

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxSnapshotEntries bounds how many (width, height, theme) statuslines
// the cache file holds at once. A detached session can cycle through a
// lot of terminal sizes over days; without a cap the file would grow
// without bound since, unlike the health file, nothing else prunes it.
const maxSnapshotEntries = 64

// SnapshotEntry holds one pre-rendered statusline for a specific
// terminal/theme configuration, tagged with the document generation it
// was rendered against. The daemon refreshes these while the
// foreground session is detached, so reattaching can repaint instantly
// before syntax highlighting and LSP diagnostics have caught up.
type SnapshotEntry struct {
	Rendered   string    `json:"rendered"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Theme      string    `json:"theme"`
	Generation uint64    `json:"generation"`
	Timestamp  time.Time `json:"timestamp"`
	Hash       string    `json:"hash"`
}

// snapshotCacheFile is the on-disk representation: a map of cache keys
// to entries.
type snapshotCacheFile struct {
	Entries map[string]*SnapshotEntry `json:"entries"`
}

// SnapshotCache manages pre-rendered statusline entries on disk,
// capped at maxSnapshotEntries and keyed to a document generation: a
// cached entry whose Generation no longer matches the caller's current
// generation is treated as a miss even if it hasn't expired by age,
// since the line it rendered may now read stale information (cursor
// position, dirty flag, diagnostic counts). The cache file survives
// daemon restarts.
type SnapshotCache struct {
	path string
	mu   sync.Mutex
}

// NewSnapshotCache creates a SnapshotCache backed by the given file path.
func NewSnapshotCache(path string) *SnapshotCache {
	return &SnapshotCache{path: path}
}

// snapshotKey returns the cache key for a given terminal/theme configuration.
func snapshotKey(width, height int, theme string) string {
	return fmt.Sprintf("%dx%d/%s", width, height, theme)
}

// Get retrieves a cached snapshot matching the given terminal
// dimensions and theme, valid only if its Generation equals wantGen.
// Returns the entry and true if found and current, nil and false
// otherwise (including the stale-generation case).
func (sc *SnapshotCache) Get(width, height int, theme string, wantGen uint64) (*SnapshotEntry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	cf, err := sc.load()
	if err != nil {
		return nil, false
	}

	key := snapshotKey(width, height, theme)
	entry, ok := cf.Entries[key]
	if !ok || entry.Generation != wantGen {
		return nil, false
	}
	return entry, true
}

// Put stores a pre-rendered snapshot entry in the cache, keyed by its
// Width, Height, and Theme fields. A content hash is computed
// automatically if not already set. If storing entry pushes the cache
// over maxSnapshotEntries, the oldest entries (by Timestamp) are
// evicted first.
func (sc *SnapshotCache) Put(entry *SnapshotEntry) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if entry.Hash == "" {
		entry.Hash = computeHash(entry.Rendered)
	}

	cf, err := sc.load()
	if err != nil {
		cf = &snapshotCacheFile{Entries: make(map[string]*SnapshotEntry)}
	}

	key := snapshotKey(entry.Width, entry.Height, entry.Theme)
	cf.Entries[key] = entry
	evictOldest(cf, maxSnapshotEntries)

	return sc.save(cf)
}

// evictOldest removes the oldest-timestamped entries from cf until at
// most limit remain, or does nothing if limit <= 0 or already under it.
func evictOldest(cf *snapshotCacheFile, limit int) {
	if limit <= 0 || len(cf.Entries) <= limit {
		return
	}
	for len(cf.Entries) > limit {
		var oldestKey string
		var oldestTime time.Time
		first := true
		for k, e := range cf.Entries {
			if first || e.Timestamp.Before(oldestTime) {
				oldestKey, oldestTime, first = k, e.Timestamp, false
			}
		}
		delete(cf.Entries, oldestKey)
	}
}

// Invalidate clears all entries from the cache by removing the file.
func (sc *SnapshotCache) Invalidate() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := os.Remove(sc.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("invalidate snapshot cache: %w", err)
	}
	return nil
}

// IsStale returns true if the cache file does not exist, has no entries,
// or the most recent entry is older than maxAge.
func (sc *SnapshotCache) IsStale(maxAge time.Duration) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	cf, err := sc.load()
	if err != nil {
		return true
	}
	if len(cf.Entries) == 0 {
		return true
	}

	var newest time.Time
	for _, entry := range cf.Entries {
		if entry.Timestamp.After(newest) {
			newest = entry.Timestamp
		}
	}

	return time.Since(newest) > maxAge
}

// load reads and parses the cache file. Caller must hold sc.mu.
func (sc *SnapshotCache) load() (*snapshotCacheFile, error) {
	data, err := os.ReadFile(sc.path)
	if err != nil {
		return nil, err
	}

	var cf snapshotCacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Entries == nil {
		cf.Entries = make(map[string]*SnapshotEntry)
	}

	return &cf, nil
}

// save writes the cache file atomically. Caller must hold sc.mu.
func (sc *SnapshotCache) save(cf *snapshotCacheFile) error {
	dir := filepath.Dir(sc.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot cache: %w", err)
	}

	tmp := sc.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot cache: %w", err)
	}

	if err := os.Rename(tmp, sc.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename snapshot cache: %w", err)
	}

	return nil
}

// computeHash returns a hex-encoded SHA-256 hash of the content.
func computeHash(content string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", h)
}

// snapshotEntryToJSON serializes a SnapshotEntry to indented JSON string.
func snapshotEntryToJSON(entry *SnapshotEntry) (string, error) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot entry: %w", err)
	}
	return string(data), nil
}
