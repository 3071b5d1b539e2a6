package lsp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/xeno/pkg/cache"
)

func newTestCapabilitiesCache(t *testing.T) *CapabilitiesCache {
	t.Helper()
	store, err := cache.NewStore(cache.StoreConfig{
		Dir:             t.TempDir(),
		MaxSizeMB:       10,
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewCapabilitiesCache(store)
}

func TestCapabilitiesCacheInitializeSkipsCallOnHit(t *testing.T) {
	c := newTestCapabilitiesCache(t)

	cached := json.RawMessage(`{"capabilities":{"hoverProvider":true}}`)
	require.NoError(t, cache.PutTyped(c.store, capabilitiesCacheKey("gopls"), cached))

	resp, err := c.Initialize(nil, nil, "gopls", nil)
	require.NoError(t, err)
	require.JSONEq(t, string(cached), string(resp.Result))
}

func TestCapabilitiesCacheInvalidateForcesRefetch(t *testing.T) {
	c := newTestCapabilitiesCache(t)

	cached := json.RawMessage(`{"capabilities":{}}`)
	require.NoError(t, cache.PutTyped(c.store, capabilitiesCacheKey("rust-analyzer"), cached))

	require.NoError(t, c.Invalidate("rust-analyzer"))

	_, ok := cache.GetTyped[json.RawMessage](c.store, capabilitiesCacheKey("rust-analyzer"))
	require.False(t, ok, "expected invalidate to drop the cached entry")
}

func TestCapabilitiesCacheKeyIsNamespaced(t *testing.T) {
	require.Equal(t, "lsp/capabilities/gopls", capabilitiesCacheKey("gopls"))
}
