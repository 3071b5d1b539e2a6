package lsp

import (
	"context"
	"encoding/json"
	"time"

	"gitlab.com/tinyland/lab/xeno/pkg/cache"
)

// capabilitiesCacheTTL bounds how long a cached initialize result is
// trusted before a fresh handshake is forced — long enough to skip
// the handshake across back-to-back sessions, short enough that a
// language server upgrade is picked up within a day.
const capabilitiesCacheTTL = 24 * time.Hour

// CapabilitiesCache persists each language server's initialize
// response so restarting the same server command doesn't pay for a
// fresh capabilities negotiation every time a document of that
// language is opened.
type CapabilitiesCache struct {
	store *cache.Store
}

// NewCapabilitiesCache wraps store for capability persistence. store
// is typically shared with other long-lived editor-session caches.
func NewCapabilitiesCache(store *cache.Store) *CapabilitiesCache {
	return &CapabilitiesCache{store: store}
}

func capabilitiesCacheKey(serverKey string) string {
	return "lsp/capabilities/" + serverKey
}

// Initialize returns a cached initialize response for serverKey if
// one is fresh, otherwise issues the initialize request against sp,
// caches the result, and returns it.
func (c *CapabilitiesCache) Initialize(ctx context.Context, sp *ServerProcess, serverKey string, params any) (Response, error) {
	if raw, ok := cache.GetTyped[json.RawMessage](c.store, capabilitiesCacheKey(serverKey)); ok {
		return Response{JSONRPC: "2.0", Result: raw}, nil
	}

	resp, err := sp.Call(ctx, "initialize", params)
	if err != nil {
		return Response{}, err
	}
	if resp.Error != nil {
		return resp, nil
	}

	_ = cache.PutTypedWithTTL(c.store, capabilitiesCacheKey(serverKey), resp.Result, capabilitiesCacheTTL)
	return resp, nil
}

// Invalidate drops the cached capabilities for serverKey, forcing a
// fresh initialize handshake the next time it is requested (e.g. after
// the server binary is upgraded).
func (c *CapabilitiesCache) Invalidate(serverKey string) error {
	return c.store.Delete(capabilitiesCacheKey(serverKey))
}
