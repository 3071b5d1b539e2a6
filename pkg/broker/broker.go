// Package broker implements the session/server attachment core that
// terminates LSP connections on one side and accepts multiple editor
// sessions on the other: routed request/response correlation,
// broadcast, and authoritative cleanup on IPC failure.
//
// Grounded on pkg/daemon.IPCServer's accept-loop/per-connection-
// goroutine shape, generalized from a single Unix socket serving one
// client at a time to many concurrently attached sessions.
package broker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionId and ServerId are opaque identifiers minted with
// google/uuid: real UUIDs rather than incrementing counters, since
// both ids are externally visible to IPC peers.
type SessionId string
type ServerId string

// NewSessionId and NewServerId mint fresh ids.
func NewSessionId() SessionId { return SessionId(uuid.NewString()) }
func NewServerId() ServerId { return ServerId(uuid.NewString()) }

// ErrorCode mirrors the s2c cancellation/failure codes a pending
// request's waiter can observe.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrRequestCancelled
	ErrServerCancelled
	ErrTimeout
)

// IpcSink is the outbound channel abstraction for one session: Send
// returns an error if the session's transport has failed, which is
// what triggers the failure-handling sequence.
type IpcSink interface {
	Send(event any) error
}

// Status is a language server's lifecycle state.
type Status int

const (
	StatusStarting Status = iota
	StatusRunning
	StatusDegraded
	StatusStopped
)

// ServerState tracks one registered language server.
type ServerState struct {
	ID ServerId
	Config any
	Status Status
	Leader SessionId
	Attached map[SessionId]struct{}
}

// s2cEntry is one outstanding server-to-client request awaiting a
// reply from its leader session.
type s2cEntry struct {
	serverID ServerId
	leader SessionId
	reply chan s2cResult
	timer *time.Timer
}

// s2cResult is what a pending s2c resolves with: either a payload or
// an ErrorCode.
type s2cResult struct {
	payload any
	code ErrorCode
}

// S2CTimeout is the hard timeout on server-to-client requests.
const S2CTimeout = 30 * time.Second

// Broker owns the session/server attachment tables: outbound sinks per
// session, per-server attachment sets and leader, and the pending
// server-to-client request correlation map.
type Broker struct {
	mu sync.Mutex

	sessions map[SessionId]IpcSink
	servers map[ServerId]*ServerState
	pending map[s2cKey]*s2cEntry
}

type s2cKey struct {
	server ServerId
	requestID string
}

// New creates an empty Broker.
func New() *Broker {
	return &Broker{
		sessions: make(map[SessionId]IpcSink),
		servers: make(map[ServerId]*ServerState),
		pending: make(map[s2cKey]*s2cEntry),
	}
}

// RegisterSession adds a session's outbound sink.
func (b *Broker) RegisterSession(id SessionId, sink IpcSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[id] = sink
}

// UnregisterSession removes id, detaches it from every server, and
// cancels pending s2c requests routed to it — the non-failure-path
// caller-initiated analogue of HandleSessionSendFailure, same cleanup.
func (b *Broker) UnregisterSession(id SessionId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregisterSessionLocked(id, ErrRequestCancelled)
}

func (b *Broker) unregisterSessionLocked(id SessionId, code ErrorCode) {
	delete(b.sessions, id)
	for _, srv := range b.servers {
		delete(srv.Attached, id)
	}
	for key, entry := range b.pending {
		if entry.leader == id {
			b.resolvePendingLocked(key, entry, s2cResult{code: code})
		}
	}
}

// RegisterServer adds a server entry with the given leader session
// already attached. Spawning the actual LSP process is the caller's
// responsibility (via pkg/lsp.StartServerProcess); Broker only tracks
// attachment state and routing.
func (b *Broker) RegisterServer(id ServerId, config any, leader SessionId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.servers[id] = &ServerState{
		ID: id,
		Config: config,
		Status: StatusStarting,
		Leader: leader,
		Attached: map[SessionId]struct{}{leader: {}},
	}
}

// AttachSession adds session to server's attached set. Returns false
// if the server is unknown.
func (b *Broker) AttachSession(server ServerId, session SessionId) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	srv, ok := b.servers[server]
	if !ok {
		return false
	}
	srv.Attached[session] = struct{}{}
	return true
}

// BroadcastToServer forwards event to every session attached to
// server. A no-op for an unknown server id.
func (b *Broker) BroadcastToServer(server ServerId, event any) {
	b.mu.Lock()
	srv, ok := b.servers[server]
	if !ok {
		b.mu.Unlock()
		return
	}
	sinks := make([]IpcSink, 0, len(srv.Attached))
	for sess := range srv.Attached {
		if sink, ok := b.sessions[sess]; ok {
			sinks = append(sinks, sink)
		}
	}
	b.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Send(event); err != nil {
			// The caller discovers which session failed via
			// HandleSessionSendFailure once its own send loop observes the
			// error; Broker itself does not guess the session id from a sink.
			_ = err
		}
	}
}

// SendToLeader forwards event only to server's leader session.
func (b *Broker) SendToLeader(server ServerId, event any) {
	b.mu.Lock()
	srv, ok := b.servers[server]
	if !ok {
		b.mu.Unlock()
		return
	}
	sink, ok := b.sessions[srv.Leader]
	b.mu.Unlock()
	if ok {
		_ = sink.Send(event)
	}
}

// SetServerStatus transitions server's status, broadcasting only if
// the status actually changed.
func (b *Broker) SetServerStatus(id ServerId, status Status, event any) {
	b.mu.Lock()
	srv, ok := b.servers[id]
	if !ok || srv.Status == status {
		b.mu.Unlock()
		return
	}
	srv.Status = status
	b.mu.Unlock()
	b.BroadcastToServer(id, event)
}

// BeginS2C registers a pending server-to-client request, returning the
// leader session it was routed to and a function that blocks for the
// result (payload, or an ErrorCode on cancellation/timeout).
func (b *Broker) BeginS2C(server ServerId, requestID string) (SessionId, func() (any, ErrorCode), bool) {
	b.mu.Lock()
	srv, ok := b.servers[server]
	if !ok {
		b.mu.Unlock()
		return "", nil, false
	}
	key := s2cKey{server: server, requestID: requestID}
	entry := &s2cEntry{serverID: server, leader: srv.Leader, reply: make(chan s2cResult, 1)}
	entry.timer = time.AfterFunc(S2CTimeout, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if e, ok := b.pending[key]; ok && e == entry {
			b.resolvePendingLocked(key, e, s2cResult{code: ErrRequestCancelled})
		}
	})
	b.pending[key] = entry
	leader := srv.Leader
	b.mu.Unlock()

	wait := func() (any, ErrorCode) {
		res := <-entry.reply
		return res.payload, res.code
	}
	return leader, wait, true
}

// ReplyS2C delivers payload to the waiter for (server, requestID), if
// still pending.
func (b *Broker) ReplyS2C(server ServerId, requestID string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := s2cKey{server: server, requestID: requestID}
	if entry, ok := b.pending[key]; ok {
		b.resolvePendingLocked(key, entry, s2cResult{payload: payload})
	}
}

// CancelS2C cancels (server, requestID) with code, if still pending.
func (b *Broker) CancelS2C(server ServerId, requestID string, code ErrorCode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := s2cKey{server: server, requestID: requestID}
	if entry, ok := b.pending[key]; ok {
		b.resolvePendingLocked(key, entry, s2cResult{code: code})
	}
}

// resolvePendingLocked must be called with b.mu held.
func (b *Broker) resolvePendingLocked(key s2cKey, entry *s2cEntry, res s2cResult) {
	entry.timer.Stop()
	delete(b.pending, key)
	entry.reply <- res
}

// HandleSessionSendFailure runs the authoritative four-step cleanup
// sequence for when a session's sink send fails: unregister, detach
// from every server, cancel pending
// s2c routed to it with REQUEST_CANCELLED, broadcast status changes
// only where one occurred. There are no server-status changes as a
// direct consequence of a session failing (a session is not a
// server), so step 4 is a no-op here by construction — it matters for
// HandleServerFailure below.
func (b *Broker) HandleSessionSendFailure(id SessionId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregisterSessionLocked(id, ErrRequestCancelled)
}

// HandleServerFailure is the server-side symmetric cleanup : every pending s2c for
// server resolves with ErrServerCancelled, the server is marked
// Stopped (broadcasting only on that transition), and the server entry
// is removed.
func (b *Broker) HandleServerFailure(id ServerId) {
	b.mu.Lock()
	srv, ok := b.servers[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	statusChanged := srv.Status != StatusStopped
	attached := make([]SessionId, 0, len(srv.Attached))
	for sess := range srv.Attached {
		attached = append(attached, sess)
	}
	for key, entry := range b.pending {
		if key.server == id {
			b.resolvePendingLocked(key, entry, s2cResult{code: ErrServerCancelled})
		}
	}
	delete(b.servers, id)
	b.mu.Unlock()

	if statusChanged {
		event := serverStoppedEvent{Server: id}
		for _, sess := range attached {
			b.mu.Lock()
			sink, ok := b.sessions[sess]
			b.mu.Unlock()
			if ok {
				_ = sink.Send(event)
			}
		}
	}
}

type serverStoppedEvent struct{ Server ServerId }

// ServerStatus returns the current status of id, or StatusStopped,
// false if unknown.
func (b *Broker) ServerStatus(id ServerId) (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	srv, ok := b.servers[id]
	if !ok {
		return StatusStopped, false
	}
	return srv.Status, true
}

// PendingCount reports how many s2c requests are outstanding, for
// tests and diagnostics.
func (b *Broker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
