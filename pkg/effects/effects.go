// Package effects implements the topic-based hook/effects sink that sits
// between the action pipeline and every subsystem that reacts to it
// (overlay manager, notification center, render invalidation): handlers
// publish typed events, subscribers drain them without the publisher
// blocking on delivery.
//
// Grounded on other_examples/keystorm's event package (topic-based
// pub/sub bus with sync/async delivery) and its app/subscriptions.go
// wiring table, adapted from a generic interface{} topic bus to a typed
// Go channel-of-Effect bus.
package effects

import "sync"

// Kind tags an effect's payload for switch dispatch by subscribers.
type Kind string

const (
	KindActionPre Kind = "action_pre"
	KindActionPost Kind = "action_post"
	KindOverlayRequest Kind = "overlay_request"
	KindNotify Kind = "notify"
	KindRedrawRequest Kind = "redraw_request"
)

// Effect is one emitted event. Payload is the Kind-specific data;
// subscribers type-assert based on Kind.
type Effect struct {
	Kind Kind
	Payload any
}

// ActionHookPayload is carried by KindActionPre/KindActionPost.
type ActionHookPayload struct {
	InvocationName string
	ResultTag string // only set on ActionPost
}

// Sink is a fan-out bus: Emit never blocks on a slow subscriber — each
// subscriber gets its own buffered channel, and a full channel drops the
// oldest pending effect rather than stalling the emitting goroutine, so
// the action pipeline never waits on a subscriber to drain.
type Sink struct {
	mu sync.RWMutex
	subs map[int]chan Effect
	next int
}

// New creates an empty effects sink.
func New() *Sink {
	return &Sink{subs: make(map[int]chan Effect)}
}

// Subscribe registers a new listener with the given buffer depth and
// returns its channel plus an unsubscribe func.
func (s *Sink) Subscribe(buffer int) (<-chan Effect, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan Effect, buffer)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// Emit publishes an effect to every current subscriber. A subscriber
// whose channel is full has its oldest queued effect dropped to make
// room — effects are best-effort notifications, not a reliable log.
func (s *Sink) Emit(e Effect) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}

// EmitActionPre/EmitActionPost are convenience wrappers matching the
// action pipeline's two hook points.
func (s *Sink) EmitActionPre(invocationName string) {
	s.Emit(Effect{Kind: KindActionPre, Payload: ActionHookPayload{InvocationName: invocationName}})
}

func (s *Sink) EmitActionPost(invocationName, resultTag string) {
	s.Emit(Effect{Kind: KindActionPost, Payload: ActionHookPayload{InvocationName: invocationName, ResultTag: resultTag}})
}
