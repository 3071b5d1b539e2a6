// Package registry implements a process-wide, lock-free lookup table: a
// generic, per-domain collection of immutable snapshots published behind
// an atomic pointer, with CAS-based runtime extension, precedence
// resolution, and duplicate policy.
//
// Grounded on original_source/crates/registry's build/publish pipeline
// (interner → staged by_id/by_name maps → Arc snapshot → atomic slot)
// and the lock-free-snapshot pattern demonstrated in
// evalgo-org-eve/inos's use of atomic.Pointer for hot-reloadable config —
// same shape, applied here to registry domains instead of config.
package registry

import (
	"fmt"
	"sync/atomic"
)

// Source distinguishes where an entry's definition came from, used as a
// precedence tiebreaker.
type Source int

const (
	SourceBuiltin Source = iota
	SourceCrate
	SourceRuntime
)

func (s Source) rank() int {
	// Runtime > Crate > Builtin by default.
	switch s {
	case SourceRuntime:
		return 2
	case SourceCrate:
		return 1
	default:
		return 0
	}
}

// DuplicatePolicy selects how a name/trigger collision is resolved.
type DuplicatePolicy int

const (
	PolicyReplace DuplicatePolicy = iota
	PolicyReject
	PolicyStack
)

// Id is a dense per-domain identifier. The zero value is invalid.
type Id uint32

// Entry is one registered definition of payload type P.
type Entry[P any] struct {
	Id Id
	Name string
	Aliases []string
	Description string
	Priority int
	Source Source
	Ordinal uint64 // registration order, used as the final deterministic tiebreak
	Capabilities uint64 // bitset
	Flags uint32
	Payload P
}

// Collision records a losing candidate for diagnostics.
type Collision[P any] struct {
	Winner Entry[P]
	Loser Entry[P]
	Reason string
}

// Snapshot is an immutable view of a domain's registered entries. Once
// published, it is never mutated — readers hold a pointer to one
// indefinitely without risk of observing a partial write.
type Snapshot[P any] struct {
	byID map[Id]*Entry[P]
	byName map[string]*Entry[P]
	byAlias map[string][]*Entry[P] // insertion order preserved per alias for stacking
	entries []*Entry[P]
	collisions []Collision[P]
	nextID Id
	nextOrdinal uint64
}

func emptySnapshot[P any]() *Snapshot[P] {
	return &Snapshot[P]{
		byID: make(map[Id]*Entry[P]),
		byName: make(map[string]*Entry[P]),
		byAlias: make(map[string][]*Entry[P]),
	}
}

// Registry is a generic, per-domain registry. P is the domain's payload
// type (action handler, motion fn, option descriptor, theme colors, ...).
type Registry[P any] struct {
	name string
	policy DuplicatePolicy
	snap atomic.Pointer[Snapshot[P]]
}

// New creates an empty registry for one domain (e.g. "actions", "themes",
// "text_objects"), named for diagnostics and panics.
func New[P any](domainName string, policy DuplicatePolicy) *Registry[P] {
	r := &Registry[P]{name: domainName, policy: policy}
	r.snap.Store(emptySnapshot[P]())
	return r
}

// RegistryRef pins a snapshot for the duration of a read, guaranteeing a
// consistent view across multiple lookups even if a writer publishes a
// newer snapshot concurrently.
type RegistryRef[P any] struct {
	snap *Snapshot[P]
}

// Pin loads the current snapshot and returns a ref over it.
func (r *Registry[P]) Pin() RegistryRef[P] {
	return RegistryRef[P]{snap: r.snap.Load()}
}

// ByName resolves a canonical name. O(1).
func (ref RegistryRef[P]) ByName(name string) (*Entry[P], bool) {
	e, ok := ref.snap.byName[name]
	return e, ok
}

// ByTrigger resolves by alias/trigger, returning the highest-precedence
// match when multiple entries stack under the same trigger.
func (ref RegistryRef[P]) ByTrigger(trigger string) (*Entry[P], bool) {
	candidates := ref.snap.byAlias[trigger]
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if precedes(c, best) {
			best = c
		}
	}
	return best, true
}

// ByID resolves by dense id.
func (ref RegistryRef[P]) ByID(id Id) (*Entry[P], bool) {
	e, ok := ref.snap.byID[id]
	return e, ok
}

// All returns every entry in registration order. The returned slice must
// not be mutated.
func (ref RegistryRef[P]) All() []*Entry[P] { return ref.snap.entries }

// Collisions returns every losing candidate recorded during build/merge.
func (ref RegistryRef[P]) Collisions() []Collision[P] { return ref.snap.collisions }

// precedes reports whether a takes precedence over b: higher priority
// wins; ties broken by source rank; final tiebreak by ordinal (higher =
// more recently registered wins, matching "Runtime > Crate > Builtin").
func precedes[P any](a, b *Entry[P]) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Source.rank() != b.Source.rank() {
		return a.Source.rank() > b.Source.rank()
	}
	return a.Ordinal > b.Ordinal
}

// BuildEntry is the unpublished candidate passed to Build/Register: a
// fully-formed Entry minus the Id/Ordinal, which the registry assigns.
type BuildEntry[P any] struct {
	Name string
	Aliases []string
	Description string
	Priority int
	Source Source
	Capabilities uint64
	Flags uint32
	Payload P
}

// RegisterError is returned when PolicyReject rejects a candidate.
type RegisterError struct {
	Domain string
	Winner string
	Loser string
	Reason string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("registry[%s]: rejected %q (winner %q): %s", e.Domain, e.Loser, e.Winner, e.Reason)
}

// Build replaces the registry's contents wholesale with the given
// candidates. It performs no spec/handler linking and no orphan check:
// every candidate is inserted as given, including one whose handler
// is missing.
func (r *Registry[P]) Build(candidates []BuildEntry[P]) {
	snap := emptySnapshot[P]()
	for _, c := range candidates {
		r.insert(snap, c)
	}
	r.snap.Store(snap)
}

// Register performs a CAS-loop runtime extension : load current snapshot, build a candidate entry, merge under
// duplicate policy + precedence, CAS in a new snapshot. Retries on
// contention. Returns the assigned Id, or an error if PolicyReject fired.
func (r *Registry[P]) Register(candidate BuildEntry[P]) (Id, error) {
	for {
		old := r.snap.Load()
		next := cloneSnapshot(old)
		id, err := r.insertWithPolicy(next, candidate)
		if err != nil {
			return 0, err
		}
		if r.snap.CompareAndSwap(old, next) {
			return id, nil
		}
		// Lost the race: another writer published first. Retry from the
		// new head.
	}
}

func cloneSnapshot[P any](s *Snapshot[P]) *Snapshot[P] {
	n := &Snapshot[P]{
		byID: make(map[Id]*Entry[P], len(s.byID)),
		byName: make(map[string]*Entry[P], len(s.byName)),
		byAlias: make(map[string][]*Entry[P], len(s.byAlias)),
		entries: append([]*Entry[P](nil), s.entries...),
		collisions: append([]Collision[P](nil), s.collisions...),
		nextID: s.nextID,
		nextOrdinal: s.nextOrdinal,
	}
	for k, v := range s.byID {
		n.byID[k] = v
	}
	for k, v := range s.byName {
		n.byName[k] = v
	}
	for k, v := range s.byAlias {
		n.byAlias[k] = append([]*Entry[P](nil), v...)
	}
	return n
}

func (r *Registry[P]) insert(snap *Snapshot[P], c BuildEntry[P]) {
	_, _ = r.insertWithPolicy(snap, c)
}

func (r *Registry[P]) insertWithPolicy(snap *Snapshot[P], c BuildEntry[P]) (Id, error) {
	snap.nextID++
	snap.nextOrdinal++
	e := &Entry[P]{
		Id: snap.nextID,
		Name: c.Name,
		Aliases: c.Aliases,
		Description: c.Description,
		Priority: c.Priority,
		Source: c.Source,
		Ordinal: snap.nextOrdinal,
		Capabilities: c.Capabilities,
		Flags: c.Flags,
		Payload: c.Payload,
	}

	if existing, ok := snap.byName[c.Name]; ok {
		winner, loser, rejected := resolveDuplicate(r.policy, existing, e)
		if rejected {
			return 0, &RegisterError{Domain: r.name, Winner: existing.Name, Loser: c.Name, Reason: "duplicate name rejected by policy"}
		}
		snap.collisions = append(snap.collisions, Collision[P]{Winner: *winner, Loser: *loser, Reason: "duplicate name"})
		if winner == e {
			snap.byName[c.Name] = e
		}
	} else {
		snap.byName[c.Name] = e
	}

	snap.byID[e.Id] = e
	snap.entries = append(snap.entries, e)
	for _, alias := range append([]string{c.Name}, c.Aliases...) {
		snap.byAlias[alias] = append(snap.byAlias[alias], e)
	}
	return e.Id, nil
}

// resolveDuplicate applies the domain's DuplicatePolicy to a name
// collision, returning (winner, loser, rejected).
func resolveDuplicate[P any](policy DuplicatePolicy, existing, incoming *Entry[P]) (*Entry[P], *Entry[P], bool) {
	switch policy {
	case PolicyReject:
		return existing, incoming, true
	case PolicyStack:
		// Both survive under distinct ids; "winner" for by_name purposes is
		// whichever has precedence, but by_name itself just keeps the
		// highest-precedence entry while by_alias retains both.
		if precedes(incoming, existing) {
			return incoming, existing, false
		}
		return existing, incoming, false
	default: // PolicyReplace
		if precedes(incoming, existing) {
			return incoming, existing, false
		}
		return existing, incoming, false
	}
}
