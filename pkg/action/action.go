// Package action implements the invocation pipeline :
// resolving a named Action/Command/EditorCommand/NuMacro invocation
// through the registry, checking required capabilities, building a
// consistent ActionContext snapshot, calling the handler with Pre/Post
// effect hooks around it, and returning its ActionResult to the caller.
// Dispatch does not route the result through per-variant handlers; the
// caller receives the Result value as the handler produced it.
//
// Grounded on original_source/crates/action's dispatch loop and
// other_examples/keystorm's plugin/api capability-gating convention
// (plugin/api/registry.go checks a capability set before invoking a
// registered Lua handler — the same shape applied here to Go handlers).
package action

import (
	"gitlab.com/tinyland/lab/xeno/pkg/buffer"
	"gitlab.com/tinyland/lab/xeno/pkg/document"
	"gitlab.com/tinyland/lab/xeno/pkg/effects"
	"gitlab.com/tinyland/lab/xeno/pkg/registry"
	"gitlab.com/tinyland/lab/xeno/pkg/xerr"
)

// Capability is one bit in an invocation's required/exposed capability
// set.
type Capability uint64

const (
	CapText Capability = 1 << iota
	CapCursor
	CapSelection
	CapMode
	CapMessaging
	CapEdit
	CapSearch
	CapUndo
	CapFileOps
	CapOverlay
)

// Kind distinguishes the four invocation payload shapes.
type Kind int

const (
	KindAction Kind = iota
	KindCommand
	KindEditorCommand
	KindNuMacro
)

// MaxCount bounds the numeric count clamp at the engine boundary:
// prevents a pathological repeat loop. math.MaxInt collapses to 1
// (treated as "no explicit count given").
const MaxCount = 1 << 20

// MaxArgs / MaxArgLen bound Command/EditorCommand/NuMacro argv: both the
// argument count and each argument's length are capped independently.
const (
	MaxArgs = 64
	MaxArgLen = 4096
)

// Invocation is the uniform request shape dispatched through the
// pipeline, covering all four Kinds via optional fields.
type Invocation struct {
	Kind Kind
	Name string
	Count int // Action only; clamped by ClampCount before dispatch
	Extend bool // Action only
	Register rune // Action only, 0 if unset
	Char rune // Action only, 0 if unset
	Argv []string // Command/EditorCommand/NuMacro only
}

// ClampCount enforces the count-clamping rule: non-positive or
// pathologically large counts collapse to 1.
func ClampCount(n int) int {
	if n <= 0 {
		return 1
	}
	if n > MaxCount {
		return 1
	}
	return n
}

// Handler is a domain payload: the function a registry entry carries for
// one invocation name.
type Handler func(ctx *Context) Result

// Definition is the registry payload type for the "actions"/"commands"
// domains: required capabilities plus the handler.
type Definition struct {
	RequiredCapabilities Capability
	EditTagged bool // true if this invocation mutates buffer text
	Handler Handler
}

// Context is a consistent snapshot of the focused buffer built once per
// dispatch — handlers read it instead of re-reading
// live buffer state mid-handler, so a handler observes one coherent
// view even after it queues effects.
type Context struct {
	Buffer *buffer.Buffer
	Text string
	Cursor int
	Selection buffer.Selection
	Invocation Invocation
	PendingInput rune // set when resolving a Pending(kind) second dispatch
}

// Result is the sealed tagged union of action outcomes. Each concrete type implements the marker method.
type Result interface {
	isResult()
}

type Ok struct{}
type Quit struct{}
type ForceQuit struct{}
type Motion struct{ Range document.Range }
type MultiMotion struct{ Selection buffer.Selection }
type Edit struct{ Plan document.Transaction }
type Effects struct{ Emit []effects.Effect }
type Pending struct{ Kind string }
type Notify struct {
	Level string
	Message string
}
type OverlayRequest struct {
	Action string // "open" | "close" | "show_info_popup"
	Reason string // set when Action == "close": Cancel|Commit|Blur|Forced
	Target string
}

func (Ok) isResult() {}
func (Quit) isResult() {}
func (ForceQuit) isResult() {}
func (Motion) isResult() {}
func (MultiMotion) isResult() {}
func (Edit) isResult() {}
func (Effects) isResult() {}
func (Pending) isResult() {}
func (Notify) isResult() {}
func (OverlayRequest) isResult() {}

// Policy controls readonly enforcement for the pipeline.
type Policy struct {
	EnforceReadonly bool
}

// Dispatcher resolves invocations through a registry of Definitions,
// enforces capabilities/readonly, and runs the Pre/Post effect hooks.
type Dispatcher struct {
	registry *registry.Registry[Definition]
	effects *effects.Sink
	exposedCaps Capability
	policy Policy
}

// NewDispatcher builds a dispatcher over the given action/command
// registry and effects sink.
func NewDispatcher(reg *registry.Registry[Definition], sink *effects.Sink, exposedCaps Capability, policy Policy) *Dispatcher {
	return &Dispatcher{registry: reg, effects: sink, exposedCaps: exposedCaps, policy: policy}
}

// Dispatch resolves inv.Name through the registry and runs the full
// pipeline. Unknown invocation names produce a
// Notify result with no side effects.
func (d *Dispatcher) Dispatch(buf *buffer.Buffer, inv Invocation) Result {
	inv.Count = ClampCount(inv.Count)

	ref := d.registry.Pin()
	def, ok := ref.ByName(inv.Name)
	if !ok {
		return Notify{Level: "warn", Message: "unknown invocation: " + inv.Name}
	}

	if def.Payload.RequiredCapabilities&^d.exposedCaps != 0 {
		return Notify{Level: "error", Message: "capability denied for " + inv.Name}
	}

	if d.policy.EnforceReadonly && def.Payload.EditTagged && buf.Readonly() {
		return Notify{Level: "error", Message: xerr.ErrReadonlyDenied.Error()}
	}

	d.effects.EmitActionPre(inv.Name)

	ctx := &Context{
		Buffer: buf,
		Text: buf.Document().Text(),
		Cursor: buf.Selection().PrimaryRange().Head,
		Selection: buf.Selection(),
		Invocation: inv,
	}
	result := def.Payload.Handler(ctx)

	d.effects.EmitActionPost(inv.Name, resultTag(result))

	return result
}

func resultTag(r Result) string {
	switch r.(type) {
	case Ok:
		return "ok"
	case Quit:
		return "quit"
	case ForceQuit:
		return "force_quit"
	case Motion:
		return "motion"
	case MultiMotion:
		return "multi_motion"
	case Edit:
		return "edit"
	case Effects:
		return "effects"
	case Pending:
		return "pending"
	case Notify:
		return "notify"
	case OverlayRequest:
		return "overlay_request"
	default:
		return "unknown"
	}
}
