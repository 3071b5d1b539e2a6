// Package script runs user macros in a sandboxed Lua environment whose
// only effect on the editor is emitting action.Invocation values of
// Kind NuMacro — scripts cannot touch buffers, the filesystem, or the
// network directly; every editor effect is mediated by the dispatcher.
//
// Grounded on dshills/keystorm's internal/plugin/api registry
// (Module/Registry/Inject pattern for exposing a narrow, capability-
// gated Lua API surface), generalized from "many capability-gated
// modules" to "exactly one emit function, no modules at all" since
// scripts may only produce invocations, never mutate core state
// directly.
package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"gitlab.com/tinyland/lab/xeno/pkg/action"
)

// MaxEmitsPerRun caps how many invocations a single script run may
// queue, preventing a runaway loop from producing an unbounded
// invocation backlog.
const MaxEmitsPerRun = 4096

// Emitted is one action.Invocation a script produced via emit(...).
type Emitted struct {
	Invocation action.Invocation
}

// Sandbox runs untrusted Lua source with no stdlib access beyond what
// gopher-lua's OpenBase/OpenString/OpenTable/OpenMath provide (no io, os, or
// package/require — those loaders are simply never opened), plus a
// single injected `emit(name, count, argv...)` global that appends to
// an in-memory queue instead of touching editor state directly.
type Sandbox struct {
	timeout time.Duration
}

// NewSandbox creates a Sandbox that aborts a run after timeout.
func NewSandbox(timeout time.Duration) *Sandbox {
	return &Sandbox{timeout: timeout}
}

// ErrTooManyEmits is returned when a script exceeds MaxEmitsPerRun.
type ErrTooManyEmits struct{}

func (ErrTooManyEmits) Error() string { return "script: exceeded max emitted invocations per run" }

// Run executes source, returning every invocation it emitted in order.
func (s *Sandbox) Run(ctx context.Context, source string) ([]action.Invocation, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("script: open %s: %w", lib.name, err)
		}
	}

	// Scripts must not be able to load code or touch the filesystem:
	// clear the globals the opened libs still leave reachable for that.
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("collectgarbage", lua.LNil)

	emitted := make([]action.Invocation, 0, 16)
	L.SetGlobal("emit", L.NewFunction(func(L *lua.LState) int {
		if len(emitted) >= MaxEmitsPerRun {
			L.RaiseError("%s", ErrTooManyEmits{}.Error())
			return 0
		}
		name := L.CheckString(1)
		count := 1
		if L.GetTop() >= 2 {
			count = int(L.CheckNumber(2))
		}
		var argv []string
		for i := 3; i <= L.GetTop(); i++ {
			argv = append(argv, L.CheckString(i))
		}
		emitted = append(emitted, action.Invocation{
			Kind: action.KindNuMacro,
			Name: name,
			Count: action.ClampCount(count),
			Argv: argv,
		})
		return 0
	}))

	deadline := time.Now().Add(s.timeout)
	L.SetContext(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
		L.SetContext(ctx)
	}

	if err := L.DoString(source); err != nil {
		return emitted, fmt.Errorf("script: %w", err)
	}
	return emitted, nil
}
