package action

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/xeno/pkg/buffer"
	"gitlab.com/tinyland/lab/xeno/pkg/document"
	"gitlab.com/tinyland/lab/xeno/pkg/effects"
	"gitlab.com/tinyland/lab/xeno/pkg/registry"
)

func newTestDispatcher(t *testing.T, caps Capability, policy Policy) (*Dispatcher, *buffer.Buffer) {
	t.Helper()
	reg := registry.New[Definition]("actions", registry.PolicyReplace)
	reg.Build([]registry.BuildEntry[Definition]{
		{Name: "insert_char", Priority: 0, Source: registry.SourceBuiltin, Payload: Definition{
			RequiredCapabilities: CapEdit,
			EditTagged:           true,
			Handler: func(ctx *Context) Result {
				return Edit{Plan: document.Transaction{
					Changes: []document.Change{{Start: ctx.Cursor, End: ctx.Cursor, Replacement: string(ctx.Invocation.Char)}},
					Policy:  document.Record,
				}}
			},
		}},
		{Name: "move_left", Priority: 0, Source: registry.SourceBuiltin, Payload: Definition{
			RequiredCapabilities: CapCursor,
			Handler: func(ctx *Context) Result {
				return Motion{Range: document.Range{Anchor: ctx.Cursor - 1, Head: ctx.Cursor - 1}}
			},
		}},
	})
	sink := effects.New()
	return NewDispatcher(reg, sink, caps, policy), buffer.New(1, document.New(1, "go", "abc"))
}

func TestUnknownInvocationProducesNotifyNoSideEffects(t *testing.T) {
	d, buf := newTestDispatcher(t, CapEdit|CapCursor, Policy{})
	before := buf.Document().Text()
	result := d.Dispatch(buf, Invocation{Kind: KindAction, Name: "does_not_exist"})
	_, isNotify := result.(Notify)
	require.True(t, isNotify)
	require.Equal(t, before, buf.Document().Text())
}

func TestCapabilityDeniedShortCircuits(t *testing.T) {
	d, buf := newTestDispatcher(t, CapCursor, Policy{}) // CapEdit withheld
	result := d.Dispatch(buf, Invocation{Kind: KindAction, Name: "insert_char", Char: 'x'})
	_, isNotify := result.(Notify)
	require.True(t, isNotify)
}

func TestReadonlyDeniesEditTaggedInvocation(t *testing.T) {
	d, buf := newTestDispatcher(t, CapEdit|CapCursor, Policy{EnforceReadonly: true})
	buf.SetReadonly(true)
	result := d.Dispatch(buf, Invocation{Kind: KindAction, Name: "insert_char", Char: 'x'})
	n, isNotify := result.(Notify)
	require.True(t, isNotify)
	require.Contains(t, n.Message, "readonly")
}

func TestCountClampedToOneOnOverflow(t *testing.T) {
	require.Equal(t, 1, ClampCount(0))
	require.Equal(t, 1, ClampCount(-5))
	require.Equal(t, 1, ClampCount(1<<62))
	require.Equal(t, 5, ClampCount(5))
}

func TestMotionResultReturnedFromHandler(t *testing.T) {
	d, buf := newTestDispatcher(t, CapEdit|CapCursor, Policy{})
	buf.SetSelection(buffer.Selection{Ranges: []document.Range{{Anchor: 2, Head: 2}}})
	result := d.Dispatch(buf, Invocation{Kind: KindAction, Name: "move_left"})
	m, ok := result.(Motion)
	require.True(t, ok)
	require.Equal(t, 1, m.Range.Head)
}
