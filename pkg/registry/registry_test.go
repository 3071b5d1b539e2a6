package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type textObject struct {
	Trigger string
}

func TestByTriggerRuntimeBeatsBuiltinAtEqualPriority(t *testing.T) {
	// A builtin text object with trigger 'x' and a runtime text object
	// with trigger 'x', both priority 0: ByTrigger returns the runtime
	// one (source-order tiebreak favors Runtime over Builtin).
	r := New[textObject]("text_objects", PolicyStack)
	r.Build([]BuildEntry[textObject]{
		{Name: "word", Aliases: []string{"x"}, Priority: 0, Source: SourceBuiltin, Payload: textObject{Trigger: "x"}},
	})
	_, err := r.Register(BuildEntry[textObject]{Name: "custom_x", Aliases: []string{"x"}, Priority: 0, Source: SourceRuntime, Payload: textObject{Trigger: "x"}})
	require.NoError(t, err)

	ref := r.Pin()
	entry, ok := ref.ByTrigger("x")
	require.True(t, ok)
	require.Equal(t, SourceRuntime, entry.Source)
}

func TestRejectPolicyReturnsRegisterError(t *testing.T) {
	r := New[int]("options", PolicyReject)
	r.Build([]BuildEntry[int]{{Name: "tabwidth", Priority: 0, Source: SourceBuiltin, Payload: 4}})
	_, err := r.Register(BuildEntry[int]{Name: "tabwidth", Priority: 0, Source: SourceRuntime, Payload: 8})
	require.Error(t, err)
	var regErr *RegisterError
	require.ErrorAs(t, err, &regErr)
}

func TestConcurrentRegistrationsBothSurviveNoLostUpdates(t *testing.T) {
	r := New[int]("actions", PolicyStack)
	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d"}
	for i, n := range names {
		wg.Add(1)
		go func(name string, priority int) {
			defer wg.Done()
			_, err := r.Register(BuildEntry[int]{Name: name, Priority: priority, Source: SourceRuntime, Payload: priority})
			require.NoError(t, err)
		}(n, i)
	}
	wg.Wait()

	ref := r.Pin()
	require.Len(t, ref.All(), len(names))
	for _, n := range names {
		_, ok := ref.ByName(n)
		require.True(t, ok, "entry %q must survive concurrent registration", n)
	}
}

func TestPinIsStableAcrossConcurrentPublish(t *testing.T) {
	r := New[int]("themes", PolicyReplace)
	r.Build([]BuildEntry[int]{{Name: "base", Priority: 0, Source: SourceBuiltin, Payload: 1}})
	ref := r.Pin()

	_, err := r.Register(BuildEntry[int]{Name: "extra", Priority: 0, Source: SourceRuntime, Payload: 2})
	require.NoError(t, err)

	// The pinned ref must not observe the later registration.
	require.Len(t, ref.All(), 1)
	require.Len(t, r.Pin().All(), 2)
}

func TestByIDLookup(t *testing.T) {
	r := New[string]("commands", PolicyReplace)
	r.Build([]BuildEntry[string]{{Name: "quit", Priority: 0, Source: SourceBuiltin, Payload: "quit"}})
	ref := r.Pin()
	entries := ref.All()
	require.Len(t, entries, 1)
	got, ok := ref.ByID(entries[0].Id)
	require.True(t, ok)
	require.Equal(t, "quit", got.Payload)
}
