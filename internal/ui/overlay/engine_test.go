package overlay

import (
	"context"
	"math/rand"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riordanpawley/teafoundation/internal/types"
)

// stubModel is a minimal component used across the overlay tests
type stubModel struct {
	props   Props
	node    *Node
	passive bool
	keys    []string
}

func (m *stubModel) Init() tea.Cmd { return nil }

func (m *stubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		m.keys = append(m.keys, key.String())
		switch key.String() {
		case "enter":
			m.props.Complete(true)
		case "x":
			return m, Close(m.node.Child())
		}
	}
	return m, nil
}

func (m *stubModel) View() string { return "stub:" + m.props.Title }

func (m *stubModel) CapturesInput() bool { return !m.passive }

func stubComponent() Component {
	return ComponentFunc(func(props Props, node *Node) tea.Model {
		return &stubModel{props: props, node: node}
	})
}

func passiveComponent() Component {
	return ComponentFunc(func(props Props, node *Node) tea.Model {
		return &stubModel{props: props, node: node, passive: true}
	})
}

func newTestEngine() *Engine {
	return NewEngine(nil, nil)
}

func ids(list []*Injection) []string {
	out := make([]string, len(list))
	for i, inj := range list {
		out[i] = inj.ID
	}
	return out
}

func TestCreateAssignsUniqueIncreasingIDs(t *testing.T) {
	a := newTestEngine()
	b := newTestEngine()

	first := a.Create(stubComponent(), Props{})
	second := b.Create(stubComponent(), Props{})
	third := a.Create(stubComponent(), Props{})

	n1, _ := strconv.ParseUint(first.ID, 10, 64)
	n2, _ := strconv.ParseUint(second.ID, 10, 64)
	n3, _ := strconv.ParseUint(third.ID, 10, 64)

	assert.Less(t, n1, n2, "IDs are process-wide, not per engine")
	assert.Less(t, n2, n3)
	assert.NotNil(t, first.Node)
	assert.NotSame(t, first.Node, third.Node)
}

func TestCreateBuildsModelWithPropsAndNode(t *testing.T) {
	e := newTestEngine()
	inj := e.Create(stubComponent(), Props{Title: "Hello"})

	m, ok := inj.Model().(*stubModel)
	require.True(t, ok)
	assert.Equal(t, "Hello", m.props.Title)
	assert.Same(t, inj.Node, m.node)
	assert.Equal(t, 1, e.Registry().Len())
	assert.Same(t, inj, e.Registry().Top())
}

func TestCreatePropagatesBuildPanic(t *testing.T) {
	e := newTestEngine()
	boom := ComponentFunc(func(Props, *Node) tea.Model { panic("bad component") })

	assert.PanicsWithValue(t, "bad component", func() {
		e.Create(boom, Props{})
	})
	assert.True(t, e.Registry().IsEmpty())
}

func TestRegistryOrderSurvivesRemovals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		e := newTestEngine()
		n := 1 + rng.Intn(12)

		var inserted []string
		for i := 0; i < n; i++ {
			inserted = append(inserted, e.Create(stubComponent(), Props{}).ID)
		}

		removed := make(map[string]bool)
		for _, idx := range rng.Perm(n)[:rng.Intn(n+1)] {
			id := inserted[idx]
			assert.True(t, e.RemoveByID(id))
			removed[id] = true

			want := slices.DeleteFunc(slices.Clone(inserted), func(id string) bool { return removed[id] })
			require.Equal(t, want, ids(e.Registry().List()))
		}
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	e := newTestEngine()
	inj := e.Create(stubComponent(), Props{})

	assert.True(t, e.Remove(inj))
	assert.False(t, e.Remove(inj))
	assert.False(t, e.RemoveByID("does-not-exist"))
	assert.False(t, e.RemoveByNode(NewNode(nil)))
	assert.False(t, e.RemoveByNode(nil))
	assert.False(t, e.Remove(nil))
}

func TestRegistryNotifiesObservers(t *testing.T) {
	e := newTestEngine()
	calls := 0
	unsubscribe := e.Registry().Subscribe(func() { calls++ })
	assert.Equal(t, 1, e.Registry().Observers())

	inj := e.Create(stubComponent(), Props{})
	assert.Equal(t, 1, calls)

	e.Remove(inj)
	assert.Equal(t, 2, calls)

	e.Remove(inj)
	assert.Equal(t, 2, calls, "no-op removal does not notify")

	unsubscribe()
	assert.Zero(t, e.Registry().Observers())
	e.Create(stubComponent(), Props{})
	assert.Equal(t, 2, calls)
}

func TestRegistryGet(t *testing.T) {
	e := newTestEngine()
	inj := e.Create(stubComponent(), Props{})

	got, ok := e.Registry().Get(inj.ID)
	assert.True(t, ok)
	assert.Same(t, inj, got)

	e.Remove(inj)
	_, ok = e.Registry().Get(inj.ID)
	assert.False(t, ok)
	assert.Nil(t, e.Registry().Top())
}

func TestPresentResolvesOnce(t *testing.T) {
	e := newTestEngine()
	f := Present[bool](e, stubComponent(), Props{Title: "Sure?"})

	assert.Equal(t, types.Pending, f.State())
	_, settled := f.Result()
	assert.False(t, settled)
	assert.Equal(t, 1, e.Registry().Len())

	inj := f.Injection()
	require.NotNil(t, inj.Props.Callback)

	other := e.Create(stubComponent(), Props{})

	inj.Props.Callback(true)
	res, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.Value)
	assert.Equal(t, types.Resolved, f.State())
	assert.Equal(t, []string{other.ID}, ids(e.Registry().List()))

	// second invocation changes nothing
	inj.Props.Callback(false)
	res, _ = f.Result()
	assert.True(t, res.Value)
	assert.Equal(t, []string{other.ID}, ids(e.Registry().List()))
}

func TestPresentCompletedDuringBuildIsNeverMounted(t *testing.T) {
	e := newTestEngine()
	notified := 0
	e.Registry().Subscribe(func() { notified++ })

	eager := ComponentFunc(func(props Props, node *Node) tea.Model {
		props.Complete("early")
		return &stubModel{props: props, node: node}
	})
	f := Present[string](e, eager, Props{})

	res, settled := f.Result()
	require.True(t, settled)
	assert.Equal(t, Result[string]{Value: "early", OK: true}, res)
	assert.Equal(t, types.Resolved, f.State())
	assert.True(t, e.Registry().IsEmpty())
	assert.Zero(t, notified)

	// later presentations mount normally
	later := Present[string](e, stubComponent(), Props{})
	assert.Equal(t, []string{later.Injection().ID}, ids(e.Registry().List()))
}

func TestPresentWithUnexpectedPayloadIsUndefined(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name    string
		payload any
	}{
		{"nil", nil},
		{"string", "yes"},
		{"int", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Present[bool](e, stubComponent(), Props{})
			f.Injection().Props.Complete(tt.payload)

			res, ok := f.Result()
			require.True(t, ok)
			assert.False(t, res.OK)
			assert.False(t, res.Value)
		})
	}
	assert.True(t, e.Registry().IsEmpty())
}

func TestPresentAnyNilIsUndefined(t *testing.T) {
	e := newTestEngine()
	f := Present[any](e, stubComponent(), Props{})
	f.Injection().Props.Complete(nil)

	res, ok := f.Result()
	require.True(t, ok)
	assert.False(t, res.OK)
	assert.Nil(t, res.Value)
}

func TestAwaitHonoursCallerContext(t *testing.T) {
	e := newTestEngine()
	f := Present[bool](e, stubComponent(), Props{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, types.Pending, f.State())
	assert.Equal(t, 1, e.Registry().Len(), "timing out does not unmount")
}

func TestAwaitFromAnotherGoroutine(t *testing.T) {
	e := newTestEngine()
	f := Present[string](e, stubComponent(), Props{})

	var wg sync.WaitGroup
	var got Result[string]
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, _ = f.Await(context.Background())
	}()

	f.Injection().Props.Complete("picked")
	wg.Wait()

	assert.Equal(t, Result[string]{Value: "picked", OK: true}, got)
}

func TestFutureCmd(t *testing.T) {
	type answeredMsg struct{ ok bool }

	e := newTestEngine()
	f := Present[bool](e, stubComponent(), Props{})
	cmd := f.Cmd(func(r Result[bool]) tea.Msg { return answeredMsg{ok: r.Value} })

	f.Injection().Props.Complete(true)
	assert.Equal(t, answeredMsg{ok: true}, cmd())
}

func TestRemoveByInstanceWalksAncestors(t *testing.T) {
	e := newTestEngine()
	f := Present[bool](e, stubComponent(), Props{})
	keep := e.Create(stubComponent(), Props{})

	deep := f.Injection().Node.Child().Child().Child()
	assert.True(t, e.RemoveByInstance(deep))

	res, ok := f.Result()
	require.True(t, ok, "dismissal settles the presentation")
	assert.False(t, res.OK)
	assert.Equal(t, []string{keep.ID}, ids(e.Registry().List()))
}

func TestRemoveByInstanceWithoutMatch(t *testing.T) {
	e := newTestEngine()
	inj := e.Create(stubComponent(), Props{})

	stranger := NewNode(nil).Child().Child()
	assert.False(t, e.RemoveByInstance(stranger))
	assert.False(t, e.RemoveByInstance(nil))
	assert.Equal(t, 1, e.Registry().Len())

	assert.True(t, e.RemoveByInstance(inj.Node))
	assert.False(t, e.RemoveByInstance(inj.Node.Child()), "already removed")
}

func TestRemoveByInstanceStopsAtFirstMatch(t *testing.T) {
	e := newTestEngine()
	outer := e.Create(stubComponent(), Props{})

	// an injection whose node hangs below another live injection's node
	inner := &Injection{ID: nextInjectionID(), Component: stubComponent(), Node: outer.Node.Child()}
	e.Registry().Insert(inner)

	assert.True(t, e.RemoveByInstance(inner.Node.Child()))
	assert.Equal(t, []string{outer.ID}, ids(e.Registry().List()))
}

func TestFirstRemovalWins(t *testing.T) {
	e := newTestEngine()
	f := Present[bool](e, stubComponent(), Props{})
	inj := f.Injection()

	// dismissal from inside the tree lands first, then the user's answer
	assert.True(t, e.RemoveByInstance(inj.Node))
	inj.Props.Complete(true)

	res, _ := f.Result()
	assert.False(t, res.OK, "the dismissal settled first")
	assert.True(t, e.Registry().IsEmpty())

	// and the other way around
	f = Present[bool](e, stubComponent(), Props{})
	inj = f.Injection()
	inj.Props.Complete(true)
	assert.False(t, e.RemoveByInstance(inj.Node))

	res, _ = f.Result()
	assert.True(t, res.Value)
}

func TestConcurrentPresentations(t *testing.T) {
	e := newTestEngine()
	const n = 20

	var wg sync.WaitGroup
	futures := make([]*Future[int], n)
	for i := 0; i < n; i++ {
		futures[i] = Present[int](e, stubComponent(), Props{})
	}
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			futures[i].Injection().Props.Complete(i)
		}(i)
		go func(i int) {
			defer wg.Done()
			e.RemoveByInstance(futures[i].Injection().Node)
		}(i)
	}
	wg.Wait()

	assert.True(t, e.Registry().IsEmpty())
	for i, f := range futures {
		res, ok := f.Result()
		require.True(t, ok)
		if res.OK {
			assert.Equal(t, i, res.Value)
		}
	}
}

func TestPropsWithClasses(t *testing.T) {
	p := Props{Classes: []string{"wide", "wait"}}
	got := p.WithClasses("wait", "destructive", "")

	assert.Equal(t, []string{"wait", "destructive", "wide"}, got.Classes)
	assert.Equal(t, []string{"wide", "wait"}, p.Classes, "original untouched")
	assert.True(t, got.HasClass("destructive"))
	assert.False(t, p.HasClass("destructive"))
}

func TestPropsValue(t *testing.T) {
	p := Props{Values: map[string]any{"level": 2}}
	v, ok := p.Value("level")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = Props{}.Value("level")
	assert.False(t, ok)

	assert.NotPanics(t, func() { Props{}.Complete(nil) })
}
