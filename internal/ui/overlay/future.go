package overlay

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/teafoundation/internal/types"
)

// Result is what a presentation settles with. OK is false when the
// component completed without a value of the expected type.
type Result[R any] struct {
	Value R
	OK    bool
}

// Future is a one-shot settlement for a single presentation
type Future[R any] struct {
	injection *Injection
	once      sync.Once
	done      chan struct{}
	result    Result[R]
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// settle records the first value only; later calls report false
func (f *Future[R]) settle(v any) bool {
	settled := false
	f.once.Do(func() {
		value, ok := v.(R)
		f.result = Result[R]{Value: value, OK: ok}
		close(f.done)
		settled = true
	})
	return settled
}

// Injection returns the injection mounted for this presentation
func (f *Future[R]) Injection() *Injection {
	return f.injection
}

// Done is closed once the presentation resolves
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// State reports whether the presentation is still pending
func (f *Future[R]) State() types.PresentationState {
	select {
	case <-f.done:
		return types.Resolved
	default:
		return types.Pending
	}
}

// Result returns the settled result without blocking.
// The second return value is false while pending.
func (f *Future[R]) Result() (Result[R], bool) {
	select {
	case <-f.done:
		return f.result, true
	default:
		return Result[R]{}, false
	}
}

// Await blocks until the presentation resolves. The only error is the
// caller's own context ending first; the presentation stays mounted.
func (f *Future[R]) Await(ctx context.Context) (Result[R], error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Result[R]{}, ctx.Err()
	}
}

// Cmd turns the future into a command that delivers fn(result) once resolved
func (f *Future[R]) Cmd(fn func(Result[R]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-f.done
		return fn(f.result)
	}
}

// Present mounts component and returns a future that settles when the
// component invokes its callback. The callback removes the injection and
// settles the future; only the first invocation has any effect.
func Present[R any](e *Engine, component Component, props Props) *Future[R] {
	f := newFuture[R]()
	f.injection = e.mount(component, props, func(inj *Injection, p *Props) {
		id := inj.ID
		p.Callback = func(result any) {
			e.RemoveByID(id)
			f.settle(result)
		}
	})
	return f
}
