package overlay

import (
	"slices"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Injection is one mounted overlay instance
type Injection struct {
	ID        string
	Component Component
	Props     Props
	Node      *Node

	mu        sync.Mutex
	model     tea.Model
	completed atomic.Bool
}

// Model returns the current model for this injection
func (i *Injection) Model() tea.Model {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.model
}

func (i *Injection) setModel(m tea.Model) {
	i.mu.Lock()
	i.model = m
	i.mu.Unlock()
}

// update forwards msg to the model and keeps the returned model
func (i *Injection) update(msg tea.Msg) tea.Cmd {
	i.mu.Lock()
	current := i.model
	i.mu.Unlock()
	if current == nil {
		return nil
	}

	next, cmd := current.Update(msg)
	if next != nil {
		i.setModel(next)
	}
	return cmd
}

type observer struct {
	id int
	fn func()
}

// Registry is the ordered set of live injections.
// Order is insertion order and doubles as z-order (later is on top).
type Registry struct {
	mu        sync.RWMutex
	entries   []*Injection
	observers []observer
	nextObs   int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]*Injection, 0),
	}
}

// Insert appends inj to the top of the registry
func (r *Registry) Insert(inj *Injection) {
	r.mu.Lock()
	r.entries = append(r.entries, inj)
	r.mu.Unlock()
	r.notify()
}

// RemoveByID evicts the entry with the given ID.
// Removing an absent entry is a no-op that returns false.
func (r *Registry) RemoveByID(id string) bool {
	return r.take(func(i *Injection) bool { return i.ID == id }) != nil
}

// RemoveByNode evicts the entry whose render node is node
func (r *Registry) RemoveByNode(node *Node) bool {
	return r.takeByNode(node) != nil
}

func (r *Registry) takeByNode(node *Node) *Injection {
	if node == nil {
		return nil
	}
	return r.take(func(i *Injection) bool { return i.Node == node })
}

func (r *Registry) take(match func(*Injection) bool) *Injection {
	r.mu.Lock()
	idx := slices.IndexFunc(r.entries, match)
	if idx < 0 {
		r.mu.Unlock()
		return nil
	}
	inj := r.entries[idx]
	r.entries = slices.Delete(r.entries, idx, idx+1)
	r.mu.Unlock()

	r.notify()
	return inj
}

// Get returns the live entry with the given ID
func (r *Registry) Get(id string) (*Injection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inj := range r.entries {
		if inj.ID == id {
			return inj, true
		}
	}
	return nil, false
}

// List returns a snapshot of the live entries in insertion order
func (r *Registry) List() []*Injection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// Len returns the number of live entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IsEmpty returns true if the registry has no entries
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// Top returns the most recently inserted live entry, or nil
func (r *Registry) Top() *Injection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

// Subscribe registers fn to run synchronously after every mutation.
// fn runs outside the registry lock and must not block.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextObs
	r.nextObs++
	r.observers = append(r.observers, observer{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.observers = slices.DeleteFunc(r.observers, func(o observer) bool { return o.id == id })
	}
}

// Observers returns the number of subscribed observers
func (r *Registry) Observers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.observers)
}

func (r *Registry) notify() {
	r.mu.RLock()
	observers := slices.Clone(r.observers)
	r.mu.RUnlock()

	for _, o := range observers {
		o.fn()
	}
}
