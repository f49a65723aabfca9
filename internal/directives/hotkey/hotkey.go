// Package hotkey dispatches single key presses to registered handlers.
//
// Keys are matched case-insensitively. When several handlers share a key,
// the most recently registered one receives the press; removing it hands
// the key back to the previous registration.
package hotkey

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Handler runs when its key is pressed
type Handler func() tea.Cmd

// Hotkey is one registration
type Hotkey struct {
	registry *Registry
	binding  key.Binding
	handler  Handler
}

// Registry maps keys to the stack of handlers registered for them
type Registry struct {
	mu    sync.Mutex
	byKey map[string][]*Hotkey
}

// New creates an empty registry
func New() *Registry {
	return &Registry{byKey: make(map[string][]*Hotkey)}
}

func normalize(k string) string {
	return strings.ToLower(k)
}

// Register binds k to fn and returns the registration
func (r *Registry) Register(k, help string, fn Handler) *Hotkey {
	h := &Hotkey{registry: r, handler: fn}
	h.binding = key.NewBinding(key.WithKeys(normalize(k)), key.WithHelp(normalize(k), help))
	r.attach(h)
	return h
}

func (r *Registry) attach(h *Hotkey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := h.Key()
	r.byKey[k] = append(r.byKey[k], h)
}

func (r *Registry) detach(h *Hotkey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := h.Key()
	stack := r.byKey[k]
	idx := slices.Index(stack, h)
	if idx < 0 {
		return
	}
	stack = slices.Delete(stack, idx, idx+1)
	if len(stack) == 0 {
		delete(r.byKey, k)
		return
	}
	r.byKey[k] = stack
}

// Key returns the normalized key
func (h *Hotkey) Key() string {
	return h.binding.Keys()[0]
}

// Binding returns the key binding for help rendering
func (h *Hotkey) Binding() key.Binding {
	return h.binding
}

// Unregister removes the registration. Calling it again is a no-op.
func (h *Hotkey) Unregister() {
	h.registry.detach(h)
}

// Rebind moves the registration to k, placing it on top of k's stack
func (h *Hotkey) Rebind(k string) {
	h.registry.detach(h)
	help := h.binding.Help().Desc
	h.binding = key.NewBinding(key.WithKeys(normalize(k)), key.WithHelp(normalize(k), help))
	h.registry.attach(h)
}

// Active reports whether any key is registered
func (r *Registry) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey) > 0
}

// Handle dispatches msg to the newest handler for its key.
// It reports whether the key was consumed.
func (r *Registry) Handle(msg tea.KeyMsg) (tea.Cmd, bool) {
	r.mu.Lock()
	stack := r.byKey[normalize(msg.String())]
	var top *Hotkey
	if len(stack) > 0 {
		top = stack[len(stack)-1]
	}
	r.mu.Unlock()

	if top == nil {
		return nil, false
	}
	if top.handler == nil {
		return nil, true
	}
	return top.handler(), true
}

// Bindings returns the effective binding of every registered key, sorted by key
func (r *Registry) Bindings() []key.Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]key.Binding, 0, len(keys))
	for _, k := range keys {
		stack := r.byKey[k]
		out = append(out, stack[len(stack)-1].binding)
	}
	return out
}

// ShortHelp implements help.KeyMap
func (r *Registry) ShortHelp() []key.Binding {
	return r.Bindings()
}

// FullHelp implements help.KeyMap
func (r *Registry) FullHelp() [][]key.Binding {
	return [][]key.Binding{r.Bindings()}
}
