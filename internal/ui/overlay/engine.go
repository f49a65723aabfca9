package overlay

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

// injectionSeq makes injection IDs unique across every engine in the process
var injectionSeq atomic.Uint64

func nextInjectionID() string {
	return strconv.FormatUint(injectionSeq.Add(1), 10)
}

// Engine creates, tracks and removes injections.
// One engine is owned by the rendering root of an application.
type Engine struct {
	registry *Registry
	document *Document
	logger   *slog.Logger
}

// NewEngine creates an engine painting into doc.
// A nil doc gets an empty document; a nil logger uses slog.Default().
func NewEngine(doc *Document, logger *slog.Logger) *Engine {
	if doc == nil {
		doc = NewDocument()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: NewRegistry(),
		document: doc,
		logger:   logger,
	}
}

// Registry returns the engine's injection registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Document returns the document the engine paints into
func (e *Engine) Document() *Document {
	return e.document
}

// Create mounts component with props and returns the live injection.
// Props are used as given; no callback is installed.
func (e *Engine) Create(component Component, props Props) *Injection {
	return e.mount(component, props, nil)
}

// mount builds and inserts an injection. wire runs after the ID is known
// and before the model is built, so it can install a callback that refers
// to the injection itself.
func (e *Engine) mount(component Component, props Props, wire func(inj *Injection, props *Props)) *Injection {
	// the model renders into the target, so it must exist first
	e.document.EnsureTarget()

	inj := &Injection{
		ID:        nextInjectionID(),
		Component: component,
		Node:      NewNode(nil),
	}
	if wire != nil {
		wire(inj, &props)
	}
	if cb := props.Callback; cb != nil {
		props.Callback = func(result any) {
			inj.completed.Store(true)
			cb(result)
		}
	}
	inj.Props = props
	inj.model = component.Build(props, inj.Node)

	// a component that completed while being built has nothing left to show
	if inj.completed.Load() {
		e.logger.Debug("overlay completed during build", "id", inj.ID)
		return inj
	}
	e.registry.Insert(inj)
	e.logger.Debug("overlay mounted", "id", inj.ID, "title", props.Title, "classes", props.Classes)

	return inj
}

// Remove evicts inj. The injection's callback is not invoked.
func (e *Engine) Remove(inj *Injection) bool {
	if inj == nil {
		return false
	}
	return e.RemoveByID(inj.ID)
}

// RemoveByID evicts the injection with the given ID without invoking its callback
func (e *Engine) RemoveByID(id string) bool {
	removed := e.registry.RemoveByID(id)
	if removed {
		e.logger.Debug("overlay removed", "id", id)
	}
	return removed
}

// RemoveByNode evicts the injection rendered at node and completes it
// with no result. The entry leaves the registry before the callback runs,
// so whichever removal path gets there first wins.
func (e *Engine) RemoveByNode(node *Node) bool {
	inj := e.registry.takeByNode(node)
	if inj == nil {
		return false
	}
	e.logger.Debug("overlay dismissed", "id", inj.ID)
	inj.Props.Complete(nil)
	return true
}

// RemoveByInstance dismisses the injection owning node, walking up through
// node's ancestors until one matches or a root is reached.
func (e *Engine) RemoveByInstance(node *Node) bool {
	for n := node; n != nil; n = n.Parent() {
		if e.RemoveByNode(n) {
			return true
		}
	}
	return false
}
