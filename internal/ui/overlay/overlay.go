// Package overlay mounts transient UI (modals, alerts, toasts, wait screens)
// outside the normal model tree and lets callers wait on the user's answer.
//
// An Engine owns an ordered Registry of injections and the Document whose
// last layer is the overlay target. Present wraps creation in a one-shot
// Future that settles when the mounted component invokes its callback.
package overlay

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component builds the model rendered for an injection.
// Implementations must treat node as an identity handle only.
type Component interface {
	Build(props Props, node *Node) tea.Model
}

// ComponentFunc adapts a plain constructor into a Component
type ComponentFunc func(props Props, node *Node) tea.Model

// Build implements Component
func (f ComponentFunc) Build(props Props, node *Node) tea.Model {
	return f(props, node)
}

// Overlay is implemented by models that want the standard modal frame
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// Placer lets a model choose where it is drawn. Models that don't implement
// it are centered.
type Placer interface {
	Placement() (horizontal, vertical lipgloss.Position)
}

// InputCapturer lets a model opt out of keyboard focus (toasts do)
type InputCapturer interface {
	CapturesInput() bool
}

// Props is the property bag handed to a component
type Props struct {
	Title         string
	Message       string
	Classes       []string
	IsBare        bool
	ShouldConfirm bool

	// Callback completes the injection. Presenters install it; components
	// call it at most once with their result (nil for "no choice").
	Callback func(result any)

	// Values carries component-specific inputs
	Values map[string]any
}

// Complete invokes the callback if one is installed
func (p Props) Complete(result any) {
	if p.Callback != nil {
		p.Callback(result)
	}
}

// HasClass reports whether class is present
func (p Props) HasClass(class string) bool {
	return slices.Contains(p.Classes, class)
}

// WithClasses returns a copy with classes prepended, dropping duplicates
func (p Props) WithClasses(classes ...string) Props {
	merged := make([]string, 0, len(classes)+len(p.Classes))
	for _, c := range append(slices.Clone(classes), p.Classes...) {
		if c == "" || slices.Contains(merged, c) {
			continue
		}
		merged = append(merged, c)
	}
	p.Classes = merged
	return p
}

// Value returns a component-specific input
func (p Props) Value(key string) (any, bool) {
	v, ok := p.Values[key]
	return v, ok
}

// Node is a render-tree handle. Nodes are compared by identity; the parent
// pointer is the only relation the removal walk follows.
type Node struct {
	parent *Node
}

// NewNode creates a node under parent (nil for a root)
func NewNode(parent *Node) *Node {
	return &Node{parent: parent}
}

// Parent returns the enclosing node, or nil at a root
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Child creates a node nested under n
func (n *Node) Child() *Node {
	return NewNode(n)
}

// CloseMsg asks the container to dismiss the injection that owns Node,
// searching upward through its ancestors.
type CloseMsg struct {
	Node *Node
}

// Close returns a command emitting CloseMsg for node
func Close(node *Node) tea.Cmd {
	return func() tea.Msg {
		return CloseMsg{Node: node}
	}
}

// RegistryChangedMsg is delivered to the program after the registry mutates
type RegistryChangedMsg struct{}
