// Package toast shows short-lived notifications in the corner of the screen.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/teafoundation/internal/config"
	"github.com/riordanpawley/teafoundation/internal/types"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
	"github.com/riordanpawley/teafoundation/internal/ui/styles"
)

const (
	valueLevel    = "level"
	valueDuration = "duration"
	valueWidth    = "width"
)

// Options describes a toast
type Options struct {
	Message string
	Level   types.ToastLevel
	// Duration defaults to the configured toast duration; negative keeps
	// the toast until it is dismissed
	Duration time.Duration
}

// expiredMsg is delivered to every toast; only the owner reacts
type expiredMsg struct {
	toast *Toast
}

// Toast is a passive notification that completes itself when its timer fires
type Toast struct {
	props    overlay.Props
	level    types.ToastLevel
	duration time.Duration
	maxWidth int
	width    int
	styles   *styles.Styles
}

// Component builds Toast instances for the overlay engine
var Component overlay.Component = overlay.ComponentFunc(New)

// New creates a toast from props. Level, duration and width are read from
// props.Values.
func New(props overlay.Props, _ *overlay.Node) tea.Model {
	t := &Toast{
		props:    props,
		duration: config.Current().ToastDuration(),
		maxWidth: config.Current().Toast.MaxWidth,
		styles:   styles.New(),
	}
	if v, ok := props.Value(valueLevel); ok {
		t.level, _ = v.(types.ToastLevel)
	}
	if v, ok := props.Value(valueDuration); ok {
		if d, ok := v.(time.Duration); ok && d != 0 {
			t.duration = d
		}
	}
	if v, ok := props.Value(valueWidth); ok {
		if w, ok := v.(int); ok && w > 0 {
			t.maxWidth = w
		}
	}
	t.width = t.maxWidth
	return t
}

// Init starts the expiry timer
func (t *Toast) Init() tea.Cmd {
	if t.duration < 0 {
		return nil
	}
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return expiredMsg{toast: t}
	})
}

// Update handles messages
func (t *Toast) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expiredMsg:
		if msg.toast == t {
			t.props.Complete(nil)
		}
	case tea.WindowSizeMsg:
		// leave room for the rest of the screen on narrow terminals
		t.width = min(t.maxWidth, max(msg.Width/3, 20))
	}
	return t, nil
}

// View renders the toast
func (t *Toast) View() string {
	return t.styles.Toast(t.level).Width(t.width).Render(t.props.Message)
}

// Placement anchors toasts to the bottom-right corner
func (t *Toast) Placement() (lipgloss.Position, lipgloss.Position) {
	return lipgloss.Right, lipgloss.Bottom
}

// CapturesInput is false; toasts never take focus
func (t *Toast) CapturesInput() bool {
	return false
}

// Level returns the toast level
func (t *Toast) Level() types.ToastLevel {
	return t.level
}

// Width returns the current render width
func (t *Toast) Width() int {
	return t.width
}

// Duration returns how long the toast stays up
func (t *Toast) Duration() time.Duration {
	return t.duration
}

// Show mounts a toast. The toast removes itself when its timer fires; the
// returned function removes it early.
func Show(e *overlay.Engine, opts Options) (dismiss func()) {
	props := overlay.Props{
		Message: opts.Message,
		Values: map[string]any{
			valueLevel:    opts.Level,
			valueDuration: opts.Duration,
		},
	}

	inj := overlay.Present[any](e, Component, props).Injection()
	return func() { e.Remove(inj) }
}
