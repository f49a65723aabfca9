package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Container is the rendering root for an Engine. It paints the document's
// layers in order, drawing live injections on the target layer, and routes
// input to the topmost injection that captures it.
//
// All methods except the registry observer run on the Bubble Tea loop.
type Container struct {
	engine  *Engine
	styles  *Styles
	width   int
	height  int
	changed chan struct{}
	mounted map[string]bool

	unsubscribe func()
}

// NewContainer creates a container observing e's registry
func NewContainer(e *Engine) *Container {
	c := &Container{
		engine:  e,
		styles:  New(),
		changed: make(chan struct{}, 1),
		mounted: make(map[string]bool),
	}
	c.unsubscribe = e.Registry().Subscribe(c.signal)
	return c
}

// signal coalesces registry mutations into one pending wake-up
func (c *Container) signal() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Close stops observing the registry
func (c *Container) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Engine returns the engine this container renders
func (c *Container) Engine() *Engine {
	return c.engine
}

// Init implements tea.Model
func (c *Container) Init() tea.Cmd {
	return tea.Batch(c.listen(), c.sync())
}

// listen waits for the next registry mutation
func (c *Container) listen() tea.Cmd {
	ch := c.changed
	return func() tea.Msg {
		<-ch
		return RegistryChangedMsg{}
	}
}

// sync starts models mounted since the last sync and marks the target inert
// when nothing is mounted
func (c *Container) sync() tea.Cmd {
	live := c.engine.Registry().List()
	seen := make(map[string]bool, len(live))

	var cmds []tea.Cmd
	for _, inj := range live {
		seen[inj.ID] = true
		if c.mounted[inj.ID] {
			continue
		}
		if m := inj.Model(); m != nil {
			cmds = append(cmds, m.Init())
		}
		if c.width > 0 {
			cmds = append(cmds, inj.update(tea.WindowSizeMsg{Width: c.width, Height: c.height}))
		}
	}
	c.mounted = seen
	c.engine.Document().SetInert(TargetID, len(live) == 0)

	return tea.Batch(cmds...)
}

// Handle processes msg and reports whether it was consumed. Unconsumed
// messages should also be handled by the caller's own model.
func (c *Container) Handle(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		return c.broadcast(msg), false

	case RegistryChangedMsg:
		return tea.Batch(c.listen(), c.sync()), true

	case CloseMsg:
		c.engine.RemoveByInstance(msg.Node)
		return nil, true

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return nil, false
		}
		focused := c.Focused()
		if focused == nil {
			return nil, false
		}
		return focused.update(msg), true
	}

	return c.broadcast(msg), false
}

// broadcast forwards msg to every live injection (timers, spinners, resizes)
func (c *Container) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, inj := range c.engine.Registry().List() {
		cmds = append(cmds, inj.update(msg))
	}
	return tea.Batch(cmds...)
}

// Focused returns the topmost injection that captures input, or nil
func (c *Container) Focused() *Injection {
	if target, ok := c.engine.Document().Layer(TargetID); ok && target.Inert {
		return nil
	}
	live := c.engine.Registry().List()
	for i := len(live) - 1; i >= 0; i-- {
		m := live[i].Model()
		if ic, ok := m.(InputCapturer); ok && !ic.CapturesInput() {
			continue
		}
		return live[i]
	}
	return nil
}

// Update implements tea.Model
func (c *Container) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, _ := c.Handle(msg)
	return c, cmd
}

// View implements tea.Model
func (c *Container) View() string {
	return c.Render()
}

// Render paints every document layer in order
func (c *Container) Render() string {
	cv := newCanvas(c.width, c.height)
	for _, layer := range c.engine.Document().Layers() {
		if layer.ID == TargetID {
			c.paintOverlays(cv)
			continue
		}
		if layer.Render != nil {
			cv.draw(0, 0, layer.Render(c.width, c.height))
		}
	}
	return cv.String()
}

// paintOverlays draws injections in registry order. Injections sharing an
// edge anchor stack away from that edge instead of overlapping.
func (c *Container) paintOverlays(cv *canvas) {
	type anchor struct{ h, v lipgloss.Position }
	offsets := make(map[anchor]int)

	for _, inj := range c.engine.Registry().List() {
		block := c.frame(inj)
		if block == "" {
			continue
		}

		h, v := lipgloss.Center, lipgloss.Center
		if p, ok := inj.Model().(Placer); ok {
			h, v = p.Placement()
		}

		key := anchor{h, v}
		cv.place(h, v, offsets[key], block)
		if v == lipgloss.Top || v == lipgloss.Bottom {
			offsets[key] += lipgloss.Height(block)
		}
	}
}

// frame renders an injection, wrapping Overlay models in the modal frame
func (c *Container) frame(inj *Injection) string {
	m := inj.Model()
	if m == nil {
		return ""
	}

	view := m.View()
	ov, ok := m.(Overlay)
	if !ok {
		return view
	}

	if title := ov.Title(); title != "" && !inj.Props.IsBare {
		titleView := c.styles.TitleFor(inj.Props).Render(title)
		view = lipgloss.JoinVertical(lipgloss.Left, titleView, view)
	}

	style := c.styles.Frame(inj.Props)
	if width, _ := ov.Size(); width > 0 {
		style = style.Width(width)
	}
	return style.Render(view)
}
