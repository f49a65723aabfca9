package alert

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
	"github.com/riordanpawley/teafoundation/internal/ui/styles"
)

// Confirmed is the only payload that counts as an affirmative answer
const Confirmed = true

const (
	modalWidth = 60
	waitWidth  = 40
)

// Modal renders alerts, confirmations and wait screens.
//
// A plain alert completes with no result on enter or esc. With
// ShouldConfirm it offers Yes/No buttons and completes with the chosen
// bool; esc dismisses without choosing. A bare modal shows a spinner and
// swallows input until its owner removes it.
type Modal struct {
	props    overlay.Props
	node     *overlay.Node
	styles   *overlay.Styles
	spinner  spinner.Model
	selected bool // true = Yes
	done     bool
}

// Component builds Modal instances for the overlay engine
var Component overlay.Component = overlay.ComponentFunc(NewModal)

// NewModal creates a modal for the given props
func NewModal(props overlay.Props, node *overlay.Node) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Mauve)

	return &Modal{
		props:   props,
		node:    node,
		styles:  overlay.New(),
		spinner: sp,
		// destructive confirmations start on No
		selected: !props.HasClass(overlay.ClassDestructive),
	}
}

// Init starts the spinner for wait screens
func (m *Modal) Init() tea.Cmd {
	if m.props.IsBare {
		return m.spinner.Tick
	}
	return nil
}

// Update handles messages
func (m *Modal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.props.IsBare {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.props.IsBare || m.done {
			return m, nil
		}
		if m.props.ShouldConfirm {
			return m, m.handleConfirmKey(msg)
		}
		switch msg.String() {
		case "enter", "esc", " ", "q":
			m.complete(nil)
		}
	}
	return m, nil
}

func (m *Modal) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.complete(Confirmed)
	case "n", "N":
		m.complete(false)
	case "enter":
		m.complete(m.selected)
	case "esc":
		// dismiss without an answer
		m.done = true
		return overlay.Close(m.node)
	case "left", "h":
		m.selected = true
	case "right", "l":
		m.selected = false
	case "tab", "shift+tab":
		m.selected = !m.selected
	}
	return nil
}

func (m *Modal) complete(result any) {
	m.done = true
	m.props.Complete(result)
}

// View renders the modal body
func (m *Modal) View() string {
	if m.props.IsBare {
		return m.spinner.View() + " " + m.props.Message
	}

	var b strings.Builder
	if m.props.Message != "" {
		b.WriteString(m.styles.MenuItem.Render(m.props.Message))
		b.WriteString("\n\n")
	}

	if !m.props.ShouldConfirm {
		b.WriteString(m.styles.MenuItemActive.Render("[ OK ]"))
		b.WriteString(m.styles.Footer.Render("Enter/Esc: Close"))
		return b.String()
	}

	active := m.styles.MenuItemActive
	if m.props.HasClass(overlay.ClassDestructive) {
		active = m.styles.MenuItemDanger
	}
	yesStyle, noStyle := m.styles.MenuItem, m.styles.MenuItem
	if m.selected {
		yesStyle = active
	} else {
		noStyle = m.styles.MenuItemActive
	}

	b.WriteString(yesStyle.Render("[Y] Yes") + "    " + noStyle.Render("[N] No"))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("← → / Tab: Switch • Enter: Confirm • Esc: Cancel"))
	return b.String()
}

// Title returns the modal title
func (m *Modal) Title() string {
	return m.props.Title
}

// Size returns the modal dimensions
func (m *Modal) Size() (width, height int) {
	if m.props.IsBare {
		return waitWidth, 1
	}
	lines := len(strings.Split(m.props.Message, "\n"))
	return modalWidth, lines + 6
}

// Selected reports whether Yes is highlighted
func (m *Modal) Selected() bool {
	return m.selected
}
