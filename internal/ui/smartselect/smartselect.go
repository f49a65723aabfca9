// Package smartselect is a fuzzy-filtered picker presented as an overlay.
package smartselect

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/riordanpawley/teafoundation/internal/config"
	"github.com/riordanpawley/teafoundation/internal/helpers"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
)

// Option is one selectable entry. Key identifies it across updates;
// SearchContent, when set, is matched instead of Title and Subtitle.
type Option[T any] struct {
	Key           string
	Title         string
	Subtitle      string
	SearchContent string
	Ref           T
}

func (o Option[T]) searchText() string {
	if o.SearchContent != "" {
		return o.SearchContent
	}
	if o.Subtitle == "" {
		return o.Title
	}
	return o.Title + " " + o.Subtitle
}

// Options configures a picker
type Options[T any] struct {
	Title       string
	Placeholder string
	Options     []Option[T]
	// MaxVisible defaults to the configured select height
	MaxVisible int
}

// source adapts options to fuzzy.Source
type source[T any] []Option[T]

func (s source[T]) String(i int) string { return s[i].searchText() }
func (s source[T]) Len() int            { return len(s) }

// Model is the picker. Enter completes with the highlighted Option;
// esc dismisses without a choice.
type Model[T any] struct {
	props      overlay.Props
	node       *overlay.Node
	styles     *overlay.Styles
	input      textinput.Model
	options    []Option[T]
	filtered   []int
	cursor     int
	maxVisible int
}

// Component returns a component building pickers over opts
func Component[T any](opts Options[T]) overlay.Component {
	return overlay.ComponentFunc(func(props overlay.Props, node *overlay.Node) tea.Model {
		return NewModel(opts, props, node)
	})
}

// NewModel creates a picker. props supplies the title and callback.
func NewModel[T any](opts Options[T], props overlay.Props, node *overlay.Node) *Model[T] {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Type to filter…"
	}
	ti.Prompt = "> "
	ti.Focus()

	maxVisible := opts.MaxVisible
	if maxVisible <= 0 {
		maxVisible = config.Current().Select.MaxVisible
	}

	m := &Model[T]{
		props:      props,
		node:       node,
		styles:     overlay.New(),
		input:      ti,
		options:    append([]Option[T](nil), opts.Options...),
		maxVisible: maxVisible,
	}
	m.refilter()
	return m
}

// Init implements tea.Model
func (m *Model[T]) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, overlay.Close(m.node)
		case "enter":
			if opt, ok := m.Selected(); ok {
				m.props.Complete(opt)
			}
			return m, nil
		case "up", "ctrl+p", "shift+tab":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n", "tab":
			m.move(1)
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *Model[T]) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.filtered)) % len(m.filtered)
}

// refilter recomputes the visible options for the current query
func (m *Model[T]) refilter() {
	query := strings.TrimSpace(m.input.Value())
	m.filtered = m.filtered[:0]

	if query == "" {
		for i := range m.options {
			m.filtered = append(m.filtered, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(query, source[T](m.options)) {
			m.filtered = append(m.filtered, match.Index)
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

// SetQuery replaces the filter text
func (m *Model[T]) SetQuery(q string) {
	m.input.SetValue(q)
	m.cursor = 0
	m.refilter()
}

// Visible returns the options matching the current query, best match first
func (m *Model[T]) Visible() []Option[T] {
	out := make([]Option[T], len(m.filtered))
	for i, idx := range m.filtered {
		out[i] = m.options[idx]
	}
	return out
}

// Selected returns the highlighted option
func (m *Model[T]) Selected() (Option[T], bool) {
	if len(m.filtered) == 0 {
		return Option[T]{}, false
	}
	return m.options[m.filtered[m.cursor]], true
}

// UpdateOption replaces the option with the same key. It reports whether
// one was found.
func (m *Model[T]) UpdateOption(opt Option[T]) bool {
	if !helpers.ReplaceFunc(m.options, func(o Option[T]) bool { return o.Key == opt.Key }, opt) {
		return false
	}
	m.refilter()
	return true
}

// SetOptions replaces every option, keeping the highlight on the same key
// when it survives
func (m *Model[T]) SetOptions(opts []Option[T]) {
	current, had := m.Selected()
	m.options = append(m.options[:0:0], opts...)
	m.cursor = 0
	m.refilter()
	if !had {
		return
	}
	for i, idx := range m.filtered {
		if m.options[idx].Key == current.Key {
			m.cursor = i
			return
		}
	}
}

// View renders the picker
func (m *Model[T]) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(m.styles.Subtle.Render("No matches"))
	}

	start := 0
	if m.cursor >= m.maxVisible {
		start = m.cursor - m.maxVisible + 1
	}
	end := min(start+m.maxVisible, len(m.filtered))

	for i := start; i < end; i++ {
		opt := m.options[m.filtered[i]]
		style, marker := m.styles.MenuItem, "  "
		if i == m.cursor {
			style, marker = m.styles.MenuItemActive, "› "
		}
		line := style.Render(marker + opt.Title)
		if opt.Subtitle != "" {
			line += " " + m.styles.Subtle.Render(opt.Subtitle)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString(m.styles.Footer.Render(fmt.Sprintf("%d/%d • ↑↓: Move • Enter: Select • Esc: Cancel", len(m.filtered), len(m.options))))
	return b.String()
}

// Title returns the picker title
func (m *Model[T]) Title() string {
	return m.props.Title
}

// Size returns the picker dimensions
func (m *Model[T]) Size() (width, height int) {
	return 50, m.maxVisible + 5
}

// Choose presents a picker and waits for a choice. ok is false when the
// picker was dismissed.
func Choose[T any](ctx context.Context, e *overlay.Engine, opts Options[T]) (choice Option[T], ok bool, err error) {
	res, err := overlay.Present[Option[T]](e, Component(opts), overlay.Props{Title: opts.Title}).Await(ctx)
	if err != nil {
		return Option[T]{}, false, err
	}
	return res.Value, res.OK, nil
}
