// Package app contains the interactive demo application that drives every
// presenter through one overlay engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/teafoundation/internal/directives/datetime"
	"github.com/riordanpawley/teafoundation/internal/directives/hotkey"
	"github.com/riordanpawley/teafoundation/internal/types"
	"github.com/riordanpawley/teafoundation/internal/ui/alert"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
	"github.com/riordanpawley/teafoundation/internal/ui/smartselect"
	"github.com/riordanpawley/teafoundation/internal/ui/statusbar"
	"github.com/riordanpawley/teafoundation/internal/ui/styles"
	"github.com/riordanpawley/teafoundation/internal/ui/toast"
)

// Layer IDs in the demo document
const (
	LayerBase      = "base"
	LayerStatusBar = "statusbar"
)

const (
	waitDuration = 2 * time.Second
	maxActivity  = 8
)

// OutcomeMsg reports how a presentation ended
type OutcomeMsg struct {
	Action string
	Result string
	At     time.Time
}

// waitDoneMsg ends a wait screen started by the demo
type waitDoneMsg struct {
	dismiss func()
}

// Activity is one line of the demo's history
type Activity struct {
	Action string
	Result string
	At     time.Time
}

// Model is the demo application state
type Model struct {
	ctx       context.Context
	engine    *overlay.Engine
	container *overlay.Container
	hotkeys   *hotkey.Registry
	styles    *styles.Styles
	dates     datetime.Formatter
	logger    *slog.Logger

	// Terminal size
	width  int
	height int

	activity   []Activity
	toastLevel types.ToastLevel
	pending    int
}

// New creates the demo model. A nil logger uses slog.Default().
func New(ctx context.Context, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		ctx:     ctx,
		hotkeys: hotkey.New(),
		styles:  styles.New(),
		dates:   datetime.Formatter{},
		logger:  logger,
	}

	doc := overlay.NewDocument(
		overlay.Layer{ID: LayerBase, Render: m.renderBase},
		overlay.Layer{ID: LayerStatusBar, Render: m.renderStatusBar},
	)
	m.engine = overlay.NewEngine(doc, logger)
	m.container = overlay.NewContainer(m.engine)
	m.registerHotkeys()

	return m
}

func (m *Model) registerHotkeys() {
	m.hotkeys.Register("a", "alert", m.alertCmd)
	m.hotkeys.Register("c", "confirm", m.confirmCmd)
	m.hotkeys.Register("d", "destroy", m.destroyCmd)
	m.hotkeys.Register("w", "wait", m.waitCmd)
	m.hotkeys.Register("t", "toast", m.toastCmd)
	m.hotkeys.Register("s", "select", m.selectCmd)
	m.hotkeys.Register("e", "error", m.errorCmd)
	m.hotkeys.Register("q", "quit", func() tea.Cmd { return tea.Quit })
}

// Engine returns the overlay engine owned by the demo
func (m *Model) Engine() *overlay.Engine {
	return m.engine
}

// Hotkeys returns the demo's key registry
func (m *Model) Hotkeys() *hotkey.Registry {
	return m.hotkeys
}

// Pending reports how many presentations are still waiting for the user
func (m *Model) Pending() int {
	return m.pending
}

// Activity returns the recorded outcomes, newest last
func (m *Model) Activity() []Activity {
	return m.activity
}

// Mode derives the input mode from what currently holds focus
func (m *Model) Mode() types.Mode {
	focused := m.container.Focused()
	switch {
	case focused == nil:
		return types.ModeNormal
	case focused.Props.IsBare:
		return types.ModeBlocked
	default:
		return types.ModeModal
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.container.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.container.Close()
			return m, tea.Quit
		}
		if cmd, ok := m.container.Handle(msg); ok {
			return m, cmd
		}
		cmd, _ := m.hotkeys.Handle(msg)
		return m, cmd

	case OutcomeMsg:
		m.pending--
		m.record(msg.Action, msg.Result, msg.At)
		return m, nil

	case waitDoneMsg:
		msg.dismiss()
		m.record("wait", "finished", time.Now())
		return m, nil
	}

	cmd, _ := m.container.Handle(msg)
	return m, cmd
}

func (m *Model) record(action, result string, at time.Time) {
	m.activity = append(m.activity, Activity{Action: action, Result: result, At: at})
	if len(m.activity) > maxActivity {
		m.activity = m.activity[len(m.activity)-maxActivity:]
	}
	m.logger.Debug("presentation finished", "action", action, "result", result)
}

// View implements tea.Model
func (m *Model) View() string {
	return m.container.View()
}

// present runs fn in a command goroutine and reports its outcome
func (m *Model) present(action string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		result, err := fn(ctx)
		if err != nil {
			result = "error: " + err.Error()
		}
		return OutcomeMsg{Action: action, Result: result, At: time.Now()}
	}
}

func (m *Model) alertCmd() tea.Cmd {
	return m.present("alert", func(ctx context.Context) (string, error) {
		err := alert.Alert(ctx, m.engine, alert.Titled("Saved", "Your changes have been saved."))
		return "dismissed", err
	})
}

func (m *Model) confirmCmd() tea.Cmd {
	return m.present("confirm", func(ctx context.Context) (string, error) {
		ok, err := alert.Confirm(ctx, m.engine, alert.Titled("Publish", "Publish this draft now?"))
		return fmt.Sprintf("confirmed=%t", ok), err
	})
}

func (m *Model) destroyCmd() tea.Cmd {
	return m.present("destroy", func(ctx context.Context) (string, error) {
		ok, err := alert.ConfirmDestroy(ctx, m.engine, alert.Titled("Delete project", "This cannot be undone. Delete it?"))
		return fmt.Sprintf("confirmed=%t", ok), err
	})
}

func (m *Model) errorCmd() tea.Cmd {
	return m.present("error", func(ctx context.Context) (string, error) {
		cause := errors.New("connection reset by peer")
		err := alert.HandleErrorAndAlert(ctx, m.engine, cause, alert.Options{Title: "Error"})
		return "reported", err
	})
}

func (m *Model) selectCmd() tea.Cmd {
	opts := smartselect.Options[time.Duration]{
		Title:       "Snooze for",
		Placeholder: "Filter durations…",
	}
	for _, d := range []time.Duration{5 * time.Minute, 15 * time.Minute, time.Hour, 4 * time.Hour, 24 * time.Hour} {
		opts.Options = append(opts.Options, smartselect.Option[time.Duration]{
			Key:      d.String(),
			Title:    d.String(),
			Subtitle: "until " + m.dates.FormatTime(time.Now().Add(d), datetime.Attributes{SimplifiedDate: true}),
			Ref:      d,
		})
	}

	return m.present("select", func(ctx context.Context) (string, error) {
		choice, ok, err := smartselect.Choose(ctx, m.engine, opts)
		if !ok {
			return "cancelled", err
		}
		return "snoozed " + choice.Ref.String(), err
	})
}

func (m *Model) waitCmd() tea.Cmd {
	dismiss := alert.Wait(m.engine, alert.Message("Syncing…"))
	return tea.Tick(waitDuration, func(time.Time) tea.Msg {
		return waitDoneMsg{dismiss: dismiss}
	})
}

func (m *Model) toastCmd() tea.Cmd {
	level := m.toastLevel
	m.toastLevel = (m.toastLevel + 1) % (types.ToastError + 1)
	toast.Show(m.engine, toast.Options{
		Message: fmt.Sprintf("A %s notification", level),
		Level:   level,
	})
	m.record("toast", level.String(), time.Now())
	return nil
}

// renderBase paints the main screen
func (m *Model) renderBase(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("teafoundation"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Press a key below to open an overlay."))
	b.WriteString("\n\n")

	if len(m.activity) == 0 {
		b.WriteString(m.styles.Muted.Render("No activity yet."))
	}
	for i, a := range m.activity {
		when := m.dates.FormatTime(a.At, datetime.Attributes{RelativeDate: true})
		b.WriteString(fmt.Sprintf("%-8s %-20s %s", a.Action, a.Result, m.styles.Muted.Render(when)))
		if i < len(m.activity)-1 {
			b.WriteString("\n")
		}
	}

	return m.styles.Screen.Width(width).MaxHeight(max(height-1, 0)).Render(b.String())
}

// renderStatusBar paints the status bar on the last row
func (m *Model) renderStatusBar(width, height int) string {
	info := fmt.Sprintf("%d open", m.engine.Registry().Len())
	bar := statusbar.New(m.Mode(), width, m.styles, m.hotkeys).WithInfo(info).Render()
	if height <= 1 {
		return bar
	}
	return strings.Repeat("\n", height-lipgloss.Height(bar)) + bar
}
