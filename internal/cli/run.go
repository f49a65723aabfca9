package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/teafoundation/internal/app"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
)

// Command outcomes that are not failures of the tool itself
var (
	ErrNotConfirmed = errors.New("not confirmed")
	ErrCancelled    = errors.New("cancelled")
)

// Session is what a presentation runs against
type Session struct {
	Engine *overlay.Engine
}

// Emptied returns a channel closed the next time the registry becomes
// empty. The registry stops being watched once that happens or ctx ends.
func (s Session) Emptied(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{})
	var once sync.Once
	unsubscribe := s.Engine.Registry().Subscribe(func() {
		if s.Engine.Registry().IsEmpty() {
			once.Do(func() { close(ch) })
		}
	})
	go func() {
		select {
		case <-ch:
		case <-ctx.Done():
		}
		unsubscribe()
	}()
	return ch
}

// PresentFunc drives one presentation and returns a summary of its result
type PresentFunc func(ctx context.Context, s Session) (string, error)

// Runner hosts a presentation until it finishes
type Runner interface {
	Run(ctx context.Context, fn PresentFunc) error
}

// ProgramRunner hosts presentations in a full-screen Bubble Tea program
type ProgramRunner struct {
	Logger  *slog.Logger
	Options []tea.ProgramOption
}

// Run starts a program, runs fn in a command goroutine and exits once fn
// returns. Quitting early cancels fn's context and reports ErrCancelled.
func (r ProgramRunner) Run(ctx context.Context, fn PresentFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := overlay.NewEngine(nil, r.Logger)
	m := newPresentModel(ctx, engine, fn)
	defer m.container.Close()

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, r.Options...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run program: %w", err)
	}

	if !m.finished {
		return ErrCancelled
	}
	return m.err
}

// doneMsg carries the presentation's outcome back to the loop
type doneMsg struct {
	result string
	err    error
}

// presentModel hosts a single presentation
type presentModel struct {
	ctx       context.Context
	container *overlay.Container
	run       PresentFunc
	session   Session

	finished bool
	result   string
	err      error
}

func newPresentModel(ctx context.Context, e *overlay.Engine, fn PresentFunc) *presentModel {
	return &presentModel{
		ctx:       ctx,
		container: overlay.NewContainer(e),
		run:       fn,
		session:   Session{Engine: e},
	}
}

func (m *presentModel) Init() tea.Cmd {
	ctx, run, session := m.ctx, m.run, m.session
	return tea.Batch(m.container.Init(), func() tea.Msg {
		result, err := run(ctx, session)
		return doneMsg{result: result, err: err}
	})
}

func (m *presentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	cmd, _ := m.container.Handle(msg)
	return m, cmd
}

func (m *presentModel) View() string {
	return m.container.View()
}

// DemoCommand runs the interactive demo
func DemoCommand(ctx context.Context, deps *Dependencies) error {
	m := app.New(ctx, deps.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run demo: %w", err)
	}
	return nil
}
