package hotkey

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pressedMsg string

func handler(name string) Handler {
	return func() tea.Cmd {
		return func() tea.Msg { return pressedMsg(name) }
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, r *Registry, msg tea.KeyMsg) (pressedMsg, bool) {
	t.Helper()
	cmd, ok := r.Handle(msg)
	if !ok {
		return "", false
	}
	require.NotNil(t, cmd)
	return cmd().(pressedMsg), true
}

func TestHandleIsCaseInsensitive(t *testing.T) {
	r := New()
	r.Register("S", "save", handler("save"))

	got, ok := press(t, r, runes("s"))
	assert.True(t, ok)
	assert.Equal(t, pressedMsg("save"), got)

	got, ok = press(t, r, runes("S"))
	assert.True(t, ok)
	assert.Equal(t, pressedMsg("save"), got)
}

func TestLastRegistrationWins(t *testing.T) {
	r := New()
	first := r.Register("d", "delete", handler("first"))
	second := r.Register("D", "delete", handler("second"))

	got, _ := press(t, r, runes("d"))
	assert.Equal(t, pressedMsg("second"), got)

	second.Unregister()
	got, _ = press(t, r, runes("d"))
	assert.Equal(t, pressedMsg("first"), got)

	first.Unregister()
	_, ok := r.Handle(runes("d"))
	assert.False(t, ok)
}

func TestUnregisterMiddle(t *testing.T) {
	r := New()
	r.Register("x", "", handler("a"))
	b := r.Register("x", "", handler("b"))
	r.Register("x", "", handler("c"))

	b.Unregister()
	b.Unregister()

	got, _ := press(t, r, runes("x"))
	assert.Equal(t, pressedMsg("c"), got)
}

func TestActive(t *testing.T) {
	r := New()
	assert.False(t, r.Active())

	a := r.Register("a", "", handler("a"))
	b := r.Register("b", "", handler("b"))
	assert.True(t, r.Active())

	a.Unregister()
	assert.True(t, r.Active())
	b.Unregister()
	assert.False(t, r.Active())
}

func TestUnmatchedKeysPassThrough(t *testing.T) {
	r := New()
	r.Register("a", "", handler("a"))

	_, ok := r.Handle(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, ok)
}

func TestNamedKeys(t *testing.T) {
	r := New()
	r.Register("Enter", "submit", handler("submit"))
	r.Register("ctrl+s", "save", handler("save"))

	got, ok := press(t, r, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, ok)
	assert.Equal(t, pressedMsg("submit"), got)

	got, ok = press(t, r, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, ok)
	assert.Equal(t, pressedMsg("save"), got)
}

func TestNilHandlerStillConsumes(t *testing.T) {
	r := New()
	r.Register("q", "", nil)

	cmd, ok := r.Handle(runes("q"))
	assert.True(t, ok)
	assert.Nil(t, cmd)
}

func TestRebind(t *testing.T) {
	r := New()
	r.Register("b", "", handler("other"))
	h := r.Register("a", "archive", handler("archive"))

	h.Rebind("B")
	assert.Equal(t, "b", h.Key())
	assert.Equal(t, "archive", h.Binding().Help().Desc)

	_, ok := r.Handle(runes("a"))
	assert.False(t, ok, "old key released")

	got, _ := press(t, r, runes("b"))
	assert.Equal(t, pressedMsg("archive"), got, "rebinding puts the registration on top")
}

func TestBindingsForHelp(t *testing.T) {
	r := New()
	r.Register("t", "toast", handler("t"))
	r.Register("a", "alert", handler("a"))
	r.Register("A", "alert again", handler("a2"))

	bindings := r.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, []string{"a"}, bindings[0].Keys())
	assert.Equal(t, "alert again", bindings[0].Help().Desc)
	assert.Equal(t, "toast", bindings[1].Help().Desc)

	view := help.New().View(r)
	assert.Contains(t, view, "alert again")
	assert.Contains(t, view, "toast")
}
