package smartselect

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
)

type fruit struct {
	ID    int
	Color string
}

func fruitOptions() []Option[fruit] {
	return []Option[fruit]{
		{Key: "apple", Title: "Apple", Subtitle: "red", Ref: fruit{1, "red"}},
		{Key: "banana", Title: "Banana", Subtitle: "yellow", Ref: fruit{2, "yellow"}},
		{Key: "cherry", Title: "Cherry", SearchContent: "stone fruit", Ref: fruit{3, "red"}},
		{Key: "blueberry", Title: "Blueberry", Subtitle: "blue", Ref: fruit{4, "blue"}},
	}
}

func keys(titles []Option[fruit]) []string {
	out := make([]string, len(titles))
	for i, o := range titles {
		out[i] = o.Key
	}
	return out
}

func newModel(t *testing.T) *Model[fruit] {
	t.Helper()
	return NewModel(Options[fruit]{Title: "Pick", Options: fruitOptions(), MaxVisible: 3}, overlay.Props{Title: "Pick"}, overlay.NewNode(nil))
}

func typeText(m *Model[fruit], s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestEmptyQueryShowsAll(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, []string{"apple", "banana", "cherry", "blueberry"}, keys(m.Visible()))

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "apple", sel.Key)
}

func TestFuzzyFilter(t *testing.T) {
	m := newModel(t)

	typeText(m, "bb")
	assert.Equal(t, []string{"blueberry"}, keys(m.Visible()))

	m.SetQuery("stone")
	assert.Equal(t, []string{"cherry"}, keys(m.Visible()), "search content replaces the title")

	m.SetQuery("cherry")
	assert.Empty(t, m.Visible())
	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetQuery("yellow")
	assert.Equal(t, []string{"banana"}, keys(m.Visible()), "subtitles are searchable")
}

func TestCursorWraps(t *testing.T) {
	m := newModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	sel, _ := m.Selected()
	assert.Equal(t, "blueberry", sel.Key)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, "banana", sel.Key)
}

func TestCursorClampedByFilter(t *testing.T) {
	m := newModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyUp})

	m.SetQuery("ban")
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "banana", sel.Key)
}

func TestUpdateOption(t *testing.T) {
	m := newModel(t)

	ok := m.UpdateOption(Option[fruit]{Key: "banana", Title: "Plantain", Ref: fruit{2, "green"}})
	require.True(t, ok)
	assert.Equal(t, "Plantain", m.Visible()[1].Title)
	assert.Equal(t, "green", m.Visible()[1].Ref.Color)

	assert.False(t, m.UpdateOption(Option[fruit]{Key: "durian"}))
	assert.Len(t, m.Visible(), 4)
}

func TestSetOptionsKeepsHighlight(t *testing.T) {
	m := newModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	opts := fruitOptions()
	opts[0], opts[3] = opts[3], opts[0]
	m.SetOptions(opts)

	sel, _ := m.Selected()
	assert.Equal(t, "cherry", sel.Key)

	m.SetOptions(opts[:2])
	sel, _ = m.Selected()
	assert.Equal(t, "blueberry", sel.Key)
}

func TestViewWindowFollowsCursor(t *testing.T) {
	m := newModel(t)
	assert.NotContains(t, m.View(), "Blueberry")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	view := m.View()
	assert.Contains(t, view, "Blueberry")
	assert.NotContains(t, view, "Apple")
}

func TestChoose(t *testing.T) {
	e := overlay.NewEngine(nil, nil)
	done := make(chan Option[fruit], 1)

	go func() {
		choice, ok, err := Choose(context.Background(), e, Options[fruit]{Title: "Fruit", Options: fruitOptions()})
		assert.NoError(t, err)
		assert.True(t, ok)
		done <- choice
	}()

	require.Eventually(t, func() bool { return e.Registry().Len() == 1 }, time.Second, time.Millisecond)
	inj := e.Registry().Top()
	assert.Equal(t, "Fruit", inj.Props.Title)

	m := inj.Model().(*Model[fruit])
	m.SetQuery("blue")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	choice := <-done
	assert.Equal(t, "blueberry", choice.Key)
	assert.Equal(t, 4, choice.Ref.ID)
	assert.True(t, e.Registry().IsEmpty())
}

func TestChooseDismissed(t *testing.T) {
	e := overlay.NewEngine(nil, nil)
	c := overlay.NewContainer(e)
	defer c.Close()

	type outcome struct {
		ok  bool
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		_, ok, err := Choose(context.Background(), e, Options[fruit]{Options: fruitOptions()})
		done <- outcome{ok, err}
	}()

	require.Eventually(t, func() bool { return e.Registry().Len() == 1 }, time.Second, time.Millisecond)

	cmd, consumed := c.Handle(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, consumed)
	c.Handle(cmd())

	out := <-done
	assert.NoError(t, out.err)
	assert.False(t, out.ok)
	assert.True(t, e.Registry().IsEmpty())
}

func TestEnterWithNoMatchKeepsPicker(t *testing.T) {
	e := overlay.NewEngine(nil, nil)
	f := overlay.Present[Option[fruit]](e, Component(Options[fruit]{Options: fruitOptions()}), overlay.Props{})

	m := f.Injection().Model().(*Model[fruit])
	m.SetQuery("zzz")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, settled := f.Result()
	assert.False(t, settled)
	assert.Equal(t, 1, e.Registry().Len())
}
