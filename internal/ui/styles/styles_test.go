package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/riordanpawley/teafoundation/internal/types"
)

func TestNew(t *testing.T) {
	s := New()
	assert.NotNil(t, s)
}

func TestToastStyle(t *testing.T) {
	s := New()

	tests := []struct {
		level types.ToastLevel
		color lipgloss.Color
	}{
		{types.ToastInfo, Blue},
		{types.ToastSuccess, Green},
		{types.ToastWarning, Yellow},
		{types.ToastError, Red},
		{types.ToastLevel(99), Blue},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, lipgloss.TerminalColor(tt.color), s.Toast(tt.level).GetForeground())
		})
	}
}

func TestModeColor(t *testing.T) {
	assert.Equal(t, Blue, ModeColor(types.ModeNormal))
	assert.Equal(t, Mauve, ModeColor(types.ModeModal))
	assert.Equal(t, Peach, ModeColor(types.ModeBlocked))
}
