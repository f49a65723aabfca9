package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/teafoundation/internal/types"
)

// Styles holds the styles shared by the application chrome and toasts
type Styles struct {
	// Base screen
	Screen  lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style
	MenuKey    lipgloss.Style
	Separator  lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Screen: lipgloss.NewStyle().
			Padding(1, 2),

		Heading: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true).
			MarginBottom(1),

		Muted: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo:    toastStyle(Blue),
		ToastSuccess: toastStyle(Green),
		ToastWarning: toastStyle(Yellow),
		ToastError:   toastStyle(Red),
	}
}

func toastStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(c).
		Padding(0, 1)
}

// Toast returns the style for a toast level
func (s *Styles) Toast(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return s.ToastSuccess
	case types.ToastWarning:
		return s.ToastWarning
	case types.ToastError:
		return s.ToastError
	default:
		return s.ToastInfo
	}
}

// ModeColor returns the badge color for an input mode
func ModeColor(mode types.Mode) lipgloss.Color {
	return ModeColors[mode]
}
