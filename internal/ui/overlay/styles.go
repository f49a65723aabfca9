package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/teafoundation/internal/ui/styles"
)

// Class names with built-in styling
const (
	ClassDestructive = "destructive"
	ClassWait        = "wait"
)

// Styles holds all overlay-specific styles
type Styles struct {
	// Overlay is the base overlay container style
	Overlay lipgloss.Style
	// Destructive replaces Overlay for injections with the destructive class
	Destructive lipgloss.Style
	// Wait frames bare wait screens
	Wait lipgloss.Style
	// Title is the overlay title style
	Title lipgloss.Style
	// DestructiveTitle is the title style for destructive overlays
	DestructiveTitle lipgloss.Style
	// MenuItem is the default button/item style
	MenuItem lipgloss.Style
	// MenuItemActive is the highlighted/selected item style
	MenuItemActive lipgloss.Style
	// MenuItemDanger is the highlighted item style in destructive overlays
	MenuItemDanger lipgloss.Style
	// Subtle is used for secondary text such as subtitles
	Subtle lipgloss.Style
	// Footer is the style for overlay footer text
	Footer lipgloss.Style
}

// New creates a new Styles instance using the Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface2).
			Background(styles.Base).
			Padding(1, 2),

		Destructive: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Red).
			Background(styles.Base).
			Padding(1, 2),

		Wait: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.Surface1).
			Background(styles.Mantle).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true).
			MarginBottom(1),

		DestructiveTitle: lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(styles.Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		MenuItemDanger: lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(styles.Overlay1),

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),
	}
}

// Frame returns the container style for the given classes
func (s *Styles) Frame(p Props) lipgloss.Style {
	switch {
	case p.HasClass(ClassDestructive):
		return s.Destructive
	case p.HasClass(ClassWait):
		return s.Wait
	default:
		return s.Overlay
	}
}

// TitleFor returns the title style for the given classes
func (s *Styles) TitleFor(p Props) lipgloss.Style {
	if p.HasClass(ClassDestructive) {
		return s.DestructiveTitle
	}
	return s.Title
}
