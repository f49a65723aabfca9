package statusbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/teafoundation/internal/types"
	"github.com/riordanpawley/teafoundation/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode   types.Mode
	width  int
	styles *styles.Styles
	keys   help.KeyMap
	info   string
}

// New creates a new StatusBar with the given mode, width, and styles.
// In normal mode the hints are taken from keys.
func New(mode types.Mode, width int, styles *styles.Styles, keys help.KeyMap) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
		keys:   keys,
	}
}

// WithInfo returns a copy showing info on the right-hand side
func (sb StatusBar) WithInfo(info string) StatusBar {
	sb.info = info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.
		Background(styles.ModeColor(sb.mode)).
		Render(sb.mode.String())

	hints := sb.hints()

	content := modeBadge
	if hints != "" {
		separator := sb.styles.Separator.Render(" │ ")
		content = lipgloss.JoinHorizontal(lipgloss.Left, modeBadge, separator, hints)
	}

	if sb.info != "" {
		info := sb.styles.StatusInfo.Render(sb.info)
		// inner width excludes the bar's horizontal padding
		gap := sb.width - sb.styles.StatusBar.GetHorizontalFrameSize() - lipgloss.Width(content) - lipgloss.Width(info)
		if gap > 0 {
			content += strings.Repeat(" ", gap) + info
		}
	}

	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

func (sb StatusBar) hints() string {
	if sb.mode == types.ModeNormal && sb.keys != nil {
		h := help.New()
		h.Width = sb.width / 2
		h.Styles.ShortKey = sb.styles.MenuKey
		h.Styles.ShortDesc = sb.styles.StatusHint
		h.Styles.ShortSeparator = sb.styles.Separator
		return h.ShortHelpView(sb.keys.ShortHelp())
	}
	if hints := GetHints(sb.mode); hints != "" {
		return sb.styles.StatusHint.Render(hints)
	}
	return ""
}
