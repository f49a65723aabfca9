package statusbar

import "github.com/riordanpawley/teafoundation/internal/types"

// GetHints returns the fixed hints for modes without their own key map
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeModal:
		return "Enter: confirm  Esc: cancel  Tab: switch"
	case types.ModeBlocked:
		return "Please wait…"
	default:
		return ""
	}
}
