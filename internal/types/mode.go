// Package types contains shared types used across the application.
package types

// Mode describes what is currently capturing input on screen
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
	ModeBlocked
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeModal:
		return "MODAL"
	case ModeBlocked:
		return "WAIT"
	default:
		return "UNKNOWN"
	}
}

// PresentationState is the lifecycle of a single presentation.
// The only transition is Pending -> Resolved.
type PresentationState int

const (
	Pending PresentationState = iota
	Resolved
)

func (s PresentationState) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "pending"
}
