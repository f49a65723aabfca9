package types

import (
	"fmt"
	"strings"
)

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// String returns the lowercase name used in config files and CLI flags
func (l ToastLevel) String() string {
	switch l {
	case ToastInfo:
		return "info"
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseToastLevel converts a level name into a ToastLevel
func ParseToastLevel(s string) (ToastLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return ToastInfo, nil
	case "success":
		return ToastSuccess, nil
	case "warning", "warn":
		return ToastWarning, nil
	case "error":
		return ToastError, nil
	}
	return ToastInfo, fmt.Errorf("unknown toast level %q", s)
}
