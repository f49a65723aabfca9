package domain

import (
	"errors"
	"fmt"

	"github.com/riordanpawley/teafoundation/internal/config"
)

// ErrUnknownFormat is returned for input that matches no accepted format
var ErrUnknownFormat = errors.New("unknown format")

// UserError is an error whose message is meant to be shown to the user as-is
type UserError struct {
	Message string
	Err     error // Optional: error that caused it
}

// NewUserError creates a UserError with the given message
func NewUserError(message string) *UserError {
	return &UserError{Message: message}
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether any error in err's chain is a *UserError
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// ToError converts an arbitrary recovered value into an error
func ToError(v any) error {
	switch v := v.(type) {
	case nil:
		return nil
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}

// FormatError renders err for display.
// User errors are returned verbatim; anything else is framed with the
// configured support text.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}

	return fmt.Sprintf(
		"An application error has occurred:\n\n%s\n\nPlease refresh the page and try again. If this error persists, %s.",
		err.Error(),
		config.Current().UnhandledErrorSupportText,
	)
}

// HandleError passes unexpected errors to the configured error handler.
// User errors are expected and never reported.
func HandleError(v any) error {
	err := ToError(v)
	if err == nil {
		return nil
	}
	if !IsUserError(err) {
		if handler := config.Current().ErrorHandler; handler != nil {
			handler(err)
		}
	}
	return err
}
