// Package alert presents alerts, confirmations and wait screens through
// the overlay engine.
package alert

import (
	"context"

	"github.com/riordanpawley/teafoundation/internal/domain"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
)

// Options describes an alert. When Err is set and Message is empty the
// error is formatted for display.
type Options struct {
	Title   string
	Message string
	Err     error
	Classes []string
}

// Message creates options for an untitled alert
func Message(msg string) Options {
	return Options{Message: msg}
}

// Titled creates options with a title and message
func Titled(title, msg string) Options {
	return Options{Title: title, Message: msg}
}

// FromError creates options showing err
func FromError(err error) Options {
	return Options{Err: err}
}

// props converts options into the property bag shared by every presenter
func (o Options) props() overlay.Props {
	msg := o.Message
	if msg == "" && o.Err != nil {
		msg = domain.FormatError(o.Err)
	}
	return overlay.Props{
		Title:   o.Title,
		Message: msg,
		Classes: append([]string(nil), o.Classes...),
	}
}

// Alert shows opts and blocks until the user closes it
func Alert(ctx context.Context, e *overlay.Engine, opts Options) error {
	_, err := overlay.Present[any](e, Component, opts.props()).Await(ctx)
	return err
}

// Confirm asks a yes/no question. It reports true only when the user
// explicitly confirms.
func Confirm(ctx context.Context, e *overlay.Engine, opts Options) (bool, error) {
	p := opts.props()
	p.ShouldConfirm = true
	return confirm(ctx, e, p)
}

// ConfirmDestroy is Confirm styled for destructive actions
func ConfirmDestroy(ctx context.Context, e *overlay.Engine, opts Options) (bool, error) {
	p := opts.props().WithClasses(overlay.ClassDestructive)
	p.ShouldConfirm = true
	return confirm(ctx, e, p)
}

func confirm(ctx context.Context, e *overlay.Engine, p overlay.Props) (bool, error) {
	res, err := overlay.Present[bool](e, Component, p).Await(ctx)
	if err != nil {
		return false, err
	}
	return res.OK && res.Value == Confirmed, nil
}

// Wait shows a blocking wait screen. Nothing resolves it; the caller ends
// it with the returned dismiss function.
func Wait(e *overlay.Engine, opts Options) (dismiss func()) {
	p := opts.props().WithClasses(overlay.ClassWait)
	p.IsBare = true
	p.Callback = func(any) {}

	inj := e.Create(Component, p)
	return func() { e.Remove(inj) }
}

// HandleErrorAndAlert reports err like domain.HandleError and then shows it
func HandleErrorAndAlert(ctx context.Context, e *overlay.Engine, err error, opts Options) error {
	if err = domain.HandleError(err); err == nil {
		return nil
	}
	opts.Err = err
	opts.Message = ""
	return Alert(ctx, e, opts)
}
