package moderation

import (
	"errors"
	"fmt"

	"github.com/alphabot-ai/skillswap/internal/store"
)

// Error kinds. Every error returned by Gateway and Engine matches exactly one
// of these under errors.Is.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("admin access required")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrServerFault            = errors.New("server error")
)

// Error carries the kind, the failing operation and the underlying cause.
// Msg is safe to show to callers; Err is for logs only.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Public returns the message a caller may see. Server faults never expose
// their cause.
func (e *Error) Public() string {
	if errors.Is(e.Kind, ErrServerFault) || e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

// KindOf reports the taxonomy kind of err, treating anything unclassified as a
// server fault.
func KindOf(err error) error {
	for _, kind := range []error{ErrAuthenticationRequired, ErrAuthorizationDenied, ErrNotFound, ErrValidation, ErrServerFault} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrServerFault
}

func newError(kind error, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// classify converts a store failure into NotFound or ServerFault.
func classify(op, what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, op, what+" not found", err)
	}
	return newError(ErrServerFault, op, "", err)
}
