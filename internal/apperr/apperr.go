// Package apperr classifies errors surfaced by the viewer so the UI can decide
// how to present them (re-prompt, notice, silent fallback) without matching on
// individual sentinels.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the coarse category of an error.
type Kind int

const (
	Unknown Kind = iota
	// Validation covers bad user input (rename target, move destination).
	Validation
	// Filesystem covers permission, missing path and collision failures.
	Filesystem
	// Config covers malformed configuration; callers fall back to defaults.
	Config
	// Session covers missing or stale session records.
	Session
	// Undo covers empty history and failed inverse operations.
	Undo
	// External covers capabilities outside the process: clipboard, editor.
	External
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Filesystem:
		return "filesystem"
	case Config:
		return "config"
	case Session:
		return "session"
	case Undo:
		return "undo"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// Error carries a kind, the operation that failed, an optional path, a
// sentinel identifying the failure and the underlying cause.
type Error struct {
	Kind     Kind
	Op       string
	Path     string
	Sentinel error
	Err      error
}

// Error returns the error message
func (e *Error) Error() string {
	msg := e.Op
	if e.Sentinel != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Sentinel.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Sentinel != nil {
		out = append(out, e.Sentinel)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// New builds a kinded error.
func New(kind Kind, op string, sentinel error, path string, cause error) *Error {
	return &Error{
		Kind:     kind,
		Op:       op,
		Path:     path,
		Sentinel: sentinel,
		Err:      cause,
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Recoverable reports whether the engine can keep running after err. Only
// unclassified errors are treated as unexpected.
func Recoverable(err error) bool {
	return KindOf(err) != Unknown
}
