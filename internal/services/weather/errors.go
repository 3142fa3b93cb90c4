package weather

import (
	"errors"
	"fmt"
)

// Kind classifies a lookup failure. Handlers map kinds to HTTP statuses.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingParameter
	KindInvalidParameter
	KindProvider
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing_parameter"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindProvider:
		return "provider_error"
	case KindNetwork:
		return "network_error"
	default:
		return "internal_error"
	}
}

// Error is returned by every stage of a lookup.
// StatusCode and Message are only set for KindProvider.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindProvider:
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that did not come from this
// package are internal.
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return KindInternal
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
