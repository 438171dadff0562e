package multierr

import (
	"bytes"
	"fmt"
)

// Error collects several independent failures, for example every missing field of a config or every relationship
// that points at an unknown service.
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"

	case 1:
		return e[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, `
	* %v`, err)
		}
		return buf.String()
	}
}

// Append mutates e to include err. It is a no-op if err is nil.
//
//	var e Error
//	e.Append(err)
func (e *Error) Append(err error) {
	switch {
	case e == nil, err == nil:

	case *e == nil:
		*e = Error{err}

	default:
		*e = append(*e, err)
	}
}

// Append returns err1 and err2 combined without mutating err1. Nil arguments are skipped; if both are nil the
// result is nil.
func Append(err1, err2 error) Error {
	switch {
	case err1 == nil && err2 == nil:
		return nil

	case err1 == nil:
		return Error{err2}

	case err2 == nil:
		if merr, ok := err1.(Error); ok {
			return merr
		}
		return Error{err1}
	}

	if merr, ok := err1.(Error); ok {
		out := make(Error, len(merr), len(merr)+1)
		copy(out, merr)
		return append(out, err2)
	}
	return Error{err1, err2}
}

// ErrOrNil converts e into an [error], returning nil for an empty list (avoiding the typed-nil trap) and the sole
// member for a single-element list.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e
	}
}

// Unwrap exposes every member to [errors.Is] and [errors.As].
func (e Error) Unwrap() []error {
	return e
}
