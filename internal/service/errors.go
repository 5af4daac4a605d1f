package service

import (
	"errors"
	"fmt"

	"github.com/chichamlab/chicham/internal/store"
)

// Kind classifies an operation-boundary failure. Every error a service
// returns carries a kind the caller can map to a response; unstructured
// failures never leave the service layer except genuine storage faults.
type Kind int

const (
	// KindValidation: malformed, out-of-range or missing input.
	KindValidation Kind = iota + 1
	// KindAuthorization: the caller's identity/role does not satisfy the
	// access policy for the operation.
	KindAuthorization
	// KindNotFound: the row does not exist — or exists but is invisible
	// to the caller. The two are deliberately indistinguishable.
	KindNotFound
	// KindInvalidState: the operation is not valid for the entity's
	// current lifecycle status.
	KindInvalidState
	// KindConflict: a uniqueness constraint was violated.
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func authorizationf(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf extracts the kind of err, or 0 for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// storeErr lifts store sentinels into the taxonomy. what names the entity
// for the message; store.ErrNotFound stays deliberately vague about
// whether the row exists at all.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFoundf("%s not found", what)
	case errors.Is(err, store.ErrDuplicate):
		return conflictf("%s already exists", what)
	default:
		return err
	}
}
