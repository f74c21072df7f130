package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies every error the scoring package can return.
type Kind int

const (
	// TypeKind means a field, or the whole input, has the wrong data type.
	TypeKind Kind = iota + 1
	// RangeKind means a value is outside its permitted bounds.
	RangeKind
	// EmptyInputKind means the input mapping has no fields.
	EmptyInputKind
	// InternalKind means scoring failed unexpectedly. It always wraps a cause.
	InternalKind
)

func (k Kind) String() string {
	switch k {
	case TypeKind:
		return "type"
	case RangeKind:
		return "range"
	case EmptyInputKind:
		return "empty_input"
	case InternalKind:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrType       = &Error{Kind: TypeKind}
	ErrRange      = &Error{Kind: RangeKind}
	ErrEmptyInput = &Error{Kind: EmptyInputKind}
	ErrInternal   = &Error{Kind: InternalKind}
)

// Error is the single error type surfaced by validation, result
// construction and analysis.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. Field and
// message are not compared, so the package sentinels match any error of
// their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func typeError(field, msg string) *Error {
	return &Error{Kind: TypeKind, Field: field, Msg: msg}
}

func rangeError(field, msg string) *Error {
	return &Error{Kind: RangeKind, Field: field, Msg: msg}
}

// internalError wraps cause as InternalKind. A cause that is itself an
// *Error is flattened to its message so the result only matches
// ErrInternal.
func internalError(cause error) *Error {
	var e *Error
	if errors.As(cause, &e) {
		cause = errors.New(cause.Error())
	}
	return &Error{Kind: InternalKind, Msg: "analysis failed", Err: cause}
}
