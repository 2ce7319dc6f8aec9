// Package errinfo classifies the errors returned by deck operations so that
// every surface (CLI, MCP tools, shell, pipelines) can report them the same way.
package errinfo

import (
	"errors"
	"fmt"
)

// Kind is the classification of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidGeometry
	KindMalformedShape
	KindContentTypeRepairFailed
	KindNoPresentation
)

const (
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidArgument         = "INVALID_ARGUMENT"
	CodeInvalidGeometry         = "INVALID_GEOMETRY"
	CodeMalformedShape          = "MALFORMED_SHAPE"
	CodeContentTypeRepairFailed = "CONTENT_TYPE_REPAIR_FAILED"
	CodeNoPresentation          = "NO_PRESENTATION"
	CodeInternal                = "INTERNAL"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrInvalidArgument         = &Error{Kind: KindInvalidArgument}
	ErrInvalidGeometry         = &Error{Kind: KindInvalidGeometry}
	ErrMalformedShape          = &Error{Kind: KindMalformedShape}
	ErrContentTypeRepairFailed = &Error{Kind: KindContentTypeRepairFailed}
	ErrNoPresentation          = &Error{Kind: KindNoPresentation}
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidArgument:
		return "invalid argument"
	case KindInvalidGeometry:
		return "invalid geometry"
	case KindMalformedShape:
		return "malformed shape"
	case KindContentTypeRepairFailed:
		return "content type repair failed"
	case KindNoPresentation:
		return "no presentation"
	default:
		return "error"
	}
}

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindNotFound:
		return CodeNotFound
	case KindInvalidArgument:
		return CodeInvalidArgument
	case KindInvalidGeometry:
		return CodeInvalidGeometry
	case KindMalformedShape:
		return CodeMalformedShape
	case KindContentTypeRepairFailed:
		return CodeContentTypeRepairFailed
	case KindNoPresentation:
		return CodeNoPresentation
	default:
		return CodeInternal
	}
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(op, format string, args ...any) *Error {
	return newf(KindNotFound, op, format, args...)
}

func InvalidArgument(op, format string, args ...any) *Error {
	return newf(KindInvalidArgument, op, format, args...)
}

func InvalidGeometry(op, format string, args ...any) *Error {
	return newf(KindInvalidGeometry, op, format, args...)
}

func MalformedShape(op, format string, args ...any) *Error {
	return newf(KindMalformedShape, op, format, args...)
}

// ContentTypeRepairFailed wraps the underlying cause of a failed declarations rewrite.
func ContentTypeRepairFailed(op string, err error) *Error {
	return &Error{Kind: KindContentTypeRepairFailed, Op: op, Msg: "content type repair failed", Err: err}
}

func NoPresentation() *Error {
	return &Error{Kind: KindNoPresentation, Msg: "no presentation is open. Use manage_presentation to open or create one"}
}

// Message is the agent-facing text of err: a classified error's message
// without the operation prefix, or err.Error() for anything else.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}
