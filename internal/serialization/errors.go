package serialization

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a decoding failure so callers can branch on it
// without inspecting message text.
type ErrorKind int

const (
	// MalformedResponse means the payload was not valid JSON, or a required
	// field was absent or had the wrong JSON type.
	MalformedResponse ErrorKind = iota + 1

	// RemoteError means the payload carried a non-empty error envelope.
	RemoteError

	// SchemaMismatch means the payload's discriminator did not match
	// the kind of object the caller asked for.
	SchemaMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedResponse:
		return "malformed response"
	case RemoteError:
		return "remote error"
	case SchemaMismatch:
		return "schema mismatch"
	default:
		return "unknown"
	}
}

// Causes attached to MalformedResponse errors raised while reading fields.
var (
	ErrFieldMissing = errors.New("field is missing")
	ErrFieldType    = errors.New("field has the wrong type")
	ErrInvalidJSON  = errors.New("invalid JSON")
)

// Error is returned by every function in this package.
type Error struct {
	Kind ErrorKind

	// Field is the path of the offending field, for MalformedResponse.
	Field string

	// Message is the server's own text, for RemoteError.
	Message string

	// Expected and Actual name the discriminators, for SchemaMismatch.
	Expected Object
	Actual   string

	Cause error
}

// Sentinel errors for errors.Is checks against a kind.
var (
	ErrMalformedResponse = &Error{Kind: MalformedResponse}
	ErrRemoteError       = &Error{Kind: RemoteError}
	ErrSchemaMismatch    = &Error{Kind: SchemaMismatch}
)

func (e *Error) Error() string {
	switch e.Kind {
	case RemoteError:
		// Passed through unchanged; operators rely on the exact wording.
		return e.Message
	case SchemaMismatch:
		return fmt.Sprintf("schema mismatch: expected object %q, got %q", e.Expected, e.Actual)
	case MalformedResponse:
		msg := "malformed response"
		if e.Field != "" {
			msg += ": field " + e.Field
		}
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}
		return msg
	default:
		return "unknown serialization error"
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func malformed(field string, cause error) *Error {
	return &Error{Kind: MalformedResponse, Field: field, Cause: cause}
}

func mismatch(expected Object, actual string) *Error {
	return &Error{Kind: SchemaMismatch, Expected: expected, Actual: actual}
}
