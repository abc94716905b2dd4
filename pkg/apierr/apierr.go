// Package apierr defines the error taxonomy shared by the signing engine,
// the request dispatcher and the resource layer.
//
// Every error carries a Kind. Callers branch with errors.Is against the
// kind sentinels:
//
//	env, err := c.Get(ctx, accountID, "messages", nil)
//	if errors.Is(err, apierr.ErrInvalidArgument) {
//	    // fix the call, nothing was sent
//	}
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// InvalidArgument marks malformed or missing call parameters. It is
	// always reported before any network I/O.
	InvalidArgument Kind = iota + 1
	// ConfigurationError marks an unusable client or signing setup.
	ConfigurationError
	// TransportError marks network, TLS or body-read failures.
	TransportError
	// ProtocolError marks an HTTP response classified as an error.
	ProtocolError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case ConfigurationError:
		return "configuration error"
	case TransportError:
		return "transport error"
	case ProtocolError:
		return "protocol error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is.
var (
	ErrInvalidArgument    = &Error{Kind: InvalidArgument}
	ErrConfigurationError = &Error{Kind: ConfigurationError}
	ErrTransportError     = &Error{Kind: TransportError}
	ErrProtocolError      = &Error{Kind: ProtocolError}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "sign" or "GET accounts".
	Op      string
	Message string
	// HTTPStatus is set for ProtocolError.
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind. Sentinels carry
// only a Kind, so errors.Is(err, ErrTransportError) matches any transport
// failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Invalid(op, format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Config(op, format string, args ...any) *Error {
	return &Error{Kind: ConfigurationError, Op: op, Message: fmt.Sprintf(format, args...)}
}

func ConfigWrap(op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: ConfigurationError, Op: op, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Transport(op string, cause error) *Error {
	return &Error{Kind: TransportError, Op: op, Message: "request failed", Cause: cause}
}

func Protocol(op string, status int, contentType string) *Error {
	return &Error{
		Kind:       ProtocolError,
		Op:         op,
		Message:    fmt.Sprintf("unexpected response: status %d, content type %q", status, contentType),
		HTTPStatus: status,
	}
}
