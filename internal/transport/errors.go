package transport

import (
	"fmt"
	"strings"
)

// Kind classifies why a remote operation failed.
type Kind int

const (
	// KindUnreachable: the request never produced an HTTP response
	// (dial failure, DNS, reset, cancelled context).
	KindUnreachable Kind = iota + 1
	// KindStatus: the server answered with a non-2xx status.
	KindStatus
	// KindDecode: the server answered 2xx but the body was not the
	// expected JSON shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned for every failed remote operation.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // KindStatus only
	Body       string // raw response text for KindStatus and KindDecode
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s %s: server returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the text shown to the user: the server's raw error body for
// status failures, the underlying cause otherwise.
func (e *Error) Message() string {
	if e.Kind == KindStatus {
		return e.Body
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return strings.TrimSpace(e.Err.Error())
}
