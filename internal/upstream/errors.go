package upstream

import "fmt"

// Kind classifies how a call against the backend failed. Every failure a
// handler sees is one of these; they all end up in the same notification
// channel, the kind only drives logging and the fallback message.
type Kind int

const (
	// KindNetwork: the request never produced an HTTP response
	// (DNS, connect, reset, context cancelled).
	KindNetwork Kind = iota + 1
	// KindHTTP: the backend answered with a non-2xx status.
	KindHTTP
	// KindEnvelope: 2xx response whose body carries {"success": false}.
	KindEnvelope
	// KindDecode: the payload did not match the collection schema.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindEnvelope:
		return "envelope"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Client call.
type Error struct {
	Kind    Kind
	Op      string // "create article", "upload", ...
	Status  int    // HTTP status, when one was received
	Message string // server-supplied message, when present
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Kind)
	default:
		return fmt.Sprintf("%s failed (%s)", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is what ends up in the notification: the server-supplied
// message when there is one, a generic one otherwise.
func UserMessage(err error) string {
	if e, ok := err.(*Error); ok {
		if e.Message != "" {
			return e.Message
		}
		if e.Kind == KindNetwork {
			return "network error, please try again"
		}
	}
	return "something went wrong, please try again"
}
