// Package bcerrors defines the error taxonomy shared by every BC package:
// communication, (de)serialization, timeout, disconnection, auth, and the
// two reply-shape mismatches spec'd for the camera session and media
// reframer. The BC packages wrap these with fmt.Errorf("%w: ...") or, where
// a caller needs more detail (IncompleteError in bcwire and bcmedia,
// UnintelligibleReply here), use a small error type whose Unwrap returns
// one of them, so callers can errors.Is/As against one set.
package bcerrors

import "errors"

var (
	// ErrCommunication marks a socket read/write failure. Terminal for the session.
	ErrCommunication = errors.New("communication error")

	// ErrSerialization marks a packet the codec could not encode.
	ErrSerialization = errors.New("serialization error")

	// ErrDeserialization marks a packet the codec could not decode.
	ErrDeserialization = errors.New("deserialization error")

	// ErrTimeout marks a Recv that exceeded its budget.
	ErrTimeout = errors.New("timeout")

	// ErrDisconnected marks a subscription whose feeder connection has exited.
	ErrDisconnected = errors.New("disconnected")

	// ErrAuthFailed marks a modern login reply with neither XML nor binary body.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnintelligibleReply marks a well-formed reply that lacked the expected shape.
	ErrUnintelligibleReply = errors.New("unintelligible reply")

	// ErrMalformed marks a wire decoder or media reframer byte sequence that
	// does not parse under the BC grammar.
	ErrMalformed = errors.New("malformed")
)

// UnintelligibleReply carries the offending reply alongside the reason, for
// callers that want to inspect what actually came back.
type UnintelligibleReply struct {
	Why   string
	Reply any
}

func (e *UnintelligibleReply) Error() string {
	return "unintelligible reply: " + e.Why
}

func (e *UnintelligibleReply) Unwrap() error { return ErrUnintelligibleReply }
