package bccamera

import "sync/atomic"

// State is one step of the login handshake's state machine (§4.5).
type State uint32

const (
	StateDisconnected State = iota
	StateConnected
	StateNonceNegotiated
	StateLoggedIn
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateNonceNegotiated:
		return "nonce_negotiated"
	case StateLoggedIn:
		return "logged_in"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type stateBox struct {
	v atomic.Uint32
}

func (b *stateBox) set(s State)  { b.v.Store(uint32(s)) }
func (b *stateBox) get() State   { return State(b.v.Load()) }
