// Package mqttstatus translates camera session/motion state into the MQTT
// topic and payload strings spec.md §6 fixes exactly. It owns no MQTT
// client — no MQTT library appears anywhere in the example pack this
// module was built from, so the adapter is specified down to a pure
// function a caller wires to whatever client it already has (see
// DESIGN.md for why this stays a translation layer rather than adopting a
// library with no grounding in the corpus).
package mqttstatus

import "github.com/oakcam/neolink/pkg/bccamera"

// Connectivity is the coarse session state published on <name>/status.
type Connectivity string

const (
	Connected    Connectivity = "connected"
	Disconnected Connectivity = "disconnected"
	Offline      Connectivity = "offline" // last-will value
)

// Message is one topic/payload/retained publication.
type Message struct {
	Topic    string
	Payload  string
	Retained bool
}

// Publisher is the interface a real MQTT client satisfies to accept the
// Messages this package builds. Nothing in this module implements it;
// embedders wire it to whatever broker client they already depend on.
type Publisher interface {
	Publish(Message) error
}

// StatusTopic returns "neolink/<name>/status".
func StatusTopic(name string) string { return "neolink/" + name + "/status" }

// MotionTopic returns "neolink/<name>/status/motion".
func MotionTopic(name string) string { return "neolink/" + name + "/status/motion" }

// CommandTopicFilter returns the subscription filter for a camera's
// incoming commands: "neolink/<name>/#".
func CommandTopicFilter(name string) string { return "neolink/" + name + "/#" }

// StatusMessage builds the retained connectivity publication.
func StatusMessage(name string, c Connectivity) Message {
	return Message{Topic: StatusTopic(name), Payload: string(c), Retained: true}
}

// LastWill is the message the MQTT client should register as its will, so
// a lost connection is reported as "offline" without an explicit publish.
func LastWill(name string) Message {
	return StatusMessage(name, Offline)
}

// MotionMessage builds the retained motion publication from a bccamera
// motion projection. MotionNoChange yields no message — callers should
// skip publishing for it.
func MotionMessage(name string, state bccamera.MotionState) (Message, bool) {
	switch state {
	case bccamera.MotionStart:
		return Message{Topic: MotionTopic(name), Payload: "on", Retained: true}, true
	case bccamera.MotionStop:
		return Message{Topic: MotionTopic(name), Payload: "off", Retained: true}, true
	default:
		return Message{}, false
	}
}
