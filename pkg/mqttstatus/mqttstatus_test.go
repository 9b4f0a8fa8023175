package mqttstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakcam/neolink/pkg/bccamera"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, "neolink/frontdoor/status", StatusTopic("frontdoor"))
	assert.Equal(t, "neolink/frontdoor/status/motion", MotionTopic("frontdoor"))
	assert.Equal(t, "neolink/frontdoor/#", CommandTopicFilter("frontdoor"))
}

func TestLastWillIsOffline(t *testing.T) {
	msg := LastWill("frontdoor")
	assert.Equal(t, "offline", msg.Payload)
	assert.True(t, msg.Retained)
}

func TestMotionMessage(t *testing.T) {
	on, ok := MotionMessage("frontdoor", bccamera.MotionStart)
	assert.True(t, ok)
	assert.Equal(t, "on", on.Payload)

	off, ok := MotionMessage("frontdoor", bccamera.MotionStop)
	assert.True(t, ok)
	assert.Equal(t, "off", off.Payload)

	_, ok = MotionMessage("frontdoor", bccamera.MotionNoChange)
	assert.False(t, ok)
}
