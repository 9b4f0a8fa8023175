package bcsupervisor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCameraStateString(t *testing.T) {
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "degraded", StateDegraded.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", CameraState(99).String())
}

func TestUnknownCameraStateLookup(t *testing.T) {
	s := New(DefaultConfig(), zerolog.New(io.Discard), nil)
	_, ok := s.State("nope")
	assert.False(t, ok)
}

func TestWaitBackoffEscalatesAndCaps(t *testing.T) {
	cfg := Config{RecoveryBaseDelay: time.Millisecond, MaxBackoff: 4 * time.Millisecond, DegradedRetry: time.Hour, MaxFailures: 100}
	s := New(cfg, zerolog.New(io.Discard), nil)
	cr := &cameraRunner{state: StateFailed, failureCount: 10}

	start := time.Now()
	ok := s.waitBackoff(context.Background(), cr)
	elapsed := time.Since(start)

	assert.True(t, ok)
	assert.LessOrEqual(t, elapsed, 50*time.Millisecond)
}
