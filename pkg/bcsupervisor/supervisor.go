// Package bcsupervisor runs one reconnecting session per configured
// camera, the way the teacher's pkg/nest.MultiStreamManager tracks many
// Nest camera streams: a state machine per camera, a failure counter
// driving exponential backoff, and a staggered startup so a whole fleet
// of cameras doesn't all redial at once.
package bcsupervisor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakcam/neolink/pkg/bccamera"
	"github.com/oakcam/neolink/pkg/bcconfig"
)

// CameraState is one camera's reconnect lifecycle.
type CameraState int

const (
	StateStarting CameraState = iota
	StateRunning
	StateFailed
	StateDegraded
	StateStopped
)

func (s CameraState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateDegraded:
		return "degraded"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config tunes the supervisor's backoff and stagger behavior.
type Config struct {
	StaggerInterval   time.Duration
	MaxFailures       int
	DegradedRetry     time.Duration
	RecoveryBaseDelay time.Duration
	MaxBackoff        time.Duration
}

// DefaultConfig mirrors the teacher's DefaultMultiStreamConfig defaults,
// scaled for a handful of LAN cameras rather than 20 cloud ones.
func DefaultConfig() Config {
	return Config{
		StaggerInterval:   2 * time.Second,
		MaxFailures:       5,
		DegradedRetry:     5 * time.Minute,
		RecoveryBaseDelay: 2 * time.Second,
		MaxBackoff:        time.Minute,
	}
}

// Run is what the supervisor does with a live session once connected:
// typically start video/audio publishing and block until the session
// fails or ctx is canceled.
type Run func(ctx context.Context, sess *bccamera.Session) error

// cameraRunner tracks one camera's live state.
type cameraRunner struct {
	cam bcconfig.Camera

	mu           sync.RWMutex
	state        CameraState
	failureCount int
	lastError    error
	lastAttempt  time.Time
}

// Supervisor owns a Run-loop goroutine per configured camera.
type Supervisor struct {
	cfg Config
	log zerolog.Logger
	run Run

	mu      sync.RWMutex
	cameras map[string]*cameraRunner

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New returns a Supervisor that dials cameras and hands each connected
// Session to run.
func New(cfg Config, log zerolog.Logger, run Run) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		log:     log,
		run:     run,
		cameras: make(map[string]*cameraRunner),
	}
}

// Start launches one reconnect-supervised goroutine per camera, staggered
// by cfg.StaggerInterval, until ctx is canceled or Stop is called.
func (s *Supervisor) Start(ctx context.Context, cameras []bcconfig.Camera) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i, cam := range cameras {
		cr := &cameraRunner{cam: cam, state: StateStarting}
		s.mu.Lock()
		s.cameras[cam.Name] = cr
		s.mu.Unlock()

		delay := time.Duration(i) * s.cfg.StaggerInterval
		s.wg.Add(1)
		go func(cr *cameraRunner, delay time.Duration) {
			defer s.wg.Done()
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			s.superviseCamera(ctx, cr)
		}(cr, delay)
	}
}

// Stop cancels every camera's goroutine and waits for them to exit.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// State returns the current lifecycle state of a named camera, or
// StateStopped with ok=false if unknown.
func (s *Supervisor) State(name string) (CameraState, bool) {
	s.mu.RLock()
	cr, ok := s.cameras[name]
	s.mu.RUnlock()
	if !ok {
		return StateStopped, false
	}
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.state, true
}

// CameraStatus is a point-in-time snapshot of one camera's runner.
type CameraStatus struct {
	Name         string
	State        CameraState
	FailureCount int
	LastError    error
	LastAttempt  time.Time
}

// Snapshot returns the current status of every camera the supervisor
// was started with, in no particular order.
func (s *Supervisor) Snapshot() []CameraStatus {
	s.mu.RLock()
	runners := make([]*cameraRunner, 0, len(s.cameras))
	for _, cr := range s.cameras {
		runners = append(runners, cr)
	}
	s.mu.RUnlock()

	out := make([]CameraStatus, 0, len(runners))
	for _, cr := range runners {
		cr.mu.RLock()
		out = append(out, CameraStatus{
			Name:         cr.cam.Name,
			State:        cr.state,
			FailureCount: cr.failureCount,
			LastError:    cr.lastError,
			LastAttempt:  cr.lastAttempt,
		})
		cr.mu.RUnlock()
	}
	return out
}

func (s *Supervisor) superviseCamera(ctx context.Context, cr *cameraRunner) {
	log := s.log.With().Str("camera", cr.cam.Name).Logger()

	for {
		select {
		case <-ctx.Done():
			cr.setState(StateStopped)
			return
		default:
		}

		cr.setState(StateStarting)
		cr.mu.Lock()
		cr.lastAttempt = time.Now()
		cr.mu.Unlock()

		sess, err := bccamera.Connect(ctx, cr.cam.CameraAddr, cr.cam.Username, cr.cam.Password)
		if err != nil {
			s.recordFailure(log, cr, err)
			if !s.waitBackoff(ctx, cr) {
				return
			}
			continue
		}

		cr.setState(StateRunning)
		cr.mu.Lock()
		cr.failureCount = 0
		cr.mu.Unlock()
		log.Info().Msg("camera session established")

		runErr := s.run(ctx, sess)
		sess.Close()

		if ctx.Err() != nil {
			cr.setState(StateStopped)
			return
		}

		s.recordFailure(log, cr, runErr)
		if !s.waitBackoff(ctx, cr) {
			return
		}
	}
}

func (s *Supervisor) recordFailure(log zerolog.Logger, cr *cameraRunner, err error) {
	cr.mu.Lock()
	cr.failureCount++
	cr.lastError = err
	count := cr.failureCount
	cr.mu.Unlock()

	state := StateFailed
	if count >= s.cfg.MaxFailures {
		state = StateDegraded
	}
	cr.setState(state)
	log.Warn().Err(err).Int("failure_count", count).Str("state", state.String()).Msg("camera session ended")
}

// waitBackoff sleeps for the camera's current backoff duration (capped,
// exponential in the teacher's manner) and reports whether the
// supervisor should keep retrying.
func (s *Supervisor) waitBackoff(ctx context.Context, cr *cameraRunner) bool {
	cr.mu.RLock()
	count, state := cr.failureCount, cr.state
	cr.mu.RUnlock()

	delay := s.cfg.RecoveryBaseDelay
	if state == StateDegraded {
		delay = s.cfg.DegradedRetry
	} else {
		for i := 1; i < count; i++ {
			delay *= 2
			if delay >= s.cfg.MaxBackoff {
				delay = s.cfg.MaxBackoff
				break
			}
		}
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

func (cr *cameraRunner) setState(st CameraState) {
	cr.mu.Lock()
	cr.state = st
	cr.mu.Unlock()
}
