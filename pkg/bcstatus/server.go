// Package bcstatus serves a small read-only HTTP API over a running
// supervisor, for dashboards and health checks — the same CORS/logging
// middleware shape and timeout-guarded HTTP server the teacher's
// pkg/api uses for its camera-session viewer, pointed at camera
// reconnect state instead of Cloudflare session info.
package bcstatus

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakcam/neolink/pkg/bcsupervisor"
)

// Server exposes a supervisor's per-camera state as JSON.
type Server struct {
	sup        *bcsupervisor.Supervisor
	log        zerolog.Logger
	httpServer *http.Server
}

// NewServer returns a Server reporting on sup's cameras.
func NewServer(sup *bcsupervisor.Supervisor, log zerolog.Logger) *Server {
	return &Server{sup: sup, log: log}
}

// CameraStatus is the wire shape of one camera's entry in /api/cameras.
type CameraStatus struct {
	Name         string `json:"name"`
	State        string `json:"state"`
	FailureCount int    `json:"failureCount"`
	LastError    string `json:"lastError,omitempty"`
	LastAttempt  string `json:"lastAttempt,omitempty"`
}

// Start begins serving on addr until Stop is called or ctx is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras", s.handleGetCameras)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.withCORS(s.withLogging(mux)),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Info().Str("address", addr).Msg("starting status server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info().Msg("stopping status server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleGetCameras(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.sup.Snapshot()
	out := make([]CameraStatus, 0, len(snap))
	for _, c := range snap {
		cs := CameraStatus{
			Name:         c.Name,
			State:        c.State.String(),
			FailureCount: c.FailureCount,
		}
		if c.LastError != nil {
			cs.LastError = c.LastError.Error()
		}
		if !c.LastAttempt.IsZero() {
			cs.LastAttempt = c.LastAttempt.Format(time.RFC3339)
		}
		out = append(out, cs)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Error().Err(err).Msg("failed to encode cameras response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("status request")
	})
}
