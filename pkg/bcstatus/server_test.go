package bcstatus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakcam/neolink/pkg/bcsupervisor"
)

func TestHandleGetCamerasReportsEmptySnapshot(t *testing.T) {
	sup := bcsupervisor.New(bcsupervisor.DefaultConfig(), zerolog.New(io.Discard), nil)
	s := NewServer(sup, zerolog.New(io.Discard))

	req := httptest.NewRequest(http.MethodGet, "/api/cameras", nil)
	rec := httptest.NewRecorder()
	s.handleGetCameras(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []CameraStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got) // Start was never called, so the supervisor tracks no cameras
}

func TestHandleGetCamerasRejectsNonGET(t *testing.T) {
	sup := bcsupervisor.New(bcsupervisor.DefaultConfig(), zerolog.New(io.Discard), nil)
	s := NewServer(sup, zerolog.New(io.Discard))

	req := httptest.NewRequest(http.MethodPost, "/api/cameras", nil)
	rec := httptest.NewRecorder()
	s.handleGetCameras(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	sup := bcsupervisor.New(bcsupervisor.DefaultConfig(), zerolog.New(io.Discard), nil)
	s := NewServer(sup, zerolog.New(io.Discard))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStartAndStop(t *testing.T) {
	sup := bcsupervisor.New(bcsupervisor.DefaultConfig(), zerolog.New(io.Discard), nil)
	s := NewServer(sup, zerolog.New(io.Discard))

	require.NoError(t, s.Start(context.Background(), "127.0.0.1:0"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
