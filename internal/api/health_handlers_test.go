package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, CacheNoStore, resp.Header().Get("Cache-Control"))

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "healthy", envelope.Data.Components["sessions"].Status)
}

func TestHealthCheck_FailingComponent(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.HealthChecks = append(o.HealthChecks, HealthCheck{
			Name:  "broken",
			Check: func(context.Context) error { return errors.New("disk on fire") },
		})
	})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "unhealthy", envelope.Data.Status)
	assert.Equal(t, "unhealthy", envelope.Data.Components["broken"].Status)
	assert.NotContains(t, envelope.Data.Components["broken"].Message, "disk on fire")
}

func TestHealthCheck_NoChecksConfigured(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.HealthChecks = nil })

	resp := ts.api.Get("/health")

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "degraded", envelope.Data.Status)
}
