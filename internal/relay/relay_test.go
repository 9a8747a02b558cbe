package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     1.0,
	}
}

func TestForward_PostsEnvelope(t *testing.T) {
	t.Parallel()

	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"status":"accepted","queue_id":"q-42"}`))
	}))
	defer server.Close()

	record := &model.ComplianceRecord{ID: "rec-1", Address: "1 MAIN ST", OverallScore: 95}
	relay := New(server.URL, WithRetryConfig(fastRetry()))

	resp, err := relay.Forward(context.Background(), record, map[string]string{"request_id": "req-7"})
	require.NoError(t, err)

	// The downstream response is opaque and passed through as-is.
	assert.JSONEq(t, `{"status":"accepted","queue_id":"q-42"}`, string(resp))

	assert.Equal(t, "property_compliance", received.DataType)
	assert.Equal(t, "compliance-engine", received.Source)
	assert.Equal(t, "rec-1", received.ComplianceData.ID)
	assert.Equal(t, "req-7", received.RequestMetadata["request_id"])
	_, terr := time.Parse(time.RFC3339, received.Timestamp)
	assert.NoError(t, terr)
}

func TestForward_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	relay := New(server.URL, WithRetryConfig(fastRetry()))
	resp, err := relay.Forward(context.Background(), &model.ComplianceRecord{ID: "r"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp))
	assert.Equal(t, int32(3), calls.Load())
}

func TestForward_PermanentFailureDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`bad payload`))
	}))
	defer server.Close()

	relay := New(server.URL, WithRetryConfig(fastRetry()))
	_, err := relay.Forward(context.Background(), &model.ComplianceRecord{ID: "r"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Equal(t, int32(1), calls.Load())
}

func TestForward_ExhaustedRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	relay := New(server.URL, WithRetryConfig(fastRetry()))
	_, err := relay.Forward(context.Background(), &model.ComplianceRecord{ID: "r"}, nil)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWithSource(t *testing.T) {
	t.Parallel()

	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	relay := New(server.URL, WithSource("propply-batch"), WithRetryConfig(fastRetry()))
	_, err := relay.Forward(context.Background(), &model.ComplianceRecord{ID: "r"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "propply-batch", received.Source)
}
