// Package relay forwards completed compliance records to a configured
// webhook. The receiver's response body is passed through opaquely so
// callers can surface whatever the downstream system returns.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/propply/compliance-engine/internal/model"
	"github.com/propply/compliance-engine/internal/resilience"
)

// Payload is the envelope posted to the webhook.
type Payload struct {
	Timestamp       string                  `json:"timestamp"`
	Source          string                  `json:"source"`
	DataType        string                  `json:"data_type"`
	ComplianceData  *model.ComplianceRecord `json:"compliance_data"`
	RequestMetadata map[string]string       `json:"request_metadata,omitempty"`
}

// Relay posts compliance records to a webhook endpoint.
type Relay struct {
	url        string
	source     string
	httpClient *http.Client
	retry      resilience.RetryConfig
}

// Option configures a Relay.
type Option func(*Relay)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Relay) { r.httpClient = c }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(r *Relay) { r.retry = cfg }
}

// WithSource overrides the source label in the payload envelope.
func WithSource(source string) Option {
	return func(r *Relay) { r.source = source }
}

// New creates a Relay targeting the given webhook URL.
func New(url string, opts ...Option) *Relay {
	r := &Relay{
		url:        url,
		source:     "compliance-engine",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Forward posts the record and returns the receiver's raw response
// body. Transient failures are retried under the relay's retry policy.
func (r *Relay) Forward(ctx context.Context, record *model.ComplianceRecord, metadata map[string]string) ([]byte, error) {
	payload := Payload{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Source:          r.source,
		DataType:        "property_compliance",
		ComplianceData:  record,
		RequestMetadata: metadata,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "relay: marshal payload")
	}

	return resilience.DoVal(ctx, r.retry, func(ctx context.Context) ([]byte, error) {
		return r.post(ctx, body)
	})
}

func (r *Relay) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "relay: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "relay: post"), 0)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "relay: read response"), resp.StatusCode)
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("relay: webhook returned %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("relay: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	zap.L().Debug("relay: record forwarded",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_bytes", len(respBody)),
	)
	return respBody, nil
}
