// Package geosearch provides a client for the NYC Planning GeoSearch
// API (v2), the primary address-to-identifier lookup. The service is
// free and unauthenticated.
package geosearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/propply/compliance-engine/internal/resilience"
)

// Client defines the GeoSearch lookup.
type Client interface {
	// Search geocodes a free-text address and returns the best match.
	// A query with no candidates returns Matched=false, not an error.
	Search(ctx context.Context, text string) (*Result, error)
}

// Result is the best-match property for a search.
type Result struct {
	Matched     bool
	HouseNumber string
	Street      string
	Borough     string
	PostalCode  string
	BIN         string
	BBL         string
}

// Address returns the matched house number and street as one line.
func (r *Result) Address() string {
	return strings.TrimSpace(r.HouseNumber + " " + r.Street)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a GeoSearch client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://geosearch.planninglabs.nyc/v2",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse mirrors the GeoJSON envelope GeoSearch returns. BIN
// and BBL live under addendum.pad in the v2 schema.
type searchResponse struct {
	Features []struct {
		Properties struct {
			HouseNumber string `json:"housenumber"`
			Street      string `json:"street"`
			Borough     string `json:"borough"`
			PostalCode  string `json:"postalcode"`
			Addendum    struct {
				PAD struct {
					BIN string `json:"bin"`
					BBL string `json:"bbl"`
				} `json:"pad"`
			} `json:"addendum"`
		} `json:"properties"`
	} `json:"features"`
}

func (c *httpClient) Search(ctx context.Context, text string) (*Result, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("size", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geosearch: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(resilience.NewTransientError(err, 0), "geosearch: search")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geosearch: read response")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, eris.Wrap(
			resilience.NewTransientError(eris.Errorf("status %d", resp.StatusCode), resp.StatusCode),
			"geosearch: search",
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geosearch: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "geosearch: unmarshal response")
	}

	if len(sr.Features) == 0 {
		return &Result{Matched: false}, nil
	}

	p := sr.Features[0].Properties
	return &Result{
		Matched:     true,
		HouseNumber: p.HouseNumber,
		Street:      p.Street,
		Borough:     p.Borough,
		PostalCode:  p.PostalCode,
		BIN:         p.Addendum.PAD.BIN,
		BBL:         p.Addendum.PAD.BBL,
	}, nil
}
