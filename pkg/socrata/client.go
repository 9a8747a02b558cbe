// Package socrata provides a typed client for Socrata Open Data (SODA)
// endpoints such as NYC Open Data. It knows datasets as logical names
// and query clauses as opaque SoQL strings; it knows nothing about
// property semantics. The client never retries — backoff policy belongs
// to callers (see internal/resilience).
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/propply/compliance-engine/internal/resilience"
)

// Row is one loosely-typed record from a dataset.
type Row = map[string]any

// MaxLimit is the largest row limit a single query may request.
const MaxLimit = 1000

// Query holds the SoQL parameters for one dataset read. Where clauses
// embed literal values; callers are responsible for escaping them (see
// Quote) — a rejected clause surfaces as a MalformedQueryError.
type Query struct {
	Where  string
	Select string
	Order  string
	Limit  int
	Offset int
}

// Client defines read access to Socrata datasets.
type Client interface {
	// Get runs one query against a logical dataset and returns its rows.
	Get(ctx context.Context, dataset string, q Query) ([]Row, error)

	// Count returns the number of rows matching an optional where clause.
	Count(ctx context.Context, dataset string, where string) (int, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the resource base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithCredentials enables HTTP Basic auth with a Socrata API key pair.
func WithCredentials(keyID, keySecret string) Option {
	return func(c *httpClient) {
		c.keyID = keyID
		c.keySecret = keySecret
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// WithDatasets adds or overrides logical dataset name → ID mappings.
func WithDatasets(extra map[string]string) Option {
	return func(c *httpClient) {
		for name, id := range extra {
			c.datasets[name] = id
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) { c.http.Timeout = d }
}

type httpClient struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	limiter   *rate.Limiter
	datasets  map[string]string
}

// NewClient creates a Socrata client for the NYC Open Data endpoint.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:  "https://data.cityofnewyork.us/resource",
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(10, 10),
		datasets: defaultDatasets(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Get(ctx context.Context, dataset string, q Query) ([]Row, error) {
	body, err := c.do(ctx, dataset, q)
	if err != nil {
		return nil, err
	}

	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, eris.Wrapf(err, "socrata: unmarshal %s response", dataset)
	}
	return rows, nil
}

func (c *httpClient) Count(ctx context.Context, dataset string, where string) (int, error) {
	rows, err := c.Get(ctx, dataset, Query{
		Select: "count(*) AS total",
		Where:  where,
		Limit:  1,
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := strconv.Atoi(Field(rows[0], "total"))
	if err != nil {
		return 0, eris.Wrapf(err, "socrata: parse %s count", dataset)
	}
	return n, nil
}

func (c *httpClient) do(ctx context.Context, dataset string, q Query) ([]byte, error) {
	id, ok := c.datasets[dataset]
	if !ok {
		return nil, eris.Errorf("socrata: unknown dataset %q", dataset)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "socrata: rate limit wait")
		}
	}

	params := url.Values{}
	if q.Where != "" {
		params.Set("$where", q.Where)
	}
	if q.Select != "" {
		params.Set("$select", q.Select)
	}
	if q.Order != "" {
		params.Set("$order", q.Order)
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	params.Set("$limit", strconv.Itoa(limit))
	if q.Offset > 0 {
		params.Set("$offset", strconv.Itoa(q.Offset))
	}

	reqURL := fmt.Sprintf("%s/%s.json?%s", c.baseURL, id, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "socrata: create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.keyID != "" {
		req.SetBasicAuth(c.keyID, c.keySecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(resilience.NewTransientError(err, 0), "socrata: query %s", dataset)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(resilience.NewTransientError(err, resp.StatusCode), "socrata: read %s response", dataset)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &resilience.MalformedQueryError{Dataset: dataset, Detail: string(body)}
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, eris.Wrapf(
			resilience.NewTransientError(eris.Errorf("status %d: %s", resp.StatusCode, string(body)), resp.StatusCode),
			"socrata: query %s", dataset,
		)
	default:
		return nil, eris.Errorf("socrata: query %s: unexpected status %d: %s", dataset, resp.StatusCode, string(body))
	}
}
