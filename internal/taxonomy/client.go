package taxonomy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client issues GraphQL queries against the taxonomy endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	headers    http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHeader adds a header to every request, e.g. an Authorization
// token for endpoints that require one.
func WithHeader(name, value string) Option {
	return func(c *Client) { c.headers.Set(name, value) }
}

// NewClient creates a client for the taxonomy endpoint at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		endpoint: url,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: http.Header{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// graphqlRequest is the request payload sent to the endpoint.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlResponse is the generic GraphQL response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

// graphqlError is one error reported by the endpoint.
type graphqlError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Query performs one POST of the query against the endpoint and returns
// the response's data field. The response must be exactly HTTP 200 with
// no GraphQL errors; there is no retry, the first failure is final.
//
// The shape of the data field is not validated here; that is
// DecodePayload's job.
func (c *Client) Query(ctx context.Context, query string) (json.RawMessage, error) {
	body, err := json.Marshal(&graphqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Detail:     excerpt(respBody),
		}
	}
	// A 2xx outside the designated success code still fails: a 204 has
	// no body to parse and anything else in the family is undefined for
	// this endpoint.
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Detail:     "expected status 200",
		}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w (body: %s)", err, excerpt(respBody))
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			msgs[i] = e.Message
		}
		return nil, &TransportError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Detail:     "GraphQL errors: " + strings.Join(msgs, "; "),
		}
	}

	return gqlResp.Data, nil
}

// excerpt trims a response body for use in error messages.
func excerpt(b []byte) string {
	const max = 512
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
