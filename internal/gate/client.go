package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/depotlink/gatectl/pkg/log"
)

// Response is a successful (2xx) reply. Body is returned unmodified.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Client talks to the gate API. It owns one transport; call Close when done.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	retries   int

	transport  *http.Transport
	httpClient *http.Client
	logger     log.Logger
	newBackOff func() backoff.BackOff
}

// Close releases the client's idle connections.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

// StatusURL returns the lookup URL for unitNumber: {base}/{unitNumber}.
func (c *Client) StatusURL(unitNumber string) string {
	return c.baseURL + "/" + url.PathEscape(unitNumber)
}

// GetStatus fetches the current gate status of a unit. A non-2xx reply is
// returned as *APIError.
func (c *Client) GetStatus(ctx context.Context, req *GateStatusRequest) (*Response, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Reason: "is required"}
	}
	return c.do(ctx, http.MethodGet, c.StatusURL(req.UnitNumber), nil)
}

// CreateStatus submits a gate entry. The body is encoded once, so retries
// send the same activity time.
func (c *Client) CreateStatus(ctx context.Context, req *GateCreateRequest) (*Response, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Reason: "is required"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling gate entry: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL, body)
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*Response, error) {
	var (
		resp    *Response
		attempt int
	)

	op := func() error {
		attempt++
		r, err := c.roundTrip(ctx, method, target, body)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && te.Timeout() {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.retries)), ctx)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("request timed out, retrying", "method", method, "url", target, "attempt", attempt, "backoff", wait, err)
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		// The backoff reports a bare context error when ctx ends between
		// attempts; keep it classified as a transport failure.
		var te *TransportError
		if !errors.As(err, &te) && ctx.Err() != nil {
			err = &TransportError{Method: method, URL: target, Err: err}
		}
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: resp.Body}
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.logger.Debug("sending request", "method", method, "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("received response", "method", method, "url", target, "status", resp.StatusCode, "latency", time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}, nil
}
