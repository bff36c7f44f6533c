package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	"github.com/evyataryagoni/geoconsole/internal/models"
)

// maxErrorBody caps how much of an error response is read into a message
const maxErrorBody = 4 << 10

// GeoService is the set of geo-query service operations the console uses
// Client implements it; MockClient stands in for it in tests.
type GeoService interface {
	Query(ctx context.Context, coords []geo.Coordinate) (*models.QueryResponse, error)
	Delete(ctx context.Context, id string) error
	Insert(ctx context.Context, num int) (*models.InsertResponse, error)
	DeleteRandom(ctx context.Context, num int) (*models.DeleteRandomResponse, error)
	Count(ctx context.Context) (*models.CountResponse, error)
}

// Client talks JSON over HTTP to the geo-query service
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates a client for the service at baseURL
//
// Parameters:
//   - baseURL: service root, e.g. "http://192.168.232.129:8080"
//   - timeout: per-request timeout applied by the underlying http.Client
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    m,
		logger:     log.WithComponent("GeoServiceClient"),
	}
}

// Query runs a polygon query: POST /query {"coordinates": [[lng, lat], ...]}
func (c *Client) Query(ctx context.Context, coords []geo.Coordinate) (*models.QueryResponse, error) {
	var resp models.QueryResponse
	body := models.QueryRequest{Coordinates: geo.Pairs(coords)}
	if err := c.do(ctx, "query", http.MethodPost, "/query", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.GeoRecord{}
	}
	return &resp, nil
}

// Delete removes one record: DELETE /delete/{id}
// The service answers with a plain-text body which is ignored on success.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/delete/"+url.PathEscape(id), nil, nil)
}

// Insert asks the service to generate num random records: POST /insert {"num": n}
func (c *Client) Insert(ctx context.Context, num int) (*models.InsertResponse, error) {
	var resp models.InsertResponse
	if err := c.do(ctx, "insert", http.MethodPost, "/insert", models.InsertRequest{Num: num}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRandom asks the service to delete num random records: POST /delete-random {"num": n}
func (c *Client) DeleteRandom(ctx context.Context, num int) (*models.DeleteRandomResponse, error) {
	var resp models.DeleteRandomResponse
	if err := c.do(ctx, "delete-random", http.MethodPost, "/delete-random", models.DeleteRandomRequest{Num: num}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Count returns the total number of records held by the service: GET /count
func (c *Client) Count(ctx context.Context) (*models.CountResponse, error) {
	var resp models.CountResponse
	if err := c.do(ctx, "count", http.MethodGet, "/count", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one request and decodes a JSON answer into out (if out is not nil)
// Every failure is returned as *NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		c.observe(op, status, time.Since(start), err)
	}()

	var reqBody io.Reader
	if in != nil {
		payload, mErr := json.Marshal(in)
		if mErr != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("failed to encode request: %w", mErr)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to fetch: %w", err)}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts a human readable message from an error body
//
// The service answers JSON {"status":"error","message":...} on most
// endpoints, {"error":...} on some, and plain text on the delete endpoints.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// observe records metrics and logs for one call
func (c *Client) observe(op string, status int, elapsed time.Duration, err error) {
	label := "error"
	if status != 0 {
		label = fmt.Sprintf("%d", status)
	}

	if c.metrics != nil {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(op, label).Inc()
		c.metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("operation", op).
			Int("status", status).
			Dur("duration_ms", elapsed).
			Msg("Geo service call failed")
		return
	}

	c.logger.Debug().
		Str("operation", op).
		Int("status", status).
		Dur("duration_ms", elapsed).
		Msg("Geo service call completed")
}
