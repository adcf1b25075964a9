// Package clients implements the uniform transport contract for outbound
// calls to backend services. Every call carries a correlation id and a
// human-readable description; every failure is classified as either a
// TransportError or an UnexpectedStatusError before it reaches the caller.
package clients

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

	"go.uber.org/zap"
)

// maxResponseSize caps backend response bodies (1MB)
const maxResponseSize = 1 << 20

// CorrelationHeader threads the request's correlation id through outbound
// calls for distributed tracing.
const CorrelationHeader = "X-Request-ID"

// Transform converts a raw response body into a typed domain object.
// Supplied per endpoint by the owning client.
type Transform func(body []byte) (any, error)

// Request describes one outbound call. Path is a template with
// {placeholder} segments substituted from PathParams.
type Request struct {
	Method        string
	Path          string
	PathParams    map[string]string
	Query         url.Values
	Body          any
	CorrelationID string
	Description   string
	Accept        []int
	Transform     Transform
}

// Response is the normalised result of a call
type Response struct {
	Status int
	Body   []byte
	// Data holds the transformed object when the request carried a Transform
	Data any
}

// Client issues calls against one backend service. It holds no mutable
// state beyond the configured http.Client and is safe for concurrent use.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the named backend service
func New(service, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Service returns the service tag used in logs and errors
func (c *Client) Service() string {
	return c.service
}

// ExpandPath substitutes {placeholder} segments in a path template.
// Values are URL-escaped; an unresolved placeholder is a programming error.
func ExpandPath(template string, params map[string]string) (string, error) {
	path := template
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	if i := strings.IndexByte(path, '{'); i >= 0 {
		return "", fmt.Errorf("path template %q has unresolved placeholder", template)
	}
	return path, nil
}

// Do issues the call and normalises the outcome. A status in the accepted
// set (any 2xx when Accept is empty) resolves with the parsed body,
// optionally passed through the request's Transform; anything else rejects
// with a classified error carrying service, description and correlation id.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	status, body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if !statusAccepted(status, req.Accept) {
		return nil, &UnexpectedStatusError{
			Service:       c.service,
			Description:   req.Description,
			CorrelationID: req.CorrelationID,
			Status:        status,
		}
	}

	result := &Response{Status: status, Body: body}
	if req.Transform != nil {
		data, err := req.Transform(body)
		if err != nil {
			return nil, fmt.Errorf("%s: transforming %s response: %w", c.service, req.Description, err)
		}
		result.Data = data
	}
	return result, nil
}

// send performs one exchange against the backend and returns the raw
// status and body. Transport-level failures come back already classified
// as TransportError; status acceptance is the caller's concern.
func (c *Client) send(ctx context.Context, req Request) (int, []byte, error) {
	path, err := ExpandPath(req.Path, req.PathParams)
	if err != nil {
		return 0, nil, err
	}

	target := c.baseURL + path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encoding request body: %w", c.service, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: building request: %w", c.service, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.CorrelationID != "" {
		httpReq.Header.Set(CorrelationHeader, req.CorrelationID)
	}

	start := time.Now()
	c.logger.Debug("Calling backend service",
		zap.String("service", c.service),
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.String("description", req.Description),
		zap.String("correlation_id", req.CorrelationID))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := &TransportError{
			Service:       c.service,
			Description:   req.Description,
			CorrelationID: req.CorrelationID,
			Err:           err,
		}
		c.logger.Error("Backend service call failed",
			zap.String("service", c.service),
			zap.String("description", req.Description),
			zap.String("correlation_id", req.CorrelationID),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return 0, nil, transportErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, &TransportError{
			Service:       c.service,
			Description:   req.Description,
			CorrelationID: req.CorrelationID,
			Err:           err,
		}
	}

	c.logger.Info("Backend service call completed",
		zap.String("service", c.service),
		zap.String("description", req.Description),
		zap.String("correlation_id", req.CorrelationID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return resp.StatusCode, body, nil
}

// statusAccepted reports whether status is in the accepted set, or any 2xx
// when the set is empty
func statusAccepted(status int, accept []int) bool {
	if len(accept) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range accept {
		if status == s {
			return true
		}
	}
	return false
}

// DecodeJSON is a Transform helper producing *T from a JSON body
func DecodeJSON[T any](body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
