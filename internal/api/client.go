package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"resume-client/internal/shared/config"
	"resume-client/internal/shared/telemetry"
)

// AnonymousUserID is substituted on the wire when the caller holds no
// identified user. It is never written back into workflow options.
const AnonymousUserID = "anonymous"

// Client talks to the resume analysis backend. It sets no timeout of its
// own; deadline behavior is whatever the underlying transport provides.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a backend client. An empty baseURL or nil httpClient
// falls back to defaults.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = config.DefaultBackendURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the configured endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(req *http.Request, op string) (*http.Response, string, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.Error("api.request.failed", map[string]any{
			"op":         op,
			"url":        req.URL.String(),
			"request_id": requestID,
			"err":        err.Error(),
		})
		return nil, requestID, err
	}
	return resp, requestID, nil
}

// errorDetail is the structured error envelope the backend emits.
type errorDetail struct {
	Detail string `json:"detail"`
}

// decodeError turns a non-2xx response into an *Error, pulling the detail
// field when the body carries one.
func decodeError(op, fallback string, resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope errorDetail
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Detail) != "" {
		return &Error{
			Op:       op,
			Kind:     KindServer,
			Status:   resp.StatusCode,
			Detail:   strings.TrimSpace(envelope.Detail),
			Fallback: fallback,
		}
	}
	return &Error{
		Op:       op,
		Kind:     KindServer,
		Status:   resp.StatusCode,
		Fallback: fallback,
	}
}

func transportError(op, fallback string, err error) *Error {
	return &Error{
		Op:       op,
		Kind:     KindTransport,
		Fallback: fallback,
		Err:      err,
	}
}

func contractError(op, fallback, reason string) *Error {
	return &Error{
		Op:       op,
		Kind:     KindContract,
		Detail:   reason,
		Fallback: fallback,
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
