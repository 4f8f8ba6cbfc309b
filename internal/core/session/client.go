package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"comex-portal/internal/core/httpclient"
)

// ErrUpstreamNotFound is returned when the core API answers 404 for a resource.
var ErrUpstreamNotFound = errors.New("resource not found")

// APIError carries a structured error surface from the core API. When the
// upstream returned a per-field validation body ({campo: mensaje}), Fields is
// populated and Message holds a generic summary.
type APIError struct {
	// Status is the upstream HTTP status code.
	Status int
	// Message is the banner-level error message.
	Message string
	// Fields maps field names to their validation messages, if any.
	Fields map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("core API error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("core API error (%d)", e.Status)
}

// Client performs authenticated calls against the core API on behalf of a
// portal session. A request that gets a 401 is retried exactly once after a
// single-flight token refresh; a second 401 purges the session and surfaces
// ErrExpired. There is no other retry of any kind.
type Client struct {
	http     *http.Client
	baseURL  string
	sessions *Manager
}

// NewClient creates a new authenticated core API client.
func NewClient(baseURL string, timeout time.Duration, sessions *Manager) *Client {
	return &Client{
		http:     httpclient.NewClient(timeout),
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
	}
}

// DoJSON executes a JSON request and decodes a 2xx response into out (when
// out is non-nil). Error responses are mapped to ErrUpstreamNotFound,
// ErrExpired or *APIError.
func (c *Client) DoJSON(ctx context.Context, sess *Session, method, path string, body any, out any) error {
	var payload []byte
	contentType := ""
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType = "application/json"
	}

	resp, err := c.do(ctx, sess, method, path, payload, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// DoMultipart executes a multipart/form-data POST built by the write
// callback. Used for shipping document uploads.
func (c *Client) DoMultipart(ctx context.Context, sess *Session, path string, write func(w *multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := write(w); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := c.do(ctx, sess, http.MethodPost, path, buf.Bytes(), w.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// do sends the request with the session's access token. The payload is fully
// buffered so the one allowed replay after a refresh is safe.
func (c *Client) do(ctx context.Context, sess *Session, method, path string, payload []byte, contentType string) (*http.Response, error) {
	send := func(token string) (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		return c.http.Do(req)
	}

	resp, err := send(sess.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("core API request failed: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	access, err := c.sessions.RefreshAccess(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.AccessToken = access

	resp, err = send(access)
	if err != nil {
		return nil, fmt.Errorf("core API request failed after refresh: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.sessions.Purge(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("failed to purge session: %w", err)
		}
		return nil, ErrExpired
	}

	return resp, nil
}

// decodeResponse maps the upstream response to out or to a typed error.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode core API response: %w", err)
		}
		return nil
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrUpstreamNotFound
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return parseAPIError(resp.StatusCode, body)
}

// parseAPIError interprets the known core API error shapes:
// {campo: "mensaje", ...}, {"error": "..."}, {"detail": "..."} and
// {"missing_fields": ["campo", ...]}.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		apiErr.Message = "Error de conexión con el sistema central"
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		var msg string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &msg) == nil {
			apiErr.Message = msg
			delete(raw, key)
		}
	}

	if v, ok := raw["missing_fields"]; ok {
		var missing []string
		if json.Unmarshal(v, &missing) == nil {
			apiErr.Fields = make(map[string]string, len(missing))
			for _, field := range missing {
				apiErr.Fields[field] = "Campo requerido"
			}
		}
		delete(raw, "missing_fields")
	}

	for key, v := range raw {
		var msg string
		if json.Unmarshal(v, &msg) != nil {
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string]string)
		}
		apiErr.Fields[key] = msg
	}

	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = "Error de conexión con el sistema central"
	}

	return apiErr
}
