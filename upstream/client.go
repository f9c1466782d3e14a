package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"penquan/internal/metrics"
)

// Client is the one outbound HTTP adapter. It attaches the bearer token
// when one is supplied, unwraps response envelopes into the struct the
// accessor hands it, and converts failures into *Error. It keeps no state
// between calls: no retries, no caching.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resource := resourceOf(path)
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncUpstream(resource, "network_error")
		c.log.Warn("upstream unreachable",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncUpstream(resource, "network_error")
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		e := &Error{Kind: kindOf(resp.StatusCode), Status: resp.StatusCode, Message: serverMessage(data)}
		metrics.IncUpstream(resource, outcomeOf(e.Kind))
		c.log.Warn("upstream error",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("message", e.Message))
		return nil, e
	}

	metrics.IncUpstream(resource, "ok")
	return data, nil
}

func (c *Client) decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Message: "unexpected response shape"}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, token, query, nil, "")
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// sendJSON covers POST and PUT with a structured JSON body, the encoding
// all endpoints use except the historical form-encoded /login variant.
func (c *Client) sendJSON(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: err.Error()}
		}
		reader = bytes.NewReader(buf)
	}
	data, err := c.do(ctx, method, path, token, query, reader, "application/json")
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// postForm keeps the form-encoded body the login endpoint expects. The
// backend is a fixed collaborator; the inconsistency stays per-endpoint.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, "", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

func (c *Client) delete(ctx context.Context, path, token string, out any) error {
	data, err := c.do(ctx, http.MethodDelete, path, token, nil, nil, "")
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// serverMessage digs the human-readable message out of an error payload.
func serverMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// resourceOf reduces a request path to its leading segment for metrics.
func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

func outcomeOf(k Kind) string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network_error"
	default:
		return "server_error"
	}
}
