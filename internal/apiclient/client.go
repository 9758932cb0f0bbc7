package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-admin/internal/metrics"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"

	maxErrorLength  = 300
	headerRequestID = "X-Request-ID"
)

// Error is the only error shape the client returns: a bounded, human readable message.
// Status is zero when the request never produced an HTTP response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// RawBody is sent as is, without JSON encoding.
type RawBody struct {
	ContentType string
	Data        []byte
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

type Client struct {
	baseURL string
	headers http.Header
	client  *http.Client
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	return &Client{
		baseURL: baseURL,
		headers: headers,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "apiclient").Logger(),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return strings.Contains(r.contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Do performs a request and returns nil for 204, decoded JSON for JSON responses and
// the raw text otherwise. Caller headers override the defaults.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) (any, error) {
	resp, err := c.send(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusNoContent {
		return nil, nil
	}

	if resp.isJSON() {
		var out any
		if err := json.Unmarshal(resp.body, &out); err != nil {
			return nil, normalize(fmt.Errorf("failed to parse response: %w", err), 0)
		}
		return out, nil
	}

	return string(resp.body), nil
}

// doJSON decodes a successful response into out. Empty bodies leave out untouched.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.send(ctx, method, path, body, nil)
	if err != nil {
		return err
	}

	if out == nil || resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return normalize(fmt.Errorf("failed to parse response: %w", err), 0)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, headers http.Header) (*response, error) {
	if method == "" {
		method = http.MethodGet
	}

	reqHeaders := c.headers.Clone()
	reqHeaders.Set(headerRequestID, uuid.NewString())

	var payload io.Reader
	switch b := body.(type) {
	case nil:
	case RawBody:
		payload = bytes.NewReader(b.Data)
		if b.ContentType != "" {
			reqHeaders.Set("Content-Type", b.ContentType)
		}
	case string:
		payload = strings.NewReader(b)
	case []byte:
		payload = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, normalize(fmt.Errorf("failed to encode request body: %w", err), 0)
		}
		payload = bytes.NewReader(data)
		reqHeaders.Set("Content-Type", "application/json")
	}

	for k, values := range headers {
		reqHeaders.Del(k)
		for _, v := range values {
			reqHeaders.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, normalize(fmt.Errorf("failed to create request: %w", err), 0)
	}
	req.Header = reqHeaders

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(method, path, "error", start)
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return nil, normalize(err, 0)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.observe(method, path, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return nil, normalize(fmt.Errorf("failed to read response: %w", err), resp.StatusCode)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", reqHeaders.Get(headerRequestID)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, errorText(data))
		c.logger.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("Backend returned error")
		return nil, normalize(errors.New(msg), resp.StatusCode)
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

func (c *Client) observe(method, path, status string, start time.Time) {
	metrics.BackendRequestDuration.
		WithLabelValues(method, resourceOf(path), status).
		Observe(time.Since(start).Seconds())
}

// errorText prefers the "message" field of a JSON body and otherwise keeps only the
// first line, so stack traces and HTML pages never reach the UI.
func errorText(body []byte) string {
	var obj struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if obj.Message != nil && *obj.Message != "" {
			return *obj.Message
		}
	}

	first, _, _ := strings.Cut(string(body), "\n")
	return strings.TrimRight(first, "\r")
}

func normalize(err error, status int) *Error {
	return &Error{Status: status, Message: truncate(err.Error(), maxErrorLength)}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
