// Package chatclient sends the conversation window to the chat backend.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/models"
	"github.com/mfateev/chatbox/internal/version"
)

const (
	ChatPath   = "/chat"
	HealthPath = "/health"

	// maxBodyBytes caps how much of a reply body is read.
	maxBodyBytes = 4 << 20
)

// Client posts the full history to POST /chat and interprets the reply.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The client is copied, so
// WithTimeout never changes the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL (e.g. "http://127.0.0.1:5000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Exchange sends history and returns the assistant text.
// The returned text may be empty when the backend omitted the "response"
// field; that is a success. Failures are *models.ExchangeError.
func (c *Client) Exchange(ctx context.Context, history []models.HistoryEntry) (string, error) {
	payload, err := BuildPayload(history)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(payload))
	if err != nil {
		return "", models.NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Int("entries", len(history)).Msg("chat request failed")
		return "", models.NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body, resp.StatusCode)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("entries", len(history)).
		Dur("elapsed", time.Since(start)).
		Msg("chat exchange")

	return InterpretResponse(resp.StatusCode, body)
}

// readBody reads at most maxBodyBytes. A longer body is reported as too
// large rather than handed to the decoder cut short.
func readBody(r io.Reader, statusCode int) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	if len(body) > maxBodyBytes {
		return nil, models.NewTooLargeError(statusCode, maxBodyBytes)
	}
	return body, nil
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (models.HealthResponse, error) {
	var health models.HealthResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return health, err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return health, models.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return health, models.NewStatusError(resp.StatusCode, "")
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&health); err != nil {
		return health, models.NewMalformedError(err)
	}
	return health, nil
}

// BuildPayload encodes the request body for POST /chat.
// A nil history is sent as an empty array, never null.
func BuildPayload(history []models.HistoryEntry) ([]byte, error) {
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return json.Marshal(models.ChatRequest{History: history})
}

// InterpretResponse maps a status code and body to the assistant text or an
// *models.ExchangeError.
//
//   - 2xx, valid JSON        → response field (possibly empty), nil
//   - 2xx, invalid JSON      → ErrorKindMalformed
//   - non-2xx, {"error": s}  → ErrorKindStatus with message s
//   - non-2xx, anything else → ErrorKindStatus with "HTTP error! status: N"
func InterpretResponse(statusCode int, body []byte) (string, error) {
	var decoded models.ChatResponse

	if statusCode < 200 || statusCode > 299 {
		// Best effort: a body that fails to decode just yields no message.
		_ = json.Unmarshal(body, &decoded)
		return "", models.NewStatusError(statusCode, decoded.Error)
	}

	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", models.NewMalformedError(err)
	}
	return decoded.Response, nil
}
