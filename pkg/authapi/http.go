package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

const (
	mePath          = "/auth/me"
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// HTTPClient implements Client against the backend REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTPClient) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g. "http://localhost:8000".
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logutil.OrDiscard(nil),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Me calls GET /auth/me with the token as bearer credential.
func (h *HTTPClient) Me(ctx context.Context, token string) (*Profile, error) {
	requestID := uuid.NewString()
	defer logutil.NewTimingLogger(h.log, time.Now(), "executed auth request", "path", mePath, "request_id", requestID)()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, logutil.DebugAndWrapErr(h.log, "auth request failed", err, "request_id", requestID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var body errorBody
		if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil && json.Unmarshal(raw, &body) == nil {
			statusErr.Detail = body.Detail
		}
		h.log.Debug("auth request rejected", "status", resp.StatusCode, "request_id", requestID)
		return nil, statusErr
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, logutil.DebugAndWrapErr(h.log, "failed to decode profile",
			models.NewTransformationError(err.Error()), "request_id", requestID)
	}
	return &profile, nil
}
