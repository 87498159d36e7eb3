package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/metrics"
)

var (
	// ErrUpstreamTimeout is returned when the chat endpoint does not answer in time
	ErrUpstreamTimeout = errors.New("upstream chat request timed out")
	// ErrEmptyUpstreamReply is returned when a 2xx reply carries no usable content
	ErrEmptyUpstreamReply = errors.New("upstream chat reply has no content")
)

// UpstreamHTTPError is a non-2xx answer from the chat endpoint
type UpstreamHTTPError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream chat request failed with status %d: %s", e.StatusCode, e.Body)
}

// UpstreamNetworkError is a transport failure that is not a timeout
type UpstreamNetworkError struct {
	Err error
}

func (e *UpstreamNetworkError) Error() string {
	return fmt.Sprintf("upstream chat request failed: %v", e.Err)
}

func (e *UpstreamNetworkError) Unwrap() error {
	return e.Err
}

// SensayConfig configures the Sensay chat completion client
type SensayConfig struct {
	BaseURL            string
	OrganizationSecret string
	ReplicaID          string
	APIVersion         string
	Timeout            time.Duration
}

// DefaultSensayTimeout bounds a single chat completion
const DefaultSensayTimeout = 120 * time.Second

// SensayClient talks to the Sensay replica chat completion endpoint
type SensayClient struct {
	cfg     SensayConfig
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type sensayRequest struct {
	Content         string `json:"content"`
	SkipChatHistory bool   `json:"skip_chat_history"`
	Source          string `json:"source"`
}

type sensayResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// NewSensayClient creates a client. A nil httpClient gets a traced default client.
func NewSensayClient(cfg SensayConfig, httpClient *http.Client, logger *zap.Logger, m *metrics.Metrics) *SensayClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSensayTimeout
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2025-03-25"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SensayClient{
		cfg:     cfg,
		client:  httpClient,
		logger:  logger.Named("sensay"),
		metrics: m,
	}
}

// ChatCompletion sends content to the replica on behalf of userID and returns the raw
// text reply. Errors are ErrUpstreamTimeout, *UpstreamHTTPError, *UpstreamNetworkError
// or wrap ErrEmptyUpstreamReply.
func (c *SensayClient) ChatCompletion(ctx context.Context, userID, content string, skipHistory bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(sensayRequest{
		Content:         content,
		SkipChatHistory: skipHistory,
		Source:          "web",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/replicas/%s/chat/completions", c.cfg.BaseURL, c.cfg.ReplicaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ORGANIZATION-SECRET", c.cfg.OrganizationSecret)
	req.Header.Set("X-API-Version", c.cfg.APIVersion)
	req.Header.Set("X-USER-ID", userID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.transportError(ctx, err, start)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError(ctx, err, start)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveUpstream("sensay", "http_error", time.Since(start))
		c.logger.Warn("chat completion rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(respBody), 512)))
		return "", &UpstreamHTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	c.metrics.ObserveUpstream("sensay", "ok", time.Since(start))
	c.logger.Debug("chat completion received",
		zap.Duration("latency", time.Since(start)),
		zap.Int("bytes", len(respBody)))

	var result sensayResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrEmptyUpstreamReply, err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return "", ErrEmptyUpstreamReply
	}

	return result.Content, nil
}

func (c *SensayClient) transportError(ctx context.Context, err error, start time.Time) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		c.metrics.ObserveUpstream("sensay", "timeout", time.Since(start))
		c.logger.Warn("chat completion timed out", zap.Duration("timeout", c.cfg.Timeout))
		return ErrUpstreamTimeout
	}
	c.metrics.ObserveUpstream("sensay", "network_error", time.Since(start))
	c.logger.Error("chat completion transport failure", zap.Error(err))
	return &UpstreamNetworkError{Err: err}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
