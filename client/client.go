// Package client issues food-recognition requests against the gateway with
// timeout, retry and user-facing error categories.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"foodcal/models"
)

const maxResponseSize = 1 * 1024 * 1024 // 1MB

// RetryConfig holds the backoff schedule for retryable failures.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BackoffBase is the delay before the first retry.
	BackoffBase time.Duration
	// BackoffMultiplier is applied to the delay on each further retry.
	BackoffMultiplier float64
	// MaxBackoff caps the delay.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns the stock schedule: three attempts total.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		BackoffBase:       1200 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}
}

// Client calls the recognition endpoint.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	connectivity   Connectivity
	retry          RetryConfig
	attemptTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithConnectivity replaces the default interface probe.
func WithConnectivity(conn Connectivity) Option {
	return func(cl *Client) {
		cl.connectivity = conn
	}
}

// WithRetryConfig sets the retry schedule.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(cl *Client) {
		cl.retry = cfg
	}
}

// WithAttemptTimeout changes the per-attempt deadline.
func WithAttemptTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.attemptTimeout = d
	}
}

// NewClient creates a client for the given recognize-food endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:       endpoint,
		httpClient:     &http.Client{},
		connectivity:   interfaceProbe{},
		retry:          DefaultRetryConfig(),
		attemptTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recognize submits an image and returns the normalized recognition result.
// Failures carry a *RecognitionError with a user-facing category.
func (c *Client) Recognize(ctx context.Context, image []byte) (*models.RecognitionResult, error) {
	return c.recognize(ctx, image, "")
}

// RecognizeWithHint additionally carries a food-name hint for mock/test
// gateway deployments.
func (c *Client) RecognizeWithHint(ctx context.Context, image []byte, foodName string) (*models.RecognitionResult, error) {
	return c.recognize(ctx, image, foodName)
}

func (c *Client) recognize(ctx context.Context, image []byte, foodName string) (*models.RecognitionResult, error) {
	if !c.connectivity.Online() {
		return nil, &RecognitionError{
			Category: CategoryOffline,
			Message:  "device is offline, connect to a network and retry",
		}
	}
	if len(image) == 0 {
		return nil, &RecognitionError{
			Category: CategoryInvalidInput,
			Message:  "no image data to recognize",
		}
	}

	payload, err := json.Marshal(struct {
		Image    string `json:"image"`
		FoodName string `json:"food_name,omitempty"`
	}{
		Image:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
		FoodName: foodName,
	})
	if err != nil {
		return nil, &RecognitionError{
			Category: CategoryInvalidInput,
			Message:  "image could not be encoded",
			Err:      err,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		result, err := c.attempt(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
		if attempt < c.retry.MaxRetries {
			backoff := c.backoffFor(attempt)
			log.Printf("recognition attempt %d failed (%v), retrying in %s", attempt+1, err, backoff)
			select {
			case <-ctx.Done():
				return nil, mapError(ctx.Err())
			case <-time.After(backoff):
			}
		}
	}
	return nil, mapError(lastErr)
}

// httpError is a non-2xx reply from the gateway.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.status, e.message)
}

// envelopeError is a 2xx reply carrying success:false.
type envelopeError struct {
	message string
}

func (e *envelopeError) Error() string {
	return e.message
}

func (c *Client) attempt(ctx context.Context, payload []byte) (*models.RecognitionResult, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		if envelope.Error == "" {
			envelope.Error = resp.Status
		}
		return nil, &httpError{status: resp.StatusCode, message: envelope.Error}
	}

	var envelope struct {
		Success bool                      `json:"success"`
		Data    *models.RecognitionResult `json:"data"`
		Error   string                    `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse recognition response: %w", err)
	}
	if !envelope.Success {
		if envelope.Error == "" {
			envelope.Error = "food recognition failed"
		}
		return nil, &envelopeError{message: envelope.Error}
	}
	if envelope.Data == nil {
		return nil, &envelopeError{message: "recognition response carried no data"}
	}

	envelope.Data.ApplyDefaults()
	return envelope.Data, nil
}

// retryable reports whether a fresh attempt may succeed: transport errors,
// per-attempt timeouts and 429/500/502/503/504. Other HTTP failures and
// success:false envelopes fail immediately.
func retryable(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		switch he.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var ee *envelopeError
	if errors.As(err, &ee) {
		return false
	}
	// Transport failures and attempt timeouts.
	return true
}

func (c *Client) backoffFor(attempt int) time.Duration {
	backoff := c.retry.BackoffBase
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
	}
	if backoff > c.retry.MaxBackoff {
		backoff = c.retry.MaxBackoff
	}
	// Jitter keeps simultaneous clients from retrying in lockstep.
	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// mapError chooses the user-facing category, in priority order: timeout,
// then HTTP-layer failure, then transport, preserving the original message
// for logging.
func mapError(err error) error {
	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return recErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &RecognitionError{
			Category: CategoryTimeout,
			Message:  "recognition timed out, please retry",
			Err:      err,
		}
	}

	var he *httpError
	if errors.As(err, &he) {
		return &RecognitionError{
			Category: CategoryServer,
			Message:  he.message,
			Err:      err,
		}
	}
	var ee *envelopeError
	if errors.As(err, &ee) {
		return &RecognitionError{
			Category: CategoryServer,
			Message:  ee.message,
			Err:      err,
		}
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &RecognitionError{
				Category: CategoryTimeout,
				Message:  "recognition timed out, please retry",
				Err:      err,
			}
		}
		return &RecognitionError{
			Category: CategoryNetwork,
			Message:  "network error, check the connection and retry",
			Err:      err,
		}
	}

	return &RecognitionError{
		Category: CategoryUnknown,
		Message:  "food recognition failed",
		Err:      err,
	}
}
