package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxVisionResponse bounds the provider response body.
const maxVisionResponse = 10 * 1024 * 1024 // 10MB

// VisionClient answers a single image-analysis prompt with the raw text the
// model produced. Implementations are explicitly constructed and injected;
// there is no lazily-initialized global.
type VisionClient interface {
	AnalyzeImage(ctx context.Context, prompt, imageURL string) (string, error)
}

// ProviderError is a non-2xx answer from the vision provider. The gateway
// maps the status onto its failure taxonomy.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("vision provider error (status %d): %s", e.StatusCode, body)
}

// DashScopeClient calls the qwen-vl-plus model through DashScope's
// OpenAI-compatible chat-completions API.
type DashScopeClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// DashScopeOption configures a DashScopeClient.
type DashScopeOption func(*DashScopeClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DashScopeOption {
	return func(d *DashScopeClient) {
		d.httpClient = c
	}
}

// NewDashScopeClient creates a vision client for the given endpoint and
// model. The key is verified per call, not here, so a keyless deployment
// still starts and degrades to configuration errors.
func NewDashScopeClient(baseURL, apiKey, model string, opts ...DashScopeOption) *DashScopeClient {
	c := &DashScopeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a provider credential is present.
func (d *DashScopeClient) Configured() bool {
	return d.apiKey != "" && d.apiKey != "placeholder"
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (d *DashScopeClient) endpoint() string {
	base := strings.TrimSuffix(d.baseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

// AnalyzeImage sends one prompt+image request and returns the model's text
// reply. A single attempt per call; retries belong to the calling side.
func (d *DashScopeClient) AnalyzeImage(ctx context.Context, prompt, imageURL string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageRef{URL: imageURL}},
				},
			},
		},
		ResponseFormat: &formatSpec{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("build vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call vision provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxVisionResponse))
	if err != nil {
		return "", fmt.Errorf("read vision response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse vision response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in vision response")
	}
	return parsed.Choices[0].Message.Content, nil
}
