// Package llm is the OpenRouter chat completion client used by the narrator
// and the character generator
package llm

//go:generate mockgen -destination=mock/mock_client.go -package=llmmock github.com/KirkDiggler/dungeon-master/internal/clients/llm Client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Defaults for the OpenRouter API
const (
	DefaultBaseURL  = "https://openrouter.ai/api/v1"
	DefaultModel    = "openrouter/horizon-beta"
	DefaultSiteURL  = "http://localhost:3000"
	DefaultSiteName = "Dungeon Master"
	DefaultTimeout  = 60 * time.Second

	// maxErrorBody bounds how much of a failed response ends up in the error
	maxErrorBody = 512
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client requests chat completions
type Client interface {
	// Complete sends one non-streaming completion request. Any non-2xx
	// status, malformed body or empty choice list is a provider error.
	Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error)
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat asks the model for a structured response
type ResponseFormat struct {
	Type string `json:"type"`
}

// CompleteInput is one completion request. Zero values fall back to the client defaults.
type CompleteInput struct {
	Model          string
	Messages       []Message
	Temperature    float64
	MaxTokens      int
	ResponseFormat *ResponseFormat
}

// Usage reports token accounting
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompleteOutput is the first choice of a completion
type CompleteOutput struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
		Reason  string  `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
	Error *struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// Config configures the OpenRouter client
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	SiteURL  string
	SiteName string
	Timeout  time.Duration

	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
}

// Validate validates the config and fills defaults
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("APIKey", cfg.APIKey, vb)
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = DefaultSiteURL
	}
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return nil
}

type client struct {
	apiKey     string
	baseURL    string
	model      string
	siteURL    string
	siteName   string
	httpClient *http.Client
}

// New creates an OpenRouter client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		siteURL:    cfg.SiteURL,
		siteName:   cfg.SiteName,
		httpClient: httpClient,
	}, nil
}

func (c *client) Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error) {
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("at least one message is required")
	}

	req := completionRequest{
		Model:          input.Model,
		Messages:       input.Messages,
		Temperature:    input.Temperature,
		MaxTokens:      input.MaxTokens,
		ResponseFormat: input.ResponseFormat,
	}
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal completion request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", c.siteURL)
	httpReq.Header.Set("X-Title", c.siteName)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Provider(err, "completion request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Provider(err, "failed to read completion response")
	}

	slog.DebugContext(ctx, "completion finished",
		"model", req.Model,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Provider(err, "malformed completion response")
	}
	if parsed.Error != nil {
		return nil, errors.Provider(
			fmt.Errorf("%s (%s)", parsed.Error.Message, parsed.Error.Type),
			"completion API error")
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.Provider(fmt.Errorf("no choices in response"), "empty completion")
	}

	choice := parsed.Choices[0]
	model := parsed.Model
	if model == "" {
		model = req.Model
	}

	return &CompleteOutput{
		Content:      choice.Message.Content,
		Model:        model,
		FinishReason: choice.Reason,
		Usage:        parsed.Usage,
	}, nil
}

// statusError maps an upstream status onto the error taxonomy
func statusError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorBody {
		detail = detail[:maxErrorBody] + "..."
	}
	cause := fmt.Errorf("API returned status %d: %s", status, detail)

	switch status {
	case http.StatusTooManyRequests:
		return errors.Provider(errors.ResourceExhausted(cause.Error()), "completion rate limited")
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Provider(errors.FailedPrecondition(cause.Error()), "completion rejected credentials")
	default:
		return errors.Provider(cause, "completion API error")
	}
}
