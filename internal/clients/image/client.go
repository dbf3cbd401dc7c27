// Package image generates item artwork through the Replicate predictions API
package image

//go:generate mockgen -destination=mock/mock_client.go -package=imagemock github.com/KirkDiggler/dungeon-master/internal/clients/image Client

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

// Defaults for the Replicate API
const (
	DefaultBaseURL      = "https://api.replicate.com"
	DefaultPollInterval = 2 * time.Second
	DefaultMaxAttempts  = 30
	DefaultSize         = 512
	DefaultTimeout      = 30 * time.Second

	negativePrompt = "blurry, low quality, distorted, ugly, deformed, text, watermark, signature"
)

// Prediction statuses
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Client generates item images
type Client interface {
	// GenerateItemImage starts a prediction and polls until it succeeds,
	// fails or runs out of attempts
	GenerateItemImage(ctx context.Context, input *GenerateItemImageInput) (*GenerateItemImageOutput, error)

	// Models returns the known model keys and references
	Models() map[string]string
}

// GenerateItemImageInput describes the item to draw. Prompt overrides the built-in prompt.
type GenerateItemImageInput struct {
	ItemName string
	ItemType string
	Prompt   string
	Model    string
	Width    int
	Height   int
	Style    string
}

// GenerateItemImageOutput is the generated image reference
type GenerateItemImageOutput struct {
	URL          string `json:"url"`
	Prompt       string `json:"prompt"`
	Model        string `json:"model"`
	PredictionID string `json:"prediction_id"`
	ItemName     string `json:"item_name"`
	ItemType     string `json:"item_type"`
}

// Config configures the Replicate client
type Config struct {
	APIToken     string
	BaseURL      string
	DefaultModel string
	PollInterval time.Duration
	MaxAttempts  int
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Validate validates the config and fills defaults
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("APIToken", cfg.APIToken, vb)
	if cfg.MaxAttempts < 0 {
		vb.InvalidField("MaxAttempts", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = ModelSDXL
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return nil
}

type client struct {
	token        string
	baseURL      string
	defaultModel string
	pollInterval time.Duration
	maxAttempts  int
	httpClient   *http.Client
}

// New creates a Replicate client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &client{
		token:        cfg.APIToken,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.MaxAttempts,
		httpClient:   httpClient,
	}, nil
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	Quality           int     `json:"quality"`
	Style             string  `json:"style"`
	NumOutputs        int     `json:"num_outputs"`
	Scheduler         string  `json:"scheduler"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	ApplyWatermark    bool    `json:"apply_watermark"`
	NegativePrompt    string  `json:"negative_prompt"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
}

// firstOutput handles both list and single string outputs
func (p *prediction) firstOutput() string {
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil {
		return single
	}
	return ""
}

func (c *client) Models() map[string]string {
	out := make(map[string]string, len(Models))
	for k, v := range Models {
		out[k] = v
	}
	return out
}

func (c *client) GenerateItemImage(ctx context.Context, input *GenerateItemImageInput) (*GenerateItemImageOutput, error) {
	if input == nil || strings.TrimSpace(input.ItemName) == "" {
		return nil, errors.InvalidArgument("item name is required")
	}

	itemType := input.ItemType
	if itemType == "" {
		itemType = "item"
	}
	prompt := input.Prompt
	if prompt == "" {
		prompt = ItemPrompt(input.ItemName, itemType)
	}

	modelName := input.Model
	if modelName == "" {
		modelName = c.defaultModel
	}
	model, version, ok := ResolveModel(modelName)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown model %q", modelName)
	}

	req := predictionRequest{
		Version: version,
		Input: predictionInput{
			Prompt:            prompt,
			Width:             orDefault(input.Width, DefaultSize),
			Height:            orDefault(input.Height, DefaultSize),
			Quality:           25,
			Style:             input.Style,
			NumOutputs:        1,
			Scheduler:         "K_EULER",
			NumInferenceSteps: 50,
			GuidanceScale:     7.5,
			NegativePrompt:    negativePrompt,
		},
	}
	if req.Input.Style == "" {
		req.Input.Style = "cinematic"
	}

	started, err := c.createPrediction(ctx, req)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "image prediction started",
		"prediction_id", started.ID,
		"item_name", input.ItemName,
		"item_type", itemType)

	done, err := c.poll(ctx, started.ID)
	if err != nil {
		return nil, err
	}

	url := done.firstOutput()
	if url == "" {
		return nil, errors.Provider(fmt.Errorf("prediction %s has no output", started.ID), "image generation failed")
	}

	return &GenerateItemImageOutput{
		URL:          url,
		Prompt:       prompt,
		Model:        model,
		PredictionID: started.ID,
		ItemName:     input.ItemName,
		ItemType:     itemType,
	}, nil
}

func (c *client) createPrediction(ctx context.Context, req predictionRequest) (*prediction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal prediction request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create prediction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var p prediction
	if err := c.do(httpReq, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, errors.Provider(fmt.Errorf("prediction response has no id"), "malformed prediction response")
	}
	return &p, nil
}

// poll checks the prediction every pollInterval up to maxAttempts times.
// A failed poll request only ends polling on the last attempt.
func (c *client) poll(ctx context.Context, id string) (*prediction, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/predictions/"+id, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create poll request")
		}

		var p prediction
		err = c.do(httpReq, &p)
		switch {
		case err != nil:
			lastErr = err
			slog.WarnContext(ctx, "prediction poll failed",
				"prediction_id", id,
				"attempt", attempt,
				"error", err.Error())
		case p.Status == StatusSucceeded:
			return &p, nil
		case p.Status == StatusFailed || p.Status == StatusCanceled:
			return nil, errors.Provider(fmt.Errorf("%v", p.Error), "image generation failed")
		}

		if attempt == c.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Provider(ctx.Err(), "image generation interrupted")
		case <-time.After(c.pollInterval):
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.Provider(errors.Newf(errors.CodeDeadlineExceeded, "prediction %s", id), "image generation timed out")
}

func (c *client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Provider(err, "image request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Provider(err, "failed to read image response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Provider(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			"image API error")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Provider(err, "malformed image response")
	}
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
