// Package tts proxies narration to the ElevenLabs text-to-speech API
package tts

//go:generate mockgen -destination=mock/mock_client.go -package=ttsmock github.com/KirkDiggler/dungeon-master/internal/clients/tts Client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Defaults for the ElevenLabs API
const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoiceID = "VR6AewLTigWG4xSOukaG"
	DefaultModelID = "eleven_monolingual_v1"
	DefaultTimeout = 30 * time.Second

	// ContentTypeMPEG is the audio format returned by Synthesize
	ContentTypeMPEG = "audio/mpeg"
)

// RecommendedVoices are voice ids that suit narration, in preference order
var RecommendedVoices = []string{
	"VR6AewLTigWG4xSOukaG", // Arnold
	"AZnzlk1XvdvUeBnXmlld", // Domi
	"EXAVITQu4vr4xnSDxMaL", // Bella
	"pNInz6obpgDQGcFmaJgB", // Adam
	"21m00Tcm4TlvDq8ikWAM", // Rachel
}

// Client synthesizes narration audio
type Client interface {
	// Synthesize returns MPEG audio for the cleaned text
	Synthesize(ctx context.Context, input *SynthesizeInput) (*SynthesizeOutput, error)

	// ListVoices returns the account's cloned and generated voices sorted by name
	ListVoices(ctx context.Context) (*ListVoicesOutput, error)

	// Close releases idle connections
	Close() error
}

// VoiceSettings tunes delivery
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings favors emotion over stability
func DefaultVoiceSettings() *VoiceSettings {
	return &VoiceSettings{
		Stability:       0.3,
		SimilarityBoost: 0.85,
		Style:           0.8,
		UseSpeakerBoost: true,
	}
}

// SynthesizeInput is one speech request
type SynthesizeInput struct {
	Text     string
	VoiceID  string
	Settings *VoiceSettings
	// Plain skips the dramatic pause enhancement
	Plain bool
}

// SynthesizeOutput holds the audio bytes
type SynthesizeOutput struct {
	Audio       []byte
	ContentType string
	VoiceID     string
}

// Voice is one available voice
type Voice struct {
	VoiceID     string            `json:"voice_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ListVoicesOutput contains the voice list and the recommended voice ids
type ListVoicesOutput struct {
	Voices      []Voice  `json:"voices"`
	Recommended []string `json:"recommended"`
}

// Config configures the ElevenLabs client
type Config struct {
	APIKey         string
	BaseURL        string
	DefaultVoiceID string
	ModelID        string
	Timeout        time.Duration
	HTTPClient     *http.Client
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
	if cfg.DefaultVoiceID == "" {
		cfg.DefaultVoiceID = DefaultVoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return nil
}

type client struct {
	apiKey     string
	baseURL    string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

// New creates an ElevenLabs client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}

	return &client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		voiceID:    cfg.DefaultVoiceID,
		modelID:    cfg.ModelID,
		httpClient: httpClient,
	}, nil
}

type synthesizeRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *VoiceSettings `json:"voice_settings"`
}

func (c *client) Synthesize(ctx context.Context, input *SynthesizeInput) (*SynthesizeOutput, error) {
	if input == nil || strings.TrimSpace(input.Text) == "" {
		return nil, errors.InvalidArgument("text is required")
	}

	text := CleanText(input.Text)
	if !input.Plain {
		text = EnhanceDelivery(text)
	}
	if text == "" {
		return nil, errors.InvalidArgument("no text content after cleaning")
	}

	voiceID := input.VoiceID
	if voiceID == "" {
		voiceID = c.voiceID
	}
	settings := input.Settings
	if settings == nil {
		settings = DefaultVoiceSettings()
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: c.modelID, VoiceSettings: settings})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal speech request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create speech request")
	}
	req.Header.Set("Accept", ContentTypeMPEG)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	slog.DebugContext(ctx, "sending speech request", "voice_id", voiceID, "text_length", len(text))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Provider(err, "speech request failed")
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Provider(err, "failed to read speech response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Provider(fmt.Errorf("status %d: %s", resp.StatusCode, errorDetail(audio)),
			"speech API error")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = ContentTypeMPEG
	}

	return &SynthesizeOutput{Audio: audio, ContentType: contentType, VoiceID: voiceID}, nil
}

type voicesResponse struct {
	Voices []struct {
		VoiceID     string            `json:"voice_id"`
		Name        string            `json:"name"`
		Category    string            `json:"category"`
		Description string            `json:"description"`
		Labels      map[string]string `json:"labels"`
	} `json:"voices"`
}

func (c *client) ListVoices(ctx context.Context) (*ListVoicesOutput, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create voices request")
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Provider(err, "voices request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Provider(err, "failed to read voices response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Provider(fmt.Errorf("status %d: %s", resp.StatusCode, errorDetail(body)),
			"voices API error")
	}

	var parsed voicesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Provider(err, "malformed voices response")
	}

	voices := make([]Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		if v.Category != "cloned" && v.Category != "generated" {
			continue
		}
		description := v.Labels["description"]
		if description == "" {
			description = v.Description
		}
		labels := v.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		voices = append(voices, Voice{
			VoiceID:     v.VoiceID,
			Name:        v.Name,
			Category:    v.Category,
			Description: description,
			Labels:      labels,
		})
	}
	sort.SliceStable(voices, func(i, j int) bool {
		return strings.ToLower(voices[i].Name) < strings.ToLower(voices[j].Name)
	})

	return &ListVoicesOutput{
		Voices:      voices,
		Recommended: append([]string(nil), RecommendedVoices...),
	}, nil
}

func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// errorDetail pulls detail or message out of an error body
func errorDetail(body []byte) string {
	var parsed struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != nil {
			return fmt.Sprint(parsed.Detail)
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if len(body) == 0 {
		return "Unknown error"
	}
	if len(body) > 256 {
		return string(body[:256])
	}
	return string(body)
}
