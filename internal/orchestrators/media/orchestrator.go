// Package media implements the speech and item image orchestrator
package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dungeon-master/internal/clients/image"
	"github.com/KirkDiggler/dungeon-master/internal/clients/tts"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/services/media"
)

// Image dimension bounds
const (
	MinImageSize = 64
	MaxImageSize = 1024
)

// Config holds the dependencies for the media orchestrator.
// Either client may be nil when its provider is not configured.
type Config struct {
	TTSClient   tts.Client
	ImageClient image.Client
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	return nil
}

// Orchestrator implements the media.Service interface
type Orchestrator struct {
	tts   tts.Client
	image image.Client
}

// New creates a new media orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		tts:   cfg.TTSClient,
		image: cfg.ImageClient,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ media.Service = (*Orchestrator)(nil)

// SynthesizeSpeech returns narration audio for text
func (o *Orchestrator) SynthesizeSpeech(ctx context.Context, input *media.SynthesizeSpeechInput) (*media.SynthesizeSpeechOutput, error) {
	if input == nil || strings.TrimSpace(input.Text) == "" {
		return nil, errors.InvalidArgument("text is required")
	}
	if o.tts == nil {
		return nil, errors.FailedPrecondition("speech is not configured")
	}

	if s := input.Settings; s != nil {
		vb := errors.NewValidationBuilder()
		errors.ValidateFloatRange("stability", s.Stability, 0, 1, vb)
		errors.ValidateFloatRange("similarity_boost", s.SimilarityBoost, 0, 1, vb)
		errors.ValidateFloatRange("style", s.Style, 0, 1, vb)
		if err := vb.Build(); err != nil {
			return nil, err
		}
	}

	out, err := o.tts.Synthesize(ctx, &tts.SynthesizeInput{
		Text:     input.Text,
		VoiceID:  input.VoiceID,
		Settings: input.Settings,
		Plain:    input.Plain,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to synthesize speech")
	}

	slog.InfoContext(ctx, "Speech synthesized",
		"voice_id", out.VoiceID,
		"bytes", len(out.Audio))

	return &media.SynthesizeSpeechOutput{
		Audio:       out.Audio,
		ContentType: out.ContentType,
	}, nil
}

// ListVoices returns the available voices
func (o *Orchestrator) ListVoices(ctx context.Context, _ *media.ListVoicesInput) (*media.ListVoicesOutput, error) {
	if o.tts == nil {
		return nil, errors.FailedPrecondition("speech is not configured")
	}

	out, err := o.tts.ListVoices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list voices")
	}

	return &media.ListVoicesOutput{
		Voices:      out.Voices,
		Recommended: out.Recommended,
	}, nil
}

// GenerateItemImage draws an item
func (o *Orchestrator) GenerateItemImage(ctx context.Context, input *media.GenerateItemImageInput) (*media.GenerateItemImageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("item_name", strings.TrimSpace(input.ItemName), vb)
	if input.Width != 0 {
		errors.ValidateRange("width", input.Width, MinImageSize, MaxImageSize, vb)
	}
	if input.Height != 0 {
		errors.ValidateRange("height", input.Height, MinImageSize, MaxImageSize, vb)
	}
	if input.Model != "" {
		if _, _, ok := image.ResolveModel(input.Model); !ok {
			vb.InvalidField("model", "unknown model "+input.Model)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if o.image == nil {
		return nil, errors.FailedPrecondition("image generation is not configured")
	}

	out, err := o.image.GenerateItemImage(ctx, &image.GenerateItemImageInput{
		ItemName: input.ItemName,
		ItemType: input.ItemType,
		Prompt:   input.Prompt,
		Model:    input.Model,
		Width:    input.Width,
		Height:   input.Height,
		Style:    input.Style,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate item image").
			WithMeta("item_name", input.ItemName)
	}

	slog.InfoContext(ctx, "Item image generated",
		"item_name", input.ItemName,
		"model", out.Model,
		"prediction_id", out.PredictionID)

	return &media.GenerateItemImageOutput{Image: out}, nil
}

// ListImageModels reports the known image models
func (o *Orchestrator) ListImageModels(_ context.Context, _ *media.ListImageModelsInput) (*media.ListImageModelsOutput, error) {
	if o.image == nil {
		return &media.ListImageModelsOutput{Available: false, Models: image.Models}, nil
	}
	return &media.ListImageModelsOutput{Available: true, Models: o.image.Models()}, nil
}
