// Package media defines speech and item image operations
package media

//go:generate mockgen -destination=mock/mock_service.go -package=mediamock github.com/KirkDiggler/dungeon-master/internal/services/media Service

import (
	"context"

	"github.com/KirkDiggler/dungeon-master/internal/clients/image"
	"github.com/KirkDiggler/dungeon-master/internal/clients/tts"
)

// Service proxies narration audio and item artwork
type Service interface {
	SynthesizeSpeech(ctx context.Context, input *SynthesizeSpeechInput) (*SynthesizeSpeechOutput, error)
	ListVoices(ctx context.Context, input *ListVoicesInput) (*ListVoicesOutput, error)
	GenerateItemImage(ctx context.Context, input *GenerateItemImageInput) (*GenerateItemImageOutput, error)
	ListImageModels(ctx context.Context, input *ListImageModelsInput) (*ListImageModelsOutput, error)
}

// SynthesizeSpeechInput defines a speech request
type SynthesizeSpeechInput struct {
	Text     string
	VoiceID  string
	Settings *tts.VoiceSettings
	Plain    bool
}

// SynthesizeSpeechOutput holds the audio
type SynthesizeSpeechOutput struct {
	Audio       []byte
	ContentType string
}

// ListVoicesInput defines the request for listing voices
type ListVoicesInput struct{}

// ListVoicesOutput contains the voices and recommended ids
type ListVoicesOutput struct {
	Voices      []tts.Voice
	Recommended []string
}

// GenerateItemImageInput defines an item image request
type GenerateItemImageInput struct {
	ItemName string
	ItemType string
	Prompt   string
	Model    string
	Width    int
	Height   int
	Style    string
}

// GenerateItemImageOutput is the generated image
type GenerateItemImageOutput struct {
	Image *image.GenerateItemImageOutput
}

// ListImageModelsInput defines the request for listing image models
type ListImageModelsInput struct{}

// ListImageModelsOutput reports whether image generation is configured and its models
type ListImageModelsOutput struct {
	Available bool
	Models    map[string]string
}
