package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/dungeon-master/internal/clients/tts"
	mediasvc "github.com/KirkDiggler/dungeon-master/internal/services/media"
)

type speechRequest struct {
	Text          string             `json:"text"`
	VoiceID       string             `json:"voice_id,omitempty"`
	VoiceSettings *tts.VoiceSettings `json:"voice_settings,omitempty"`
	// Plain skips narration cleanup of dice markers and mutation objects
	Plain bool `json:"plain,omitempty"`
}

type voicesResponse struct {
	Voices      []tts.Voice `json:"voices"`
	Recommended []string    `json:"recommended"`
}

type itemImageRequest struct {
	ItemName string `json:"item_name"`
	ItemType string `json:"item_type,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Model    string `json:"model,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Style    string `json:"style,omitempty"`
}

type imageModelsResponse struct {
	Available bool              `json:"available"`
	Models    map[string]string `json:"models"`
}

// SynthesizeSpeech handles POST /speech and answers with raw audio
func (h *Handler) SynthesizeSpeech(w http.ResponseWriter, r *http.Request) {
	var body speechRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.mediaService.SynthesizeSpeech(r.Context(), &mediasvc.SynthesizeSpeechInput{
		Text:     body.Text,
		VoiceID:  body.VoiceID,
		Settings: body.VoiceSettings,
		Plain:    body.Plain,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Audio); err != nil {
		slog.WarnContext(r.Context(), "failed to write audio", "error", err.Error())
	}
}

// ListVoices handles GET /speech/voices
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	out, err := h.mediaService.ListVoices(r.Context(), &mediasvc.ListVoicesInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, voicesResponse{Voices: out.Voices, Recommended: out.Recommended})
}

// GenerateItemImage handles POST /items/image
func (h *Handler) GenerateItemImage(w http.ResponseWriter, r *http.Request) {
	var body itemImageRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.mediaService.GenerateItemImage(r.Context(), &mediasvc.GenerateItemImageInput{
		ItemName: body.ItemName,
		ItemType: body.ItemType,
		Prompt:   body.Prompt,
		Model:    body.Model,
		Width:    body.Width,
		Height:   body.Height,
		Style:    body.Style,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Image)
}

// ListImageModels handles GET /items/image/models
func (h *Handler) ListImageModels(w http.ResponseWriter, r *http.Request) {
	out, err := h.mediaService.ListImageModels(r.Context(), &mediasvc.ListImageModelsInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, imageModelsResponse{Available: out.Available, Models: out.Models})
}
