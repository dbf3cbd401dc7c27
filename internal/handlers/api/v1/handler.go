// Package v1 serves the dungeon-master JSON API over chi
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/dungeon-master/internal/clients/external"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	campaignsvc "github.com/KirkDiggler/dungeon-master/internal/services/campaign"
	charactersvc "github.com/KirkDiggler/dungeon-master/internal/services/character"
	chatsvc "github.com/KirkDiggler/dungeon-master/internal/services/chat"
	mediasvc "github.com/KirkDiggler/dungeon-master/internal/services/media"
)

// HandlerConfig holds the services the API exposes
type HandlerConfig struct {
	CampaignService  campaignsvc.Service
	CharacterService charactersvc.Service
	ChatService      chatsvc.Service
	DiceService      dice.Service
	MediaService     mediasvc.Service

	// ExternalClient serves the SRD lookups; the routes answer 412 without it
	ExternalClient external.Client
}

// Validate ensures all required dependencies are provided
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CampaignService == nil {
		vb.RequiredField("CampaignService")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.ChatService == nil {
		vb.RequiredField("ChatService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	if c.MediaService == nil {
		vb.RequiredField("MediaService")
	}

	return vb.Build()
}

// Handler implements the v1 HTTP API
type Handler struct {
	campaignService  campaignsvc.Service
	characterService charactersvc.Service
	chatService      chatsvc.Service
	diceService      dice.Service
	mediaService     mediasvc.Service
	externalClient   external.Client
}

// NewHandler creates a new API handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid handler config")
	}

	return &Handler{
		campaignService:  cfg.CampaignService,
		characterService: cfg.CharacterService,
		chatService:      cfg.ChatService,
		diceService:      cfg.DiceService,
		mediaService:     cfg.MediaService,
		externalClient:   cfg.ExternalClient,
	}, nil
}

// Routes returns the API router, meant to be mounted at /api/v1
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", h.CreateCampaign)
		r.Get("/", h.ListCampaigns)
		r.Route("/{campaignID}", func(r chi.Router) {
			r.Get("/", h.GetCampaign)
			r.Patch("/", h.UpdateCampaign)
			r.Delete("/", h.DeleteCampaign)

			r.Post("/characters", h.CreateCharacter)
			r.Get("/characters", h.ListCampaignCharacters)
			r.Post("/characters/generate", h.GenerateCharacter)

			r.Post("/sessions", h.CreateSession)
			r.Get("/sessions", h.ListSessions)
		})
	})

	r.Route("/characters", func(r chi.Router) {
		r.Get("/", h.ListUserCharacters)
		r.Route("/{characterID}", func(r chi.Router) {
			r.Get("/", h.GetCharacter)
			r.Patch("/", h.UpdateCharacter)
			r.Delete("/", h.DeleteCharacter)
			r.Post("/mutations", h.ApplyMutation)
			r.Get("/combat", h.GetCombatProfile)
			r.Post("/validate-action", h.ValidateAction)
		})
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Get("/messages", h.ListMessages)
		r.Post("/chat", h.SubmitPlayerMessage)
		r.Post("/rolls", h.ResolveDiceRoll)
		r.Get("/rolls", h.GetRollSet)
		r.Delete("/rolls", h.ClearRollSet)
	})

	r.Post("/dice/roll", h.RollDice)

	r.Post("/speech", h.SynthesizeSpeech)
	r.Get("/speech/voices", h.ListVoices)
	r.Post("/items/image", h.GenerateItemImage)
	r.Get("/items/image/models", h.ListImageModels)

	r.Get("/srd/equipment/{key}", h.GetEquipment)
	r.Get("/srd/classes/{key}", h.GetClass)

	return r
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
