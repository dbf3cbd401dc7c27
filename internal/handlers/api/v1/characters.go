package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
	charactersvc "github.com/KirkDiggler/dungeon-master/internal/services/character"
)

type generateCharacterRequest struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	Class         string `json:"class"`
	Race          string `json:"race"`
	CampaignTitle string `json:"campaign_title"`
	SessionID     string `json:"session_id"`
}

type generateCharacterResponse struct {
	Character      *entities.Character `json:"character"`
	WelcomeMessage string              `json:"welcome_message"`
	Fallback       bool                `json:"fallback"`
}

// updateCharacterRequest is a patch plus the version the client last saw
type updateCharacterRequest struct {
	charactersvc.CharacterPatch
	Version int64 `json:"version,omitempty"`
}

type deleteCharacterResponse struct {
	SessionsDeleted int `json:"sessions_deleted"`
	MessagesDeleted int `json:"messages_deleted"`
}

type applyMutationRequest struct {
	SessionID string              `json:"session_id,omitempty"`
	Version   int64               `json:"version,omitempty"`
	Updates   *narrative.Mutation `json:"updates"`
}

type applyMutationResponse struct {
	Character *entities.Character `json:"character"`
	Changes   []reducer.Change    `json:"changes"`
	Summary   string              `json:"summary,omitempty"`
	Message   *entities.Message   `json:"message,omitempty"`
}

type validateActionRequest struct {
	Action string `json:"action"`
}

// CreateCharacter handles POST /campaigns/{campaignID}/characters
func (h *Handler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var body entities.Character
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	body.CampaignID = chi.URLParam(r, "campaignID")

	out, err := h.characterService.CreateCharacter(r.Context(), &charactersvc.CreateCharacterInput{Character: &body})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, out.Character)
}

// GenerateCharacter handles POST /campaigns/{campaignID}/characters/generate
func (h *Handler) GenerateCharacter(w http.ResponseWriter, r *http.Request) {
	var body generateCharacterRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.GenerateCharacter(r.Context(), &charactersvc.GenerateCharacterInput{
		CampaignID:    chi.URLParam(r, "campaignID"),
		UserID:        body.UserID,
		Name:          body.Name,
		Class:         body.Class,
		Race:          body.Race,
		CampaignTitle: body.CampaignTitle,
		SessionID:     body.SessionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, generateCharacterResponse{
		Character:      out.Character,
		WelcomeMessage: out.WelcomeMessage,
		Fallback:       out.Fallback,
	})
}

// ListCampaignCharacters handles GET /campaigns/{campaignID}/characters
func (h *Handler) ListCampaignCharacters(w http.ResponseWriter, r *http.Request) {
	h.listCharacters(w, r, &charactersvc.ListCharactersInput{CampaignID: chi.URLParam(r, "campaignID")})
}

// ListUserCharacters handles GET /characters?user_id=
func (h *Handler) ListUserCharacters(w http.ResponseWriter, r *http.Request) {
	h.listCharacters(w, r, &charactersvc.ListCharactersInput{UserID: r.URL.Query().Get("user_id")})
}

func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request, input *charactersvc.ListCharactersInput) {
	out, err := h.characterService.ListCharacters(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Characters)
}

// GetCharacter handles GET /characters/{characterID}
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.GetCharacter(r.Context(), &charactersvc.GetCharacterInput{
		CharacterID: chi.URLParam(r, "characterID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Character)
}

// UpdateCharacter handles PATCH /characters/{characterID}
func (h *Handler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var body updateCharacterRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.UpdateCharacter(r.Context(), &charactersvc.UpdateCharacterInput{
		CharacterID:     chi.URLParam(r, "characterID"),
		Patch:           &body.CharacterPatch,
		ExpectedVersion: body.Version,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Character)
}

// DeleteCharacter handles DELETE /characters/{characterID}
func (h *Handler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.DeleteCharacter(r.Context(), &charactersvc.DeleteCharacterInput{
		CharacterID: chi.URLParam(r, "characterID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, deleteCharacterResponse{
		SessionsDeleted: out.SessionsDeleted,
		MessagesDeleted: out.MessagesDeleted,
	})
}

// ApplyMutation handles POST /characters/{characterID}/mutations
func (h *Handler) ApplyMutation(w http.ResponseWriter, r *http.Request) {
	var body applyMutationRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.ApplyMutation(r.Context(), &charactersvc.ApplyMutationInput{
		CharacterID:     chi.URLParam(r, "characterID"),
		SessionID:       body.SessionID,
		Mutation:        body.Updates,
		ExpectedVersion: body.Version,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := applyMutationResponse{Character: out.Character, Message: out.Message}
	if out.Result != nil {
		resp.Changes = out.Result.Changes
		resp.Summary = out.Result.Summary
	}
	writeData(w, http.StatusOK, resp)
}

// GetCombatProfile handles GET /characters/{characterID}/combat?base_speed=
func (h *Handler) GetCombatProfile(w http.ResponseWriter, r *http.Request) {
	speed, err := queryInt(r, "base_speed")
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.GetCombatProfile(r.Context(), &charactersvc.GetCombatProfileInput{
		CharacterID: chi.URLParam(r, "characterID"),
		BaseSpeed:   speed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Profile)
}

// ValidateAction handles POST /characters/{characterID}/validate-action
func (h *Handler) ValidateAction(w http.ResponseWriter, r *http.Request) {
	var body validateActionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.ValidateAction(r.Context(), &charactersvc.ValidateActionInput{
		CharacterID: chi.URLParam(r, "characterID"),
		Action:      body.Action,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Result)
}
