package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	campaignsvc "github.com/KirkDiggler/dungeon-master/internal/services/campaign"
)

type deleteCampaignResponse struct {
	CharactersDeleted int `json:"characters_deleted"`
	SessionsDeleted   int `json:"sessions_deleted"`
	MessagesDeleted   int `json:"messages_deleted"`
}

type deleteSessionResponse struct {
	MessagesDeleted int `json:"messages_deleted"`
}

// CreateCampaign handles POST /campaigns
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body entities.Campaign
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.campaignService.CreateCampaign(r.Context(), &campaignsvc.CreateCampaignInput{Campaign: &body})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, out.Campaign)
}

// ListCampaigns handles GET /campaigns?user_id=
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.ListCampaigns(r.Context(), &campaignsvc.ListCampaignsInput{
		UserID: r.URL.Query().Get("user_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Campaigns)
}

// GetCampaign handles GET /campaigns/{campaignID}
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.GetCampaign(r.Context(), &campaignsvc.GetCampaignInput{
		CampaignID: chi.URLParam(r, "campaignID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Campaign)
}

// UpdateCampaign handles PATCH /campaigns/{campaignID}
func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch campaignsvc.CampaignPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.campaignService.UpdateCampaign(r.Context(), &campaignsvc.UpdateCampaignInput{
		CampaignID: chi.URLParam(r, "campaignID"),
		Patch:      &patch,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Campaign)
}

// DeleteCampaign handles DELETE /campaigns/{campaignID}
func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.DeleteCampaign(r.Context(), &campaignsvc.DeleteCampaignInput{
		CampaignID: chi.URLParam(r, "campaignID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, deleteCampaignResponse{
		CharactersDeleted: out.CharactersDeleted,
		SessionsDeleted:   out.SessionsDeleted,
		MessagesDeleted:   out.MessagesDeleted,
	})
}

// CreateSession handles POST /campaigns/{campaignID}/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body entities.Session
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	body.CampaignID = chi.URLParam(r, "campaignID")

	out, err := h.campaignService.CreateSession(r.Context(), &campaignsvc.CreateSessionInput{Session: &body})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, out.Session)
}

// ListSessions handles GET /campaigns/{campaignID}/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.ListSessions(r.Context(), &campaignsvc.ListSessionsInput{
		CampaignID: chi.URLParam(r, "campaignID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Sessions)
}

// GetSession handles GET /sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.GetSession(r.Context(), &campaignsvc.GetSessionInput{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Session)
}

// DeleteSession handles DELETE /sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaignService.DeleteSession(r.Context(), &campaignsvc.DeleteSessionInput{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, deleteSessionResponse{MessagesDeleted: out.MessagesDeleted})
}

// ListMessages handles GET /sessions/{sessionID}/messages?limit=
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.campaignService.ListMessages(r.Context(), &campaignsvc.ListMessagesInput{
		SessionID: chi.URLParam(r, "sessionID"),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Messages)
}
