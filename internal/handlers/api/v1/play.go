package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	chatsvc "github.com/KirkDiggler/dungeon-master/internal/services/chat"
)

type chatRequest struct {
	Content     string `json:"content"`
	CharacterID string `json:"character_id,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	Model       string `json:"model,omitempty"`
}

type chatResponse struct {
	PlayerMessage *entities.Message `json:"player_message"`
	Turn          *chatsvc.Turn     `json:"turn"`
}

type resolveRollRequest struct {
	Expression  string `json:"expression"`
	Reason      string `json:"reason"`
	Result      int    `json:"result"`
	CharacterID string `json:"character_id,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	Model       string `json:"model,omitempty"`
}

type resolveRollResponse struct {
	Outcome     *dice.Outcome               `json:"outcome"`
	SetComplete bool                        `json:"set_complete"`
	Set         *pendingroll.PendingRollSet `json:"set,omitempty"`
	Turn        *chatsvc.Turn               `json:"turn,omitempty"`
}

type rollSetResponse struct {
	Set *pendingroll.PendingRollSet `json:"set"`
}

type clearRollSetResponse struct {
	RollsDeleted int `json:"rolls_deleted"`
}

type rollDiceRequest struct {
	Expression string `json:"expression"`
	Reason     string `json:"reason,omitempty"`
}

// requestID prefers the body's request id and falls back to the Idempotency-Key header
func requestID(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return r.Header.Get("Idempotency-Key")
}

// SubmitPlayerMessage handles POST /sessions/{sessionID}/chat
func (h *Handler) SubmitPlayerMessage(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.chatService.SubmitPlayerMessage(r.Context(), &chatsvc.SubmitPlayerMessageInput{
		SessionID:   chi.URLParam(r, "sessionID"),
		Content:     body.Content,
		CharacterID: body.CharacterID,
		RequestID:   requestID(r, body.RequestID),
		Model:       body.Model,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, chatResponse{PlayerMessage: out.PlayerMessage, Turn: out.Turn})
}

// ResolveDiceRoll handles POST /sessions/{sessionID}/rolls
func (h *Handler) ResolveDiceRoll(w http.ResponseWriter, r *http.Request) {
	var body resolveRollRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.chatService.ResolveDiceRoll(r.Context(), &chatsvc.ResolveDiceRollInput{
		SessionID:   chi.URLParam(r, "sessionID"),
		CharacterID: body.CharacterID,
		Expression:  body.Expression,
		Reason:      body.Reason,
		Result:      body.Result,
		RequestID:   requestID(r, body.RequestID),
		Model:       body.Model,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, resolveRollResponse{
		Outcome:     out.Outcome,
		SetComplete: out.SetComplete,
		Set:         out.Set,
		Turn:        out.Turn,
	})
}

// GetRollSet handles GET /sessions/{sessionID}/rolls
func (h *Handler) GetRollSet(w http.ResponseWriter, r *http.Request) {
	out, err := h.diceService.GetRollSet(r.Context(), &dice.GetRollSetInput{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rollSetResponse{Set: out.Set})
}

// ClearRollSet handles DELETE /sessions/{sessionID}/rolls
func (h *Handler) ClearRollSet(w http.ResponseWriter, r *http.Request) {
	out, err := h.diceService.ClearRollSet(r.Context(), &dice.ClearRollSetInput{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, clearRollSetResponse{RollsDeleted: out.RollsDeleted})
}

// RollDice handles POST /dice/roll
func (h *Handler) RollDice(w http.ResponseWriter, r *http.Request) {
	var body rollDiceRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.diceService.RollDice(r.Context(), &dice.RollDiceInput{
		Expression: body.Expression,
		Reason:     body.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out.Outcome)
}
