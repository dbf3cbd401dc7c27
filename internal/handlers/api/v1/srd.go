package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

var errSRDUnavailable = errors.FailedPrecondition("rules reference is not configured")

// GetEquipment handles GET /srd/equipment/{key}
func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	if h.externalClient == nil {
		writeError(w, r, errSRDUnavailable)
		return
	}

	item, err := h.externalClient.GetEquipmentData(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

// GetClass handles GET /srd/classes/{key}
func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	if h.externalClient == nil {
		writeError(w, r, errSRDUnavailable)
		return
	}

	class, err := h.externalClient.GetClassData(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, class)
}
