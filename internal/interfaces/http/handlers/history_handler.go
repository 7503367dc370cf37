package handlers

import (
	"net/http"

	"github.com/turtacn/H2Siting/internal/application/history"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
)

// HistoryHandler exposes stored assistant conversations.
type HistoryHandler struct {
	svc    history.Service
	logger logging.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc history.Service, logger logging.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, logger: logger}
}

// Sessions handles GET /history/api/sessions?limit=&offset=.
func (h *HistoryHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Sessions(r.Context(), parsePagination(r))
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions, "status": "success"})
}

// Messages handles GET /history/api/session/{id}.
func (h *HistoryHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": h.svc.Messages(r.Context(), id), "status": "success"})
}

// DeleteSession handles DELETE /history/api/session/{id}.
func (h *HistoryHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeStatusError(w, err)
		return
	}
	if err := h.svc.DeleteSession(r.Context(), id); err != nil {
		writeStatusError(w, err)
		return
	}
	h.logger.Info("chat session deleted", logging.Int64("session_id", id), logging.Int64("user_id", currentUserID(r)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success"})
}

//Personal.AI order the ending
