package handlers

import (
	"net/http"

	"github.com/turtacn/H2Siting/internal/application/assistant"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// AssistantHandler serves the report, question and chat endpoints under /LLM.
type AssistantHandler struct {
	svc    assistant.Service
	logger logging.Logger
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(svc assistant.Service, logger logging.Logger) *AssistantHandler {
	return &AssistantHandler{svc: svc, logger: logger}
}

// GenerateReport handles POST /LLM/generate-report.
func (h *AssistantHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var data assistant.ReportData
	if err := decodeJSON(r, &data); err != nil {
		writeStatusError(w, err)
		return
	}
	res, err := h.svc.GenerateReport(r.Context(), &data)
	if err != nil {
		h.logger.Warn("report generation failed", logging.String("location", data.Location), logging.Err(err))
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AskQuestion handles POST /LLM/ask-question.
func (h *AssistantHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var in assistant.QuestionInput
	if err := decodeJSON(r, &in); err != nil {
		writeStatusError(w, err)
		return
	}
	if in.Question == "" {
		writeStatusError(w, errors.InvalidParam("question is required"))
		return
	}
	res, err := h.svc.AskQuestion(r.Context(), &in)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Chat handles POST /LLM/chat.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in assistant.ChatInput
	if err := decodeJSON(r, &in); err != nil {
		writeStatusError(w, err)
		return
	}
	if len(in.Messages) == 0 {
		writeStatusError(w, errors.InvalidParam("messages are required"))
		return
	}
	res, err := h.svc.Chat(r.Context(), &in)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

//Personal.AI order the ending
