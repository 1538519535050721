package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gobuild-crm/vishnu/internal/api"
	"github.com/gobuild-crm/vishnu/internal/service"
)

type AssistantService interface {
	Answer(ctx context.Context, query string) (*service.Answer, error)
}

type AssistantHandler struct {
	svc AssistantService
}

func NewAssistantHandler(svc AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

type QueryRequest struct {
	Query string `json:"query"`
}

func (h *AssistantHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, answer)
}
