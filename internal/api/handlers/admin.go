package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gobuild-crm/vishnu/internal/api"
	"github.com/gobuild-crm/vishnu/internal/domain"
)

type IndexAdminService interface {
	DescribeStats(ctx context.Context) (domain.IndexStats, error)
	ClearNamespace(ctx context.Context, namespace string) error
}

// AdminHandler exposes operational endpoints over the vector index.
type AdminHandler struct {
	svc IndexAdminService
}

func NewAdminHandler(svc IndexAdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type StatsResponse struct {
	TotalRecordCount int64            `json:"totalRecordCount"`
	Namespaces       map[string]int64 `json:"namespaces"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DescribeStats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	namespaces := stats.Namespaces
	if namespaces == nil {
		namespaces = map[string]int64{}
	}

	api.Success(w, http.StatusOK, StatsResponse{
		TotalRecordCount: stats.TotalRecordCount,
		Namespaces:       namespaces,
	})
}

func (h *AdminHandler) ClearNamespace(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	if namespace == "" {
		api.Error(w, http.StatusBadRequest, "namespace is required")
		return
	}

	if err := h.svc.ClearNamespace(r.Context(), namespace); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"namespace": namespace, "status": "cleared"})
}
