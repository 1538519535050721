package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gobuild-crm/vishnu/internal/api"
	"github.com/gobuild-crm/vishnu/internal/api/handlers"
	"github.com/gobuild-crm/vishnu/internal/api/middleware"
)

type RouterConfig struct {
	AssistantHandler *handlers.AssistantHandler
	DocumentHandler  *handlers.DocumentHandler
	AdminHandler     *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Uploads carry whole documents, so the cap is generous.
	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/vishnu", func(r chi.Router) {
		r.Post("/query", cfg.AssistantHandler.Query)
		r.Post("/upload", cfg.DocumentHandler.Upload)
		r.Delete("/documents/{id}", cfg.DocumentHandler.Delete)
		r.Get("/documents/{id}/download", cfg.DocumentHandler.GetDownloadURL)
		r.Get("/stats", cfg.AdminHandler.Stats)
		r.Delete("/namespaces/{namespace}", cfg.AdminHandler.ClearNamespace)
	})

	return r
}
