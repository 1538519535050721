package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gobuild-crm/vishnu/internal/api"
	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/service"
	"github.com/gobuild-crm/vishnu/internal/storage"
)

type IngestionService interface {
	Ingest(ctx context.Context, input service.IngestInput) (*service.IngestResult, error)
	Delete(ctx context.Context, documentID, fileName string) (int64, error)
}

// DocumentArchiveProvider serves archived originals back to clients.
// Nil when object storage is not configured.
type DocumentArchiveProvider interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	HeadObject(ctx context.Context, key string) (*storage.ObjectMetadata, error)
}

type DocumentHandler struct {
	svc     IngestionService
	archive DocumentArchiveProvider
}

func NewDocumentHandler(svc IngestionService, archive DocumentArchiveProvider) *DocumentHandler {
	return &DocumentHandler{svc: svc, archive: archive}
}

type UploadResponse struct {
	DocumentID      string `json:"documentId"`
	ChunksProcessed int    `json:"chunksProcessed"`
	FileName        string `json:"fileName"`
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	result, err := h.svc.Ingest(r.Context(), service.IngestInput{
		FileName: header.Filename,
		Reader:   file,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, UploadResponse{
		DocumentID:      result.DocumentID,
		ChunksProcessed: result.ChunksProcessed,
		FileName:        result.FileName,
	})
}

type DeleteResponse struct {
	DocumentID    string `json:"documentId"`
	ChunksRemoved int64  `json:"chunksRemoved"`
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	if documentID == "" {
		api.Error(w, http.StatusBadRequest, domain.ErrMissingDocumentID.Message)
		return
	}

	removed, err := h.svc.Delete(r.Context(), documentID, r.URL.Query().Get("fileName"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DeleteResponse{
		DocumentID:    documentID,
		ChunksRemoved: removed,
	})
}

type DownloadURLResponse struct {
	URL string `json:"url"`
}

func (h *DocumentHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		api.Error(w, http.StatusNotImplemented, domain.ErrStorageNotAvailable.Message)
		return
	}

	documentID := chi.URLParam(r, "id")
	fileName := r.URL.Query().Get("fileName")
	if documentID == "" || fileName == "" {
		api.Error(w, http.StatusBadRequest, "document id and fileName are required")
		return
	}

	key := service.ArchiveKey(documentID, fileName)

	// Presigning never touches the bucket, so confirm the object exists
	// before handing out a URL that would 404.
	if _, err := h.archive.HeadObject(r.Context(), key); err != nil {
		api.Error(w, http.StatusNotFound, "archived original not found")
		return
	}

	url, err := h.archive.GenerateDownloadURL(r.Context(), key)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DownloadURLResponse{URL: url})
}
