package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/service"
	"github.com/gobuild-crm/vishnu/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Ingest(ctx context.Context, input service.IngestInput) (*service.IngestResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockIngestionService) Delete(ctx context.Context, documentID, fileName string) (int64, error) {
	args := m.Called(ctx, documentID, fileName)
	return args.Get(0).(int64), args.Error(1)
}

type MockArchiveProvider struct {
	mock.Mock
}

func (m *MockArchiveProvider) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockArchiveProvider) HeadObject(ctx context.Context, key string) (*storage.ObjectMetadata, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ObjectMetadata), args.Error(1)
}

func multipartUpload(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestDocumentHandler_Upload_Success(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewDocumentHandler(mockSvc, nil)

	mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(input service.IngestInput) bool {
		return input.FileName == "notes.txt" && input.Reader != nil
	})).Return(&service.IngestResult{
		DocumentID:      "doc_abc",
		ChunksProcessed: 3,
		FileName:        "notes.txt",
	}, nil)

	body, contentType := multipartUpload(t, "file", "notes.txt", "file content")
	req := httptest.NewRequest(http.MethodPost, "/vishnu/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Clients read documentId/chunksProcessed/fileName at the top level.
	var resp UploadResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "doc_abc", resp.DocumentID)
	assert.Equal(t, 3, resp.ChunksProcessed)
	assert.Equal(t, "notes.txt", resp.FileName)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "documentId")
	assert.NotContains(t, raw, "data")
}

func TestDocumentHandler_Upload_NoFile(t *testing.T) {
	handler := NewDocumentHandler(new(MockIngestionService), nil)

	body, contentType := multipartUpload(t, "other_field", "notes.txt", "file content")
	req := httptest.NewRequest(http.MethodPost, "/vishnu/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_Upload_UnsupportedFormat(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewDocumentHandler(mockSvc, nil)

	mockSvc.On("Ingest", mock.Anything, mock.Anything).
		Return(nil, domain.NewUnsupportedFormatError("pptx"))

	body, contentType := multipartUpload(t, "file", "slides.pptx", "binary")
	req := httptest.NewRequest(http.MethodPost, "/vishnu/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_GetDownloadURL_Success(t *testing.T) {
	archive := new(MockArchiveProvider)
	handler := NewDocumentHandler(new(MockIngestionService), archive)

	archive.On("HeadObject", mock.Anything, "uploads/doc_abc/notes.txt").
		Return(&storage.ObjectMetadata{ContentLength: 42, ContentType: "text/plain"}, nil)
	archive.On("GenerateDownloadURL", mock.Anything, "uploads/doc_abc/notes.txt").
		Return("https://storage.example.com/presigned", nil)

	req := httptest.NewRequest(http.MethodGet, "/vishnu/documents/doc_abc/download?fileName=notes.txt", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc_abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp DownloadURLResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/presigned", resp.URL)
	archive.AssertExpectations(t)
}

func TestDocumentHandler_GetDownloadURL_ObjectMissing(t *testing.T) {
	archive := new(MockArchiveProvider)
	handler := NewDocumentHandler(new(MockIngestionService), archive)

	archive.On("HeadObject", mock.Anything, "uploads/doc_abc/notes.txt").
		Return(nil, errors.New("NotFound: status code 404"))

	req := httptest.NewRequest(http.MethodGet, "/vishnu/documents/doc_abc/download?fileName=notes.txt", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc_abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	archive.AssertNotCalled(t, "GenerateDownloadURL")
}

func TestDocumentHandler_GetDownloadURL_MissingFileName(t *testing.T) {
	handler := NewDocumentHandler(new(MockIngestionService), new(MockArchiveProvider))

	req := httptest.NewRequest(http.MethodGet, "/vishnu/documents/doc_abc/download", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc_abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_GetDownloadURL_NoArchive(t *testing.T) {
	handler := NewDocumentHandler(new(MockIngestionService), nil)

	req := httptest.NewRequest(http.MethodGet, "/vishnu/documents/doc_abc/download?fileName=notes.txt", nil)
	w := httptest.NewRecorder()

	handler.GetDownloadURL(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrStorageNotAvailable.Message)
}

func TestDocumentHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewDocumentHandler(mockSvc, nil)

	mockSvc.On("Delete", mock.Anything, "doc_abc", "notes.txt").Return(int64(3), nil)

	req := httptest.NewRequest(http.MethodDelete, "/vishnu/documents/doc_abc?fileName=notes.txt", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc_abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp DeleteResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "doc_abc", resp.DocumentID)
	assert.Equal(t, int64(3), resp.ChunksRemoved)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Delete_MissingID(t *testing.T) {
	handler := NewDocumentHandler(new(MockIngestionService), nil)

	req := httptest.NewRequest(http.MethodDelete, "/vishnu/documents/", nil)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_Delete_StoreFailure(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewDocumentHandler(mockSvc, nil)

	mockSvc.On("Delete", mock.Anything, "doc_abc", "").
		Return(int64(0), domain.NewVectorStoreError("delete document", errors.New("connection refused")))

	req := httptest.NewRequest(http.MethodDelete, "/vishnu/documents/doc_abc", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc_abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
