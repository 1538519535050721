package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIndexAdminService struct {
	mock.Mock
}

func (m *MockIndexAdminService) DescribeStats(ctx context.Context) (domain.IndexStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.IndexStats), args.Error(1)
}

func (m *MockIndexAdminService) ClearNamespace(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}

func TestAdminHandler_Stats_Success(t *testing.T) {
	mockSvc := new(MockIndexAdminService)
	handler := NewAdminHandler(mockSvc)

	mockSvc.On("DescribeStats", mock.Anything).Return(domain.IndexStats{
		TotalRecordCount: 25,
		Namespaces: map[string]int64{
			domain.NamespaceDefault:           20,
			domain.NamespaceUploadedDocuments: 5,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/vishnu/stats", nil)
	w := httptest.NewRecorder()

	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, int64(25), resp.TotalRecordCount)
	assert.Equal(t, int64(20), resp.Namespaces[domain.NamespaceDefault])
}

func TestAdminHandler_Stats_EmptyIndex(t *testing.T) {
	mockSvc := new(MockIndexAdminService)
	handler := NewAdminHandler(mockSvc)

	mockSvc.On("DescribeStats", mock.Anything).Return(domain.IndexStats{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/vishnu/stats", nil)
	w := httptest.NewRecorder()

	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Namespaces serializes as an object even when the index is empty.
	assert.Contains(t, w.Body.String(), `"namespaces":{}`)
}

func TestAdminHandler_Stats_StoreFailure(t *testing.T) {
	mockSvc := new(MockIndexAdminService)
	handler := NewAdminHandler(mockSvc)

	mockSvc.On("DescribeStats", mock.Anything).
		Return(domain.IndexStats{}, domain.NewVectorStoreError("stats", assert.AnError))

	req := httptest.NewRequest(http.MethodGet, "/vishnu/stats", nil)
	w := httptest.NewRecorder()

	handler.Stats(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAdminHandler_ClearNamespace_Success(t *testing.T) {
	mockSvc := new(MockIndexAdminService)
	handler := NewAdminHandler(mockSvc)

	mockSvc.On("ClearNamespace", mock.Anything, domain.NamespaceUploadedDocuments).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/vishnu/namespaces/uploaded_documents", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("namespace", domain.NamespaceUploadedDocuments)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.ClearNamespace(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestAdminHandler_ClearNamespace_MissingParam(t *testing.T) {
	handler := NewAdminHandler(new(MockIndexAdminService))

	req := httptest.NewRequest(http.MethodDelete, "/vishnu/namespaces/", nil)
	w := httptest.NewRecorder()

	handler.ClearNamespace(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
