package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gobuild-crm/vishnu/internal/api"
	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Answer(ctx context.Context, query string) (*service.Answer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}

func TestAssistantHandler_Query_Success(t *testing.T) {
	mockSvc := new(MockAssistantService)
	handler := NewAssistantHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "how do I track suppliers").Return(&service.Answer{
		Response: "Use the supplier module.",
		Sources: service.Sources{
			Documents: []service.DocumentSource{{FileName: "suppliers.pdf", ChunkIndex: 1, Score: 0.9}},
			Knowledge: []service.KnowledgeSource{{Category: "suppliers", Score: 0.85}},
		},
		ResultsCount: 2,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/vishnu/query", strings.NewReader(`{"query":"how do I track suppliers"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Query(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// The answer is the response body itself: clients read top-level
	// response/sources/resultsCount keys.
	var resp service.Answer
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "Use the supplier module.", resp.Response)
	assert.Equal(t, 2, resp.ResultsCount)
	require.Len(t, resp.Sources.Documents, 1)
	assert.Equal(t, "suppliers.pdf", resp.Sources.Documents[0].FileName)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "response")
	assert.Contains(t, raw, "sources")
	assert.Contains(t, raw, "resultsCount")
	assert.NotContains(t, raw, "data")
}

func TestAssistantHandler_Query_InvalidBody(t *testing.T) {
	handler := NewAssistantHandler(new(MockAssistantService))

	req := httptest.NewRequest(http.MethodPost, "/vishnu/query", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	handler.Query(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantHandler_Query_EmptyQuery(t *testing.T) {
	mockSvc := new(MockAssistantService)
	handler := NewAssistantHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "").Return(nil, domain.ErrEmptyQuery)

	req := httptest.NewRequest(http.MethodPost, "/vishnu/query", strings.NewReader(`{"query":""}`))
	w := httptest.NewRecorder()

	handler.Query(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "query text is required", resp.Error)
}

func TestAssistantHandler_Query_GenerationFailure(t *testing.T) {
	mockSvc := new(MockAssistantService)
	handler := NewAssistantHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "q").
		Return(nil, domain.NewGenerationError(assert.AnError))

	req := httptest.NewRequest(http.MethodPost, "/vishnu/query", strings.NewReader(`{"query":"q"}`))
	w := httptest.NewRecorder()

	handler.Query(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
