package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBootstrapper mocks knowledge-base initialization
type MockBootstrapper struct {
	mock.Mock
}

func (m *MockBootstrapper) EnsureInitialized(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockGenerator mocks the answer-generation provider
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateAnswer(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	args := m.Called(ctx, systemPrompt, userMessage)
	return args.String(0), args.Error(1)
}

func knowledgeResult(id, text, category string, score float32) domain.QueryResult {
	return domain.QueryResult{
		ID:    id,
		Score: score,
		Text:  text,
		Metadata: map[string]any{
			domain.MetaSource:   domain.KnowledgeSource,
			domain.MetaCategory: category,
		},
	}
}

func documentResult(id, text, fileName string, chunkIndex any, score float32) domain.QueryResult {
	return domain.QueryResult{
		ID:    id,
		Score: score,
		Text:  text,
		Metadata: map[string]any{
			domain.MetaFileName:   fileName,
			domain.MetaChunkIndex: chunkIndex,
		},
	}
}

func TestAssistantAnswer_EmptyQuery(t *testing.T) {
	svc := NewAssistantService(new(MockVectorStore), new(MockBootstrapper), new(MockGenerator))

	_, err := svc.Answer(context.Background(), "")
	assert.Equal(t, domain.ErrEmptyQuery, err)

	_, err = svc.Answer(context.Background(), "   \n\t")
	assert.Equal(t, domain.ErrEmptyQuery, err)
}

func TestAssistantAnswer_FallbackOnNoResults(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	store.On("QueryMultipleNamespaces", ctx,
		[]string{domain.NamespaceDefault, domain.NamespaceUploadedDocuments},
		"what is a gantt chart", DefaultTopKPerNamespace,
	).Return([]domain.QueryResult{}, nil)

	answer, err := svc.Answer(ctx, "what is a gantt chart")

	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, answer.Response)
	assert.NotNil(t, answer.Sources.Documents)
	assert.NotNil(t, answer.Sources.Knowledge)
	assert.Empty(t, answer.Sources.Documents)
	assert.Empty(t, answer.Sources.Knowledge)
	assert.Equal(t, 0, answer.ResultsCount)
	generator.AssertNotCalled(t, "GenerateAnswer")
}

func TestAssistantAnswer_SurvivesBootstrapFailure(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(errors.New("index unreachable"))
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "supplier terms", DefaultTopKPerNamespace).
		Return([]domain.QueryResult{
			documentResult("doc_1_chunk_0", "payment terms are net 30", "contract.pdf", 0, 0.91),
		}, nil)
	generator.On("GenerateAnswer", ctx, mock.Anything, mock.Anything).Return("Net 30.", nil)

	answer, err := svc.Answer(ctx, "supplier terms")

	require.NoError(t, err)
	assert.Equal(t, "Net 30.", answer.Response)
}

func TestAssistantAnswer_ContextAssembly(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "how do I manage suppliers", DefaultTopKPerNamespace).
		Return([]domain.QueryResult{
			documentResult("doc_1_chunk_2", "our supplier list", "suppliers.txt", 2, 0.95),
			knowledgeResult("construction_supplier_management", "track supplier performance", "suppliers", 0.88),
			knowledgeResult("construction_quotation_process", "itemize quotations", "quotation", 0.80),
		}, nil)

	var captured string
	generator.On("GenerateAnswer", ctx, mock.MatchedBy(func(sys string) bool {
		return strings.Contains(sys, "You are Vishnu")
	}), mock.MatchedBy(func(userMsg string) bool {
		captured = userMsg
		return true
	})).Return("answer", nil)

	answer, err := svc.Answer(ctx, "how do I manage suppliers")

	require.NoError(t, err)
	assert.Equal(t, 3, answer.ResultsCount)

	// Knowledge passages come first under their own header, then the
	// uploaded-document passages under theirs.
	assert.True(t, strings.HasPrefix(captured, "Context:\n=== Construction Industry Knowledge ===\n"))
	assert.Contains(t, captured, "track supplier performance\n\nitemize quotations")
	assert.Contains(t, captured, "=== Uploaded Documents ===\nour supplier list")
	assert.True(t, strings.HasSuffix(captured, "\n\nQuestion: how do I manage suppliers"))
	knowledgeIdx := strings.Index(captured, "=== Construction Industry Knowledge ===")
	documentIdx := strings.Index(captured, "=== Uploaded Documents ===")
	assert.Less(t, knowledgeIdx, documentIdx)
}

func TestAssistantAnswer_DualMarkerRecord(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	// A record carrying both a fileName and the knowledge-source marker.
	dual := domain.QueryResult{
		ID:    "doc_1_chunk_0",
		Score: 0.9,
		Text:  "safety checklist passage",
		Metadata: map[string]any{
			domain.MetaFileName:   "safety.pdf",
			domain.MetaChunkIndex: 0,
			domain.MetaSource:     domain.KnowledgeSource,
			domain.MetaCategory:   "safety",
		},
	}
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "safety rules", DefaultTopKPerNamespace).
		Return([]domain.QueryResult{dual}, nil)

	var captured string
	generator.On("GenerateAnswer", ctx, mock.Anything, mock.MatchedBy(func(userMsg string) bool {
		captured = userMsg
		return true
	})).Return("answer", nil)

	answer, err := svc.Answer(ctx, "safety rules")

	require.NoError(t, err)
	// The passage shows up under both context headers but is attributed
	// once, as a document.
	assert.Contains(t, captured, "=== Construction Industry Knowledge ===\nsafety checklist passage")
	assert.Contains(t, captured, "=== Uploaded Documents ===\nsafety checklist passage")
	require.Len(t, answer.Sources.Documents, 1)
	assert.Equal(t, "safety.pdf", answer.Sources.Documents[0].FileName)
	assert.Empty(t, answer.Sources.Knowledge)
}

func TestAssistantAnswer_SourceAttribution(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "query", DefaultTopKPerNamespace).
		Return([]domain.QueryResult{
			// chunkIndex as float64 mirrors a JSONB round-trip.
			documentResult("doc_1_chunk_3", "passage", "contract.pdf", float64(3), 0.93),
			knowledgeResult("construction_leads", "passage", "leads", 0.85),
			{ID: "stray", Score: 0.5, Text: "no origin markers", Metadata: map[string]any{}},
		}, nil)
	generator.On("GenerateAnswer", ctx, mock.Anything, mock.Anything).Return("answer", nil)

	answer, err := svc.Answer(ctx, "query")

	require.NoError(t, err)
	require.Len(t, answer.Sources.Documents, 1)
	assert.Equal(t, "contract.pdf", answer.Sources.Documents[0].FileName)
	assert.Equal(t, 3, answer.Sources.Documents[0].ChunkIndex)
	assert.Equal(t, float32(0.93), answer.Sources.Documents[0].Score)
	require.Len(t, answer.Sources.Knowledge, 1)
	assert.Equal(t, "leads", answer.Sources.Knowledge[0].Category)
	// Unattributable results still count toward the total.
	assert.Equal(t, 3, answer.ResultsCount)
}

func TestAssistantAnswer_SearchFailure(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	searchErr := domain.NewEmbeddingError(errors.New("429 too many requests"))
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "query", DefaultTopKPerNamespace).
		Return(nil, searchErr)

	_, err := svc.Answer(ctx, "query")

	assert.Equal(t, searchErr, err)
	generator.AssertNotCalled(t, "GenerateAnswer")
}

func TestAssistantAnswer_GenerationFailure(t *testing.T) {
	store := new(MockVectorStore)
	bootstrapper := new(MockBootstrapper)
	generator := new(MockGenerator)
	svc := NewAssistantService(store, bootstrapper, generator)

	ctx := context.Background()
	bootstrapper.On("EnsureInitialized", ctx).Return(nil)
	store.On("QueryMultipleNamespaces", ctx, mock.Anything, "query", DefaultTopKPerNamespace).
		Return([]domain.QueryResult{knowledgeResult("k1", "passage", "leads", 0.8)}, nil)
	generator.On("GenerateAnswer", ctx, mock.Anything, mock.Anything).
		Return("", errors.New("model overloaded"))

	_, err := svc.Answer(ctx, "query")

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeGenerationProvider, domainErr.Code)
}
