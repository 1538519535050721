package service

import (
	"context"
	"log"
	"strings"

	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/telemetry"
)

// SearchVectorStore is the slice of the vector store the assistant needs.
type SearchVectorStore interface {
	QueryMultipleNamespaces(ctx context.Context, namespaces []string, queryText string, topKPerNamespace int) ([]domain.QueryResult, error)
}

// KnowledgeInitializer seeds the static knowledge corpus on first use.
type KnowledgeInitializer interface {
	EnsureInitialized(ctx context.Context) error
}

// AnswerGenerator produces a grounded answer from a prompt pair.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// DefaultTopKPerNamespace is the per-namespace retrieval depth.
const DefaultTopKPerNamespace = 3

// FallbackAnswer is returned verbatim when retrieval produces nothing to
// ground an answer on. No generation call is made in that case.
const FallbackAnswer = "I don't have enough information to answer that question. " +
	"You can upload documents for me to analyze, or ask me about construction CRM processes, " +
	"supplier management, quotations, or project management."

const systemPrompt = `You are Vishnu, an intelligent assistant specialized in construction industry CRM and business processes.

Your expertise includes:
- Construction project management and workflows
- Supplier and subcontractor management
- Quotation and estimation processes
- Material tracking and inventory
- Order and payment management
- Quality control and compliance
- Construction industry best practices

When answering questions:
1. Use the provided context to give accurate, specific answers
2. If the context includes both construction knowledge and uploaded documents, integrate both sources
3. Cite your sources when referencing specific information
4. For construction-related questions without specific context, draw from general construction industry knowledge
5. Be helpful, professional, and construction-industry aware
6. If you're not sure, say so rather than making up information

Always provide practical, actionable advice relevant to construction CRM and business operations.`

// DocumentSource attributes part of an answer to an uploaded document chunk.
type DocumentSource struct {
	FileName   string  `json:"fileName"`
	ChunkIndex int     `json:"chunkIndex"`
	Score      float32 `json:"score"`
}

// KnowledgeSource attributes part of an answer to the static corpus.
type KnowledgeSource struct {
	Category string  `json:"category"`
	Score    float32 `json:"score"`
}

// Sources groups answer attributions by origin.
type Sources struct {
	Documents []DocumentSource  `json:"documents"`
	Knowledge []KnowledgeSource `json:"knowledge"`
}

// Answer is the full result of one assistant query.
type Answer struct {
	Response     string  `json:"response"`
	Sources      Sources `json:"sources"`
	ResultsCount int     `json:"resultsCount"`
}

// AssistantService answers natural-language questions grounded in the
// static knowledge corpus and uploaded documents.
type AssistantService struct {
	store        SearchVectorStore
	bootstrapper KnowledgeInitializer
	generator    AnswerGenerator
	topK         int
}

func NewAssistantService(store SearchVectorStore, bootstrapper KnowledgeInitializer, generator AnswerGenerator) *AssistantService {
	return &AssistantService{
		store:        store,
		bootstrapper: bootstrapper,
		generator:    generator,
		topK:         DefaultTopKPerNamespace,
	}
}

// Answer runs the full retrieval pipeline for one query: seed the
// knowledge base if needed, fan out across both namespaces, assemble
// context, and generate a grounded response with source attribution.
func (s *AssistantService) Answer(ctx context.Context, query string) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx, span := telemetry.StartSpan(ctx, "AssistantService.Answer", telemetry.SpanAttributes{
		Operation: "answer",
	})
	defer span.End()

	// Seeding failures are survivable: uploaded documents may still
	// carry the answer, and the next query retries the seed.
	if err := s.bootstrapper.EnsureInitialized(ctx); err != nil {
		log.Printf("assistant: knowledge base initialization failed, continuing: %v", err)
	}

	namespaces := []string{domain.NamespaceDefault, domain.NamespaceUploadedDocuments}
	results, err := s.store.QueryMultipleNamespaces(ctx, namespaces, query, s.topK)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &Answer{
			Response: FallbackAnswer,
			Sources: Sources{
				Documents: []DocumentSource{},
				Knowledge: []KnowledgeSource{},
			},
		}, nil
	}

	userMessage := "Context:\n" + buildContext(results) + "\n\nQuestion: " + query
	response, err := s.generator.GenerateAnswer(ctx, systemPrompt, userMessage)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	return &Answer{
		Response:     response,
		Sources:      extractSources(results),
		ResultsCount: len(results),
	}, nil
}

// buildContext assembles the prompt context: knowledge passages under one
// header, uploaded-document passages under another. Membership tests are
// independent, so a record carrying both markers appears under both
// headers. Results matching neither origin contribute no text.
func buildContext(results []domain.QueryResult) string {
	var knowledgeTexts, documentTexts []string
	for _, r := range results {
		if r.IsKnowledge() {
			knowledgeTexts = append(knowledgeTexts, r.Text)
		}
		if r.FileName() != "" {
			documentTexts = append(documentTexts, r.Text)
		}
	}

	var b strings.Builder
	if len(knowledgeTexts) > 0 {
		b.WriteString("=== Construction Industry Knowledge ===\n")
		b.WriteString(strings.Join(knowledgeTexts, "\n\n"))
		b.WriteString("\n\n")
	}
	if len(documentTexts) > 0 {
		b.WriteString("=== Uploaded Documents ===\n")
		b.WriteString(strings.Join(documentTexts, "\n\n"))
	}
	return b.String()
}

// extractSources re-derives attribution from the retrieval results.
// Document origin takes precedence when a record carries both markers.
func extractSources(results []domain.QueryResult) Sources {
	sources := Sources{
		Documents: []DocumentSource{},
		Knowledge: []KnowledgeSource{},
	}
	for _, r := range results {
		switch {
		case r.FileName() != "":
			sources.Documents = append(sources.Documents, DocumentSource{
				FileName:   r.FileName(),
				ChunkIndex: metadataInt(r.Metadata, domain.MetaChunkIndex),
				Score:      r.Score,
			})
		case r.IsKnowledge():
			category, _ := r.Metadata[domain.MetaCategory].(string)
			sources.Knowledge = append(sources.Knowledge, KnowledgeSource{
				Category: category,
				Score:    r.Score,
			})
		}
	}
	return sources
}

// metadataInt reads a numeric metadata value. JSONB round-trips numbers
// as float64, while freshly built metadata carries int.
func metadataInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
