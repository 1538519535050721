package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/extract"
	"github.com/gobuild-crm/vishnu/internal/telemetry"
	"github.com/google/uuid"
)

// TextExtractor converts a source file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filePath, fileType string) (string, error)
}

// IngestVectorStore is the slice of the vector store ingestion needs.
type IngestVectorStore interface {
	Upsert(ctx context.Context, namespace string, docs []domain.VectorDocument) error
	DeleteByDocumentID(ctx context.Context, namespace, documentID string) (int64, error)
}

// DocumentArchive stores original uploads in object storage. Optional:
// ingestion proceeds without one.
type DocumentArchive interface {
	Store(ctx context.Context, key string, body io.Reader, contentType string) error
	DeleteObject(ctx context.Context, key string) error
}

// IngestInput carries an uploaded file into the pipeline.
type IngestInput struct {
	FileName string
	Reader   io.Reader
}

// IngestResult reports what a successful ingestion produced.
type IngestResult struct {
	DocumentID      string
	ChunksProcessed int
	FileName        string
}

// IngestionService runs the ingestion pipeline: extract text, chunk,
// and upsert chunk vectors into the uploaded-documents namespace. The
// extracted text is transient; only derived chunks persist.
type IngestionService struct {
	extractor TextExtractor
	store     IngestVectorStore
	archive   DocumentArchive
	chunkCfg  ChunkConfig

	newID func() string
	now   func() time.Time
}

func NewIngestionService(extractor TextExtractor, store IngestVectorStore, chunkCfg ChunkConfig) *IngestionService {
	return NewIngestionServiceWithArchive(extractor, store, nil, chunkCfg)
}

func NewIngestionServiceWithArchive(extractor TextExtractor, store IngestVectorStore, archive DocumentArchive, chunkCfg ChunkConfig) *IngestionService {
	return &IngestionService{
		extractor: extractor,
		store:     store,
		archive:   archive,
		chunkCfg:  chunkCfg,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Ingest processes one uploaded document end to end. Chunk vector ids are
// derived from the document id and chunk index, so re-ingesting the same
// document id replaces its prior chunks.
func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if input.FileName == "" || input.Reader == nil {
		return nil, domain.ErrMissingFile
	}

	ctx, span := telemetry.StartSpan(ctx, "IngestionService.Ingest", telemetry.SpanAttributes{
		Namespace: domain.NamespaceUploadedDocuments,
		Operation: "ingest",
	})
	defer span.End()

	fileType := extract.TypeFromFileName(input.FileName)
	if fileType == "" {
		return nil, domain.NewUnsupportedFormatError(input.FileName)
	}

	// Extraction backends work on paths, so spool the upload to disk.
	tmpPath, err := spoolToTempFile(input.Reader, fileType)
	if err != nil {
		return nil, domain.NewExtractionError(fileType, err)
	}
	defer os.Remove(tmpPath)

	text, err := s.extractor.Extract(ctx, tmpPath, fileType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocumentText
	}

	documentID := "doc_" + s.newID()

	chunks, err := ChunkText(text, documentID, s.chunkCfg)
	if err != nil {
		return nil, err
	}

	uploadedAt := s.now().UTC().Format(time.RFC3339)
	docs := make([]domain.VectorDocument, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, domain.VectorDocument{
			ID:   chunk.VectorID(),
			Text: chunk.Text,
			Metadata: map[string]any{
				domain.MetaDocumentID:  chunk.DocumentID,
				domain.MetaFileName:    input.FileName,
				domain.MetaChunkIndex:  chunk.Index,
				domain.MetaTotalChunks: chunk.TotalChunks,
				domain.MetaUploadedAt:  uploadedAt,
			},
		})
	}

	if err := s.store.Upsert(ctx, domain.NamespaceUploadedDocuments, docs); err != nil {
		return nil, err
	}

	if s.archive != nil {
		if err := s.archiveOriginal(ctx, tmpPath, documentID, input.FileName, fileType); err != nil {
			// The chunks are already searchable; losing the archived
			// original is not worth failing the ingestion over.
			log.Printf("ingestion: failed to archive original for %s: %v", documentID, err)
		}
	}

	return &IngestResult{
		DocumentID:      documentID,
		ChunksProcessed: len(chunks),
		FileName:        input.FileName,
	}, nil
}

// Delete removes every chunk of a document from the uploaded-documents
// namespace and, when an archive is configured and the fileName is known,
// the archived original as well. Returns the number of chunks removed.
func (s *IngestionService) Delete(ctx context.Context, documentID, fileName string) (int64, error) {
	if documentID == "" {
		return 0, domain.ErrMissingDocumentID
	}

	ctx, span := telemetry.StartSpan(ctx, "IngestionService.Delete", telemetry.SpanAttributes{
		Namespace:  domain.NamespaceUploadedDocuments,
		DocumentID: documentID,
		Operation:  "delete",
	})
	defer span.End()

	removed, err := s.store.DeleteByDocumentID(ctx, domain.NamespaceUploadedDocuments, documentID)
	if err != nil {
		return 0, err
	}

	if s.archive != nil && fileName != "" {
		if err := s.archive.DeleteObject(ctx, ArchiveKey(documentID, fileName)); err != nil {
			// The chunks are gone either way; an orphaned archive object
			// is recoverable by hand.
			log.Printf("ingestion: failed to delete archived original for %s: %v", documentID, err)
		}
	}

	return removed, nil
}

func (s *IngestionService) archiveOriginal(ctx context.Context, path, documentID, fileName, fileType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := ArchiveKey(documentID, fileName)
	return s.archive.Store(ctx, key, f, contentTypeFor(fileType))
}

// ArchiveKey is the object-storage key for an ingested original.
func ArchiveKey(documentID, fileName string) string {
	return fmt.Sprintf("uploads/%s/%s", documentID, fileName)
}

func contentTypeFor(fileType string) string {
	switch fileType {
	case "pdf":
		return "application/pdf"
	case "txt":
		return "text/plain"
	case "md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}

func spoolToTempFile(r io.Reader, fileType string) (string, error) {
	f, err := os.CreateTemp("", "vishnu-upload-*."+fileType)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}
