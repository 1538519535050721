package domain

import "fmt"

// Namespace names recognized by the retrieval pipeline. Namespaces are
// isolated partitions of the vector index: a query against one never
// returns records from another unless both are in the fan-out set.
const (
	// NamespaceDefault holds the static construction knowledge corpus.
	NamespaceDefault = "default"
	// NamespaceUploadedDocuments holds chunks of user-submitted material.
	NamespaceUploadedDocuments = "uploaded_documents"
)

// KnowledgeSource is the metadata marker identifying records seeded from
// the static construction knowledge corpus.
const KnowledgeSource = "construction_knowledge_base"

// Metadata keys stored alongside every vector record.
const (
	MetaDocumentID  = "documentId"
	MetaFileName    = "fileName"
	MetaChunkIndex  = "chunkIndex"
	MetaTotalChunks = "totalChunks"
	MetaUploadedAt  = "uploadedAt"
	MetaCategory    = "category"
	MetaSource      = "source"
)

// Chunk is a contiguous text window derived from a document. Indices are
// dense (0..TotalChunks-1) and TotalChunks is identical across all chunks
// of one document.
type Chunk struct {
	Text        string
	DocumentID  string
	Index       int
	TotalChunks int
}

// VectorID derives the deterministic vector-record identifier for this
// chunk. Re-ingesting a document produces the same ids, so upserts
// supersede prior chunks in place.
func (c Chunk) VectorID() string {
	return fmt.Sprintf("%s_chunk_%d", c.DocumentID, c.Index)
}

// VectorDocument is the unit submitted to the vector store for upsert.
// The text is embedded by the store and kept as metadata so queries can
// return it without a separate lookup.
type VectorDocument struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// QueryResult is one similarity-search match. Produced fresh per query,
// never persisted.
type QueryResult struct {
	ID       string
	Score    float32
	Metadata map[string]any
	Text     string
}

// FileName returns the uploaded-document filename from metadata, or ""
// for records without document provenance.
func (r QueryResult) FileName() string {
	name, _ := r.Metadata[MetaFileName].(string)
	return name
}

// IsKnowledge reports whether the record was seeded from the static
// knowledge corpus.
func (r QueryResult) IsKnowledge() bool {
	source, _ := r.Metadata[MetaSource].(string)
	return source == KnowledgeSource
}

// KnowledgeItem is a static, hand-authored fact record. The corpus is
// fixed at build time and seeded into the default namespace exactly once.
type KnowledgeItem struct {
	ID       string
	Content  string
	Category string
}

// IndexStats describes the vector index contents, used by the knowledge
// bootstrapper to decide whether seeding is needed.
type IndexStats struct {
	TotalRecordCount int64
	Namespaces       map[string]int64
}

// NamespaceCount returns the record count for a namespace, zero when the
// namespace has never been written.
func (s IndexStats) NamespaceCount(namespace string) int64 {
	if s.Namespaces == nil {
		return 0
	}
	return s.Namespaces[namespace]
}
