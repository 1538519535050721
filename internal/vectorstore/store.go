// Package vectorstore implements the namespaced vector index contract on
// Postgres with the pgvector extension. Records are keyed by
// (namespace, id); upserts are idempotent and replace in place.
package vectorstore

import (
	"context"
	"log"
	"sort"

	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"
)

// MaxUpsertBatchSize caps how many records go into one upsert round trip.
// Mirrors the embedding provider's batch limit.
const MaxUpsertBatchSize = 96

// EmbeddingClient generates a fixed-dimension vector for a text string.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Store manages namespaced upsert, query, and delete operations against
// the vector index, batching embedding calls and upserts.
type Store struct {
	pool     *pgxpool.Pool
	embedder EmbeddingClient
}

func New(pool *pgxpool.Pool, embedder EmbeddingClient) *Store {
	return &Store{pool: pool, embedder: embedder}
}

// Upsert embeds and stores the given documents in a namespace. Input is
// processed in batches of at most MaxUpsertBatchSize; embedding calls
// within a batch run concurrently, followed by a single batched write.
// Re-submitting an id replaces the prior record, which is what lets
// re-ingestion safely supersede old chunks.
func (s *Store) Upsert(ctx context.Context, namespace string, docs []domain.VectorDocument) error {
	for start := 0; start < len(docs); start += MaxUpsertBatchSize {
		end := start + MaxUpsertBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := s.upsertBatch(ctx, namespace, docs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertBatch(ctx context.Context, namespace string, docs []domain.VectorDocument) error {
	embeddings := make([][]float32, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			embedding, err := s.embedder.GenerateEmbedding(gctx, doc.Text)
			if err != nil {
				return domain.NewEmbeddingError(err)
			}
			embeddings[i] = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, doc := range docs {
		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		batch.Queue(
			`INSERT INTO vector_records (namespace, id, embedding, content, metadata)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (namespace, id) DO UPDATE
			 SET embedding = EXCLUDED.embedding,
			     content = EXCLUDED.content,
			     metadata = EXCLUDED.metadata,
			     updated_at = now()`,
			namespace,
			doc.ID,
			pgvector.NewVector(embeddings[i]),
			doc.Text,
			metadata,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range docs {
		if _, err := results.Exec(); err != nil {
			return domain.NewVectorStoreError("upsert", err)
		}
	}
	return nil
}

// Query embeds the query text and returns the topK nearest records in the
// namespace, descending by cosine similarity score.
func (s *Store) Query(ctx context.Context, namespace, queryText string, topK int) ([]domain.QueryResult, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, domain.NewEmbeddingError(err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, content, metadata, (1 - (embedding <=> $1))::float4 AS score
		 FROM vector_records
		 WHERE namespace = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(embedding), namespace, topK,
	)
	if err != nil {
		return nil, domain.NewVectorStoreError("query", err)
	}
	defer rows.Close()

	results := make([]domain.QueryResult, 0, topK)
	for rows.Next() {
		var result domain.QueryResult
		var score *float32
		if err := rows.Scan(&result.ID, &result.Text, &result.Metadata, &score); err != nil {
			return nil, domain.NewVectorStoreError("query", err)
		}
		if score != nil {
			result.Score = *score
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewVectorStoreError("query", err)
	}

	return results, nil
}

// QueryMultipleNamespaces fans the same query out across namespaces
// concurrently and merges the results. See QueryNamespaces.
func (s *Store) QueryMultipleNamespaces(ctx context.Context, namespaces []string, queryText string, topKPerNamespace int) ([]domain.QueryResult, error) {
	return QueryNamespaces(ctx, s, namespaces, queryText, topKPerNamespace)
}

// NamespaceQuerier is the single-namespace query operation QueryNamespaces
// fans out over.
type NamespaceQuerier interface {
	Query(ctx context.Context, namespace, queryText string, topK int) ([]domain.QueryResult, error)
}

// QueryNamespaces issues one query per namespace concurrently, so latency
// is bounded by the slowest namespace rather than the sum. A failure in
// one namespace is downgraded to zero results for that namespace; partial
// results from the rest are flattened and sorted by descending score.
func QueryNamespaces(ctx context.Context, querier NamespaceQuerier, namespaces []string, queryText string, topKPerNamespace int) ([]domain.QueryResult, error) {
	perNamespace := make([][]domain.QueryResult, len(namespaces))

	var g errgroup.Group
	for i, namespace := range namespaces {
		g.Go(func() error {
			results, err := querier.Query(ctx, namespace, queryText, topKPerNamespace)
			if err != nil {
				log.Printf("vectorstore: query against namespace %q failed, continuing with partial results: %v", namespace, err)
				return nil
			}
			perNamespace[i] = results
			return nil
		})
	}
	// Per-namespace errors are swallowed above, so Wait cannot fail.
	_ = g.Wait()

	var merged []domain.QueryResult
	for _, results := range perNamespace {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	return merged, nil
}

// DeleteByDocumentID removes every chunk of one document from a
// namespace and reports how many records were deleted.
func (s *Store) DeleteByDocumentID(ctx context.Context, namespace, documentID string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM vector_records WHERE namespace = $1 AND metadata->>'documentId' = $2`,
		namespace, documentID)
	if err != nil {
		return 0, domain.NewVectorStoreError("delete document", err)
	}
	return tag.RowsAffected(), nil
}

// DescribeStats reports total and per-namespace record counts.
func (s *Store) DescribeStats(ctx context.Context) (domain.IndexStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT namespace, count(*) FROM vector_records GROUP BY namespace`)
	if err != nil {
		return domain.IndexStats{}, domain.NewVectorStoreError("describe stats", err)
	}
	defer rows.Close()

	stats := domain.IndexStats{Namespaces: make(map[string]int64)}
	for rows.Next() {
		var namespace string
		var count int64
		if err := rows.Scan(&namespace, &count); err != nil {
			return domain.IndexStats{}, domain.NewVectorStoreError("describe stats", err)
		}
		stats.Namespaces[namespace] = count
		stats.TotalRecordCount += count
	}
	if err := rows.Err(); err != nil {
		return domain.IndexStats{}, domain.NewVectorStoreError("describe stats", err)
	}

	return stats, nil
}

// ClearNamespace irreversibly deletes every record in a namespace.
// Administrative operation only.
func (s *Store) ClearNamespace(ctx context.Context, namespace string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM vector_records WHERE namespace = $1`, namespace); err != nil {
		return domain.NewVectorStoreError("clear namespace", err)
	}
	return nil
}
