package service

import (
	"context"
	"fmt"
	"log"

	"github.com/gobuild-crm/vishnu/internal/domain"
)

// BootstrapVectorStore is the slice of the vector store the bootstrapper
// needs.
type BootstrapVectorStore interface {
	DescribeStats(ctx context.Context) (domain.IndexStats, error)
	Upsert(ctx context.Context, namespace string, docs []domain.VectorDocument) error
}

// KnowledgeBootstrapper idempotently seeds the default namespace with the
// static knowledge corpus on first use.
type KnowledgeBootstrapper struct {
	store BootstrapVectorStore
	items []domain.KnowledgeItem
}

func NewKnowledgeBootstrapper(store BootstrapVectorStore, items []domain.KnowledgeItem) *KnowledgeBootstrapper {
	return &KnowledgeBootstrapper{
		store: store,
		items: items,
	}
}

// EnsureInitialized seeds the default namespace if it is empty and no-ops
// otherwise. Prior seeding is treated as complete and permanent: corpus
// edits after first deployment do not reach the index without an explicit
// clear-and-reseed.
//
// The check-then-act sequence is not guarded against concurrent callers.
// Two first-queries racing here can both seed, but record ids are stable
// and upsert replaces in place, so duplicate seeding is harmless.
func (b *KnowledgeBootstrapper) EnsureInitialized(ctx context.Context) error {
	stats, err := b.store.DescribeStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to check knowledge base state: %w", err)
	}

	if count := stats.NamespaceCount(domain.NamespaceDefault); count > 0 {
		return nil
	}

	log.Printf("bootstrap: seeding knowledge base with %d items", len(b.items))

	docs := make([]domain.VectorDocument, 0, len(b.items))
	for _, item := range b.items {
		docs = append(docs, domain.VectorDocument{
			ID:   item.ID,
			Text: item.Content,
			Metadata: map[string]any{
				domain.MetaCategory: item.Category,
				domain.MetaSource:   domain.KnowledgeSource,
			},
		})
	}

	if err := b.store.Upsert(ctx, domain.NamespaceDefault, docs); err != nil {
		return fmt.Errorf("failed to seed knowledge base: %w", err)
	}

	log.Printf("bootstrap: knowledge base seeded with %d items", len(docs))
	return nil
}
