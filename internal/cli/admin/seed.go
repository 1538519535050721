package admin

import (
	"context"
	"fmt"

	"github.com/gobuild-crm/vishnu/internal/config"
	"github.com/gobuild-crm/vishnu/internal/domain"
	"github.com/gobuild-crm/vishnu/internal/knowledge"
	"github.com/gobuild-crm/vishnu/internal/openai"
	"github.com/gobuild-crm/vishnu/internal/service"
	"github.com/gobuild-crm/vishnu/internal/vectorstore"
	"github.com/spf13/cobra"
)

// SeedKnowledgeCmd returns the seed-knowledge command
func SeedKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-knowledge",
		Short: "Seed the static construction knowledge corpus",
		Long: "Embed and upsert the built-in construction knowledge corpus into the default namespace. " +
			"A no-op when the namespace already holds records unless --force is given.",
		RunE: runSeedKnowledge,
	}

	cmd.Flags().Bool("force", false, "Re-upsert the corpus even if the namespace is already seeded")

	return cmd
}

func runSeedKnowledge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return domain.ErrMissingOpenAIKey
	}

	pool, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := vectorstore.New(pool, openai.NewClient(cfg.OpenAIAPIKey))
	items := knowledge.Corpus()

	force, _ := cmd.Flags().GetBool("force")
	if force {
		// Item ids are stable, so a forced run replaces records in place
		// and picks up corpus edits.
		docs := make([]domain.VectorDocument, 0, len(items))
		for _, item := range items {
			docs = append(docs, domain.VectorDocument{
				ID:   item.ID,
				Text: item.Content,
				Metadata: map[string]any{
					domain.MetaCategory: item.Category,
					domain.MetaSource:   domain.KnowledgeSource,
				},
			})
		}
		if err := store.Upsert(ctx, domain.NamespaceDefault, docs); err != nil {
			return fmt.Errorf("failed to seed knowledge base: %w", err)
		}
		fmt.Printf("seeded %d knowledge items (forced)\n", len(docs))
		return nil
	}

	bootstrapper := service.NewKnowledgeBootstrapper(store, items)
	if err := bootstrapper.EnsureInitialized(ctx); err != nil {
		return err
	}

	fmt.Println("knowledge base is seeded")
	return nil
}
