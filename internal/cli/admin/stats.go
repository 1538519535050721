package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gobuild-crm/vishnu/internal/config"
	"github.com/gobuild-crm/vishnu/internal/database"
	"github.com/gobuild-crm/vishnu/internal/vectorstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector index statistics",
		Long:  "Print total and per-namespace record counts for the vector index",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	stats, err := store.DescribeStats(ctx)
	if err != nil {
		return err
	}

	output := map[string]any{
		"index":            cfg.VectorIndex,
		"totalRecordCount": stats.TotalRecordCount,
		"namespaces":       stats.Namespaces,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// openStore connects to the database and returns a store without an
// embedding client. Suitable for admin operations that never embed.
func openStore(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *vectorstore.Store, error) {
	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}

	return pool, vectorstore.New(pool, nil), nil
}
