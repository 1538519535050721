package admin

import (
	"context"
	"fmt"

	"github.com/gobuild-crm/vishnu/internal/config"
	"github.com/spf13/cobra"
)

// ClearNamespaceCmd returns the clear-namespace command
func ClearNamespaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-namespace <namespace>",
		Short: "Delete every record in a vector index namespace",
		Long:  "Irreversibly delete all vector records in the given namespace. Requires --yes to proceed.",
		Args:  cobra.ExactArgs(1),
		RunE:  runClearNamespace,
	}

	cmd.Flags().Bool("yes", false, "Confirm the deletion")

	return cmd
}

func runClearNamespace(cmd *cobra.Command, args []string) error {
	namespace := args[0]

	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		return fmt.Errorf("refusing to clear namespace %q without --yes", namespace)
	}

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

	if err := store.ClearNamespace(ctx, namespace); err != nil {
		return err
	}

	fmt.Printf("namespace %q cleared\n", namespace)
	return nil
}
