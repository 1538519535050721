package main

import (
	"fmt"
	"os"

	"github.com/gobuild-crm/vishnu/internal/cli"
	"github.com/gobuild-crm/vishnu/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vishnud",
		Short: "Vishnu daemon and CLI",
		Long:  "Vishnu daemon for running the document assistant API server and managing the vector index",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.StatsCmd())
	rootCmd.AddCommand(admin.SeedKnowledgeCmd())
	rootCmd.AddCommand(admin.ClearNamespaceCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
