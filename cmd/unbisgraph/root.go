// Package main provides the entry point for the unbisgraph CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for unbisgraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unbisgraph",
		Short: "Build a topic graph from the UNBIS Thesaurus",
		Long: `unbisgraph crawls the UNBIS Thesaurus, the United Nations multilingual
subject vocabulary, and builds a directed topic graph.

The graph can be written as a structured JSON document, summarized as
Markdown, and bulk-loaded into a Neo4j database. Each crawl is recorded
in a local history database so older snapshots can be reloaded later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewLoadCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
