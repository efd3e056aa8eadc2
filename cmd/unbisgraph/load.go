package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unbisgraph/unbisgraph/internal/config"
	"github.com/unbisgraph/unbisgraph/internal/export"
	"github.com/unbisgraph/unbisgraph/internal/log"
	"github.com/unbisgraph/unbisgraph/internal/model"
)

// NewLoadCmd creates the load command.
func NewLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <graph-document>",
		Short: "Load a previously exported graph document into Neo4j",
		Long: `Load reads a graph document produced by 'unbisgraph crawl' and bulk-loads
it into a Neo4j database, without re-crawling the thesaurus.

The load uses MERGE semantics, so repeating it against the same database
updates topics in place instead of duplicating them.

Credentials come from the configuration file or the NEO4J_USERNAME and
NEO4J_PASSWORD environment variables, never from flags.

Examples:
  # Load into the database configured in .unbisgraph
  unbisgraph load unbis_graph.json

  # Load into an explicit server and database
  unbisgraph load --neo4j neo4j://localhost:7687 --database unbis unbis_graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: runLoadCmd,
	}

	cmd.Flags().String("neo4j", "",
		"Neo4j URI to load into (overrides the config file)")
	cmd.Flags().String("database", "",
		"Target database name (overrides the config file)")
	cmd.Flags().Int("batch-size", export.DefaultNeo4jBatchSize,
		"Number of records per write statement")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .unbisgraph in current or home directory)")

	return cmd
}

// runLoadCmd executes the load command.
func runLoadCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildLoadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Neo4jURI == "" {
		return fmt.Errorf("no Neo4j URI configured: set --neo4j, the config file, or NEO4J_URI")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runLoad(ctx, cmd, cfg, args[0], logger)
}

// buildLoadConfig layers defaults, the config file, the environment, and
// the load command's flags.
func buildLoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.ApplyEnvironment()

	if cmd.Flags().Changed("neo4j") {
		if cfg.Neo4jURI, err = cmd.Flags().GetString("neo4j"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("database") {
		if cfg.Neo4jDatabase, err = cmd.Flags().GetString("database"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runLoad reads the graph document and bulk-loads it into Neo4j.
func runLoad(ctx context.Context, cmd *cobra.Command, cfg *config.Config, path string, logger *slog.Logger) error {
	g, err := loadDocument(path)
	if err != nil {
		return err
	}

	batchSize, err := cmd.Flags().GetInt("batch-size")
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loading %d topics and %d relations into %s...\n",
		len(g.Nodes), len(g.Edges), cfg.Neo4jURI)

	exporter := export.NewNeo4jExporter(cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword,
		export.WithDatabase(cfg.Neo4jDatabase),
		export.WithBatchSize(batchSize),
		export.WithNeo4jLogger(logger),
	)

	if err := exporter.LoadGraph(ctx, g); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Load complete")
	return nil
}

// loadDocument reads a graph document from disk.
func loadDocument(path string) (*model.Graph, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided document path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open graph document: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	g, err := export.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph document %s: %w", path, err)
	}
	return g, nil
}
