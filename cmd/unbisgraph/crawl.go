package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unbisgraph/unbisgraph/internal/config"
	"github.com/unbisgraph/unbisgraph/internal/crawler"
	"github.com/unbisgraph/unbisgraph/internal/database"
	"github.com/unbisgraph/unbisgraph/internal/export"
	"github.com/unbisgraph/unbisgraph/internal/graph"
	"github.com/unbisgraph/unbisgraph/internal/log"
	"github.com/unbisgraph/unbisgraph/internal/model"
)

// graphName is the name written into exported graph documents.
const graphName = "UNBIS Thesaurus"

// progressInterval is how often a verbose crawl logs its running
// counters.
const progressInterval = 5 * time.Second

// errPartialCrawl reports a crawl that finished with per-topic fetch or
// parse errors. The partial graph is still exported and saved; the
// nonzero exit lets callers tell a complete crawl from a usable but
// incomplete one.
var errPartialCrawl = errors.New("crawl completed with errors")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the UNBIS Thesaurus and build the topic graph",
		Long: `Crawl walks the UNBIS Thesaurus topic hierarchy, fetching each topic's
SKOS document exactly once and recording subtopic and related-topic
relations as graph edges.

Without --root, the crawler discovers the top-level domains from the
thesaurus categories page and starts from all of them.

Examples:
  # Crawl the full thesaurus
  unbisgraph crawl

  # Crawl only two domains with higher parallelism
  unbisgraph crawl --root 01 --root 02 -n 32

  # Write the graph document and a Markdown summary
  unbisgraph crawl -o graph.json -m summary.md

  # Crawl and load straight into Neo4j (credentials from config or env)
  unbisgraph crawl --neo4j neo4j://localhost:7687

Configuration file (.unbisgraph) example:
  concurrency: 16
  neo4j:
    uri: neo4j://localhost:7687
    username: neo4j
    password: secret`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringArrayP("root", "r", nil,
		"Topic identifier to start from (repeatable; default: discover from categories page)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of documents fetched in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each document fetch")
	cmd.Flags().Bool("no-related", false,
		"Record related-topic edges without fetching the related topics")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Output path for the graph document (\"-\" for stdout)")
	cmd.Flags().StringP("markdown", "m", "",
		"Write a Markdown crawl summary to the specified path")
	cmd.Flags().StringP("language", "l", config.DefaultLanguage,
		"Preferred label language for the summary (en, fr, es, ru, ar, zh)")
	cmd.Flags().String("neo4j", "",
		"Neo4j URI to load the graph into (credentials come from config or environment)")

	// Configuration and history flags
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .unbisgraph in current or home directory)")
	cmd.Flags().Bool("no-save", false,
		"Skip recording this crawl in the local history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation stops new fetches; the partial graph is still exported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config layered from defaults, the config file,
// the environment, and finally CLI flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently continue with defaults.
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

	// Flags override the file and environment, but only when set.
	if cmd.Flags().Changed("root") {
		if cfg.RootIDs, err = cmd.Flags().GetStringArray("root"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("no-related") {
		noRelated, err := cmd.Flags().GetBool("no-related")
		if err != nil {
			return nil, err
		}
		cfg.CrawlRelated = !noRelated
	}
	if cmd.Flags().Changed("output") {
		if cfg.OutputPath, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("markdown") {
		if cfg.MarkdownPath, err = cmd.Flags().GetString("markdown"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("language") {
		if cfg.Language, err = cmd.Flags().GetString("language"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("neo4j") {
		if cfg.Neo4jURI, err = cmd.Flags().GetString("neo4j"); err != nil {
			return nil, err
		}
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noSave
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runCrawl executes the crawl and exports the result.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	fetcherOpts := []crawler.HTTPFetcherOption{
		crawler.WithTimeout(cfg.FetchTimeout),
		crawler.WithUserAgent(cfg.UserAgent),
	}
	if cfg.BaseURL != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxBodySize > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	fetcher := crawler.NewHTTPFetcher(nil, fetcherOpts...)

	roots := make([]model.TopicID, 0, len(cfg.RootIDs))
	for _, id := range cfg.RootIDs {
		roots = append(roots, model.TopicID(id))
	}

	if len(roots) == 0 {
		logger.Info("discovering crawl roots from categories page")
		discovered, err := crawler.DiscoverSeeds(ctx, fetcher, cfg.CategoriesURL)
		if err != nil {
			return fmt.Errorf("failed to discover crawl roots: %w", err)
		}
		roots = discovered
		logger.Info("discovered roots", "count", len(roots))
	}

	store := graph.NewStore(graphName)
	c := crawler.New(fetcher, store, crawlerOptions(cfg, logger)...)

	fmt.Fprintf(cmd.OutOrStdout(), "Crawling %d roots (concurrency: %d)...\n", len(roots), cfg.Concurrency)
	startTime := time.Now()

	result, err := c.Crawl(ctx, roots)
	if err != nil && result == nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	if err != nil {
		// Cancellation or partial root failure still yields a usable
		// graph; report it and keep exporting what we have.
		logger.Warn("crawl interrupted", "error", err)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(cmd.OutOrStdout(), "Crawl finished in %s: %d topics, %d relations\n",
		elapsed.Round(time.Millisecond),
		result.Stats.NodesDiscovered,
		result.Stats.EdgesDiscovered,
	)
	if result.Partial() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d topics could not be fetched or parsed; the graph is partial\n",
			result.Stats.Errors())
	}

	if exportErr := exportResult(ctx, cfg, result, logger); exportErr != nil {
		return exportErr
	}

	if cfg.SaveHistory {
		if saveErr := saveCrawl(ctx, cfg, result, logger); saveErr != nil {
			logger.Error("failed to save crawl history", "error", saveErr)
		}
	}

	if err != nil {
		return err
	}
	if result.Partial() {
		return fmt.Errorf("%w: %d topics failed to fetch or parse",
			errPartialCrawl, result.Stats.Errors())
	}
	return nil
}

// crawlerOptions translates the command configuration into crawler
// options. Verbose runs get the periodic progress signal in addition to
// debug-level logging.
func crawlerOptions(cfg *config.Config, logger *slog.Logger) []crawler.Option {
	opts := []crawler.Option{
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithLogger(logger),
		crawler.WithCrawlRelated(cfg.CrawlRelated),
	}
	if cfg.Verbose {
		opts = append(opts, crawler.WithProgressInterval(progressInterval))
	}
	return opts
}

// exportResult writes the crawl result to every configured destination.
func exportResult(ctx context.Context, cfg *config.Config, result *model.CrawlResult, logger *slog.Logger) error {
	multi := export.NewMulti(export.NewJSONExporter(cfg.OutputPath, export.WithPrettyPrint()))

	if cfg.MarkdownPath != "" {
		multi.Add(export.NewMarkdownExporter(cfg.MarkdownPath, export.WithLanguage(cfg.Language)))
	}

	if cfg.Neo4jURI != "" {
		multi.Add(export.NewNeo4jExporter(cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword,
			export.WithDatabase(cfg.Neo4jDatabase),
			export.WithNeo4jLogger(logger),
		))
	}

	return multi.Export(ctx, result)
}

// saveCrawl records the run in the local history database.
func saveCrawl(ctx context.Context, cfg *config.Config, result *model.CrawlResult, logger *slog.Logger) error {
	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort cleanup

	id, err := db.SaveCrawl(ctx, result)
	if err != nil {
		return err
	}

	logger.Info("crawl saved to history", "id", id, "dir", cfg.HistoryDir)
	return nil
}
