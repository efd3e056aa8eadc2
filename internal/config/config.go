package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/unbisgraph/unbisgraph/internal/crawler"
)

// Default configuration values.
// These are chosen for the public UN thesaurus service, which tolerates
// moderate request parallelism but has no published rate limits.
const (
	// DefaultConcurrency is the number of topic documents fetched in
	// parallel. The thesaurus serves small JSON-LD documents quickly, so
	// a modest pool keeps the crawl fast without hammering the service.
	DefaultConcurrency = 16

	// DefaultFetchTimeout applies to each individual document request.
	// Thesaurus documents are small; anything slower than this usually
	// indicates a service problem rather than a slow transfer.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultOutputPath is where the structured graph document is written
	// when no explicit path is given.
	DefaultOutputPath = "unbis_graph.json"

	// DefaultNeo4jDatabase is the database name used when the config does
	// not name one. "neo4j" is the default database on a stock server.
	DefaultNeo4jDatabase = "neo4j"

	// DefaultLanguage is the preferred display language for topic labels
	// in human-readable output.
	DefaultLanguage = "en"

	// AppName is the application name used for XDG directory paths.
	AppName = "unbisgraph"
)

// Config holds all configuration options for a crawl run.
// It is populated from defaults, then the optional YAML config file,
// then environment variables, and finally CLI flags, and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit. The Neo4j fields are the
// exception in spirit but stay flat so the YAML mapping is obvious.
type Config struct {
	// RootIDs are the thesaurus topic identifiers the crawl starts from.
	// When empty, the crawler discovers the top-level domains from the
	// categories page instead.
	RootIDs []string

	// Concurrency is the maximum number of in-flight document fetches.
	Concurrency int

	// FetchTimeout is the per-request timeout for document fetches.
	FetchTimeout time.Duration

	// BaseURL overrides the thesaurus endpoint. Intended for testing
	// against a local fixture server; empty means the public service.
	BaseURL string

	// CategoriesURL overrides the top-level categories page used for
	// seed discovery. Empty means the public service.
	CategoriesURL string

	// CrawlRelated controls whether related-topic references are
	// followed into new fetches. Edges are recorded either way.
	CrawlRelated bool

	// OutputPath is the destination for the structured graph document.
	// "-" writes to stdout.
	OutputPath string

	// MarkdownPath is the destination for the Markdown crawl summary.
	// Empty disables the summary.
	MarkdownPath string

	// Language is the preferred display language for topic labels in
	// the Markdown summary (one of the six official UN languages).
	Language string

	// Neo4jURI enables the graph database export when set, e.g.
	// "neo4j://localhost:7687". Empty disables the export.
	Neo4jURI string

	// Neo4jUsername and Neo4jPassword authenticate the database export.
	// They come from the config file or the environment, never flags,
	// so credentials stay out of shell history and process listings.
	Neo4jUsername string
	Neo4jPassword string

	// Neo4jDatabase is the target database name.
	Neo4jDatabase string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// SaveHistory indicates whether to record the crawl in the local
	// SQLite history database for later comparison.
	SaveHistory bool

	// HistoryDir is the directory for the history database. Empty means
	// the XDG data directory.
	HistoryDir string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .unbisgraph in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps service operators identify crawler
	// traffic in their logs.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the crawler default.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (concurrency, timeout,
// output path). This also serves as documentation of what the defaults
// are.
func NewConfig() *Config {
	return &Config{
		Concurrency:   DefaultConcurrency,
		FetchTimeout:  DefaultFetchTimeout,
		OutputPath:    DefaultOutputPath,
		Language:      DefaultLanguage,
		Neo4jDatabase: DefaultNeo4jDatabase,
		CrawlRelated:  true,
		UserAgent:     crawler.DefaultUserAgent,
		MaxBodySize:   crawler.DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for unbisgraph.
// On Linux: ~/.local/share/unbisgraph
// On macOS: ~/Library/Application Support/unbisgraph
// On Windows: %LOCALAPPDATA%\unbisgraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after flag parsing, before any
// network activity, and return the first error found rather than
// collecting all errors because fixing one often makes others
// irrelevant.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	for _, id := range c.RootIDs {
		if id == "" {
			return ErrEmptyRootID
		}
	}

	// Credentials are required once a database export is requested.
	if c.Neo4jURI != "" && (c.Neo4jUsername == "" || c.Neo4jPassword == "") {
		return ErrMissingNeo4jCredentials
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch c.Language {
	case "en", "fr", "es", "ru", "ar", "zh":
	default:
		return ErrUnsupportedLanguage
	}

	return nil
}
