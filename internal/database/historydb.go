package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// HistoryDB provides SQLite-based storage for past crawl runs.
// Each run stores its statistics plus the full graph document, so older
// snapshots of the thesaurus can be reloaded or compared later.
//
// Design decision: We store the graph as a JSON column rather than
// normalizing nodes and edges into tables. The graph is always written
// and read as a whole, and keeping the document intact means the stored
// bytes round-trip exactly through the same encoder the file export uses.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "unbisgraph.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and the history store is written
	// once per run, so a single connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Crawl runs store per-run statistics plus the full graph document
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		roots TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		fetch_errors INTEGER NOT NULL DEFAULT 0,
		parse_errors INTEGER NOT NULL DEFAULT 0,
		graph_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawl records a finished crawl run, including its graph document.
// It returns the database ID of the new row.
func (hdb *HistoryDB) SaveCrawl(ctx context.Context, result *model.CrawlResult) (int64, error) {
	graphJSON, err := json.Marshal(result.Graph)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize graph: %w", err)
	}
	rootsJSON, err := json.Marshal(result.RootIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize roots: %w", err)
	}

	query := `
	INSERT INTO crawl_runs (started_at, finished_at, roots, node_count, edge_count, fetch_errors, parse_errors, graph_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		result.StartedAt.UTC().Format(time.RFC3339),
		result.FinishedAt.UTC().Format(time.RFC3339),
		string(rootsJSON),
		result.Stats.NodesDiscovered,
		result.Stats.EdgesDiscovered,
		result.Stats.FetchErrors,
		result.Stats.ParseErrors,
		string(graphJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save crawl run: %w", err)
	}

	return res.LastInsertId()
}

// CrawlRunMetadata contains summary information about a stored run.
// This is used for displaying history without loading the full graph.
type CrawlRunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Roots are the topic identifiers the run started from.
	Roots []model.TopicID

	// NodeCount and EdgeCount are the sizes of the stored graph.
	NodeCount int
	EdgeCount int

	// FetchErrors and ParseErrors count the topics lost during the run.
	FetchErrors int
	ParseErrors int
}

// RecentCrawls retrieves metadata for the most recent runs, newest first.
// A limit of 0 or less returns all runs.
func (hdb *HistoryDB) RecentCrawls(ctx context.Context, limit int) ([]CrawlRunMetadata, error) {
	query := `
	SELECT id, started_at, finished_at, roots, node_count, edge_count, fetch_errors, parse_errors
	FROM crawl_runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl runs: %w", err)
	}
	defer rows.Close()

	var results []CrawlRunMetadata
	for rows.Next() {
		var meta CrawlRunMetadata
		var started, finished, rootsJSON string

		if err := rows.Scan(
			&meta.ID,
			&started,
			&finished,
			&rootsJSON,
			&meta.NodeCount,
			&meta.EdgeCount,
			&meta.FetchErrors,
			&meta.ParseErrors,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}

		meta.StartedAt = parseTimestamp(started)
		meta.FinishedAt = parseTimestamp(finished)
		if rootsJSON != "" {
			if err := json.Unmarshal([]byte(rootsJSON), &meta.Roots); err != nil {
				return nil, fmt.Errorf("failed to parse roots: %w", err)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GraphByID retrieves the graph document stored for a specific run.
// It returns nil without error when the run does not exist.
func (hdb *HistoryDB) GraphByID(ctx context.Context, id int64) (*model.Graph, error) {
	query := `
	SELECT graph_json FROM crawl_runs
	WHERE id = ?
	`

	var graphJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&graphJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl run: %w", err)
	}

	return decodeGraph(graphJSON)
}

// LatestGraph retrieves the graph document from the most recent run.
// It returns nil without error when the history is empty.
func (hdb *HistoryDB) LatestGraph(ctx context.Context) (*model.Graph, error) {
	query := `
	SELECT graph_json FROM crawl_runs
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`

	var graphJSON string
	err := hdb.db.QueryRowContext(ctx, query).Scan(&graphJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest crawl run: %w", err)
	}

	return decodeGraph(graphJSON)
}

func decodeGraph(graphJSON string) (*model.Graph, error) {
	var g model.Graph
	if err := json.Unmarshal([]byte(graphJSON), &g); err != nil {
		return nil, fmt.Errorf("failed to parse stored graph: %w", err)
	}
	g.Sort()
	return &g, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // Format used by SaveCrawl
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
