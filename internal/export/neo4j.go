package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// Cypher statements for the bulk load. Nodes are merged by identifier
// so repeated loads are idempotent; HAS_SUBTOPIC relationships are
// directed, RELATED_TO is symmetric and merged undirected, matching
// the thesaurus semantics.
const (
	cypherMergeNodes = `
UNWIND $nodes AS node
MERGE (t:Topic {id: node.id})
SET t.url = node.url,
    t.cluster = node.cluster,
    t.nodeType = node.node_type,
    t.labelEn = node.label_en,
    t.labelAr = node.label_ar,
    t.labelEs = node.label_es,
    t.labelFr = node.label_fr,
    t.labelRu = node.label_ru,
    t.labelZh = node.label_zh`

	cypherMergeSubtopicEdges = `
UNWIND $edges AS edge
MATCH (source:Topic {id: edge.source})
MERGE (target:Topic {id: edge.target})
MERGE (source)-[:HAS_SUBTOPIC]->(target)`

	cypherMergeRelatedEdges = `
UNWIND $edges AS edge
MATCH (source:Topic {id: edge.source})
MERGE (target:Topic {id: edge.target})
MERGE (source)-[:RELATED_TO]-(target)`
)

// DefaultNeo4jBatchSize is how many nodes or edges one UNWIND statement
// carries. Batching keeps transactions small enough for default server
// memory limits while avoiding per-record round trips.
const DefaultNeo4jBatchSize = 500

// Neo4jExporter bulk-loads the crawl result into a Neo4j database.
//
// Edges whose target was never fetched still produce a Topic node in
// the database: the MERGE on the target creates an id-only node, which
// mirrors the documented crawl policy of keeping inbound edges to
// failed topics.
type Neo4jExporter struct {
	// uri is the bolt connection endpoint, e.g. "neo4j://localhost:7687".
	uri string

	// username and password authenticate against the database.
	username string
	password string

	// database is the target database name; empty uses the server default.
	database string

	// batchSize is the number of records per UNWIND statement.
	batchSize int

	// workers bounds the number of concurrent batch writes.
	workers int

	// logger receives progress events.
	logger *slog.Logger
}

// Neo4jOption configures a Neo4jExporter.
type Neo4jOption func(*Neo4jExporter)

// WithDatabase selects a target database other than the server default.
func WithDatabase(name string) Neo4jOption {
	return func(e *Neo4jExporter) {
		e.database = name
	}
}

// WithBatchSize sets the number of records per UNWIND statement.
func WithBatchSize(n int) Neo4jOption {
	return func(e *Neo4jExporter) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithWorkers bounds concurrent batch writes. Default is 4.
func WithWorkers(n int) Neo4jOption {
	return func(e *Neo4jExporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithNeo4jLogger sets a custom logger.
func WithNeo4jLogger(logger *slog.Logger) Neo4jOption {
	return func(e *Neo4jExporter) {
		e.logger = logger
	}
}

// NewNeo4jExporter creates a Neo4jExporter for the given endpoint.
func NewNeo4jExporter(uri, username, password string, opts ...Neo4jOption) *Neo4jExporter {
	e := &Neo4jExporter{
		uri:       uri,
		username:  username,
		password:  password,
		batchSize: DefaultNeo4jBatchSize,
		workers:   4,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Name implements Exporter.
func (e *Neo4jExporter) Name() string { return "neo4j" }

// Export implements Exporter.
func (e *Neo4jExporter) Export(ctx context.Context, result *model.CrawlResult) error {
	return e.LoadGraph(ctx, result.Graph)
}

// LoadGraph bulk-loads a graph into the database. Nodes are written
// first so that edge MATCH clauses find their sources; node batches run
// concurrently, then edge batches.
func (e *Neo4jExporter) LoadGraph(ctx context.Context, g *model.Graph) error {
	driver, err := neo4j.NewDriverWithContext(e.uri, neo4j.BasicAuth(e.username, e.password, ""))
	if err != nil {
		return fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	defer driver.Close(ctx) //nolint:errcheck // Best-effort close after load

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to neo4j at %s: %w", e.uri, err)
	}

	e.logger.Info("loading graph into neo4j",
		"uri", e.uri,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
	)

	if err := e.loadNodes(ctx, driver, g.Nodes); err != nil {
		return err
	}
	if err := e.loadEdges(ctx, driver, g.Edges); err != nil {
		return err
	}

	e.logger.Info("neo4j load complete")
	return nil
}

// loadNodes merges all topic nodes in concurrent batches.
func (e *Neo4jExporter) loadNodes(ctx context.Context, driver neo4j.DriverWithContext, nodes []model.Topic) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.workers)

	for start := 0; start < len(nodes); start += e.batchSize {
		batch := nodes[start:min(start+e.batchSize, len(nodes))]
		grp.Go(func() error {
			params := make([]map[string]any, 0, len(batch))
			for _, n := range batch {
				params = append(params, map[string]any{
					"id":        string(n.ID),
					"url":       n.URL,
					"cluster":   n.Cluster,
					"node_type": string(n.Type),
					"label_en":  n.Labels["en"],
					"label_ar":  n.Labels["ar"],
					"label_es":  n.Labels["es"],
					"label_fr":  n.Labels["fr"],
					"label_ru":  n.Labels["ru"],
					"label_zh":  n.Labels["zh"],
				})
			}
			return e.run(ctx, driver, cypherMergeNodes, map[string]any{"nodes": params})
		})
	}
	return grp.Wait()
}

// loadEdges merges all relationships in concurrent batches, split by
// relationship type because the Cypher differs.
func (e *Neo4jExporter) loadEdges(ctx context.Context, driver neo4j.DriverWithContext, edges []model.Edge) error {
	byQuery := map[string][]model.Edge{}
	for _, edge := range edges {
		query := cypherMergeSubtopicEdges
		if edge.Type == model.EdgeTypeRelatedTo {
			query = cypherMergeRelatedEdges
		}
		byQuery[query] = append(byQuery[query], edge)
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.workers)

	for query, typed := range byQuery {
		for start := 0; start < len(typed); start += e.batchSize {
			batch := typed[start:min(start+e.batchSize, len(typed))]
			grp.Go(func() error {
				params := make([]map[string]any, 0, len(batch))
				for _, edge := range batch {
					params = append(params, map[string]any{
						"source": string(edge.Source),
						"target": string(edge.Target),
					})
				}
				return e.run(ctx, driver, query, map[string]any{"edges": params})
			})
		}
	}
	return grp.Wait()
}

// run executes one write statement against the configured database.
func (e *Neo4jExporter) run(ctx context.Context, driver neo4j.DriverWithContext, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database),
	)
	if err != nil {
		return fmt.Errorf("neo4j statement failed: %w", err)
	}
	return nil
}
