package database

import (
	"context"
	"testing"
	"time"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

func testResult(started time.Time) *model.CrawlResult {
	g := &model.Graph{
		Name: "UNBIS Thesaurus",
		Nodes: []model.Topic{
			{
				ID:      "01",
				URL:     "http://metadata.un.org/thesaurus/01",
				Cluster: "01",
				Type:    model.NodeTypeMetaTopic,
				Labels:  map[string]string{"en": "POLITICAL AND LEGAL QUESTIONS"},
			},
			{
				ID:      "010100",
				URL:     "http://metadata.un.org/thesaurus/010100",
				Cluster: "01",
				Type:    model.NodeTypeTopic,
				Labels:  map[string]string{"en": "Peace"},
			},
		},
		Edges: []model.Edge{
			{Source: "01", Target: "010100", Type: model.EdgeTypeHasSubtopic},
		},
		Clusters: model.KnownClusters,
	}
	g.Sort()

	return &model.CrawlResult{
		Graph:      g,
		RootIDs:    []model.TopicID{"01"},
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Stats: model.Stats{
			NodesDiscovered: 2,
			EdgesDiscovered: 1,
			FetchErrors:     1,
		},
	}
}

// TestOpenCreatesDatabase tests directory and file creation.
func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := hdb.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// TestOpenRequiresExisting tests the CreateIfNotExists=false path.
func TestOpenRequiresExisting(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error for missing database")
	}
}

// TestSaveAndLoadCrawl tests the full save, list, and reload cycle.
func TestSaveAndLoadCrawl(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer hdb.Close() //nolint:errcheck

	ctx := context.Background()
	started := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	result := testResult(started)

	id, err := hdb.SaveCrawl(ctx, result)
	if err != nil {
		t.Fatalf("SaveCrawl() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveCrawl() id = %d, want positive", id)
	}

	runs, err := hdb.RecentCrawls(ctx, 10)
	if err != nil {
		t.Fatalf("RecentCrawls() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentCrawls() returned %d runs, want 1", len(runs))
	}

	meta := runs[0]
	if meta.ID != id {
		t.Errorf("ID = %d, want %d", meta.ID, id)
	}
	if meta.NodeCount != 2 || meta.EdgeCount != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", meta.NodeCount, meta.EdgeCount)
	}
	if meta.FetchErrors != 1 {
		t.Errorf("FetchErrors = %d, want 1", meta.FetchErrors)
	}
	if !meta.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", meta.StartedAt, started)
	}
	if len(meta.Roots) != 1 || meta.Roots[0] != "01" {
		t.Errorf("Roots = %v, want [01]", meta.Roots)
	}

	g, err := hdb.GraphByID(ctx, id)
	if err != nil {
		t.Fatalf("GraphByID() error = %v", err)
	}
	if g == nil || !g.Equal(result.Graph) {
		t.Error("stored graph does not round-trip")
	}
}

// TestLatestGraph tests that the newest run wins.
func TestLatestGraph(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer hdb.Close() //nolint:errcheck

	ctx := context.Background()

	if g, err := hdb.LatestGraph(ctx); err != nil || g != nil {
		t.Errorf("LatestGraph() on empty history = (%v, %v), want (nil, nil)", g, err)
	}

	older := testResult(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := testResult(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	newer.Graph.Nodes = newer.Graph.Nodes[:1]
	newer.Graph.Edges = nil
	newer.Stats.NodesDiscovered = 1
	newer.Stats.EdgesDiscovered = 0

	if _, err := hdb.SaveCrawl(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := hdb.SaveCrawl(ctx, newer); err != nil {
		t.Fatal(err)
	}

	g, err := hdb.LatestGraph(ctx)
	if err != nil {
		t.Fatalf("LatestGraph() error = %v", err)
	}
	if g == nil || len(g.Nodes) != 1 {
		t.Errorf("LatestGraph() returned the wrong run: %+v", g)
	}
}

// TestGraphByIDMissing tests the no-rows path.
func TestGraphByIDMissing(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer hdb.Close() //nolint:errcheck

	g, err := hdb.GraphByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GraphByID() error = %v", err)
	}
	if g != nil {
		t.Errorf("GraphByID() = %+v, want nil", g)
	}
}
