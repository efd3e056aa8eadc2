package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// TestMarkdownExporterSummary tests that the summary mentions the crawl
// counts, the domain breakdown, and the highest-degree topics.
func TestMarkdownExporterSummary(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	result := &model.CrawlResult{
		Graph:      testGraph(),
		RootIDs:    []model.TopicID{"01"},
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Second),
		Stats: model.Stats{
			NodesDiscovered: 2,
			EdgesDiscovered: 2,
		},
	}

	path := filepath.Join(t.TempDir(), "summary.md")
	e := NewMarkdownExporter(path, WithTopN(5), WithLanguage("en"))
	if e.Name() != "markdown" {
		t.Errorf("unexpected name %q", e.Name())
	}
	if err := e.Export(context.Background(), result); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected summary file: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		"POLITICAL AND LEGAL QUESTIONS",
		"Peace",
		"2", // node count
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected summary to contain %q\n%s", want, got)
		}
	}
}

// TestStatusText tests the complete/partial distinction.
func TestStatusText(t *testing.T) {
	t.Parallel()

	clean := &model.CrawlResult{Graph: testGraph()}
	if s := statusText(clean); strings.Contains(s, "Partial") {
		t.Errorf("expected complete status, got %q", s)
	}

	partial := &model.CrawlResult{
		Graph: testGraph(),
		Stats: model.Stats{FetchErrors: 3},
	}
	if s := statusText(partial); !strings.Contains(s, "Partial") {
		t.Errorf("expected partial status, got %q", s)
	}
}
