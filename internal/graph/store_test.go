package graph

import (
	"sync"
	"testing"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// TestStoreAddNode tests idempotent node insertion.
func TestStoreAddNode(t *testing.T) {
	t.Parallel()

	t.Run("first writer wins for labels", func(t *testing.T) {
		t.Parallel()

		s := NewStore("test")
		s.AddNode(model.Topic{ID: "010100", Labels: map[string]string{"en": "First"}})
		s.AddNode(model.Topic{ID: "010100", Labels: map[string]string{"en": "Second"}})

		g := s.Snapshot()
		if len(g.Nodes) != 1 {
			t.Fatalf("expected 1 node, got %d", len(g.Nodes))
		}
		if got := g.Nodes[0].Labels["en"]; got != "First" {
			t.Errorf("expected first writer's label, got %q", got)
		}
	})

	t.Run("distinct identifiers accumulate", func(t *testing.T) {
		t.Parallel()

		s := NewStore("test")
		s.AddNode(model.Topic{ID: "01"})
		s.AddNode(model.Topic{ID: "02"})
		if s.NodeCount() != 2 {
			t.Errorf("expected 2 nodes, got %d", s.NodeCount())
		}
	})
}

// TestStoreAddEdge tests idempotent edge insertion.
func TestStoreAddEdge(t *testing.T) {
	t.Parallel()

	s := NewStore("test")
	s.AddEdge("01", "02", model.EdgeTypeHasSubtopic)
	s.AddEdge("01", "02", model.EdgeTypeHasSubtopic)
	s.AddEdge("02", "01", model.EdgeTypeHasSubtopic) // reverse direction is distinct
	s.AddEdge("01", "02", model.EdgeTypeRelatedTo)   // different type is distinct

	if s.EdgeCount() != 3 {
		t.Errorf("expected 3 distinct edges, got %d", s.EdgeCount())
	}
}

// TestStoreEdgeWithoutNode tests that edges to unfetched topics are kept.
func TestStoreEdgeWithoutNode(t *testing.T) {
	t.Parallel()

	s := NewStore("test")
	s.AddNode(model.Topic{ID: "01"})
	s.AddEdge("01", "missing", model.EdgeTypeHasSubtopic)

	g := s.Snapshot()
	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	if g.Edges[0].Target != "missing" {
		t.Errorf("expected dangling edge target to survive, got %s", g.Edges[0].Target)
	}
}

// TestStoreConcurrentMutation tests that concurrent duplicate writes
// converge to the same final set as a single write.
func TestStoreConcurrentMutation(t *testing.T) {
	t.Parallel()

	const goroutines = 32
	s := NewStore("test")

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddNode(model.Topic{
				ID:     "shared",
				Labels: map[string]string{"en": "shared"},
			})
			s.AddEdge("shared", "child", model.EdgeTypeHasSubtopic)
			s.AddNode(model.Topic{ID: model.TopicID(rune('a' + i%4))})
		}()
	}
	wg.Wait()

	g := s.Snapshot()
	// "shared" plus 4 distinct single-rune identifiers.
	if len(g.Nodes) != 5 {
		t.Errorf("expected 5 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Errorf("expected 1 edge, got %d", len(g.Edges))
	}
}

// TestStoreSnapshotDeterminism tests that snapshots sort consistently.
func TestStoreSnapshotDeterminism(t *testing.T) {
	t.Parallel()

	s := NewStore("test")
	s.AddNode(model.Topic{ID: "03"})
	s.AddNode(model.Topic{ID: "01"})
	s.AddNode(model.Topic{ID: "02"})
	s.AddEdge("03", "01", model.EdgeTypeHasSubtopic)
	s.AddEdge("01", "02", model.EdgeTypeHasSubtopic)

	first := s.Snapshot()
	second := s.Snapshot()

	for i := range first.Nodes {
		if first.Nodes[i].ID != second.Nodes[i].ID {
			t.Fatalf("snapshot node order differs at %d", i)
		}
	}
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Fatalf("snapshot edge order differs at %d", i)
		}
	}
	if first.Nodes[0].ID != "01" {
		t.Errorf("expected sorted nodes, got %s first", first.Nodes[0].ID)
	}
}
