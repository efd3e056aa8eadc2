package graph

import (
	"sync"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// Store accumulates the topic graph during a crawl. Every operation is
// idempotent and commutative, so concurrent tasks can record their
// discoveries in any interleaving and converge to the same final graph.
// A single mutex per operation is sufficient; no cross-operation
// transactions are needed.
//
// Design decision: We encapsulate the node and edge maps behind narrow
// AddNode/AddEdge operations instead of exposing shared containers
// because the crawler mutates the store from many goroutines at once.
type Store struct {
	mu    sync.Mutex
	name  string
	nodes map[model.TopicID]model.Topic
	edges map[model.Edge]struct{}
}

// NewStore creates an empty graph store.
func NewStore(name string) *Store {
	return &Store{
		name:  name,
		nodes: make(map[model.TopicID]model.Topic),
		edges: make(map[model.Edge]struct{}),
	}
}

// AddNode records a topic. The first writer wins: inserting a second
// topic with the same identifier is a no-op, including its labels.
func (s *Store) AddNode(topic model.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[topic.ID]; ok {
		return
	}
	s.nodes[topic.ID] = topic
}

// AddEdge records a directed relation. Inserting the same ordered
// (source, target, type) triple twice is a no-op. The target does not
// need to be present in the node set; edges to topics that later fail
// to fetch are kept.
func (s *Store) AddEdge(source, target model.TopicID, edgeType model.EdgeType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges[model.Edge{Source: source, Target: target, Type: edgeType}] = struct{}{}
}

// NodeCount returns the current number of recorded topics.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// EdgeCount returns the current number of distinct recorded edges.
func (s *Store) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

// Snapshot returns a read-consistent, deterministically sorted copy of
// the accumulated graph. The caller must ensure the crawl has finished;
// a snapshot taken mid-crawl is internally consistent but incomplete.
func (s *Store) Snapshot() *model.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &model.Graph{
		Name:     s.name,
		Nodes:    make([]model.Topic, 0, len(s.nodes)),
		Edges:    make([]model.Edge, 0, len(s.edges)),
		Clusters: model.KnownClusters,
	}
	for _, topic := range s.nodes {
		g.Nodes = append(g.Nodes, topic)
	}
	for edge := range s.edges {
		g.Edges = append(g.Edges, edge)
	}
	g.Sort()
	return g
}
