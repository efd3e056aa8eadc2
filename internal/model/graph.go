package model

import (
	"sort"
	"time"
)

// Graph is the terminal snapshot of a crawl: the set of discovered
// topics and the directed relations between them. Nodes and Edges are
// sorted deterministically so that two snapshots of the same crawl
// serialize identically.
type Graph struct {
	// Name identifies the graph in exported documents.
	Name string `json:"name"`

	// Nodes are the successfully fetched topics, sorted by identifier.
	Nodes []Topic `json:"nodes"`

	// Edges are the directed relations, sorted by (source, target, type).
	// An edge's target may reference a topic absent from Nodes: edges to
	// topics that failed to fetch are recorded regardless.
	Edges []Edge `json:"edges"`

	// Clusters describes the known UNBIS domains for visualization.
	Clusters []Cluster `json:"clusters,omitempty"`
}

// Sort orders Nodes and Edges deterministically in place.
func (g *Graph) Sort() {
	sort.Slice(g.Nodes, func(i, j int) bool {
		return g.Nodes[i].ID < g.Nodes[j].ID
	})
	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Type < b.Type
	})
}

// Equal reports whether two graphs contain the same node and edge sets,
// independent of order. Cluster metadata and graph names are not
// compared; only the discovered structure matters.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil {
		return g == nil
	}
	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}

	nodes := make(map[TopicID]Topic, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}
	for _, n := range other.Nodes {
		mine, ok := nodes[n.ID]
		if !ok || !topicEqual(mine, n) {
			return false
		}
	}

	edges := make(map[Edge]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		edges[e] = struct{}{}
	}
	for _, e := range other.Edges {
		if _, ok := edges[e]; !ok {
			return false
		}
	}
	return true
}

// topicEqual compares two topics field by field, including labels.
func topicEqual(a, b Topic) bool {
	if a.ID != b.ID || a.URL != b.URL || a.Cluster != b.Cluster || a.Type != b.Type {
		return false
	}
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	for lang, label := range a.Labels {
		if b.Labels[lang] != label {
			return false
		}
	}
	return true
}

// Stats summarizes the work performed during a crawl. All counters are
// cumulative for the whole run.
type Stats struct {
	// NodesDiscovered is the number of topics successfully fetched,
	// parsed, and recorded in the graph.
	NodesDiscovered int `json:"nodes_discovered"`

	// EdgesDiscovered is the number of distinct directed edges recorded.
	EdgesDiscovered int `json:"edges_discovered"`

	// FetchErrors counts topics whose page could not be retrieved
	// (transport failure or deadline exceeded).
	FetchErrors int `json:"fetch_errors"`

	// ParseErrors counts pages that were retrieved but did not match the
	// expected SKOS document structure.
	ParseErrors int `json:"parse_errors"`

	// InFlight is the number of fetch tasks currently executing.
	// Only meaningful for progress reporting during a running crawl;
	// zero in a final snapshot.
	InFlight int `json:"-"`
}

// Errors returns the total number of per-topic failures.
func (s Stats) Errors() int { return s.FetchErrors + s.ParseErrors }

// CrawlResult is the immutable outcome of one crawl run, handed to the
// exporters once the scheduler has determined that no work remains.
type CrawlResult struct {
	// Graph is the accumulated topic graph. Non-empty even for partially
	// failed crawls, as long as at least one root was reachable.
	Graph *Graph `json:"graph"`

	// Stats are the final counters for the run.
	Stats Stats `json:"stats"`

	// RootIDs are the identifiers the crawl was seeded with.
	RootIDs []TopicID `json:"root_ids"`

	// StartedAt and FinishedAt bound the crawl wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the crawl wall-clock duration.
func (r *CrawlResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Partial reports whether the crawl completed with per-topic errors.
// A partial result is still exportable; callers use this to signal a
// non-zero exit status.
func (r *CrawlResult) Partial() bool {
	return r.Stats.Errors() > 0
}
