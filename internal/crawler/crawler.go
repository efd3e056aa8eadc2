package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/unbisgraph/unbisgraph/internal/graph"
	"github.com/unbisgraph/unbisgraph/internal/model"
)

// CategoriesURL is the thesaurus landing page listing the top-level
// UNBIS domains. It is the default seed source when no root topic
// identifiers are given.
const CategoriesURL = "https://metadata.un.org/thesaurus/categories?lang=en"

// DefaultConcurrency bounds in-flight fetches. Low tens keeps the crawl
// respectful of the thesaurus while still saturating typical network
// latency.
const DefaultConcurrency = 16

// Crawler explores the topic graph reachable from a set of root
// identifiers, fetching each topic at most once, with bounded
// parallelism, and accumulates the result in a graph store.
//
// Design decision: Recursive fan-out over a cyclic structure of unknown
// depth is driven by an explicit outstanding-work counter (a WaitGroup)
// rather than call-stack recursion. Each claimed topic adds one unit of
// work before the claiming task finishes, so the counter can never
// reach zero while dispatches are still pending.
type Crawler struct {
	// fetcher retrieves raw topic documents.
	fetcher Fetcher

	// visited is the claim ledger guaranteeing at-most-once fetches.
	visited *graph.Visited

	// store accumulates discovered nodes and edges.
	store *graph.Store

	// sem bounds the number of fetch tasks in flight; concurrency is
	// its size, kept for logging (semaphore.Weighted does not expose it).
	sem         *semaphore.Weighted
	concurrency int

	// logger receives structured progress and failure events.
	logger *slog.Logger

	// progressInterval is how often a running crawl logs its counters.
	// Zero disables progress logging.
	progressInterval time.Duration

	// crawlRelated controls whether skos:related associations are
	// followed (they are always recorded as edges).
	crawlRelated bool

	fetchErrors atomic.Int64
	parseErrors atomic.Int64
	inFlight    atomic.Int64

	// seedsFetched counts roots that were fetched and parsed
	// successfully. Zero after a finished crawl means every seed
	// failed, which is the one fatal condition.
	seedsFetched atomic.Int64
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency bounds the number of simultaneous fetch tasks.
// Values below one fall back to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
			c.concurrency = n
		}
	}
}

// WithLogger sets a custom logger. If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithProgressInterval enables periodic progress logging at the given
// interval while the crawl runs.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Crawler) {
		c.progressInterval = d
	}
}

// WithCrawlRelated controls whether related-topic associations are
// followed in addition to being recorded. Default is true, matching
// the full thesaurus crawl.
func WithCrawlRelated(follow bool) Option {
	return func(c *Crawler) {
		c.crawlRelated = follow
	}
}

// New creates a Crawler that records discoveries into the given store.
func New(fetcher Fetcher, store *graph.Store, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:      fetcher,
		visited:      graph.NewVisited(),
		store:        store,
		sem:          semaphore.NewWeighted(DefaultConcurrency),
		concurrency:  DefaultConcurrency,
		crawlRelated: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Crawl explores the graph reachable from the given roots and returns
// the terminal snapshot. Per-topic failures are counted, not fatal; the
// result always contains whatever partial graph was accumulated. The
// returned error is non-nil only when every seed failed to fetch
// (ErrRootsUnreachable) or the context was cancelled.
func (c *Crawler) Crawl(ctx context.Context, roots []model.TopicID) (*model.CrawlResult, error) {
	if len(roots) == 0 {
		return nil, ErrNoSeeds
	}

	startedAt := time.Now()
	c.logger.Info("starting crawl",
		"roots", len(roots),
		"concurrency", c.concurrency,
	)

	stopProgress := c.startProgress(ctx)
	defer stopProgress()

	// wg is the outstanding-work counter: one unit per claimed topic.
	// Add for a child always happens in the parent's task, before the
	// parent's Done, so the counter cannot prematurely reach zero.
	var wg sync.WaitGroup
	for _, root := range roots {
		if !c.visited.TryClaim(root) {
			// Duplicate seed; another entry already owns it.
			continue
		}
		wg.Add(1)
		go c.fetchTask(ctx, &wg, root, 0)
	}
	wg.Wait()

	result := &model.CrawlResult{
		Graph:      c.store.Snapshot(),
		Stats:      c.Stats(),
		RootIDs:    roots,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}

	if err := ctx.Err(); err != nil {
		c.logger.Warn("crawl cancelled",
			"nodes", result.Stats.NodesDiscovered,
			"edges", result.Stats.EdgesDiscovered,
		)
		return result, err
	}
	if c.seedsFetched.Load() == 0 {
		return result, ErrRootsUnreachable
	}

	c.logger.Info("crawl complete",
		"nodes", result.Stats.NodesDiscovered,
		"edges", result.Stats.EdgesDiscovered,
		"fetch_errors", result.Stats.FetchErrors,
		"parse_errors", result.Stats.ParseErrors,
		"elapsed", result.Duration(),
	)
	return result, nil
}

// fetchTask fetches and expands one claimed topic. It owns exactly one
// unit of outstanding work and releases it on return, after any child
// units have been added.
func (c *Crawler) fetchTask(ctx context.Context, wg *sync.WaitGroup, id model.TopicID, depth int) {
	defer wg.Done()

	// Block while the concurrency bound is saturated. Acquire fails
	// only on cancellation, in which case the task abandons its work.
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer c.sem.Release(1)

	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	data, err := c.fetcher.Fetch(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			c.fetchErrors.Add(1)
			c.logger.Warn("fetch failed", "topic", id, "error", err)
		}
		return
	}

	doc, err := ParseTopicDocument(data)
	if err != nil {
		c.parseErrors.Add(1)
		c.logger.Warn("parse failed", "topic", id, "error", err)
		return
	}

	if depth == 0 {
		c.seedsFetched.Add(1)
	}

	// Policy: only successfully fetched topics become nodes. A child
	// that later fails to fetch keeps its inbound edges but is omitted
	// from the node set.
	c.store.AddNode(model.Topic{
		ID:      id,
		URL:     doc.URL,
		Cluster: doc.Cluster,
		Type:    nodeTypeForDepth(depth),
		Labels:  doc.Labels,
	})

	c.expand(ctx, wg, id, depth, doc.Subtopics, model.EdgeTypeHasSubtopic, true)
	c.expand(ctx, wg, id, depth, doc.Related, model.EdgeTypeRelatedTo, c.crawlRelated)
}

// expand records edges to the referenced topics and dispatches a fetch
// task for each one this task wins the claim for. Edges are recorded
// unconditionally, even when the child is already claimed or will later
// fail; failed claims are a no-op because another in-flight or
// completed task owns the child.
func (c *Crawler) expand(ctx context.Context, wg *sync.WaitGroup, parent model.TopicID, depth int, children []model.TopicID, edgeType model.EdgeType, follow bool) {
	for _, child := range children {
		c.store.AddEdge(parent, child, edgeType)

		if !follow || child == parent {
			continue
		}
		if ctx.Err() != nil {
			// Cancellation: stop dispatching new work. Claims already
			// made stay permanent; partial results are retained.
			return
		}
		if c.visited.TryClaim(child) {
			wg.Add(1)
			go c.fetchTask(ctx, wg, child, depth+1)
		}
	}
}

// Stats returns a snapshot of the crawl counters. Safe to call while
// the crawl is running; used for progress reporting.
func (c *Crawler) Stats() model.Stats {
	return model.Stats{
		NodesDiscovered: c.store.NodeCount(),
		EdgesDiscovered: c.store.EdgeCount(),
		FetchErrors:     int(c.fetchErrors.Load()),
		ParseErrors:     int(c.parseErrors.Load()),
		InFlight:        int(c.inFlight.Load()),
	}
}

// startProgress launches the periodic progress logger and returns a
// function that stops it.
func (c *Crawler) startProgress(ctx context.Context) func() {
	if c.progressInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(c.progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := c.Stats()
				c.logger.Info("crawl progress",
					"nodes", stats.NodesDiscovered,
					"edges", stats.EdgesDiscovered,
					"in_flight", stats.InFlight,
					"claimed", c.visited.Len(),
					"errors", stats.Errors(),
				)
			}
		}
	}()
	return func() { close(done) }
}

// nodeTypeForDepth classifies a topic by its discovery depth: seeds are
// the top-level domains, their children are topics, and everything
// deeper is a subtopic. When a crawl is seeded mid-hierarchy the seed
// is still classified as the crawl's top level, which matches how the
// exported document is interpreted.
func nodeTypeForDepth(depth int) model.NodeType {
	switch depth {
	case 0:
		return model.NodeTypeMetaTopic
	case 1:
		return model.NodeTypeTopic
	default:
		return model.NodeTypeSubtopic
	}
}

// PageFetcher retrieves auxiliary HTML pages from the thesaurus site.
// *HTTPFetcher implements it; tests substitute fixtures.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// DiscoverSeeds fetches the categories landing page and returns the
// meta topic identifiers to seed a full crawl with. An empty pageURL
// uses CategoriesURL.
func DiscoverSeeds(ctx context.Context, fetcher PageFetcher, pageURL string) ([]model.TopicID, error) {
	if pageURL == "" {
		pageURL = CategoriesURL
	}
	page, err := fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	ids, err := ParseCategoriesPage(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoSeeds
	}
	return ids, nil
}
