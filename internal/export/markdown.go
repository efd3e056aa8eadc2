package export

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// MarkdownExporter writes a human-readable crawl summary: run counters,
// a per-cluster breakdown, and the best-connected topics. This format
// is meant for documentation and sharing, not for re-import.
type MarkdownExporter struct {
	// path is the output destination; "-" or empty means stdout.
	path string

	// topN is how many of the highest-degree topics to list.
	topN int

	// lang is the preferred display language for topic labels.
	lang string
}

// MarkdownOption configures a MarkdownExporter.
type MarkdownOption func(*MarkdownExporter)

// WithTopN sets how many of the best-connected topics are listed.
func WithTopN(n int) MarkdownOption {
	return func(e *MarkdownExporter) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithLanguage sets the preferred label language for the summary.
func WithLanguage(lang string) MarkdownOption {
	return func(e *MarkdownExporter) {
		e.lang = lang
	}
}

// NewMarkdownExporter creates a MarkdownExporter writing to the given path.
func NewMarkdownExporter(path string, opts ...MarkdownOption) *MarkdownExporter {
	e := &MarkdownExporter{
		path: path,
		topN: 10,
		lang: "en",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Exporter.
func (e *MarkdownExporter) Name() string { return "markdown" }

// Export writes the summary.
func (e *MarkdownExporter) Export(_ context.Context, result *model.CrawlResult) error {
	out, err := openOutput(e.path)
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck // Close error is surfaced via Build

	md := markdown.NewMarkdown(out)

	md.H1("UNBIS Thesaurus Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Crawl Date", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().Round(time.Second).String()},
			{"Topics", strconv.Itoa(result.Stats.NodesDiscovered)},
			{"Relations", strconv.Itoa(result.Stats.EdgesDiscovered)},
			{"Fetch Errors", strconv.Itoa(result.Stats.FetchErrors)},
			{"Parse Errors", strconv.Itoa(result.Stats.ParseErrors)},
			{"Status", statusText(result)},
		},
	})
	md.PlainText("")

	e.writeClusters(md, result.Graph)
	e.writeTopTopics(md, result.Graph)

	return md.Build()
}

// statusText summarizes the run outcome.
func statusText(result *model.CrawlResult) string {
	if result.Partial() {
		return fmt.Sprintf("⚠️ Partial (%d topics failed)", result.Stats.Errors())
	}
	return "✅ Complete"
}

// writeClusters writes the per-domain node counts.
func (e *MarkdownExporter) writeClusters(md *markdown.Markdown, g *model.Graph) {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		if n.Cluster != "" {
			counts[n.Cluster]++
		}
	}
	if len(counts) == 0 {
		return
	}

	md.H2("Topics per Domain")
	md.PlainText("")

	rows := make([][]string, 0, len(model.KnownClusters))
	for _, cluster := range model.KnownClusters {
		if count, ok := counts[cluster.Key]; ok {
			rows = append(rows, []string{cluster.Key, cluster.Label, strconv.Itoa(count)})
			delete(counts, cluster.Key)
		}
	}
	// Clusters outside the published table still get a row.
	unknown := make([]string, 0, len(counts))
	for key := range counts {
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		rows = append(rows, []string{key, "(unknown domain)", strconv.Itoa(counts[key])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Key", "Domain", "Topics"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTopTopics writes the highest-degree topics.
func (e *MarkdownExporter) writeTopTopics(md *markdown.Markdown, g *model.Graph) {
	if len(g.Nodes) == 0 {
		return
	}

	degree := make(map[model.TopicID]int, len(g.Nodes))
	for _, edge := range g.Edges {
		degree[edge.Source]++
		degree[edge.Target]++
	}

	nodes := make([]model.Topic, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return degree[nodes[i].ID] > degree[nodes[j].ID]
	})
	if len(nodes) > e.topN {
		nodes = nodes[:e.topN]
	}

	md.H2("Best-Connected Topics")
	md.PlainText("")

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			string(n.ID),
			n.Label(e.lang),
			string(n.Type),
			strconv.Itoa(degree[n.ID]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Id", "Label", "Type", "Degree"},
		Rows:   rows,
	})
	md.PlainText("")
}
