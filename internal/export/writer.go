package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// Exporter serializes a finished crawl result to one destination.
// Implementations write the structured graph document, a Markdown
// summary, or a bulk load into a graph database.
type Exporter interface {
	// Export writes the crawl result. The result is frozen by the time
	// it reaches an exporter; implementations must not mutate it.
	Export(ctx context.Context, result *model.CrawlResult) error

	// Name identifies the exporter in logs and error messages.
	Name() string
}

// Multi runs several exporters in sequence, continuing past individual
// failures so one broken destination does not lose the others.
//
// Design decision: Export targets are independent (JSON file, summary,
// database), so we always continue on error and report the failures
// together rather than stopping at the first one.
type Multi struct {
	exporters []Exporter
}

// NewMulti creates a Multi over the given exporters.
func NewMulti(exporters ...Exporter) *Multi {
	return &Multi{exporters: exporters}
}

// Add appends an exporter. Exporters run in the order they were added.
func (m *Multi) Add(e Exporter) {
	m.exporters = append(m.exporters, e)
}

// Name implements Exporter.
func (m *Multi) Name() string { return "multi" }

// Export runs every exporter and joins their failures.
func (m *Multi) Export(ctx context.Context, result *model.CrawlResult) error {
	var errs []error
	for _, e := range m.exporters {
		if err := e.Export(ctx, result); err != nil {
			errs = append(errs, fmt.Errorf("%s export failed: %w", e.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// openOutput opens the destination for a file-based exporter: "-" or an
// empty path means stdout, anything else creates the file, including
// parent directories.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// nopCloser keeps stdout open when it is used as an export destination.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
