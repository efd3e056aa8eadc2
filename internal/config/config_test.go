package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfigDefaults tests that the constructor fills every
// non-zero default.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", c.Concurrency, DefaultConcurrency)
	}
	if c.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want %v", c.FetchTimeout, DefaultFetchTimeout)
	}
	if c.OutputPath != DefaultOutputPath {
		t.Errorf("OutputPath = %q, want %q", c.OutputPath, DefaultOutputPath)
	}
	if c.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", c.Language, DefaultLanguage)
	}
	if c.Neo4jDatabase != DefaultNeo4jDatabase {
		t.Errorf("Neo4jDatabase = %q, want %q", c.Neo4jDatabase, DefaultNeo4jDatabase)
	}
	if !c.CrawlRelated {
		t.Error("CrawlRelated should default to true")
	}
	if c.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
}

// TestConfigValidate tests every validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "explicit roots are valid",
			mutate:  func(c *Config) { c.RootIDs = []string{"01", "02"} },
			wantErr: nil,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.FetchTimeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "empty root id",
			mutate:  func(c *Config) { c.RootIDs = []string{"01", ""} },
			wantErr: ErrEmptyRootID,
		},
		{
			name:    "neo4j uri without credentials",
			mutate:  func(c *Config) { c.Neo4jURI = "neo4j://localhost:7687" },
			wantErr: ErrMissingNeo4jCredentials,
		},
		{
			name: "neo4j uri with credentials",
			mutate: func(c *Config) {
				c.Neo4jURI = "neo4j://localhost:7687"
				c.Neo4jUsername = "neo4j"
				c.Neo4jPassword = "secret"
			},
			wantErr: nil,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "unsupported language",
			mutate:  func(c *Config) { c.Language = "de" },
			wantErr: ErrUnsupportedLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewConfig()
			tt.mutate(c)

			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML parsing and the not-found sentinel.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := []byte(`roots:
  - "01"
  - "02"
concurrency: 8
fetchTimeout: 45s
output: graph.json
markdown: summary.md
language: fr
neo4j:
  uri: neo4j://localhost:7687
  username: neo4j
  password: secret
  database: thesaurus
historyDir: /tmp/unbisgraph
`)
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		c := NewConfig()
		cf.Apply(c)

		if len(c.RootIDs) != 2 || c.RootIDs[0] != "01" {
			t.Errorf("RootIDs = %v", c.RootIDs)
		}
		if c.Concurrency != 8 {
			t.Errorf("Concurrency = %d, want 8", c.Concurrency)
		}
		if c.FetchTimeout != 45*time.Second {
			t.Errorf("FetchTimeout = %v, want 45s", c.FetchTimeout)
		}
		if c.Language != "fr" {
			t.Errorf("Language = %q, want fr", c.Language)
		}
		if c.Neo4jURI != "neo4j://localhost:7687" || c.Neo4jPassword != "secret" {
			t.Errorf("Neo4j settings not applied: %q %q", c.Neo4jURI, c.Neo4jPassword)
		}
		if c.Neo4jDatabase != "thesaurus" {
			t.Errorf("Neo4jDatabase = %q, want thesaurus", c.Neo4jDatabase)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		c := NewConfig()
		cf.Apply(c)
		if c.Concurrency != DefaultConcurrency || c.OutputPath != DefaultOutputPath {
			t.Error("empty file should not change defaults")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("roots: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFindConfigFile tests the explicit-path branch.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte(""), 0600); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}
	if got := FindConfigFile(filepath.Join(dir, "nope")); got != "" {
		t.Errorf("FindConfigFile for missing explicit path = %q, want empty", got)
	}
}

// TestApplyEnvironment tests that the driver environment variables win
// over file-sourced values. No t.Parallel: t.Setenv mutates process state.
func TestApplyEnvironment(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://db.example.org:7687")
	t.Setenv("NEO4J_USERNAME", "loader")
	t.Setenv("NEO4J_PASSWORD", "hunter2")
	t.Setenv("NEO4J_DATABASE", "unbis")

	c := NewConfig()
	c.Neo4jURI = "neo4j://from-file:7687"
	c.ApplyEnvironment()

	if c.Neo4jURI != "neo4j://db.example.org:7687" {
		t.Errorf("Neo4jURI = %q", c.Neo4jURI)
	}
	if c.Neo4jUsername != "loader" || c.Neo4jPassword != "hunter2" {
		t.Errorf("credentials not applied: %q %q", c.Neo4jUsername, c.Neo4jPassword)
	}
	if c.Neo4jDatabase != "unbis" {
		t.Errorf("Neo4jDatabase = %q", c.Neo4jDatabase)
	}
}
