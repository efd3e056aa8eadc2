package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".unbisgraph"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .unbisgraph configuration file.
// All fields are optional; unset fields leave the corresponding Config
// value untouched, so the file only needs to name what it changes.
type File struct {
	// Roots are the topic identifiers the crawl starts from.
	Roots []string `yaml:"roots,omitempty"`

	// Concurrency is the maximum number of in-flight document fetches.
	Concurrency int `yaml:"concurrency,omitempty"`

	// FetchTimeout is the per-request timeout, e.g. "30s".
	FetchTimeout time.Duration `yaml:"fetchTimeout,omitempty"`

	// Output is the destination for the structured graph document.
	Output string `yaml:"output,omitempty"`

	// Markdown is the destination for the Markdown crawl summary.
	Markdown string `yaml:"markdown,omitempty"`

	// Language is the preferred display language for topic labels.
	Language string `yaml:"language,omitempty"`

	// BaseURL overrides the thesaurus endpoint template. Intended for
	// testing against a local fixture server.
	BaseURL string `yaml:"baseURL,omitempty"`

	// CategoriesURL overrides the categories page used for seed discovery.
	CategoriesURL string `yaml:"categoriesURL,omitempty"`

	// Neo4j configures the optional graph database export.
	Neo4j Neo4jConfig `yaml:"neo4j,omitempty"`

	// HistoryDir overrides the crawl history database directory.
	HistoryDir string `yaml:"historyDir,omitempty"`
}

// Neo4jConfig holds the graph database connection settings.
// Credentials belong here or in the environment, never on the command
// line.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error based on whether the config file
// path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .unbisgraph in the current directory
// 3. Look for .unbisgraph in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies every set field of the file onto the config.
// Unset fields keep the existing value, so a file layered on top of
// NewConfig() only changes what it names.
func (f *File) Apply(c *Config) {
	if len(f.Roots) > 0 {
		c.RootIDs = f.Roots
	}
	if f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}
	if f.FetchTimeout > 0 {
		c.FetchTimeout = f.FetchTimeout
	}
	if f.Output != "" {
		c.OutputPath = f.Output
	}
	if f.Markdown != "" {
		c.MarkdownPath = f.Markdown
	}
	if f.Language != "" {
		c.Language = f.Language
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.CategoriesURL != "" {
		c.CategoriesURL = f.CategoriesURL
	}
	if f.Neo4j.URI != "" {
		c.Neo4jURI = f.Neo4j.URI
	}
	if f.Neo4j.Username != "" {
		c.Neo4jUsername = f.Neo4j.Username
	}
	if f.Neo4j.Password != "" {
		c.Neo4jPassword = f.Neo4j.Password
	}
	if f.Neo4j.Database != "" {
		c.Neo4jDatabase = f.Neo4j.Database
	}
	if f.HistoryDir != "" {
		c.HistoryDir = f.HistoryDir
	}
}

// ApplyEnvironment overlays Neo4j settings from the standard driver
// environment variables. Environment wins over the config file so
// deployments can keep credentials out of files entirely.
func (c *Config) ApplyEnvironment() {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4jURI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		c.Neo4jUsername = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4jPassword = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		c.Neo4jDatabase = v
	}
}
