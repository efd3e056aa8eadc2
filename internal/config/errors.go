package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrInvalidConcurrency is returned when the fetch concurrency is not
	// positive. A concurrency of zero would mean no fetching at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrEmptyRootID is returned when one of the configured root topic
	// identifiers is an empty string.
	ErrEmptyRootID = errors.New("invalid root: topic identifier must not be empty")

	// ErrMissingNeo4jCredentials is returned when a Neo4j URI is configured
	// without a username and password. Credentials come from the config
	// file or the NEO4J_USERNAME/NEO4J_PASSWORD environment variables.
	ErrMissingNeo4jCredentials = errors.New("neo4j export requires a username and password: set them in the config file or via NEO4J_USERNAME and NEO4J_PASSWORD")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnsupportedLanguage is returned when the display language is not
	// one of the six official UN languages.
	ErrUnsupportedLanguage = errors.New("unsupported language: must be one of en, fr, es, ru, ar, zh")
)
