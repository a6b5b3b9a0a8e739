// Package config loads SiteCounts configuration from defaults, the
// sitecounts.yaml file, SITECOUNTS_ environment variables and CLI flags.
package config

// Config holds all configuration options.
type Config struct {
	StatePath    string      `koanf:"state_path"`
	Fixtures     string      `koanf:"fixtures"`
	Locale       string      `koanf:"locale"`
	LogLevel     string      `koanf:"log_level"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Query        QueryConfig `koanf:"query"`
	UI           UIConfig    `koanf:"ui"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// QueryConfig holds content query settings.
type QueryConfig struct {
	// PostsPerPage is the page size for queries that do not set one.
	PostsPerPage int `koanf:"posts_per_page"`
}

// UIConfig holds configuration for the site server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}
