package config

import "github.com/leapstack-labs/sitecounts/internal/state"

// Config file names, in lookup order.
const (
	ConfigFileName    = "sitecounts.yaml"
	ConfigFileNameAlt = "sitecounts.yml"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "SITECOUNTS_"

// Default configuration values.
const (
	DefaultStateFile = ".sitecounts/state.db"
	DefaultLocale    = "en"
	DefaultLogLevel  = "warn"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort      = 8765
)

// Output formats accepted by --output.
var OutputFormats = []string{"auto", "text", "markdown", "json", "html"}

// defaults returns the lowest-precedence layer of configuration.
func defaults() map[string]any {
	return map[string]any{
		"state_path":           DefaultStateFile,
		"fixtures":             "",
		"locale":               DefaultLocale,
		"log_level":            DefaultLogLevel,
		"verbose":              false,
		"output":               DefaultOutput,
		"query.posts_per_page": state.DefaultPostsPerPage,
		"ui.port":              DefaultPort,
		"ui.auto_open":         true,
		"ui.watch":             true,
		"ui.session_secret":    "",
	}
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		Locale:       DefaultLocale,
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Query:        QueryConfig{PostsPerPage: state.DefaultPostsPerPage},
		UI: UIConfig{
			Port:     DefaultPort,
			AutoOpen: true,
			Watch:    true,
		},
	}
}
