package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Query.PostsPerPage < -1 || c.Query.PostsPerPage == 0 {
		return fmt.Errorf("query.posts_per_page must be positive or -1, got %d", c.Query.PostsPerPage)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}

// ParseLevel parses a log level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// Level returns the effective log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}
