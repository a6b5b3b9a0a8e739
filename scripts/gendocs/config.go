package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/sitecounts/internal/config"
)

// configDescriptions documents each koanf key of config.Config.
var configDescriptions = map[string]string{
	"state_path":           "SQLite state database path. Relative paths resolve against the config file; `:memory:` keeps content in memory",
	"fixtures":             "YAML fixtures file applied every time the store opens",
	"locale":               "Locale for block text (en, de, fr)",
	"log_level":            "Log level: debug, info, warn, error",
	"verbose":              "Force debug logging",
	"output":               "Output format: auto, text, markdown, json, html",
	"query.posts_per_page": "Page size for queries that do not set one. `-1` returns every match",
	"ui.port":              "Port for the serve command",
	"ui.auto_open":         "Open a browser when serve starts",
	"ui.watch":             "Reload fixtures and push updates when the fixtures file changes",
	"ui.session_secret":    "Key for the locale session cookie. A random key is generated when empty",
}

// configField is one documented configuration key.
type configField struct {
	Key     string
	Type    string
	Default string
}

// collectConfigFields walks the koanf tags of v, prefixing nested sections.
func collectConfigFields(prefix string, v reflect.Value) []configField {
	var fields []configField
	t := v.Type()
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			fields = append(fields, collectConfigFields(key+".", fv)...)
			continue
		}
		fields = append(fields, configField{
			Key:     key,
			Type:    fv.Kind().String(),
			Default: fmt.Sprint(fv.Interface()),
		})
	}
	return fields
}

// generateConfigDocs writes the configuration file reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "SiteCounts configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("SiteCounts reads %s (or %s) from the working directory or the nearest parent directory.",
		InlineCode(config.ConfigFileName), InlineCode(config.ConfigFileNameAlt)))

	w.Header(2, "Keys")
	var rows [][]string
	for _, f := range collectConfigFields("", reflect.ValueOf(*config.Default())) {
		def := f.Default
		if def == "" {
			def = "-"
		} else {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, configDescriptions[f.Key]})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Environment")
	w.Paragraph(fmt.Sprintf("Every key can be set with a %s variable. Dots become underscores, so %s sets %s.",
		InlineCode(config.EnvPrefix+"*"), InlineCode(config.EnvPrefix+"UI_PORT"), InlineCode("ui.port")))

	w.Header(2, "Example")
	w.CodeBlock("yaml", strings.TrimSpace(`
state_path: .sitecounts/state.db
fixtures: site.yaml
locale: de
query:
  posts_per_page: 10
ui:
  port: 8765
  watch: true
`))

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
