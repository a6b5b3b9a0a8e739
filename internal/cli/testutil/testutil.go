// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sitecounts/internal/cli/output"
)

// SiteFixtures is a small site: two posts inside the block's filter, one
// outside its hour window, one page and an unpublished draft.
const SiteFixtures = `
content_types:
  - {slug: book, name: Books, singular_name: Book}
posts:
  - {title: "Morning", slug: morning, date: 2024-03-01T09:30:00Z, tags: [foo], categories: [baz]}
  - {title: "Evening", slug: evening, date: 2024-03-02T17:15:00Z, tags: [foo], categories: [baz]}
  - {title: "Late", slug: late, date: 2024-03-03T21:00:00Z, tags: [foo], categories: [baz]}
  - {title: "About", slug: about, type: page, date: 2024-03-04T12:00:00Z, tags: [foo], categories: [baz]}
  - {title: "Draft", slug: draft, status: draft, date: 2024-03-05T10:00:00Z}
  - {title: "Novel", slug: novel, type: book, date: 2024-03-06T10:00:00Z}
`

// SetupTestProject creates a temporary project holding a fixtures file and
// a sitecounts.yaml pointing at it with an in-memory state database.
// Returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	WriteFile(t, filepath.Join(tmpDir, "site.yaml"), SiteFixtures)
	WriteFile(t, filepath.Join(tmpDir, "sitecounts.yaml"), "state_path: \":memory:\"\nfixtures: site.yaml\n")
	return tmpDir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
