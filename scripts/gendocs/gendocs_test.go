package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leapstack-labs/sitecounts/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Frontmatter("render", "Render the\n  block")
	w.GeneratedMarker()
	w.Header(2, "Usage")
	w.CodeBlock("bash", "sitecounts render")
	w.Table([]string{"Option", "Description"}, [][]string{{InlineCode("--post-id"), "Current post id"}})
	w.Table([]string{"Empty"}, nil)

	doc := string(w.Bytes())
	assert.True(t, strings.HasPrefix(doc, "---\ntitle: \"render\"\ndescription: \"Render the block\"\n---\n"))
	assert.Contains(t, doc, generatedNotice)
	assert.Contains(t, doc, "## Usage\n")
	assert.Contains(t, doc, "```bash\nsitecounts render\n```")
	assert.Contains(t, doc, "| `--post-id` | Current post id |")
	assert.NotContains(t, doc, "Empty")
}

func TestCollectConfigFields(t *testing.T) {
	fields := collectConfigFields("", reflect.ValueOf(*config.Default()))

	keys := make(map[string]configField, len(fields))
	for _, f := range fields {
		keys[f.Key] = f
		assert.NotEmpty(t, configDescriptions[f.Key], "missing description for %s", f.Key)
	}
	assert.NotContains(t, keys, "ConfigFile")
	assert.Equal(t, configField{Key: "query.posts_per_page", Type: "int", Default: "10"}, keys["query.posts_per_page"])
	assert.Equal(t, "8765", keys["ui.port"].Default)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`render`](/cli/render)")
	assert.Contains(t, string(index), "SITECOUNTS_STATE_PATH")

	assert.Contains(t, string(index), "## Content")
	assert.Contains(t, string(index), "| `--state` | `state_path` | `SITECOUNTS_STATE_PATH` |")
	assert.Contains(t, string(index), "| `--config` | - | - |")

	page, err := os.ReadFile(filepath.Join(dir, "render.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "sitecounts render [flags]")
	assert.Contains(t, string(page), "| `--post-id` | int64 | - |")
	assert.Contains(t, string(page), "| `--output html` |")
	assert.Contains(t, string(page), "## Block")

	completion, err := os.ReadFile(filepath.Join(dir, "completion.md"))
	require.NoError(t, err)
	assert.Contains(t, string(completion), "- `fish`")
	assert.NotContains(t, string(completion), "## Output")
}

func TestGroupCommands(t *testing.T) {
	cmds := []*cobra.Command{{Use: "render"}, {Use: "seed"}, {Use: "counts"}, {Use: "extra"}}

	groups := groupCommands(cmds)
	require.Len(t, groups, 3)
	assert.Equal(t, commandGroup{Title: "Content", Intro: commandGroups[0].Intro, Commands: []string{"seed", "counts"}}, groups[0])
	assert.Equal(t, "Block", groups[1].Title)
	assert.Equal(t, commandGroup{Title: "Other", Commands: []string{"extra"}}, groups[2])
}

func TestDedent(t *testing.T) {
	in := "  # Show counts\n  sitecounts counts\n\n    indented"
	assert.Equal(t, "# Show counts\nsitecounts counts\n\n  indented", dedent(in))
	assert.Equal(t, "a\n b", dedent("\ta\n\t b"))
}
