package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sitecounts/internal/cli/output"
	clitestutil "github.com/leapstack-labs/sitecounts/internal/cli/testutil"
	"github.com/leapstack-labs/sitecounts/internal/config"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a config with an in-memory store seeded from the site fixtures.
func testConfig(t *testing.T, format string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "site.yaml")
	clitestutil.WriteFile(t, fixtures, clitestutil.SiteFixtures)

	cfg := config.Default()
	cfg.StatePath = ":memory:"
	cfg.Fixtures = fixtures
	cfg.OutputFormat = format
	return cfg
}

// execute runs cmd with cfg in its context and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewServeCommand(), "serve", []string{"port", "no-browser", "watch"}},
		{NewRenderCommand(), "render", []string{"post-id", "class-name"}},
		{NewCountsCommand(), "counts", nil},
		{NewQueryCommand(), "query", []string{"args", "input"}},
		{NewSeedCommand(), "seed <file>", nil},
		{NewVersionCommand(testBuild), "version", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestRenderCommand_HTML(t *testing.T) {
	out, err := execute(t, NewRenderCommand(), testConfig(t, "html"), "--post-id", "7", "--class-name", "is-wide")
	require.NoError(t, err)

	html := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(html, `<div class="is-wide">`), html)
	assert.Contains(t, html, "<li>There are 3 Posts.</li>")
	assert.Contains(t, html, "<li>There are 1 Page.</li>")
	assert.Contains(t, html, "<li>There are 0 Media.</li>")
	assert.Contains(t, html, "<li>There are 1 Book.</li>")
	assert.Contains(t, html, "<p>The current post ID is 7.</p>")
	assert.Contains(t, html, "<h2>5 posts with the tag of foo and the category of baz</h2><ul><li>About</li><li>Evening</li><li>Morning</li></ul>")
	assert.NotContains(t, html, "Late")
}

// Auto mode prints HTML when stdout is not a terminal.
func TestRenderCommand_AutoPipesHTML(t *testing.T) {
	out, err := execute(t, NewRenderCommand(), testConfig(t, "auto"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<div class="">`), out)
	assert.NotContains(t, out, "current post ID")
}

func TestRenderCommand_Markdown(t *testing.T) {
	cfg := testConfig(t, "markdown")
	cfg.Locale = "de"

	out, err := execute(t, NewRenderCommand(), cfg)
	require.NoError(t, err)

	clitestutil.AssertNoANSI(t, out)
	clitestutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "## Beitragszahlen")
	assert.Contains(t, out, "- Es gibt 3 Beiträge.")
	assert.Contains(t, out, "- Es gibt 1 Seite.")
	assert.Contains(t, out, "- About")
	assert.NotContains(t, out, "<li>")
}

func TestRenderCommand_JSON(t *testing.T) {
	cfg := testConfig(t, "json")
	cfg.Locale = "fr-CA"

	out, err := execute(t, NewRenderCommand(), cfg)
	require.NoError(t, err)

	var res output.RenderOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "xwp/site-counts", res.Block)
	assert.Equal(t, "fr", res.Locale)
	assert.Contains(t, res.HTML, "Il y a 3 articles.")
}

func TestCountsCommand(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, NewCountsCommand(), testConfig(t, "markdown"))
		require.NoError(t, err)

		clitestutil.AssertNoANSI(t, out)
		assert.Contains(t, out, "# Post Counts")
		assert.Contains(t, out, "| Type | Label | Published |")
		assert.Contains(t, out, "| post | Posts | 3 |")
		assert.Contains(t, out, "| page | Page | 1 |")
		assert.Contains(t, out, "| attachment | Media | 0 |")
		assert.Contains(t, out, "| book | Book | 1 |")
		assert.NotContains(t, out, "revision")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, "json")
		cfg.Locale = "de"

		out, err := execute(t, NewCountsCommand(), cfg)
		require.NoError(t, err)

		var res output.CountsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "de", res.Locale)
		require.Len(t, res.Types, 4)
		assert.Equal(t, output.TypeCount{Slug: "post", Label: "Beiträge", Published: 3}, res.Types[0])
		assert.Equal(t, output.TypeCount{Slug: "book", Label: "Book", Published: 1}, res.Types[3])
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, NewCountsCommand(), testConfig(t, "text"))
		require.NoError(t, err)
		assert.Contains(t, out, "Post Counts")
		assert.Contains(t, out, "│ post")
	})
}

func TestQueryCommand(t *testing.T) {
	t.Run("block query as json", func(t *testing.T) {
		out, err := execute(t, NewQueryCommand(), testConfig(t, "json"))
		require.NoError(t, err)

		var res output.QueryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, []string{"posts_per_page "}, res.Ignored)
		titles := make([]string, 0, len(res.Posts))
		for _, p := range res.Posts {
			titles = append(titles, p.Title)
		}
		assert.Equal(t, []string{"About", "Evening", "Morning"}, titles)
		assert.Equal(t, "2024-03-04 12:00", res.Posts[0].Date)
	})

	t.Run("block query as markdown", func(t *testing.T) {
		out, err := execute(t, NewQueryCommand(), testConfig(t, "markdown"))
		require.NoError(t, err)
		assert.Contains(t, out, "- **Matches**: 3")
		assert.Contains(t, out, `- **Ignored args**: "posts_per_page "`)
		assert.Contains(t, out, "| page | publish | About |")
	})

	t.Run("custom args", func(t *testing.T) {
		out, err := execute(t, NewQueryCommand(), testConfig(t, "json"),
			"--args", `{"post_type": "any", "posts_per_page": 2, "orderby": "title", "order": "ASC"}`)
		require.NoError(t, err)

		var res output.QueryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Empty(t, res.Ignored)
		require.Len(t, res.Posts, 2)
		assert.Equal(t, "About", res.Posts[0].Title)
		assert.Equal(t, "Evening", res.Posts[1].Title)
	})

	t.Run("args from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "args.json")
		clitestutil.WriteFile(t, path, `{"post_status": "draft"}`)

		out, err := execute(t, NewQueryCommand(), testConfig(t, "json"), "--input", path)
		require.NoError(t, err)

		var res output.QueryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res.Posts, 1)
		assert.Equal(t, "Draft", res.Posts[0].Title)
	})

	t.Run("no matches", func(t *testing.T) {
		out, err := execute(t, NewQueryCommand(), testConfig(t, "markdown"), "--args", `{"tag": "nothing"}`)
		require.NoError(t, err)
		assert.Contains(t, out, "(0 posts)")
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := execute(t, NewQueryCommand(), testConfig(t, "json"), "--args", `{`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse query args")
	})

	t.Run("invalid arg value", func(t *testing.T) {
		_, err := execute(t, NewQueryCommand(), testConfig(t, "json"), "--args", `{"order": "sideways"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid order")
	})
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "site.yaml")
	clitestutil.WriteFile(t, fixtures, clitestutil.SiteFixtures)

	cfg := config.Default()
	cfg.StatePath = filepath.Join(dir, "data", "state.db")
	cfg.OutputFormat = "json"

	out, err := execute(t, NewSeedCommand(), cfg, fixtures)
	require.NoError(t, err)

	var res output.SeedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, output.SeedOutput{File: fixtures, ContentTypes: 1, Posts: 6}, res)

	// Seeding again is a no-op and the data persists between commands.
	_, err = execute(t, NewSeedCommand(), cfg, fixtures)
	require.NoError(t, err)

	cfg.OutputFormat = "markdown"
	out, err = execute(t, NewCountsCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "| post | Posts | 3 |")

	t.Run("markdown summary", func(t *testing.T) {
		out, err := execute(t, NewSeedCommand(), cfg, fixtures)
		require.NoError(t, err)
		assert.Contains(t, out, "- **Posts**: 6")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, NewSeedCommand(), cfg, filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read fixtures")
	})

	t.Run("requires a file", func(t *testing.T) {
		_, err := execute(t, NewSeedCommand(), cfg)
		require.Error(t, err)
	})
}

func TestOpenStore_BadFixtures(t *testing.T) {
	cfg := testConfig(t, "json")
	clitestutil.WriteFile(t, cfg.Fixtures, "posts: [")

	_, err := execute(t, NewCountsCommand(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse fixtures")
}
