package sitecounts

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment checks markup is a balanced, script-free fragment and returns
// the text of every <li> in document order.
func parseFragment(t *testing.T, markup string) []string {
	t.Helper()

	var stack []string
	var items []string
	var inItem bool
	var text strings.Builder

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			require.ErrorIs(t, z.Err(), io.EOF, "tokenizer error")
			require.Empty(t, stack, "unclosed elements in %q", markup)
			return items
		case html.StartTagToken:
			tok := z.Token()
			require.NotEqual(t, atom.Script, tok.DataAtom, "script element in %q", markup)
			stack = append(stack, tok.Data)
			if tok.DataAtom == atom.Li {
				inItem = true
				text.Reset()
			}
		case html.EndTagToken:
			tok := z.Token()
			require.NotEmpty(t, stack, "unexpected </%s> in %q", tok.Data, markup)
			require.Equal(t, stack[len(stack)-1], tok.Data, "mismatched end tag in %q", markup)
			stack = stack[:len(stack)-1]
			if tok.DataAtom == atom.Li {
				inItem = false
				items = append(items, text.String())
			}
		case html.TextToken:
			if inItem {
				text.Write(z.Text())
			}
		case html.SelfClosingTagToken:
			t.Fatalf("unexpected self-closing tag in %q", markup)
		}
	}
}

func newBlock(t *testing.T, content *testutil.FakeContent) *Block {
	t.Helper()
	return New(content, content, nil, testutil.NewTestLogger(t))
}

func render(t *testing.T, b *Block, attrs blocks.Attributes, block blocks.Context) string {
	t.Helper()
	return b.Render(context.Background(), attrs, "", block)
}

func TestRender_CountsScenario(t *testing.T) {
	content := testutil.NewFakeContent()
	content.Types = []core.ContentType{
		{Slug: "post", Public: true},
		{Slug: "page", Public: true},
		{Slug: "secret"},
	}
	content.SetPublished("post", 3)
	content.SetPublished("page", 1)

	out := render(t, newBlock(t, content), blocks.Attributes{"className": ""}, nil)

	assert.Equal(t,
		`<div class=""><h2>Post Counts</h2><ul><li>There are 3 post.</li><li>There are 1 page.</li></ul></div>`,
		out)
	assert.Equal(t, []string{"There are 3 post.", "There are 1 page."}, parseFragment(t, out))
}

func TestRender_OneLinePerPublicTypeInCatalogOrder(t *testing.T) {
	content := testutil.NewFakeContent()
	content.Types = append(content.Types,
		core.ContentType{Slug: "book", Labels: core.ContentTypeLabels{Name: "Books", SingularName: "Book"}, Public: true},
		core.ContentType{Slug: "album", Public: true},
	)
	content.SetPublished("post", 3)
	content.SetPublished("page", 1)
	content.SetPublished("book", 12)

	out := render(t, newBlock(t, content), nil, nil)

	assert.Equal(t, []string{
		"There are 3 Posts.",
		"There are 1 Page.",
		"There are 0 Media.",
		"There are 12 Books.",
		"There are 0 album.",
	}, parseFragment(t, out))
	assert.NotContains(t, out, "Revisions")
}

func TestRender_CurrentPostID(t *testing.T) {
	tests := []struct {
		name   string
		postID any
		want   string
	}{
		{"absent", nil, ""},
		{"zero", 0, ""},
		{"negative", int64(-4), ""},
		{"int", 42, "The current post ID is 42."},
		{"int64", int64(1234567), "The current post ID is 1234567."},
		{"json number", 42.0, "The current post ID is 42."},
		{"fractional", 4.2, ""},
		{"string", "42", "The current post ID is 42."},
		{"garbage", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var block blocks.Context
			if tt.postID != nil {
				block = blocks.Context{"postId": tt.postID}
			}
			out := render(t, newBlock(t, testutil.NewFakeContent()), nil, block)
			parseFragment(t, out)

			if tt.want == "" {
				assert.NotContains(t, out, "The current post ID")
				return
			}
			assert.Equal(t, 1, strings.Count(out, tt.want))
			assert.Contains(t, out, "<p>"+tt.want+"</p>")
		})
	}
}

func TestRender_FilteredSection(t *testing.T) {
	const heading = "5 posts with the tag of foo and the category of baz"

	t.Run("omitted when nothing matches", func(t *testing.T) {
		out := render(t, newBlock(t, testutil.NewFakeContent()), nil, blocks.Context{"postId": 42})
		assert.NotContains(t, out, heading)
		assert.Equal(t, 1, strings.Count(out, "<ul>"))
	})

	t.Run("titles are escaped", func(t *testing.T) {
		content := testutil.NewFakeContent()
		content.Posts = []core.Post{
			{ID: 1, Title: `<script>alert("x")</script>`},
			{ID: 2, Title: "Fish & Chips"},
		}

		out := render(t, newBlock(t, content), nil, nil)

		assert.Contains(t, out, "<h2>"+heading+"</h2>")
		assert.Contains(t, out, "<li>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</li>")
		assert.Contains(t, out, "<li>Fish &amp; Chips</li>")

		items := parseFragment(t, out)
		assert.Equal(t, []string{`<script>alert("x")</script>`, "Fish & Chips"}, items[len(items)-2:])
	})

	t.Run("every matched post is listed", func(t *testing.T) {
		content := testutil.NewFakeContent()
		for i := 0; i < 7; i++ {
			content.Posts = append(content.Posts, core.Post{ID: int64(i + 1), Title: "p"})
		}
		out := render(t, newBlock(t, content), nil, nil)
		assert.Equal(t, 7, strings.Count(out, "<li>p</li>"))
	})
}

func TestRender_FilteredQuery(t *testing.T) {
	content := testutil.NewFakeContent()
	render(t, newBlock(t, content), nil, nil)

	q, ok := content.LastQuery()
	require.True(t, ok)

	assert.Equal(t, []string{"post", "page"}, q.PostTypes)
	assert.True(t, q.AnyStatus())
	assert.Equal(t, []string{"foo"}, q.Tag)
	assert.Equal(t, []string{"baz"}, q.CategoryName)
	assert.False(t, q.SuppressFilters)

	// Two independent hour clauses under the default relation.
	assert.Equal(t, core.RelationAnd, q.DateQuery.Relation)
	require.Len(t, q.DateQuery.Clauses, 2)
	assert.Equal(t, 9, *q.DateQuery.Clauses[0].Hour)
	assert.Equal(t, ">=", q.DateQuery.Clauses[0].Compare)
	assert.Equal(t, 17, *q.DateQuery.Clauses[1].Hour)
	assert.Equal(t, "<=", q.DateQuery.Clauses[1].Compare)

	// The page size key has a trailing space and is not applied.
	assert.Zero(t, q.PostsPerPage)
	assert.Equal(t, []string{"posts_per_page "}, q.Ignored)

	_, hasCap := FilteredQueryArgs()["posts_per_page"]
	assert.False(t, hasCap)
}

func TestRender_HostFailures(t *testing.T) {
	boom := errors.New("database is locked")

	t.Run("catalog failure omits counts only", func(t *testing.T) {
		logger, logs := testutil.NewBufferLogger(t)
		content := testutil.NewFakeContent()
		content.ListErr = boom
		content.Posts = []core.Post{{ID: 1, Title: "Still here"}}

		out := New(content, content, nil, logger).Render(context.Background(), nil, "", blocks.Context{"postId": 5})

		parseFragment(t, out)
		assert.NotContains(t, out, "Post Counts")
		assert.Contains(t, out, "The current post ID is 5.")
		assert.Contains(t, out, "<li>Still here</li>")
		assert.Contains(t, logs.String(), "failed to list public content types")
		assert.Contains(t, logs.String(), "database is locked")
	})

	t.Run("count and metadata failures degrade per type", func(t *testing.T) {
		logger, logs := testutil.NewBufferLogger(t)
		content := testutil.NewFakeContent()
		content.SetPublished("post", 2)
		content.SetPublished("page", 4)
		content.CountErr = map[string]error{"page": boom}
		content.TypeErr = map[string]error{"attachment": boom}

		out := New(content, content, nil, logger).Render(context.Background(), nil, "", nil)

		assert.Equal(t, []string{
			"There are 2 Posts.",
			"There are 0 Pages.",
			"There are 0 attachment.",
		}, parseFragment(t, out))
		assert.Contains(t, logs.String(), "failed to count posts")
		assert.Contains(t, logs.String(), "failed to load content type")
	})

	t.Run("query failure omits filtered section", func(t *testing.T) {
		logger, logs := testutil.NewBufferLogger(t)
		content := testutil.NewFakeContent()
		content.QueryErr = boom

		out := New(content, content, nil, logger).Render(context.Background(), nil, "", nil)

		parseFragment(t, out)
		assert.Contains(t, out, "Post Counts")
		assert.NotContains(t, out, "posts with the tag")
		assert.Contains(t, logs.String(), "filtered query failed")
	})

	t.Run("no host collaborators", func(t *testing.T) {
		out := New(nil, nil, nil, nil).Render(context.Background(), nil, "", blocks.Context{"postId": 3})
		assert.Equal(t, `<div class=""><p>The current post ID is 3.</p></div>`, out)
	})
}

func TestRender_Translated(t *testing.T) {
	tr, err := i18n.New()
	require.NoError(t, err)

	content := testutil.NewFakeContent()
	content.SetPublished("post", 3)
	content.SetPublished("page", 1)
	content.Posts = []core.Post{{ID: 1, Title: "Hallo"}}

	b := New(content, content, tr, testutil.NewTestLogger(t))
	ctx := i18n.WithLocale(context.Background(), "de_DE")
	out := b.Render(ctx, nil, "", blocks.Context{"postId": 1000})

	assert.Contains(t, out, "<h2>Beitragszahlen</h2>")
	assert.Contains(t, out, "<li>Es gibt 3 Beiträge.</li>")
	assert.Contains(t, out, "<li>Es gibt 1 Seite.</li>")
	assert.Contains(t, out, "<p>Die aktuelle Beitrags-ID ist 1000.</p>")
	assert.Contains(t, out, "<h2>5 Beiträge mit dem Schlagwort foo und der Kategorie baz</h2>")
	parseFragment(t, out)
}

func TestRender_LargeCountsAreNotGrouped(t *testing.T) {
	tr, err := i18n.New()
	require.NoError(t, err)

	content := testutil.NewFakeContent()
	content.SetPublished("post", 12345)

	for locale, want := range map[string]string{
		"en": "<li>There are 12345 Posts.</li>",
		"de": "<li>Es gibt 12345 Beiträge.</li>",
		"fr": "<li>Il y a 12345 articles.</li>",
	} {
		b := New(content, content, tr, testutil.NewTestLogger(t))
		out := b.Render(i18n.WithLocale(context.Background(), locale), nil, "", nil)
		assert.Contains(t, out, want, locale)
	}
}

func TestCounts_DoesNotQueryPosts(t *testing.T) {
	content := testutil.NewFakeContent()
	content.SetPublished("post", 2)
	content.QueryErr = errors.New("query should not run")

	counts, ok := newBlock(t, content).Counts(context.Background())
	require.True(t, ok)
	assert.Equal(t, []TypeCount{
		{Slug: "post", Label: "Posts", Published: 2},
		{Slug: "page", Label: "Pages", Published: 0},
		{Slug: "attachment", Label: "Media", Published: 0},
	}, counts)
	assert.Empty(t, content.Queries)

	content.ListErr = errors.New("catalog down")
	_, ok = newBlock(t, content).Counts(context.Background())
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	content := testutil.NewFakeContent()
	content.SetPublished("post", 1)

	reg := blocks.NewRegistry(testutil.NewTestLogger(t))
	require.NoError(t, newBlock(t, content).Register(reg))

	bt, ok := reg.Get(Name)
	require.True(t, ok)
	assert.Equal(t, "Site Counts", bt.Title)
	assert.Equal(t, i18n.Domain, bt.TextDomain)
	assert.Equal(t, []string{"postId"}, bt.UsesContext)
	assert.Equal(t, blocks.TypeString, bt.Attributes["className"].Type)

	t.Run("render through the registry", func(t *testing.T) {
		out := reg.Render(context.Background(), Name,
			blocks.Attributes{"className": "a b<script>"}, "",
			blocks.Context{"postId": 7, "postType": "post"})

		assert.True(t, strings.HasPrefix(out, `<div class="abscript">`), out)
		assert.Contains(t, out, "There are 1 Post.")
		assert.Contains(t, out, "The current post ID is 7.")
		parseFragment(t, out)
	})

	t.Run("mistyped class name falls back to empty", func(t *testing.T) {
		out := reg.Render(context.Background(), Name, blocks.Attributes{"className": 99}, "", nil)
		assert.True(t, strings.HasPrefix(out, `<div class="">`), out)
	})

	t.Run("second registration fails", func(t *testing.T) {
		assert.Error(t, newBlock(t, content).Register(reg))
	})
}

func TestSanitizeHTMLClass(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"wide", "wide"},
		{"a b<script>", "abscript"},
		{"is-style-large_2", "is-style-large_2"},
		{`x" onmouseover="alert(1)`, "xonmouseoveralert1"},
		{"100%25off%zz", "100offzz"},
		{"ünïcødé", "ncd"},
		{"", ""},
		{nil, ""},
		{42, ""},
		{[]string{"a"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeHTMLClass(tt.in), "input %v", tt.in)
	}
}

func TestSanitizeHTMLClass_AdversarialInput(t *testing.T) {
	valid := regexp.MustCompile(`^[A-Za-z0-9_-]*$`)
	alphabet := []rune(`abcXYZ019_- <>"'&%=/\;:.` + "\t\n\x00é€")
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		n := rng.Intn(24)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		got := SanitizeHTMLClass(string(runes))
		require.Regexp(t, valid, got, "input %q", string(runes))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestView_WriteError(t *testing.T) {
	err := View(Report{CountsLoaded: true}, i18n.Fallback()).Render(context.Background(), failingWriter{})
	assert.EqualError(t, err, "closed pipe")
}

func TestPostID(t *testing.T) {
	assert.Equal(t, int64(0), postID(nil))
	assert.Equal(t, int64(9), postID(uint(9)))
	assert.Equal(t, int64(9), postID(int32(9)))
	assert.Equal(t, int64(0), postID(true))
}
