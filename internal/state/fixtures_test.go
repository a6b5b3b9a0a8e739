package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixtures = `
content_types:
  - slug: book
    name: Books
    singular_name: Book
  - slug: internal_note
    name: Notes
    public: false
posts:
  - title: Hello world
    slug: hello-world
    date: 2024-03-01T10:30:00Z
    tags: [foo]
    categories: [baz]
  - type: page
    title: About
    slug: about
    status: draft
    date: 2024-03-02T12:00:00Z
  - type: book
    title: A Book
    guid: book-guid-1
    date: 2024-03-03T08:00:00Z
`

func TestParseFixtures(t *testing.T) {
	f, err := ParseFixtures([]byte(sampleFixtures))
	require.NoError(t, err)

	require.Len(t, f.ContentTypes, 2)
	assert.Equal(t, "book", f.ContentTypes[0].Slug)
	assert.Nil(t, f.ContentTypes[0].Public)
	require.NotNil(t, f.ContentTypes[1].Public)
	assert.False(t, *f.ContentTypes[1].Public)

	require.Len(t, f.Posts, 3)
	assert.Equal(t, []string{"foo"}, f.Posts[0].Tags)
	assert.Equal(t, 10, f.Posts[0].Date.Hour())

	_, err = ParseFixtures([]byte("posts: {not: [a list"))
	assert.Error(t, err)
}

func TestApplyFixtures(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixtures), 0600))

	f, err := LoadFixtures(path)
	require.NoError(t, err)

	res, err := ApplyFixtures(ctx, store, f, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, FixtureResult{ContentTypes: 2, Posts: 3}, res)

	// Applying twice must not duplicate posts
	_, err = ApplyFixtures(ctx, store, f, nil)
	require.NoError(t, err)

	public, err := store.ListContentTypes(ctx, core.PublicOnly())
	require.NoError(t, err)
	assert.Equal(t, []string{"post", "page", "attachment", "book"}, public)

	posts, err := store.CountPosts(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, 1, posts.Published())

	pages, err := store.CountPosts(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 1, pages.Get(core.StatusDraft))

	books, err := store.QueryPosts(ctx, core.PostQuery{PostTypes: []string{"book"}})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "book-guid-1", books[0].GUID)

	tagged, err := store.QueryPosts(ctx, core.PostQuery{Tag: []string{"foo"}, CategoryName: []string{"baz"}})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Hello world", tagged[0].Title)
}

func TestApplyFixtures_Errors(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	res, err := ApplyFixtures(ctx, store, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res)

	_, err = ApplyFixtures(ctx, store, &Fixtures{
		Posts: []FixturePost{{Title: "Unknown type", Type: "ghost"}},
	}, nil)
	assert.ErrorContains(t, err, "fixture post 0")
}

func TestFixturePost_StableGUID(t *testing.T) {
	a := FixturePost{Title: "Hello", Slug: "hello"}.toPost()
	b := FixturePost{Title: "Hello again", Slug: "hello"}.toPost()
	c := FixturePost{Type: "page", Slug: "hello"}.toPost()

	assert.Equal(t, a.GUID, b.GUID)
	assert.NotEqual(t, a.GUID, c.GUID)
	assert.Equal(t, "post", a.Type)
}

func TestApplyFixtures_UndatedPostKeepsFirstDate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	f, err := ParseFixtures([]byte("posts:\n  - {title: Undated, slug: undated}\n"))
	require.NoError(t, err)

	_, err = ApplyFixtures(ctx, store, f, nil)
	require.NoError(t, err)
	first, err := store.QueryPosts(ctx, core.PostQuery{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Date.IsZero())

	// Dates are stored at second precision.
	time.Sleep(1100 * time.Millisecond)

	_, err = ApplyFixtures(ctx, store, f, nil)
	require.NoError(t, err)
	second, err := store.QueryPosts(ctx, core.PostQuery{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Date, second[0].Date)
	assert.Equal(t, first[0].Modified, second[0].Modified)
}

func TestApplyFixtures_OffsetDateKeepsWallClock(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	f, err := ParseFixtures([]byte("posts:\n  - {title: Local, slug: local, date: 2024-05-01T16:30:00-05:00}\n"))
	require.NoError(t, err)
	_, err = ApplyFixtures(ctx, store, f, nil)
	require.NoError(t, err)

	posts, err := store.QueryPosts(ctx, core.PostQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, at("2024-05-01 16:30:00"), posts[0].Date)
}

func TestApplyFixtures_FailureLeavesNoWrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := ApplyFixtures(ctx, store, &Fixtures{
		ContentTypes: []FixtureContentType{{Slug: "book", Name: "Books"}},
		Posts: []FixturePost{
			{Title: "Kept?", Slug: "kept", Date: at("2024-03-01 10:00:00")},
			{Title: "Broken", Slug: "broken", Status: "archived"},
		},
	}, nil)
	require.ErrorContains(t, err, "fixture post 1")

	counts, err := store.CountPosts(ctx, "post")
	require.NoError(t, err)
	assert.Zero(t, counts.Get(core.StatusPublish))

	_, err = store.GetContentType(ctx, "book")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
