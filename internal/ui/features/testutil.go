// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/state"
	"github.com/leapstack-labs/sitecounts/internal/testutil"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// TestPost is a helper to create test posts with minimal boilerplate.
type TestPost struct {
	Title      string
	Type       string
	Status     core.PostStatus
	Content    string
	Date       time.Time
	Tags       []string
	Categories []string
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *state.SQLiteStore
	Registry     *blocks.Registry
	Translator   *i18n.Translator
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore

	// Posts holds the saved posts, with ids, in the order given.
	Posts []core.Post
}

// Deps returns the feature dependencies backed by the fixture.
func (f *TestFixture) Deps(t *testing.T) common.Deps {
	t.Helper()
	return common.Deps{
		Store:      f.Store,
		Blocks:     f.Registry,
		Translator: f.Translator,
		Sessions:   f.SessionStore,
		Notifier:   f.Notifier,
		Logger:     testutil.NewTestLogger(t),
	}
}

// SetupTestFixture creates an in-memory store holding posts, a block
// registry with the site counts block, translations and a notifier.
func SetupTestFixture(t *testing.T, posts ...TestPost) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	translator, err := i18n.New()
	require.NoError(t, err)

	registry := blocks.NewRegistry(logger)
	require.NoError(t, sitecounts.New(store, store, translator, logger).Register(registry))

	f := &TestFixture{
		Store:        store,
		Registry:     registry,
		Translator:   translator,
		Notifier:     notifier.New(),
		SessionStore: common.NewSessionStore("test-secret-key-32-bytes-long!!!"),
	}

	for _, tp := range posts {
		f.AddPost(t, tp)
	}
	return f
}

// AddPost saves a post and records it in f.Posts.
func (f *TestFixture) AddPost(t *testing.T, tp TestPost) core.Post {
	t.Helper()
	post := core.Post{
		Title:   tp.Title,
		Type:    tp.Type,
		Status:  tp.Status,
		Content: tp.Content,
		Date:    tp.Date,
	}
	require.NoError(t, f.Store.SavePost(context.Background(), &post, tp.Tags, tp.Categories))
	f.Posts = append(f.Posts, post)
	return post
}
