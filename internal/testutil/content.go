package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// FakeContent is an in-memory core.Catalog and core.PostQuerier.
// Error fields let tests force individual calls to fail.
type FakeContent struct {
	mu sync.Mutex

	Types  []core.ContentType
	Counts map[string]core.StatusCounts
	Posts  []core.Post

	ListErr  error
	TypeErr  map[string]error
	CountErr map[string]error
	QueryErr error

	// Queries records every query received, in order.
	Queries []core.PostQuery
}

// NewFakeContent returns a fake holding the host's built-in public types.
func NewFakeContent() *FakeContent {
	return &FakeContent{
		Types: []core.ContentType{
			{Slug: "post", Labels: core.ContentTypeLabels{Name: "Posts", SingularName: "Post"}, Public: true, Position: 1},
			{Slug: "page", Labels: core.ContentTypeLabels{Name: "Pages", SingularName: "Page"}, Public: true, Position: 2},
			{Slug: "attachment", Labels: core.ContentTypeLabels{Name: "Media", SingularName: "Media"}, Public: true, Position: 3},
			{Slug: "revision", Labels: core.ContentTypeLabels{Name: "Revisions", SingularName: "Revision"}, Position: 4},
		},
		Counts: map[string]core.StatusCounts{},
	}
}

// ListContentTypes implements core.Catalog.
func (f *FakeContent) ListContentTypes(_ context.Context, filter core.ContentTypeFilter) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var slugs []string
	for _, ct := range f.Types {
		if filter.Matches(ct) {
			slugs = append(slugs, ct.Slug)
		}
	}
	return slugs, nil
}

// GetContentType implements core.Catalog.
func (f *FakeContent) GetContentType(_ context.Context, slug string) (*core.ContentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.TypeErr[slug]; err != nil {
		return nil, err
	}
	for _, ct := range f.Types {
		if ct.Slug == slug {
			c := ct
			return &c, nil
		}
	}
	return nil, fmt.Errorf("content type %q: %w", slug, core.ErrNotFound)
}

// CountPosts implements core.Catalog.
func (f *FakeContent) CountPosts(_ context.Context, slug string) (core.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CountErr[slug]; err != nil {
		return nil, err
	}
	return f.Counts[slug], nil
}

// QueryPosts implements core.PostQuerier. It records the query and returns
// the configured posts unfiltered.
func (f *FakeContent) QueryPosts(_ context.Context, q core.PostQuery) ([]core.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, q)
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	out := make([]core.Post, len(f.Posts))
	copy(out, f.Posts)
	return out, nil
}

// SetPublished sets the published count of a content type.
func (f *FakeContent) SetPublished(slug string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Counts == nil {
		f.Counts = map[string]core.StatusCounts{}
	}
	f.Counts[slug] = core.StatusCounts{core.StatusPublish: n}
}

// LastQuery returns the most recent query, or false when none ran.
func (f *FakeContent) LastQuery() (core.PostQuery, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Queries) == 0 {
		return core.PostQuery{}, false
	}
	return f.Queries[len(f.Queries)-1], true
}
