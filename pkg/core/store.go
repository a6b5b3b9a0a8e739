package core

import "context"

// ContentTypeFilter narrows a catalog listing. Nil fields match everything.
type ContentTypeFilter struct {
	Public *bool
}

// PublicOnly is the filter for publicly visible content types.
func PublicOnly() ContentTypeFilter {
	public := true
	return ContentTypeFilter{Public: &public}
}

// Matches reports whether a content type passes the filter.
func (f ContentTypeFilter) Matches(ct ContentType) bool {
	if f.Public != nil && ct.Public != *f.Public {
		return false
	}
	return true
}

// Catalog is the host's registry of content types.
type Catalog interface {
	// ListContentTypes returns matching slugs in registration order.
	ListContentTypes(ctx context.Context, filter ContentTypeFilter) ([]string, error)
	// GetContentType returns ErrNotFound for unknown slugs.
	GetContentType(ctx context.Context, slug string) (*ContentType, error)
	// CountPosts returns per-status counts for one content type.
	CountPosts(ctx context.Context, slug string) (StatusCounts, error)
}

// PostQuerier runs content queries.
type PostQuerier interface {
	QueryPosts(ctx context.Context, q PostQuery) ([]Post, error)
}

// ContentStore is the full host content interface.
type ContentStore interface {
	Catalog
	PostQuerier

	GetPost(ctx context.Context, id int64) (*Post, error)
	RegisterContentType(ctx context.Context, ct ContentType) error
	SavePost(ctx context.Context, post *Post, tags, categories []string) error
	Close() error
}
