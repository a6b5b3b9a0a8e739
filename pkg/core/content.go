package core

import (
	"errors"
	"time"
)

// ErrNotFound is returned by store lookups when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ContentTypeLabels holds the display names of a content type.
type ContentTypeLabels struct {
	Name         string // plural, e.g. "Posts"
	SingularName string // e.g. "Post"
}

// ContentType is a host-defined category of publishable item (post, page, ...).
type ContentType struct {
	Slug         string
	Labels       ContentTypeLabels
	Description  string
	Public       bool
	Hierarchical bool
	// Position is the registration order; catalogs enumerate by it.
	Position int
}

// Label returns the label to show next to count items of this type.
// Types without label metadata fall back to their slug.
func (ct *ContentType) Label(count int) string {
	if ct == nil {
		return ""
	}
	label := ct.Labels.Name
	if count == 1 && ct.Labels.SingularName != "" {
		label = ct.Labels.SingularName
	}
	if label == "" {
		label = ct.Labels.SingularName
	}
	if label == "" {
		label = ct.Slug
	}
	return label
}

// PostStatus is the publication status of a post.
type PostStatus string

// Post status constants.
const (
	StatusPublish   PostStatus = "publish"
	StatusFuture    PostStatus = "future"
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPrivate   PostStatus = "private"
	StatusTrash     PostStatus = "trash"
	StatusAutoDraft PostStatus = "auto-draft"
	StatusInherit   PostStatus = "inherit"

	// StatusAny is a query keyword, never stored on a post.
	StatusAny PostStatus = "any"
)

// ExcludedFromAny reports whether a status is skipped by an "any" status query.
func (s PostStatus) ExcludedFromAny() bool {
	return s == StatusTrash || s == StatusAutoDraft
}

// Valid reports whether s is a storable status.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusPublish, StatusFuture, StatusDraft, StatusPending,
		StatusPrivate, StatusTrash, StatusAutoDraft, StatusInherit:
		return true
	}
	return false
}

// StatusCounts maps a status to the number of posts in it.
type StatusCounts map[PostStatus]int

// Get returns the count for a status; absent statuses count as zero.
func (c StatusCounts) Get(status PostStatus) int {
	if c == nil {
		return 0
	}
	return c[status]
}

// Published returns the number of published posts.
func (c StatusCounts) Published() int {
	return c.Get(StatusPublish)
}

// Post is a single content item.
type Post struct {
	ID       int64
	GUID     string
	Type     string
	Status   PostStatus
	Title    string
	Slug     string
	Content  string
	Date     time.Time
	Modified time.Time
}

// PostSummary is the id/title pair a listing needs.
type PostSummary struct {
	ID    int64
	Title string
}

// Summary trims a post down to its listing fields.
func (p Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, Title: p.Title}
}
