package home

import (
	"github.com/leapstack-labs/sitecounts/internal/blocks/sitecounts"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// RecentPostsLimit caps the front page listing.
const RecentPostsLimit = 10

// BlockClassName is the class the host gives the embedded block.
const BlockClassName = "wp-block-xwp-site-counts"

// BlockName is the block every page embeds.
const BlockName = sitecounts.Name

// recentPostsQuery lists the newest published posts.
var recentPostsQuery = core.PostQuery{
	PostTypes:    []string{"post"},
	PostStatus:   []core.PostStatus{core.StatusPublish},
	PostsPerPage: RecentPostsLimit,
}
