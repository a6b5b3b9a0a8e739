package sitecounts

import (
	"context"
	"math"
	"regexp"
	"strconv"

	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// The filtered section's fixed criteria.
const (
	FilterTag      = "foo"
	FilterCategory = "baz"
)

// TypeCount is one line of the counts section.
type TypeCount struct {
	Slug      string
	Label     string
	Published int
}

// Report is everything one render shows. It lives for a single render.
type Report struct {
	ClassName string

	// CountsLoaded is false when the catalog could not be listed.
	CountsLoaded bool
	Counts       []TypeCount

	// CurrentPostID is zero when there is no current post.
	CurrentPostID int64

	FilteredPosts []core.PostSummary
}

// FilteredQueryArgs returns the block's filtered query as WP_Query-style
// args. The two hour clauses stay independent, joined by the default AND
// relation, and the page size key keeps its trailing space, so the query
// parser ignores it and the store's default page size applies.
func FilteredQueryArgs() core.QueryArgs {
	return core.QueryArgs{
		"post_type":   []string{"post", "page"},
		"post_status": "any",
		"date_query": []map[string]any{
			{
				"hour":    9,
				"compare": ">=",
			},
			{
				"hour":    17,
				"compare": "<=",
			},
		},
		"tag":              FilterTag,
		"category_name":    FilterCategory,
		"posts_per_page ":  5,
		"suppress_filters": false,
	}
}

// BuildReport gathers the data for one render. Failures are logged and
// leave the affected part empty; BuildReport itself never fails.
func (b *Block) BuildReport(ctx context.Context, attrs blocks.Attributes, block blocks.Context) Report {
	report := Report{
		ClassName:     SanitizeHTMLClass(attrs["className"]),
		CurrentPostID: postID(block["postId"]),
	}

	report.Counts, report.CountsLoaded = b.Counts(ctx)
	report.FilteredPosts = b.filteredPosts(ctx)
	return report
}

// Counts returns the published count and label of every public content
// type in catalog order. The bool is false when the catalog could not be
// listed; per-type failures fall back to a zero count or the slug.
func (b *Block) Counts(ctx context.Context) ([]TypeCount, bool) {
	if b.catalog == nil {
		b.logger.Error("no content catalog configured")
		return nil, false
	}

	slugs, err := b.catalog.ListContentTypes(ctx, core.PublicOnly())
	if err != nil {
		b.logger.Error("failed to list public content types", "error", err)
		return nil, false
	}

	out := make([]TypeCount, 0, len(slugs))
	for _, slug := range slugs {
		tc := TypeCount{Slug: slug}

		counts, err := b.catalog.CountPosts(ctx, slug)
		if err != nil {
			b.logger.Warn("failed to count posts", "type", slug, "error", err)
		} else {
			tc.Published = counts.Published()
		}

		ct, err := b.catalog.GetContentType(ctx, slug)
		if err != nil {
			b.logger.Warn("failed to load content type", "type", slug, "error", err)
			tc.Label = slug
		} else {
			tc.Label = ct.Label(tc.Published)
		}

		out = append(out, tc)
	}
	return out, true
}

func (b *Block) filteredPosts(ctx context.Context) []core.PostSummary {
	if b.querier == nil {
		b.logger.Error("no post querier configured")
		return nil
	}

	q, err := core.ParseQueryArgs(FilteredQueryArgs())
	if err != nil {
		b.logger.Error("invalid filtered query", "error", err)
		return nil
	}

	posts, err := b.querier.QueryPosts(ctx, q)
	if err != nil {
		b.logger.Error("filtered query failed", "error", err)
		return nil
	}

	out := make([]core.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summary())
	}
	return out
}

// postID reads the postId context value. Anything that is not a positive
// whole number means there is no current post.
func postID(value any) int64 {
	var id int64
	switch v := value.(type) {
	case int:
		id = int64(v)
	case int32:
		id = int64(v)
	case int64:
		id = v
	case uint:
		if uint64(v) <= math.MaxInt64 {
			id = int64(v)
		}
	case uint64:
		if v <= math.MaxInt64 {
			id = int64(v)
		}
	case float64:
		if v == math.Trunc(v) && v < math.MaxInt64 {
			id = int64(v)
		}
	case string:
		id, _ = strconv.ParseInt(v, 10, 64)
	}
	if id < 0 {
		return 0
	}
	return id
}

var (
	percentOctet      = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	invalidClassChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// SanitizeHTMLClass reduces value to a single HTML class token: percent-encoded
// octets are removed, then every character other than A-Z, a-z, 0-9, '_' and
// '-'. Values that are not strings sanitize to "".
func SanitizeHTMLClass(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	s = percentOctet.ReplaceAllString(s, "")
	return invalidClassChars.ReplaceAllString(s, "")
}
