package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// Taxonomies posts can be tagged with.
const (
	TaxonomyTag      = "post_tag"
	TaxonomyCategory = "category"
)

const postColumns = `p.id, p.guid, p.post_type, p.post_status, p.title, p.slug, p.content, p.post_date, p.post_modified`

// strftime formats for each date clause part.
var dateParts = []struct {
	format string
	value  func(core.DateClause) *int
}{
	{"%Y", func(c core.DateClause) *int { return c.Year }},
	{"%m", func(c core.DateClause) *int { return c.Month }},
	{"%d", func(c core.DateClause) *int { return c.Day }},
	{"%H", func(c core.DateClause) *int { return c.Hour }},
	{"%M", func(c core.DateClause) *int { return c.Minute }},
}

var orderColumns = map[string]string{
	"":         "p.post_date",
	"date":     "p.post_date",
	"modified": "p.post_modified",
	"title":    "p.title",
	"ID":       "p.id",
	"id":       "p.id",
}

// QueryPosts runs a content query and returns matching posts.
func (s *SQLiteStore) QueryPosts(ctx context.Context, q core.PostQuery) ([]core.Post, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	if len(q.Ignored) > 0 {
		s.logger.Debug("ignoring unrecognized query args", slog.Any("keys", q.Ignored))
	}

	query, args, err := s.buildPostQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []core.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return posts, nil
}

// buildPostQuery translates a PostQuery into SQL and its arguments.
func (s *SQLiteStore) buildPostQuery(q core.PostQuery) (string, []any, error) {
	var where []string
	var args []any

	if !q.AnyType {
		types := q.PostTypes
		if len(types) == 0 {
			types = []string{"post"}
		}
		where = append(where, "p.post_type IN ("+placeholders(len(types))+")")
		for _, t := range types {
			args = append(args, t)
		}
	}

	switch {
	case q.AnyStatus():
		where = append(where, "p.post_status NOT IN (?, ?)")
		args = append(args, string(core.StatusTrash), string(core.StatusAutoDraft))
	case len(q.PostStatus) > 0:
		where = append(where, "p.post_status IN ("+placeholders(len(q.PostStatus))+")")
		for _, st := range q.PostStatus {
			args = append(args, string(st))
		}
	default:
		where = append(where, "p.post_status = ?")
		args = append(args, string(core.StatusPublish))
	}

	for _, tf := range []struct {
		taxonomy string
		slugs    []string
	}{
		{TaxonomyTag, q.Tag},
		{TaxonomyCategory, q.CategoryName},
	} {
		if len(tf.slugs) == 0 {
			continue
		}
		where = append(where, `EXISTS (
			SELECT 1 FROM term_relationships tr
			JOIN terms t ON t.id = tr.term_id
			WHERE tr.post_id = p.id AND t.taxonomy = ? AND t.slug IN (`+placeholders(len(tf.slugs))+`))`)
		args = append(args, tf.taxonomy)
		for _, slug := range tf.slugs {
			args = append(args, termSlug(slug))
		}
	}

	if !q.DateQuery.Empty() {
		clause, clauseArgs := dateQuerySQL(q.DateQuery)
		if clause != "" {
			where = append(where, clause)
			args = append(args, clauseArgs...)
		}
	}

	orderCol, ok := orderColumns[q.OrderBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported orderby %q", q.OrderBy)
	}
	direction := "DESC"
	if q.Order == "ASC" {
		direction = "ASC"
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + postColumns + " FROM posts p")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, p.id %s", orderCol, direction, direction)

	limit := q.PostsPerPage
	if limit == 0 {
		limit = s.postsPerPage
	}
	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	return sb.String(), args, nil
}

// dateQuerySQL renders every clause on its own and joins them with the relation.
func dateQuerySQL(dq core.DateQuery) (string, []any) {
	var clauses []string
	var args []any

	for _, c := range dq.Clauses {
		column := "p." + c.Column
		if c.Column == "" {
			column = "p." + core.ColumnPostDate
		}
		op := c.Compare
		if op == "" {
			op = "="
		}

		var parts []string
		for _, part := range dateParts {
			v := part.value(c)
			if v == nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER) %s ?", part.format, column, op))
			args = append(args, *v)
		}
		if len(parts) > 0 {
			clauses = append(clauses, "("+strings.Join(parts, " AND ")+")")
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}

	relation := " AND "
	if dq.Relation == core.RelationOr {
		relation = " OR "
	}
	return "(" + strings.Join(clauses, relation) + ")", args
}

// GetPost retrieves a post by id.
func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*core.Post, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	row := s.conn().QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = ?", id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// SavePost inserts a post or updates the one with the same GUID, then
// replaces its tags and categories. The post's ID, GUID and dates are filled
// in. Updating with a zero Date keeps the stored dates.
func (s *SQLiteStore) SavePost(ctx context.Context, post *core.Post, tags, categories []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post is required")
	}
	if post.Type == "" {
		post.Type = "post"
	}
	if post.Status == "" {
		post.Status = core.StatusPublish
	}
	if !post.Status.Valid() {
		return fmt.Errorf("invalid post status %q", post.Status)
	}
	if post.GUID == "" {
		post.GUID = uuid.NewString()
	}
	keepDate := post.Date.IsZero()
	keepModified := keepDate && post.Modified.IsZero()
	if post.Modified.IsZero() {
		post.Modified = post.Date
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var date, modified string
		err := tx.QueryRowContext(ctx,
			`INSERT INTO posts (guid, post_type, post_status, title, slug, content, post_date, post_modified)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (guid) DO UPDATE SET
			     post_type = excluded.post_type,
			     post_status = excluded.post_status,
			     title = excluded.title,
			     slug = excluded.slug,
			     content = excluded.content,
			     post_date = CASE WHEN ? THEN posts.post_date ELSE excluded.post_date END,
			     post_modified = CASE WHEN ? THEN posts.post_modified ELSE excluded.post_modified END
			 RETURNING id, post_date, post_modified`,
			post.GUID, post.Type, string(post.Status), post.Title, post.Slug, post.Content,
			formatDate(post.Date), formatDate(post.Modified),
			boolToInt(keepDate), boolToInt(keepModified),
		).Scan(&post.ID, &date, &modified)
		if err != nil {
			return fmt.Errorf("failed to save post %q: %w", post.Title, err)
		}
		post.Date = parseDate(date)
		post.Modified = parseDate(modified)

		if _, err := tx.ExecContext(ctx, `DELETE FROM term_relationships WHERE post_id = ?`, post.ID); err != nil {
			return fmt.Errorf("failed to clear post terms: %w", err)
		}

		for _, set := range []struct {
			taxonomy string
			names    []string
		}{
			{TaxonomyTag, tags},
			{TaxonomyCategory, categories},
		} {
			for _, name := range set.names {
				if err := attachTerm(ctx, tx, post.ID, set.taxonomy, name); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func attachTerm(ctx context.Context, tx *sql.Tx, postID int64, taxonomy, name string) error {
	slug := termSlug(name)
	if slug == "" {
		return nil
	}

	var termID int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO terms (taxonomy, slug, name) VALUES (?, ?, ?)
		 ON CONFLICT (taxonomy, slug) DO UPDATE SET name = terms.name
		 RETURNING id`,
		taxonomy, slug, strings.TrimSpace(name),
	).Scan(&termID)
	if err != nil {
		return fmt.Errorf("failed to save %s term %q: %w", taxonomy, name, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO term_relationships (post_id, term_id) VALUES (?, ?)`,
		postID, termID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach %s term %q: %w", taxonomy, name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*core.Post, error) {
	var p core.Post
	var status, date, modified string
	if err := row.Scan(&p.ID, &p.GUID, &p.Type, &status, &p.Title, &p.Slug, &p.Content, &date, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	p.Status = core.PostStatus(status)
	p.Date = parseDate(date)
	p.Modified = parseDate(modified)
	return &p, nil
}

// termSlug normalizes a term name into its slug.
func termSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
