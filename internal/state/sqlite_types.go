package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sitecounts/pkg/core"
)

// ListContentTypes returns the slugs of matching content types in registration order.
func (s *SQLiteStore) ListContentTypes(ctx context.Context, filter core.ContentTypeFilter) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT slug FROM content_types`
	var args []any
	if filter.Public != nil {
		query += ` WHERE public = ?`
		args = append(args, boolToInt(*filter.Public))
	}
	query += ` ORDER BY position, slug`

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan content type: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}

	return slugs, nil
}

// GetContentType retrieves a content type by slug.
func (s *SQLiteStore) GetContentType(ctx context.Context, slug string) (*core.ContentType, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	ct := &core.ContentType{}
	var public, hierarchical int
	err := s.conn().QueryRowContext(ctx,
		`SELECT slug, name, singular_name, description, public, hierarchical, position
		 FROM content_types WHERE slug = ?`,
		slug,
	).Scan(&ct.Slug, &ct.Labels.Name, &ct.Labels.SingularName, &ct.Description, &public, &hierarchical, &ct.Position)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content type %q: %w", slug, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}

	ct.Public = public == 1
	ct.Hierarchical = hierarchical == 1
	return ct, nil
}

// CountPosts returns the number of posts of a content type per status.
func (s *SQLiteStore) CountPosts(ctx context.Context, slug string) (core.StatusCounts, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.conn().QueryContext(ctx,
		`SELECT post_status, COUNT(*) FROM posts WHERE post_type = ? GROUP BY post_status`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	defer rows.Close()

	counts := core.StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan post count: %w", err)
		}
		counts[core.PostStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	return counts, nil
}

// RegisterContentType adds a content type or updates an existing one.
// A re-registered type keeps its original position.
func (s *SQLiteStore) RegisterContentType(ctx context.Context, ct core.ContentType) error {
	if err := s.ready(); err != nil {
		return err
	}
	if ct.Slug == "" {
		return fmt.Errorf("content type slug is required")
	}

	_, err := s.conn().ExecContext(ctx,
		`INSERT INTO content_types (slug, name, singular_name, description, public, hierarchical, position)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM content_types))
		 ON CONFLICT (slug) DO UPDATE SET
		     name = excluded.name,
		     singular_name = excluded.singular_name,
		     description = excluded.description,
		     public = excluded.public,
		     hierarchical = excluded.hierarchical`,
		ct.Slug, ct.Labels.Name, ct.Labels.SingularName, ct.Description,
		boolToInt(ct.Public), boolToInt(ct.Hierarchical),
	)
	if err != nil {
		return fmt.Errorf("failed to register content type %q: %w", ct.Slug, err)
	}

	s.logger.Debug("content type registered", slog.String("slug", ct.Slug), slog.Bool("public", ct.Public))
	return nil
}
