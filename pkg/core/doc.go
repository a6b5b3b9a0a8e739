// Package core defines the shared language of the SiteCounts host.
//
// This package contains:
//   - Domain entities (ContentType, Post, StatusCounts)
//   - Service interfaces (Catalog, PostQuerier, ContentStore)
//   - Query types (PostQuery, DateQuery) and WP_Query-style argument parsing
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
