package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/sitecounts/pkg/core"
	_ "modernc.org/sqlite"
)

// DefaultPostsPerPage is the page size used when a query does not set one.
const DefaultPostsPerPage = 10

// dateLayout is how post dates are stored; strftime understands it directly.
// Dates keep the wall clock they were written with and carry no zone.
const dateLayout = "2006-01-02 15:04:05"

var _ core.ContentStore = (*SQLiteStore)(nil)

// SQLiteStore implements core.ContentStore using SQLite.
type SQLiteStore struct {
	db           *sql.DB
	tx           *sql.Tx
	path         string
	postsPerPage int
	logger       *slog.Logger
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithPostsPerPage sets the page size for queries that leave it unset.
func WithPostsPerPage(n int) Option {
	return func(s *SQLiteStore) {
		if n != 0 {
			s.postsPerPage = n
		}
	}
}

// NewSQLiteStore creates a new SQLite content store instance.
func NewSQLiteStore(logger *slog.Logger, opts ...Option) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &SQLiteStore{
		postsPerPage: DefaultPostsPerPage,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSQLiteStoreWithDB wraps an already opened connection. Migrations are not run.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger, opts ...Option) *SQLiteStore {
	s := NewSQLiteStore(logger, opts...)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database and applies migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is its own database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path

	if err := s.Migrate(); err != nil {
		_ = db.Close()
		s.db = nil
		return err
	}

	s.logger.Debug("content store opened", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection. It is a no-op on the store
// passed to a WithTx callback.
func (s *SQLiteStore) Close() error {
	if s.tx != nil {
		return nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// dbtx is the query surface shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the open transaction, or the database outside of one.
func (s *SQLiteStore) conn() dbtx {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// WithTx runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(core.ContentStore) error) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		scoped := *s
		scoped.tx = tx
		return fn(&scoped)
	})
}

// inTx runs fn in the store's open transaction, or in a new one it commits.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ready() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
