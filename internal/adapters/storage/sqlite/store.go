// Package sqlite implements quote persistence over SQLite.
//
// A single database file backs both the bounded quote cache and the user's
// favorites so the two share one durability and locking story.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT NOT NULL UNIQUE,
	author     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS favorites (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	text     TEXT NOT NULL UNIQUE,
	author   TEXT NOT NULL,
	added_at INTEGER NOT NULL
);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements ports.QuoteCache and ports.FavoriteStore over SQLite.
type Store struct {
	sqlDB      *sql.DB
	maxEntries int
	now        func() time.Time
}

// Open opens the store at path and applies the schema. maxEntries bounds the
// quote cache; the oldest entries are evicted once the bound is exceeded.
//
// A persisted file that cannot be read as a database is treated as empty: the
// file is moved aside and a fresh database takes its place, so startup never
// fails on corrupt state.
func Open(path string, maxEntries int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if maxEntries < 1 {
		return nil, fmt.Errorf("max entries must be positive, got %d", maxEntries)
	}

	cleanPath := filepath.Clean(path)

	sqlDB, err := openAndMigrate(cleanPath)
	if err != nil {
		slog.Default().Warn("store unusable, starting empty",
			slog.String("path", cleanPath),
			slog.Any("error", err),
		)

		if renameErr := os.Rename(cleanPath, cleanPath+".corrupt"); renameErr != nil {
			return nil, fmt.Errorf("reset corrupt db: %w", errors.Join(err, renameErr))
		}

		sqlDB, err = openAndMigrate(cleanPath)
		if err != nil {
			return nil, err
		}
	}

	return &Store{
		sqlDB:      sqlDB,
		maxEntries: maxEntries,
		now:        time.Now,
	}, nil
}

func openAndMigrate(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return sqlDB, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Record implements ports.QuoteCache. Duplicate text is ignored silently;
// once the cache exceeds its bound the oldest rows are evicted in the same
// transaction, so the bound holds even under concurrent writers.
func (s *Store) Record(ctx context.Context, quote domain.Quote) error {
	if !quote.Valid() {
		return &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO quotes (text, author, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(text) DO NOTHING`,
		quote.Text, quote.Author, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if inserted > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM quotes WHERE id NOT IN (
				SELECT id FROM quotes ORDER BY id DESC LIMIT ?
			)`,
			s.maxEntries,
		)
		if err != nil {
			return fmt.Errorf("evict oldest quotes: %w", err)
		}
	}

	return tx.Commit()
}

// SampleOne implements ports.QuoteCache with a uniformly random pick.
func (s *Store) SampleOne(ctx context.Context) (*domain.Quote, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT text, author FROM quotes ORDER BY RANDOM() LIMIT 1`)

	var quote domain.Quote
	err := row.Scan(&quote.Text, &quote.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoQuote
	}
	if err != nil {
		return nil, fmt.Errorf("sample quote: %w", err)
	}

	return &quote, nil
}

// Size implements ports.QuoteCache.
func (s *Store) Size(ctx context.Context) (int, error) {
	var count int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}

	return count, nil
}

// Clear implements ports.QuoteCache.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM quotes`); err != nil {
		return fmt.Errorf("clear quotes: %w", err)
	}

	return nil
}

// Add implements ports.FavoriteStore. Adding a quote that is already a
// favorite returns the existing favorite unchanged.
func (s *Store) Add(ctx context.Context, quote domain.Quote) (*domain.Favorite, error) {
	if !quote.Valid() {
		return nil, &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO favorites (text, author, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(text) DO NOTHING`,
		quote.Text, quote.Author, toMillis(s.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert favorite: %w", err)
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT text, author, added_at FROM favorites WHERE text = ?`, quote.Text)

	var fav domain.Favorite
	var addedAt int64
	if err := row.Scan(&fav.Text, &fav.Author, &addedAt); err != nil {
		return nil, fmt.Errorf("load favorite: %w", err)
	}
	fav.AddedAt = fromMillis(addedAt)

	return &fav, nil
}

// Remove implements ports.FavoriteStore.
func (s *Store) Remove(ctx context.Context, text string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM favorites WHERE text = ?`, text)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "favorite"}
	}

	return nil
}

// List implements ports.FavoriteStore, newest first. It returns the page and
// the total favorite count.
func (s *Store) List(ctx context.Context, offset, limit int) ([]domain.Favorite, int, error) {
	var total int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT text, author, added_at FROM favorites
		 ORDER BY added_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	favorites := make([]domain.Favorite, 0, limit)
	for rows.Next() {
		var fav domain.Favorite
		var addedAt int64
		if err := rows.Scan(&fav.Text, &fav.Author, &addedAt); err != nil {
			return nil, 0, fmt.Errorf("scan favorite: %w", err)
		}
		fav.AddedAt = fromMillis(addedAt)
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorites: %w", err)
	}

	return favorites, total, nil
}

// CheckHealth implements ports.HealthChecker.
func (s *Store) CheckHealth(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Name: "sqlite", Healthy: true}

	if err := s.sqlDB.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Detail = err.Error()
	}

	return status
}
