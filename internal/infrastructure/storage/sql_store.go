package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const postedTable = "posted_articles"

// SQLStore persists posted URLs in a relational table. Rows are only inserted;
// duplicates are allowed at write time just like the file store.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ Store = (*SQLStore)(nil)

func newSQLStore(db *sql.DB, placeholders sq.PlaceholderFormat) *SQLStore {
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholders),
	}
}

func (s *SQLStore) ensureSchema(ctx context.Context, ddl string) error {
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// HasBeenPosted reports whether url was recorded before.
func (s *SQLStore) HasBeenPosted(ctx context.Context, url string) (bool, error) {
	query, args, err := s.builder.
		Select("1").
		From(postedTable).
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build lookup: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query posted: %w", err)
	}
	return true, nil
}

// MarkAsPosted inserts a new row for url.
func (s *SQLStore) MarkAsPosted(ctx context.Context, url string) error {
	query, args, err := s.builder.
		Insert(postedTable).
		Columns("url").
		Values(url).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert posted: %w", err)
	}
	return nil
}

// List returns recorded URLs in insertion order.
func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	query, args, err := s.builder.
		Select("url").
		From(postedTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query list: %w", err)
	}

	var out []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan url: %w", err)
		}
		out = append(out, url)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
