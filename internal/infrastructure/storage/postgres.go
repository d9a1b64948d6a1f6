package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS posted_articles (
    id        BIGSERIAL PRIMARY KEY,
    url       TEXT NOT NULL,
    posted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posted_articles_url ON posted_articles(url);
`

// OpenPostgres connects to dsn and makes sure the posted_articles table exists.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := newSQLStore(db, sq.Dollar)
	if err := store.ensureSchema(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
