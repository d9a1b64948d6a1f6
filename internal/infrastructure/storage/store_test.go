package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"NewsRelay/internal/config"
)

type opener func(t *testing.T, path string) Store

func openFile(t *testing.T, path string) Store {
	t.Helper()
	return NewFileStore(path)
}

func openSQLite(t *testing.T, path string) Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return store
}

func backends() map[string]struct {
	open opener
	file string
} {
	return map[string]struct {
		open opener
		file string
	}{
		"file":   {open: openFile, file: "state/posted_articles.txt"},
		"sqlite": {open: openSQLite, file: "state/posted.db"},
	}
}

func TestStoreDedupSurvivesReopen(t *testing.T) {
	t.Parallel()

	for name, b := range backends() {
		b := b
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), b.file)

			store := b.open(t, path)
			posted, err := store.HasBeenPosted(ctx, "https://news.example/a")
			if err != nil {
				t.Fatalf("HasBeenPosted on empty store: %v", err)
			}
			if posted {
				t.Fatal("empty store must report false")
			}

			if err := store.MarkAsPosted(ctx, "https://news.example/a"); err != nil {
				t.Fatalf("MarkAsPosted: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			reopened := b.open(t, path)
			defer reopened.Close()

			for i := 0; i < 3; i++ {
				posted, err = reopened.HasBeenPosted(ctx, "https://news.example/a")
				if err != nil || !posted {
					t.Fatalf("expected url to stay posted after reopen, got %v %v", posted, err)
				}
			}
		})
	}
}

func TestStoreExactMatchOnly(t *testing.T) {
	t.Parallel()

	for name, b := range backends() {
		b := b
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := b.open(t, filepath.Join(t.TempDir(), b.file))
			defer store.Close()

			if err := store.MarkAsPosted(ctx, "https://news.example/world/a"); err != nil {
				t.Fatalf("MarkAsPosted: %v", err)
			}

			for _, candidate := range []string{
				"https://news.example/world",
				"https://news.example/world/a/",
				"HTTPS://news.example/world/a",
				"https://news.example/world/a?x=1",
			} {
				posted, err := store.HasBeenPosted(ctx, candidate)
				if err != nil {
					t.Fatalf("HasBeenPosted: %v", err)
				}
				if posted {
					t.Fatalf("%s must not match a different recorded url", candidate)
				}
			}
		})
	}
}

func TestStoreAllowsDuplicateWrites(t *testing.T) {
	t.Parallel()

	for name, b := range backends() {
		b := b
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := b.open(t, filepath.Join(t.TempDir(), b.file))
			defer store.Close()

			for _, u := range []string{"https://a.example/1", "https://a.example/2", "https://a.example/1"} {
				if err := store.MarkAsPosted(ctx, u); err != nil {
					t.Fatalf("MarkAsPosted(%s): %v", u, err)
				}
			}

			got, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			want := []string{"https://a.example/1", "https://a.example/2", "https://a.example/1"}
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("List = %v, want %v", got, want)
			}
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "posted_articles.txt")
	store := NewFileStore(path)

	if err := store.MarkAsPosted(ctx, "https://news.example/a"); err != nil {
		t.Fatalf("MarkAsPosted: %v", err)
	}
	if err := store.MarkAsPosted(ctx, "https://news.example/b"); err != nil {
		t.Fatalf("MarkAsPosted: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if string(raw) != "https://news.example/a\nhttps://news.example/b\n" {
		t.Fatalf("unexpected file contents: %q", raw)
	}

	if err := store.MarkAsPosted(ctx, "https://news.example/c\nhttps://evil.example"); err == nil {
		t.Fatal("expected error for url with a line break")
	}
}

func TestFileStoreReadsExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "posted_articles.txt")
	if err := os.WriteFile(path, []byte("https://old.example/1\r\n\nhttps://old.example/2"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	store := NewFileStore(path)
	for _, u := range []string{"https://old.example/1", "https://old.example/2"} {
		posted, err := store.HasBeenPosted(context.Background(), u)
		if err != nil || !posted {
			t.Fatalf("expected %s to be posted, got %v %v", u, posted, err)
		}
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	t.Parallel()

	store := newSQLStore(nil, sq.Dollar)
	query, args, err := store.builder.Select("1").From(postedTable).Where(sq.Eq{"url": "https://a.example"}).Limit(1).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if query != "SELECT 1 FROM posted_articles WHERE url = $1 LIMIT 1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "https://a.example" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(ctx, config.StorageConfig{Driver: "file", Path: filepath.Join(dir, "p.txt")})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}

	store, err = Open(ctx, config.StorageConfig{Driver: "sqlite", Path: filepath.Join(dir, "p.db")})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLStore); !ok {
		t.Fatalf("expected *SQLStore, got %T", store)
	}

	if _, err := Open(ctx, config.StorageConfig{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
	if _, err := Open(ctx, config.StorageConfig{Driver: "redis"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
