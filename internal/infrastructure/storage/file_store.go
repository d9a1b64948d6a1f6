package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps posted URLs in a newline-delimited UTF-8 file, one per line.
// A missing file means nothing has been posted yet. Writes only append.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore does not touch the disk until the first call.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// HasBeenPosted reports whether url equals one of the recorded lines exactly.
func (s *FileStore) HasBeenPosted(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.scan(ctx, func(line string) bool {
		if line == url {
			found = true
			return false
		}
		return true
	})
	return found, err
}

// MarkAsPosted appends url as a new line and syncs it to disk.
func (s *FileStore) MarkAsPosted(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(url, "\r\n") {
		return fmt.Errorf("url contains a line break: %q", url)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}

	if _, err := f.WriteString(url + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append url: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	return nil
}

// List returns every recorded line in file order, duplicates included.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	err := s.scan(ctx, func(line string) bool {
		out = append(out, line)
		return true
	})
	return out, err
}

// Close is a no-op; the file is opened per call.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) scan(ctx context.Context, visit func(line string) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if !visit(line) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read state file: %w", err)
	}
	return nil
}
