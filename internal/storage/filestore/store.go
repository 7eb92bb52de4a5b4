// Package filestore keeps each dashboard collection in its own flat file.
//
// Every mutation reads the whole file, changes it in memory and rewrites it.
// Mutations on one store are serialized by a mutex and by an exclusive flock on a
// sidecar lock file, so separate processes sharing a data directory do not lose writes.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"dashboard/internal/models"
	"dashboard/internal/storage"
)

const (
	TodosFile     = "todo_items.json"
	BookmarksFile = "bookmarks.json"
	NotesFile     = "notesheet.txt"
)

// Store implements storage.Backend on top of plain files in one directory.
type Store struct {
	dir    string
	logger *logrus.Logger
	mu     sync.Mutex
}

var _ storage.Backend = (*Store)(nil)

// Open prepares a store rooted at dir, creating the directory when needed.
func Open(dir string, logger *logrus.Logger) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Close is a no-op; files are opened per call.
func (s *Store) Close() error {
	return nil
}

// SnapshotTo copies the collection files that exist into dir. Writers are held
// off until every file is copied, so the copies belong to one moment.
func (s *Store) SnapshotTo(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var written []string
	for _, name := range []string{TodosFile, BookmarksFile, NotesFile} {
		data, err := os.ReadFile(s.path(name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("snapshot %s: %w", name, err)
		}
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("snapshot %s: %w", name, err)
		}
		written = append(written, target)
	}
	return written, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// ListTodos reads the todo file. A missing or empty file is an empty collection.
func (s *Store) ListTodos(ctx context.Context) ([]models.RawTodo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	todos, err := readJSON[models.RawTodo](s.path(TodosFile))
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// AddTodo appends todo unchanged.
func (s *Store) AddTodo(ctx context.Context, todo models.RawTodo) (models.RawTodo, error) {
	err := s.mutate(ctx, TodosFile, func(path string) error {
		todos, err := readJSON[models.RawTodo](path)
		if err != nil {
			return err
		}
		return writeJSON(path, append(todos, todo))
	})
	if err != nil {
		return models.RawTodo{}, fmt.Errorf("add todo: %w", err)
	}
	return todo, nil
}

// ReplaceTodo swaps the todo matching key for todo.
func (s *Store) ReplaceTodo(ctx context.Context, key string, todo models.RawTodo) (storage.EditOutcome, error) {
	var outcome storage.EditOutcome
	err := s.mutate(ctx, TodosFile, func(path string) error {
		todos, err := readJSON[models.RawTodo](path)
		if err != nil {
			return err
		}
		updated, o, err := storage.ReplaceByKey(todos, key, todo)
		if err != nil {
			return err
		}
		outcome = o
		return writeJSON(path, updated)
	})
	if err != nil {
		return outcome, fmt.Errorf("edit todo: %w", err)
	}
	return outcome, nil
}

// RemoveTodo drops todos named exactly name. The file is left untouched when nothing matches.
func (s *Store) RemoveTodo(ctx context.Context, name string) (storage.RemoveOutcome, error) {
	outcome := storage.NotFound
	err := s.mutate(ctx, TodosFile, func(path string) error {
		todos, err := readJSON[models.RawTodo](path)
		if err != nil {
			return err
		}
		var kept []models.RawTodo
		kept, outcome = storage.RemoveByName(todos, name)
		if outcome == storage.NotFound {
			return nil
		}
		return writeJSON(path, kept)
	})
	if err != nil {
		return outcome, fmt.Errorf("remove todo: %w", err)
	}
	return outcome, nil
}

// ReadNotes returns the notes sheet, or "" when none was saved yet.
func (s *Store) ReadNotes(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path(NotesFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(data), nil
}

// WriteNotes replaces the notes sheet.
func (s *Store) WriteNotes(ctx context.Context, text string) error {
	err := s.mutate(ctx, NotesFile, func(path string) error {
		return writeFileAtomic(path, []byte(text))
	})
	if err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}

// ListBookmarks reads the bookmark file.
func (s *Store) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bookmarks, err := readJSON[models.Bookmark](s.path(BookmarksFile))
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// AddBookmark appends b. The caller assigns its id and creation time.
func (s *Store) AddBookmark(ctx context.Context, b models.Bookmark) (models.Bookmark, error) {
	err := s.mutate(ctx, BookmarksFile, func(path string) error {
		bookmarks, err := readJSON[models.Bookmark](path)
		if err != nil {
			return err
		}
		return writeJSON(path, append(bookmarks, b))
	})
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("add bookmark: %w", err)
	}
	return b, nil
}

// UpdateBookmark merges patch into the bookmark with the given id.
func (s *Store) UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	var updated models.Bookmark
	err := s.mutate(ctx, BookmarksFile, func(path string) error {
		bookmarks, err := readJSON[models.Bookmark](path)
		if err != nil {
			return err
		}
		for i := range bookmarks {
			if bookmarks[i].ID == id {
				bookmarks[i] = patch.Apply(bookmarks[i])
				updated = bookmarks[i]
				return writeJSON(path, bookmarks)
			}
		}
		return storage.ErrNotFound
	})
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("edit bookmark %s: %w", id, err)
	}
	return updated, nil
}

// RemoveBookmark deletes every bookmark with the given id, if present.
func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	err := s.mutate(ctx, BookmarksFile, func(path string) error {
		bookmarks, err := readJSON[models.Bookmark](path)
		if err != nil {
			return err
		}
		kept := make([]models.Bookmark, 0, len(bookmarks))
		for _, b := range bookmarks {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		return writeJSON(path, kept)
	})
	if err != nil {
		return fmt.Errorf("remove bookmark %s: %w", id, err)
	}
	return nil
}

// mutate runs fn for the named file while holding both the in-process and the file lock.
func (s *Store) mutate(ctx context.Context, name string, fn func(path string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(name)
	return withFileLock(path+".lock", func() error {
		if err := fn(path); err != nil {
			return err
		}
		s.logger.WithField("file", name).Debug("collection written")
		return nil
	})
}

// withFileLock executes fn while holding an exclusive lock on the file at path.
func withFileLock(path string, fn func() error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// readJSON decodes a JSON array file. Missing and blank files decode to an empty slice.
func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeJSON rewrites path with items as an indented JSON array.
func writeJSON[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes to a temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
