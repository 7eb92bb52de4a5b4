// Package storage defines the persistence contract shared by the dashboard backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"dashboard/internal/models"
)

var (
	// ErrAmbiguousKey is returned when an edit key matches more than one todo.
	ErrAmbiguousKey = errors.New("key matches more than one todo")
	// ErrNotFound is returned when a bookmark id does not exist.
	ErrNotFound = errors.New("not found")
)

// EditOutcome reports what a todo replacement did to the collection.
type EditOutcome int

const (
	// Replaced means exactly one record matched and was swapped for the new one.
	Replaced EditOutcome = iota
	// Appended means nothing matched and the new record was added.
	Appended
)

func (o EditOutcome) String() string {
	if o == Replaced {
		return "replaced"
	}
	return "appended"
}

// RemoveOutcome reports whether a removal dropped anything.
type RemoveOutcome int

const (
	Removed RemoveOutcome = iota
	NotFound
)

func (o RemoveOutcome) String() string {
	if o == Removed {
		return "removed"
	}
	return "not_found"
}

// TodoStore persists the todo collection in insertion order.
type TodoStore interface {
	ListTodos(ctx context.Context) ([]models.RawTodo, error)
	AddTodo(ctx context.Context, todo models.RawTodo) (models.RawTodo, error)
	// ReplaceTodo swaps the record whose derived key equals key for todo, appending when none match.
	ReplaceTodo(ctx context.Context, key string, todo models.RawTodo) (EditOutcome, error)
	// RemoveTodo drops every record whose name equals name exactly.
	RemoveTodo(ctx context.Context, name string) (RemoveOutcome, error)
}

// NoteStore persists the notes sheet.
type NoteStore interface {
	ReadNotes(ctx context.Context) (string, error)
	WriteNotes(ctx context.Context, text string) error
}

// BookmarkStore persists bookmarks.
type BookmarkStore interface {
	ListBookmarks(ctx context.Context) ([]models.Bookmark, error)
	AddBookmark(ctx context.Context, b models.Bookmark) (models.Bookmark, error)
	UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error)
	RemoveBookmark(ctx context.Context, id string) error
}

// Backend bundles every store the server needs.
type Backend interface {
	TodoStore
	NoteStore
	BookmarkStore
	// SnapshotTo writes a consistent copy of the persisted state into dir and
	// returns the paths it wrote.
	SnapshotTo(ctx context.Context, dir string) ([]string, error)
	Close() error
}

// ReplaceByKey applies the edit rule to an in-memory collection.
func ReplaceByKey(todos []models.RawTodo, key string, todo models.RawTodo) ([]models.RawTodo, EditOutcome, error) {
	key = models.DeriveKey(key)
	kept := make([]models.RawTodo, 0, len(todos)+1)
	matches := 0
	for _, t := range todos {
		if models.DeriveKey(t.Name) == key {
			matches++
			continue
		}
		kept = append(kept, t)
	}
	switch matches {
	case 0:
		return append(kept, todo), Appended, nil
	case 1:
		return append(kept, todo), Replaced, nil
	default:
		return todos, Replaced, fmt.Errorf("%w: %q (%d matches)", ErrAmbiguousKey, key, matches)
	}
}

// RemoveByName applies the exact-name removal rule to an in-memory collection.
func RemoveByName(todos []models.RawTodo, name string) ([]models.RawTodo, RemoveOutcome) {
	kept := make([]models.RawTodo, 0, len(todos))
	for _, t := range todos {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(todos) {
		return todos, NotFound
	}
	return kept, Removed
}
