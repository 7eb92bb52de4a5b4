// Package storagetest holds the behaviour every storage.Backend must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/models"
	"dashboard/internal/storage"
)

// Run exercises a fresh backend from open for each subtest.
func Run(t *testing.T, open func(t *testing.T) storage.Backend) {
	t.Run("EmptyStoreListsNothing", func(t *testing.T) { testEmpty(t, open(t)) })
	t.Run("AddThenList", func(t *testing.T) { testAddThenList(t, open(t)) })
	t.Run("ReplaceSingleMatch", func(t *testing.T) { testReplaceSingle(t, open(t)) })
	t.Run("ReplaceWithoutMatchAppends", func(t *testing.T) { testReplaceAppends(t, open(t)) })
	t.Run("ReplaceAmbiguousIsRejected", func(t *testing.T) { testReplaceAmbiguous(t, open(t)) })
	t.Run("RemoveExactName", func(t *testing.T) { testRemove(t, open(t)) })
	t.Run("ConcurrentAdds", func(t *testing.T) { testConcurrentAdds(t, open(t)) })
	t.Run("Notes", func(t *testing.T) { testNotes(t, open(t)) })
	t.Run("Bookmarks", func(t *testing.T) { testBookmarks(t, open(t)) })
	t.Run("BookmarksSharingAnID", func(t *testing.T) { testBookmarksSharingID(t, open(t)) })
	t.Run("SnapshotTo", func(t *testing.T) { testSnapshot(t, open(t)) })
}

func strPtr(s string) *string { return &s }

func sampleTodo(name string) models.RawTodo {
	return models.RawTodo{
		Name:        name,
		Description: "first line\nsecond line",
		Priority:    "High",
		Created:     "2024-05-01T08:30:00.000Z",
		DoneBy:      strPtr("2024-06-01T00:00:00.000Z"),
	}
}

func testEmpty(t *testing.T, s storage.Backend) {
	ctx := context.Background()

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	bookmarks, err := s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	notes, err := s.ReadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", notes)
}

func testAddThenList(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	first := sampleTodo("Buy Milk!")
	second := models.RawTodo{Name: "No deadline", Priority: "Low", Created: "2024-05-02T00:00:00.000Z"}

	got, err := s.AddTodo(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	_, err = s.AddTodo(ctx, second)
	require.NoError(t, err)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.RawTodo{first, second}, todos)
}

func testReplaceSingle(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	for _, name := range []string{"Buy Milk!", "Walk dog", "Call mom"} {
		_, err := s.AddTodo(ctx, sampleTodo(name))
		require.NoError(t, err)
	}

	replacement := sampleTodo("Buy oat milk")
	outcome, err := s.ReplaceTodo(ctx, models.DeriveKey("Buy Milk!"), replacement)
	require.NoError(t, err)
	assert.Equal(t, storage.Replaced, outcome)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, replacement, todos[2])
	for _, todo := range todos {
		assert.NotEqual(t, "Buy Milk!", todo.Name)
	}
}

func testReplaceAppends(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	_, err := s.AddTodo(ctx, sampleTodo("Walk dog"))
	require.NoError(t, err)

	outcome, err := s.ReplaceTodo(ctx, "missing", sampleTodo("Brand new"))
	require.NoError(t, err)
	assert.Equal(t, storage.Appended, outcome)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func testReplaceAmbiguous(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	for _, name := range []string{"Buy milk", "buy milk!"} {
		_, err := s.AddTodo(ctx, sampleTodo(name))
		require.NoError(t, err)
	}

	_, err := s.ReplaceTodo(ctx, "buymilk", sampleTodo("Replacement"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrAmbiguousKey))

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Buy milk", todos[0].Name)
	assert.Equal(t, "buy milk!", todos[1].Name)
}

func testRemove(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	for _, name := range []string{"Buy Milk!", "Walk dog"} {
		_, err := s.AddTodo(ctx, sampleTodo(name))
		require.NoError(t, err)
	}

	outcome, err := s.RemoveTodo(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, storage.NotFound, outcome)
	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	outcome, err = s.RemoveTodo(ctx, "Buy Milk!")
	require.NoError(t, err)
	assert.Equal(t, storage.Removed, outcome)
	todos, err = s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Walk dog", todos[0].Name)
}

func testConcurrentAdds(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.AddTodo(ctx, sampleTodo(fmt.Sprintf("task %d", i))); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, workers)
}

func testNotes(t *testing.T, s storage.Backend) {
	ctx := context.Background()

	require.NoError(t, s.WriteNotes(ctx, "# Groceries\n- eggs\n"))
	notes, err := s.ReadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "# Groceries\n- eggs\n", notes)

	require.NoError(t, s.WriteNotes(ctx, ""))
	notes, err = s.ReadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", notes)
}

func testBookmarks(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	first := models.Bookmark{ID: "1", Title: "Go", URL: "https://go.dev", Created: "2024-01-01T00:00:00.000Z"}
	second := models.Bookmark{ID: "2", Title: "Gin", URL: "https://gin-gonic.com", Category: strPtr("web"), Created: "2024-01-02T00:00:00.000Z"}

	for _, b := range []models.Bookmark{first, second} {
		got, err := s.AddBookmark(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	updated, err := s.UpdateBookmark(ctx, "1", models.BookmarkPatch{Title: strPtr("The Go site"), Description: strPtr("docs")})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ID)
	assert.Equal(t, "The Go site", updated.Title)
	assert.Equal(t, "https://go.dev", updated.URL)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "docs", *updated.Description)

	_, err = s.UpdateBookmark(ctx, "404", models.BookmarkPatch{Title: strPtr("x")})
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.RemoveBookmark(ctx, "2"))
	require.NoError(t, s.RemoveBookmark(ctx, "does-not-exist"))

	bookmarks, err := s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bookmark{updated}, bookmarks)
}

func testBookmarksSharingID(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	first := models.Bookmark{ID: "1735787045000", Title: "Go", URL: "https://go.dev", Created: "2025-01-02T03:04:05.000Z"}
	second := models.Bookmark{ID: "1735787045000", Title: "Gin", URL: "https://gin-gonic.com", Created: "2025-01-02T03:04:05.000Z"}

	_, err := s.AddBookmark(ctx, first)
	require.NoError(t, err)
	_, err = s.AddBookmark(ctx, second)
	require.NoError(t, err)

	bookmarks, err := s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bookmark{first, second}, bookmarks)

	updated, err := s.UpdateBookmark(ctx, first.ID, models.BookmarkPatch{Title: strPtr("The Go site")})
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", updated.URL)

	bookmarks, err = s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bookmark{updated, second}, bookmarks)

	require.NoError(t, s.RemoveBookmark(ctx, first.ID))
	bookmarks, err = s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func testSnapshot(t *testing.T, s storage.Backend) {
	ctx := context.Background()
	_, err := s.AddTodo(ctx, sampleTodo("Snapshot me"))
	require.NoError(t, err)
	require.NoError(t, s.WriteNotes(ctx, "kept"))

	dir := t.TempDir()
	files, err := s.SnapshotTo(ctx, dir)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		info, err := os.Stat(file)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = s.AddTodo(ctx, sampleTodo("After snapshot"))
	require.NoError(t, err)
	again, err := s.SnapshotTo(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, files, again)
}
