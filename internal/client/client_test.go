package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/models"
	"dashboard/internal/server"
	"dashboard/internal/storage/filestore"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestService starts the real HTTP service over a temp file store.
func newTestService(t *testing.T) *Client {
	t.Helper()
	store, err := filestore.Open(t.TempDir(), quietLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(store, quietLogger(), "").Engine())
	t.Cleanup(ts.Close)
	return New(ts.URL, ts.Client())
}

func TestClientTodoLifecycle(t *testing.T) {
	c := newTestService(t)
	ctx := context.Background()

	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	record := models.RawTodo{Name: "Buy Milk!", Priority: "Low", Created: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, c.AddTodo(ctx, record))

	outcome, err := c.EditTodo(ctx, "Buy Milk!", models.RawTodo{Name: "Buy oat milk", Priority: "High"})
	require.NoError(t, err)
	assert.Equal(t, "replaced", outcome)

	outcome, err = c.RemoveTodo(ctx, "Buy Milk!")
	require.NoError(t, err)
	assert.Equal(t, "not_found", outcome)

	todos, err = c.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy oat milk", todos[0].Name)

	outcome, err = c.RemoveTodo(ctx, "Buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, "removed", outcome)
}

func TestClientEditAmbiguous(t *testing.T) {
	c := newTestService(t)
	ctx := context.Background()
	require.NoError(t, c.AddTodo(ctx, models.RawTodo{Name: "Call mom"}))
	require.NoError(t, c.AddTodo(ctx, models.RawTodo{Name: "call mom!"}))

	_, err := c.EditTodo(ctx, "Call mom", models.RawTodo{Name: "x"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.Code)
	assert.Contains(t, statusErr.Message, "more than one")
}

func TestClientEditRejectsEmptyKey(t *testing.T) {
	c := New("http://127.0.0.1:0", nil)

	_, err := c.EditTodo(context.Background(), "???", models.RawTodo{})
	assert.Error(t, err)
}

func TestClientNotesAndBookmarks(t *testing.T) {
	c := newTestService(t)
	ctx := context.Background()

	require.NoError(t, c.SaveNotes(ctx, "line 1\nline 2"))
	notes, err := c.GetNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2", notes)

	created, err := c.AddBookmark(ctx, NewBookmark{Title: "Go", URL: "https://go.dev"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Created)

	title := "Go docs"
	updated, err := c.EditBookmark(ctx, created.ID, models.BookmarkPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Go docs", updated.Title)
	assert.Equal(t, "https://go.dev", updated.URL)

	bookmarks, err := c.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bookmark{updated}, bookmarks)

	require.NoError(t, c.RemoveBookmark(ctx, created.ID))
	bookmarks, err = c.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	_, err = c.AddBookmark(ctx, NewBookmark{URL: "https://no-title.example"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
}
