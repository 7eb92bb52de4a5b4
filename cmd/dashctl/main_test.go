package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/client"
	"dashboard/internal/server"
	"dashboard/internal/storage/filestore"
)

func startService(t *testing.T) string {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store, err := filestore.Open(t.TempDir(), logger)
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(store, logger, "").Engine())
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, url string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTodoCommands(t *testing.T) {
	url := startService(t)

	out, err := runCLI(t, url, nil, "todo", "list")
	require.NoError(t, err)
	assert.Equal(t, "no todos\n", out)

	out, err = runCLI(t, url, nil, "todo", "add", "Buy milk", "-p", "High", "--due", "2030-01-02")
	require.NoError(t, err)
	assert.Equal(t, "added \"Buy milk\"\n", out)

	_, err = runCLI(t, url, nil, "todo", "add", "Call mom")
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "todo", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[High]     Buy milk  due 2030-01-02", lines[0])
	assert.Equal(t, "[Reminder] Call mom", lines[1])

	_, err = runCLI(t, url, nil, "todo", "edit", "Buy milk", "-d", "two litres", "--clear-due")
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "todo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[High]     Buy milk\n    two litres\n")
	assert.NotContains(t, out, "due")

	_, err = runCLI(t, url, nil, "todo", "rm", "Buy milk")
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "todo", "list")
	require.NoError(t, err)
	assert.Equal(t, "[Reminder] Call mom\n", out)
}

func TestTodoCommandErrors(t *testing.T) {
	url := startService(t)

	_, err := runCLI(t, url, nil, "todo", "edit", "missing")
	assert.ErrorContains(t, err, "no todo named")

	_, err = runCLI(t, url, nil, "todo", "add")
	assert.Error(t, err)

	_, err = runCLI(t, url, nil, "todo", "add", "Trip", "--due", "someday")
	assert.ErrorContains(t, err, "invalid --due")

	_, err = runCLI(t, url, nil, "todo", "add", "Trip", "-p", "Urgent")
	assert.Error(t, err)
}

func TestNotesCommands(t *testing.T) {
	url := startService(t)

	out, err := runCLI(t, url, nil, "notes", "set", "# Groceries")
	require.NoError(t, err)
	assert.Equal(t, "notes saved\n", out)

	out, err = runCLI(t, url, nil, "notes", "show")
	require.NoError(t, err)
	assert.Equal(t, "# Groceries\n", out)

	_, err = runCLI(t, url, strings.NewReader("from stdin\n"), "notes", "set", "--file", "-")
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "notes", "show")
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", out)

	_, err = runCLI(t, url, nil, "notes", "set")
	assert.Error(t, err)
}

func TestBookmarkCommands(t *testing.T) {
	url := startService(t)

	out, err := runCLI(t, url, nil, "bookmark", "add", "--title", "Go", "--url", "https://go.dev", "-c", "lang")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "added bookmark "))

	bookmarks, err := client.New(url, nil).ListBookmarks(context.Background())
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	id := bookmarks[0].ID

	_, err = runCLI(t, url, nil, "bm", "edit", id, "--title", "Go home")
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "bookmark", "list")
	require.NoError(t, err)
	assert.Equal(t, id+"  Go home [lang]\n    https://go.dev\n", out)

	_, err = runCLI(t, url, nil, "bookmark", "edit", "404", "--title", "x")
	assert.Error(t, err)

	_, err = runCLI(t, url, nil, "bookmark", "rm", id)
	require.NoError(t, err)

	out, err = runCLI(t, url, nil, "bookmark", "list")
	require.NoError(t, err)
	assert.Equal(t, "no bookmarks\n", out)

	_, err = runCLI(t, url, nil, "bookmark", "add", "--title", "No URL")
	assert.Error(t, err)
}
