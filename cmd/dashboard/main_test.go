package main

import (
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/config"
	"dashboard/internal/storage/filestore"
	"dashboard/internal/storage/sqlite"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"--addr", ":7000", "--storage", "sqlite", "--data", "/srv/dash", "--static", "web"})
	require.NoError(t, err)
	assert.Equal(t, options{addr: ":7000", storage: "sqlite", data: "/srv/dash", static: "web"}, opts)

	_, err = parseOptions([]string{"--port", "1"})
	assert.Error(t, err)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":4000"
static_dir = "from-file"

[storage]
backend = "file"
data_dir = "/var/lib/file"
`), 0o644))
	t.Setenv("DASHBOARD_ADDR", ":5000")
	t.Setenv("DASHBOARD_DATA_DIR", "/var/lib/env")

	cfg, err := loadConfig(options{config: path, addr: ":6000", storage: "sqlite"})
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/env", cfg.Storage.DataDir)
	assert.Equal(t, "from-file", cfg.Server.StaticDir)
}

func TestLoadConfigRejectsUnknownBackendFlag(t *testing.T) {
	_, err := loadConfig(options{storage: "mongo"})
	assert.Error(t, err)
}

func TestOpenStoreFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	store, err := openStore(config.Storage{Backend: "file", DataDir: dir}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.IsType(t, &filestore.Store{}, store)
	assert.DirExists(t, dir)
}

func TestOpenStoreSQLiteRelativePath(t *testing.T) {
	dir := t.TempDir()

	store, err := openStore(config.Storage{Backend: "sqlite", DataDir: dir, SQLitePath: "nested/dash.db"}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.IsType(t, &sqlite.Store{}, store)
	assert.FileExists(t, filepath.Join(dir, "nested", "dash.db"))
}

func TestOpenStoreSQLiteAbsolutePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.db")

	store, err := openStore(config.Storage{Backend: "sqlite", DataDir: t.TempDir(), SQLitePath: abs}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.FileExists(t, abs)
}

func TestServeReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	httpServer := &http.Server{Addr: busy.Addr().String(), Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() { done <- serve(httpServer, quit, quietLogger()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "serve:")
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}

func TestServeStopsOnSignal(t *testing.T) {
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM

	assert.NoError(t, serve(httpServer, quit, quietLogger()))
}
