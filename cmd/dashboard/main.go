package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"dashboard/internal/backup"
	"dashboard/internal/config"
	"dashboard/internal/logger"
	"dashboard/internal/server"
	"dashboard/internal/storage"
	"dashboard/internal/storage/filestore"
	"dashboard/internal/storage/sqlite"
	"dashboard/internal/util"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

// options are the command line overrides applied on top of the loaded config.
type options struct {
	config  string
	addr    string
	data    string
	storage string
	static  string
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.StringVar(&opts.config, "config", util.EnvOrDefault("DASHBOARD_CONFIG", ""), "Path to a TOML config file")
	fs.StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config)")
	fs.StringVar(&opts.data, "data", "", "Directory holding the flat data files (overrides config)")
	fs.StringVar(&opts.storage, "storage", "", "Storage backend: file or sqlite (overrides config)")
	fs.StringVar(&opts.static, "static", "", "Directory with the built dashboard client (overrides config)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.data != "" {
		cfg.Storage.DataDir = opts.data
	}
	if opts.storage != "" {
		cfg.Storage.Backend = opts.storage
	}
	if opts.static != "" {
		cfg.Server.StaticDir = opts.static
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run() error {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Backup.Enabled {
		uploader, err := backup.New(cfg.Backup, store, log)
		if err != nil {
			return err
		}
		go uploader.Run(ctx, cfg.Backup.Interval)
	}

	srv := server.New(store, log, cfg.Server.StaticDir)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	log.WithFields(logrus.Fields{
		"addr":    httpServer.Addr,
		"storage": cfg.Storage.Backend,
	}).Info("starting server")
	return serve(httpServer, quit, log)
}

// serve runs httpServer until a signal arrives on quit or the listener fails.
// A listener failure is returned; a signal leads to a graceful shutdown.
func serve(httpServer *http.Server, quit <-chan os.Signal, log *logrus.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Error("server stopped unexpectedly")
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown server")
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func openStore(cfg config.Storage, log *logrus.Logger) (storage.Backend, error) {
	switch cfg.Backend {
	case "sqlite":
		path := cfg.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.DataDir, path)
		}
		return sqlite.Open(path, log)
	default:
		return filestore.Open(cfg.DataDir, log)
	}
}
