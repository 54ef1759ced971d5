package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexandro/authortree/config"
	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/server"
	"github.com/lexandro/authortree/watcher"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr, origin string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API used by the browser UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := flags.resolveConfigPath()
			if err != nil {
				return err
			}
			load := func() (*config.Config, error) {
				cfg, _, err := flags.load()
				if err != nil {
					return nil, err
				}
				if addr != "" {
					cfg.Server.Addr = addr
				}
				if origin != "" {
					cfg.Server.AllowedOrigin = origin
				}
				return cfg, nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configPath, load)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&origin, "origin", "", "Allowed browser origin, or * (overrides server.allowed_origin)")
	return cmd
}

func apiOptions(cfg *config.Config) server.Options {
	return server.Options{
		AllowedOrigin:     cfg.Server.AllowedOrigin,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		MaxResults:        cfg.Search.MaxResults,
		ContextLines:      cfg.Search.ContextLines,
	}
}

// configLoader reads the config with command-line overrides applied.
type configLoader func() (*config.Config, error)

func runServe(ctx context.Context, configPath string, load configLoader) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	logger, level := setupLogger(cfg.Log.Level, cfg.Log.File, os.Stderr)
	logger.Info("starting authortree",
		"version", server.Version,
		"addr", cfg.Server.Addr,
		"origin", cfg.Server.AllowedOrigin,
		"config", configPath,
	)

	svc := newService(cfg, logger)
	api := server.NewAPI(svc, logger, apiOptions(cfg))

	configWatcher, err := watcher.NewWatcher([]string{configPath}, logger)
	if err != nil {
		logger.Warn("config watcher unavailable, continuing without hot reload", "error", err)
	} else {
		defer configWatcher.Close()
		go configWatcher.Start(ctx)
		go reloadOnChange(configWatcher, configPath, load, svc, api, level, logger)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
		return err
	}
	return nil
}

// reloadOnChange re-reads the config after each batch of file changes and
// applies what can change while serving. Listen address and git binary need a
// restart.
func reloadOnChange(w *watcher.Watcher, configPath string, load configLoader, svc *gitquery.Service, api *server.API, level *slog.LevelVar, logger *slog.Logger) {
	for range w.Events() {
		cfg, err := load()
		if err != nil {
			logger.Warn("config reload failed, keeping previous settings", "path", configPath, "error", err)
			continue
		}
		svc.SetOptions(cfg.GitOptions())
		api.SetOptions(apiOptions(cfg))
		if parsed, err := config.ParseLevel(cfg.Log.Level); err == nil {
			level.Set(parsed)
		}
		logger.Info("config reloaded", "path", configPath)
	}
}
