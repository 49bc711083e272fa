package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"table-admin/internal/config"
	"table-admin/internal/schema"
	"table-admin/internal/server"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		server.Error("config_load_failed", nil, err)
		os.Exit(1)
	}

	server.ConfigureLogging(cfg.LogFormat, cfg.LogLevel)

	// Refuse to start on invalid settings; missing optional ones only warn.
	if err := config.Validate(cfg); err != nil {
		server.Error("config_invalid", nil, err)
		os.Exit(1)
	}
	for _, w := range config.Warnings(cfg) {
		server.Warn(w, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := buildServer(ctx, cfg)
	cancel()
	if err != nil {
		server.Error("startup_failed", nil, err)
		os.Exit(1)
	}

	// Start the HTTP server in a background goroutine so we can wait for signals.
	errCh := make(chan error, 1)
	go func() {
		server.Info("starting", map[string]interface{}{
			"addr":    cfg.Addr(),
			"version": version,
			"driver":  cfg.Driver,
		})
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		server.Info("shutting_down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			server.Error("shutdown_error", nil, err)
			os.Exit(1)
		}
		server.Info("shutdown_complete", nil)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Error("server_error", nil, err)
			os.Exit(1)
		}
	}
}

// buildServer wires the connector, schema manager and asset store described
// by cfg into an HTTP server. It does not touch the database.
func buildServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	dialect, err := schema.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn := schema.NewConnector(dialect, schema.Server{
		Host:           cfg.Host,
		User:           cfg.User,
		Password:       cfg.Password,
		SSLMode:        cfg.SSLMode,
		ConnectTimeout: cfg.ConnectTimeout,
	},
		schema.WithMaxConnections(cfg.MaxConnections),
		schema.WithAllowedInstances(cfg.Instances()),
	)

	var assets server.AssetStore
	if cfg.AssetsFromBucket() {
		bucket, err := server.NewBucketAssets(ctx, cfg.AssetsEndpoint, cfg.AssetsAccessKey, cfg.AssetsSecretKey, cfg.AssetsBucket)
		if err != nil {
			return nil, fmt.Errorf("asset bucket: %w", err)
		}
		assets = bucket
	} else {
		assets = server.NewDirAssets(cfg.StaticDir)
	}

	return server.New(server.Config{
		Addr:    cfg.Addr(),
		Version: version,
		Manager: schema.NewManager(conn),
		Assets:  assets,
	}), nil
}
