package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melih/composedeck/internal/adapters/docker"
	"github.com/melih/composedeck/internal/adapters/filesystem"
	"github.com/melih/composedeck/internal/adapters/gitsource"
	"github.com/melih/composedeck/internal/adapters/http"
	"github.com/melih/composedeck/internal/config"
	"github.com/melih/composedeck/internal/core/inventory"
	"github.com/melih/composedeck/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "composedeck",
		Short:         "Serve per-client docker compose inventories over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, os.LookupEnv)
			if err != nil {
				return err
			}
			if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	// 1. Initialize Adapters (Infrastructure)
	dockerAdapter, err := docker.NewAdapter()
	if err != nil {
		return fmt.Errorf("failed to initialize Docker adapter: %w", err)
	}
	defer dockerAdapter.Close()

	if err := dockerAdapter.Ping(ctx); err != nil {
		log.WithError(err).Warn("Docker daemon unreachable; every service will report missing until it recovers")
	}

	matcher, err := inventory.NewMatcher(cfg.ContainerMatcher)
	if err != nil {
		return err
	}
	loader := filesystem.NewLoader(cfg.RootDir, log)
	source := gitsource.NewSource(cfg.RootDir, cfg.CloneDepth, log)

	// 2. Initialize core services
	resolver := inventory.NewResolver(dockerAdapter, matcher, log)
	reconciler := inventory.NewReconciler(loader, resolver, cfg.ReconcileConcurrency, log)
	dispatcher := inventory.NewDispatcher(loader, dockerAdapter, matcher, cfg.LogTail, log)

	// 3. Initialize HTTP Handlers (Interface Adapters)
	clientHandler := http.NewClientHandler(reconciler, dispatcher, source, dockerAdapter, log)
	proxyHandler := http.NewProxyHandler(reconciler, cfg.ProxyHost)
	app := http.NewRouter(clientHandler, proxyHandler, log)

	// 4. Start Server
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr": cfg.ListenAddr,
			"root": cfg.RootDir,
		}).Info("Server starting")
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
