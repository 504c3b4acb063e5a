// Package main provides the enrich-submission-service binary entry
// point. The service enriches automatic submissions with relevant
// reference data and serves the assembled submission documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lblod/enrich-submission-service/config"
	"github.com/lblod/enrich-submission-service/enrich"
	"github.com/lblod/enrich-submission-service/server"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/storage"
	"github.com/lblod/enrich-submission-service/submission"
	"github.com/lblod/enrich-submission-service/task"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "enrich-submission-service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Submission enrichment microservice",
		Long: `The enrich-submission service listens for delta notifications about
automatic submission tasks, computes the meta snapshot of relevant
reference data for each submission and serves the assembled submission
documents over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, logLevel string) error {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := sparql.NewClient(cfg.SPARQL.Endpoint, logger)
	paginator := sparql.NewPaginator(client, cfg.Enrichment.BatchSize, logger)
	store := storage.NewStore(client, cfg.Files.FileGraph, cfg.Files.ShareRoot, logger)
	enricher := enrich.NewEnricher(client, paginator, cfg.Enrichment.PublicGraph, cfg.Enrichment.ConceptSchemes, logger)

	form := submission.NewActiveForm(cfg.Files.ActiveForm, logger)
	if err := form.Watch(); err != nil {
		logger.Warn("Active form watcher not started, serving without reload", "error", err)
	}
	defer form.Close()

	facade := submission.NewFacade(client, store, enricher, form, cfg.Files.FileGraph, logger)
	machine := task.NewMachine(client, logger)
	component := server.NewComponent(machine, facade, logger)

	if cfg.NATS.URL != "" {
		subscriber, err := server.SubscribeDeltas(cfg.NATS.URL, cfg.NATS.Subject, component)
		if err != nil {
			return fmt.Errorf("start nats delta ingress: %w", err)
		}
		defer subscriber.Close()
	}

	mux := http.NewServeMux()
	component.RegisterHTTPHandlers(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Enrich submission service ready",
			"version", Version,
			"listen", cfg.HTTP.Listen,
			"sparql_endpoint", cfg.SPARQL.Endpoint)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-signalCtx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down http server", "error", err)
	}

	// Let in-flight enrichment runs report their status before exit.
	component.Wait()

	logger.Info("Enrich submission service shutdown complete")
	return nil
}
