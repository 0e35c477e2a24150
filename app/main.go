package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-base-sync/app/api"
	"github.com/lysyi3m/rss-base-sync/app/base"
	"github.com/lysyi3m/rss-base-sync/app/cfg"
	"github.com/lysyi3m/rss-base-sync/app/feed"
	"github.com/lysyi3m/rss-base-sync/app/httpclient"
	"github.com/lysyi3m/rss-base-sync/app/notify"
	"github.com/lysyi3m/rss-base-sync/app/summarizer"
	"github.com/lysyi3m/rss-base-sync/app/syncer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS Base Sync", "version", appConfig.Version)

	sources, err := feed.LoadSources(appConfig.Feeds, appConfig.FeedsDir)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}
	if len(sources) == 0 {
		log.Fatal("No enabled feed sources configured")
	}
	slog.Info("Feed sources loaded", "count", len(sources))

	httpClient := httpclient.New(time.Duration(appConfig.Timeout)*time.Second, appConfig.UserAgent)

	store := base.NewClient(httpClient, appConfig.APIBase,
		appConfig.AppID, appConfig.AppSecret, appConfig.BaseToken, appConfig.TableID)
	notifier := notify.NewNotifier(httpClient, appConfig.NotifyWebhookURL)
	extractor := feed.NewExtractor(httpClient)
	summarizer := summarizer.NewSummarizer(httpClient,
		appConfig.AIAPIBase, appConfig.AIAPIKey, appConfig.AIModel)

	if appConfig.AIAPIKey == "" {
		slog.Info("No AI key configured, summaries use the truncation fallback")
	}

	runner := syncer.NewRunner(store, httpClient, extractor, summarizer, notifier, sources)

	if appConfig.Once {
		runOnce(runner)
		return
	}

	serve(appConfig, runner, sources)
}

// runOnce executes a single sync and exits, the mode intended for
// cron-style scheduling.
func runOnce(runner *syncer.Runner) {
	if _, err := runner.Run(context.Background()); err != nil {
		slog.Error("Sync run failed", "error", err)
		os.Exit(1)
	}
}

// serve keeps the process alive with a background sync scheduler and the
// status HTTP API, shutting down gracefully on SIGINT/SIGTERM.
func serve(appConfig *cfg.Cfg, runner *syncer.Runner, sources []feed.Source) {
	scheduler := syncer.NewScheduler(runner, time.Duration(appConfig.SyncInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(scheduler, sources)
	server := api.NewServer(handler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
