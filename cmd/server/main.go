package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	h "github.com/veranemoloko/pov-video-generator/internal/api/http"
	cfgpkg "github.com/veranemoloko/pov-video-generator/internal/config"
	"github.com/veranemoloko/pov-video-generator/internal/integrations"
	svc "github.com/veranemoloko/pov-video-generator/internal/service"
	"github.com/veranemoloko/pov-video-generator/internal/store"
	"github.com/veranemoloko/pov-video-generator/internal/workflow"
)

func main() {

	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfgpkg.SetupLogger(cfg)
	slog.Info("configuration loaded successfully")

	if !cfg.Credentials.HasMandatory() {
		slog.Warn("OpenAI or RunwayML credentials not set, submitted tasks will fail their credential check")
	}

	taskStore := store.NewTaskStore()
	httpClient := integrations.NewHTTPClient(cfg.AdapterTimeout)
	logger := slog.Default()

	adapters := workflow.Adapters{
		Prompts: integrations.NewOpenAIClient(cfg.Credentials.OpenAIAPIKey, cfg.OpenAIBaseURL, httpClient, logger),
		Images:  integrations.NewFluxClient(cfg.Credentials.HuggingFaceAPIKey, cfg.HuggingFaceBaseURL, httpClient, logger),
		Videos:  integrations.NewRunwayClient(cfg.Credentials.RunwayMLAPIKey, cfg.RunwayBaseURL, httpClient, logger),
		Sheets:  integrations.NewSheetsClient(cfg.Credentials.GoogleAPIToken, cfg.SheetsBaseURL, httpClient, logger),
		Mail:    integrations.NewGmailClient(cfg.Credentials.GoogleAPIToken, cfg.GmailBaseURL, httpClient, logger),
	}

	orchestrator := workflow.NewOrchestrator(taskStore, adapters, cfg, logger)
	taskService := svc.NewTaskService(taskStore, orchestrator, cfg, logger)

	router := h.NewRouter(taskService, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	} else {
		slog.Info("server stopped gracefully")
	}

	if err := taskService.Shutdown(shutdownCtx); err != nil {
		slog.Error("task service shutdown failed", "error", err)
	}
}
