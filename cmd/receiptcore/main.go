package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taxpoint/ms_receipt_core/internal/adapters/debugdump"
	"taxpoint/ms_receipt_core/internal/adapters/extract"
	healthhttp "taxpoint/ms_receipt_core/internal/adapters/http/health"
	receipthttp "taxpoint/ms_receipt_core/internal/adapters/http/receipt"
	"taxpoint/ms_receipt_core/internal/adapters/render/chrome"
	"taxpoint/ms_receipt_core/internal/application/convert"
	apphealth "taxpoint/ms_receipt_core/internal/application/health"
	"taxpoint/ms_receipt_core/internal/application/pipeline"
	"taxpoint/ms_receipt_core/internal/application/validate"
	"taxpoint/ms_receipt_core/internal/core/receipt"
	"taxpoint/ms_receipt_core/internal/infrastructure/config"
	"taxpoint/ms_receipt_core/internal/infrastructure/http/server"
	"taxpoint/ms_receipt_core/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := chrome.New(chrome.Options{
		Timeout:      cfg.Render.Timeout,
		PollInterval: cfg.Render.PollInterval,
		Headless:     cfg.Render.Headless,
		ExecPath:     cfg.Render.ExecPath,
	})
	extractor := extract.New()

	// Code tables are immutable after startup and shared by every run.
	validator := validate.New(receipt.DefaultCodeTables())
	converter := convert.New()

	var capture pipeline.DebugCapture
	if cfg.Debug.Enabled {
		capture = debugdump.New(cfg.Debug.Dir, log)
		log.Info("debug capture enabled", "dir", cfg.Debug.Dir)
	}

	svc := pipeline.NewService(renderer, extractor, validator, converter, capture, log)

	healthHandler := healthhttp.NewHandler(apphealth.NewService(apphealth.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	}, []string{"chrome-renderer"}))
	receiptHandler := receipthttp.NewHandler(svc, log)

	srv, err := server.New(server.Options{
		Config:  cfg,
		Logger:  log,
		Health:  healthHandler,
		Receipt: receiptHandler,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	log.Info("starting HTTP server",
		"port", cfg.HTTP.Port,
		"render_timeout", cfg.Render.Timeout.String(),
		"auth_enabled", cfg.Auth.Enabled,
	)
	return srv.Run(ctx, cfg.HTTP.ShutdownTimeout)
}
