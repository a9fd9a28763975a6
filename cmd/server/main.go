package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voxform/internal/config"
	"voxform/internal/extraction"
	_ "voxform/internal/extraction/claude"
	_ "voxform/internal/extraction/gemini"
	_ "voxform/internal/extraction/openai"
	"voxform/internal/handler"
	"voxform/internal/logger"
	"voxform/internal/repository/postgres"
	"voxform/internal/router"
	"voxform/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The prompt template must load before any request is accepted.
	prompts, err := extraction.LoadPromptBuilder(cfg.Extraction.PromptTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load prompt template: %w", err)
	}
	provider, err := extraction.NewProvider(&cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to initialize completion provider: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	formRepo := postgres.NewFormRepo(db)
	responseRepo := postgres.NewResponseRepo(db)

	// Initialize services
	extractor := extraction.NewExtractor(provider, prompts, extraction.OptionsFromConfig(&cfg.Extraction), zl)
	formSvc := service.NewFormService(formRepo, zl)
	responseSvc := service.NewResponseService(formRepo, responseRepo, extractor, zl)

	// Initialize handlers
	formH := handler.NewFormHandler(formSvc)
	responseH := handler.NewResponseHandler(responseSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(zl, cfg.CORS.AllowedOrigins, formH, responseH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("provider", cfg.Extraction.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
