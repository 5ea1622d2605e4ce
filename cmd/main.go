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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/visabuddy/visabuddy-backend/internal/app"
	"github.com/visabuddy/visabuddy-backend/internal/handlers"
	"github.com/visabuddy/visabuddy-backend/internal/middleware"
	"github.com/visabuddy/visabuddy-backend/internal/observability"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
	"github.com/visabuddy/visabuddy-backend/internal/server"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.Init(registry)
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "visabuddy-backend",
		Environment: envutil.Str("APP_MODE", "dev"),
	})

	// App
	log.Info("Setting up application from main...")
	application, err := app.New(log)
	if err != nil {
		log.Fatal("Application init failed", "error", err)
	}

	// Handlers
	checklistHandler := handlers.NewChecklistHandler(log, application.Checklists)
	probabilityHandler := handlers.NewProbabilityHandler(log, application.Probability)
	questionnaireHandler := handlers.NewQuestionnaireHandler(log, application.Questionnaires)
	authMiddleware := middleware.NewInternalAuthMiddleware(log)

	router := server.NewRouter(server.RouterConfig{
		ChecklistHandler:     checklistHandler,
		ProbabilityHandler:   probabilityHandler,
		QuestionnaireHandler: questionnaireHandler,
		AuthMiddleware:       authMiddleware,
		MetricsRegistry:      registry,
	})

	port := envutil.Str("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Server shutdown failed", "error", err)
		}
		if err := shutdownOtel(shutdownCtx); err != nil {
			log.Warn("Tracer shutdown failed", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server exited with error", "error", err)
	}
	log.Info("Server stopped")
}
