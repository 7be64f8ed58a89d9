package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wenhub/content-engine/pkg/contentengine"
	"github.com/wenhub/content-engine/pkg/contentengine/api"
	"github.com/wenhub/content-engine/pkg/contentengine/config"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment
	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	// Build service from configuration
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: routes(svc, cfg),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Content Engine starting on port %s (env: %s, db: %s)", cfg.Port, cfg.Environment, cfg.DatabaseType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func routes(svc contentengine.Service, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "environment": "%s", "database": "%s"}`,
			cfg.Environment, cfg.DatabaseType)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/content-types", api.NewContentTypeHandler(svc).Routes())
		r.Mount("/contents", api.NewContentHandler(svc).Routes())
		r.Mount("/categories", api.NewCategoryHandler(svc).Routes())
		r.Mount("/tags", api.NewTagHandler(svc).Routes())
	})

	return r
}
