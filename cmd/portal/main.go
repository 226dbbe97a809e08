package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/civiclink/complaints/internal/agency"
	complaintapi "github.com/civiclink/complaints/internal/complaint/api"
	"github.com/civiclink/complaints/internal/complaint/infrastructure"
	"github.com/civiclink/complaints/internal/complaint/service"
	"github.com/civiclink/complaints/internal/notification"
	"github.com/civiclink/complaints/internal/shared/auth"
	"github.com/civiclink/complaints/internal/shared/config"
	"github.com/civiclink/complaints/internal/shared/database"
	"github.com/civiclink/complaints/internal/shared/metrics"
	secmiddleware "github.com/civiclink/complaints/internal/shared/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// Notification worker pool; channels without credentials no-op
	notifier := notification.NewService(
		notification.NewEmailProvider(cfg.Notification),
		notification.NewSMSProvider(cfg.Notification),
		cfg.Notification,
	)
	notifier.Start(ctx)
	defer notifier.Stop()

	complaintRepo := infrastructure.NewPostgresRepository(db.Pool)
	complaintSvc := service.New(complaintRepo, notifier)
	complaintHandler := complaintapi.NewHandler(complaintSvc)

	agencyRepo := agency.NewRepository(db.Pool)
	agencyHandler := agency.NewHandler(agencyRepo)

	// Staff-only routes are open in development and JWT-protected in production
	var staffMiddleware []func(http.Handler) http.Handler
	if cfg.Server.Env == "production" {
		staffMiddleware = append(staffMiddleware, auth.Middleware(cfg.Auth))
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	r.Use(metrics.Middleware)
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(db))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/complaints", complaintHandler.Routes(staffMiddleware...))
		r.Mount("/agencies", agencyHandler.Routes(staffMiddleware...))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("========================================")
	fmt.Println("Citizen Complaint Portal")
	fmt.Println("========================================")
	fmt.Printf("Environment: %s\n", cfg.Server.Env)
	fmt.Printf("Server:      http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:         http://localhost:%d/api\n", cfg.Server.Port)
	fmt.Printf("Health:      http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Println("========================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func readyHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if err := db.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		allReady := checks["database"] == "ready"

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
