// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/vanlocweb/vanloc-go/internal/cache"
	"github.com/vanlocweb/vanloc-go/internal/config"
	"github.com/vanlocweb/vanloc-go/internal/handler"
	"github.com/vanlocweb/vanloc-go/internal/logging"
	"github.com/vanlocweb/vanloc-go/internal/middleware"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/report"
	"github.com/vanlocweb/vanloc-go/internal/service"
	"github.com/vanlocweb/vanloc-go/internal/session"
	"github.com/vanlocweb/vanloc-go/internal/store"
	"github.com/vanlocweb/vanloc-go/internal/upload"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "vanloc - community association backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_DB_PATH          SQLite database path (default: ./data/vanloc.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_UPLOADS_DIR      Uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_REPORT_FONT      TTF font for PDF reports (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VANLOC_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("vanloc %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Migrate and seed
	ctx := context.Background()
	dataService := service.NewDataService(db)
	if err := dataService.Bootstrap(ctx, cfg.DoSeed); err != nil {
		return fmt.Errorf("bootstrapping database: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also mirror WARN and ERROR logs to the audit table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized", "lifetime", session.Lifetime)

	// Initialize cache
	cacher, err := cache.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacher.Close() }()

	// Initialize upload store
	uploads, err := upload.NewStore(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("initializing upload store: %w", err)
	}

	// Visit statistics with nightly bucket pruning
	visitService := service.NewVisitService(db, cfg.StatsRetentionDays)
	visitService.StartRetention()
	defer visitService.StopRetention()

	// PDF report renderer
	reports := report.NewRenderer(cfg.ReportFont)

	// Login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	h := handler.New(dataService, visitService, cacher, reports, sessionManager, uploads, loginProtection)
	healthHandler := handler.NewHealthHandler(db)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.VisitTracker(visitService))
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	// Health check routes
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)

	// Public content API
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/news", h.PublicNews)
		r.Get("/news/{id}", h.PublicNewsItem)
		r.Get("/events", h.PublicEvents)
		r.Get("/media", h.PublicMedia)
		r.Get("/members", h.PublicMembers)
		r.Get("/finance", h.PublicFinance)
		r.Get("/stats", h.PublicStats)

		r.Post("/contact", h.PublicContact)
		r.Post("/members/register", h.PublicMemberRegister)
		r.Post("/events/{id}/register", h.PublicEventRegister)
	})

	// Admin API (session-authenticated, CSRF-protected)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.With(loginProtection.Middleware()).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))

			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Get("/dashboard", h.Dashboard)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleContentManager))

				r.Get("/news", h.AdminListNews)
				r.Post("/news", h.AdminCreateNews)
				r.Put("/news/{id}", h.AdminUpdateNews)
				r.Delete("/news/{id}", h.AdminDeleteNews)

				r.Get("/events", h.AdminListEvents)
				r.Post("/events", h.AdminCreateEvent)
				r.Put("/events/{id}", h.AdminUpdateEvent)
				r.Delete("/events/{id}", h.AdminDeleteEvent)

				r.Get("/media", h.AdminListMedia)
				r.Post("/media", h.AdminCreateMedia)
				r.Put("/media/{id}", h.AdminUpdateMedia)
				r.Delete("/media/{id}", h.AdminDeleteMedia)

				r.Post("/uploads", h.UploadImage)
				r.Delete("/uploads", h.DeleteUpload)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleMemberManager))

				r.Get("/members", h.AdminListMembers)
				r.Post("/members", h.AdminCreateMember)
				r.Put("/members/{id}", h.AdminUpdateMember)
				r.Delete("/members/{id}", h.AdminDeleteMember)
				r.Post("/members/{id}/approve", h.AdminApproveMember)

				r.Get("/registrations", h.AdminListRegistrations)
				r.Delete("/registrations/{id}", h.AdminDeleteRegistration)
				r.Get("/reports/events/{id}/roster", h.EventRoster)

				r.Get("/messages", h.AdminListMessages)
				r.Delete("/messages/{id}", h.AdminDeleteMessage)
				r.Post("/messages/{id}/read", h.AdminMarkMessageRead)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleFinanceManager))

				r.Get("/finance", h.AdminListFinance)
				r.Post("/finance", h.AdminCreateFinance)
				r.Put("/finance/{id}", h.AdminUpdateFinance)
				r.Delete("/finance/{id}", h.AdminDeleteFinance)
				r.Get("/reports/finance", h.FinanceReport)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole()) // superadmin only

				r.Get("/users", h.AdminListUsers)
				r.Post("/users", h.AdminCreateUser)
				r.Put("/users/{id}", h.AdminUpdateUser)
				r.Delete("/users/{id}", h.AdminDeleteUser)
			})
		})
	})

	// Uploaded files
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir())))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		uploadsFS.ServeHTTP(w, req)
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
