package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"portfolio/internal/api/middleware"
	"portfolio/internal/api/routes"
	"portfolio/internal/config"
	"portfolio/internal/core/contact"
	"portfolio/internal/core/github"
	"portfolio/internal/db/migrations"
	postgresRepo "portfolio/internal/db/postgres"
	"portfolio/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	// One pooled client for every upstream call
	httpClient := &http.Client{
		Timeout: cfg.GitHub.HTTPTimeout,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: cfg.GitHub.UserAgent,
		},
	}

	clientOpts := []github.ClientOption{}
	if cfg.GitHub.Token != "" {
		clientOpts = append(clientOpts, github.WithToken(cfg.GitHub.Token))
	}
	githubClient := github.NewClient(httpClient, cfg.GitHub.Username, clientOpts...)

	githubStore := postgresRepo.NewGithubCacheRepository(db, cfg.GitHub.FreshWindow(), cfg.GitHub.StaleWindow())
	githubService := github.NewService(githubStore, githubClient,
		github.WithRefreshTimeout(cfg.GitHub.HTTPTimeout),
		github.WithRefreshDedupe(cfg.GitHub.RefreshDedupe),
		github.WithCircuitBreaker(cfg.GitHub.BreakerThreshold, cfg.GitHub.BreakerCooldown),
	)

	contactOpts := []contact.ServiceOption{
		contact.WithRateLimit(cfg.Contact.MaxAttempts, cfg.Contact.AttemptWindow),
	}
	if cfg.SMTP.Enabled() {
		notifier, err := contact.NewSMTPNotifier(contact.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.Contact.Recipient,
		})
		if err != nil {
			log.Fatal("Failed to configure SMTP notifier:", err)
		}
		contactOpts = append(contactOpts, contact.WithNotifier(notifier))
	} else {
		log.Println("SMTP not configured, contact notifications disabled")
	}
	contactService := contact.NewService(postgresRepo.NewContactRepository(db), cfg.Contact.Salt, contactOpts...)

	if removed, err := contactService.CleanupRateLimits(ctx); err != nil {
		log.Printf("Warning: contact rate limit cleanup failed: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d expired contact rate limit records", removed)
	}

	if cfg.SessionSecret == "" {
		log.Println("Warning: SESSION_SECRET not set, preferences will reset on restart")
	}
	prefs := web.NewPreferenceStore(cfg.SessionSecret, cfg.CookieSecure)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()
	r.Use(rateLimiter.Middleware)

	routes.RegisterProjectsRoutes(r, githubService)
	routes.RegisterContactRoutes(r, contactService)
	routes.RegisterWebRoutes(r, githubService, prefs)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.GitHub.HTTPTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Portfolio server starting on port %s (GitHub user: %s)", cfg.Port, cfg.GitHub.Username)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// In-flight background refreshes still write to the database
	githubService.Wait()

	log.Println("Shutdown complete")
}

// userAgentTransport sets the User-Agent GitHub requires on every request
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
