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

	"github.com/go-chi/chi/v5"

	httpHandlers "github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/http/handlers"
	httpMiddleware "github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/http/middleware"
	memorystorage "github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/storage/memory"
	redisstorage "github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/storage/redis"
	sqlitestorage "github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/storage/sqlite"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/config"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := sqlitestorage.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open sqlite store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("failed to close sqlite store: %v", err)
		}
	}()

	loginStore, closeLoginStore, err := initLoginStore(cfg)
	if err != nil {
		log.Fatalf("failed to init login attempt store: %v", err)
	}
	defer closeLoginStore()

	hasher, err := services.NewIPHasher(cfg.Hashing.Salt, cfg.Production())
	if err != nil {
		log.Fatalf("failed to create ip hasher: %v", err)
	}

	windowStore := memorystorage.NewWindowStore(cfg.PublicLimit.StoreMaxEntries)
	windowLimiter, err := services.NewWindowLimiter(windowStore)
	if err != nil {
		log.Fatalf("failed to create window limiter: %v", err)
	}

	loginLimiter, err := services.NewLoginLimiter(loginStore)
	if err != nil {
		log.Fatalf("failed to create login limiter: %v", err)
	}

	quotaEngine, err := services.NewReportQuotaEngine(store, services.QuotaConfig{
		MaxPerDay:     cfg.Quota.MaxPerDay,
		MaxPerCompany: cfg.Quota.MaxPerCompany,
	})
	if err != nil {
		log.Fatalf("failed to create quota engine: %v", err)
	}

	csrfTokens, err := services.NewCSRFTokens(cfg.Tokens.CSRFSecret, cfg.Tokens.CSRFTTL, cfg.Production())
	if err != nil {
		log.Fatalf("failed to create csrf token service: %v", err)
	}

	sessionTokens, err := services.NewSessionTokens(cfg.Tokens.SessionSecret, cfg.Tokens.SessionLifetime, cfg.Production())
	if err != nil {
		log.Fatalf("failed to create session token service: %v", err)
	}

	intel, err := services.NewCompanyIntel(store, cfg.Intel.KAnonymityThreshold)
	if err != nil {
		log.Fatalf("failed to create company intel service: %v", err)
	}

	reportsHandler := httpHandlers.NewReports(quotaEngine, hasher, csrfTokens)
	intelHandler := httpHandlers.NewIntel(intel)
	adminHandler := httpHandlers.NewAdmin(loginLimiter, hasher, sessionTokens, csrfTokens, store, cfg.Admin.Password)

	publicLimit := httpMiddleware.PublicLimitRule{
		Scope:       "public-api",
		MaxRequests: cfg.PublicLimit.Requests,
		Window:      cfg.PublicLimit.Window,
	}
	healthLimit := httpMiddleware.PublicLimitRule{
		Scope:       "health",
		MaxRequests: cfg.PublicLimit.Requests,
		Window:      cfg.PublicLimit.Window,
	}

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(httpMiddleware.NewPublicLimiter(windowLimiter, hasher, healthLimit))
		r.Get("/healthz", httpHandlers.Health)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httpMiddleware.NewPublicLimiter(windowLimiter, hasher, publicLimit))
			r.Get("/companies/{key}", intelHandler.Lookup)
			r.Get("/csrf", reportsHandler.FormToken)
		})
		r.Post("/reports", reportsHandler.Submit)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(httpMiddleware.NewAdminGate(sessionTokens, csrfTokens))
			r.Get("/reports", adminHandler.List)
			r.Post("/reports/{id}", adminHandler.Moderate)
		})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// initLoginStore escolhe o backend do limitador de login uma única vez na
// inicialização; os chamadores só enxergam o contrato ports.LoginAttemptStore.
func initLoginStore(cfg config.Config) (ports.LoginAttemptStore, func(), error) {
	switch cfg.LoginLimit.Backend {
	case config.LoginBackendShared:
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		}
		store, err := redisstorage.New(redisCfg, cfg.LoginLimit.MaxAttempts, cfg.LoginLimit.Window, cfg.LoginLimit.LockDuration)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("failed to close redis login store: %v", err)
			}
		}, nil
	case config.LoginBackendMemory:
		store := memorystorage.NewLoginStore(cfg.LoginLimit.MaxAttempts, cfg.LoginLimit.Window, cfg.LoginLimit.LockDuration)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported login limiter backend: %s", cfg.LoginLimit.Backend)
	}
}
