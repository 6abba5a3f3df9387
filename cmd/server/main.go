package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitclub/internal/adapters/email"
	web "fitclub/internal/adapters/http"
	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/adapters/http/perf"
	"fitclub/internal/adapters/storage"
	accountStore "fitclub/internal/adapters/storage/account"
	memberStore "fitclub/internal/adapters/storage/member"
	paymentStore "fitclub/internal/adapters/storage/payment"
	planStore "fitclub/internal/adapters/storage/plan"
	trialStore "fitclub/internal/adapters/storage/trial"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/config"
	"fitclub/internal/domain/access"
	"fitclub/internal/lib/sl"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fatal("failed to open database", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		fatal("failed to migrate database", err)
	}
	log.Info("database ready", "path", cfg.DBPath)

	// Performance instrumentation: one registry backs both the collector and /metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := perf.NewCollector(reg)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)
	defer timedDB.Close()

	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(timedDB),
		MemberStore:  memberStore.NewSQLiteStore(timedDB),
		PlanStore:    planStore.NewSQLiteStore(timedDB),
		PaymentStore: paymentStore.NewSQLiteStore(timedDB),
		TrialStore:   trialStore.NewSQLiteStore(timedDB),
	}

	// Seed the registration plan outside production, or when asked to
	if cfg.Seed || !cfg.IsProduction() {
		err := orchestrators.ExecuteSeedPlans(ctx, orchestrators.SeedPlansDeps{
			PlanStore:   stores.PlanStore,
			DefaultPlan: cfg.DefaultPlan,
			GenerateID:  func() string { return uuid.New().String() },
		})
		if err != nil {
			fatal("failed to seed plans", err)
		}
	}

	var mailer email.Sender
	if cfg.ResendKey != "" {
		mailer = email.NewResendSender(cfg.ResendKey, cfg.From, cfg.ReplyTo)
		log.Info("email sender configured", "provider", "resend")
	} else {
		mailer = email.NewNoopSender()
		if cfg.IsProduction() {
			log.Warn("FITCLUB_RESEND_KEY is not set, email delivery is disabled")
		}
	}

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		fatal("failed to open session store", err)
	}
	defer closeSessions()

	handler := web.NewMux(stores, web.Options{
		Gate:        access.NewGate(access.Secrets{PlanPassword: cfg.PlanPassword, AdminPassword: cfg.AdminPassword}),
		Policy:      cfg.Policy(),
		DefaultPlan: cfg.DefaultPlan,
		Sessions:    sessions,
		Cookie:      middleware.CookieOptions{Secure: cfg.SecureCookies, MaxAge: cfg.TTL},
		CSRFKey:     []byte(cfg.CSRFKey),
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		SlowRequest: cfg.SlowRequest,
		Collector:   collector,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Health:      timedDB.PingContext,
		Mailer:      mailer,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info("starting fitclub", "version", version, "addr", cfg.Addr, "env", cfg.Env, "sessions", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}
}

// openSessions builds the configured session backend and its cleanup.
func openSessions(ctx context.Context, cfg *config.Config) (middleware.SessionStore, func(), error) {
	if cfg.Backend != config.SessionRedis {
		return middleware.NewMemorySessionStore(cfg.TTL), func() {}, nil
	}
	store, err := middleware.NewRedisSessionStore(ctx, middleware.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("close session store", sl.Err(err))
		}
	}, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func fatal(msg string, err error) {
	slog.Error(msg, sl.Err(err))
	os.Exit(1)
}
