package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/authz"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/config"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/httpapi"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/session"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store/postgres"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/telemetry"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/usercount"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("adminpanel")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool, cfg.SessionTTL)
	sessions := session.NewManager(st)
	resolver := authz.NewResolver(st)
	gate := authz.NewGate(st, resolver)
	counts := usercount.New(st.CountUsers, st.CountProfiles, usercount.WithTTL(cfg.UserCountTTL))

	// Sign-out must reset identity-derived caches before anything else
	// observes the new state, so the subscription goes in ahead of Initialize.
	sessions.Subscribe(func(s *models.Session) {
		if s == nil {
			counts.Reset()
		}
	})
	if err := sessions.Initialize(context.Background()); err != nil {
		log.Fatalf("session init: %v", err)
	}
	if sessions.Degraded() {
		log.Printf("starting in degraded mode, auth reset available at /api/auth/reset")
	}

	handler := httpapi.NewHandler(st, sessions, resolver, gate, counts)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:    cfg.RateLimitPerMinute,
		IPBurst:        cfg.RateLimitBurst,
		TokenPerMinute: cfg.TokenRateLimitPerMinute,
		TokenBurst:     cfg.TokenRateLimitBurst,
	})

	chain := httpapi.AuthMiddleware(sessions, handler.Routes())
	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(chain)), "adminpanel")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("adminpanel listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
