package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"inhotel/internal/adapters/events"
	server "inhotel/internal/adapters/http_server"
	"inhotel/internal/adapters/observability"
	"inhotel/internal/adapters/places"
	redisad "inhotel/internal/adapters/redis"
	"inhotel/internal/app"
	"inhotel/internal/domain"
	"inhotel/internal/shared"
	mysqlrepo "inhotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.ServiceName)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(cfg.MySQLMaxOpen)
	db.SetMaxIdleConns(cfg.MySQLMaxIdle)
	db.SetConnMaxLifetime(cfg.MySQLConnMaxAge)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	verifier, err := app.NewVerifier(cfg.AuthVerifier)
	if err != nil {
		log.Fatal().Err(err).Msg("bad AUTH_VERIFIER")
	}

	// deps
	repo := mysqlrepo.New(db)

	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; serving without cache")
		_ = rc.Close()
	} else {
		cache = rc
		defer rc.Close()
	}

	var bookingEvents domain.BookingEvents = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName, 1024)
		p.Start()
		defer p.Close()
		bookingEvents = p
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("booking events enabled")
	}

	h := &server.Handlers{
		Auth:       app.NewAuthService(repo, verifier),
		Booking:    app.NewBookingService(repo, repo, repo, bookingEvents),
		Q:          app.NewQueryService(repo, repo, cache, cfg.CacheTTL),
		LoginRPS:   cfg.LoginRPS,
		LoginBurst: cfg.LoginBurst,
	}
	if cfg.PlacesKey != "" {
		pc, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize places client")
		}
		h.Places = pc
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)
	if cfg.StaticDir != "" {
		srv.MountStatic(cfg.StaticDir)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
