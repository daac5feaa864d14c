package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"inhotel/internal/adapters/observability"
	redisad "inhotel/internal/adapters/redis"
	"inhotel/internal/app"
	"inhotel/internal/shared"
	mysqlrepo "inhotel/internal/storage/mysql"
)

type seedFile struct {
	Hotels []map[string]any `json:"hotels"`
	Users  []map[string]any `json:"users"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.ServiceName+"-seeder")

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Str("verifier", cfg.AuthVerifier).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("decode seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.SeedWorkers)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	verifier, err := app.NewVerifier(cfg.AuthVerifier)
	if err != nil {
		log.Fatal().Err(err).Msg("bad AUTH_VERIFIER")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	svc := app.NewSeedService(repo, cache, verifier)

	// users first so bookings made right after seeding can resolve them
	var failed int64
	for _, u := range seed.Users {
		uid, err := svc.SeedUser(ctx, u)
		if err != nil {
			atomic.AddInt64(&failed, 1)
			log.Warn().Err(err).Msg("seed user failed")
			continue
		}
		log.Debug().Int64("uid", uid).Msg("seed user ok")
	}

	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var wg sync.WaitGroup
	for _, h := range seed.Hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(rec map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			hid, err := svc.SeedHotel(ctx, rec)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn().Err(err).Msg("seed hotel failed")
				return
			}
			log.Info().Int64("hid", hid).Msg("seed hotel ok")
		}(h)
	}

	wg.Wait()
	log.Info().
		Int("hotels", len(seed.Hotels)).
		Int("users", len(seed.Users)).
		Int64("failed", failed).
		Msg("seeding completed")
	if failed > 0 {
		os.Exit(1)
	}
}
