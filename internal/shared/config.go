package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	ServiceName string
	HTTPAddr    string
	MetricsAddr string
	StaticDir   string

	MySQLDSN        string
	MySQLMaxOpen    int
	MySQLMaxIdle    int
	MySQLConnMaxAge time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	AuthVerifier string
	LoginRPS     float64
	LoginBurst   int

	PlacesBase string
	PlacesKey  string
	PlacesRPS  int

	KafkaBrokers []string
	KafkaTopic   string

	SeedFile    string
	SeedWorkers int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Real environment variables win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		ServiceName: env("SERVICE_NAME", "inhotel"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		StaticDir:   env("STATIC_DIR", ""),

		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/inhotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		MySQLMaxOpen:    atoi("MYSQL_MAX_OPEN", 20),
		MySQLMaxIdle:    atoi("MYSQL_MAX_IDLE", 10),
		MySQLConnMaxAge: time.Duration(atoi("MYSQL_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		AuthVerifier: env("AUTH_VERIFIER", "plaintext"),
		LoginRPS:     atof("LOGIN_RPS", 1),
		LoginBurst:   atoi("LOGIN_BURST", 5),

		PlacesBase: env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:  env("PLACES_API_KEY", ""),
		PlacesRPS:  atoi("PLACES_RPS", 5),

		KafkaBrokers: splitList(env("KAFKA_BROKERS", "")),
		KafkaTopic:   env("KAFKA_TOPIC", "booking.created"),

		SeedFile:    env("SEED_FILE", "seed.json"),
		SeedWorkers: atoi("SEED_WORKERS", 8),
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty; /places is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
