package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	BackendBase string
	BackendRPS  int
	PhotoBase   string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	Workers     int
	CacheTTL    time.Duration
}

// Load reads configuration from the environment, after merging a local
// .env file when one exists (missing file is not an error).
func Load() Config {
	_ = godotenv.Load()

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
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		BackendBase: env("BACKEND_BASE_URL", "http://localhost:3000/api"),
		BackendRPS:  atoi("BACKEND_RPS", 10),
		PhotoBase:   env("PHOTO_BASE_URL", "http://localhost:3000"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		Workers:     atoi("PREFETCH_WORKERS", 4),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.BackendBase == "" {
		log.Warn().Msg("BACKEND_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
