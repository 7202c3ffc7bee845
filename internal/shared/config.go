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
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	WriteRPS    int
	WriteBurst  int
	Workers     int
	CacheTTL    time.Duration
	StatsTTL    time.Duration
}

func Load() Config {
	// optional .env for local development; real deployments set the env
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
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staybook?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		JWTSecret:   env("JWT_SECRET", ""),
		WriteRPS:    atoi("WRITE_RPS", 10),
		WriteBurst:  atoi("WRITE_BURST", 20),
		Workers:     atoi("SEED_WORKERS", 4),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		StatsTTL:    time.Duration(atoi("STATS_TTL_SECONDS", 60)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; authenticated routes will reject all tokens")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
