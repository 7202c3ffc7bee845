package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "staybook/internal/adapters/http_server"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ledger := app.NewLedger(repo, repo, cache)
	catalog := app.NewCatalogService(repo, cache, cfg.CacheTTL)
	admin := app.NewAdminService(repo, repo, cache, cfg.StatsTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Ledger:  ledger,
		Catalog: catalog,
		Admin:   admin,
		Auth:    server.NewAuthenticator(cfg.JWTSecret),
		Writes:  rate.NewLimiter(rate.Limit(cfg.WriteRPS), cfg.WriteBurst),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
