package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kchestnov/plutarch/internal/config"
	"github.com/kchestnov/plutarch/internal/engine"
	"github.com/kchestnov/plutarch/internal/handler"
	"github.com/kchestnov/plutarch/internal/middleware"
	"github.com/kchestnov/plutarch/internal/queue"
	"github.com/kchestnov/plutarch/internal/router"
	"github.com/kchestnov/plutarch/internal/rowstore"
	"github.com/kchestnov/plutarch/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	backend, cleanup, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("row store: %v", err)
	}
	defer cleanup()

	st := store.New(backend, cfg.StoreTimeout)
	eng := engine.New(st, cfg.AdminPaymentLink, time.Now)

	// Redis is optional: without it the roster cache middleware is a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response caching disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	if cfg.QueueEnabled {
		go func() {
			if err := queue.StartSettlementConsumer(); err != nil {
				log.Printf("settlement consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, eng))
	router.RegisterGame(e,
		handler.NewGameHandler(eng, cfg.QueueEnabled),
		handler.NewAdminHandler(eng),
		cfg.JWTSecret,
		cacheMW,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openBackend selects the row-store backend from configuration. The memory
// backend keeps everything in process and is meant for development; MySQL is
// the durable default.
func openBackend(cfg config.Config) (rowstore.Backend, func(), error) {
	if cfg.StoreBackend == "memory" {
		return rowstore.NewMemory(), func() {}, nil
	}
	db, err := rowstore.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}
