package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/cache"
	"github.com/nikolayk812/littlelemon/internal/config"
	"github.com/nikolayk812/littlelemon/internal/events"
	"github.com/nikolayk812/littlelemon/internal/httpx"
	"github.com/nikolayk812/littlelemon/internal/logger"
	"github.com/nikolayk812/littlelemon/internal/migrations"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/nikolayk812/littlelemon/internal/ratelimit"
	"github.com/nikolayk812/littlelemon/internal/repository"
	"github.com/nikolayk812/littlelemon/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logg, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	must(err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL)
	must(err)
	poolCfg.MaxConns = cfg.DB.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	must(err)
	defer pool.Close()
	must(pool.Ping(ctx))

	if cfg.DB.AutoMigrate {
		applied, err := migrations.Apply(ctx, pool)
		must(err)
		logg.Info().Strs("files", applied).Msg("migrations applied")
	}

	menuItems, err := cache.NewMenuItems(repository.NewMenuItem(pool), cfg.Catalog.CacheSize)
	must(err)
	members := repository.NewMembership(pool)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	limiter, err := ratelimit.NewLimiter(rdb, map[string]int{
		ratelimit.ClassUser: cfg.Throttle.UserLimit,
		ratelimit.ClassAnon: cfg.Throttle.AnonLimit,
	}, cfg.Throttle.Window)
	must(err)

	var publisher port.EventPublisher = events.Noop{}
	if cfg.Rabbit.URL != "" {
		rabbit, err := events.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		must(err)
		defer rabbit.Close()
		publisher = rabbit
	}

	paging := service.Paging{DefaultSize: cfg.Catalog.PageSizeDefault, MaxSize: cfg.Catalog.PageSizeMax}
	unit := cfg.Catalog.Currency

	handler := httpx.NewHandler(httpx.Services{
		Orders: service.NewOrderService(
			repository.NewTransactor(pool), repository.NewOrder(pool), members, publisher, unit, paging, logg),
		Carts:   service.NewCartService(repository.NewCart(pool), menuItems, unit, logg),
		Catalog: service.NewCatalogService(repository.NewCategory(pool), menuItems, unit, paging, logg),
		Books:   service.NewBookService(repository.NewBook(pool), unit, paging, logg),
		Groups:  service.NewGroupService(members, logg),
	}, limiter, pool, cfg.HTTP.IdentityHeader, logg)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpx.NewRouter(handler, cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		logg.Warn().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.Error().Err(err).Msg("srv.Shutdown")
		}
	}()

	logg.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("currency", unit.String()).
		Bool("events", cfg.Rabbit.URL != "").
		Msg("starting littlelemon api")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		must(err)
	}

	<-idle
	logg.Info().Msg("stopped")
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
