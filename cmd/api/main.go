package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invitation/internal/config"
	"invitation/internal/infra/cache"
	"invitation/internal/infra/db"
	"invitation/internal/payment"
	"invitation/internal/server"
	"invitation/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい（本番は環境変数）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detailCache, closeCache := newCatalogCache(ctx, cfg, logger)
	defer closeCache()

	//決済シミュレーター + サーキットブレーカー
	gateway := payment.NewBreakerGateway(
		payment.NewSimulator(cfg.PaymentSuccessRate, nil, time.Now),
		payment.BreakerSettings{},
		logger,
	)

	e := server.New(server.Deps{
		Config:  cfg,
		DB:      gormDB,
		Cache:   detailCache,
		Gateway: gateway,
		Clock:   usecase.SystemClock{},
		Logger:  logger,
	})

	return server.Run(ctx, e, ":"+cfg.Port, logger)
}

// prodはJSON、それ以外はテキスト
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// REDIS_ADDRが空、またはつながらなければキャッシュなしで動く
func newCatalogCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (usecase.TemplateDetailCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("catalog cache disabled")
		return cache.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "err", err)
		_ = client.Close()
		return cache.Noop{}, func() {}
	}

	logger.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	return cache.NewTemplateDetailCache(client, cfg.CatalogCacheTTL), func() { _ = client.Close() }
}
