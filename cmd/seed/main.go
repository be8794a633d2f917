package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"invitation/internal/config"
	"invitation/internal/infra/db"
	auth "invitation/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

// カテゴリとsuper_adminを入れる（SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD）
func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	opts := db.SeedOptions{AdminEmail: os.Getenv("SEED_ADMIN_EMAIL")}
	if opts.AdminEmail != "" {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if len(password) < 8 {
			return errors.New("SEED_ADMIN_PASSWORD must be at least 8 characters")
		}
		if opts.AdminPasswordHash, err = auth.NewBcryptPasswordHasher(12).Hash(password); err != nil {
			return err
		}
	}

	if err := db.Seed(context.Background(), gormDB, opts); err != nil {
		return err
	}
	slog.Info("seed done", "admin", opts.AdminEmail)
	return nil
}
