package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/config"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
	pginfra "github.com/oksasatya/studytube/internal/infrastructure/postgres"
	"github.com/oksasatya/studytube/pkg/helpers"
)

// seed creates a verified demo account with a default folder. Re-running it
// is a no-op for rows that already exist.
func main() {
	_ = godotenv.Load()
	phone := flag.String("phone", "+15555550100", "demo user phone (E.164)")
	name := flag.String("name", "Demo User", "demo user name")
	flag.Parse()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if !helpers.IsE164(*phone) {
		logger.WithField("phone", *phone).Fatal("phone must be E.164")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	folders := pginfra.NewFolderRepository(pool)

	u, err := users.GetByPhone(ctx, *phone)
	switch {
	case err == nil:
		logger.WithField("user_id", u.ID).Info("demo user already exists")
	case errors.Is(err, repository.ErrNotFound):
		u = &entity.User{Phone: *phone, Name: *name, IsVerified: true}
		if err := users.Create(ctx, u); err != nil {
			logger.WithError(err).Fatal("failed to seed user")
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "phone": u.Phone}).Info("seeded demo user")
	default:
		logger.WithError(err).Fatal("failed to look up demo user")
	}

	f := &entity.Folder{UserID: u.ID, Name: "My Courses", Description: "Default folder", Color: entity.DefaultFolderColor}
	if err := folders.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			logger.Info("default folder already exists")
			return
		}
		logger.WithError(err).Fatal("failed to seed folder")
	}
	logger.WithField("folder_id", f.ID).Info("seeded default folder")
}
