package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"scribefinder/internal/auth"
	"scribefinder/internal/config"
	"scribefinder/internal/db"
	apperrors "scribefinder/internal/errors"
	"scribefinder/internal/media"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
	"scribefinder/internal/service"
	"scribefinder/internal/storage"
)

type seedUser struct {
	input    service.RegisterInput
	requests []service.RequestInput
}

var seedUsers = []seedUser{
	{
		input: service.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123", Blind: true},
		requests: []service.RequestInput{
			{ExamDate: "2025-06-02", PhoneNumber: "555-0101", Address: "Main Library, Room 12"},
			{ExamDate: "2025-06-09", PhoneNumber: "555-0101", Address: "Science Block, Hall B"},
		},
	},
	{
		input: service.RegisterInput{Username: "dev", Email: "dev@example.com", Password: "password123", Blind: true},
		requests: []service.RequestInput{
			{ExamDate: "2025-06-05", PhoneNumber: "555-0144", Address: "Engineering Annex 3"},
		},
	},
	{
		input: service.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "password123"},
	},
}

func main() {
	logger := logrus.StandardLogger()
	logger.Info("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	dsn := cfg.SQLitePath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.MySQLDSN
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	ctx := context.Background()
	if cfg.StorageDriver == "local" {
		if err := writePlaceholder(ctx, cfg.UploadDir); err != nil {
			logger.Fatalf("Failed to write default picture: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(gormDB)
	requestRepo := repository.NewScribeRequestRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL, cfg.RememberTTL)
	accounts := service.NewAccountService(userRepo, jwtService, nil, nil, nil)
	requests := service.NewRequestService(requestRepo, userRepo, 0)

	created, skipped := 0, 0
	for _, su := range seedUsers {
		user, err := accounts.Register(ctx, su.input)
		if errors.Is(err, apperrors.ErrValidation) {
			logger.WithField("username", su.input.Username).Info("Skipping existing user")
			skipped++
			continue
		}
		if err != nil {
			logger.Fatalf("Failed to register %s: %v", su.input.Username, err)
		}

		sess := &auth.Session{UserID: user.ID}
		for _, in := range su.requests {
			if _, err := requests.Create(ctx, sess, in); err != nil {
				logger.Fatalf("Failed to create request for %s: %v", user.Username, err)
			}
		}
		logger.WithFields(logrus.Fields{
			"username": user.Username,
			"role":     user.Role,
			"requests": len(su.requests),
		}).Info("Seeded user")
		created++
	}

	logger.Infof("Seed completed: %d users created, %d skipped", created, skipped)
}

func writePlaceholder(ctx context.Context, dir string) error {
	local, err := storage.NewLocalStorage(dir, "")
	if err != nil {
		return err
	}
	_, err = storage.EnsureObject(ctx, local, model.DefaultImageFile, media.ContentType(".jpg"), media.Placeholder)
	return err
}
