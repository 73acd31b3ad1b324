package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	_ "scribefinder/docs" // swagger docs

	"scribefinder/internal/auth"
	"scribefinder/internal/cache"
	"scribefinder/internal/config"
	"scribefinder/internal/db"
	"scribefinder/internal/handler"
	"scribefinder/internal/logging"
	"scribefinder/internal/mail"
	"scribefinder/internal/media"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
	"scribefinder/internal/router"
	"scribefinder/internal/service"
	"scribefinder/internal/storage"
)

const localImageURLPrefix = "/static/profile_pics"

// @title Scribe Finder API
// @version 1.0
// @description Connects blind students with volunteer scribes: accounts, scribe requests and email matching.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in header
// @name Authorization
// @description Session token from /login. A "session" cookie is accepted as well.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.SQLitePath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.MySQLDSN
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.WithError(err).Warn("redis unavailable, logout will fail and caching is disabled until it recovers")
	}

	images, staticDir, err := newImageStorage(ctx, cfg)
	if err != nil {
		logger.Fatalf("storage init: %v", err)
	}
	wrote, err := storage.EnsureObject(ctx, images, model.DefaultImageFile, media.ContentType(".jpg"), media.Placeholder)
	if err != nil {
		logger.Fatalf("default picture: %v", err)
	}
	if wrote {
		logger.WithField("key", model.DefaultImageFile).Info("default picture written")
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		logger.Fatalf("mail init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	requestRepo := repository.NewScribeRequestRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL, cfg.RememberTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := auth.NewMiddleware(jwtService, tokenStore)

	// Initialize services
	accountService := service.NewAccountService(userRepo, jwtService, tokenStore, images, cacheClient)
	requestService := service.NewRequestService(requestRepo, userRepo, 0)
	matchService := service.NewMatchService(userRepo, requestRepo, mailer, logger)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, logger, sessions, router.Handlers{
		Pages:    handler.NewPageHandler(requestService),
		Auth:     handler.NewAuthHandler(accountService, cfg.CookieSecure),
		Account:  handler.NewAccountHandler(accountService),
		Requests: handler.NewRequestHandler(requestService, matchService),
		Match:    handler.NewMatchHandler(matchService),
	}, router.Options{
		StaticDir: staticDir,
		Ready: func(c echo.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request().Context())
		},
	})

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	logger.Infof("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
}

// newImageStorage returns the profile picture store and, for local storage,
// the directory echo should serve.
func newImageStorage(ctx context.Context, cfg *config.Config) (storage.Service, string, error) {
	if cfg.StorageDriver != "s3" {
		local, err := storage.NewLocalStorage(cfg.UploadDir, localImageURLPrefix)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, "", err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Storage(client, cfg.S3Bucket, cfg.S3KeyPrefix), "", nil
}

func newMailer(cfg *config.Config, logger *logrus.Logger) (mail.Sender, error) {
	if cfg.MailHost == "" {
		logger.Warn("MAIL_HOST not set, notifications are logged instead of sent")
		return mail.NewLogSender(logger), nil
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailSender,
		Timeout:  30 * time.Second,
	})
}
