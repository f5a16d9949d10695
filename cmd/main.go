package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/skycast/auth-service/config"
	"github.com/skycast/auth-service/db"
	"github.com/skycast/auth-service/internal/auth/handler"
	repo "github.com/skycast/auth-service/internal/auth/repository/postgres"
	"github.com/skycast/auth-service/internal/auth/service"
	"github.com/skycast/auth-service/internal/mail"
	"github.com/skycast/auth-service/internal/ratelimit"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	ctx := context.Background()

	if err := db.Migrate(cfg.DBURL); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var mailer mail.Mailer
	if cfg.Env == "production" {
		mailer, err = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.FromEmail,
		})
		if err != nil {
			logger.Error("mailer setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	dispatcher := mail.NewDispatcher(mailer, logger, 4, 64)
	defer dispatcher.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.SessionExpiry, cfg.RememberMeExpiry)
	totpService := service.NewTOTPService(cfg.TOTPIssuer)
	userService := service.NewUserService(userRepo, tokenService, totpService, dispatcher, cfg, logger)
	authHandler := handler.NewAuthHandler(userService, tokenService, cfg, logger)
	limiter := ratelimit.New(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, handler.RateLimit(limiter, authHandler))

	logger.Info("starting auth service", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
