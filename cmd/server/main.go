// Package main is the entry point of the card payment API. It builds every
// dependency from the environment, serves HTTP and shuts down gracefully on
// SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardpay/internal/config"
	"cardpay/internal/handlers"
	applog "cardpay/internal/logger"
	"cardpay/internal/metrics"
	"cardpay/internal/repositories"
	"cardpay/internal/repositories/cache"
	"cardpay/internal/routes"
	"cardpay/internal/services/auth"
	"cardpay/internal/services/card"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/preferences"
	"cardpay/internal/services/session"
	"cardpay/internal/services/tokenizer"
	"cardpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log := applog.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.InitDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("failed to close database connection")
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cacheService := cache.NewCacheService(redisClient, cfg.PreferencesTTL)
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis connection")
		}
	}()
	if err := cacheService.HealthCheck(ctx); err != nil {
		log.WithError(err).Warn("redis unreachable at startup, continuing")
	}

	jwtManager, err := utils.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	m := metrics.New()

	userRepo := repositories.NewUserRepository(db, cacheService, applog.Component(log, "user_repository"))
	cardRepo := repositories.NewCreditCardRepository(db)
	prefsRepo := repositories.NewPreferenceRepository(cacheService, cfg.PreferencesTTL)

	authService := auth.NewService(userRepo, jwtManager, applog.Component(log, "auth"))
	cardService := card.NewService(cardRepo, applog.Component(log, "card"))
	prefsService := preferences.NewService(prefsRepo)

	registry := session.NewRegistry(session.Config{
		Form: cardform.Config{
			MinExpiryYear:   cfg.MinExpiryYear,
			TokenizeTimeout: cfg.TokenizeTimeout,
			CvcVisible:      cfg.CvcVisibleDefault,
		},
		IdleTTL:    cfg.SessionIdleTTL,
		MaxPerUser: cfg.MaxSessionsPerUser,
	}, session.Deps{
		Tokenizer:   tokenizer.New(cfg.TokenizerMode, cfg.StripeSecretKey, applog.Component(log, "tokenizer")),
		Preferences: prefsService,
		Cards:       cardService,
		Metrics:     m,
		Logger:      applog.Component(log, "sessions"),
	})
	defer registry.Shutdown()
	go registry.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:               "cardpay " + version,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Output: log.Writer(),
	}))
	app.Use(m.Middleware())

	for _, path := range []string{"/api/register", "/api/login", "/api/refresh"} {
		app.Use(path, rateLimit())
	}

	routes.SetupRoutes(app, routes.Deps{
		Version:     version,
		Auth:        authService,
		Cards:       cardService,
		Preferences: prefsService,
		Sessions:    registry,
		Metrics:     m,
		AccessTTL:   cfg.AccessTokenTTL,
		RefreshTTL:  cfg.RefreshTokenTTL,
		HealthChecks: map[string]handlers.HealthCheck{
			"database": sqlDB.PingContext,
			"redis":    cacheService.HealthCheck,
		},
		Cache: cacheService,
		Log:   log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Warn("http shutdown")
	}
	return nil
}

func rateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Error(c, fiber.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
		},
	})
}
