package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"natours/docs"
	"natours/internal/auth"
	"natours/internal/cache"
	"natours/internal/config"
	"natours/internal/db"
	"natours/internal/handler"
	"natours/internal/logger"
	"natours/internal/mail"
	"natours/internal/middleware"
	"natours/internal/model"
	"natours/internal/repository"
	"natours/internal/router"
	"natours/internal/service"
)

// @title Natours API
// @version 1.0
// @description Tours marketplace API: tours, reviews, bookings and cookie based JWT sessions.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name jwt
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "http://localhost:" + cfg.ServerPort
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisKeyPrefix)
	defer cacheClient.Close()

	sender, closeSender, err := newSender(cfg, log)
	if err != nil {
		log.Fatal("mail transport", zap.Error(err))
	}
	defer closeSender()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tourRepo := repository.NewTourRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)

	// Initialize auth components
	now := time.Now
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn).WithClock(now)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	mailer := mail.NewMailer(sender, cfg.AppBaseURL)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		jwtService,
		hasher,
		tokenStore,
		mailer,
		service.AuthConfig{ResetTokenTTL: cfg.ResetTokenTTL},
		now,
		logger.WithComponent(log, "auth"),
	)
	tourService := service.NewTourService(tourRepo, cacheClient)
	reviewService := service.NewReviewService(reviewRepo, tourRepo, tourService)
	accountService := service.NewAccountService(userRepo, hasher, reviewService, cfg.DeactivationRetention, now)
	bookingService := service.NewBookingService(bookingRepo, tourRepo)

	// Initialize handlers
	userCRUD := handler.NewCRUD[model.User](userRepo, model.UserQuerySchema,
		handler.WithStrippedFields[model.User]("password", "passwordConfirm"))
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.CookieExpiresIn),
		Users:    handler.NewUserHandler(userCRUD, accountService, authService, cfg.CookieExpiresIn),
		Tours:    handler.NewTourHandler(tourRepo, tourService),
		Reviews:  handler.NewReviewHandler(reviewRepo, reviewService),
		Bookings: handler.NewBookingHandler(bookingRepo, bookingService),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, logger.WithComponent(log, "http"), middleware.NewAuth(jwtService, authService), handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go service.NewPurgeWorker(accountService, cfg.PurgeInterval, logger.WithComponent(log, "purge")).Run(ctx)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("swagger", cfg.AppBaseURL+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

// migrate creates the schema. With reset the tables are dropped first, children before parents.
func migrate(gormDB *gorm.DB, reset bool, log *zap.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.Booking{}, &model.Review{}, "tour_guides", &model.Tour{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn("drop table", zap.Any("table", table), zap.Error(err))
			}
		}
	}
	return gormDB.AutoMigrate(&model.User{}, &model.Tour{}, &model.Review{}, &model.Booking{})
}

// newSender picks the mail transport. The returned func releases it.
func newSender(cfg *config.Config, log *zap.Logger) (mail.Sender, func(), error) {
	switch cfg.MailTransport {
	case "ses":
		sender, err := mail.NewSESSender(context.Background(), cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName)
		if err != nil {
			return nil, nil, err
		}
		return sender, func() {}, nil
	case "kafka":
		publisher := mail.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Warn("close kafka publisher", zap.Error(err))
			}
		}, nil
	default:
		return mail.NewLogSender(logger.WithComponent(log, "mail")), func() {}, nil
	}
}
