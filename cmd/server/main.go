package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/config"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/database"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/field"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/handler"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/middleware"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/queue"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/repository"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Env, cfg.LogDir)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.DBMigrate || cfg.DBSeed {
		gdb, err := database.NewGorm(db)
		if err != nil {
			return fmt.Errorf("open gorm: %w", err)
		}
		if cfg.DBMigrate {
			if err := database.Migrate(gdb, log); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		if cfg.DBSeed {
			opts := database.SeedOptions{AdminEmail: cfg.SeedAdminEmail, AdminPassword: cfg.SeedAdminPassword, BcryptCost: cfg.BcryptCost}
			if err := database.Seed(gdb, opts, log); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}

	var rdb *redis.Client
	if client, err := config.NewRedisClient(config.LoadRedisConfig()); err != nil {
		log.Warn("redis unavailable; cache and rate limit disabled", zap.Error(err))
	} else {
		rdb = client
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pub booking.Publisher
	if cfg.RabbitURL != "" {
		p := queue.NewPublisher(cfg.RabbitURL, log)
		defer p.Close()
		pub = p

		journal, err := config.NewJournal(cfg.LogDir, "booking.log")
		if err != nil {
			return fmt.Errorf("open booking journal: %w", err)
		}
		defer func() { _ = journal.Sync() }()
		go func() {
			if err := queue.NewConsumer(cfg.RabbitURL, journal, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set; booking events disabled")
	}

	cacheCfg := config.LoadCacheConfig()
	bookings := booking.NewManager(repository.NewBookingStore(db), pub, log,
		booking.WithStrictTransitions(cfg.StrictTransitions))
	fields := field.NewService(repository.NewFieldRepo(db), middleware.NewCacheInvalidator(cacheCfg, rdb), log)
	users := repository.NewUserRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	chain := router.Chain{
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	}
	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db), log),
		handler.NewProfileHandler(users, log),
		chain)
	router.RegisterFields(e, handler.NewFieldHandler(fields, bookings, log), chain,
		middleware.NewRedisCache(cacheCfg, rdb, log))
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, log), chain)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
